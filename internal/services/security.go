package services

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Güvenlik olay türleri.
const (
	EventAdminLogin       = "admin_login"
	EventAdminLoginFailed = "admin_login_failed"
	EventAdminLogout      = "admin_logout"
	EventCatalogSaved     = "catalog_saved"
	EventCatalogReset     = "catalog_reset"
)

// SecurityLogger, güvenlik olaylarını loglar
type SecurityLogger struct {
	logger *zap.Logger
}

// NewSecurityLogger, path'i açar (yoksa oluşturur) ve ona JSON satırları ekler.
func NewSecurityLogger(path string) (*SecurityLogger, error) {
	if path == "" {
		path = "security.log"
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Sampling = nil
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &SecurityLogger{logger: l.Named("security")}, nil
}

// NewSecurityLoggerFrom, mevcut bir logger'ı sarar.
func NewSecurityLoggerFrom(l *zap.Logger) *SecurityLogger {
	return &SecurityLogger{logger: l}
}

// LogSecurityEvent, güvenlik olayını loglar
func (sl *SecurityLogger) LogSecurityEvent(eventType, details, ipAddress string) {
	if sl == nil || sl.logger == nil {
		return
	}
	sl.logger.Info(eventType,
		zap.String("event", eventType),
		zap.String("details", details),
		zap.String("ip", ipAddress))
}

// LoginAttempt, bir admin giriş denemesini kaydeder.
func (sl *SecurityLogger) LoginAttempt(ipAddress string, ok bool) {
	if ok {
		sl.LogSecurityEvent(EventAdminLogin, "admin session opened", ipAddress)
		return
	}
	sl.LogSecurityEvent(EventAdminLoginFailed, "wrong password", ipAddress)
}

// Close, log dosyasını kapatır
func (sl *SecurityLogger) Close() {
	if sl != nil && sl.logger != nil {
		_ = sl.logger.Sync()
	}
}
