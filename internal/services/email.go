package services

import (
	"fmt"
	"html"
	"strings"

	"coffebless/internal/models"
	"coffebless/internal/order"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// EmailConfig, SMTP ayarlarını tutar. Kullanıcı ve şifre yoksa e-posta
// devre dışıdır.
type EmailConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
	// To, sipariş kopyalarını alan kafe gelen kutusudur.
	To string
}

// sender, servisin kullandığı gomail.Dialer kısmıdır.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailService, e-posta gönderimi için kullanılır
type EmailService struct {
	dialer sender
	from   string
	to     string
	logger *zap.Logger
}

// NewEmailService, yeni bir EmailService örneği oluşturur
func NewEmailService(cfg EmailConfig, logger *zap.Logger) *EmailService {
	if logger == nil {
		logger = zap.NewNop()
	}
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	es := &EmailService{from: from, to: cfg.To, logger: logger}

	// Eğer SMTP bilgileri ayarlanmamışsa, e-posta gönderimi devre dışı
	if cfg.User == "" || cfg.Pass == "" || cfg.To == "" {
		logger.Info("SMTP not configured, order copies disabled")
		return es
	}
	host, port := cfg.Host, cfg.Port
	if host == "" {
		host = "smtp.gmail.com"
	}
	if port == 0 {
		port = 587
	}
	es.dialer = gomail.NewDialer(host, port, cfg.User, cfg.Pass)
	return es
}

// Enabled, e-postanın gerçekten gönderilip gönderilmediğini bildirir.
func (es *EmailService) Enabled() bool {
	return es != nil && es.dialer != nil
}

// SendOrderCopy, WhatsApp fişini kafenin gelen kutusuna gönderir.
func (es *EmailService) SendOrderCopy(h models.Handoff, form models.CheckoutForm) error {
	if !es.Enabled() {
		if es != nil {
			es.logger.Debug("order copy skipped, mail disabled", zap.Int64("total", h.TotalPrice))
		}
		return nil
	}

	m := es.orderMessage(h, form)
	if err := es.dialer.DialAndSend(m); err != nil {
		es.logger.Error("order copy failed", zap.String("to", es.to), zap.Error(err))
		return fmt.Errorf("send order copy: %w", err)
	}
	es.logger.Info("order copy sent", zap.String("to", es.to), zap.Int64("total", h.TotalPrice))
	return nil
}

func (es *EmailService) orderMessage(h models.Handoff, form models.CheckoutForm) *gomail.Message {
	subject := fmt.Sprintf("Nuevo pedido — %d productos, $%s", h.TotalItems, order.FormatCLP(h.TotalPrice))
	if name := strings.TrimSpace(form.CustomerName); name != "" {
		subject += " — " + name
	}
	body := fmt.Sprintf(`
		<h2>Nuevo pedido</h2>
		<pre style="font-family:inherit">%s</pre>
		<p><a href="%s">Abrir en WhatsApp</a></p>
	`, html.EscapeString(h.Text), html.EscapeString(h.URL))

	m := gomail.NewMessage()
	m.SetHeader("From", es.from)
	m.SetHeader("To", es.to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", h.Text)
	m.AddAlternative("text/html", body)
	return m
}
