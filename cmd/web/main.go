package main

import (
	"context"
	"crypto/tls"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coffebless/internal/config"
	"coffebless/internal/logging"
	"coffebless/internal/server"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	logger, err := logging.New(cfg.Development())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := server.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}
	defer app.Close()
	app.Start(ctx)

	servers := []*http.Server{}
	if !cfg.DevTLS {
		srv := &http.Server{Addr: ":" + cfg.Port, Handler: app.Router}
		servers = append(servers, srv)
		go func() {
			logger.Info("HTTP server starting", zap.String("addr", "http://localhost:"+cfg.Port))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("HTTP server failed", zap.Error(err))
			}
		}()
	} else {
		cert, external, err := server.DevCertificate(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			logger.Fatal("TLS certificate", zap.Error(err))
		}
		logger.Info("TLS certificate ready", zap.Bool("external", external))

		httpsServer := &http.Server{
			Addr:      ":" + cfg.HTTPSPort,
			Handler:   app.Router,
			TLSConfig: &tls.Config{Certificates: []tls.Certificate{cert}},
		}
		// HTTP server (HTTPS'e yönlendirme)
		httpServer := &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: server.HTTPSRedirect(cfg.HTTPSPort),
		}
		servers = append(servers, httpsServer, httpServer)

		go func() {
			logger.Info("HTTPS server starting", zap.String("addr", "https://localhost:"+cfg.HTTPSPort))
			if err := httpsServer.ListenAndServeTLS("", ""); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("HTTPS server failed", zap.Error(err))
			}
		}()
		go func() {
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("HTTP redirect server failed", zap.Error(err))
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", zap.String("addr", srv.Addr), zap.Error(err))
		}
	}
}
