package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"coffebless/internal/auth"
	"coffebless/internal/catalog"
	"coffebless/internal/config"
	"coffebless/internal/database"
	"coffebless/internal/database/postgres"
	"coffebless/internal/database/sqlite"
	"coffebless/internal/handlers"
	"coffebless/internal/pet"
	"coffebless/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// App is a fully wired service.
type App struct {
	Router  *gin.Engine
	Catalog *catalog.Store
	Carts   *services.CartService
	Pets    *pet.Hub

	cfg     config.Config
	logger  *zap.Logger
	closers []io.Closer
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// OpenRepository returns the catalog repository named by cfg.CatalogBackend.
// The io.Closer is nil for the JSON slot.
func OpenRepository(ctx context.Context, cfg config.Config) (catalog.Repository, io.Closer, error) {
	switch strings.ToLower(cfg.CatalogBackend) {
	case config.BackendSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.BackendPostgres:
		s, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.BackendJSON, "":
		db, err := database.NewDatabase(cfg.CatalogFile, cfg.CatalogVersion)
		if err != nil {
			return nil, nil, err
		}
		return db, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown catalog backend %q", cfg.CatalogBackend)
	}
}

// New builds every component from cfg.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := &App{cfg: cfg, logger: logger}

	repo, closer, err := OpenRepository(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open catalog repository: %w", err)
	}
	if closer != nil {
		app.closers = append(app.closers, closer)
	}
	app.Catalog = catalog.Open(ctx, repo, logger.Named("catalog"), catalog.WithTimeout(cfg.StorageTimeout))
	logger.Info("catalog loaded",
		zap.String("backend", cfg.CatalogBackend),
		zap.String("source", app.Catalog.Status().Source),
		zap.Int("products", len(app.Catalog.Products())))

	app.Carts = services.NewCartService(app.Catalog, logger.Named("cart"), services.WithCartTTL(cfg.CartTTL))
	app.Pets = pet.NewHub(logger.Named("pet"), pet.WithInterval(cfg.PetTick))

	security, err := services.NewSecurityLogger(cfg.SecurityLog)
	if err != nil {
		logger.Warn("security log unavailable, using main logger", zap.Error(err))
		security = services.NewSecurityLoggerFrom(logger.Named("security"))
	} else {
		app.closers = append(app.closers, closerFunc(func() error { security.Close(); return nil }))
	}

	sessions, err := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		app.Close()
		return nil, err
	}
	if cfg.SessionSecret == "" {
		logger.Warn("SESSION_SECRET not set, admin sessions end on restart")
	}

	email := services.NewEmailService(services.EmailConfig{
		Host: cfg.SMTP.Host,
		Port: cfg.SMTP.Port,
		User: cfg.SMTP.User,
		Pass: cfg.SMTP.Pass,
		From: cfg.SMTP.From,
		To:   cfg.SMTP.To,
	}, logger.Named("email"))

	h := handlers.NewHandler(handlers.Deps{
		Catalog:  app.Catalog,
		Carts:    app.Carts,
		Email:    email,
		Security: security,
		Sessions: sessions,
		Pets:     app.Pets,
		Logger:   logger,
		Config: handlers.Config{
			WhatsAppPhone:     cfg.WhatsAppPhone,
			AdminPassword:     cfg.AdminPassword,
			AdminPasswordHash: cfg.AdminPasswordHash,
			SecureCookies:     cfg.SecureCookies,
			SlugProductIDs:    cfg.SlugProductIDs,
		},
	})

	app.Router, err = NewRouter(h, logger, RouterConfig{CORSOrigins: cfg.CORSOrigins})
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("build router: %w", err)
	}
	return app, nil
}

// Start runs the pet ticker and the idle cart sweeper until ctx is done.
func (a *App) Start(ctx context.Context) {
	go a.Pets.Run(ctx)
	go a.Carts.RunSweeper(ctx, a.cfg.CartSweep)
}

// Close releases storage handles.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
