package handler

import (
	"context"
	"net/http"
	"sync"

	"coffebless/internal/config"
	"coffebless/internal/logging"
	"coffebless/internal/server"

	"github.com/gin-gonic/gin"
)

var (
	once    sync.Once
	app     *server.App
	initErr error
)

func setup() {
	cfg, err := config.Load()
	if err != nil {
		initErr = err
		return
	}
	gin.SetMode(gin.ReleaseMode)
	logger, err := logging.New(false)
	if err != nil {
		initErr = err
		return
	}
	app, initErr = server.New(context.Background(), cfg, logger)
}

// Handler serves the whole app as a single serverless function. Background
// tickers do not run here; pets only change through actions.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(setup)
	if initErr != nil {
		http.Error(w, "servicio no disponible: "+initErr.Error(), http.StatusServiceUnavailable)
		return
	}
	app.Router.ServeHTTP(w, r)
}
