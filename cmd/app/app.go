package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"
	"github.com/tapfolio/tapfolio/internal/adapters/config"
	"github.com/tapfolio/tapfolio/internal/adapters/controller/rest"
	"github.com/tapfolio/tapfolio/internal/adapters/database/postgres"
	"github.com/tapfolio/tapfolio/internal/domain/service"
	"github.com/tapfolio/tapfolio/pkg/logger"
	"github.com/tapfolio/tapfolio/pkg/logger/types"
	qr "github.com/tapfolio/tapfolio/pkg/qrcode"
)

type App struct {
	Server *http.Server
	Logger *types.Logger
}

func New(cfg *config.Config) (*App, error) {
	httpLogger, err := logger.Named("http")
	if err != nil {
		return nil, err
	}
	qrLogger, err := logger.Named("qr")
	if err != nil {
		return nil, err
	}

	fetcher := qr.NewHTTPFetcher()
	qrService := service.NewQRService(
		qr.NewRenderer(fetcher, qrLogger.SugaredLogger),
		qr.NewCompositor(fetcher),
		cfg.Storage,
		qrLogger,
	)

	cardService := service.NewCardService(
		postgres.NewCardStorage(cfg.Database),
		qrService,
		cfg.Redis.Codes,
		cfg.Redis.Views,
		viper.GetString("service.public-host"),
		httpLogger,
	)

	handler := rest.NewHandler(cardService, httpLogger)
	router := rest.Router(handler, viper.GetString("service.storage.dir"))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", viper.GetInt("service.port")),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &App{
		Server: server,
		Logger: httpLogger,
	}, nil
}

// Start serves until SIGINT/SIGTERM, then drains in-flight requests so a
// running generation can finish instead of leaving a half-written record.
func (a *App) Start() {
	go func() {
		a.Logger.Infof("listening on %s", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.Panicf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := a.Server.Shutdown(ctx); err != nil {
		a.Logger.Errorf("shutdown: %v", err)
	}
	a.Logger.Info("server stopped")
}
