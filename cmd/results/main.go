// Command results runs the student results web application.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/student-results/internal/config"
	"github.com/deppfellow/student-results/internal/database"
	"github.com/deppfellow/student-results/internal/handler"
	"github.com/deppfellow/student-results/internal/logger"
	"github.com/deppfellow/student-results/internal/repository"
	"github.com/deppfellow/student-results/internal/router"
	"github.com/deppfellow/student-results/internal/server"
	"github.com/deppfellow/student-results/internal/service"
	"github.com/deppfellow/student-results/internal/view"
)

const (
	migrationTimeout = 60 * time.Second
	shutdownTimeout  = 30 * time.Second
)

func main() {
	cfg := config.MustLoadConfig()

	loggerService := logger.NewLoggerService(cfg.Observability)
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	migrateCtx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
	err := database.Migrate(migrateCtx, &log, cfg)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	renderer, err := view.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load templates")
	}

	repos := repository.NewRepositories(srv)
	services := service.NewServices(srv, repos)
	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers, renderer)

	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
