package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"eventfinder/shared/go/logging"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("event finder backend stopped")
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logging.SetGlobalLogger(logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ix, err := loadGeoIndex(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}

	if cfg.Ticketmaster.APIKey == "" {
		log.Warn().Msg("TICKETMASTER_API_KEY not set, searches will report the key as missing")
	}

	server := newHTTPServer(cfg, newHTTPHandler(cfg, ix))

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("event finder backend listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
