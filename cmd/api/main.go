package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"daraja/internal/config"
	"daraja/internal/daraja"
	httpx "daraja/internal/http"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	driver := daraja.NewDriver(
		cfg.Daraja.ConsumerKey,
		cfg.Daraja.ConsumerSecret,
		daraja.WithEnvironment(cfg.App.Env),
	)

	// Log every state transition for the lifetime of the process.
	go logStateTransitions(ctx, driver)

	r := httpx.NewRouter(cfg, driver)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Msgf("Daraja API listening on :%s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	cancel()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	log.Info().Msg("server stopped")
}

func logStateTransitions(ctx context.Context, driver *daraja.Driver) {
	states, cancel := driver.Subscribe()
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-states:
			if !ok {
				return
			}
			log.Info().Str("message", st.Message).Bool("is_loading", st.IsLoading).Msg("state")
		}
	}
}
