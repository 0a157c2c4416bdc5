package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/melodex/melodex/internal/config"
	"github.com/melodex/melodex/internal/store"
)

type Server struct {
	cfg   *config.Config
	http  *http.Server
	store *store.Store // held for graceful close
}

func New(cfg *config.Config) (*Server, error) {
	s := &Server{cfg: cfg}

	router, st, err := s.setupRoutes()
	if err != nil {
		return nil, fmt.Errorf("setup routes: %w", err)
	}
	s.store = st

	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Run serves until ctx is cancelled, then drains in-flight requests and
// closes the store.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("graceful shutdown initiated")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := s.http.Shutdown(shutdownCtx)

		if s.store != nil {
			if closeErr := s.store.Close(); closeErr != nil {
				log.Warn().Err(closeErr).Msg("error closing store")
			} else {
				log.Info().Msg("store closed")
			}
		}

		return err
	case err := <-errCh:
		return err
	}
}
