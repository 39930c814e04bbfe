package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rocketscienceinc/matchrelay-backend/internal/match"
)

type sessionGetter interface {
	GetSession(ctx context.Context, id string) (*match.State, error)
}

// Start - serves the read-only HTTP surface: health check and session lookup.
func Start(ctx context.Context, sessions sessionGetter, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", pingHandler)
	mux.HandleFunc("/sessions/", sessionHandler(sessions))

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
