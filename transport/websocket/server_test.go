package websocket

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/matchrelay-backend/internal/usecase"
)

type stubRelay struct{}

func (stubRelay) FindMatch(_ context.Context, _, _ string) (*usecase.MatchStarted, error) {
	return nil, nil
}

func (stubRelay) MakeMove(_ context.Context, _, _ string, _ int) (*usecase.MoveResult, error) {
	return nil, nil
}

func (stubRelay) Disconnect(_ context.Context, _ string) *usecase.MatchAborted {
	return nil
}

func TestServer_GracefulShutdown(t *testing.T) {
	// Given: a running server on an ephemeral port
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := New(logger, stubRelay{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(ctx, "0")
	}()

	time.Sleep(100 * time.Millisecond)

	// When: the context is cancelled
	cancel()

	// Then: the server exits cleanly
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}
}
