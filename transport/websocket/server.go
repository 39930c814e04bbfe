package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/rocketscienceinc/matchrelay-backend/internal/pkg"
	"github.com/rocketscienceinc/matchrelay-backend/internal/usecase"
)

type relay interface {
	FindMatch(ctx context.Context, connectionID, name string) (*usecase.MatchStarted, error)
	MakeMove(ctx context.Context, connectionID, sessionID string, moveIndex int) (*usecase.MoveResult, error)
	Disconnect(ctx context.Context, connectionID string) *usecase.MatchAborted
}

type Server struct {
	logger *slog.Logger
	relay  relay

	connectionsMutex sync.RWMutex
	connections      map[string]*connection

	handlers map[string]func(ctx context.Context, connectionID string, message *Message) error
}

func New(logger *slog.Logger, relay relay) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		relay:  relay,

		connections: make(map[string]*connection),
		handlers:    make(map[string]func(context.Context, string, *Message) error),
	}

	server.handlers[actionFindMatch] = server.handleFindMatch
	server.handlers[actionMakeMove] = server.handleMakeMove

	return server
}

// Start - starts the WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	// No read/write timeouts: hijacked connections stay open for the
	// lifetime of a match.
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		IdleTimeout: 30 * time.Second,
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

// upgradeToWebSocket - upgrades the connection and serves its message loop.
// Every connection gets a generated identifier for its whole lifetime.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	if req.Header.Get("Upgrade") != "websocket" {
		http.Error(writer, "not a websocket upgrade", http.StatusBadRequest)
		return
	}

	key := req.Header.Get("Sec-WebSocket-Key")
	acceptKey := pkg.GenerateAcceptKey(key)

	writer.Header().Set("Upgrade", "websocket")
	writer.Header().Set("Connection", "Upgrade")
	writer.Header().Set("Sec-WebSocket-Accept", acceptKey)
	writer.WriteHeader(http.StatusSwitchingProtocols)

	hijacker, ok := writer.(http.Hijacker)
	if !ok {
		log.Error("web server does not support hijacking")
		return
	}

	netConn, bufrw, err := hijacker.Hijack()
	if err != nil {
		log.Error("failed to hijack connection", "error", err)
		return
	}
	defer netConn.Close()

	connectionID := pkg.GenerateConnectionID()
	conn := &connection{rw: bufrw}

	that.connectionsMutex.Lock()
	that.connections[connectionID] = conn
	that.connectionsMutex.Unlock()

	log.Info("connection established", "connectionID", connectionID)

	that.handleMessages(ctx, connectionID, conn)
	that.handleDisconnect(ctx, connectionID)
}

// handleMessages - processes inbound messages until the client goes away.
func (that *Server) handleMessages(ctx context.Context, connectionID string, conn *connection) {
	log := that.logger.With("method", "handleMessages", "connectionID", connectionID)

	for {
		reqBody, err := readFrame(conn.rw)
		if err != nil {
			log.Info("connection closed", "error", err)
			return
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			continue
		}

		if err = handler(ctx, connectionID, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// handleDisconnect - forgets the connection and tears down whatever it was
// part of: a queue slot silently, a live match with an opponent notification.
func (that *Server) handleDisconnect(ctx context.Context, connectionID string) {
	log := that.logger.With("method", "handleDisconnect", "connectionID", connectionID)

	that.connectionsMutex.Lock()
	delete(that.connections, connectionID)
	that.connectionsMutex.Unlock()

	aborted := that.relay.Disconnect(ctx, connectionID)
	if aborted == nil {
		log.Info("connection disconnected")
		return
	}

	that.sendToConnection(aborted.Opponent.ConnectionID, actionMatchEnded, Payload{
		GameID: aborted.SessionID,
		Reason: usecase.ReasonOpponentLeft,
	})

	log.Info("connection disconnected mid-match", "sessionID", aborted.SessionID)
}

// sendToConnection - sends one event to one connection, if it is still there.
func (that *Server) sendToConnection(connectionID, action string, payload Payload) {
	that.connectionsMutex.RLock()
	conn, ok := that.connections[connectionID]
	that.connectionsMutex.RUnlock()

	if !ok {
		that.logger.Warn("connection not found", "connectionID", connectionID)
		return
	}

	if err := that.sendMessage(conn, action, payload); err != nil {
		that.logger.Error("failed to send message", "connectionID", connectionID, "action", action, "error", err)
	}
}
