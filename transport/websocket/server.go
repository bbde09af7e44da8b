package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const shutdownTimeout = 5 * time.Second

type gameManager interface {
	Connect(ctx context.Context, connectionID string)
	Disconnect(ctx context.Context, connectionID string)

	Search(ctx context.Context, playerID, name string) error
	Invite(ctx context.Context, inviterID, inviteeID string) error
	AcceptInvitation(ctx context.Context, inviterID, acceptorID string) error
	DeclineInvitation(ctx context.Context, declinerID, inviterID string) error

	MakeMark(ctx context.Context, playerID string, cellIndex int) error
	LeaveGame(ctx context.Context, playerID string) error
}

type Options struct {
	AllowedOrigins []string
	ReadLimit      int64
	WriteWait      time.Duration
	PongWait       time.Duration
	SendBuffer     int
}

func (that Options) pingPeriod() time.Duration {
	return that.PongWait * 9 / 10
}

type Server struct {
	logger      *slog.Logger
	hub         *Hub
	gameManager gameManager
	options     Options
	upgrader    websocket.Upgrader

	handlers map[string]func(ctx context.Context, connectionID string, message *Message) error
}

func New(logger *slog.Logger, hub *Hub, gameManager gameManager, options Options) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket_server"),
		hub:         hub,
		gameManager: gameManager,
		options:     options,

		handlers: make(map[string]func(context.Context, string, *Message) error),
	}

	server.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     server.checkOrigin,
	}

	server.handlers[ActionSearch] = server.handleSearch
	server.handlers[ActionInvite] = server.handleInvite
	server.handlers[ActionAcceptInvitation] = server.handleAcceptInvitation
	server.handlers[ActionDeclineInvitation] = server.handleDeclineInvitation
	server.handlers[ActionMakeMark] = server.handleMakeMark
	server.handlers[ActionLeaveGame] = server.handleLeaveGame

	return server
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWebSocket)

	return mux
}

// Start - starts WebSocket server and stops it when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
		that.hub.closeAll()
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWebSocket - upgrades the connection and serves it until it is closed.
func (that *Server) serveWebSocket(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWebSocket")

	socket, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Debug("failed to upgrade connection", "error", err)
		return
	}

	ctx := req.Context()
	conn := newConnection(uuid.NewString(), socket, that.options.SendBuffer)
	log = log.With("connectionID", conn.id)

	that.hub.register(conn)
	go that.writePump(conn)

	log.Info("WebSocket connection established")

	that.gameManager.Connect(ctx, conn.id)
	that.readPump(ctx, conn)

	that.hub.unregister(conn.id)
	that.gameManager.Disconnect(ctx, conn.id)

	log.Info("WebSocket connection closed")
}

func (that *Server) checkOrigin(req *http.Request) bool {
	if len(that.options.AllowedOrigins) == 0 {
		return true
	}

	origin := req.Header.Get("Origin")
	if origin == "" {
		return true
	}

	return slices.Contains(that.options.AllowedOrigins, origin)
}
