package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-lobby/internal/entity"
	"github.com/rocketscienceinc/tictactoe-lobby/internal/repository"
)

const shutdownTimeout = 5 * time.Second

type lobby interface {
	Stats() repository.Stats
}

type resultRepo interface {
	Recent(ctx context.Context, limit int) ([]*entity.GameResult, error)
	Stats(ctx context.Context) (map[entity.ResultReason]int64, error)
}

type Server struct {
	logger     *slog.Logger
	lobby      lobby
	resultRepo resultRepo
}

// New - resultRepo may be nil, the game endpoints then answer 404.
func New(logger *slog.Logger, lobby lobby, resultRepo resultRepo) *Server {
	return &Server{
		logger:     logger.With("component", "rest_server"),
		lobby:      lobby,
		resultRepo: resultRepo,
	}
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", that.handlePing)
	mux.HandleFunc("GET /lobby", that.handleLobby)
	mux.HandleFunc("GET /games/recent", that.handleRecentGames)
	mux.HandleFunc("GET /games/stats", that.handleGameStats)

	return mux
}

// Start - starts HTTP server and stops it when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
