package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-lobby/internal/entity"
	"github.com/rocketscienceinc/tictactoe-lobby/internal/event"
	"github.com/rocketscienceinc/tictactoe-lobby/internal/repository"
)

const saveResultTimeout = 2 * time.Second

type notifier interface {
	Notify(messages ...event.Message)
}

type resultRepo interface {
	Save(ctx context.Context, result *entity.GameResult) error
}

// GameManager coordinates the lobby and every running game.
// State changes happen inside a single registry transaction, messages go out after it is released.
type GameManager struct {
	logger     *slog.Logger
	registry   *repository.Registry
	notifier   notifier
	resultRepo resultRepo

	newGameID func() string
}

// NewGameManager - resultRepo may be nil, finished games are then not archived.
func NewGameManager(logger *slog.Logger, registry *repository.Registry, notifier notifier, resultRepo resultRepo) *GameManager {
	if resultRepo == nil {
		resultRepo = nopResultRepo{}
	}

	return &GameManager{
		logger:     logger.With("component", "game_manager"),
		registry:   registry,
		notifier:   notifier,
		resultRepo: resultRepo,

		newGameID: uuid.NewString,
	}
}

// Connect - greets a new connection with its id.
func (that *GameManager) Connect(_ context.Context, connectionID string) {
	that.notifier.Notify(event.Connected(connectionID))

	that.logger.Debug("connection registered", "method", "Connect", "connectionID", connectionID)
}

func (that *GameManager) saveResult(ctx context.Context, result *entity.GameResult) {
	if result == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveResultTimeout)
	defer cancel()

	if err := that.resultRepo.Save(ctx, result); err != nil {
		that.logger.Error("failed to save game result",
			"method", "saveResult", "gameID", result.GameID, "reason", result.Reason, "error", err)
	}
}

type nopResultRepo struct{}

func (nopResultRepo) Save(context.Context, *entity.GameResult) error {
	return nil
}
