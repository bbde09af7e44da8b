package usecase

import (
	"context"

	"github.com/rocketscienceinc/tictactoe-lobby/internal/entity"
	"github.com/rocketscienceinc/tictactoe-lobby/internal/event"
	"github.com/rocketscienceinc/tictactoe-lobby/internal/repository"
)

// Disconnect - forgets everything about the connection.
// An opponent in a game that is still running wins by surrender.
func (that *GameManager) Disconnect(ctx context.Context, connectionID string) {
	log := that.logger.With("method", "Disconnect", "connectionID", connectionID)

	var (
		messages []event.Message
		result   *entity.GameResult
		known    bool
	)

	that.registry.Do(func(tx *repository.Tx) {
		player, ok := tx.Player(connectionID)
		if !ok {
			return
		}
		known = true

		if game, inGame := tx.GameByPlayerID(player.ID); inGame {
			opponent := game.Opponent(player.ID)

			if game.IsInProgress() && opponent != nil {
				messages = append(messages, event.Surrendered(opponent.ID))
				result = entity.NewGameResult(game, opponent, entity.ReasonSurrender)
			}

			tx.RemoveGame(game.ID)
		}

		tx.RemovePlayer(player.ID)

		messages = append(messages, event.RemoveFromList(player.ID))
	})

	if !known {
		log.Debug("connection closed before joining the lobby")
		return
	}

	that.notifier.Notify(messages...)

	log.Info("player disconnected")

	that.saveResult(ctx, result)
}
