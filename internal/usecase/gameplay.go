package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-lobby/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-lobby/internal/entity"
	"github.com/rocketscienceinc/tictactoe-lobby/internal/event"
	"github.com/rocketscienceinc/tictactoe-lobby/internal/repository"
	"github.com/rocketscienceinc/tictactoe-lobby/internal/tictactoe"
)

// MakeMark - places the player's marker on cellIndex and notifies both players.
// A finished game stays registered until one of the players leaves or disconnects.
func (that *GameManager) MakeMark(ctx context.Context, playerID string, cellIndex int) error {
	log := that.logger.With("method", "MakeMark", "playerID", playerID, "cell", cellIndex)

	row, col, err := tictactoe.CellPosition(cellIndex)
	if err != nil {
		return fmt.Errorf("%w: %d", apperror.ErrInvalidCell, cellIndex)
	}

	var (
		messages []event.Message
		result   *entity.GameResult
		gameID   string
	)

	that.registry.Do(func(tx *repository.Tx) {
		player, ok := tx.Player(playerID)
		if !ok {
			err = fmt.Errorf("%w: %s", apperror.ErrPlayerNotFound, playerID)
			return
		}

		game, ok := tx.GameByPlayerID(player.ID)
		if !ok {
			err = fmt.Errorf("%w: player %s", apperror.ErrGameNotFound, playerID)
			return
		}

		if !player.IsReadyToMark {
			err = apperror.ErrNotYourTurn
			return
		}

		marker := player.Marker

		status, winner, markErr := game.MakeMark(marker, row, col)
		if markErr != nil {
			err = markErr
			return
		}

		gameID = game.ID
		for _, recipient := range game.Players() {
			messages = append(messages, event.MarkPlaced(recipient, cellIndex, marker))
		}

		if status != tictactoe.StatusFinished {
			return
		}

		for _, recipient := range game.Players() {
			messages = append(messages, event.GameEnded(recipient.ID, winner))
		}

		reason := entity.ReasonWin
		if winner == nil {
			reason = entity.ReasonDraw
		}
		result = entity.NewGameResult(game, winner, reason)
	})

	if err != nil {
		if errors.Is(err, tictactoe.ErrInvalidMarker) {
			log.Error("player holds no marker", "error", err)
		}
		return fmt.Errorf("failed to make mark: %w", err)
	}

	that.notifier.Notify(messages...)

	if result != nil {
		log.Info("game finished", "gameID", gameID, "reason", result.Reason)
		that.saveResult(ctx, result)
	}

	return nil
}

// LeaveGame - ends the player's game and tells the opponent.
// Both players go back to the not-searching state.
func (that *GameManager) LeaveGame(ctx context.Context, playerID string) error {
	log := that.logger.With("method", "LeaveGame", "playerID", playerID)

	var (
		messages []event.Message
		result   *entity.GameResult
		err      error
	)

	that.registry.Do(func(tx *repository.Tx) {
		player, ok := tx.Player(playerID)
		if !ok {
			err = fmt.Errorf("%w: %s", apperror.ErrPlayerNotFound, playerID)
			return
		}

		game, ok := tx.GameByPlayerID(player.ID)
		if !ok {
			err = fmt.Errorf("%w: player %s", apperror.ErrGameNotFound, playerID)
			return
		}

		opponent := game.Opponent(player.ID)
		if game.IsInProgress() {
			result = entity.NewGameResult(game, opponent, entity.ReasonLeft)
		}

		tx.RemoveGame(game.ID)

		if opponent != nil {
			messages = append(messages, event.OpponentLeft(opponent.ID))
		}
	})

	if err != nil {
		return fmt.Errorf("failed to leave game: %w", err)
	}

	that.notifier.Notify(messages...)

	log.Info("player left the game")

	that.saveResult(ctx, result)

	return nil
}
