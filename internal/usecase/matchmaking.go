package usecase

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-lobby/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-lobby/internal/entity"
	"github.com/rocketscienceinc/tictactoe-lobby/internal/event"
	"github.com/rocketscienceinc/tictactoe-lobby/internal/repository"
)

// Search - registers the connection as a searching player with the given name and broadcasts the lobby.
func (that *GameManager) Search(_ context.Context, playerID, name string) error {
	log := that.logger.With("method", "Search", "playerID", playerID)

	if !entity.IsValidName(name) {
		return fmt.Errorf("%w: %q", apperror.ErrInvalidName, name)
	}

	var (
		messages []event.Message
		err      error
	)

	that.registry.Do(func(tx *repository.Tx) {
		player, ok := tx.Player(playerID)
		if !ok {
			player = entity.NewPlayer(playerID, name)
			if err = tx.AddPlayer(player); err != nil {
				return
			}
		}

		player.Name = name
		player.IsSearching = true

		messages = append(messages, event.SearchResults(tx.SearchingPlayers()))
	})

	if err != nil {
		return fmt.Errorf("failed to add player: %w", err)
	}

	that.notifier.Notify(messages...)

	log.Debug("player is searching", "name", name)

	return nil
}

// Invite - forwards an invitation from inviterID to inviteeID.
func (that *GameManager) Invite(_ context.Context, inviterID, inviteeID string) error {
	if inviteeID == "" {
		return fmt.Errorf("%w: empty invitee", apperror.ErrPlayerNotFound)
	}

	if inviterID == inviteeID {
		return apperror.ErrSamePlayer
	}

	var (
		message event.Message
		found   bool
	)

	that.registry.Do(func(tx *repository.Tx) {
		inviter, ok := tx.Player(inviterID)
		if !ok {
			return
		}

		message = event.InvitationReceived(inviteeID, inviter)
		found = true
	})

	if !found {
		return fmt.Errorf("%w: inviter %s", apperror.ErrPlayerNotFound, inviterID)
	}

	that.notifier.Notify(message)

	that.logger.Debug("invitation sent", "method", "Invite", "inviterID", inviterID, "inviteeID", inviteeID)

	return nil
}

// AcceptInvitation - pairs the inviter and the acceptor into a new game.
// The inviter plays Cross and moves first.
func (that *GameManager) AcceptInvitation(_ context.Context, inviterID, acceptorID string) error {
	log := that.logger.With("method", "AcceptInvitation", "inviterID", inviterID, "acceptorID", acceptorID)

	var (
		messages []event.Message
		game     *entity.Game
		err      error
	)

	that.registry.Do(func(tx *repository.Tx) {
		inviter, ok := tx.Player(inviterID)
		if !ok {
			err = fmt.Errorf("%w: inviter %s", apperror.ErrPlayerNotFound, inviterID)
			return
		}

		acceptor, ok := tx.Player(acceptorID)
		if !ok {
			err = fmt.Errorf("%w: acceptor %s", apperror.ErrPlayerNotFound, acceptorID)
			return
		}

		if inviter.ID == acceptor.ID {
			err = apperror.ErrSamePlayer
			return
		}

		if !inviter.IsSearching || !acceptor.IsSearching {
			err = apperror.ErrPlayerNotSearching
			return
		}

		for _, player := range []*entity.Player{inviter, acceptor} {
			if current, inGame := tx.GameByPlayerID(player.ID); inGame && current.IsInProgress() {
				err = fmt.Errorf("%w: player %s", apperror.ErrPlayerInGame, player.ID)
				return
			}
		}

		messages = append(messages, that.dropFinishedGames(tx, inviter, acceptor)...)

		game, err = entity.NewGame(that.newGameID(), inviter, acceptor)
		if err != nil {
			return
		}

		if err = tx.AddGame(game); err != nil {
			inviter.LeaveGame()
			acceptor.LeaveGame()
			inviter.IsSearching, acceptor.IsSearching = true, true
			return
		}

		messages = append(messages,
			event.InvitationAccepted(inviter),
			event.InvitationAccepted(acceptor),
			event.RemoveFromList(inviter.ID, acceptor.ID),
		)
	})

	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}

	that.notifier.Notify(messages...)

	log.Info("game started", "gameID", game.ID)

	return nil
}

// DeclineInvitation - tells the inviter that the invitation was declined.
func (that *GameManager) DeclineInvitation(_ context.Context, declinerID, inviterID string) error {
	if inviterID == "" {
		return fmt.Errorf("%w: empty inviter", apperror.ErrPlayerNotFound)
	}

	if inviterID == declinerID {
		return apperror.ErrSamePlayer
	}

	that.notifier.Notify(event.InvitationDeclined(inviterID))

	that.logger.Debug("invitation declined", "method", "DeclineInvitation", "declinerID", declinerID, "inviterID", inviterID)

	return nil
}

// dropFinishedGames - removes games that are already over but still hold the given players.
// A third player left behind in such a game is told that the opponent is gone.
func (that *GameManager) dropFinishedGames(tx *repository.Tx, players ...*entity.Player) []event.Message {
	var messages []event.Message

	for _, player := range players {
		game, ok := tx.GameByPlayerID(player.ID)
		if !ok {
			continue
		}

		opponent := game.Opponent(player.ID)
		tx.RemoveGame(game.ID)

		if opponent != nil && !containsPlayer(players, opponent.ID) {
			messages = append(messages, event.OpponentLeft(opponent.ID))
		}
	}

	return messages
}

func containsPlayer(players []*entity.Player, id string) bool {
	for _, player := range players {
		if player.ID == id {
			return true
		}
	}
	return false
}
