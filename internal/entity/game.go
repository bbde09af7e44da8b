package entity

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-lobby/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-lobby/internal/tictactoe"
)

// Game pairs two players around one board. The game owns both player references for its lifetime.
type Game struct {
	ID        string
	Board     *tictactoe.Board
	PlayerOne *Player
	PlayerTwo *Player
	CreatedAt time.Time
}

// NewGame - pairs the players: playerOne plays Cross and moves first, playerTwo plays Circle.
func NewGame(id string, playerOne, playerTwo *Player) (*Game, error) {
	if playerOne == nil || playerTwo == nil {
		return nil, apperror.ErrPlayerNotFound
	}

	if playerOne.ID == playerTwo.ID {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSamePlayer, playerOne.ID)
	}

	playerOne.Marker = tictactoe.MarkerCross
	playerTwo.Marker = tictactoe.MarkerCircle

	playerOne.OpponentID = playerTwo.ID
	playerTwo.OpponentID = playerOne.ID

	playerOne.IsReadyToMark = true
	playerTwo.IsReadyToMark = false

	playerOne.IsSearching = false
	playerTwo.IsSearching = false

	return &Game{
		ID:        id,
		Board:     tictactoe.NewBoard(),
		PlayerOne: playerOne,
		PlayerTwo: playerTwo,
		CreatedAt: time.Now(),
	}, nil
}

// MakeMark - places marker on the board and passes the turn to the other player.
// Once the game is finished neither player is ready to mark.
func (that *Game) MakeMark(marker tictactoe.Marker, row, col int) (tictactoe.Status, *Player, error) {
	status, winMarker, err := that.Board.PlaceMark(row, col, marker)
	if err != nil {
		return status, nil, fmt.Errorf("failed to place mark: %w", err)
	}

	that.PlayerOne.IsReadyToMark = !that.PlayerOne.IsReadyToMark
	that.PlayerTwo.IsReadyToMark = !that.PlayerTwo.IsReadyToMark

	if status == tictactoe.StatusFinished {
		that.PlayerOne.IsReadyToMark = false
		that.PlayerTwo.IsReadyToMark = false
	}

	return status, that.playerByMarker(winMarker), nil
}

func (that *Game) playerByMarker(marker tictactoe.Marker) *Player {
	if marker == tictactoe.MarkerNone {
		return nil
	}

	switch marker {
	case that.PlayerOne.Marker:
		return that.PlayerOne
	case that.PlayerTwo.Marker:
		return that.PlayerTwo
	default:
		return nil
	}
}

func (that *Game) HasPlayer(playerID string) bool {
	return that.PlayerOne.ID == playerID || that.PlayerTwo.ID == playerID
}

// Opponent - returns the other player of the game, or nil if playerID is not part of it.
func (that *Game) Opponent(playerID string) *Player {
	switch playerID {
	case that.PlayerOne.ID:
		return that.PlayerTwo
	case that.PlayerTwo.ID:
		return that.PlayerOne
	default:
		return nil
	}
}

func (that *Game) Players() []*Player {
	return []*Player{that.PlayerOne, that.PlayerTwo}
}

func (that *Game) IsInProgress() bool {
	return that.Board.IsInProgress()
}

func (that *Game) IsFinished() bool {
	return that.Board.IsFinished()
}
