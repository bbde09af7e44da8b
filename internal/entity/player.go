package entity

import (
	"unicode/utf8"

	"github.com/rocketscienceinc/tictactoe-lobby/internal/tictactoe"
)

const MaxNameLength = 50

// Player is a connected participant, keyed by its connection id.
type Player struct {
	ID            string
	Name          string
	IsSearching   bool
	IsReadyToMark bool
	Marker        tictactoe.Marker

	// OpponentID is a lookup key into the registry, not an owning reference.
	OpponentID string
}

// PublicPlayer is the only shape of a player that is sent to other connections.
type PublicPlayer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func NewPlayer(id, name string) *Player {
	return &Player{
		ID:   id,
		Name: name,
	}
}

func (that *Player) Public() PublicPlayer {
	return PublicPlayer{
		ID:   that.ID,
		Name: that.Name,
	}
}

func (that *Player) InGame() bool {
	return that.OpponentID != ""
}

// LeaveGame - resets the per-game state of the player.
func (that *Player) LeaveGame() {
	that.IsReadyToMark = false
	that.Marker = tictactoe.MarkerNone
	that.OpponentID = ""
}

// IsValidName - reports whether name has between 1 and MaxNameLength characters.
func IsValidName(name string) bool {
	length := utf8.RuneCountInString(name)
	return length > 0 && length <= MaxNameLength
}
