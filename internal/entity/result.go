package entity

import "time"

type ResultReason string

const (
	ReasonWin       ResultReason = "win"
	ReasonDraw      ResultReason = "draw"
	ReasonSurrender ResultReason = "surrender"
	ReasonLeft      ResultReason = "left"
)

// GameResult is the archived outcome of a game.
type GameResult struct {
	GameID     string        `json:"game_id"`
	PlayerOne  PublicPlayer  `json:"player_one"`
	PlayerTwo  PublicPlayer  `json:"player_two"`
	Winner     *PublicPlayer `json:"winner"`
	Reason     ResultReason  `json:"reason"`
	MovesLeft  int           `json:"moves_left"`
	FinishedAt time.Time     `json:"finished_at"`
}

// NewGameResult - builds the record of game; winner may be nil.
func NewGameResult(game *Game, winner *Player, reason ResultReason) *GameResult {
	result := &GameResult{
		GameID:     game.ID,
		PlayerOne:  game.PlayerOne.Public(),
		PlayerTwo:  game.PlayerTwo.Public(),
		Reason:     reason,
		MovesLeft:  game.Board.MovesLeft(),
		FinishedAt: time.Now().UTC(),
	}

	if winner != nil {
		public := winner.Public()
		result.Winner = &public
	}

	return result
}
