package repository

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rocketscienceinc/tictactoe-lobby/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-lobby/internal/entity"
)

// Registry is the authoritative in-memory store of connected players and active games.
// All access goes through Do, which holds a single lock for the whole callback.
type Registry struct {
	mu sync.Mutex
	tx *Tx
}

// Tx exposes the registry state inside Do. It must not escape the callback.
type Tx struct {
	players      map[string]*entity.Player
	games        map[string]*entity.Game
	gameByPlayer map[string]string
}

type Stats struct {
	Players   int `json:"players"`
	Searching int `json:"searching"`
	Games     int `json:"games"`
}

func NewRegistry() *Registry {
	return &Registry{
		tx: &Tx{
			players:      make(map[string]*entity.Player),
			games:        make(map[string]*entity.Game),
			gameByPlayer: make(map[string]string),
		},
	}
}

// Do - runs fn with exclusive access to the registry. fn must not block on network I/O.
func (that *Registry) Do(fn func(tx *Tx)) {
	that.mu.Lock()
	defer that.mu.Unlock()

	fn(that.tx)
}

func (that *Registry) Stats() Stats {
	var stats Stats

	that.Do(func(tx *Tx) {
		stats.Players = len(tx.players)
		stats.Games = len(tx.games)
		for _, player := range tx.players {
			if player.IsSearching {
				stats.Searching++
			}
		}
	})

	return stats
}

func (that *Tx) AddPlayer(player *entity.Player) error {
	if _, ok := that.players[player.ID]; ok {
		return fmt.Errorf("%w: %s", apperror.ErrPlayerAlreadyExists, player.ID)
	}

	that.players[player.ID] = player

	return nil
}

func (that *Tx) Player(id string) (*entity.Player, bool) {
	player, ok := that.players[id]
	return player, ok
}

// RemovePlayer - forgets the player. The caller removes the player's game first.
func (that *Tx) RemovePlayer(id string) {
	delete(that.players, id)
}

func (that *Tx) Players() []*entity.Player {
	players := make([]*entity.Player, 0, len(that.players))
	for _, player := range that.players {
		players = append(players, player)
	}

	sortPlayers(players)

	return players
}

// SearchingPlayers - returns players looking for an opponent, ordered by name and id.
func (that *Tx) SearchingPlayers() []*entity.Player {
	players := make([]*entity.Player, 0, len(that.players))
	for _, player := range that.players {
		if player.IsSearching {
			players = append(players, player)
		}
	}

	sortPlayers(players)

	return players
}

// Opponent - resolves the opponent association of player.
func (that *Tx) Opponent(player *entity.Player) (*entity.Player, bool) {
	if player.OpponentID == "" {
		return nil, false
	}
	return that.Player(player.OpponentID)
}

func (that *Tx) AddGame(game *entity.Game) error {
	for _, player := range game.Players() {
		if gameID, ok := that.gameByPlayer[player.ID]; ok {
			return fmt.Errorf("%w: player %s in game %s", apperror.ErrPlayerInGame, player.ID, gameID)
		}
	}

	that.games[game.ID] = game
	for _, player := range game.Players() {
		that.gameByPlayer[player.ID] = game.ID
	}

	return nil
}

func (that *Tx) Game(id string) (*entity.Game, bool) {
	game, ok := that.games[id]
	return game, ok
}

func (that *Tx) GameByPlayerID(playerID string) (*entity.Game, bool) {
	gameID, ok := that.gameByPlayer[playerID]
	if !ok {
		return nil, false
	}
	return that.Game(gameID)
}

// RemoveGame - drops the game and its index entries and resets the per-game state of both players.
func (that *Tx) RemoveGame(id string) {
	game, ok := that.games[id]
	if !ok {
		return
	}

	for _, player := range game.Players() {
		if that.gameByPlayer[player.ID] == id {
			delete(that.gameByPlayer, player.ID)
		}
		player.LeaveGame()
	}

	delete(that.games, id)
}

func (that *Tx) Games() []*entity.Game {
	games := make([]*entity.Game, 0, len(that.games))
	for _, game := range that.games {
		games = append(games, game)
	}

	sort.Slice(games, func(i, j int) bool {
		return games[i].ID < games[j].ID
	})

	return games
}

func sortPlayers(players []*entity.Player) {
	sort.Slice(players, func(i, j int) bool {
		if players[i].Name != players[j].Name {
			return players[i].Name < players[j].Name
		}
		return players[i].ID < players[j].ID
	})
}
