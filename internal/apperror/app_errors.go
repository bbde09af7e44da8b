package apperror

import "errors"

var (
	ErrInvalidName         = errors.New("invalid player name")
	ErrInvalidCell         = errors.New("invalid cell index")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrPlayerAlreadyExists = errors.New("player already exists")
	ErrPlayerInGame        = errors.New("player is already in a game")
	ErrPlayerNotSearching  = errors.New("player is not searching")
	ErrSamePlayer          = errors.New("you can't play with yourself")
	ErrGameNotFound        = errors.New("game not found")
	ErrNotYourTurn         = errors.New("it's not your turn")
)
