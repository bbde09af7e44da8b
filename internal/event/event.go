// Package event describes the messages the server pushes to connections.
package event

import (
	"github.com/rocketscienceinc/tictactoe-lobby/internal/entity"
	"github.com/rocketscienceinc/tictactoe-lobby/internal/tictactoe"
)

const (
	ActionConnected          = "connected"
	ActionSearchResults      = "searchResults"
	ActionRemoveFromList     = "removeFromList"
	ActionInvitationReceived = "invitationReceived"
	ActionInvitationDeclined = "invitationDeclined"
	ActionInvitationAccepted = "invitationAccepted"
	ActionMarkPlaced         = "markPlaced"
	ActionGameEnded          = "gameEnded"
	ActionSurrendered        = "surrendered"
	ActionOpponentLeft       = "opponentLeft"
)

// Message is an outbound event. An empty To means every connection.
type Message struct {
	To      string `json:"-"`
	Action  string `json:"action"`
	Payload any    `json:"payload,omitempty"`
}

func (that Message) IsBroadcast() bool {
	return that.To == ""
}

type ConnectedPayload struct {
	ID string `json:"id"`
}

type SearchResultsPayload struct {
	Players []entity.PublicPlayer `json:"players"`
}

type RemoveFromListPayload struct {
	IDs []string `json:"ids"`
}

type InvitationAcceptedPayload struct {
	IsReadyToMark bool             `json:"isReadyToMark"`
	Marker        tictactoe.Marker `json:"marker"`
}

type MarkPlacedPayload struct {
	CellIndex     int              `json:"cellIndex"`
	Marker        tictactoe.Marker `json:"marker"`
	IsReadyToMark bool             `json:"isReadyToMark"`
}

type GameEndedPayload struct {
	Winner *entity.PublicPlayer `json:"winner"`
}

func Connected(to string) Message {
	return Message{To: to, Action: ActionConnected, Payload: ConnectedPayload{ID: to}}
}

func SearchResults(players []*entity.Player) Message {
	public := make([]entity.PublicPlayer, 0, len(players))
	for _, player := range players {
		public = append(public, player.Public())
	}

	return Message{Action: ActionSearchResults, Payload: SearchResultsPayload{Players: public}}
}

func RemoveFromList(ids ...string) Message {
	return Message{Action: ActionRemoveFromList, Payload: RemoveFromListPayload{IDs: ids}}
}

func InvitationReceived(to string, inviter *entity.Player) Message {
	return Message{To: to, Action: ActionInvitationReceived, Payload: inviter.Public()}
}

func InvitationDeclined(to string) Message {
	return Message{To: to, Action: ActionInvitationDeclined}
}

func InvitationAccepted(player *entity.Player) Message {
	return Message{
		To:     player.ID,
		Action: ActionInvitationAccepted,
		Payload: InvitationAcceptedPayload{
			IsReadyToMark: player.IsReadyToMark,
			Marker:        player.Marker,
		},
	}
}

// MarkPlaced - tells recipient about the mark; the readiness flag is the recipient's own.
func MarkPlaced(recipient *entity.Player, cellIndex int, marker tictactoe.Marker) Message {
	return Message{
		To:     recipient.ID,
		Action: ActionMarkPlaced,
		Payload: MarkPlacedPayload{
			CellIndex:     cellIndex,
			Marker:        marker,
			IsReadyToMark: recipient.IsReadyToMark,
		},
	}
}

func GameEnded(to string, winner *entity.Player) Message {
	payload := GameEndedPayload{}
	if winner != nil {
		public := winner.Public()
		payload.Winner = &public
	}

	return Message{To: to, Action: ActionGameEnded, Payload: payload}
}

func Surrendered(to string) Message {
	return Message{To: to, Action: ActionSurrendered}
}

func OpponentLeft(to string) Message {
	return Message{To: to, Action: ActionOpponentLeft}
}
