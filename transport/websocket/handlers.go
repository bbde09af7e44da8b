package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-lobby/internal/apperror"
)

const (
	ActionSearch            = "search"
	ActionInvite            = "invite"
	ActionAcceptInvitation  = "acceptInvitation"
	ActionDeclineInvitation = "declineInvitation"
	ActionMakeMark          = "makeMark"
	ActionLeaveGame         = "leaveGame"
)

// Message is an inbound command.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Name string `json:"name,omitempty"`
	ID   string `json:"id,omitempty"`
	Cell *int   `json:"cell,omitempty"`
}

// handleMessage - dispatches the command. Rejected commands are only logged, the client gets nothing back.
func (that *Server) handleMessage(ctx context.Context, connectionID string, message *Message) {
	log := that.logger.With("method", "handleMessage", "connectionID", connectionID, "action", message.Action)

	handler, ok := that.handlers[message.Action]
	if !ok {
		log.Debug("unknown action")
		return
	}

	if err := handler(ctx, connectionID, message); err != nil {
		log.Debug("command ignored", "error", err)
	}
}

func (that *Server) handleSearch(ctx context.Context, connectionID string, message *Message) error {
	payload, err := decodePayload(message)
	if err != nil {
		return err
	}

	return that.gameManager.Search(ctx, connectionID, payload.Name)
}

func (that *Server) handleInvite(ctx context.Context, connectionID string, message *Message) error {
	payload, err := decodePayload(message)
	if err != nil {
		return err
	}

	return that.gameManager.Invite(ctx, connectionID, payload.ID)
}

func (that *Server) handleAcceptInvitation(ctx context.Context, connectionID string, message *Message) error {
	payload, err := decodePayload(message)
	if err != nil {
		return err
	}

	return that.gameManager.AcceptInvitation(ctx, payload.ID, connectionID)
}

func (that *Server) handleDeclineInvitation(ctx context.Context, connectionID string, message *Message) error {
	payload, err := decodePayload(message)
	if err != nil {
		return err
	}

	return that.gameManager.DeclineInvitation(ctx, connectionID, payload.ID)
}

func (that *Server) handleMakeMark(ctx context.Context, connectionID string, message *Message) error {
	payload, err := decodePayload(message)
	if err != nil {
		return err
	}

	if payload.Cell == nil {
		return fmt.Errorf("%w: missing cell", apperror.ErrInvalidCell)
	}

	return that.gameManager.MakeMark(ctx, connectionID, *payload.Cell)
}

func (that *Server) handleLeaveGame(ctx context.Context, connectionID string, _ *Message) error {
	return that.gameManager.LeaveGame(ctx, connectionID)
}

func decodePayload(message *Message) (*Payload, error) {
	var payload Payload
	if len(message.Payload) == 0 {
		return &payload, nil
	}

	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return &payload, nil
}
