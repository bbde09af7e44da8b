package event

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-lobby/internal/entity"
	"github.com/rocketscienceinc/tictactoe-lobby/internal/tictactoe"
)

func TestMessage_JSON(t *testing.T) {
	alice := entity.NewPlayer("p1", "alice")
	alice.Marker = tictactoe.MarkerCross
	alice.IsReadyToMark = true

	testCases := []struct {
		name     string
		message  Message
		expected string
	}{
		{
			name:     "search results",
			message:  SearchResults([]*entity.Player{alice}),
			expected: `{"action":"searchResults","payload":{"players":[{"id":"p1","name":"alice"}]}}`,
		},
		{
			name:     "invitation accepted",
			message:  InvitationAccepted(alice),
			expected: `{"action":"invitationAccepted","payload":{"isReadyToMark":true,"marker":-1}}`,
		},
		{
			name:     "mark placed",
			message:  MarkPlaced(alice, 4, tictactoe.MarkerCircle),
			expected: `{"action":"markPlaced","payload":{"cellIndex":4,"marker":1,"isReadyToMark":true}}`,
		},
		{
			name:     "draw",
			message:  GameEnded("p1", nil),
			expected: `{"action":"gameEnded","payload":{"winner":null}}`,
		},
		{
			name:     "win",
			message:  GameEnded("p2", alice),
			expected: `{"action":"gameEnded","payload":{"winner":{"id":"p1","name":"alice"}}}`,
		},
		{
			name:     "no payload",
			message:  Surrendered("p2"),
			expected: `{"action":"surrendered"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.message)

			require.NoError(t, err)
			assert.JSONEq(t, tc.expected, string(data))
		})
	}
}

func TestMessage_Recipients(t *testing.T) {
	assert.True(t, SearchResults(nil).IsBroadcast())
	assert.True(t, RemoveFromList("p1", "p2").IsBroadcast())
	assert.False(t, OpponentLeft("p1").IsBroadcast())
	assert.Equal(t, "p2", InvitationDeclined("p2").To)
}
