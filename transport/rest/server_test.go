package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-lobby/internal/entity"
	"github.com/rocketscienceinc/tictactoe-lobby/internal/repository"
	"github.com/rocketscienceinc/tictactoe-lobby/testing/suite"
)

type staticLobby repository.Stats

func (that staticLobby) Stats() repository.Stats {
	return repository.Stats(that)
}

func serve(handler http.Handler, target string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
	return recorder
}

func TestServer_Ping(t *testing.T) {
	_, st := suite.New(t)
	server := New(st.Logger, staticLobby{}, nil)

	recorder := serve(server.Handler(), "/ping")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "pong", recorder.Body.String())
}

func TestServer_Lobby(t *testing.T) {
	_, st := suite.New(t)
	server := New(st.Logger, staticLobby{Players: 3, Searching: 1, Games: 1}, nil)

	recorder := serve(server.Handler(), "/lobby")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"players":3,"searching":1,"games":1}`, recorder.Body.String())
}

func TestServer_Games(t *testing.T) {
	t.Run("Archive disabled", func(t *testing.T) {
		_, st := suite.New(t)
		server := New(st.Logger, staticLobby{}, nil)

		assert.Equal(t, http.StatusNotFound, serve(server.Handler(), "/games/recent").Code)
		assert.Equal(t, http.StatusNotFound, serve(server.Handler(), "/games/stats").Code)
	})

	t.Run("Recent games and stats", func(t *testing.T) {
		// Given: an archive with three finished games
		ctx, st := suite.New(t)
		results := repository.NewResultRepository(st.Storage, 10, time.Hour)

		reasons := []entity.ResultReason{entity.ReasonWin, entity.ReasonDraw, entity.ReasonWin}
		for i, reason := range reasons {
			require.NoError(t, results.Save(ctx, &entity.GameResult{
				GameID: fmt.Sprintf("g%d", i),
				Reason: reason,
			}))
		}

		server := New(st.Logger, staticLobby{}, results)

		// When: the two most recent games are requested
		recorder := serve(server.Handler(), "/games/recent?limit=2")

		// Then: they come newest first
		require.Equal(t, http.StatusOK, recorder.Code)

		var recent []entity.GameResult
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &recent))
		require.Len(t, recent, 2)
		assert.Equal(t, "g2", recent[0].GameID)
		assert.Equal(t, "g1", recent[1].GameID)

		// Then: the stats count games per reason
		recorder = serve(server.Handler(), "/games/stats")
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"win":2,"draw":1}`, recorder.Body.String())
	})

	t.Run("Invalid limit", func(t *testing.T) {
		_, st := suite.New(t)
		server := New(st.Logger, staticLobby{}, repository.NewResultRepository(st.Storage, 10, 0))

		assert.Equal(t, http.StatusBadRequest, serve(server.Handler(), "/games/recent?limit=abc").Code)
		assert.Equal(t, http.StatusBadRequest, serve(server.Handler(), "/games/recent?limit=0").Code)
		assert.Equal(t, http.StatusOK, serve(server.Handler(), "/games/recent?limit=1000").Code)
	})
}
