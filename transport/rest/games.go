package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

func (that *Server) handleLobby(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, that.lobby.Stats())
}

func (that *Server) handleRecentGames(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleRecentGames")

	if that.resultRepo == nil {
		http.NotFound(w, r)
		return
	}

	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive number", http.StatusBadRequest)
			return
		}
		limit = min(parsed, maxRecentLimit)
	}

	results, err := that.resultRepo.Recent(r.Context(), limit)
	if err != nil {
		log.Error("failed to get recent games", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, http.StatusOK, results)
}

func (that *Server) handleGameStats(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleGameStats")

	if that.resultRepo == nil {
		http.NotFound(w, r)
		return
	}

	stats, err := that.resultRepo.Stats(r.Context())
	if err != nil {
		log.Error("failed to get game stats", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, http.StatusOK, stats)
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Debug("failed to write response", "method", "writeJSON", "error", err)
	}
}
