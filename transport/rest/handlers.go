package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rocketscienceinc/matchrelay-backend/internal/repository"
)

func pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// sessionHandler - returns the mirrored snapshot of a live session.
func sessionHandler(sessions sessionGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/sessions/")
		if id == "" {
			http.Error(w, "session id is required", http.StatusBadRequest)
			return
		}

		state, err := sessions.GetSession(r.Context(), id)
		if errors.Is(err, repository.ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err = json.NewEncoder(w).Encode(state); err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
}
