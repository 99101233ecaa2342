package events

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/wolfman30/material-scheduler/pkg/logging"
)

const (
	defaultJournalLimit = 50
	maxJournalLimit     = 500
)

// JournalHandler serves the newest journal entries, oldest first. ?limit=
// caps how many are read (default 50, at most 500) and ?session_id= filters
// the entries read.
func JournalHandler(j *RedisJournal, logger *logging.Logger) http.HandlerFunc {
	if logger == nil {
		logger = logging.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		limit := int64(defaultJournalLimit)
		if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || n <= 0 {
				writeJournalJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_limit"})
				return
			}
			limit = min(n, maxJournalLimit)
		}

		envs, err := j.List(r.Context(), limit)
		if err != nil {
			logging.FromContext(r.Context(), logger).Error("failed to read event journal", "error", err)
			writeJournalJSON(w, http.StatusBadGateway, map[string]string{"error": "journal_unavailable"})
			return
		}

		if sessionID := strings.TrimSpace(r.URL.Query().Get("session_id")); sessionID != "" {
			filtered := envs[:0]
			for _, env := range envs {
				if env.SessionID == sessionID {
					filtered = append(filtered, env)
				}
			}
			envs = filtered
		}
		if envs == nil {
			envs = []Envelope{}
		}
		writeJournalJSON(w, http.StatusOK, map[string]any{"events": envs, "count": len(envs)})
	}
}

func writeJournalJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
