package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	authmw "github.com/classtrack/journal/internal/auth/middleware"
	"github.com/classtrack/journal/internal/journal"
	"github.com/classtrack/journal/internal/scoring"
)

// GET /settings/{period}
func GetSettingsHandler(svc *journal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period := strings.TrimSpace(chi.URLParam(r, "period"))
		if period == "" {
			http.Error(w, "period required", http.StatusBadRequest)
			return
		}
		s, err := svc.Settings(r.Context(), period)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

// PUT /settings/{period} replaces the period's settings wholesale.
// Validation runs before anything is persisted, so a bad weight sum
// never reaches storage.
func PutSettingsHandler(svc *journal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period := strings.TrimSpace(chi.URLParam(r, "period"))
		if period == "" {
			http.Error(w, "period required", http.StatusBadRequest)
			return
		}
		var next scoring.PeriodSettings
		if err := json.NewDecoder(r.Body).Decode(&next); err != nil {
			http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
			return
		}
		next.Period = period
		actor := authmw.SubjectFromContext(r.Context())
		if err := svc.UpdateSettings(r.Context(), next, actor); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, next)
	}
}
