package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/classtrack/journal/internal/journal"
)

// GET /students/{studentID}/score?group=...&period=...
func StudentScoreHandler(svc *journal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID := strings.TrimSpace(chi.URLParam(r, "studentID"))
		groupID := r.URL.Query().Get("group")
		period := r.URL.Query().Get("period")
		if studentID == "" || groupID == "" || period == "" {
			http.Error(w, "studentID, group and period required", http.StatusBadRequest)
			return
		}
		bd, err := svc.StudentBreakdown(r.Context(), studentID, groupID, period)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, bd)
	}
}
