package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/classtrack/journal/internal/journal"
)

type activityReq struct {
	StudentID string `json:"student_id" validate:"required"`
	GroupID   string `json:"group_id" validate:"required"`
	Period    string `json:"period" validate:"required"`
	// Pointer so an explicit zero-point award passes the presence check.
	// Negative values are legal: they penalize.
	Points      *float64 `json:"points" validate:"required"`
	Description string   `json:"description,omitempty"`
}

func (req activityReq) record() journal.ActivityRecord {
	return journal.ActivityRecord{
		StudentID:   req.StudentID,
		GroupID:     req.GroupID,
		Period:      req.Period,
		Points:      *req.Points,
		Description: req.Description,
	}
}

// POST /activity
func AwardActivityHandler(svc *journal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req activityReq
		if err := decodeAndValidate(r, &req); err != nil {
			http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
			return
		}
		rec, err := svc.AwardActivity(r.Context(), req.record())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, rec)
	}
}

type activityBatchReq struct {
	Awards []activityReq `json:"awards" validate:"required,min=1,dive"`
}

// POST /activity/batch
func AwardActivityBatchHandler(svc *journal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req activityBatchReq
		if err := decodeAndValidate(r, &req); err != nil {
			http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
			return
		}
		out := make([]journal.ActivityRecord, 0, len(req.Awards))
		for _, a := range req.Awards {
			rec, err := svc.AwardActivity(r.Context(), a.record())
			if err != nil {
				writeServiceError(w, err)
				return
			}
			out = append(out, rec)
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

// DELETE /activity/{activityID} deactivates the award, history is kept.
func RevokeActivityHandler(svc *journal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "activityID"))
		if id == "" {
			http.Error(w, "activityID required", http.StatusBadRequest)
			return
		}
		if err := svc.RevokeActivity(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
