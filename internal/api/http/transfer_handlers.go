package http

import (
	"net/http"
	"time"

	"github.com/classtrack/journal/internal/journal"
)

type transferReq struct {
	StudentID    string `json:"student_id" validate:"required"`
	Period       string `json:"period" validate:"required"`
	FromGroup    string `json:"from_group" validate:"required"`
	FromSubgroup string `json:"from_subgroup,omitempty"`
	ToGroup      string `json:"to_group" validate:"required,nefield=FromGroup"`
	ToSubgroup   string `json:"to_subgroup,omitempty"`
}

// POST /transfers captures a snapshot of the student's source-group
// records before the roster change takes effect.
func RecordTransferHandler(svc *journal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req transferReq
		if err := decodeAndValidate(r, &req); err != nil {
			http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
			return
		}
		snap, err := svc.RecordTransfer(r.Context(), req.StudentID, req.Period,
			req.FromGroup, req.FromSubgroup, req.ToGroup, req.ToSubgroup, time.Now().UTC())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, snap)
	}
}
