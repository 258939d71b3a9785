package http

import (
	"net/http"
	"time"

	"github.com/classtrack/journal/internal/journal"
	"github.com/classtrack/journal/internal/scoring"
)

type attendanceReq struct {
	StudentID string `json:"student_id" validate:"required"`
	GroupID   string `json:"group_id" validate:"required"`
	Period    string `json:"period" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	LessonID  string `json:"lesson_id,omitempty"`
	Subgroup  string `json:"subgroup,omitempty"`
	Status    string `json:"status" validate:"required,oneof=present absent late excused"`
}

func (req attendanceReq) record() (journal.AttendanceRecord, error) {
	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return journal.AttendanceRecord{}, err
	}
	return journal.AttendanceRecord{
		StudentID: req.StudentID,
		GroupID:   req.GroupID,
		Period:    req.Period,
		Date:      day,
		LessonID:  req.LessonID,
		Subgroup:  req.Subgroup,
		Status:    scoring.Status(req.Status),
	}, nil
}

// POST /attendance
func RecordAttendanceHandler(svc *journal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req attendanceReq
		if err := decodeAndValidate(r, &req); err != nil {
			http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
			return
		}
		rec, err := req.record()
		if err != nil {
			http.Error(w, "bad date: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := svc.RecordAttendance(r.Context(), rec); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type attendanceBulkReq struct {
	Records []attendanceReq `json:"records" validate:"required,min=1,dive"`
}

// POST /attendance/bulk
func RecordAttendanceBulkHandler(svc *journal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req attendanceBulkReq
		if err := decodeAndValidate(r, &req); err != nil {
			http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
			return
		}
		for _, item := range req.Records {
			rec, err := item.record()
			if err != nil {
				http.Error(w, "bad date: "+err.Error(), http.StatusBadRequest)
				return
			}
			if err := svc.RecordAttendance(r.Context(), rec); err != nil {
				writeServiceError(w, err)
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]int{"recorded": len(req.Records)})
	}
}
