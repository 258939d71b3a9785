package http

import (
	"net/http"
	"time"

	authmw "github.com/classtrack/journal/internal/auth/middleware"
	"github.com/classtrack/journal/internal/journal"
)

type labGradeReq struct {
	StudentID  string `json:"student_id" validate:"required"`
	GroupID    string `json:"group_id" validate:"required"`
	Period     string `json:"period" validate:"required"`
	WorkNumber int    `json:"work_number" validate:"required,gte=1"`
	Grade      int    `json:"grade" validate:"gte=0"`
	LessonID   string `json:"lesson_id,omitempty"`
	Comment    string `json:"comment,omitempty"`

	// Deadline context, consumed at grading time only.
	Deadline string `json:"deadline,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Excused  bool   `json:"excused,omitempty"`
}

// POST /labs/grades
func SubmitLabGradeHandler(svc *journal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req labGradeReq
		if err := decodeAndValidate(r, &req); err != nil {
			http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
			return
		}
		var dc journal.DeadlineContext
		dc.Excused = req.Excused
		if req.Deadline != "" {
			due, err := time.Parse("2006-01-02", req.Deadline)
			if err != nil {
				http.Error(w, "bad deadline: "+err.Error(), http.StatusBadRequest)
				return
			}
			dc.Deadline = &due
		}
		g := journal.LabGrade{
			StudentID:  req.StudentID,
			GroupID:    req.GroupID,
			Period:     req.Period,
			WorkNumber: req.WorkNumber,
			Grade:      req.Grade,
			LessonID:   req.LessonID,
			Comment:    req.Comment,
			GradedBy:   authmw.SubjectFromContext(r.Context()),
		}
		saved, err := svc.SubmitLabGrade(r.Context(), g, dc)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, saved)
	}
}
