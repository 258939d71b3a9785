package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/classtrack/journal/internal/journal"
	"github.com/classtrack/journal/internal/scoring"
)

var validate = validator.New()

func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps the engine's error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var gradeErr *scoring.GradeExceedsMaxError
	if errors.As(err, &gradeErr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":             gradeErr.Error(),
			"max_allowed_grade": gradeErr.MaxAllowed,
		})
		return
	}
	var cfgErr *scoring.ConfigError
	if errors.As(err, &cfgErr) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": cfgErr.Error()})
		return
	}
	if journal.IsSettingsNotFound(err) || errors.Is(err, journal.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
