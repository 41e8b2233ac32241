package server

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"lotwatch/torgiwatch/logger"
	"lotwatch/torgiwatch/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func replyJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.ForServer().Error().Err(err).Msg("json.Encode")
	}
}

// replyError maps err to a status code: validation errors are 400, missing
// lots 404 and everything else 500
func replyError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.IsType(err, errors.ErrorTypeValidation):
		status = http.StatusBadRequest
	case errors.Is(err, errors.ErrNotFound):
		status = http.StatusNotFound
	}

	log := logger.ForServer().Warn()
	if status == http.StatusInternalServerError {
		log = logger.ForServer().Error()
	}
	log.Err(err).Str("method", r.Method).Str("path", r.URL.Path).Int("status", status).Msg("Request failed")

	replyJSON(w, status, errorResponse{Success: false, Error: err.Error()})
}
