package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"storeforge/api/dto"
	"storeforge/api/repository"
	"storeforge/api/web"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, logger *zap.Logger, message string, err error, traceID string, status int) {
	logger.Error(message,
		zap.String("trace_id", traceID),
		zap.Error(err),
	)

	respondJSON(w, status, dto.ErrorResponse{
		Status:  "error",
		Error:   message,
		TraceID: traceID,
	})
}

// errorStatus maps service errors onto HTTP status codes. Anything
// unrecognized is a 500.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, repository.ErrTaskNotFound),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, dto.ErrUnknownTaskType),
		errors.Is(err, dto.ErrMissingParameter):
		return http.StatusBadRequest
	case errors.Is(err, dto.ErrNoActiveSettings):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// renderErrorPage logs the failure and shows the error template. JSON
// consumers get respondError instead.
func renderErrorPage(w http.ResponseWriter, renderer *web.Renderer, logger *zap.Logger, message string, err error, traceID string, status int) {
	logger.Error(message,
		zap.String("trace_id", traceID),
		zap.Error(err),
	)

	w.WriteHeader(status)
	if rerr := renderer.Render(w, "error.html", map[string]any{
		"Title":   "Something went wrong",
		"Message": message,
		"TraceID": traceID,
	}); rerr != nil {
		logger.Error("Failed to render error page", zap.Error(rerr))
	}
}

func parseID(raw string) (int64, error) {
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "/")
	if raw == "" {
		return 0, errors.New("missing id")
	}
	return strconv.ParseInt(raw, 10, 64)
}

func parsePositive(raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, errors.New("must be positive")
	}
	return v, nil
}

// pathID pulls the numeric tail of a URL after the given prefix. The tail
// may carry one trailing segment ("/7/publish" style paths strip it first).
func pathID(path, prefix string) (int64, error) {
	raw := strings.TrimPrefix(path, prefix)
	if i := strings.IndexByte(raw, '/'); i >= 0 {
		raw = raw[:i]
	}
	return parseID(raw)
}

func formInt(r *http.Request, key string) int {
	v, _ := strconv.Atoi(strings.TrimSpace(r.FormValue(key)))
	return v
}

func formInt64(r *http.Request, key string) int64 {
	v, _ := strconv.ParseInt(strings.TrimSpace(r.FormValue(key)), 10, 64)
	return v
}
