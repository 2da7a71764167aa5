package httpapi

import (
	"net/http"

	"apartment-data/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const internalErrorMessage = "an unexpected error occurred"

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict, domain.KindCapacity:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err to a status code and an envelope carrying a fresh
// error_id. Storage failures are logged with that id and hidden from callers.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	errorID := uuid.NewString()
	kind := domain.KindOf(err)
	status := statusForKind(kind)

	fields := []zap.Field{
		zap.String("error_id", errorID),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", fields...)
		writeJSON(w, status, FailWithID(internalErrorMessage, errorID))
		return
	}
	logger.Info("Request rejected", append(fields, zap.String("kind", string(kind)))...)
	writeJSON(w, status, FailWithID(domain.Message(err), errorID))
}
