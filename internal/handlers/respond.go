package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"gemini-chat-backend/internal/models"
	"gemini-chat-backend/internal/services"
)

// statusByKind is the only place service errors become HTTP statuses.
var statusByKind = map[services.Kind]int{
	services.KindUnsupportedMediaType: http.StatusBadRequest,
	services.KindEmptyPayload:         http.StatusBadRequest,
	services.KindMalformedImage:       http.StatusBadRequest,
	services.KindInvalidRequest:       http.StatusUnprocessableEntity,
	services.KindPayloadTooLarge:      http.StatusRequestEntityTooLarge,
	services.KindUpstream:             http.StatusInternalServerError,
	services.KindUnexpected:           http.StatusInternalServerError,
}

func statusFor(err error) int {
	if status, ok := statusByKind[services.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// handleServiceError writes err with its mapped status. Errors outside the
// service taxonomy are reported as "<unexpectedContext>: <cause>".
func handleServiceError(w http.ResponseWriter, err error, unexpectedContext string) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		err = services.ErrUnexpected(unexpectedContext, err)
	}
	writeJSON(w, statusFor(err), models.ErrorResponse{Detail: err.Error()})
}

// NotFound and MethodNotAllowed keep router errors in the {"detail"} shape.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, models.ErrorResponse{Detail: "Not Found"})
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, models.ErrorResponse{Detail: "Method Not Allowed"})
}
