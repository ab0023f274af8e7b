package rest

import (
	"encoding/json"
	"net/http"

	"github.com/centsible/centsible/internal/apperr"
	log "github.com/sirupsen/logrus"
)

// ErrorResponse is the JSON body returned for every non-2xx response.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Details string              `json:"details,omitempty"`
	Fields  []apperr.FieldError `json:"fields,omitempty"`
}

// WriteJSON encodes v with the given status. Encoding failures are logged; by then
// the status line is already on the wire so nothing more can be done for the client.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("failed to encode response body: %v", err)
	}
}

// WriteError maps an error to its HTTP status per the taxonomy and writes the JSON
// body. Uncategorized errors become a generic 500; the cause is only logged.
func WriteError(w http.ResponseWriter, err error) {
	appErr, ok := apperr.As(err)
	if !ok {
		log.Errorf("internal error: %v", err)
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	switch appErr.Kind {
	case apperr.KindValidation:
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: appErr.Message, Fields: appErr.Fields})
	case apperr.KindConflict:
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: appErr.Message})
	case apperr.KindAuth:
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: appErr.Message})
	case apperr.KindNotFound:
		WriteJSON(w, http.StatusNotFound, ErrorResponse{Error: appErr.Message})
	default:
		log.Errorf("internal error: %v", err)
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
