package interfaces

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	budgetingErrors "github.com/sebuszqo/BudgetManager/internal/budgeting/errors"
	"github.com/sebuszqo/BudgetManager/internal/logger"
)

type RespondJSONFunc func(w http.ResponseWriter, status int, payload interface{})

type RespondErrorFunc func(w http.ResponseWriter, status int, message string, detail ...interface{})

func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// RespondError writes the error envelope, detail carries field errors or a
// plain message.
func RespondError(w http.ResponseWriter, status int, message string, detail ...interface{}) {
	payload := map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	}
	if len(detail) > 0 && detail[0] != nil {
		payload["detail"] = detail[0]
	}
	RespondJSON(w, status, payload)
}

// responder is embedded by every budgeting handler.
type responder struct {
	respondJSON  RespondJSONFunc
	respondError RespondErrorFunc
}

func newResponder(respondJSON RespondJSONFunc, respondError RespondErrorFunc) responder {
	if respondJSON == nil {
		log.Fatal("RespondJSON function must not be nil")
	}
	if respondError == nil {
		log.Fatal("RespondError function must not be nil")
	}
	return responder{respondJSON: respondJSON, respondError: respondError}
}

func (h responder) success(w http.ResponseWriter, status int, message string, data interface{}) {
	h.respondJSON(w, status, map[string]interface{}{
		"status":  "success",
		"message": message,
		"data":    data,
	})
}

func (h responder) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// fail maps a service error to a response. action names the operation in
// the generic 500 message.
func (h responder) fail(w http.ResponseWriter, r *http.Request, err error, action string) {
	if verr, ok := budgetingErrors.AsValidationError(err); ok {
		h.respondError(w, http.StatusBadRequest, "Validation failed", verr.Fields)
		return
	}
	switch {
	case errors.Is(err, budgetingErrors.ErrNoBudgetAccess):
		h.respondError(w, http.StatusForbidden, err.Error(), err.Error())
	case errors.Is(err, budgetingErrors.ErrNotFound):
		h.respondError(w, http.StatusNotFound, err.Error())
	default:
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msgf("Failed to %s", action)
		h.respondError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

// pathID parses the {id} path value, an unparsable id can not exist.
func (h responder) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusNotFound, budgetingErrors.ErrNotFound.Error())
		return uuid.Nil, false
	}
	return id, true
}

// invalidQuery reports a bad list filter the way field errors are reported.
func (h responder) invalidQuery(w http.ResponseWriter, err error) {
	var qerr *queryError
	if errors.As(err, &qerr) {
		h.respondError(w, http.StatusBadRequest, "Invalid query parameters", map[string][]string{qerr.param: {qerr.msg}})
		return
	}
	h.respondError(w, http.StatusBadRequest, "Invalid query parameters")
}
