package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/erazemk/loja/internal/store"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// jsonMessage writes a 200 response carrying a confirmation message.
func jsonMessage(w http.ResponseWriter, message string) {
	jsonResponse(w, http.StatusOK, map[string]string{"message": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// pathID parses the {id} path value. On failure it writes a 400 response.
func pathID(w http.ResponseWriter, r *http.Request, what string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		jsonError(w, http.StatusBadRequest, "invalid "+what+" id")
		return 0, false
	}
	return id, true
}

// storeError maps a failed store call to a response. notFound is the message
// for a missing target row; action names the operation in the log and in
// the generic 500 message.
func storeError(w http.ResponseWriter, err error, notFound, action string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, notFound)
	case errors.Is(err, store.ErrInUse), errors.Is(err, store.ErrConflict):
		jsonError(w, http.StatusConflict, ruleMessage(err))
	case strings.Contains(err.Error(), "constraint failed"):
		slog.Warn("constraint violation", "action", action, "error", err)
		jsonError(w, http.StatusConflict, "failed to "+action+": conflicts with existing data")
	default:
		slog.Error("failed to "+action, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to "+action)
	}
}

// ruleMessage strips the sentinel suffix from a store rule violation, e.g.
// "cannot delete brand: still used by 2 products".
func ruleMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{store.ErrInUse, store.ErrConflict, store.ErrNotFound} {
		msg = strings.TrimSuffix(msg, ": "+sentinel.Error())
	}
	return msg
}

// emptyIfNil keeps list endpoints from encoding null.
func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
