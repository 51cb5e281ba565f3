package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/sailsmart/sailsmart/internal/errors"
)

// userIDHeader carries the authenticated user id, set by the API gateway in
// front of this service.
const userIDHeader = "X-User-ID"

func userID(r *http.Request) string {
	return r.Header.Get(userIDHeader)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// errorBody is the uniform error envelope.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var statusByCode = map[apperrors.Code]int{
	apperrors.CodeUnauthorized:      http.StatusForbidden,
	apperrors.CodeNotFound:          http.StatusNotFound,
	apperrors.CodeInvalidValue:      http.StatusBadRequest,
	apperrors.CodeInvalidStatus:     http.StatusConflict,
	apperrors.CodeRequiresUserInput: http.StatusUnprocessableEntity,
	apperrors.CodeUnknownAction:     http.StatusBadRequest,
	apperrors.CodeUnknownTool:       http.StatusBadRequest,
	apperrors.CodeExecutionError:    http.StatusInternalServerError,
}

func writeError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, errorBody{Code: string(code), Message: apperrors.MessageOf(err)})
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := userID(r)
	if id == "" {
		writeJSON(w, http.StatusUnauthorized, errorBody{
			Code:    string(apperrors.CodeUnauthorized),
			Message: "missing " + userIDHeader + " header",
		})
		return "", false
	}
	return id, true
}
