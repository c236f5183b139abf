package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"

	apperrors "github.com/studyhall/studyhall-api/internal/errors"
)

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
// Unknown fields are tolerated so clients can send newer payloads to older servers.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteAppError(w, apperrors.Validation("Invalid JSON body."))
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// errorBody is the wire shape of every error response.
type errorBody struct {
	Error string             `json:"error"`
	Code  apperrors.ErrorCode `json:"code"`
}

// WriteAppError writes the JSON error response for an application error,
// mapping its error code to an HTTP status. Unknown errors are masked as
// internal ones so no driver or provider detail leaks to clients.
func WriteAppError(w http.ResponseWriter, err error) {
	WriteJSON(w, statusForCode(apperrors.GetCode(err)), errorBody{
		Error: apperrors.GetMessage(err),
		Code:  apperrors.GetCode(err),
	})
}

func statusForCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeValidation, apperrors.ErrCodeConfig:
		return http.StatusBadRequest
	case apperrors.ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	case apperrors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
