package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/TimurManjosov/govtag/internal/engine"
)

// maxBodyBytes caps request bodies; form definitions are the largest payload.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads the request body into v and writes the error response
// itself when that fails.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RequestTooLargeError(w, r, "Request body must not exceed 1MB")
			return false
		}
		BadRequestError(w, r, ErrCodeInvalidJSON, "Request body must be valid JSON")
		return false
	}
	return true
}

// fieldDTO is the control a value was read from.
type fieldDTO struct {
	Role    string `json:"role,omitempty"`
	Checked bool   `json:"checked,omitempty"`
}

func (f *fieldDTO) toField() (engine.Field, bool) {
	if f == nil {
		return engine.Field{Control: engine.RoleOther}, true
	}
	role, ok := engine.ParseRole(f.Role)
	return engine.Field{Control: role, IsChecked: f.Checked}, ok
}
