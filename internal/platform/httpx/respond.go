// Package httpx provides the JSON request/response helpers shared by every
// API handler.
package httpx

import (
	"encoding/json"
	"net/http"
)

// MessageBody is the error/status envelope returned by the API.
type MessageBody struct {
	Message string `json:"message"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Message sends a JSON {"message": ...} body with the given status code.
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, MessageBody{Message: message})
}

// DecodeJSON decodes the JSON request body into the target struct. Unknown
// fields are tolerated so clients can send extra keys, matching the lenient
// body handling of the public API.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
