// Package httpx provides the uniform JSON response envelope.
package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/atlas-admin/atlas-admin/internal/shared"
)

// Envelope is the wire shape shared by every endpoint. Code 0 means
// success; errors carry a nonzero code mirroring the HTTP status.
type Envelope struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

// PageData nests a listing and its pagination metadata inside the envelope.
type PageData struct {
	List       any               `json:"list"`
	Pagination shared.Pagination `json:"pagination"`
}

// JSON sends a raw JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// OK sends a success envelope with the given data.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{
		Code:      0,
		Message:   "ok",
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Page sends a success envelope wrapping a paginated listing.
func Page(w http.ResponseWriter, list any, p shared.Pagination) {
	OK(w, PageData{List: list, Pagination: p})
}

// Fail sends an error envelope. The envelope code mirrors the HTTP status.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{
		Code:      status,
		Message:   message,
		Data:      nil,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
