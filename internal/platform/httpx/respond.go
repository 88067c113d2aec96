// Package httpx provides HTTP response utilities shared by all handlers.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/shared"
)

// ErrorBody is the error envelope returned on every failed request.
type ErrorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Error      string `json:"error"`
}

// Page wraps a listing with its pagination metadata.
type Page struct {
	Data       any `json:"data"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Paginated sends a listing wrapped in the pagination envelope.
func Paginated(w http.ResponseWriter, data any, p shared.Pagination) {
	JSON(w, http.StatusOK, Page{
		Data:       data,
		Page:       p.Page,
		Limit:      p.PerPage,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	})
}

// Error sends the error envelope without leaking internals.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{
		StatusCode: status,
		Message:    message,
		Error:      http.StatusText(status),
	})
}

// DecodeJSON decodes JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
