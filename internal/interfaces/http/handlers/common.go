// Package handlers implements the HTTP handlers for the comps API.
package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/compsred/comps-engine/pkg/errors"
)

// maxRequestBody caps JSON request bodies. Listings with photo URLs run a
// few KB; 1 MB leaves generous headroom.
const maxRequestBody = 1 << 20

// parsePagination extracts page and page_size from query parameters.
func parsePagination(r *http.Request) (int, int) {
	page := 1
	pageSize := 20

	if v := r.URL.Query().Get("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			page = p
		}
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if ps, err := strconv.Atoi(v); err == nil && ps > 0 && ps <= 100 {
			pageSize = ps
		}
	}
	return page, pageSize
}

// decodeJSON reads and decodes a JSON request body into dest.
func decodeJSON(r *http.Request, dest interface{}) error {
	body := http.MaxBytesReader(nil, r.Body, maxRequestBody)
	defer io.Copy(io.Discard, body)

	if err := json.NewDecoder(body).Decode(dest); err != nil {
		return errors.Wrap(err, errors.ErrCodeBadRequest, "invalid request body")
	}
	return nil
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeAppError maps an application error onto its HTTP status via the
// error-code table. Internal errors are masked; everything else surfaces
// its code and message.
func writeAppError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = "internal server error"
	}
	writeJSON(w, status, ErrorResponse{Code: string(code), Message: message})
}

//Personal.AI order the ending
