package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"blog-platform/internal/types"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
)

const maxBodyBytes = 1 << 20

const codeMethodNotAllowed types.ErrorCode = "METHOD_NOT_ALLOWED"

var errNoRoute = errors.Wrap(types.ErrNotFound, "no such route")

type dataEnvelope struct {
	Data any `json:"data"`
}

type errorBody struct {
	Message string          `json:"message"`
	Code    types.ErrorCode `json:"code"`
	Details any             `json:"details"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("writing response failed: %v", err)
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, dataEnvelope{Data: data})
}

// writeError is the one place errors become responses. Server errors are
// logged with the request id and reach the client only as a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	se := types.FromError(err)
	if se.HTTPStatus() >= http.StatusInternalServerError {
		log.Printf("[%s] %s %s: %+v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, err)
	}
	writeJSON(w, se.HTTPStatus(), errorEnvelope{Error: errorBody{
		Message: se.Message,
		Code:    se.Code,
		Details: se.Details,
	}})
}

// decodeJSON reads a single JSON value from the size-limited body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return types.NewValidationError("body", "is too large")
		case errors.Is(err, io.EOF):
			return types.NewValidationError("body", "is required")
		default:
			return types.NewValidationError("body", "must be a JSON object")
		}
	}
	return nil
}
