package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/tendant/nexuspoint/pkg/apierror"
)

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// NoContent writes a 204 response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes an error response with a code derived from status.
func Error(w http.ResponseWriter, status int, message string) {
	apierror.New(status, codeForStatus(status), message).WriteJSON(w, "")
}

// WriteError converts err to an API error and writes it, tagged with the
// request id when one is set.
func WriteError(w http.ResponseWriter, r *http.Request, err error) *apierror.Error {
	apiErr := apierror.FromError(err)
	apiErr.WriteJSON(w, chimw.GetReqID(r.Context()))
	return apiErr
}

// DecodeJSON decodes the request body into dst. Oversized bodies map to 413,
// anything else unreadable to 400.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apierror.New(http.StatusRequestEntityTooLarge, apierror.CodeBadRequest, "request body too large")
		}
		return apierror.BadRequest("invalid request body").WithError(err)
	}
	return nil
}

func codeForStatus(status int) apierror.Code {
	switch status {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return apierror.CodeBadRequest
	case http.StatusUnauthorized:
		return apierror.CodeUnauthorized
	case http.StatusForbidden:
		return apierror.CodeForbidden
	case http.StatusNotFound:
		return apierror.CodeNotFound
	case http.StatusConflict:
		return apierror.CodeConflict
	case http.StatusUnprocessableEntity:
		return apierror.CodeValidationFailed
	case http.StatusTooManyRequests:
		return apierror.CodeRateLimitExceeded
	case http.StatusNotImplemented:
		return apierror.CodeNotImplemented
	default:
		return apierror.CodeInternalError
	}
}
