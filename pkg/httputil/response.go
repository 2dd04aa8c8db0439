package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	apperrors "github.com/Eggie20/Online-Supermarket/pkg/errors"
	"github.com/Eggie20/Online-Supermarket/pkg/logger"
	"github.com/Eggie20/Online-Supermarket/pkg/validator"
)

// Response is the JSON envelope every storefront endpoint answers with.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse is the error half of Response.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteJSON encodes v with the given status. Encoding failures are dropped
// because the header has already been written.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorBody(w http.ResponseWriter, status int, body ErrorResponse) {
	WriteJSON(w, status, Response{Error: &body})
}

// WriteError turns err into an error envelope. Status and code come from
// apperrors; 500s are logged and their message is replaced so internals do
// not leak to the shopper.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	ctx := r.Context()
	status := apperrors.HTTPStatus(err)
	body := ErrorResponse{
		Code:      apperrors.Code(err),
		Message:   publicMessage(err, status),
		RequestID: logger.CorrelationIDFromContext(ctx),
	}

	if status >= http.StatusInternalServerError {
		l := logger.FromContext(ctx)
		if l == slog.Default() && fallback != nil {
			l = fallback
		}
		l.ErrorContext(ctx, "request failed",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	writeErrorBody(w, status, body)
}

func publicMessage(err error, status int) string {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr.Message
	case status >= http.StatusInternalServerError:
		return "an internal error occurred"
	case errors.Is(err, apperrors.ErrNotFound):
		return apperrors.ErrNotFound.Error()
	case errors.Is(err, apperrors.ErrGone):
		return apperrors.ErrGone.Error()
	default:
		return err.Error()
	}
}

// WriteValidationError answers 400 with per-field messages when err came
// from the validator, or with err's text otherwise.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		writeErrorBody(w, http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "request validation failed",
			Fields:  valErr.Fields(),
		})
		return
	}
	writeErrorBody(w, http.StatusBadRequest, ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()})
}

func invalidParameter(w http.ResponseWriter, what, param string) {
	writeErrorBody(w, http.StatusBadRequest, ErrorResponse{
		Code:    "INVALID_PARAMETER",
		Message: "invalid " + what + ": " + param,
	})
}

// ParseUUID parses a confirmation id path segment. On failure it has
// already written a 400 and the caller should return.
func ParseUUID(w http.ResponseWriter, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(param)
	if err != nil {
		invalidParameter(w, "UUID", param)
		return uuid.Nil, false
	}
	return id, true
}

// ParseID parses a positive product id path segment, answering 400 otherwise.
func ParseID(w http.ResponseWriter, param string) (int, bool) {
	id, err := strconv.Atoi(param)
	if err != nil || id <= 0 {
		invalidParameter(w, "id", param)
		return 0, false
	}
	return id, true
}
