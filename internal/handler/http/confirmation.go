package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Eggie20/Online-Supermarket/internal/confirm"
	"github.com/Eggie20/Online-Supermarket/pkg/httputil"
)

// ConfirmationHandler resolves the confirmations opened by destructive actions.
type ConfirmationHandler struct {
	confirms *confirm.Registry
	logger   *slog.Logger
}

// NewConfirmationHandler creates a new confirmation HTTP handler.
func NewConfirmationHandler(confirms *confirm.Registry, logger *slog.Logger) *ConfirmationHandler {
	return &ConfirmationHandler{
		confirms: confirms,
		logger:   logger,
	}
}

// GetConfirmation handles GET /api/v1/confirmations/{id}
func (h *ConfirmationHandler) GetConfirmation(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	pending, err := h.confirms.Get(profileFrom(r), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: pending})
}

// Accept handles POST /api/v1/confirmations/{id}/accept
func (h *ConfirmationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	pending, err := h.confirms.Accept(r.Context(), profileFrom(r), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: pending})
}

// Cancel handles POST /api/v1/confirmations/{id}/cancel
func (h *ConfirmationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	pending, err := h.confirms.Cancel(profileFrom(r), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: pending})
}
