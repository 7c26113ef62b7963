// Package httpapi is the thin HTTP layer over the validation engine. It
// decodes invoices, delegates to the validator, and maps run-level faults to
// HTTP status codes; no compliance logic lives here.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"invoiceguard/internal/domain"
)

// Validator is the engine surface the transport needs.
type Validator interface {
	Validate(ctx context.Context, inv domain.RawInvoice) (*domain.Verdict, error)
}

// Handler wires validation endpoints to the engine.
type Handler struct {
	validator Validator
	logger    *slog.Logger
}

// New constructs a Handler.
func New(validator Validator, logger *slog.Logger) *Handler {
	return &Handler{validator: validator, logger: logger}
}

// Register mounts the validation endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/invoices/validate", h.HandleValidate)
}

// HandleValidate handles POST /v1/invoices/validate requests.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	var inv domain.RawInvoice
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
		writeError(w, http.StatusBadRequest, "invalid invoice payload")
		return
	}

	verdict, err := h.validator.Validate(ctx, inv)
	if err != nil {
		h.logger.ErrorContext(ctx, "validation run failed",
			"invoice", inv.Ref(),
			"error", err,
		)
		if errors.Is(err, context.Canceled) {
			writeError(w, http.StatusRequestTimeout, "validation cancelled")
			return
		}
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h.logger.InfoContext(ctx, "invoice validated",
		"invoice", inv.Ref(),
		"status", verdict.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	writeJSON(w, http.StatusOK, verdict)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
