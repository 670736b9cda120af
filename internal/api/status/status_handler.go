package status

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/go-tourism-planner/internal/api"
	"github.com/FACorreiaa/go-tourism-planner/internal/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Create handles POST /api/status.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("StatusHandler").Start(r.Context(), "Create")
	defer span.End()

	var req types.StatusCheckCreate
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "invalid body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	check, err := h.service.Create(ctx, req)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrClientNameRequired) {
			span.SetStatus(codes.Error, "validation failed")
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(ctx, "Failed to create status check", slog.Any("error", err))
		span.SetStatus(codes.Error, "service failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create status check")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, check)
}

// List handles GET /api/status.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("StatusHandler").Start(r.Context(), "List")
	defer span.End()

	checks, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list status checks", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "service failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list status checks")
		return
	}

	span.SetStatus(codes.Ok, "status checks listed")
	api.WriteJSONResponse(w, r, http.StatusOK, checks)
}
