package tourism

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/FACorreiaa/go-tourism-planner/internal/api"
	"github.com/FACorreiaa/go-tourism-planner/internal/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
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

// Query handles POST /api/tourism/query.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TourismHandler").Start(r.Context(), "Query", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/tourism/query"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Query"))

	var req types.TourismQuery
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "invalid body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	place := strings.TrimSpace(req.Place)
	if place == "" {
		span.SetStatus(codes.Error, "empty place")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Place name cannot be empty")
		return
	}

	result, err := h.service.Query(ctx, place)
	if err != nil {
		l.ErrorContext(ctx, "Tourism query failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "service failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to process tourism query")
		return
	}

	l.InfoContext(ctx, "Tourism query answered",
		slog.String("place", result.Place),
		slog.Bool("success", result.Success),
		slog.Int("places", len(result.PlacesData)),
	)
	api.WriteJSONResponse(w, r, http.StatusOK, result)
}
