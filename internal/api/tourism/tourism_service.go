package tourism

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/FACorreiaa/go-tourism-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-tourism-planner/internal/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

type Geocoder interface {
	Search(ctx context.Context, name string) (*types.GeoLocation, error)
}

type WeatherProvider interface {
	Current(ctx context.Context, lat, lon float64) (*types.WeatherReport, error)
}

type PlacesProvider interface {
	Nearby(ctx context.Context, lat, lon float64) ([]types.PlaceData, error)
}

var _ Service = (*ServiceImpl)(nil)

// Service answers tourism queries.
type Service interface {
	Query(ctx context.Context, input string) (*types.QueryResult, error)
}

type ServiceImpl struct {
	logger  *slog.Logger
	geo     Geocoder
	weather WeatherProvider
	places  PlacesProvider
}

func NewServiceImpl(geo Geocoder, weather WeatherProvider, places PlacesProvider, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		geo:     geo,
		weather: weather,
		places:  places,
	}
}

// Query resolves the place named in input and describes its current weather and
// nearby attractions. An unknown place is an unsuccessful result, not an error;
// a failing weather or places lookup drops that part of the message.
func (s *ServiceImpl) Query(ctx context.Context, input string) (*types.QueryResult, error) {
	ctx, span := otel.Tracer("TourismService").Start(ctx, "Query", trace.WithAttributes(
		attribute.String("query.input", input),
	))
	defer span.End()

	start := time.Now()
	outcome := "success"
	defer func() {
		m := metrics.Get()
		attrs := metric.WithAttributes(attribute.String("outcome", outcome))
		m.TourismQueriesTotal.Add(ctx, 1, attrs)
		m.TourismQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	}()

	name := ExtractPlaceName(input)
	span.SetAttributes(attribute.String("place.name", name))
	l := s.logger.With(slog.String("place", name))

	loc, err := s.geo.Search(ctx, name)
	if err != nil {
		if !errors.Is(err, ErrPlaceNotFound) {
			l.WarnContext(ctx, "Geocoding failed", slog.Any("error", err))
			span.RecordError(err)
		}
		outcome = "not_found"
		span.SetStatus(codes.Ok, "place not found")
		return &types.QueryResult{
			Success: false,
			Message: fmt.Sprintf("I don't know if the place '%s' exists. Please try a different location.", name),
		}, nil
	}

	var (
		report    *types.WeatherReport
		places    []types.PlaceData
		placesErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.weather.Current(gctx, loc.Lat, loc.Lon)
		if err != nil {
			l.WarnContext(gctx, "Weather lookup failed", slog.Any("error", err))
			return nil
		}
		report = r
		return nil
	})
	g.Go(func() error {
		p, err := s.places.Nearby(gctx, loc.Lat, loc.Lon)
		if err != nil {
			l.WarnContext(gctx, "Places lookup failed", slog.Any("error", err))
			placesErr = err
			return nil
		}
		places = p
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		outcome = "cancelled"
		span.RecordError(err)
		span.SetStatus(codes.Error, "query cancelled")
		return nil, fmt.Errorf("tourism query cancelled: %w", err)
	}

	span.SetAttributes(
		attribute.Bool("weather.available", report != nil),
		attribute.Int("places.count", len(places)),
	)
	span.SetStatus(codes.Ok, "query answered")

	return &types.QueryResult{
		Success:     true,
		Message:     composeMessage(loc.DisplayName, report, places, placesErr == nil),
		Place:       loc.DisplayName,
		Coordinates: &types.Coordinates{Lat: loc.Lat, Lon: loc.Lon},
		PlacesData:  places,
	}, nil
}

// composeMessage builds the newline-delimited text the planner page renders:
// a heading sentence, then one attraction name per line.
func composeMessage(place string, report *types.WeatherReport, places []types.PlaceData, placesLoaded bool) string {
	var weather string
	if report != nil {
		weather = fmt.Sprintf("In %s %s %.1f°C with a chance of %s%% to rain.",
			place, types.WeatherMarker, report.Temperature,
			strconv.FormatFloat(report.PrecipitationProb, 'f', -1, 64))
	}

	names := make([]string, len(places))
	for i, p := range places {
		names[i] = p.Name
	}
	list := strings.Join(names, "\n")

	switch {
	case weather != "" && len(places) > 0:
		return fmt.Sprintf("%s And %s:\n%s", weather, types.PlacesMarker, list)
	case len(places) > 0:
		return fmt.Sprintf("In %s %s,\n%s", place, types.PlacesMarker, list)
	case weather != "" && placesLoaded:
		return fmt.Sprintf("%s In %s there are no specific tourist attractions found nearby.", weather, place)
	case weather != "":
		return weather
	case placesLoaded:
		return fmt.Sprintf("In %s there are no specific tourist attractions found nearby.", place)
	default:
		return fmt.Sprintf("In %s neither the weather nor the attractions are available right now.", place)
	}
}
