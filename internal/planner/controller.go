package planner

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/FACorreiaa/go-tourism-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-tourism-planner/internal/types"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// User-facing messages.
const (
	MsgEmptyPlace  = "Please enter a place name"
	MsgFetchFailed = "Failed to fetch information. Please try again."
)

var (
	// ErrEmptyPlace is returned by Submit for blank input. State carries MsgEmptyPlace.
	ErrEmptyPlace = errors.New("planner: empty place")
	// ErrSubmissionInFlight is returned by Submit when an earlier submission has not
	// settled yet. The trigger is dropped and state is left untouched.
	ErrSubmissionInFlight = errors.New("planner: submission already in flight")
)

// State is a snapshot of the form. At most one of Result and Error is set.
type State struct {
	Place   string
	Loading bool
	Result  *types.QueryResult
	Error   string
}

// CanSubmit reports whether the submit control is enabled.
func (s State) CanSubmit() bool {
	return !s.Loading && strings.TrimSpace(s.Place) != ""
}

// Controller owns one planner form: the input text, the loading flag and the
// outcome of the latest submission. At most one request is outstanding per
// Controller; concurrent submissions are rejected, not queued.
type Controller struct {
	api    Querier
	logger *slog.Logger

	// submitting is the re-entrancy guard. It is set before the request starts and
	// is independent of the render-visible Loading flag.
	submitting atomic.Bool

	mu    sync.Mutex
	state State
}

func NewController(api Querier, logger *slog.Logger) *Controller {
	return &Controller{
		api:    api,
		logger: logger,
	}
}

// State returns a copy of the current form state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetPlace records the current input text.
func (c *Controller) SetPlace(place string) {
	c.mu.Lock()
	c.state.Place = place
	c.mu.Unlock()
}

// Submit sends place to the backend and stores the outcome in State.
//
// Application failures (success=false) and transport failures are not returned;
// they end up in State().Error. Submit only returns ErrSubmissionInFlight and
// ErrEmptyPlace, plus nil once an accepted request has settled.
func (c *Controller) Submit(ctx context.Context, place string) error {
	if !c.submitting.CompareAndSwap(false, true) {
		c.record(ctx, "ignored")
		return ErrSubmissionInFlight
	}
	defer c.submitting.Store(false)

	trimmed := strings.TrimSpace(place)

	c.mu.Lock()
	c.state.Place = place
	if trimmed == "" {
		c.state.Result = nil
		c.state.Error = MsgEmptyPlace
		c.mu.Unlock()
		c.record(ctx, "invalid")
		return ErrEmptyPlace
	}
	c.state.Loading = true
	c.state.Result = nil
	c.state.Error = ""
	c.mu.Unlock()

	// Clears Loading when Query panics; the normal path clears it with the outcome.
	defer func() {
		c.mu.Lock()
		c.state.Loading = false
		c.mu.Unlock()
	}()

	result, err := c.api.Query(ctx, trimmed)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Loading = false
	switch {
	case err != nil:
		c.state.Error = failureMessage(err)
		c.logger.WarnContext(ctx, "Tourism query failed", slog.String("place", trimmed), slog.Any("error", err))
		c.record(ctx, "transport_error")
	case result.Success:
		c.state.Result = result
		c.record(ctx, "success")
	default:
		c.state.Error = result.Message
		if c.state.Error == "" {
			c.state.Error = MsgFetchFailed
		}
		c.record(ctx, "failure")
	}
	return nil
}

func (c *Controller) record(ctx context.Context, outcome string) {
	metrics.Get().PlannerSubmissionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// failureMessage picks the backend's detail when the failure carried one.
func failureMessage(err error) string {
	var te *TransportError
	if errors.As(err, &te) && te.Detail != "" {
		return te.Detail
	}
	return MsgFetchFailed
}
