package tourism

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/FACorreiaa/go-tourism-planner/app/observability/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// UpstreamError is returned when an upstream answers with a non-2xx status.
type UpstreamError struct {
	Upstream   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s responded with status %d: %s", e.Upstream, e.StatusCode, e.Body)
}

// doJSON sends req and decodes a 2xx JSON body into dst, recording duration and
// failures under the upstream name.
func doJSON(ctx context.Context, client *http.Client, req *http.Request, upstream string, dst any) (err error) {
	m := metrics.Get()
	attrs := metric.WithAttributes(attribute.String("upstream", upstream))
	start := time.Now()
	defer func() {
		m.UpstreamDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
		if err != nil {
			m.UpstreamErrorsTotal.Add(ctx, 1, attrs)
		}
	}()

	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%s request failed: %w", upstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &UpstreamError{Upstream: upstream, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", upstream, err)
	}
	return nil
}
