package tourism

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/FACorreiaa/go-tourism-planner/internal/types"
)

// ErrPlaceNotFound is returned when the geocoder has no match for a name.
var ErrPlaceNotFound = errors.New("place not found")

var _ Geocoder = (*NominatimClient)(nil)

// NominatimClient geocodes place names with the OpenStreetMap Nominatim search API.
type NominatimClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

func NewNominatimClient(baseURL, userAgent string) *NominatimClient {
	return &NominatimClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Search returns the best match for name.
func (c *NominatimClient) Search(ctx context.Context, name string) (*types.GeoLocation, error) {
	params := url.Values{}
	params.Set("q", name)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build nominatim request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	var results []nominatimResult
	if err := doJSON(ctx, c.httpClient, req, "nominatim", &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrPlaceNotFound
	}

	first := results[0]
	lat, err := strconv.ParseFloat(first.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", first.Lat, err)
	}
	lon, err := strconv.ParseFloat(first.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", first.Lon, err)
	}

	displayName := first.DisplayName
	if displayName == "" {
		displayName = name
	}
	return &types.GeoLocation{Lat: lat, Lon: lon, DisplayName: displayName}, nil
}
