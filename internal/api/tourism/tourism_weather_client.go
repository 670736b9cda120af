package tourism

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/FACorreiaa/go-tourism-planner/internal/types"
)

var _ WeatherProvider = (*OpenMeteoClient)(nil)

// OpenMeteoClient reads current conditions from the Open-Meteo forecast API.
type OpenMeteoClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewOpenMeteoClient(baseURL string) *OpenMeteoClient {
	return &OpenMeteoClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type openMeteoForecast struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
	} `json:"current_weather"`
	Hourly struct {
		PrecipitationProbability []float64 `json:"precipitation_probability"`
		RelativeHumidity         []float64 `json:"relativehumidity_2m"`
		WindSpeed                []float64 `json:"windspeed_10m"`
	} `json:"hourly"`
}

// Current returns the current temperature and the first forecast hour's
// precipitation probability, humidity and wind speed.
func (c *OpenMeteoClient) Current(ctx context.Context, lat, lon float64) (*types.WeatherReport, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("current_weather", "true")
	params.Set("hourly", "temperature_2m,precipitation_probability,relativehumidity_2m,windspeed_10m")
	params.Set("timezone", "auto")
	params.Set("forecast_hours", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/forecast?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build open-meteo request: %w", err)
	}

	var forecast openMeteoForecast
	if err := doJSON(ctx, c.httpClient, req, "open-meteo", &forecast); err != nil {
		return nil, err
	}

	return &types.WeatherReport{
		Temperature:       round1(forecast.CurrentWeather.Temperature),
		PrecipitationProb: round1(firstOrZero(forecast.Hourly.PrecipitationProbability)),
		Humidity:          round1(firstOrZero(forecast.Hourly.RelativeHumidity)),
		WindSpeed:         round1(firstOrZero(forecast.Hourly.WindSpeed)),
	}, nil
}

func firstOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return values[0]
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
