package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/FACorreiaa/go-tourism-planner/config"
	"github.com/FACorreiaa/go-tourism-planner/internal/container"
	"github.com/FACorreiaa/go-tourism-planner/internal/render"
	"github.com/FACorreiaa/go-tourism-planner/internal/types"
	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const parisMessage = "In Paris it's currently 18.5°C with a chance of 20% to rain. And these are the places you can go:\nEiffel Tower\nLouvre Museum"

// E2ETestSuite runs the full application against fake Nominatim, Open-Meteo
// and Overpass upstreams.
type E2ETestSuite struct {
	suite.Suite
	upstreams *httptest.Server
	server    *httptest.Server
	handler   http.Handler
	container *container.Container
	client    *http.Client
}

func (suite *E2ETestSuite) SetupSuite() {
	suite.upstreams = httptest.NewServer(suite.createUpstreams())
	suite.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		suite.handler.ServeHTTP(w, r)
	}))

	var cfg config.Config
	cfg.Mode = "test"
	cfg.Server.Timeout = 10 * time.Second
	cfg.Planner.APIBaseURL = suite.server.URL
	cfg.Planner.RequestTimeout = 5 * time.Second
	cfg.Planner.SearchURL = render.DefaultSearchURL
	cfg.Planner.SessionTTL = time.Minute
	cfg.Upstreams.NominatimURL = suite.upstreams.URL
	cfg.Upstreams.OpenMeteoURL = suite.upstreams.URL
	cfg.Upstreams.OverpassURL = suite.upstreams.URL + "/api/interpreter"
	cfg.Upstreams.UserAgent = "TourismPlanner/1.0"
	cfg.Upstreams.PlacesRadius = 10000
	cfg.Upstreams.PlacesLimit = 5

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := container.NewContainer(context.Background(), &cfg, logger)
	suite.Require().NoError(err)
	suite.container = c
	suite.handler = c.Router()
	suite.client = &http.Client{Timeout: 10 * time.Second}
}

func (suite *E2ETestSuite) TearDownSuite() {
	if suite.server != nil {
		suite.server.Close()
	}
	if suite.upstreams != nil {
		suite.upstreams.Close()
	}
	if suite.container != nil {
		suite.container.Close()
	}
}

func (suite *E2ETestSuite) createUpstreams() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(suite.T(), "TourismPlanner/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("q") != "Paris" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`[{"lat":"48.8566101","lon":"2.3514992","display_name":"Paris"}]`))
	})

	mux.HandleFunc("GET /v1/forecast", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(suite.T(), "true", r.URL.Query().Get("current_weather"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"current_weather":{"temperature":18.46},"hourly":{"precipitation_probability":[20],"relativehumidity_2m":[61],"windspeed_10m":[9.7]}}`))
	})

	mux.HandleFunc("POST /api/interpreter", func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(suite.T(), r.FormValue("data"), "around:10000,")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"elements":[
			{"tags":{"name":"Eiffel Tower","tourism":"attraction","wikipedia":"fr:Tour Eiffel"}},
			{"tags":{"tourism":"viewpoint"}},
			{"tags":{"name":"Louvre Museum","tourism":"museum"}},
			{"tags":{"name":"Eiffel Tower","historic":"monument"}}
		]}`))
	})

	return mux
}

func (suite *E2ETestSuite) postJSON(path, body string) *http.Response {
	resp, err := suite.client.Post(suite.server.URL+path, "application/json", bytes.NewBufferString(body))
	suite.Require().NoError(err)
	return resp
}

func (suite *E2ETestSuite) TestAPIRoot() {
	resp, err := suite.client.Get(suite.server.URL + "/api/")
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal(http.StatusOK, resp.StatusCode)
	var body map[string]string
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	suite.Equal("Tourism Planner API", body["message"])

	resp, err = suite.client.Get(suite.server.URL + "/ping")
	suite.Require().NoError(err)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	suite.Equal("pong", string(raw))
}

func (suite *E2ETestSuite) TestTourismQuery() {
	resp := suite.postJSON("/api/tourism/query", `{"place":"Paris"}`)
	defer resp.Body.Close()
	suite.Require().Equal(http.StatusOK, resp.StatusCode)

	var result types.QueryResult
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&result))
	suite.True(result.Success)
	suite.Equal("Paris", result.Place)
	suite.Equal(parisMessage, result.Message)
	suite.Require().NotNil(result.Coordinates)
	suite.Equal("48.8566, 2.3515", render.FormatCoordinates(result.Coordinates))
	suite.Equal([]types.PlaceData{
		{Name: "Eiffel Tower", WikipediaURL: "https://fr.wikipedia.org/wiki/Tour_Eiffel"},
		{Name: "Louvre Museum", WikipediaURL: "https://en.wikipedia.org/wiki/Louvre_Museum"},
	}, result.PlacesData)
}

func (suite *E2ETestSuite) TestTourismQueryErrors() {
	suite.Run("unknown place", func() {
		resp := suite.postJSON("/api/tourism/query", `{"place":"Atlantis"}`)
		defer resp.Body.Close()
		suite.Equal(http.StatusOK, resp.StatusCode)

		var result types.QueryResult
		suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&result))
		suite.False(result.Success)
		suite.Equal("I don't know if the place 'Atlantis' exists. Please try a different location.", result.Message)
	})

	suite.Run("blank place", func() {
		resp := suite.postJSON("/api/tourism/query", `{"place":"  "}`)
		defer resp.Body.Close()
		suite.Equal(http.StatusBadRequest, resp.StatusCode)

		var body types.ErrorDetail
		suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
		suite.Equal("Place name cannot be empty", body.Detail)
		suite.NotEmpty(body.RequestID)
	})

	suite.Run("status checks need a database", func() {
		resp, err := suite.client.Get(suite.server.URL + "/api/status")
		suite.Require().NoError(err)
		defer resp.Body.Close()
		suite.Equal(http.StatusNotFound, resp.StatusCode)
	})
}

func (suite *E2ETestSuite) TestPlannerPage() {
	jar, err := cookiejar.New(nil)
	suite.Require().NoError(err)
	browser := &http.Client{
		Jar:     jar,
		Timeout: 10 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := browser.Get(suite.server.URL + "/")
	suite.Require().NoError(err)
	resp.Body.Close()
	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Equal("no-store", resp.Header.Get("Cache-Control"))

	resp, err = browser.PostForm(suite.server.URL+"/", url.Values{"place": {"Paris"}})
	suite.Require().NoError(err)
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	resp.Body.Close()
	suite.Require().NoError(err)

	suite.Equal("48.8566, 2.3515", doc.Find(".result-coordinates").Text())
	suite.True(strings.HasPrefix(doc.Find(".segment-heading").Text(), "In Paris it's currently 18.5°C"))
	links := doc.Find("a.segment-attraction")
	suite.Require().Equal(2, links.Length())
	suite.Equal("Louvre Museum", links.Eq(1).Text())

	resp, err = browser.Get(suite.server.URL + links.Eq(1).AttrOr("href", ""))
	suite.Require().NoError(err)
	resp.Body.Close()
	suite.Equal(http.StatusFound, resp.StatusCode)
	suite.Equal("https://en.wikipedia.org/wiki/Louvre_Museum", resp.Header.Get("Location"))

	resp, err = browser.PostForm(suite.server.URL+"/", url.Values{"place": {"   "}})
	suite.Require().NoError(err)
	doc, err = goquery.NewDocumentFromReader(resp.Body)
	resp.Body.Close()
	suite.Require().NoError(err)
	suite.Equal("Please enter a place name", doc.Find(".error p").Text())
	suite.Zero(doc.Find(".result").Length())
}

func TestE2ESuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping end-to-end tests in short mode")
	}
	suite.Run(t, new(E2ETestSuite))
}

func TestE2E_ContainerWithoutDatabase(t *testing.T) {
	var cfg config.Config
	c, err := container.NewContainer(context.Background(), &cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.Pool)
	assert.Nil(t, c.StatusHandler)
	assert.True(t, c.WaitForDB(context.Background()))
}
