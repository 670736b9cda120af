package web

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/FACorreiaa/go-tourism-planner/internal/planner"
	"github.com/FACorreiaa/go-tourism-planner/internal/render"
	"github.com/FACorreiaa/go-tourism-planner/internal/types"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuerier struct {
	calls atomic.Int32
	fn    func(ctx context.Context, place string) (*types.QueryResult, error)
}

func (f *fakeQuerier) Query(ctx context.Context, place string) (*types.QueryResult, error) {
	f.calls.Add(1)
	return f.fn(ctx, place)
}

var parisResult = &types.QueryResult{
	Success:     true,
	Message:     "In Paris it's currently 18°C\nAnd these are the places you can go:\nEiffel Tower\nLouvre Museum",
	Place:       "Paris",
	Coordinates: &types.Coordinates{Lat: 48.85661, Lon: 2.35222},
	PlacesData:  []types.PlaceData{{Name: "Eiffel Tower", WikipediaURL: "https://x/Eiffel"}},
}

func newTestRouter(q planner.Querier) (http.Handler, *Sessions) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := NewSessions(time.Minute, func() *planner.Controller {
		return planner.NewController(q, logger)
	})
	r := chi.NewRouter()
	NewHandler(sessions, render.NewRenderer(render.DefaultSearchURL), logger).Routes(r)
	return r, sessions
}

func do(t *testing.T, h http.Handler, method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func parse(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return doc
}

func TestHandler_Show(t *testing.T) {
	router, sessions := newTestRouter(&fakeQuerier{})

	rec := do(t, router, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)

	doc := parse(t, rec)
	assert.Equal(t, 1, doc.Find(`input[name="place"]`).Length())
	assert.Equal(t, "Get Info", doc.Find("button").Text())
	assert.Empty(t, strings.TrimSpace(doc.Find(".error").Text()))
	assert.Zero(t, doc.Find(".result").Length())

	// Same cookie, same session.
	rec = do(t, router, http.MethodGet, "/", nil, cookie)
	assert.Empty(t, rec.Result().Cookies())
	assert.Equal(t, 1, sessions.Len())
}

func TestHandler_SubmitAndOpen(t *testing.T) {
	q := &fakeQuerier{fn: func(_ context.Context, place string) (*types.QueryResult, error) {
		assert.Equal(t, "Paris", place)
		return parisResult, nil
	}}
	router, _ := newTestRouter(q)

	rec := do(t, router, http.MethodPost, "/", url.Values{"place": {" Paris "}})
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec)

	doc := parse(t, rec)
	assert.Equal(t, " Paris ", doc.Find(`input[name="place"]`).AttrOr("value", ""))
	assert.Equal(t, "48.8566, 2.3522", doc.Find(".result-coordinates").Text())
	assert.Equal(t, "In Paris it's currently 18°C", doc.Find(".segment-heading").Text())
	links := doc.Find("a.segment-attraction")
	require.Equal(t, 2, links.Length())
	assert.Equal(t, "/open/0", links.Eq(0).AttrOr("href", ""))
	assert.Equal(t, "_blank", links.Eq(0).AttrOr("target", ""))

	rec = do(t, router, http.MethodGet, "/open/0", nil, cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://x/Eiffel", rec.Header().Get("Location"))

	rec = do(t, router, http.MethodGet, "/open/1", nil, cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://en.wikipedia.org/w/index.php?search=Louvre%20Museum", rec.Header().Get("Location"))

	for _, target := range []string{"/open/2", "/open/-1", "/open/abc"} {
		assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, target, nil, cookie).Code, target)
	}
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/open/0", nil).Code, "no session")
	assert.Equal(t, int32(1), q.calls.Load())
}

func TestHandler_SubmitErrors(t *testing.T) {
	t.Run("blank place", func(t *testing.T) {
		q := &fakeQuerier{}
		router, _ := newTestRouter(q)

		rec := do(t, router, http.MethodPost, "/", url.Values{"place": {"   "}})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, planner.MsgEmptyPlace, parse(t, rec).Find(".error p").Text())
		assert.Zero(t, q.calls.Load())
	})

	t.Run("application failure", func(t *testing.T) {
		msg := "I don't know if the place 'Atlantis' exists. Please try a different location."
		router, _ := newTestRouter(&fakeQuerier{fn: func(context.Context, string) (*types.QueryResult, error) {
			return &types.QueryResult{Success: false, Message: msg}, nil
		}})

		rec := do(t, router, http.MethodPost, "/", url.Values{"place": {"Atlantis"}})
		doc := parse(t, rec)
		assert.Equal(t, msg, doc.Find(".error p").Text())
		assert.Zero(t, doc.Find(".result").Length())

		cookie := sessionCookie(t, rec)
		assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/open/0", nil, cookie).Code)
	})

	t.Run("transport failure", func(t *testing.T) {
		router, _ := newTestRouter(&fakeQuerier{fn: func(context.Context, string) (*types.QueryResult, error) {
			return nil, &planner.TransportError{StatusCode: 429, Detail: "rate limited"}
		}})

		rec := do(t, router, http.MethodPost, "/", url.Values{"place": {"Paris"}})
		assert.Equal(t, "rate limited", parse(t, rec).Find(".error p").Text())
	})
}

func TestHandler_SubmitWhileInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	q := &fakeQuerier{fn: func(context.Context, string) (*types.QueryResult, error) {
		close(started)
		<-release
		return parisResult, nil
	}}
	router, _ := newTestRouter(q)
	cookie := sessionCookie(t, do(t, router, http.MethodGet, "/", nil))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		rec := do(t, router, http.MethodPost, "/", url.Values{"place": {"Paris"}}, cookie)
		assert.Equal(t, http.StatusOK, rec.Code)
	}()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("first submission never reached the backend")
	}

	rec := do(t, router, http.MethodPost, "/", url.Values{"place": {"Rome"}}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parse(t, rec)
	button := doc.Find("button")
	assert.Equal(t, "Searching…", button.Text())
	_, disabled := button.Attr("disabled")
	assert.True(t, disabled)
	assert.Equal(t, "Paris", doc.Find(`input[name="place"]`).AttrOr("value", ""))

	close(release)
	wg.Wait()
	assert.Equal(t, int32(1), q.calls.Load())

	doc = parse(t, do(t, router, http.MethodGet, "/", nil, cookie))
	assert.Equal(t, "Get Info", doc.Find("button").Text())
	assert.Equal(t, 2, doc.Find("a.segment-attraction").Length())
}

func TestSessions_Expire(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := NewSessions(20*time.Millisecond, func() *planner.Controller {
		return planner.NewController(&fakeQuerier{}, logger)
	})

	rec := httptest.NewRecorder()
	first := sessions.Get(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookie := sessionCookie(t, rec)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	again, ok := sessions.Lookup(req)
	require.True(t, ok)
	assert.Same(t, first, again)

	time.Sleep(50 * time.Millisecond)
	_, ok = sessions.Lookup(req)
	assert.False(t, ok)

	rec = httptest.NewRecorder()
	fresh := sessions.Get(rec, req)
	assert.NotSame(t, first, fresh)
	assert.NotEqual(t, cookie.Value, sessionCookie(t, rec).Value)
}
