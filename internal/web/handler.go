package web

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/FACorreiaa/go-tourism-planner/internal/planner"
	"github.com/FACorreiaa/go-tourism-planner/internal/render"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// OpenPath prefixes attraction activation links.
const OpenPath = "/open/"

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

type page struct {
	Place     string
	Loading   bool
	CanSubmit bool
	Error     string
	Result    template.HTML
}

// Handler serves the planner form.
type Handler struct {
	sessions *Sessions
	renderer *render.Renderer
	logger   *slog.Logger
}

func NewHandler(sessions *Sessions, renderer *render.Renderer, logger *slog.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		renderer: renderer,
		logger:   logger,
	}
}

// Routes mounts GET /, POST / and GET /open/{index}.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.Show)
	r.Post("/", h.Submit)
	r.Get(OpenPath+"{index}", h.Open)
}

// Show handles GET /.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	c := h.sessions.Get(w, r)
	h.renderPage(w, r, http.StatusOK, c.State())
}

// Submit handles POST /. The request blocks until the backend answers; a second
// POST for the same session meanwhile renders the loading state.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	c := h.sessions.Get(w, r)
	l := h.logger.With(slog.String("handler", "Submit"), slog.String("request_id", middleware.GetReqID(r.Context())))

	if err := r.ParseForm(); err != nil {
		l.WarnContext(r.Context(), "Invalid form body", slog.Any("error", err))
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	err := c.Submit(r.Context(), r.PostFormValue("place"))
	switch {
	case errors.Is(err, planner.ErrSubmissionInFlight):
		l.InfoContext(r.Context(), "Submission ignored while another is in flight")
	case errors.Is(err, planner.ErrEmptyPlace):
		l.DebugContext(r.Context(), "Empty place submitted")
	}
	h.renderPage(w, r, http.StatusOK, c.State())
}

// Open handles GET /open/{index} by redirecting to the attraction's reference page.
func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		http.NotFound(w, r)
		return
	}

	c, ok := h.sessions.Lookup(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	state := c.State()
	if state.Result == nil {
		http.NotFound(w, r)
		return
	}

	seg, ok := h.renderer.Render(state.Result).Attraction(index)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := render.Activate(seg, redirectOpener{w: w, r: r}); err != nil {
		http.NotFound(w, r)
	}
}

type redirectOpener struct {
	w http.ResponseWriter
	r *http.Request
}

func (o redirectOpener) Open(url string) error {
	http.Redirect(o.w, o.r, url, http.StatusFound)
	return nil
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, state planner.State) {
	p := page{
		Place:     state.Place,
		Loading:   state.Loading,
		CanSubmit: !state.Loading,
		Error:     state.Error,
	}
	if state.Result != nil {
		view := h.renderer.Render(state.Result)
		view.OpenPath = OpenPath

		var frag bytes.Buffer
		if err := render.HTML(&frag, view); err != nil {
			h.logger.ErrorContext(r.Context(), "Failed to render result", slog.Any("error", err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		p.Result = template.HTML(frag.String())
	}

	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "page.html", p); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to render page", slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to write page", slog.Any("error", err))
	}
}
