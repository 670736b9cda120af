package render

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

var resultTemplate = template.Must(template.ParseFS(templateFS, "templates/result.html"))

// HTML writes the result fragment. Attraction rows are anchors that open in a
// new browsing context.
func HTML(w io.Writer, v View) error {
	return resultTemplate.ExecuteTemplate(w, "result", v)
}

// Text writes the view for a terminal.
func Text(w io.Writer, v View) error {
	ew := &errWriter{w: w}
	if v.Place != "" {
		ew.printf("%s", v.Place)
		if v.Coordinates != "" {
			ew.printf(" (%s)", v.Coordinates)
		}
		ew.printf("\n\n")
	}
	for _, s := range v.Segments {
		switch s.Kind {
		case KindHeading:
			ew.printf("%s\n", s.Text)
		case KindWeather:
			ew.printf("  %s\n", s.Text)
		case KindSectionHeading:
			ew.printf("\n» %s\n", s.Text)
		case KindAttraction:
			ew.printf("  %d. %s\n     %s\n", s.Index+1, s.Text, s.URL)
		default:
			ew.printf("%s\n", s.Text)
		}
	}
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

// Opener opens a URL in a new browsing context.
type Opener interface {
	Open(url string) error
}

// ErrNotActivatable is returned by Activate for segments that are not attractions.
var ErrNotActivatable = errors.New("render: segment is not an attraction")

// Activate opens the reference page of an attraction segment.
func Activate(s Segment, o Opener) error {
	if s.Kind != KindAttraction || s.URL == "" {
		return ErrNotActivatable
	}
	return o.Open(s.URL)
}
