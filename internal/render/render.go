package render

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/FACorreiaa/go-tourism-planner/internal/types"
)

// DefaultSearchURL is used for attractions without a reference page.
const DefaultSearchURL = "https://en.wikipedia.org/w/index.php?search="

// Kind is the presentation of one message line.
type Kind string

const (
	KindHeading        Kind = "heading"
	KindWeather        Kind = "weather"
	KindSectionHeading Kind = "section"
	KindAttraction     Kind = "attraction"
	KindText           Kind = "text"
)

// Segment is one classified, non-empty line of a result message.
type Segment struct {
	Kind Kind
	Text string

	// Attraction lines only. URL is what activation opens; Matched reports
	// whether it came from places_data rather than the search fallback.
	// Index is the position among the attraction segments of the message.
	URL     string
	Matched bool
	Index   int
}

// Classify splits message into segments. Lines are classified independently,
// top to bottom, and the first matching rule wins:
//
//	blank                                  -> dropped
//	"In " and a marker phrase              -> heading
//	weather marker                         -> weather
//	places marker                          -> section heading
//	neither "In" nor "And"                 -> attraction
//	anything else                          -> text
//
// The "In"/"And" test is a plain substring match, so names such as
// "India Gate" fall through to text.
func Classify(message string, places []types.PlaceData, searchURL string) []Segment {
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}

	segments := make([]Segment, 0, strings.Count(message, "\n")+1)
	attractions := 0
	for _, line := range strings.Split(message, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		hasWeather := strings.Contains(line, types.WeatherMarker)
		hasPlaces := strings.Contains(line, types.PlacesMarker)

		switch {
		case strings.Contains(line, "In ") && (hasWeather || hasPlaces):
			segments = append(segments, Segment{Kind: KindHeading, Text: trimmed})
		case hasWeather:
			segments = append(segments, Segment{Kind: KindWeather, Text: trimmed})
		case hasPlaces:
			segments = append(segments, Segment{Kind: KindSectionHeading, Text: trimmed})
		case !strings.Contains(line, "In") && !strings.Contains(line, "And"):
			seg := Segment{Kind: KindAttraction, Text: trimmed, Index: attractions}
			if ref, ok := lookup(places, trimmed); ok && ref != "" {
				seg.URL, seg.Matched = ref, true
			} else {
				seg.URL = SearchURL(searchURL, line)
			}
			segments = append(segments, seg)
			attractions++
		default:
			segments = append(segments, Segment{Kind: KindText, Text: trimmed})
		}
	}
	return segments
}

func lookup(places []types.PlaceData, name string) (string, bool) {
	for _, p := range places {
		if p.Name == name {
			return p.WikipediaURL, true
		}
	}
	return "", false
}

// SearchURL appends the URL-encoded text to base, with spaces as %20.
func SearchURL(base, text string) string {
	return base + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// FormatCoordinates renders "lat, lon" with four decimals, or "" for nil.
func FormatCoordinates(c *types.Coordinates) string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("%.4f, %.4f", c.Lat, c.Lon)
}

// View is a rendered result, ready for HTML or Text.
type View struct {
	Place       string
	Coordinates string
	Segments    []Segment

	// OpenPath, when set, makes HTML link attractions to OpenPath+index
	// instead of their URL.
	OpenPath string
}

// Attraction returns the i-th attraction segment.
func (v View) Attraction(i int) (Segment, bool) {
	for _, s := range v.Segments {
		if s.Kind == KindAttraction && s.Index == i {
			return s, true
		}
	}
	return Segment{}, false
}

type Renderer struct {
	SearchURL string
}

func NewRenderer(searchURL string) *Renderer {
	return &Renderer{SearchURL: searchURL}
}

// Render builds the view of a result. A nil result gives an empty view.
func (r *Renderer) Render(result *types.QueryResult) View {
	if result == nil {
		return View{}
	}
	return View{
		Place:       result.Place,
		Coordinates: FormatCoordinates(result.Coordinates),
		Segments:    Classify(result.Message, result.PlacesData, r.SearchURL),
	}
}
