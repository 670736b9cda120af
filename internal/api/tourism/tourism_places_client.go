package tourism

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/FACorreiaa/go-tourism-planner/internal/types"
)

const (
	defaultPlacesRadius = 10000
	defaultPlacesLimit  = 5
)

var _ PlacesProvider = (*OverpassClient)(nil)

// OverpassClient finds named attractions around a coordinate with the Overpass API.
type OverpassClient struct {
	endpoint   string
	radius     int
	limit      int
	httpClient *http.Client
}

func NewOverpassClient(endpoint string, radius, limit int) *OverpassClient {
	if radius <= 0 {
		radius = defaultPlacesRadius
	}
	if limit <= 0 {
		limit = defaultPlacesLimit
	}
	return &OverpassClient{
		endpoint:   endpoint,
		radius:     radius,
		limit:      limit,
		httpClient: &http.Client{Timeout: 25 * time.Second},
	}
}

type overpassResponse struct {
	Elements []struct {
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

func (c *OverpassClient) query(lat, lon float64) string {
	around := fmt.Sprintf("(around:%d,%f,%f)", c.radius, lat, lon)
	var b strings.Builder
	b.WriteString("[out:json][timeout:25];\n(\n")
	for _, kind := range []string{"node", "way"} {
		fmt.Fprintf(&b, "  %s[\"tourism\"]%s;\n", kind, around)
		fmt.Fprintf(&b, "  %s[\"historic\"]%s;\n", kind, around)
		fmt.Fprintf(&b, "  %s[\"amenity\"~\"museum|gallery|theatre\"]%s;\n", kind, around)
		fmt.Fprintf(&b, "  %s[\"leisure\"~\"park|garden\"]%s;\n", kind, around)
	}
	b.WriteString(");\nout body;\n>;\nout skel qt;\n")
	return b.String()
}

// Nearby returns up to limit distinct named places, in the order Overpass lists them.
func (c *OverpassClient) Nearby(ctx context.Context, lat, lon float64) ([]types.PlaceData, error) {
	form := url.Values{}
	form.Set("data", c.query(lat, lon))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp overpassResponse
	if err := doJSON(ctx, c.httpClient, req, "overpass", &resp); err != nil {
		return nil, err
	}

	places := make([]types.PlaceData, 0, c.limit)
	seen := make(map[string]struct{})
	for _, el := range resp.Elements {
		name := strings.TrimSpace(el.Tags["name"])
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		places = append(places, types.PlaceData{
			Name:         name,
			WikipediaURL: WikipediaURL(name, el.Tags),
		})
		if len(places) >= c.limit {
			break
		}
	}
	return places, nil
}

// Article titles for names whose plain form resolves to the wrong page.
var wikipediaAliases = map[string]string{
	"Lalbagh":                      "Lalbagh Botanical Garden",
	"Jawaharlal Nehru Planetarium": "Jawaharlal Nehru Planetarium, Bangalore",
	"MG Road":                      "Mahatma Gandhi Road, Bangalore",
	"Commercial Street":            "Commercial Street, Bangalore",
	"ISKCON Temple":                "ISKCON Temple Bangalore",
	"St. Mary's Basilica":          "St. Mary's Basilica, Bangalore",
	"Lalbagh Glasshouse":           "Lalbagh Botanical Garden",
}

// WikipediaURL links a place to its article. An OSM "wikipedia" tag
// ("en:Eiffel Tower" or a bare title) wins over the place name.
func WikipediaURL(name string, tags map[string]string) string {
	if tag := tags["wikipedia"]; tag != "" {
		if lang, article, ok := strings.Cut(tag, ":"); ok {
			return wikipediaArticleURL(lang, article)
		}
		return wikipediaArticleURL("en", tag)
	}

	title := strings.TrimSpace(name)
	if alias, ok := wikipediaAliases[title]; ok {
		title = alias
	}
	return wikipediaArticleURL("en", title)
}

func wikipediaArticleURL(lang, article string) string {
	slug := url.PathEscape(strings.ReplaceAll(article, " ", "_"))
	return fmt.Sprintf("https://%s.wikipedia.org/wiki/%s", lang, slug)
}
