package tourism

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Patterns are tried in order against the lower-cased input; the first capture wins.
var placePatterns = compilePatterns(
	`going to ([a-z\s]+),`,
	`going to ([a-z\s]+)\?`,
	`going to ([a-z\s]+)$`,
	`to ([a-z\s]+),`,
	`to ([a-z\s]+)\?`,
	`to ([a-z\s]+)$`,
	`visit ([a-z\s]+)`,
	`about ([a-z\s]+)`,
	`search ([a-z\s]+)`,
	`find ([a-z\s]+)`,
	`what's the weather in ([a-z\s]+)`,
	`weather in ([a-z\s]+)`,
	`places to visit in ([a-z\s]+)`,
	`attractions in ([a-z\s]+)`,
	`what can i do in ([a-z\s]+)`,
	`tell me about ([a-z\s]+)`,
)

// Trailing phrases that the greedy patterns above tend to swallow.
var placeStopPhrases = []string{
	"what is the temperature there",
	"and what are the places i can visit",
	"lets plan my trip",
	"what's the weather",
	"weather and",
	"attractions and",
	"for my trip",
	"today",
	"right now",
	"now",
}

// Checked in order, so multi-word keys come first.
var wellKnownPlaces = []struct{ key, name string }{
	{"new york", "New York"},
	{"bangalore", "Bangalore"},
	{"paris", "Paris"},
	{"london", "London"},
	{"tokyo", "Tokyo"},
	{"dubai", "Dubai"},
	{"singapore", "Singapore"},
	{"sydney", "Sydney"},
	{"mumbai", "Mumbai"},
	{"delhi", "Delhi"},
	{"berlin", "Berlin"},
	{"rome", "Rome"},
	{"barcelona", "Barcelona"},
	{"amsterdam", "Amsterdam"},
	{"bali", "Bali"},
	{"thailand", "Thailand"},
	{"malaysia", "Malaysia"},
	{"usa", "USA"},
	{"uae", "UAE"},
	{"uk", "UK"},
}

var titleCaser = cases.Title(language.English)

func compilePatterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		out[i] = regexp.MustCompile(expr)
	}
	return out
}

// ExtractPlaceName pulls a destination out of free text such as
// "I am going to Bangalore, what is the temperature there". Plain place names
// pass through title-cased.
func ExtractPlaceName(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	lower := strings.ToLower(input)

	for _, re := range placePatterns {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		place := strings.TrimSpace(m[1])
		for _, phrase := range placeStopPhrases {
			place = strings.TrimSpace(strings.ReplaceAll(place, phrase, ""))
		}
		place = strings.Join(strings.Fields(place), " ")
		if place == "" {
			return input
		}
		return titleCaser.String(place)
	}

	words := strings.Fields(input)

	var capitalised []string
	for _, word := range words {
		if isCapitalised(word) && len(word) > 2 && !strings.HasPrefix(word, "I'") {
			capitalised = append(capitalised, strings.Trim(word, ".,?!"))
		}
	}
	if len(capitalised) > 0 {
		if len(capitalised) > 3 {
			capitalised = capitalised[:3]
		}
		return strings.Join(capitalised, " ")
	}

	last := strings.Trim(words[len(words)-1], ".,?!")
	if len(last) > 2 && isCapitalised(last) {
		return titleCaser.String(last)
	}

	for _, p := range wellKnownPlaces {
		if strings.Contains(lower, p.key) {
			return p.name
		}
	}

	return titleCaser.String(input)
}

func isCapitalised(word string) bool {
	for _, r := range word {
		return unicode.IsUpper(r)
	}
	return false
}
