package tourism

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPlaceName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Paris", "Paris"},
		{"  Eiffel Tower  ", "Eiffel Tower"},
		{"I am going to Bangalore, what is the temperature there", "Bangalore"},
		{"I am going to Bangalore, lets plan my trip", "Bangalore"},
		{"I am going to Bangalore, what is the temperature there? And what are the places I can visit?", "Bangalore"},
		{"what's the weather in new york", "New York"},
		{"tell me about rome", "Rome"},
		{"I am going to NonexistentCity123", "NonexistentCity123"},
		{"paris", "Paris"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPlaceName(tt.input))
		})
	}
}
