package types

// Marker phrases in QueryResult.Message. The planner page classifies lines by them.
const (
	WeatherMarker = "it's currently"
	PlacesMarker  = "these are the places you can go"
)

// TourismQuery is the request body of POST /api/tourism/query.
type TourismQuery struct {
	Place string `json:"place"`
}

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PlaceData is one attraction with its encyclopedia reference.
type PlaceData struct {
	Name         string `json:"name"`
	WikipediaURL string `json:"wikipedia_url"`
}

// QueryResult is the payload returned by the tourism endpoint.
// Message is a newline-delimited blob: a heading sentence, then one attraction per line.
type QueryResult struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message"`
	Place       string       `json:"place,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	PlacesData  []PlaceData  `json:"places_data,omitempty"`
}

// ErrorDetail is the body of every non-2xx API response.
type ErrorDetail struct {
	Detail    string `json:"detail"`
	RequestID string `json:"request_id,omitempty"`
}

// GeoLocation is a geocoded place.
type GeoLocation struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
}

// WeatherReport holds the current conditions for a coordinate, rounded to one decimal.
type WeatherReport struct {
	Temperature       float64 `json:"temperature"`
	PrecipitationProb float64 `json:"precipitation_prob"`
	Humidity          float64 `json:"humidity"`
	WindSpeed         float64 `json:"windspeed"`
}
