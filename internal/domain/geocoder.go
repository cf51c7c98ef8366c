package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat              float64 `json:"lat"`
	Lon              float64 `json:"lon"`
	FormattedAddress string  `json:"formatted_address,omitempty"`
	PlaceName        string  `json:"place_name,omitempty"`
	Confidence       float64 `json:"confidence,omitempty"` // 0.0–1.0 provider confidence score
}

// Geo returns the coordinate of the result.
func (r GeocodingResult) Geo() Geo {
	return Geo{Lat: r.Lat, Lon: r.Lon}
}

// Geocoder resolves free-text place names.
type Geocoder interface {
	// ForwardGeocode returns the first match for query, or ErrLocationNotFound
	// when the provider returns no candidates.
	ForwardGeocode(ctx context.Context, query string) (GeocodingResult, error)
}
