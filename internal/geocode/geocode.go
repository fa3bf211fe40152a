// Package geocode resolves coordinates to the name of the city that contains them.
package geocode

import "context"

// Geocoder performs reverse geocoding.
type Geocoder interface {
	// ReverseGeocode returns the city at the given coordinates. found is false when the
	// provider has no city for the point; err is reserved for provider failures.
	ReverseGeocode(ctx context.Context, lat, lon float64) (city string, found bool, err error)
}

// GeocoderFunc adapts a function to the Geocoder interface.
type GeocoderFunc func(ctx context.Context, lat, lon float64) (string, bool, error)

// ReverseGeocode calls f.
func (f GeocoderFunc) ReverseGeocode(ctx context.Context, lat, lon float64) (string, bool, error) {
	return f(ctx, lat, lon)
}
