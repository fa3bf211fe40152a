package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/companies-api/internal/apperr"
)

func TestValidateCoordinatesAcceptsFullRange(t *testing.T) {
	for _, lat := range []float64{-90, -45.5, 0, 53.9023, 90} {
		for _, lon := range []float64{-180, -0.1, 0, 27.5619, 180} {
			require.NoError(t, ValidateCoordinates(lat, lon), "lat=%v lon=%v", lat, lon)
		}
	}
}

func TestValidateCoordinatesRejectsOutOfRange(t *testing.T) {
	cases := []struct {
		name     string
		lat, lon float64
	}{
		{name: "lat too low", lat: -90.0001, lon: 0},
		{name: "lat too high", lat: 91, lon: 0},
		{name: "lon too low", lat: 0, lon: -180.5},
		{name: "lon too high", lat: 0, lon: 181},
		{name: "nan", lat: math.NaN(), lon: 0},
		{name: "inf", lat: 0, lon: math.Inf(1)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateCoordinates(tc.lat, tc.lon)
			require.ErrorIs(t, err, apperr.ErrInvalidArgument)
		})
	}
}

func TestValidateRadiusBoundaries(t *testing.T) {
	require.NoError(t, ValidateRadius(0.05))
	require.NoError(t, ValidateRadius(15))
	require.NoError(t, ValidateRadius(1.5))

	require.ErrorIs(t, ValidateRadius(0.049), apperr.ErrInvalidArgument)
	require.ErrorIs(t, ValidateRadius(15.001), apperr.ErrInvalidArgument)
	require.ErrorIs(t, ValidateRadius(0), apperr.ErrInvalidArgument)
	require.ErrorIs(t, ValidateRadius(math.NaN()), apperr.ErrInvalidArgument)
}

func TestDistanceKmKnownValues(t *testing.T) {
	equatorDegree := DistanceKm(Point{Lat: 0, Lon: 0}, Point{Lat: 0, Lon: 1})
	require.InDelta(t, 111.3195, equatorDegree, 0.001)

	meridianDegree := DistanceKm(Point{Lat: 0, Lon: 0}, Point{Lat: 1, Lon: 0})
	require.InDelta(t, 110.574, meridianDegree, 0.01)

	minsk := Point{Lat: 53.9023, Lon: 27.5619}
	homyel := Point{Lat: 52.4252, Lon: 30.9754}
	require.InDelta(t, DistanceKm(minsk, homyel), DistanceKm(homyel, minsk), 1e-9)
	require.InDelta(t, haversineKm(minsk, homyel), DistanceKm(minsk, homyel), 2)
}

func TestDistanceKmNearlyAntipodal(t *testing.T) {
	d := DistanceKm(Point{Lat: 0, Lon: 0}, Point{Lat: 0.5, Lon: 179.7})
	require.False(t, math.IsNaN(d))
	require.Greater(t, d, 19000.0)
}

func TestIsWithinRadiusSamePoint(t *testing.T) {
	p := Point{Lat: 53.9023, Lon: 27.5619}
	for _, r := range []float64{MinRadiusKm, 1, MaxRadiusKm} {
		ok, err := IsWithinRadius(p, p, r)
		require.NoError(t, err)
		require.True(t, ok)
	}
}

func TestIsWithinRadiusFiltersByDistance(t *testing.T) {
	centre := Point{Lat: 53.9023, Lon: 27.5619}
	near := Point{Lat: 53.9030, Lon: 27.5625}
	far := Point{Lat: 53.95, Lon: 27.7}

	ok, err := IsWithinRadius(centre, near, 0.15)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = IsWithinRadius(centre, far, 0.15)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIsWithinRadiusValidatesInputs(t *testing.T) {
	centre := Point{Lat: 53.9023, Lon: 27.5619}

	_, err := IsWithinRadius(centre, Point{Lat: 100, Lon: 0}, 1)
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = IsWithinRadius(centre, centre, 20)
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)
}
