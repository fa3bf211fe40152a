// Package geo validates coordinates and computes geodesic distances in kilometres.
package geo

import (
	"math"

	"github.com/noah-isme/companies-api/internal/apperr"
)

const (
	// MinRadiusKm is the smallest accepted search radius.
	MinRadiusKm = 0.05
	// MaxRadiusKm is the largest accepted search radius.
	MaxRadiusKm = 15.0

	// WGS-84 ellipsoid.
	wgs84A = 6378137.0
	wgs84F = 1 / 298.257223563
	wgs84B = (1 - wgs84F) * wgs84A

	meanEarthRadiusKm = 6371.0088

	vincentyMaxIterations = 200
	vincentyTolerance     = 1e-12
)

// Point is a WGS-84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ValidateCoordinates rejects latitudes outside [-90,90] and longitudes outside [-180,180].
func ValidateCoordinates(lat, lon float64) error {
	if !isFinite(lat) || lat < -90 || lat > 90 {
		return apperr.InvalidArgument("invalid latitude value: %v. Latitude must be between -90 and 90", lat)
	}
	if !isFinite(lon) || lon < -180 || lon > 180 {
		return apperr.InvalidArgument("invalid longitude value: %v. Longitude must be between -180 and 180", lon)
	}
	return nil
}

// ValidateRadius rejects radii outside [MinRadiusKm, MaxRadiusKm].
func ValidateRadius(radiusKm float64) error {
	if !isFinite(radiusKm) || radiusKm < MinRadiusKm || radiusKm > MaxRadiusKm {
		return apperr.InvalidArgument("invalid radius value: %v. Radius must be between %v km and %v km", radiusKm, MinRadiusKm, MaxRadiusKm)
	}
	return nil
}

// ValidateQuery validates a search centre together with its radius.
func ValidateQuery(lat, lon, radiusKm float64) error {
	if err := ValidateCoordinates(lat, lon); err != nil {
		return err
	}
	return ValidateRadius(radiusKm)
}

// IsWithinRadius reports whether p2 lies within radiusKm of p1.
func IsWithinRadius(p1, p2 Point, radiusKm float64) (bool, error) {
	if err := ValidateQuery(p1.Lat, p1.Lon, radiusKm); err != nil {
		return false, err
	}
	if err := ValidateCoordinates(p2.Lat, p2.Lon); err != nil {
		return false, err
	}
	return DistanceKm(p1, p2) <= radiusKm, nil
}

// DistanceKm returns the geodesic distance between two points on the WGS-84 ellipsoid.
// Points the Vincenty iteration cannot resolve (nearly antipodal) use the haversine formula.
func DistanceKm(p1, p2 Point) float64 {
	if p1 == p2 {
		return 0
	}
	if d, ok := vincenty(p1, p2); ok {
		return d / 1000
	}
	return haversineKm(p1, p2)
}

func vincenty(p1, p2 Point) (float64, bool) {
	l := toRadians(p2.Lon - p1.Lon)
	u1 := math.Atan((1 - wgs84F) * math.Tan(toRadians(p1.Lat)))
	u2 := math.Atan((1 - wgs84F) * math.Tan(toRadians(p2.Lat)))
	sinU1, cosU1 := math.Sincos(u1)
	sinU2, cosU2 := math.Sincos(u2)

	lambda := l
	var sinSigma, cosSigma, sigma, cosSqAlpha, cos2SigmaM float64
	for i := 0; i < vincentyMaxIterations; i++ {
		sinLambda, cosLambda := math.Sincos(lambda)
		sinSigma = math.Sqrt(math.Pow(cosU2*sinLambda, 2) + math.Pow(cosU1*sinU2-sinU1*cosU2*cosLambda, 2))
		if sinSigma == 0 {
			return 0, true
		}
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)
		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha
		if cosSqAlpha != 0 {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		} else {
			// equatorial line
			cos2SigmaM = 0
		}
		c := wgs84F / 16 * cosSqAlpha * (4 + wgs84F*(4-3*cosSqAlpha))
		prev := lambda
		lambda = l + (1-c)*wgs84F*sinAlpha*(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))
		if math.Abs(lambda-prev) < vincentyTolerance {
			uSq := cosSqAlpha * (wgs84A*wgs84A - wgs84B*wgs84B) / (wgs84B * wgs84B)
			a := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
			b := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
			deltaSigma := b * sinSigma * (cos2SigmaM + b/4*(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
				b/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))
			return wgs84B * a * (sigma - deltaSigma), true
		}
	}
	return 0, false
}

func haversineKm(p1, p2 Point) float64 {
	dLat := toRadians(p2.Lat - p1.Lat)
	dLon := toRadians(p2.Lon - p1.Lon)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(p1.Lat))*math.Cos(toRadians(p2.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * meanEarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
