package spatial

import (
	"errors"
	"fmt"
	"math"

	"github.com/mohammed-shakir/georelate/pkg/geom"
)

const (
	DefaultCircleRadius = 250.0
	DefaultCircleSteps  = 64
	MaxCircleSteps      = 4096
)

// WGS84 ellipsoid
const (
	vincentyA = 6378137.0
	vincentyB = 6356752.3142
	vincentyF = 1 / 298.257223563
)

var ErrCircleParams = errors.New("circle: invalid center, radius or steps")

// ToCircle approximates a geodesic circle of radiusMeters around center with
// steps vertices. Zero radius or steps fall back to the defaults. The center
// and radius must be finite and steps must lie in [3, MaxCircleSteps].
func ToCircle(center geom.Position, radiusMeters float64, steps int) (*geom.Feature, error) {
	if radiusMeters == 0 {
		radiusMeters = DefaultCircleRadius
	}
	if steps == 0 {
		steps = DefaultCircleSteps
	}
	if len(center) < 2 || !finite(center.X()) || !finite(center.Y()) {
		return nil, fmt.Errorf("%w: center must be two finite ordinates", ErrCircleParams)
	}
	if !finite(radiusMeters) || radiusMeters < 0 {
		return nil, fmt.Errorf("%w: radius must be a finite non-negative number", ErrCircleParams)
	}
	if steps < 3 || steps > MaxCircleSteps {
		return nil, fmt.Errorf("%w: steps must be between 3 and %d", ErrCircleParams, MaxCircleSteps)
	}
	ring := make([]geom.Position, 0, steps+1)
	for i := 0; i < steps; i++ {
		bearing := float64(i) * 360 / float64(steps)
		ring = append(ring, destinationVincenty(center, bearing, radiusMeters))
	}
	return &geom.Feature{
		Geometry: &geom.Polygon{Coordinates: [][]geom.Position{CloseRing(ring)}},
		Properties: map[string]any{
			"radius": radiusMeters,
			"center": []float64(center.Clone()),
			"steps":  steps,
		},
	}, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// destinationVincenty solves the direct geodesic problem: the point dist
// meters from origin along bearing degrees.
func destinationVincenty(origin geom.Position, bearing, dist float64) geom.Position {
	a, b, f := vincentyA, vincentyB, vincentyF
	lon1, lat1 := origin.X(), origin.Y()

	alpha1 := degToRad(bearing)
	sinAlpha1, cosAlpha1 := math.Sin(alpha1), math.Cos(alpha1)
	tanU1 := (1 - f) * math.Tan(degToRad(lat1))
	cosU1 := 1 / math.Sqrt(1+tanU1*tanU1)
	sinU1 := tanU1 * cosU1
	sigma1 := math.Atan2(tanU1, cosAlpha1)
	sinAlpha := cosU1 * sinAlpha1
	cosSqAlpha := 1 - sinAlpha*sinAlpha
	uSq := cosSqAlpha * (a*a - b*b) / (b * b)
	A := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	B := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))

	sigma := dist / (b * A)
	sigmaP := 2 * math.Pi
	var cos2SigmaM, sinSigma, cosSigma float64
	for i := 0; math.Abs(sigma-sigmaP) > 1e-12 && i < 200; i++ {
		cos2SigmaM = math.Cos(2*sigma1 + sigma)
		sinSigma = math.Sin(sigma)
		cosSigma = math.Cos(sigma)
		deltaSigma := B * sinSigma * (cos2SigmaM + B/4*(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
			B/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))
		sigmaP = sigma
		sigma = dist/(b*A) + deltaSigma
	}

	tmp := sinU1*sinSigma - cosU1*cosSigma*cosAlpha1
	lat2 := math.Atan2(sinU1*cosSigma+cosU1*sinSigma*cosAlpha1,
		(1-f)*math.Sqrt(sinAlpha*sinAlpha+tmp*tmp))
	lambda := math.Atan2(sinSigma*sinAlpha1, cosU1*cosSigma-sinU1*sinSigma*cosAlpha1)
	C := f / 16 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))
	lam := lambda - (1-C)*f*sinAlpha*
		(sigma+C*sinSigma*(cos2SigmaM+C*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

	return geom.Position{lon1 + radToDeg(lam), radToDeg(lat2)}
}
