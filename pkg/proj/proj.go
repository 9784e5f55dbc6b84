// Package proj converts geographic WGS-84 positions into the
// projected or scaled integer coordinates the SEG-Y trace header
// wants: UTM easting/northing in meters, or plain arc-seconds when
// projection is disabled.
package proj

import (
	"fmt"
	"math"
)

// Options selects the coordinate treatment for an export.
type Options struct {
	Enabled bool // project to a UTM grid instead of arc-seconds
	Zone    int  // UTM zone 1..60; 0 auto-detects from the first position
}

// WGS-84 ellipsoid and transverse-Mercator series constants.
const (
	radius = 6378137.0 // semi-major axis (m)
	ecc    = 0.00669438
	k0     = 0.9996

	falseEasting  = 500000.0
	falseNorthing = 10000000.0 // southern hemisphere only
)

var (
	ecc2 = ecc * ecc
	ecc3 = ecc2 * ecc
	eccP = ecc / (1 - ecc)

	m1 = 1 - ecc/4 - 3*ecc2/64 - 5*ecc3/256
	m2 = 3*ecc/8 + 3*ecc2/32 + 45*ecc3/1024
	m3 = 15*ecc2/256 + 45*ecc3/1024
	m4 = 35 * ecc3 / 3072
)

// Grid is one UTM zone. The zero value is not valid; use DetectZone
// or construct with a zone in 1..60.
type Grid struct {
	Zone int
}

func (g Grid) String() string {
	return fmt.Sprintf("UTM zone %d", g.Zone)
}

// DetectZone picks the UTM zone containing the given position,
// including the Norway and Svalbard irregular zones.
func DetectZone(lat, lon float64) Grid {
	if 56 <= lat && lat < 64 && 3 <= lon && lon < 12 {
		return Grid{Zone: 32}
	}
	if 72 <= lat && lat <= 84 && lon >= 0 {
		switch {
		case lon < 9:
			return Grid{Zone: 31}
		case lon < 21:
			return Grid{Zone: 33}
		case lon < 33:
			return Grid{Zone: 35}
		case lon < 42:
			return Grid{Zone: 37}
		}
	}
	return Grid{Zone: int((lon+180)/6)%60 + 1}
}

// Forward projects a geographic position into this zone. Southern
// hemisphere positions get the 10000 km false northing, so northing
// is always positive. Positions outside the transverse-Mercator
// validity band are rejected.
func (g Grid) Forward(lat, lon float64) (easting, northing float64, err error) {
	if g.Zone < 1 || g.Zone > 60 {
		return 0, 0, fmt.Errorf("utm zone %d out of range 1..60", g.Zone)
	}
	if lat < -80 || lat > 84 {
		return 0, 0, fmt.Errorf("latitude %.4f outside utm range -80..84", lat)
	}
	if lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("longitude %.4f out of range", lon)
	}

	latRad := lat * math.Pi / 180
	lonRad := lon * math.Pi / 180
	centralRad := float64((g.Zone-1)*6-180+3) * math.Pi / 180

	sinLat := math.Sin(latRad)
	cosLat := math.Cos(latRad)
	tanLat := math.Tan(latRad)

	n := radius / math.Sqrt(1-ecc*sinLat*sinLat)
	c := eccP * cosLat * cosLat
	t := tanLat * tanLat
	a := cosLat * (lonRad - centralRad)
	a2, a3 := a*a, a*a*a

	m := radius * (m1*latRad -
		m2*math.Sin(2*latRad) +
		m3*math.Sin(4*latRad) -
		m4*math.Sin(6*latRad))

	easting = k0*n*(a+
		a3/6*(1-t+c)+
		a2*a3/120*(5-18*t+t*t+72*c-58*eccP)) + falseEasting

	northing = k0 * (m + n*tanLat*(a2/2+
		a2*a2/24*(5-t+9*c+4*c*c)+
		a3*a3/720*(61-58*t+t*t+600*c-330*eccP)))
	if lat < 0 {
		northing += falseNorthing
	}
	return easting, northing, nil
}

// ArcSeconds converts a geographic coordinate in degrees to seconds
// of arc, the SEG-Y fallback when projection is disabled.
func ArcSeconds(deg float64) float64 {
	return deg * 3600
}
