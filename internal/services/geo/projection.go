package geo

import "math"

// Transverse Mercator on the GRS80 ellipsoid with the UTM-K central meridian
// (EPSG:5179 parameters). Within the Korean peninsula the grid is
// distance-preserving to well under 0.1%, so the straight-line distance
// between projected points matches the banded thresholds used for scoring.
const (
	grs80A        = 6378137.0
	grs80F        = 1.0 / 298.257222101
	tmScaleFactor = 0.9996
	tmCentralLon  = 127.5
)

var (
	grs80E2  = grs80F * (2 - grs80F)
	grs80E4  = grs80E2 * grs80E2
	grs80E6  = grs80E4 * grs80E2
	grs80EP2 = grs80E2 / (1 - grs80E2)
)

// planarXY projects a WGS84 point onto the transverse Mercator grid and
// returns easting/northing in meters. False easting/northing are omitted:
// they cancel out of every distance computation.
func planarXY(p Point) (float64, float64) {
	lat := p.Lat * math.Pi / 180
	dLon := (p.Lon - tmCentralLon) * math.Pi / 180

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	tanLat := math.Tan(lat)

	n := grs80A / math.Sqrt(1-grs80E2*sinLat*sinLat)
	t := tanLat * tanLat
	c := grs80EP2 * cosLat * cosLat
	a := dLon * cosLat

	m := grs80A * ((1-grs80E2/4-3*grs80E4/64-5*grs80E6/256)*lat -
		(3*grs80E2/8+3*grs80E4/32+45*grs80E6/1024)*math.Sin(2*lat) +
		(15*grs80E4/256+45*grs80E6/1024)*math.Sin(4*lat) -
		(35*grs80E6/3072)*math.Sin(6*lat))

	x := tmScaleFactor * n * (a +
		(1-t+c)*a*a*a/6 +
		(5-18*t+t*t+72*c-58*grs80EP2)*a*a*a*a*a/120)
	y := tmScaleFactor * (m + n*tanLat*(a*a/2+
		(5-t+9*c+4*c*c)*a*a*a*a/24+
		(61-58*t+t*t+600*c-330*grs80EP2)*a*a*a*a*a*a/720))

	return x, y
}
