package cellr

import (
	"math"

	"github.com/golang/geo/r3"
)

// Carto is a geodetic surface position: longitude and latitude in radians
// and height in meters above a reference ellipsoid. Which ellipsoid is not
// part of the value; conversions take the descriptor explicitly so a point
// read off one surface can be re-expressed on another.
type Carto struct {
	Lon    float64
	Lat    float64
	Height float64
}

// CartoFromCartesian derives the geodetic position of a Cartesian point
// relative to an ellipsoid. The point is projected onto the surface along
// the geodetic normal; the signed distance to that projection is the
// height. Fails for points too close to the ellipsoid center, where the
// normal is undefined.
func CartoFromCartesian(v r3.Vector, e Ellipsoid) (Carto, error) {
	p, err := e.ScaleToGeodeticSurface(v)
	if err != nil {
		return Carto{}, err
	}

	n := e.SurfaceNormal(p)
	h := v.Sub(p)

	height := h.Norm()
	if h.Dot(v) < 0 {
		height = -height
	}

	return Carto{
		Lon:    math.Atan2(n.Y, n.X),
		Lat:    math.Asin(n.Z),
		Height: height,
	}, nil
}

// Cartesian re-expresses the geodetic position on the given ellipsoid. The
// surface point is the geodetic normal scaled onto the quadric, with the
// height added back along the normal.
func (c Carto) Cartesian(e Ellipsoid) r3.Vector {
	cosLat := math.Cos(c.Lat)
	n := r3.Vector{
		X: cosLat * math.Cos(c.Lon),
		Y: cosLat * math.Sin(c.Lon),
		Z: math.Sin(c.Lat),
	}

	k := r3.Vector{
		X: e.radiiSquared.X * n.X,
		Y: e.radiiSquared.Y * n.Y,
		Z: e.radiiSquared.Z * n.Z,
	}
	gamma := math.Sqrt(n.Dot(k))

	return k.Mul(1 / gamma).Add(n.Mul(c.Height))
}

// LonDegrees returns the longitude in degrees.
func (c Carto) LonDegrees() float64 {
	return c.Lon * 180 / math.Pi
}

// LatDegrees returns the latitude in degrees.
func (c Carto) LatDegrees() float64 {
	return c.Lat * 180 / math.Pi
}
