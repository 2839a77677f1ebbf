package cellr

import (
	"errors"
	"math"

	"github.com/golang/geo/r3"
)

const (
	// convergence threshold for the geodetic surface projection
	surfaceEpsilon = 1e-12
	// squared normalized distance below which a point counts as the center
	centerToleranceSquared = 1e-1
)

var errNearCenter = errors.New("point is too close to the ellipsoid center")

// Ellipsoid is a quadric surface with semi-axes aligned to the coordinate
// axes. The derived reciprocal fields are precomputed once at construction
// and the value is safe to copy and share.
type Ellipsoid struct {
	radii               r3.Vector
	radiiSquared        r3.Vector
	oneOverRadii        r3.Vector
	oneOverRadiiSquared r3.Vector
}

// NewEllipsoid builds an ellipsoid from its three semi-axis lengths in
// meters. All radii must be positive.
func NewEllipsoid(x, y, z float64) (Ellipsoid, error) {
	if x <= 0 || y <= 0 || z <= 0 {
		return Ellipsoid{}, errors.New("ellipsoid radii must be positive")
	}
	return Ellipsoid{
		radii:               r3.Vector{X: x, Y: y, Z: z},
		radiiSquared:        r3.Vector{X: x * x, Y: y * y, Z: z * z},
		oneOverRadii:        r3.Vector{X: 1 / x, Y: 1 / y, Z: 1 / z},
		oneOverRadiiSquared: r3.Vector{X: 1 / (x * x), Y: 1 / (y * y), Z: 1 / (z * z)},
	}, nil
}

func mustEllipsoid(x, y, z float64) Ellipsoid {
	e, err := NewEllipsoid(x, y, z)
	if err != nil {
		panic(err)
	}
	return e
}

var (
	// UnitSphere is the sphere of radius one, the intermediate surface of
	// the cell center computation.
	UnitSphere = mustEllipsoid(1, 1, 1)

	// WGS84 is the World Geodetic System 1984 reference ellipsoid.
	WGS84 = mustEllipsoid(6378137.0, 6378137.0, 6356752.3142451793)
)

// Radii returns the semi-axis lengths.
func (e Ellipsoid) Radii() r3.Vector {
	return e.radii
}

// SurfaceNormal returns the outward geodetic normal at a point assumed to
// lie on the ellipsoid surface.
func (e Ellipsoid) SurfaceNormal(p r3.Vector) r3.Vector {
	return r3.Vector{
		X: p.X * e.oneOverRadiiSquared.X,
		Y: p.Y * e.oneOverRadiiSquared.Y,
		Z: p.Z * e.oneOverRadiiSquared.Z,
	}.Normalize()
}

// ScaleToGeodeticSurface projects an arbitrary Cartesian point onto the
// ellipsoid along the geodetic normal, by Newton iteration on the scaling
// factor of the quadric gradient. Points within the center tolerance are
// scaled radially instead, and the origin itself is rejected.
func (e Ellipsoid) ScaleToGeodeticSurface(v r3.Vector) (r3.Vector, error) {
	x2 := v.X * v.X * e.oneOverRadii.X * e.oneOverRadii.X
	y2 := v.Y * v.Y * e.oneOverRadii.Y * e.oneOverRadii.Y
	z2 := v.Z * v.Z * e.oneOverRadii.Z * e.oneOverRadii.Z

	squaredNorm := x2 + y2 + z2
	ratio := math.Sqrt(1 / squaredNorm)

	intersection := v.Mul(ratio)
	if squaredNorm < centerToleranceSquared {
		if math.IsInf(ratio, 0) || math.IsNaN(ratio) {
			return r3.Vector{}, errNearCenter
		}
		return intersection, nil
	}

	gradient := r3.Vector{
		X: intersection.X * e.oneOverRadiiSquared.X * 2,
		Y: intersection.Y * e.oneOverRadiiSquared.Y * 2,
		Z: intersection.Z * e.oneOverRadiiSquared.Z * 2,
	}

	lambda := (1 - ratio) * v.Norm() / (0.5 * gradient.Norm())
	correction := 0.0

	var xMult, yMult, zMult float64
	for {
		lambda -= correction

		xMult = 1 / (1 + lambda*e.oneOverRadiiSquared.X)
		yMult = 1 / (1 + lambda*e.oneOverRadiiSquared.Y)
		zMult = 1 / (1 + lambda*e.oneOverRadiiSquared.Z)

		xMult2 := xMult * xMult
		yMult2 := yMult * yMult
		zMult2 := zMult * zMult

		fn := x2*xMult2 + y2*yMult2 + z2*zMult2 - 1

		denominator := x2*xMult2*xMult*e.oneOverRadiiSquared.X +
			y2*yMult2*yMult*e.oneOverRadiiSquared.Y +
			z2*zMult2*zMult*e.oneOverRadiiSquared.Z

		correction = fn / (-2 * denominator)

		if math.Abs(fn) <= surfaceEpsilon {
			break
		}
	}

	return r3.Vector{X: v.X * xMult, Y: v.Y * yMult, Z: v.Z * zMult}, nil
}
