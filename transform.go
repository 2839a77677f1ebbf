package cellr

import "github.com/golang/geo/r3"

// centerSiTi returns the cell center in fixed-point face coordinates. The
// si/ti space doubles the leaf grid so that every cell center at every
// level lands on an integer: leaf centers sit half a leaf cell off the
// grid (delta 1), non-leaf centers alternate between grid-aligned and
// offset depending on the Hilbert parity at the cell's level.
func (id CellID) centerSiTi() (face, si, ti int) {
	face, i, j, _ := id.faceIJOrientation()

	delta := 0
	if id.IsLeaf() {
		delta = 1
	} else if (int64(i)^(int64(uint64(id))>>2))&1 == 1 {
		delta = 2
	}

	return face, 2*i + delta, 2*j + delta
}

// siTiToST rescales a fixed-point si/ti coordinate into [0,1].
func siTiToST(si uint64) float64 {
	return float64(si) / float64(maxSiTi)
}

// stToUV applies the quadratic projection that undoes cube-face area
// distortion, mapping [0,1] onto [-1,1] so that cells of equal level have
// comparable area anywhere on a face.
func stToUV(s float64) float64 {
	if s >= 0.5 {
		return (1 / 3.) * (4*s*s - 1)
	}
	return (1 / 3.) * (1 - 4*(1-s)*(1-s))
}

// faceUVToXYZ places face-local (u,v) coordinates on the unit cube. Each
// face is a fixed axis permutation with signs chosen so the curve
// orientation is continuous across face boundaries.
func faceUVToXYZ(face int, u, v float64) r3.Vector {
	switch face {
	case 0:
		return r3.Vector{X: 1, Y: u, Z: v}
	case 1:
		return r3.Vector{X: -u, Y: 1, Z: v}
	case 2:
		return r3.Vector{X: -u, Y: -v, Z: 1}
	case 3:
		return r3.Vector{X: -1, Y: -v, Z: -u}
	case 4:
		return r3.Vector{X: v, Y: -1, Z: -u}
	default:
		return r3.Vector{X: v, Y: u, Z: -1}
	}
}

// rawCenter returns the cell center as a unit vector on the sphere,
// before any ellipsoidal re-expression.
func (id CellID) rawCenter() r3.Vector {
	face, si, ti := id.centerSiTi()
	u := stToUV(siTiToST(uint64(si)))
	v := stToUV(siTiToST(uint64(ti)))
	return faceUVToXYZ(face, u, v).Normalize()
}
