package cellr

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
)

func TestSiTiToST(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		si   uint64
		want float64
	}{
		{"low edge", 0, 0},
		{"center", 1 << 30, 0.5},
		{"high edge", 1 << 31, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := siTiToST(tt.si); got != tt.want {
				t.Errorf("siTiToST(%d) = %v, want %v", tt.si, got, tt.want)
			}
		})
	}
}

func TestStToUV(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		s    float64
		want float64
	}{
		{"low edge", 0, -1},
		{"center", 0.5, 0},
		{"high edge", 1, 1},
		{"quarter", 0.25, (1 - 4*0.75*0.75) / 3},
		{"three quarters", 0.75, (4*0.75*0.75 - 1) / 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := stToUV(tt.s); math.Abs(got-tt.want) > 1e-15 {
				t.Errorf("stToUV(%v) = %v, want %v", tt.s, got, tt.want)
			}
		})
	}

	// the projection is an odd function around the face center
	for _, s := range []float64{0.1, 0.3, 0.42, 0.49} {
		if got, want := stToUV(s), -stToUV(1-s); math.Abs(got-want) > 1e-15 {
			t.Errorf("stToUV(%v) = %v, want mirror of stToUV(%v) = %v", s, got, 1-s, want)
		}
	}
}

func TestFaceUVToXYZ(t *testing.T) {
	t.Parallel()

	// at u=v=0 every face maps to its axis
	axes := []r3.Vector{
		{X: 1}, {Y: 1}, {Z: 1},
		{X: -1}, {Y: -1}, {Z: -1},
	}
	for face, want := range axes {
		if got := faceUVToXYZ(face, 0, 0); got != want {
			t.Errorf("faceUVToXYZ(%d, 0, 0) = %v, want %v", face, got, want)
		}
	}

	// every face covers its own cube side: the dominant axis keeps
	// magnitude 1 for any u,v in [-1,1]
	for face := range NumFaces {
		for _, uv := range [][2]float64{{-1, -1}, {-0.5, 0.75}, {1, 1}} {
			p := faceUVToXYZ(face, uv[0], uv[1])
			m := math.Max(math.Abs(p.X), math.Max(math.Abs(p.Y), math.Abs(p.Z)))
			if m != 1 {
				t.Errorf("faceUVToXYZ(%d, %v, %v) = %v has dominant magnitude %v", face, uv[0], uv[1], p, m)
			}
		}
	}
}

func TestRawCenterIsUnit(t *testing.T) {
	t.Parallel()

	ids := []CellID{
		1 << 60,
		0x89c25c0000000000,
		0x89c25c0000000001,
		0x0123456789abcde1,
		0x7fffffffffffffff,
	}

	for face := range NumFaces {
		id := CellID(uint64(face)<<PosBits | 1<<(PosBits-1))
		for !id.IsLeaf() {
			child, err := id.Child(1)
			if err != nil {
				t.Fatal(err)
			}
			id = child
			ids = append(ids, id)
		}
	}

	for _, id := range ids {
		if norm := id.rawCenter().Norm(); math.Abs(norm-1) > 1e-14 {
			t.Errorf("rawCenter(%#016x).Norm() = %v, want 1", uint64(id), norm)
		}
	}
}

func TestRawCenterFaceRoots(t *testing.T) {
	t.Parallel()

	// each face root's center is exactly the face axis
	axes := []r3.Vector{
		{X: 1}, {Y: 1}, {Z: 1},
		{X: -1}, {Y: -1}, {Z: -1},
	}
	for face, want := range axes {
		id := CellID(uint64(face)<<PosBits | 1<<(PosBits-1))
		got := id.rawCenter()
		if got.Sub(want).Norm() > 1e-15 {
			t.Errorf("face %d root center = %v, want %v", face, got, want)
		}
	}
}

func TestCenterSiTiChildrenSurroundParent(t *testing.T) {
	t.Parallel()

	parent := CellID(0x89c25c0000000000)
	_, psi, pti := parent.centerSiTi()

	for pos := range 4 {
		child, err := parent.Child(pos)
		if err != nil {
			t.Fatal(err)
		}
		_, csi, cti := child.centerSiTi()

		// each child center is offset by a quarter of the parent extent
		// on both axes
		extent := 2 << (MaxLevel - parent.Level())
		if d := csi - psi; d != extent/4 && d != -extent/4 {
			t.Errorf("child %d si offset = %d, want ±%d", pos, d, extent/4)
		}
		if d := cti - pti; d != extent/4 && d != -extent/4 {
			t.Errorf("child %d ti offset = %d, want ±%d", pos, d, extent/4)
		}
	}
}
