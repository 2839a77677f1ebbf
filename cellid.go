package cellr

import (
	"fmt"
	"math/bits"
	"regexp"
	"strconv"
	"strings"
)

const (
	// FaceBits is the number of leading identifier bits selecting a cube face.
	FaceBits = 3
	// NumFaces is the number of cube faces partitioning the sphere.
	NumFaces = 6
	// MaxLevel is the deepest subdivision level of the cell hierarchy.
	MaxLevel = 30
	// PosBits is the number of identifier bits encoding the Hilbert curve
	// position, including the trailing level marker bit.
	PosBits = 2*MaxLevel + 1

	// maxSize is the leaf grid width of a single face, maxSiTi twice that.
	maxSize     = 1 << MaxLevel
	maxSiTi     = maxSize << 1
	numChildren = 4

	// lsbMask has a bit set at every offset a level marker may occupy.
	lsbMask = 0x1555555555555555
)

// TokenNone is the token of the zero identifier. It is a defined
// placeholder, not a navigable cell.
const TokenNone = "X"

var tokenPattern = regexp.MustCompile(`^[0-9a-fA-F]{1,16}$`)

// CellID identifies a cell of the spherical quadtree hierarchy. The top 3
// bits select a cube face, the remaining 61 bits hold the position along
// that face's Hilbert curve as 2 bits per level, terminated by a single
// marker bit whose offset encodes the level. Navigation never mutates a
// CellID; it derives new values.
type CellID uint64

// Valid reports whether id satisfies the structural invariants of the
// scheme: non-zero, face in range, level marker on an even bit offset.
func (id CellID) Valid() bool {
	return id != 0 && id.Face() < NumFaces && id.lsb()&lsbMask != 0
}

// Face returns the cube face of the identifier, 0..5.
func (id CellID) Face() int {
	return int(uint64(id) >> PosBits)
}

// Level returns the subdivision level encoded by the position of the
// lowest set bit, 0 for a face root up to MaxLevel for a leaf.
func (id CellID) Level() int {
	return MaxLevel - bits.TrailingZeros64(uint64(id))>>1
}

// IsLeaf reports whether id is at the deepest level. Leaf identifiers have
// their marker in bit 0, making the test a single mask.
func (id CellID) IsLeaf() bool {
	return uint64(id)&1 != 0
}

// IsFace reports whether id is a face root cell.
func (id CellID) IsFace() bool {
	return uint64(id)&(faceLSB-1) == 0
}

const faceLSB = uint64(1) << (PosBits - 1)

// lsb isolates the lowest set bit, relying on two's-complement negation at
// 64-bit width.
func (id CellID) lsb() uint64 {
	return uint64(id) & -uint64(id)
}

// Parent returns the identifier one level up. The marker moves two bits
// towards the face bits and everything below it is cleared.
func (id CellID) Parent() (CellID, error) {
	if id.IsFace() {
		return 0, fmt.Errorf("%w: face cell %s has no parent", ErrHierarchy, id.Token())
	}
	newLSB := id.lsb() << 2
	return CellID((uint64(id) & -newLSB) | newLSB), nil
}

// Child returns the child at Hilbert position pos in 0..3. The marker moves
// two bits deeper and the identifier steps to the chosen quadrant.
func (id CellID) Child(pos int) (CellID, error) {
	if pos < 0 || pos >= numChildren {
		return 0, fmt.Errorf("%w: child position %d outside [0,3]", ErrInvalidArgument, pos)
	}
	if id.IsLeaf() {
		return 0, fmt.Errorf("%w: leaf cell %s has no children", ErrHierarchy, id.Token())
	}
	step := uint64(2*pos - 3)
	return CellID(uint64(id) + step*(id.lsb()>>2)), nil
}

// Token renders the identifier in its compact hexadecimal form: the 16
// digit zero-padded representation with trailing zero nibbles stripped. The
// zero identifier renders as TokenNone.
func (id CellID) Token() string {
	s := strings.TrimRight(fmt.Sprintf("%016x", uint64(id)), "0")
	if s == "" {
		return TokenNone
	}
	return s
}

// String implements fmt.Stringer.
func (id CellID) String() string {
	return id.Token()
}

// CellIDFromToken parses a compact hexadecimal token back into an
// identifier by right-padding it to 16 digits. TokenNone yields the zero
// identifier. The result is not checked for structural validity; callers
// that need a navigable cell go through NewCellFromToken.
func CellIDFromToken(token string) (CellID, error) {
	if token == TokenNone {
		return 0, nil
	}
	if !tokenPattern.MatchString(token) {
		return 0, fmt.Errorf("%w: malformed token %q", ErrInvalidArgument, token)
	}
	v, err := strconv.ParseUint(token, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parsing token %q: %v", ErrInvalidArgument, token, err)
	}
	return CellID(v << (4 * (16 - len(token)))), nil
}
