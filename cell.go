package cellr

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Cell binds a structurally valid identifier to its derived level. It is
// the public entry point of the hierarchy: construction validates once,
// after which navigation and the center computation cannot encounter a
// malformed identifier.
type Cell struct {
	id    CellID
	level int
}

// NewCell constructs a Cell from an identifier. It fails with
// ErrUnsupportedEnvironment if the host lacks 64-bit integer semantics and
// with ErrInvalidCellID if the identifier violates the scheme invariants.
func NewCell(id CellID) (Cell, error) {
	if uint64SupportErr != nil {
		return Cell{}, uint64SupportErr
	}
	if !id.Valid() {
		return Cell{}, fmt.Errorf("%w: %#016x", ErrInvalidCellID, uint64(id))
	}
	return Cell{id: id, level: id.Level()}, nil
}

// NewCellFromToken constructs a Cell from its compact hexadecimal token.
func NewCellFromToken(token string) (Cell, error) {
	id, err := CellIDFromToken(token)
	if err != nil {
		return Cell{}, err
	}
	return NewCell(id)
}

// ID returns the cell's identifier.
func (c Cell) ID() CellID {
	return c.id
}

// Level returns the subdivision level, 0..MaxLevel, fixed at construction.
func (c Cell) Level() int {
	return c.level
}

// Token returns the compact hexadecimal form of the identifier.
func (c Cell) Token() string {
	return c.id.Token()
}

// String implements fmt.Stringer.
func (c Cell) String() string {
	return fmt.Sprintf("cell %s (level %d)", c.id.Token(), c.level)
}

// Parent returns the enclosing cell one level up. Fails with ErrHierarchy
// on a face root cell.
func (c Cell) Parent() (Cell, error) {
	id, err := c.id.Parent()
	if err != nil {
		return Cell{}, err
	}
	return Cell{id: id, level: c.level - 1}, nil
}

// Child returns the sub-cell at Hilbert position pos in 0..3. Fails with
// ErrInvalidArgument for positions out of range and with ErrHierarchy on a
// leaf cell.
func (c Cell) Child(pos int) (Cell, error) {
	id, err := c.id.Child(pos)
	if err != nil {
		return Cell{}, err
	}
	return Cell{id: id, level: c.level + 1}, nil
}

// CenterCarto returns the geodetic position of the cell center: the unit
// sphere center point read as longitude and latitude at height zero.
func (c Cell) CenterCarto() (Carto, error) {
	return CartoFromCartesian(c.id.rawCenter(), UnitSphere)
}

// Center returns the Cartesian cell center on the target ellipsoid. The
// unit sphere center is interpreted geodetically and re-expressed true to
// scale on the given surface.
func (c Cell) Center(e Ellipsoid) (r3.Vector, error) {
	carto, err := c.CenterCarto()
	if err != nil {
		return r3.Vector{}, err
	}
	return carto.Cartesian(e), nil
}
