package cellr

import "sync"

const (
	// lookupBits is the number of bits per axis covered by a single lookup
	// table step. One step resolves 4 quadtree levels at once.
	lookupBits = 4

	swapMask   = 0x01
	invertMask = 0x02
)

// posToIJ maps a 2-bit orientation to the (i,j) offsets of the four
// sub-quadrants in Hilbert traversal order. Each entry packs i in bit 1 and
// j in bit 0.
var posToIJ = [4][4]int{
	{0, 1, 3, 2}, // canonical order
	{0, 2, 3, 1}, // axes swapped
	{3, 2, 0, 1}, // bits inverted
	{3, 1, 0, 2}, // swapped & inverted
}

// posToOrientation is the orientation delta applied to a sub-quadrant at
// Hilbert position 0..3 relative to its parent.
var posToOrientation = [4]int{swapMask, 0, 0, invertMask | swapMask}

// The lookup tables resolve lookupBits quadtree levels per step. lookupPos
// maps a packed (i,j,orientation) key to a packed (position,orientation)
// value; lookupIJ is its inverse. Both are built once under lookupOnce and
// are read-only afterwards.
var (
	lookupOnce sync.Once
	lookupPos  [1 << (2*lookupBits + 2)]uint16
	lookupIJ   [1 << (2*lookupBits + 2)]uint16
)

func initLookupCell(level, i, j, origOrientation, orientation, pos int) {
	if level == lookupBits {
		ij := (i << lookupBits) + j
		lookupPos[(ij<<2)+origOrientation] = uint16((pos << 2) + orientation)
		lookupIJ[(pos<<2)+origOrientation] = uint16((ij << 2) + orientation)
		return
	}

	level++
	i <<= 1
	j <<= 1
	pos <<= 2
	r := posToIJ[orientation]
	for index := range 4 {
		initLookupCell(
			level,
			i+(r[index]>>1),
			j+(r[index]&1),
			origOrientation,
			orientation^posToOrientation[index],
			pos+index,
		)
	}
}

// lookupTables builds the shared Hilbert lookup tables on first use. The
// four top-level recursions seed one table region per starting orientation.
func lookupTables() {
	lookupOnce.Do(func() {
		initLookupCell(0, 0, 0, 0, 0, 0)
		initLookupCell(0, 0, 0, swapMask, swapMask, 0)
		initLookupCell(0, 0, 0, invertMask, invertMask, 0)
		initLookupCell(0, 0, 0, swapMask|invertMask, swapMask|invertMask, 0)
	})
}
