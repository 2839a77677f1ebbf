package cellr

// faceIJOrientation decodes an identifier into its cube face, leaf grid
// coordinates and Hilbert orientation. The 60 position bits are consumed in
// 8 groups, most significant first: a ragged 2-bit top group followed by 7
// full 4-bit groups, each resolved through the shared lookup tables while
// the orientation is threaded from group to group.
func (id CellID) faceIJOrientation() (face, i, j, orientation int) {
	lookupTables()

	face = id.Face()
	orientation = face & swapMask
	nbits := MaxLevel - 7*lookupBits // top group covers the leftover levels

	for k := 7; k >= 0; k-- {
		orientation += (int(uint64(id)>>uint(k*2*lookupBits+1)) & ((1 << uint(2*nbits)) - 1)) << 2
		orientation = int(lookupIJ[orientation])
		i += (orientation >> (lookupBits + 2)) << uint(k*lookupBits)
		j += ((orientation >> 2) & ((1 << lookupBits) - 1)) << uint(k*lookupBits)
		orientation &= swapMask | invertMask
		nbits = lookupBits
	}

	// The curve on a face inherits the face parity; markers that sit off a
	// group boundary flip the swap axis once more.
	if id.lsb()&0x1111111111111110 != 0 {
		orientation ^= swapMask
	}

	return face, i, j, orientation
}
