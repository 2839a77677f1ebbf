package cellr

// The identifier arithmetic depends on exact 64-bit two's-complement
// behavior: lsb isolation via x & -x and shifts that discard into the
// sign-free 64th bit. Go guarantees both on every platform, but the
// construction contract still reports a distinct unsupported-environment
// failure rather than a validation error if the probe ever fails, so
// ports to hosts without native 64-bit words fail loudly.
var uint64SupportErr = probeUint64()

func probeUint64() error {
	x := uint64(1) << 63
	if x<<1 != 0 || x&-x != x || ^uint64(0)>>63 != 1 {
		return ErrUnsupportedEnvironment
	}
	return nil
}
