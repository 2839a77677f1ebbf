package cellr

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// CellRecord is the serializable view of a resolved cell. The identifier
// is rendered as a decimal string because its upper range exceeds what
// JSON consumers can hold in a double.
type CellRecord struct {
	Token  string      `json:"token"`
	ID     string      `json:"id"`
	Level  int         `json:"level"`
	Center CenterPoint `json:"center"`
}

// CenterPoint carries both the geodetic and the Cartesian form of a cell
// center on the resolver's ellipsoid. Angles are degrees, x/y/z meters.
type CenterPoint struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Z   float64 `json:"z"`
}

func (r CellRecord) String() string {
	jsonBytes, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return `{"error": "failed to marshal CellRecord"}`
	}
	return string(jsonBytes)
}

// ResolverConfig holds customization options for a Resolver.
type ResolverConfig struct {
	ellipsoid Ellipsoid
	cache     Cacher
}

// ResolverOption is a functional option for configuring a Resolver.
type ResolverOption = func(config *ResolverConfig)

// WithEllipsoid sets the target ellipsoid the resolver reports centers on.
func WithEllipsoid(e Ellipsoid) ResolverOption {
	return func(config *ResolverConfig) {
		config.ellipsoid = e
	}
}

// WithCache sets a cache for resolved records.
func WithCache(c Cacher) ResolverOption {
	return func(config *ResolverConfig) {
		config.cache = c
	}
}

// Resolver turns tokens into cell records, optionally memoizing the
// result. The zero ellipsoid default is WGS84.
type Resolver struct {
	ellipsoid Ellipsoid
	cache     Cacher
}

func NewResolver(options ...ResolverOption) *Resolver {
	config := &ResolverConfig{
		ellipsoid: WGS84,
	}
	for _, o := range options {
		o(config)
	}

	return &Resolver{
		ellipsoid: config.ellipsoid,
		cache:     config.cache,
	}
}

// Resolve builds the record for a token: level, canonical token form and
// the center on the resolver's ellipsoid.
func (r *Resolver) Resolve(token string) (CellRecord, error) {
	if r.cache != nil {
		if rec, ok := r.cache.Get(token); ok {
			return rec, nil
		}
	}

	cell, err := NewCellFromToken(token)
	if err != nil {
		return CellRecord{}, fmt.Errorf("resolving token %q: %w", token, err)
	}

	rec, err := r.record(cell)
	if err != nil {
		return CellRecord{}, err
	}

	if r.cache != nil {
		r.cache.Set(token, rec)
	}

	return rec, nil
}

// Parent resolves the record of the token's parent cell.
func (r *Resolver) Parent(token string) (CellRecord, error) {
	cell, err := NewCellFromToken(token)
	if err != nil {
		return CellRecord{}, fmt.Errorf("resolving token %q: %w", token, err)
	}
	parent, err := cell.Parent()
	if err != nil {
		return CellRecord{}, err
	}
	return r.record(parent)
}

// Children resolves the records of the token's four children in Hilbert
// order.
func (r *Resolver) Children(token string) ([]CellRecord, error) {
	cell, err := NewCellFromToken(token)
	if err != nil {
		return nil, fmt.Errorf("resolving token %q: %w", token, err)
	}

	records := make([]CellRecord, 0, numChildren)
	for pos := range numChildren {
		child, err := cell.Child(pos)
		if err != nil {
			return nil, err
		}
		rec, err := r.record(child)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

// Close releases the cache, if any.
func (r *Resolver) Close() {
	if r.cache != nil {
		r.cache.Close()
	}
}

func (r *Resolver) record(cell Cell) (CellRecord, error) {
	carto, err := cell.CenterCarto()
	if err != nil {
		return CellRecord{}, fmt.Errorf("computing center of %s: %w", cell.Token(), err)
	}
	xyz := carto.Cartesian(r.ellipsoid)

	return CellRecord{
		Token: cell.Token(),
		ID:    strconv.FormatUint(uint64(cell.ID()), 10),
		Level: cell.Level(),
		Center: CenterPoint{
			Lon: carto.LonDegrees(),
			Lat: carto.LatDegrees(),
			X:   xyz.X,
			Y:   xyz.Y,
			Z:   xyz.Z,
		},
	}, nil
}
