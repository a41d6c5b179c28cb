// Package transposition implements the solver's fixed-size, single-slot
// cache from position hash to a packed alpha-beta bound.
package transposition

// Size is the largest prime below 8,388,608 (8 Mi), chosen so hash mod
// Size distributes well and the table occupies roughly 40 MiB (Size * (4
// + 1) bytes) per Solver.
const Size = 8_388_593

// emptyKey is the sentinel marking an unused slot. A real hash never
// collides with it: every real hash fits within the 42 playable bits of
// PlayableAreaMask plus carries from the sum of two such masks, which
// never sets every bit of a 32-bit truncation to 1.
const emptyKey uint32 = ^uint32(0)

// Table is owned by exactly one Solver for exactly one top-level search;
// it is never shared across goroutines.
type Table struct {
	keys []uint32
	vals []int8
}

// New returns an empty table of Size slots.
func New() *Table {
	keys := make([]uint32, Size)
	for i := range keys {
		keys[i] = emptyKey
	}
	return &Table{
		keys: keys,
		vals: make([]int8, Size),
	}
}

// Set stores value under key, silently overwriting whatever previously
// occupied the bucket key maps to.
func (t *Table) Set(key uint64, value int8) {
	i := key % Size
	t.keys[i] = uint32(key)
	t.vals[i] = value
}

// Get returns the stored value for key and true, or (0, false) if the
// bucket key maps to holds a different (or no) key. Because only the low
// 32 bits of key are compared, a false positive is possible when a
// colliding key was stored more recently — the returned value is then a
// valid bound for some reachable position, not necessarily this one; see
// the solver's alpha-beta clamp, which tolerates an honest-but-wrong
// bound.
func (t *Table) Get(key uint64) (int8, bool) {
	i := key % Size
	if t.keys[i] == uint32(key) {
		return t.vals[i], true
	}
	return 0, false
}

// FromParts rebuilds a Table directly from previously-exported slot
// arrays (see Keys/Vals), as used when loading a compiled book. keys and
// vals must each have length Size and be index-aligned by bucket.
func FromParts(keys []uint32, vals []int8) *Table {
	return &Table{keys: keys, vals: vals}
}

// Keys returns the table's raw, slot-indexed key array for
// serialization. The slice is shared with the table, not copied; callers
// serializing it must not mutate it afterward.
func (t *Table) Keys() []uint32 {
	return t.keys
}

// Vals returns the table's raw, slot-indexed value array for
// serialization, under the same sharing contract as Keys.
func (t *Table) Vals() []int8 {
	return t.vals
}
