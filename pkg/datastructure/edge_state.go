package datastructure

type FetchMode uint8

const (
	FETCH_ALL             FetchMode = iota // base node, pillars, adj node
	FETCH_PILLAR_ONLY                      // inner points only
	FETCH_BASE_AND_PILLAR                  // everything except the adj node
	FETCH_PILLAR_AND_ADJ                   // everything except the base node
	FETCH_TOWER_ONLY                       // base node and adj node
)

// EdgeState is an edge seen from one of its two directions. GetBaseNode is
// the node the edge is traversed from. Geometry and flags returned by an
// EdgeState must not be modified by the caller.
type EdgeState interface {
	GetEdge() Index
	GetEdgeKey() Index
	GetReverseEdgeKey() Index
	GetBaseNode() Index
	GetAdjNode() Index
	// GetDistance returns the edge length in meter.
	GetDistance() float64
	GetFlags() IntsRef
	IsReverse() bool
	FetchWayGeometry(mode FetchMode) []Coordinate
	// Detach returns an independent copy of the state. With reverse set the copy
	// faces the opposite direction.
	Detach(reverse bool) EdgeState
}

// FetchGeometry cuts a full base-to-adj geometry according to mode. The
// result never aliases full.
func FetchGeometry(full []Coordinate, mode FetchMode) []Coordinate {
	n := len(full)
	var part []Coordinate
	switch mode {
	case FETCH_ALL:
		part = full
	case FETCH_PILLAR_ONLY:
		if n <= 2 {
			return []Coordinate{}
		}
		part = full[1 : n-1]
	case FETCH_BASE_AND_PILLAR:
		if n == 0 {
			return []Coordinate{}
		}
		part = full[:n-1]
	case FETCH_PILLAR_AND_ADJ:
		if n == 0 {
			return []Coordinate{}
		}
		part = full[1:]
	case FETCH_TOWER_ONLY:
		if n < 2 {
			part = full
		} else {
			part = []Coordinate{full[0], full[n-1]}
		}
	default:
		part = full
	}

	out := make([]Coordinate, len(part))
	copy(out, part)
	return out
}
