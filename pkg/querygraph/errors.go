package querygraph

import "errors"

var (
	// ErrInvalidSnap is returned for snaps the caller should never have
	// submitted, e.g. a snap without a closest edge.
	ErrInvalidSnap = errors.New("invalid snap")
	// ErrMalformedGeometry means the base graph returned an edge geometry with
	// fewer than two points.
	ErrMalformedGeometry = errors.New("malformed edge geometry")
	// ErrInvalidWayIndex means a way index does not address a segment (or an
	// inner point for pillar snaps) of the edge geometry.
	ErrInvalidWayIndex = errors.New("way index out of range")
	// ErrInconsistentEdge means snaps on the same edge id disagree about the
	// edge end nodes.
	ErrInconsistentEdge = errors.New("inconsistent closest edge")
)
