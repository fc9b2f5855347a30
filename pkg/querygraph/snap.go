package querygraph

import (
	"fmt"

	da "github.com/lintang-b-s/navigatorx-querygraph/pkg/datastructure"
)

type SnappedPosition uint8

const (
	EDGE   SnappedPosition = iota // between two points of the edge geometry
	PILLAR                        // on an inner point of the edge geometry
	TOWER                         // on the base or adj node of the edge
)

func (p SnappedPosition) String() string {
	switch p {
	case EDGE:
		return "edge"
	case PILLAR:
		return "pillar"
	case TOWER:
		return "tower"
	}
	return fmt.Sprintf("SnappedPosition(%d)", uint8(p))
}

func ParseSnappedPosition(s string) (SnappedPosition, error) {
	switch s {
	case "edge", "":
		return EDGE, nil
	case "pillar":
		return PILLAR, nil
	case "tower":
		return TOWER, nil
	}
	return EDGE, fmt.Errorf("unknown snapped position %q", s)
}

// DefaultEqualityTolerance is the lat/lon tolerance in degrees under which two
// snapped points on the same edge are merged into one virtual node.
const DefaultEqualityTolerance = 1e-6

// Snap is a query location resolved onto an edge of the base graph. It is
// produced by the snapper and read, never written, by the overlay builder.
type Snap struct {
	queryPoint     da.Coordinate
	closestEdge    da.EdgeState
	snappedPoint   da.Coordinate
	wayIndex       int
	position       SnappedPosition
	closestNode    da.Index
	hasClosestNode bool
}

func NewSnap(queryLat, queryLon float64) *Snap {
	return &Snap{queryPoint: da.NewCoordinate(queryLat, queryLon)}
}

func (s *Snap) GetQueryPoint() da.Coordinate {
	return s.queryPoint
}

func (s *Snap) GetClosestEdge() da.EdgeState {
	return s.closestEdge
}

func (s *Snap) SetClosestEdge(edge da.EdgeState) {
	s.closestEdge = edge
}

func (s *Snap) GetSnappedPoint() da.Coordinate {
	return s.snappedPoint
}

func (s *Snap) SetSnappedPoint(p da.Coordinate) {
	s.snappedPoint = p
}

func (s *Snap) GetWayIndex() int {
	return s.wayIndex
}

func (s *Snap) SetWayIndex(wayIndex int) {
	s.wayIndex = wayIndex
}

func (s *Snap) GetSnappedPosition() SnappedPosition {
	return s.position
}

func (s *Snap) SetSnappedPosition(position SnappedPosition) {
	s.position = position
}

// SetClosestNode is used by the snapper for TOWER snaps.
func (s *Snap) SetClosestNode(node da.Index) {
	s.closestNode = node
	s.hasClosestNode = true
}

func (s *Snap) GetClosestNode() (da.Index, bool) {
	return s.closestNode, s.hasClosestNode
}

func (s *Snap) String() string {
	edge := "<nil>"
	if s.closestEdge != nil {
		edge = fmt.Sprintf("%d (%d->%d)", s.closestEdge.GetEdge(), s.closestEdge.GetBaseNode(), s.closestEdge.GetAdjNode())
	}
	return fmt.Sprintf("snap{edge: %s, point: %v, wayIndex: %d, position: %s}", edge, s.snappedPoint, s.wayIndex, s.position)
}

// ConsiderEqual compares latitude, longitude and elevation with tolerance eps.
func ConsiderEqual(a, b da.Coordinate, eps float64) bool {
	return da.PointsEqual(a, b, eps) && da.EqualsEps(a.Ele, b.Ele, eps)
}
