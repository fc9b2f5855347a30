package querygraph

import (
	"fmt"

	da "github.com/lintang-b-s/navigatorx-querygraph/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/geo"
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/util"
)

// VirtualEdge is one direction of a piece of a split base graph edge.
type VirtualEdge struct {
	edgeID          da.Index
	edgeKey         da.Index
	originalEdge    da.Index
	originalEdgeKey da.Index
	baseNode        da.Index
	adjNode         da.Index
	distance        float64
	flags           da.IntsRef
	geometry        []da.Coordinate
	reverse         bool
	reverseEdge     *VirtualEdge
}

func newVirtualEdge(edgeID, edgeKey, originalEdge, originalEdgeKey, baseNode, adjNode da.Index,
	distance float64, flags da.IntsRef, geometry []da.Coordinate, reverse bool) *VirtualEdge {
	return &VirtualEdge{
		edgeID:          edgeID,
		edgeKey:         edgeKey,
		originalEdge:    originalEdge,
		originalEdgeKey: originalEdgeKey,
		baseNode:        baseNode,
		adjNode:         adjNode,
		distance:        distance,
		flags:           flags,
		geometry:        geometry,
		reverse:         reverse,
	}
}

func (e *VirtualEdge) GetEdge() da.Index {
	return e.edgeID
}

func (e *VirtualEdge) GetEdgeKey() da.Index {
	return e.edgeKey
}

func (e *VirtualEdge) GetReverseEdgeKey() da.Index {
	return da.ReverseEdgeKey(e.edgeKey)
}

// GetOriginalEdge is the id of the base graph edge this piece was cut from.
func (e *VirtualEdge) GetOriginalEdge() da.Index {
	return e.originalEdge
}

// GetOriginalEdgeKey is the key of the base graph edge in the same travel direction.
func (e *VirtualEdge) GetOriginalEdgeKey() da.Index {
	return e.originalEdgeKey
}

func (e *VirtualEdge) GetBaseNode() da.Index {
	return e.baseNode
}

func (e *VirtualEdge) GetAdjNode() da.Index {
	return e.adjNode
}

func (e *VirtualEdge) GetDistance() float64 {
	return e.distance
}

func (e *VirtualEdge) GetFlags() da.IntsRef {
	return e.flags
}

func (e *VirtualEdge) IsReverse() bool {
	return e.reverse
}

func (e *VirtualEdge) FetchWayGeometry(mode da.FetchMode) []da.Coordinate {
	return da.FetchGeometry(e.geometry, mode)
}

// GetReverseEdge returns the paired edge of a bidirectional overlay, nil otherwise.
func (e *VirtualEdge) GetReverseEdge() *VirtualEdge {
	return e.reverseEdge
}

func (e *VirtualEdge) Detach(reverse bool) da.EdgeState {
	if !reverse {
		cp := *e
		return &cp
	}
	if e.reverseEdge != nil {
		return e.reverseEdge
	}
	return &VirtualEdge{
		edgeID:          e.edgeID,
		edgeKey:         da.ReverseEdgeKey(e.edgeKey),
		originalEdge:    e.originalEdge,
		originalEdgeKey: da.ReverseEdgeKey(e.originalEdgeKey),
		baseNode:        e.adjNode,
		adjNode:         e.baseNode,
		distance:        e.distance,
		flags:           e.flags,
		geometry:        util.ReverseG(e.geometry),
		reverse:         !e.reverse,
		reverseEdge:     e,
	}
}

func pairVirtualEdges(forward, backward *VirtualEdge) {
	forward.reverseEdge = backward
	backward.reverseEdge = forward
}

func (e *VirtualEdge) String() string {
	return fmt.Sprintf("%d: %d->%d (key %d, original %d) %.2fm %s", e.edgeID, e.baseNode, e.adjNode,
		e.edgeKey, e.originalEdge, e.distance, geo.EncodePolyline(da.NewGeoCoordinates(e.geometry)))
}
