package querygraph

import (
	da "github.com/lintang-b-s/navigatorx-querygraph/pkg/datastructure"
)

// QueryOverlay holds the virtual nodes and edges of one routing request. It
// is immutable and safe for concurrent readers. Slices returned by its
// getters must not be modified.
type QueryOverlay struct {
	firstVirtualNode da.Index
	firstVirtualEdge da.Index
	bidirectional    bool

	virtualNodes []da.Coordinate
	// closestEdges is the original edge id of every virtual node.
	closestEdges []da.Index
	virtualEdges []*VirtualEdge
	// closestNodes is the resolved node of every input snap, by snap index.
	closestNodes           []da.Index
	edgeChangesAtRealNodes map[da.Index]*EdgeChanges
}

func (o *QueryOverlay) GetFirstVirtualNode() da.Index {
	return o.firstVirtualNode
}

func (o *QueryOverlay) GetFirstVirtualEdge() da.Index {
	return o.firstVirtualEdge
}

func (o *QueryOverlay) IsBidirectional() bool {
	return o.bidirectional
}

// GetVirtualNodes returns the virtual node coordinates; index = node id - first virtual node id.
func (o *QueryOverlay) GetVirtualNodes() []da.Coordinate {
	return o.virtualNodes
}

func (o *QueryOverlay) GetNumVirtualNodes() int {
	return len(o.virtualNodes)
}

func (o *QueryOverlay) GetVirtualNode(node da.Index) (da.Coordinate, bool) {
	if !o.IsVirtualNode(node) {
		return da.Coordinate{}, false
	}
	return o.virtualNodes[node-o.firstVirtualNode], true
}

func (o *QueryOverlay) IsVirtualNode(node da.Index) bool {
	return node >= o.firstVirtualNode && int(node-o.firstVirtualNode) < len(o.virtualNodes)
}

func (o *QueryOverlay) GetClosestEdges() []da.Index {
	return o.closestEdges
}

// GetVirtualEdges lists the edges in creation order. In a bidirectional
// overlay the reverse edge directly follows its forward edge.
func (o *QueryOverlay) GetVirtualEdges() []*VirtualEdge {
	return o.virtualEdges
}

func (o *QueryOverlay) GetNumVirtualEdges() int {
	return len(o.virtualEdges)
}

func (o *QueryOverlay) numEdgeIDs() int {
	if o.bidirectional {
		return len(o.virtualEdges) / 2
	}
	return len(o.virtualEdges)
}

func (o *QueryOverlay) IsVirtualEdge(edgeID da.Index) bool {
	return edgeID >= o.firstVirtualEdge && int(edgeID-o.firstVirtualEdge) < o.numEdgeIDs()
}

// GetVirtualEdge returns the virtual edge with the given id traversed in the
// forward (reverse=false) or backward direction.
func (o *QueryOverlay) GetVirtualEdge(edgeID da.Index, reverse bool) (*VirtualEdge, bool) {
	if !o.IsVirtualEdge(edgeID) {
		return nil, false
	}
	pos := int(edgeID - o.firstVirtualEdge)
	if !o.bidirectional {
		if reverse {
			return nil, false
		}
		return o.virtualEdges[pos], true
	}
	if reverse {
		return o.virtualEdges[2*pos+1], true
	}
	return o.virtualEdges[2*pos], true
}

// GetClosestNodes returns the resolved node of every input snap, in input order.
func (o *QueryOverlay) GetClosestNodes() []da.Index {
	return o.closestNodes
}

func (o *QueryOverlay) GetClosestNode(snapIdx int) da.Index {
	return o.closestNodes[snapIdx]
}

func (o *QueryOverlay) GetEdgeChangesAtRealNodes() map[da.Index]*EdgeChanges {
	return o.edgeChangesAtRealNodes
}

func (o *QueryOverlay) GetEdgeChanges(node da.Index) (*EdgeChanges, bool) {
	c, ok := o.edgeChangesAtRealNodes[node]
	return c, ok
}
