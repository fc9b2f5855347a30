package querygraph

import (
	da "github.com/lintang-b-s/navigatorx-querygraph/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/util"
)

// QueryGraph is the base graph seen through one overlay: split edges are
// hidden at their end nodes and replaced by the virtual edges. Neither the
// base graph nor the overlay is modified.
type QueryGraph struct {
	baseGraph *da.Graph
	overlay   *QueryOverlay
	// virtualEdgesAt lists, per virtual node, the overlay edges leaving it.
	virtualEdgesAt [][]int
}

func NewQueryGraph(baseGraph *da.Graph, overlay *QueryOverlay) (*QueryGraph, error) {
	if int(overlay.GetFirstVirtualNode()) < baseGraph.NumberOfVertices() {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
			"first virtual node %d overlaps the %d base graph vertices", overlay.GetFirstVirtualNode(), baseGraph.NumberOfVertices())
	}
	if int(overlay.GetFirstVirtualEdge()) < baseGraph.NumberOfEdges() {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
			"first virtual edge %d overlaps the %d base graph edges", overlay.GetFirstVirtualEdge(), baseGraph.NumberOfEdges())
	}

	virtualEdgesAt := make([][]int, overlay.GetNumVirtualNodes())
	for i, e := range overlay.GetVirtualEdges() {
		if overlay.IsVirtualNode(e.GetBaseNode()) {
			pos := e.GetBaseNode() - overlay.GetFirstVirtualNode()
			virtualEdgesAt[pos] = append(virtualEdgesAt[pos], i)
		}
	}
	return &QueryGraph{baseGraph: baseGraph, overlay: overlay, virtualEdgesAt: virtualEdgesAt}, nil
}

func (qg *QueryGraph) GetOverlay() *QueryOverlay {
	return qg.overlay
}

// NodeCount is the number of addressable nodes: base graph vertices plus virtual nodes.
func (qg *QueryGraph) NodeCount() int {
	return qg.baseGraph.NumberOfVertices() + qg.overlay.GetNumVirtualNodes()
}

// EdgeCount is the number of edge ids: base graph edges plus virtual edge ids.
func (qg *QueryGraph) EdgeCount() int {
	return qg.baseGraph.NumberOfEdges() + qg.overlay.numEdgeIDs()
}

func (qg *QueryGraph) IsVirtualNode(node da.Index) bool {
	return qg.overlay.IsVirtualNode(node)
}

func (qg *QueryGraph) IsVirtualEdge(edgeID da.Index) bool {
	return qg.overlay.IsVirtualEdge(edgeID)
}

func (qg *QueryGraph) GetNodeCoordinate(node da.Index) (da.Coordinate, error) {
	if coord, ok := qg.overlay.GetVirtualNode(node); ok {
		return coord, nil
	}
	return qg.baseGraph.GetVertexCoordinate(node)
}

// GetEdgeState returns the edge oriented so that its adj node is adjNode.
func (qg *QueryGraph) GetEdgeState(edgeID, adjNode da.Index) (da.EdgeState, bool) {
	if !qg.overlay.IsVirtualEdge(edgeID) {
		return qg.baseGraph.GetEdgeState(edgeID, adjNode)
	}
	forward, _ := qg.overlay.GetVirtualEdge(edgeID, false)
	if forward.GetAdjNode() == adjNode {
		return forward, true
	}
	if forward.GetBaseNode() == adjNode {
		return forward.Detach(true), true
	}
	return nil, false
}

// ForEdgesOf calls handle for every edge leaving node, including virtual
// edges and excluding base graph edges that the overlay split.
func (qg *QueryGraph) ForEdgesOf(node da.Index, handle func(e da.EdgeState)) {
	if qg.overlay.IsVirtualNode(node) {
		edges := qg.overlay.GetVirtualEdges()
		for _, i := range qg.virtualEdgesAt[node-qg.overlay.GetFirstVirtualNode()] {
			handle(edges[i])
		}
		return
	}

	changes, ok := qg.overlay.GetEdgeChanges(node)
	if !ok {
		qg.baseGraph.ForEdgesOf(node, handle)
		return
	}
	qg.baseGraph.ForEdgesOf(node, func(e da.EdgeState) {
		if !changes.IsRemoved(e.GetEdge()) {
			handle(e)
		}
	})
	edges := qg.overlay.GetVirtualEdges()
	for _, i := range changes.GetAdditionalEdges() {
		handle(edges[i])
	}
}
