package querygraph

import (
	"golang.org/x/exp/slices"

	da "github.com/lintang-b-s/navigatorx-querygraph/pkg/datastructure"
)

// EdgeChanges describes how the adjacency of a real node looks once the
// overlay is applied.
type EdgeChanges struct {
	// additionalEdges are indices into the overlay edge list of the virtual
	// edges leaving the node.
	additionalEdges []int
	// removedEdges are the ids of base graph edges that were split, ascending.
	removedEdges []da.Index
}

func (c *EdgeChanges) GetAdditionalEdges() []int {
	return c.additionalEdges
}

func (c *EdgeChanges) GetRemovedEdges() []da.Index {
	return c.removedEdges
}

// IsRemoved reports whether base graph edge id must be hidden at the node.
func (c *EdgeChanges) IsRemoved(edgeID da.Index) bool {
	_, found := slices.BinarySearch(c.removedEdges, edgeID)
	return found
}

// buildEdgeChanges collects, for every real node touching a virtual edge, the
// virtual edges to add and the split edges to hide.
func buildEdgeChanges(edges []*VirtualEdge, isVirtualNode func(da.Index) bool) map[da.Index]*EdgeChanges {
	changes := make(map[da.Index]*EdgeChanges)
	get := func(node da.Index) *EdgeChanges {
		c, ok := changes[node]
		if !ok {
			c = &EdgeChanges{}
			changes[node] = c
		}
		return c
	}

	for i, e := range edges {
		if !isVirtualNode(e.GetBaseNode()) {
			c := get(e.GetBaseNode())
			c.additionalEdges = append(c.additionalEdges, i)
			c.removedEdges = append(c.removedEdges, e.GetOriginalEdge())
		}
		if !isVirtualNode(e.GetAdjNode()) {
			c := get(e.GetAdjNode())
			c.removedEdges = append(c.removedEdges, e.GetOriginalEdge())
		}
	}

	for _, c := range changes {
		slices.Sort(c.removedEdges)
		c.removedEdges = slices.Compact(c.removedEdges)
	}
	return changes
}
