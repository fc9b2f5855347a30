package querygraph

import (
	da "github.com/lintang-b-s/navigatorx-querygraph/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/util"
)

// synthesize turns every piece into a virtual edge, plus its paired reverse
// edge when bidirectional. Both directions share one edge id, so the keys are
// 2*id and 2*id+1.
func synthesize(splits []*edgeSplit, firstVirtualEdge da.Index, bidirectional bool) []*VirtualEdge {
	numPieces := 0
	for _, es := range splits {
		numPieces += len(es.pieces)
	}
	capacity := numPieces
	if bidirectional {
		capacity *= 2
	}
	edges := make([]*VirtualEdge, 0, capacity)

	pairCount := da.Index(0)
	for _, es := range splits {
		orig := es.edge
		for _, p := range es.pieces {
			id := firstVirtualEdge + pairCount
			pairCount++

			forward := newVirtualEdge(id, da.CreateEdgeKey(id, false), orig.GetEdge(), orig.GetEdgeKey(),
				p.baseNode, p.adjNode, p.distance, orig.GetFlags().DeepCopy(), p.geometry, orig.IsReverse())
			edges = append(edges, forward)
			if !bidirectional {
				continue
			}

			backward := newVirtualEdge(id, da.CreateEdgeKey(id, true), orig.GetEdge(), orig.GetReverseEdgeKey(),
				p.adjNode, p.baseNode, p.distance, orig.GetFlags().DeepCopy(), util.ReverseG(p.geometry), !orig.IsReverse())
			pairVirtualEdges(forward, backward)
			edges = append(edges, backward)
		}
	}
	return edges
}
