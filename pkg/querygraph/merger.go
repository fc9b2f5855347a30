package querygraph

import (
	"github.com/tidwall/rtree"

	da "github.com/lintang-b-s/navigatorx-querygraph/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/util"
)

// snapEntry is a non tower snap seen through the normalised edge direction.
type snapEntry struct {
	snapIdx  int
	edge     da.EdgeState
	point    da.Coordinate
	wayIndex int
	position SnappedPosition
}

// mergeResult is what the merger hands to the splitter. Representatives are
// kept in first appearance order; that order is provisional and only fixes
// identity, the splitter decides the final node ids.
type mergeResult struct {
	representatives []*snapEntry
	// memberOf maps a snap index to its representative, -1 for tower snaps.
	memberOf []int
	// towerNodes holds the resolved real node of every tower snap.
	towerNodes map[int]da.Index
}

type merger struct {
	eps float64
}

func newMerger(eps float64) *merger {
	return &merger{eps: eps}
}

func (m *merger) merge(snaps []*Snap) (*mergeResult, error) {
	res := &mergeResult{
		representatives: make([]*snapEntry, 0, len(snaps)),
		memberOf:        make([]int, len(snaps)),
		towerNodes:      make(map[int]da.Index),
	}

	var index rtree.RTreeG[int]
	for i, snap := range snaps {
		if snap == nil || snap.GetClosestEdge() == nil {
			return nil, util.WrapErrorf(ErrInvalidSnap, util.ErrBadParamInput, "snap %d has no closest edge", i)
		}

		if snap.GetSnappedPosition() == TOWER {
			res.memberOf[i] = -1
			res.towerNodes[i] = towerNode(snap)
			continue
		}

		entry, err := normalize(i, snap)
		if err != nil {
			return nil, err
		}

		rep := m.findRepresentative(&index, res.representatives, entry)
		if rep >= 0 {
			res.memberOf[i] = rep
			continue
		}

		rep = len(res.representatives)
		res.representatives = append(res.representatives, entry)
		res.memberOf[i] = rep
		p := [2]float64{entry.point.Lon, entry.point.Lat}
		index.Insert(p, p, rep)
	}
	return res, nil
}

// findRepresentative returns the earliest representative on the same edge
// whose point equals entry.point within tolerance, or -1.
func (m *merger) findRepresentative(index *rtree.RTreeG[int], reps []*snapEntry, entry *snapEntry) int {
	found := -1
	lo := [2]float64{entry.point.Lon - m.eps, entry.point.Lat - m.eps}
	hi := [2]float64{entry.point.Lon + m.eps, entry.point.Lat + m.eps}
	index.Search(lo, hi, func(_, _ [2]float64, rep int) bool {
		cand := reps[rep]
		if cand.edge.GetEdge() != entry.edge.GetEdge() || !ConsiderEqual(cand.point, entry.point, m.eps) {
			return true
		}
		if found == -1 || rep < found {
			found = rep
		}
		return true
	})
	return found
}

func towerNode(snap *Snap) da.Index {
	if node, ok := snap.GetClosestNode(); ok {
		return node
	}
	edge := snap.GetClosestEdge()
	if snap.GetWayIndex() == 0 {
		return edge.GetBaseNode()
	}
	return edge.GetAdjNode()
}

// normalize views the closest edge in the direction with base <= adj. Loops
// are oriented so that the first pillar is not north of the last one. The
// way index is mirrored when the view is flipped.
func normalize(snapIdx int, snap *Snap) (*snapEntry, error) {
	edge := snap.GetClosestEdge()
	base, adj := edge.GetBaseNode(), edge.GetAdjNode()

	doReverse := base > adj
	if base == adj {
		pillars := edge.FetchWayGeometry(da.FETCH_PILLAR_ONLY)
		if len(pillars) > 1 {
			doReverse = pillars[0].Lat > pillars[len(pillars)-1].Lat
		}
	}

	entry := &snapEntry{
		snapIdx:  snapIdx,
		edge:     edge,
		point:    snap.GetSnappedPoint(),
		wayIndex: snap.GetWayIndex(),
		position: snap.GetSnappedPosition(),
	}
	if !doReverse {
		return entry, nil
	}

	n := len(edge.FetchWayGeometry(da.FETCH_ALL))
	if n < 2 {
		return nil, util.WrapErrorf(ErrMalformedGeometry, util.ErrCorruptedData,
			"edge %d has %d geometry points", edge.GetEdge(), n)
	}
	entry.edge = edge.Detach(true)
	if entry.position == PILLAR {
		entry.wayIndex = n - entry.wayIndex - 1
	} else {
		entry.wayIndex = n - entry.wayIndex - 2
	}
	if entry.wayIndex < 0 {
		return nil, util.WrapErrorf(ErrInvalidWayIndex, util.ErrCorruptedData,
			"snap %d on edge %d: way index %d does not fit a geometry of %d points",
			snapIdx, edge.GetEdge(), snap.GetWayIndex(), n)
	}
	return entry, nil
}
