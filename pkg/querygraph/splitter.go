package querygraph

import (
	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	da "github.com/lintang-b-s/navigatorx-querygraph/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/geo"
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/util"
)

// splitPoint is a representative placed on the full geometry of its edge.
type splitPoint struct {
	rep   int
	entry *snapEntry
	along float64 // meter from the base node along the geometry
}

// piece is one part of a split edge, from baseNode to adjNode.
type piece struct {
	baseNode da.Index
	adjNode  da.Index
	geometry []da.Coordinate
	distance float64
}

type edgeSplit struct {
	edge   da.EdgeState
	pieces []piece
}

type splitResult struct {
	nodes        []da.Coordinate
	closestEdges []da.Index
	// repNodes is the resolved node of every representative.
	repNodes []da.Index
	edges    []*edgeSplit
}

type splitter struct {
	eps          float64
	warnDistance float64
	logger       *zap.Logger
}

func newSplitter(eps, warnDistance float64, logger *zap.Logger) *splitter {
	return &splitter{eps: eps, warnDistance: warnDistance, logger: logger}
}

// split groups the representatives by edge and cuts every edge at its
// virtual nodes. Edges are visited in ascending id order and virtual node ids
// are handed out in visiting order starting at firstVirtualNode.
func (s *splitter) split(reps []*snapEntry, firstVirtualNode da.Index) (*splitResult, error) {
	groups := make(map[da.Index][]int)
	edgeIDs := make([]da.Index, 0)
	for i, rep := range reps {
		id := rep.edge.GetEdge()
		if _, ok := groups[id]; !ok {
			edgeIDs = append(edgeIDs, id)
		}
		groups[id] = append(groups[id], i)
	}
	slices.Sort(edgeIDs)

	res := &splitResult{
		nodes:        make([]da.Coordinate, 0, len(reps)),
		closestEdges: make([]da.Index, 0, len(reps)),
		repNodes:     make([]da.Index, len(reps)),
		edges:        make([]*edgeSplit, 0, len(edgeIDs)),
	}

	for _, edgeID := range edgeIDs {
		es, err := s.splitEdge(reps, groups[edgeID], firstVirtualNode, res)
		if err != nil {
			return nil, err
		}
		if es != nil {
			res.edges = append(res.edges, es)
		}
	}
	return res, nil
}

func (s *splitter) splitEdge(reps []*snapEntry, group []int, firstVirtualNode da.Index, res *splitResult) (*edgeSplit, error) {
	edge := reps[group[0]].edge
	base, adj := edge.GetBaseNode(), edge.GetAdjNode()
	for _, r := range group[1:] {
		other := reps[r].edge
		if other.GetBaseNode() != base || other.GetAdjNode() != adj {
			return nil, util.WrapErrorf(ErrInconsistentEdge, util.ErrBadParamInput,
				"edge %d: snap %d sees %d->%d, snap %d sees %d->%d", edge.GetEdge(),
				reps[group[0]].snapIdx, base, adj, reps[r].snapIdx, other.GetBaseNode(), other.GetAdjNode())
		}
	}

	full := edge.FetchWayGeometry(da.FETCH_ALL)
	n := len(full)
	if n < 2 {
		return nil, util.WrapErrorf(ErrMalformedGeometry, util.ErrCorruptedData,
			"edge %d has %d geometry points", edge.GetEdge(), n)
	}
	cum := da.CumulativeDistances(full)

	points := make([]splitPoint, 0, len(group))
	for _, r := range group {
		entry := reps[r]
		if err := validateWayIndex(entry, n); err != nil {
			return nil, err
		}
		w := entry.wayIndex
		s.checkDivergence(entry, full)
		points = append(points, splitPoint{
			rep:   r,
			entry: entry,
			along: cum[w] + da.Distance(full[w], entry.point),
		})
	}

	slices.SortStableFunc(points, func(a, b splitPoint) int {
		if a.entry.wayIndex != b.entry.wayIndex {
			return a.entry.wayIndex - b.entry.wayIndex
		}
		switch {
		case a.along < b.along:
			return -1
		case a.along > b.along:
			return 1
		}
		return 0
	})

	es := &edgeSplit{edge: edge}
	prevPoint := full[0]
	prevNode := base
	prevWayIndex := 1
	for _, p := range points {
		entry := p.entry
		if ConsiderEqual(prevPoint, entry.point, s.eps) {
			res.repNodes[p.rep] = prevNode
			continue
		}
		if ConsiderEqual(full[n-1], entry.point, s.eps) {
			res.repNodes[p.rep] = adj
			continue
		}

		node := firstVirtualNode + da.Index(len(res.nodes))
		res.nodes = append(res.nodes, entry.point)
		res.closestEdges = append(res.closestEdges, edge.GetEdge())
		res.repNodes[p.rep] = node

		w := entry.wayIndex
		geometry := make([]da.Coordinate, 0, w-prevWayIndex+3)
		geometry = append(geometry, prevPoint)
		for i := prevWayIndex; i <= w; i++ {
			geometry = append(geometry, full[i])
		}
		if entry.position != PILLAR || w < prevWayIndex {
			geometry = append(geometry, entry.point)
		}
		es.pieces = append(es.pieces, newPiece(prevNode, node, geometry))

		prevPoint = entry.point
		prevNode = node
		prevWayIndex = w + 1
	}

	if len(es.pieces) == 0 {
		return nil, nil
	}

	geometry := make([]da.Coordinate, 0, n-prevWayIndex+1)
	geometry = append(geometry, prevPoint)
	geometry = append(geometry, full[prevWayIndex:]...)
	es.pieces = append(es.pieces, newPiece(prevNode, adj, geometry))
	return es, nil
}

func newPiece(baseNode, adjNode da.Index, geometry []da.Coordinate) piece {
	return piece{
		baseNode: baseNode,
		adjNode:  adjNode,
		geometry: geometry,
		distance: da.LineDistance(geometry),
	}
}

func validateWayIndex(entry *snapEntry, n int) error {
	w := entry.wayIndex
	lo := 0
	if entry.position == PILLAR {
		lo = 1
	}
	if w < lo || w > n-2 {
		return util.WrapErrorf(ErrInvalidWayIndex, util.ErrBadParamInput,
			"snap %d on edge %d: %s way index %d outside [%d, %d]",
			entry.snapIdx, entry.edge.GetEdge(), entry.position, w, lo, n-2)
	}
	return nil
}

// checkDivergence logs snaps whose point is not on the geometry part their way
// index names. Such snaps are still ordered by way index first.
func (s *splitter) checkDivergence(entry *snapEntry, full []da.Coordinate) {
	if s.warnDistance <= 0 {
		return
	}
	w := entry.wayIndex
	var dist float64
	if entry.position == PILLAR {
		dist = da.Distance(full[w], entry.point)
	} else {
		dist = geo.PointLinePerpendicularDistance(full[w].ToGeoCoordinate(), full[w+1].ToGeoCoordinate(),
			entry.point.ToGeoCoordinate())
	}
	if dist > s.warnDistance {
		s.logger.Warn("snapped point is off its way index segment",
			zap.Int("snap", entry.snapIdx),
			zap.Uint32("edge", uint32(entry.edge.GetEdge())),
			zap.Int("wayIndex", w),
			zap.Float64("distanceMeter", dist))
	}
}
