package querygraph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	da "github.com/lintang-b-s/navigatorx-querygraph/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/util"
)

func TestBuildMergesNearIdenticalSnaps(t *testing.T) {
	edge := &testEdge{edge: 5, base: 0, adj: 1, key: 77, revKey: 78, flags: da.IntsRef{1},
		geometry: coords(47, 10, 49, 12)}
	s1 := newTestSnap(edge, 48.123456700, 11.987654300, 0, EDGE)
	s2 := newTestSnap(edge, 48.123456705, 11.987654301, 1, EDGE)

	overlay, err := Build(1000, 2000, true, []*Snap{s1, s2})
	require.NoError(t, err)

	assert.Equal(t, []da.Index{1000, 1000}, overlay.GetClosestNodes())
	assert.Equal(t, 1, overlay.GetNumVirtualNodes())
	assert.Equal(t, 4, overlay.GetNumVirtualEdges())
	assert.Equal(t, []da.Index{5}, overlay.GetClosestEdges())

	node := overlay.GetVirtualNodes()[0]
	assert.InDelta(t, 48.1234567, node.Lat, 1e-9)
	assert.InDelta(t, 11.9876543, node.Lon, 1e-9)

	edges := overlay.GetVirtualEdges()
	assert.Equal(t, da.Index(77), edges[0].GetOriginalEdgeKey())
	assert.Equal(t, da.Index(78), edges[1].GetOriginalEdgeKey())
	for _, e := range edges {
		assert.Equal(t, da.IntsRef{1}, e.GetFlags())
		assert.Equal(t, da.Index(5), e.GetOriginalEdge())
	}

	// the snaps themselves are left untouched
	assert.Equal(t, 1, s2.GetWayIndex())
	_, ok := s1.GetClosestNode()
	assert.False(t, ok)
}

func TestBuildOrdersVirtualNodesAlongEdge(t *testing.T) {
	edge := &testEdge{edge: 0, base: 0, adj: 1, key: 0, revKey: 1, flags: da.IntsRef{1},
		geometry: coords(47, 10, 49, 12, 51, 14)}
	s0 := newTestSnap(edge, 48.5, 11.5, 0, EDGE)
	s1 := newTestSnap(edge, 49, 12, 0, EDGE)
	s2 := newTestSnap(edge, 50, 13, 0, EDGE)

	overlay, err := Build(10, 10, true, []*Snap{s1, s2, s0})
	require.NoError(t, err)

	want := []*Snap{s0, s1, s2}
	nodes := overlay.GetVirtualNodes()
	require.Len(t, nodes, len(want))
	for i, s := range want {
		assert.InDelta(t, s.GetSnappedPoint().Lat, nodes[i].Lat, 1e-6)
		assert.InDelta(t, s.GetSnappedPoint().Lon, nodes[i].Lon, 1e-6)
	}
	assert.Equal(t, []da.Index{11, 12, 10}, overlay.GetClosestNodes())
	assert.Equal(t, 8, overlay.GetNumVirtualEdges())
}

func TestBuildEdgeCount(t *testing.T) {
	fractions := []float64{0.2, 0.5, 0.8}

	for k := 0; k <= len(fractions); k++ {
		for _, bidirectional := range []bool{true, false} {
			g := buildLineGraph(t)
			edge, err := g.Edge(0)
			require.NoError(t, err)

			snaps := make([]*Snap, 0, k)
			for i := 0; i < k; i++ {
				snaps = append(snaps, snapOnGraphEdge(t, edge, 1, fractions[i]))
			}

			overlay, err := Build(100, 100, bidirectional, snaps)
			require.NoError(t, err)

			want := 0
			if k > 0 {
				want = k + 1
				if bidirectional {
					want *= 2
				}
			}
			assert.Equal(t, k, overlay.GetNumVirtualNodes())
			assert.Equal(t, want, overlay.GetNumVirtualEdges(), "k=%d bidirectional=%t", k, bidirectional)
			assert.Equal(t, bidirectional, overlay.IsBidirectional())
			for _, e := range overlay.GetVirtualEdges() {
				assert.Equal(t, da.Index(0), e.GetOriginalEdge())
			}
		}
	}
}

func TestBuildKeyPairing(t *testing.T) {
	g := buildLineGraph(t)
	e0, err := g.Edge(0)
	require.NoError(t, err)
	e1, err := g.Edge(1)
	require.NoError(t, err)

	snaps := []*Snap{
		snapOnGraphEdge(t, e0, 0, 0.5),
		snapOnGraphEdge(t, e1, 0, 0.3),
		snapOnGraphEdge(t, e0, 3, 0.5),
		snapOnGraphEdge(t, e1, 0, 0.6),
	}

	const firstEdge = da.Index(50)
	overlay, err := Build(3, firstEdge, true, snaps)
	require.NoError(t, err)

	edges := overlay.GetVirtualEdges()
	// e0 has 2 virtual nodes and e1 has 2: 3 pieces each
	require.Len(t, edges, 12)

	seenKeys := make(map[da.Index]bool)
	for i := 0; i < len(edges); i += 2 {
		forward, backward := edges[i], edges[i+1]
		id := firstEdge + da.Index(i/2)

		assert.Equal(t, id, forward.GetEdge())
		assert.Equal(t, id, backward.GetEdge())
		assert.Equal(t, da.CreateEdgeKey(id, false), forward.GetEdgeKey())
		assert.Equal(t, forward.GetEdgeKey()+1, backward.GetEdgeKey())
		assert.Equal(t, backward.GetEdgeKey(), forward.GetReverseEdgeKey())
		assert.Same(t, backward, forward.GetReverseEdge())
		assert.Same(t, forward, backward.GetReverseEdge())
		assert.Equal(t, forward.GetBaseNode(), backward.GetAdjNode())
		assert.Equal(t, forward.GetAdjNode(), backward.GetBaseNode())
		assert.Equal(t, !forward.IsReverse(), backward.IsReverse())
		assert.Equal(t, util.ReverseG(forward.FetchWayGeometry(da.FETCH_ALL)), backward.FetchWayGeometry(da.FETCH_ALL))

		for _, e := range []*VirtualEdge{forward, backward} {
			assert.GreaterOrEqual(t, e.GetEdgeKey(), da.CreateEdgeKey(firstEdge, false))
			assert.False(t, seenKeys[e.GetEdgeKey()], "duplicate key %d", e.GetEdgeKey())
			seenKeys[e.GetEdgeKey()] = true
		}
	}

	// the first three pieces belong to edge 0, the last three to edge 1
	for i, e := range edges {
		wantOriginal := da.Index(0)
		if i >= 6 {
			wantOriginal = 1
		}
		assert.Equal(t, wantOriginal, e.GetOriginalEdge())
	}
}

func TestBuildDistanceAdditivity(t *testing.T) {
	g := buildLineGraph(t)
	edge, err := g.Edge(0)
	require.NoError(t, err)

	snaps := []*Snap{
		snapOnGraphEdge(t, edge, 4, 0.9),
		snapOnGraphEdge(t, edge, 0, 0.25),
		snapOnGraphEdge(t, edge, 2, 0.5),
		snapOnGraphEdge(t, edge, 2, 0.75),
	}

	for _, bidirectional := range []bool{true, false} {
		overlay, err := Build(3, 2, bidirectional, snaps)
		require.NoError(t, err)

		var forwardSum, backwardSum float64
		for _, e := range overlay.GetVirtualEdges() {
			assert.InDelta(t, da.LineDistance(e.FetchWayGeometry(da.FETCH_ALL)), e.GetDistance(), 1e-9)
			if e.IsReverse() {
				backwardSum += e.GetDistance()
			} else {
				forwardSum += e.GetDistance()
			}
		}

		total := g.GetEdge(0).GetLength()
		assert.InEpsilon(t, total, forwardSum, 1e-6)
		if bidirectional {
			assert.InEpsilon(t, total, backwardSum, 1e-6)
		} else {
			assert.Zero(t, backwardSum)
		}
	}
}

func TestBuildSplitsGeometry(t *testing.T) {
	edge := &testEdge{edge: 3, base: 1, adj: 2, key: 6, revKey: 7, flags: da.IntsRef{3},
		geometry: coords(0, 0, 0, 0.001, 0, 0.002, 0, 0.003)}

	snaps := []*Snap{
		newTestSnap(edge, 0, 0.0025, 2, EDGE),
		newTestSnap(edge, 0, 0.001, 1, PILLAR),
	}
	overlay, err := Build(10, 20, false, snaps)
	require.NoError(t, err)

	edges := overlay.GetVirtualEdges()
	require.Len(t, edges, 3)

	assert.Equal(t, coords(0, 0, 0, 0.001), edges[0].FetchWayGeometry(da.FETCH_ALL))
	assert.Equal(t, coords(0, 0.001, 0, 0.002, 0, 0.0025), edges[1].FetchWayGeometry(da.FETCH_ALL))
	assert.Equal(t, coords(0, 0.0025, 0, 0.003), edges[2].FetchWayGeometry(da.FETCH_ALL))

	assert.Equal(t, []da.Index{1, 10}, []da.Index{edges[0].GetBaseNode(), edges[0].GetAdjNode()})
	assert.Equal(t, []da.Index{10, 11}, []da.Index{edges[1].GetBaseNode(), edges[1].GetAdjNode()})
	assert.Equal(t, []da.Index{11, 2}, []da.Index{edges[2].GetBaseNode(), edges[2].GetAdjNode()})
	assert.Equal(t, []da.Index{11, 10}, overlay.GetClosestNodes())
}

func TestBuildKeepsInputOrderOnTies(t *testing.T) {
	edge := &testEdge{edge: 0, base: 0, adj: 1, key: 0, revKey: 1, geometry: coords(0, 0, 0, 0.001)}
	south := da.NewCoordinate(-0.00001, 0.0005)
	north := da.NewCoordinate(0.00001, 0.0005)

	testCases := []struct {
		name  string
		order []da.Coordinate
	}{
		{"south first", []da.Coordinate{south, north}},
		{"north first", []da.Coordinate{north, south}},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			snaps := make([]*Snap, 0, len(tt.order))
			for _, c := range tt.order {
				snaps = append(snaps, newTestSnap(edge, c.Lat, c.Lon, 0, EDGE))
			}

			overlay, err := Build(10, 10, true, snaps)
			require.NoError(t, err)
			assert.Equal(t, tt.order, overlay.GetVirtualNodes())
			assert.Equal(t, []da.Index{10, 11}, overlay.GetClosestNodes())
		})
	}
}

func TestBuildDoesNotMergeDifferentElevations(t *testing.T) {
	edge := &testEdge{edge: 5, base: 0, adj: 1, key: 77, revKey: 78, geometry: coords(47, 10, 49, 12)}
	low := newTestSnap(edge, 48, 11, 0, EDGE)
	low.SetSnappedPoint(da.NewCoordinate3D(48, 11, 0))
	high := newTestSnap(edge, 48, 11, 0, EDGE)
	high.SetSnappedPoint(da.NewCoordinate3D(48, 11, 30))

	overlay, err := Build(1000, 2000, true, []*Snap{low, high})
	require.NoError(t, err)
	assert.Equal(t, []da.Index{1000, 1001}, overlay.GetClosestNodes())
	assert.Equal(t, 2, overlay.GetNumVirtualNodes())
}

func TestBuildIsDeterministic(t *testing.T) {
	g := buildLineGraph(t)
	e0, err := g.Edge(0)
	require.NoError(t, err)
	// edge 1 seen from node 2
	e1, ok := g.GetEdgeState(1, 1)
	require.True(t, ok)

	snaps := []*Snap{
		snapOnGraphEdge(t, e1, 0, 0.5),
		snapOnGraphEdge(t, e0, 2, 0.5),
		snapOnGraphEdge(t, e0, 1, 0.1),
		snapOnGraphEdge(t, e0, 2, 0.5),
	}

	first, err := Build(3, 2, true, snaps)
	require.NoError(t, err)
	second, err := Build(3, 2, true, snaps)
	require.NoError(t, err)

	assert.Equal(t, first.GetVirtualNodes(), second.GetVirtualNodes())
	assert.Equal(t, first.GetClosestNodes(), second.GetClosestNodes())
	assert.Equal(t, first.GetClosestEdges(), second.GetClosestEdges())
	assert.Equal(t, summarize(first.GetVirtualEdges()), summarize(second.GetVirtualEdges()))
	assert.Equal(t, []da.Index{0, 0, 1}, first.GetClosestEdges())
	assert.Equal(t, first.GetClosestNode(1), first.GetClosestNode(3))
}

func TestBuildNormalizesOrientation(t *testing.T) {
	forward := &testEdge{edge: 7, base: 2, adj: 4, key: 14, revKey: 15, flags: da.IntsRef{5},
		geometry: coords(0, 0, 0, 0.001, 0, 0.002)}
	backward := forward.Detach(true)

	viaForward := []*Snap{
		newTestSnap(forward, 0, 0.0015, 1, EDGE),
		newTestSnap(forward, 0, 0.0005, 0, EDGE),
	}
	// same places, seen from adj node 4: way indices are mirrored
	viaBackward := []*Snap{
		newTestSnap(backward, 0, 0.0015, 0, EDGE),
		newTestSnap(backward, 0, 0.0005, 1, EDGE),
	}
	mixed := []*Snap{viaForward[0], viaBackward[1]}

	want, err := Build(10, 10, true, viaForward)
	require.NoError(t, err)
	assert.Equal(t, coords(0, 0.0005, 0, 0.0015), want.GetVirtualNodes())

	edges := want.GetVirtualEdges()
	assert.Equal(t, da.Index(2), edges[0].GetBaseNode())
	assert.Equal(t, da.Index(14), edges[0].GetOriginalEdgeKey())
	assert.False(t, edges[0].IsReverse())

	for name, snaps := range map[string][]*Snap{"backward": viaBackward, "mixed": mixed} {
		t.Run(name, func(t *testing.T) {
			got, err := Build(10, 10, true, snaps)
			require.NoError(t, err)
			assert.Equal(t, want.GetVirtualNodes(), got.GetVirtualNodes())
			assert.Equal(t, want.GetClosestNodes(), got.GetClosestNodes())
			assert.Equal(t, summarize(want.GetVirtualEdges()), summarize(got.GetVirtualEdges()))
		})
	}
}

func TestBuildLoopOrientation(t *testing.T) {
	// loop at node 3 whose stored direction starts with the northern pillar
	loop := &testEdge{edge: 9, base: 3, adj: 3, key: 18, revKey: 19, flags: da.IntsRef{1},
		geometry: coords(0, 0, 0.002, 0.001, 0.001, 0.002, 0, 0)}

	overlay, err := Build(10, 10, true, []*Snap{newTestSnap(loop, 0.0015, 0.0015, 1, EDGE)})
	require.NoError(t, err)

	// normalised view runs through the southern pillar first, the snap is on its segment 1
	first := overlay.GetVirtualEdges()[0]
	assert.Equal(t, coords(0, 0, 0.001, 0.002, 0.0015, 0.0015), first.FetchWayGeometry(da.FETCH_ALL))
	assert.Equal(t, da.Index(19), first.GetOriginalEdgeKey())
	assert.True(t, first.IsReverse())
}

func TestBuildTowerSnaps(t *testing.T) {
	edge := &testEdge{edge: 2, base: 3, adj: 9, key: 4, revKey: 5,
		geometry: coords(1, 1, 1, 1.001)}

	atBase := newTestSnap(edge, 1, 1, 0, TOWER)
	atAdj := newTestSnap(edge, 1, 1.001, 1, TOWER)
	explicit := newTestSnap(edge, 1, 1.001, 0, TOWER)
	explicit.SetClosestNode(9)

	overlay, err := Build(100, 100, true, []*Snap{atBase, atAdj, explicit})
	require.NoError(t, err)

	assert.Equal(t, []da.Index{3, 9, 9}, overlay.GetClosestNodes())
	assert.Zero(t, overlay.GetNumVirtualNodes())
	assert.Zero(t, overlay.GetNumVirtualEdges())
	assert.Empty(t, overlay.GetEdgeChangesAtRealNodes())
}

func TestBuildResolvesEndPointsToRealNodes(t *testing.T) {
	edge := &testEdge{edge: 2, base: 3, adj: 9, key: 4, revKey: 5,
		geometry: coords(1, 1, 1, 1.001, 1, 1.002)}

	snaps := []*Snap{
		newTestSnap(edge, 1, 1.0000000001, 0, EDGE),
		newTestSnap(edge, 1, 1.002, 1, EDGE),
		newTestSnap(edge, 1, 1.0015, 1, EDGE),
	}
	overlay, err := Build(100, 100, true, snaps)
	require.NoError(t, err)

	assert.Equal(t, []da.Index{3, 9, 100}, overlay.GetClosestNodes())
	assert.Equal(t, 1, overlay.GetNumVirtualNodes())
	assert.Equal(t, 4, overlay.GetNumVirtualEdges())
}

func TestBuildErrors(t *testing.T) {
	good := &testEdge{edge: 1, base: 0, adj: 1, key: 2, revKey: 3, geometry: coords(0, 0, 0, 0.001)}
	sameIDOtherNodes := &testEdge{edge: 1, base: 0, adj: 2, key: 2, revKey: 3, geometry: coords(0, 0, 0, 0.001)}
	short := &testEdge{edge: 4, base: 0, adj: 1, key: 8, revKey: 9, geometry: coords(0, 0)}
	flipped := &testEdge{edge: 6, base: 5, adj: 1, key: 12, revKey: 13, geometry: coords(0, 0, 0, 0.001)}
	shortFlipped := &testEdge{edge: 7, base: 5, adj: 1, key: 14, revKey: 15, geometry: coords(0, 0)}

	tests := []struct {
		name  string
		snaps []*Snap
		want  error
	}{
		{"nil snap", []*Snap{nil}, ErrInvalidSnap},
		{"no closest edge", []*Snap{NewSnap(0, 0)}, ErrInvalidSnap},
		{"geometry with one point", []*Snap{newTestSnap(short, 0, 0, 0, EDGE)}, ErrMalformedGeometry},
		{"edge way index past the last segment", []*Snap{newTestSnap(good, 0, 0.0005, 1, EDGE)}, ErrInvalidWayIndex},
		{"negative way index", []*Snap{newTestSnap(good, 0, 0.0005, -1, EDGE)}, ErrInvalidWayIndex},
		{"pillar way index on a tower", []*Snap{newTestSnap(good, 0, 0, 0, PILLAR)}, ErrInvalidWayIndex},
		{"mirrored way index below zero", []*Snap{newTestSnap(flipped, 0, 0.0005, 1, EDGE)}, ErrInvalidWayIndex},
		{"flipped geometry with one point", []*Snap{newTestSnap(shortFlipped, 0, 0, 0, EDGE)}, ErrMalformedGeometry},
		{
			"same edge id with different end nodes",
			[]*Snap{newTestSnap(good, 0, 0.0002, 0, EDGE), newTestSnap(sameIDOtherNodes, 0, 0.0007, 0, EDGE)},
			ErrInconsistentEdge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			overlay, err := Build(10, 10, true, tt.snaps)
			require.Error(t, err)
			assert.Nil(t, overlay)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestBuildLogsOffSegmentSnaps(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	builder := NewBuilder(zap.New(core), nil, DefaultEqualityTolerance, DefaultWayIndexWarnDistance)

	edge := &testEdge{edge: 0, base: 0, adj: 1, key: 0, revKey: 1,
		geometry: coords(0, 0, 0, 0.001, 0, 0.002)}
	snaps := []*Snap{
		newTestSnap(edge, 0, 0.0005, 0, EDGE),
		// lies on segment 1 but claims segment 0
		newTestSnap(edge, 0, 0.0015, 0, EDGE),
	}

	overlay, err := builder.Build(10, 10, true, snaps)
	require.NoError(t, err)
	assert.Equal(t, 2, overlay.GetNumVirtualNodes())

	warnings := logs.FilterMessage("snapped point is off its way index segment")
	require.Equal(t, 1, warnings.Len())
	assert.Equal(t, int64(1), warnings.All()[0].ContextMap()["snap"])
}
