package querygraph

import (
	"testing"

	"github.com/stretchr/testify/require"

	da "github.com/lintang-b-s/navigatorx-querygraph/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/util"
)

// testEdge is a hand written EdgeState with free choice of ids and keys.
type testEdge struct {
	edge     da.Index
	base     da.Index
	adj      da.Index
	key      da.Index
	revKey   da.Index
	flags    da.IntsRef
	geometry []da.Coordinate
	reverse  bool
}

func (e *testEdge) GetEdge() da.Index              { return e.edge }
func (e *testEdge) GetEdgeKey() da.Index           { return e.key }
func (e *testEdge) GetReverseEdgeKey() da.Index    { return e.revKey }
func (e *testEdge) GetBaseNode() da.Index          { return e.base }
func (e *testEdge) GetAdjNode() da.Index           { return e.adj }
func (e *testEdge) GetDistance() float64           { return da.LineDistance(e.geometry) }
func (e *testEdge) GetFlags() da.IntsRef           { return e.flags }
func (e *testEdge) IsReverse() bool                { return e.reverse }
func (e *testEdge) FetchWayGeometry(mode da.FetchMode) []da.Coordinate {
	return da.FetchGeometry(e.geometry, mode)
}

func (e *testEdge) Detach(reverse bool) da.EdgeState {
	cp := *e
	if reverse {
		cp.base, cp.adj = e.adj, e.base
		cp.key, cp.revKey = e.revKey, e.key
		cp.geometry = util.ReverseG(e.geometry)
		cp.reverse = !e.reverse
	}
	return &cp
}

func coords(latLons ...float64) []da.Coordinate {
	points := make([]da.Coordinate, 0, len(latLons)/2)
	for i := 0; i+1 < len(latLons); i += 2 {
		points = append(points, da.NewCoordinate(latLons[i], latLons[i+1]))
	}
	return points
}

func newTestSnap(edge da.EdgeState, lat, lon float64, wayIndex int, position SnappedPosition) *Snap {
	s := NewSnap(lat, lon)
	s.SetClosestEdge(edge)
	s.SetSnappedPoint(da.NewCoordinate(lat, lon))
	s.SetWayIndex(wayIndex)
	s.SetSnappedPosition(position)
	return s
}

// interpolate returns the point at fraction f between a and b.
func interpolate(a, b da.Coordinate, f float64) da.Coordinate {
	return da.NewCoordinate(a.Lat+(b.Lat-a.Lat)*f, a.Lon+(b.Lon-a.Lon)*f)
}

// buildLineGraph builds
//
//	0 --e0-- 1 --e1-- 2
//
// where e0 runs east over 5 segments of about 110 meters and e1 is a single segment.
func buildLineGraph(t *testing.T) *da.Graph {
	t.Helper()
	b := da.NewGraphBuilder()
	v0 := b.AddVertex(-7.770, 110.370, 0, 1)
	v1 := b.AddVertex(-7.770, 110.375, 0, 2)
	v2 := b.AddVertex(-7.770, 110.376, 0, 3)

	_, err := b.AddEdge(v0, v1, da.IntsRef{3, 40}, coords(
		-7.770, 110.371,
		-7.7701, 110.372,
		-7.7702, 110.373,
		-7.7701, 110.374,
	), 10)
	require.NoError(t, err)
	_, err = b.AddEdge(v1, v2, da.IntsRef{1, 30}, nil, 11)
	require.NoError(t, err)
	return b.Build()
}

// snapOnGraphEdge snaps at fraction f of segment wayIndex of the edge view.
func snapOnGraphEdge(t *testing.T, edge da.EdgeState, wayIndex int, f float64) *Snap {
	t.Helper()
	full := edge.FetchWayGeometry(da.FETCH_ALL)
	require.Less(t, wayIndex+1, len(full))
	p := interpolate(full[wayIndex], full[wayIndex+1], f)
	return newTestSnap(edge, p.Lat, p.Lon, wayIndex, EDGE)
}

type edgeSummary struct {
	id, key, originalKey, base, adj da.Index
	distance                        float64
	flags                           da.IntsRef
	geometry                        []da.Coordinate
	reverse                         bool
}

func summarize(edges []*VirtualEdge) []edgeSummary {
	out := make([]edgeSummary, len(edges))
	for i, e := range edges {
		out[i] = edgeSummary{
			id:          e.GetEdge(),
			key:         e.GetEdgeKey(),
			originalKey: e.GetOriginalEdgeKey(),
			base:        e.GetBaseNode(),
			adj:         e.GetAdjNode(),
			distance:    e.GetDistance(),
			flags:       e.GetFlags(),
			geometry:    e.FetchWayGeometry(da.FETCH_ALL),
			reverse:     e.IsReverse(),
		}
	}
	return out
}
