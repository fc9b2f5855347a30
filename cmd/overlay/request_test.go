package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/navigatorx-querygraph/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-querygraph/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/geo"
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/querygraph"
)

func buildTestGraph(t *testing.T) *da.Graph {
	t.Helper()
	b := da.NewGraphBuilder()
	v0 := b.AddVertex(-7.770, 110.370, 0, 1)
	v1 := b.AddVertex(-7.770, 110.372, 0, 2)
	_, err := b.AddEdge(v0, v1, da.IntsRef{3, 30}, []da.Coordinate{da.NewCoordinate(-7.770, 110.371)}, 10)
	require.NoError(t, err)
	return b.Build()
}

const testRequests = `{
  "requests": [
    {"snaps": [
      {"edge": 0, "adj": 1, "lat": -7.770, "lon": 110.3705, "way_index": 0, "position": "edge"},
      {"edge": 0, "adj": 0, "lat": -7.770, "lon": 110.3715, "way_index": 0},
      {"edge": 0, "adj": 1, "lat": -7.770, "lon": 110.372, "way_index": 1, "position": "tower", "closest_node": 1}
    ]},
    {"bidirectional": false, "snaps": [
      {"edge": 0, "adj": 1, "lat": -7.770, "lon": 110.371, "query_lat": -7.7701, "query_lon": 110.371, "way_index": 1, "position": "pillar"}
    ]}
  ]
}`

func TestToBuildRequests(t *testing.T) {
	g := buildTestGraph(t)
	file, err := decodeRequests(strings.NewReader(testRequests))
	require.NoError(t, err)

	requests, err := file.toBuildRequests(g, true)
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.True(t, requests[0].Bidirectional)
	assert.False(t, requests[1].Bidirectional)

	// the second snap names the edge through its reverse view
	reversed := requests[0].Snaps[1].GetClosestEdge()
	assert.Equal(t, da.Index(1), reversed.GetBaseNode())
	assert.Equal(t, da.Index(0), reversed.GetAdjNode())
	assert.Equal(t, querygraph.EDGE, requests[0].Snaps[1].GetSnappedPosition())

	tower := requests[0].Snaps[2]
	assert.Equal(t, querygraph.TOWER, tower.GetSnappedPosition())
	node, ok := tower.GetClosestNode()
	assert.True(t, ok)
	assert.Equal(t, da.Index(1), node)

	pillar := requests[1].Snaps[0]
	assert.Equal(t, querygraph.PILLAR, pillar.GetSnappedPosition())
	assert.InDelta(t, -7.7701, pillar.GetQueryPoint().Lat, 1e-12)
	assert.InDelta(t, -7.770, pillar.GetSnappedPoint().Lat, 1e-12)
}

func TestToBuildRequestsErrors(t *testing.T) {
	g := buildTestGraph(t)
	tests := []struct {
		name string
		body string
	}{
		{"unknown edge", `{"requests":[{"snaps":[{"edge":5,"adj":1,"lat":0,"lon":0}]}]}`},
		{"wrong adj node", `{"requests":[{"snaps":[{"edge":0,"adj":7,"lat":0,"lon":0}]}]}`},
		{"unknown position", `{"requests":[{"snaps":[{"edge":0,"adj":1,"lat":0,"lon":0,"position":"middle"}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := decodeRequests(strings.NewReader(tt.body))
			require.NoError(t, err)
			_, err = file.toBuildRequests(g, true)
			assert.Error(t, err)
		})
	}

	_, err := decodeRequests(strings.NewReader(`{"requests":[{"snapz":[]}]}`))
	assert.Error(t, err)
}

func TestSummarizeOverlay(t *testing.T) {
	g := buildTestGraph(t)
	file, err := decodeRequests(strings.NewReader(testRequests))
	require.NoError(t, err)
	requests, err := file.toBuildRequests(g, true)
	require.NoError(t, err)

	overlay, err := querygraph.Build(da.Index(g.NumberOfVertices()), da.Index(g.NumberOfEdges()), true, requests[0].Snaps)
	require.NoError(t, err)
	qg, err := querygraph.NewQueryGraph(g, overlay)
	require.NoError(t, err)

	summary := summarizeOverlay(qg, costfunction.NewTimeCostFunction())
	assert.Equal(t, da.Index(2), summary.FirstVirtualNode)
	assert.Equal(t, da.Index(1), summary.FirstVirtualEdge)
	require.Len(t, summary.VirtualNodes, 2)
	require.Len(t, summary.Snaps, 3)
	assert.True(t, summary.Snaps[0].Virtual)
	assert.True(t, summary.Snaps[1].Virtual)
	assert.Equal(t, snapSummary{Node: 1, Virtual: false}, summary.Snaps[2])

	// three pieces, both directions
	assert.Equal(t, 6, summary.NumVirtualEdges)
	require.Len(t, summary.VirtualEdges, 6)
	assert.Equal(t, 4, summary.NodeCount)
	assert.Equal(t, 1+3, summary.EdgeCount)

	first := summary.VirtualEdges[0]
	assert.Equal(t, da.Index(0), first.Base)
	path, err := geo.DecodePolyline(first.Polyline)
	require.NoError(t, err)
	require.Len(t, path, 2)
	assert.InDelta(t, 110.3705, path[1].Lon, 1e-5)

	for _, e := range summary.VirtualEdges {
		assert.True(t, e.Accessible)
		assert.InDelta(t, e.Distance/(30*1000.0/60), e.TravelTime, 1e-9)
	}
}
