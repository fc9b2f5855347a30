package datastructure

import (
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/util"
)

type Index uint32

type Vertex struct {
	lat, lon, ele float64
	id            Index
	osmId         int64
	firstOut      Index
}

func NewVertex(lat, lon, ele float64, id Index, osmId int64) *Vertex {
	return &Vertex{lat: lat, lon: lon, ele: ele, id: id, osmId: osmId}
}

func (v *Vertex) GetID() Index {
	return v.id
}

func (v *Vertex) GetLat() float64 {
	return v.lat
}

func (v *Vertex) GetLon() float64 {
	return v.lon
}

func (v *Vertex) GetEle() float64 {
	return v.ele
}

func (v *Vertex) GetOsmId() int64 {
	return v.osmId
}

func (v *Vertex) GetFirstOut() Index {
	return v.firstOut
}

func (v *Vertex) SetFirstOut(firstOut Index) {
	v.firstOut = firstOut
}

func (v *Vertex) GetCoordinate() Coordinate {
	return NewCoordinate3D(v.lat, v.lon, v.ele)
}

// Edge is stored once and can be traversed in both directions, subject to
// the access bits in flags.
type Edge struct {
	edgeId Index
	base   Index
	adj    Index
	dist   float64 // meter
	flags  IntsRef
}

func NewEdge(edgeId, base, adj Index, dist float64, flags IntsRef) *Edge {
	return &Edge{edgeId: edgeId, base: base, adj: adj, dist: dist, flags: flags}
}

func (e *Edge) GetEdgeId() Index {
	return e.edgeId
}

func (e *Edge) GetBase() Index {
	return e.base
}

func (e *Edge) GetAdj() Index {
	return e.adj
}

func (e *Edge) GetLength() float64 {
	return e.dist
}

func (e *Edge) GetFlags() IntsRef {
	return e.flags
}

// Graph is the immutable base road graph. Edges incident to vertex u are
// adjacency[vertices[u].firstOut : vertices[u+1].firstOut]; the last vertex
// is a dummy that only closes the range.
type Graph struct {
	vertices     []*Vertex
	edges        []*Edge
	adjacency    []Index
	graphStorage *GraphStorage
}

func NewGraph(vertices []*Vertex, edges []*Edge, adjacency []Index, graphStorage *GraphStorage) *Graph {
	return &Graph{vertices: vertices, edges: edges, adjacency: adjacency, graphStorage: graphStorage}
}

func (g *Graph) NumberOfVertices() int {
	if len(g.vertices) == 0 {
		return 0
	}
	return len(g.vertices) - 1
}

func (g *Graph) NumberOfEdges() int {
	return len(g.edges)
}

func (g *Graph) GetVertex(u Index) *Vertex {
	return g.vertices[u]
}

func (g *Graph) GetVertexCoordinate(u Index) (Coordinate, error) {
	if int(u) >= g.NumberOfVertices() {
		return Coordinate{}, util.WrapErrorf(nil, util.ErrNotFound, "vertex %d not found", u)
	}
	return g.vertices[u].GetCoordinate(), nil
}

func (g *Graph) GetEdge(e Index) *Edge {
	return g.edges[e]
}

func (g *Graph) GetGraphStorage() *GraphStorage {
	return g.graphStorage
}

func (g *Graph) GetDegree(u Index) Index {
	return g.vertices[u+1].firstOut - g.vertices[u].firstOut
}

// Edge returns the state of edge e in its stored direction.
func (g *Graph) Edge(e Index) (EdgeState, error) {
	if int(e) >= len(g.edges) {
		return nil, util.WrapErrorf(nil, util.ErrNotFound, "edge %d not found", e)
	}
	return &edgeView{g: g, e: g.edges[e]}, nil
}

// GetEdgeState returns edge e oriented so that its adj node is adjNode.
func (g *Graph) GetEdgeState(e Index, adjNode Index) (EdgeState, bool) {
	if int(e) >= len(g.edges) {
		return nil, false
	}
	edge := g.edges[e]
	switch adjNode {
	case edge.adj:
		return &edgeView{g: g, e: edge}, true
	case edge.base:
		return &edgeView{g: g, e: edge, reverse: true}, true
	}
	return nil, false
}

// ForEdgesOf calls handle for every edge incident to u, oriented with u as
// the base node. A self loop is reported once.
func (g *Graph) ForEdgesOf(u Index, handle func(e EdgeState)) {
	if int(u) >= g.NumberOfVertices() {
		return
	}
	for i := g.vertices[u].firstOut; i < g.vertices[u+1].firstOut; i++ {
		edge := g.edges[g.adjacency[i]]
		handle(&edgeView{g: g, e: edge, reverse: edge.base != u})
	}
}

func (g *Graph) GetEdgeGeometry(e Index) []Coordinate {
	return g.graphStorage.GetEdgeGeometry(e)
}

// edgeView is an EdgeState over a stored edge.
type edgeView struct {
	g       *Graph
	e       *Edge
	reverse bool
}

func (v *edgeView) GetEdge() Index {
	return v.e.edgeId
}

func (v *edgeView) GetEdgeKey() Index {
	return CreateEdgeKey(v.e.edgeId, v.reverse)
}

func (v *edgeView) GetReverseEdgeKey() Index {
	return CreateEdgeKey(v.e.edgeId, !v.reverse)
}

func (v *edgeView) GetBaseNode() Index {
	if v.reverse {
		return v.e.adj
	}
	return v.e.base
}

func (v *edgeView) GetAdjNode() Index {
	if v.reverse {
		return v.e.base
	}
	return v.e.adj
}

func (v *edgeView) GetDistance() float64 {
	return v.e.dist
}

func (v *edgeView) GetFlags() IntsRef {
	return v.e.flags
}

func (v *edgeView) IsReverse() bool {
	return v.reverse
}

func (v *edgeView) FetchWayGeometry(mode FetchMode) []Coordinate {
	full := v.g.graphStorage.GetEdgeGeometry(v.e.edgeId)
	if v.reverse {
		full = util.ReverseG(full)
	}
	return FetchGeometry(full, mode)
}

func (v *edgeView) Detach(reverse bool) EdgeState {
	return &edgeView{g: v.g, e: v.e, reverse: v.reverse != reverse}
}
