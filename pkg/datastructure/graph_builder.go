package datastructure

import (
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/util"
)

type GraphBuilder struct {
	vertices []*Vertex
	edges    []*Edge
	storage  *GraphStorage
}

func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{
		vertices: make([]*Vertex, 0),
		edges:    make([]*Edge, 0),
		storage:  NewGraphStorage(),
	}
}

func (b *GraphBuilder) AddVertex(lat, lon, ele float64, osmId int64) Index {
	id := Index(len(b.vertices))
	b.vertices = append(b.vertices, NewVertex(lat, lon, ele, id, osmId))
	return id
}

// AddEdge adds an edge from base to adj. pillars are the inner points of the
// geometry, the base and adj coordinates are added around them. The edge
// distance is the length of the resulting polyline.
func (b *GraphBuilder) AddEdge(base, adj Index, flags IntsRef, pillars []Coordinate, osmWayId int64) (Index, error) {
	if int(base) >= len(b.vertices) || int(adj) >= len(b.vertices) {
		return 0, util.WrapErrorf(nil, util.ErrBadParamInput, "edge %d->%d references unknown vertex", base, adj)
	}

	points := make([]Coordinate, 0, len(pillars)+2)
	points = append(points, b.vertices[base].GetCoordinate())
	points = append(points, pillars...)
	points = append(points, b.vertices[adj].GetCoordinate())

	id := Index(len(b.edges))
	b.storage.AppendEdgeGeometry(points, osmWayId)
	b.edges = append(b.edges, NewEdge(id, base, adj, LineDistance(points), flags.DeepCopy()))
	return id, nil
}

func (b *GraphBuilder) NumberOfVertices() int {
	return len(b.vertices)
}

func (b *GraphBuilder) NumberOfEdges() int {
	return len(b.edges)
}

// Build freezes the graph. Adjacency lists are sorted by edge id.
func (b *GraphBuilder) Build() *Graph {
	return buildGraph(b.vertices, b.edges, b.storage)
}

func buildGraph(vertices []*Vertex, edges []*Edge, storage *GraphStorage) *Graph {
	n := len(vertices)
	degree := make([]Index, n+1)
	for _, e := range edges {
		degree[e.base]++
		if e.adj != e.base {
			degree[e.adj]++
		}
	}

	withDummy := make([]*Vertex, n+1)
	copy(withDummy, vertices)
	withDummy[n] = NewVertex(0, 0, 0, Index(n), -1)

	offset := Index(0)
	for u := 0; u <= n; u++ {
		withDummy[u].SetFirstOut(offset)
		offset += degree[u]
	}

	adjacency := make([]Index, offset)
	next := make([]Index, n)
	for u := 0; u < n; u++ {
		next[u] = withDummy[u].firstOut
	}
	for _, e := range edges {
		adjacency[next[e.base]] = e.edgeId
		next[e.base]++
		if e.adj != e.base {
			adjacency[next[e.adj]] = e.edgeId
			next[e.adj]++
		}
	}

	return NewGraph(withDummy, edges, adjacency, storage)
}
