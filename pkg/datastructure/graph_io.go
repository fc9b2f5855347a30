package datastructure

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/util"
)

// WriteGraph stores the graph as bzip2 compressed text.
func (g *Graph) WriteGraph(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}

	w := bufio.NewWriter(bz)

	storage := g.graphStorage
	fmt.Fprintf(w, "%d %d %d %d\n", g.NumberOfVertices(), g.NumberOfEdges(),
		len(storage.globalPoints), len(storage.mapEdgeInfo))

	for vId := 0; vId < g.NumberOfVertices(); vId++ {
		v := g.vertices[vId]
		fmt.Fprintf(w, "%s %s %s %d\n", util.FormatFloat(v.lat), util.FormatFloat(v.lon),
			util.FormatFloat(v.ele), v.osmId)
	}

	for _, e := range g.edges {
		fmt.Fprintf(w, "%d %d %d %s %d", e.edgeId, e.base, e.adj, util.FormatFloat(e.dist), len(e.flags))
		for _, flag := range e.flags {
			fmt.Fprintf(w, " %d", flag)
		}
		fmt.Fprintf(w, "\n")
	}

	for _, p := range storage.globalPoints {
		fmt.Fprintf(w, "%s %s %s\n", util.FormatFloat(p.Lat), util.FormatFloat(p.Lon), util.FormatFloat(p.Ele))
	}

	for _, info := range storage.mapEdgeInfo {
		fmt.Fprintf(w, "%d %d %d\n", info.startPointsIndex, info.endPointsIndex, info.osmWayId)
	}

	if err := w.Flush(); err != nil {
		return err
	}
	return bz.Close()
}

func fields(s string) []string {
	return strings.Fields(s)
}

func ParseIndex(s string) (Index, error) {
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if u > math.MaxUint32 {
		return 0, fmt.Errorf("value %s overflows uint32", s)
	}
	return Index(u), nil
}

func parseFloats(tokens []string) ([]float64, error) {
	vals := make([]float64, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func corrupted(err error, format string, a ...interface{}) error {
	return util.WrapErrorf(err, util.ErrCorruptedData, format, a...)
}

func ReadGraph(filename string) (*Graph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bz, err := bzip2.NewReader(f, nil)
	if err != nil {
		return nil, err
	}
	defer bz.Close()

	br := bufio.NewReader(bz)

	line, err := util.ReadLine(br)
	if err != nil {
		return nil, corrupted(err, "missing header")
	}
	tokens := fields(line)
	if len(tokens) != 4 {
		return nil, corrupted(nil, "expected 4 header fields, got %d", len(tokens))
	}
	counts := make([]Index, 4)
	for i, tok := range tokens {
		if counts[i], err = ParseIndex(tok); err != nil {
			return nil, corrupted(err, "invalid header")
		}
	}
	numVertices, numEdges, numPoints, numEdgeInfo := int(counts[0]), int(counts[1]), int(counts[2]), int(counts[3])
	if numEdgeInfo != numEdges {
		return nil, corrupted(nil, "%d edges but %d edge infos", numEdges, numEdgeInfo)
	}

	vertices := make([]*Vertex, numVertices)
	for i := 0; i < numVertices; i++ {
		if vertices[i], err = parseVertex(br, Index(i)); err != nil {
			return nil, corrupted(err, "vertex %d", i)
		}
	}

	edges := make([]*Edge, numEdges)
	for i := 0; i < numEdges; i++ {
		if edges[i], err = parseEdge(br); err != nil {
			return nil, corrupted(err, "edge %d", i)
		}
		e := edges[i]
		if int(e.edgeId) != i || int(e.base) >= numVertices || int(e.adj) >= numVertices {
			return nil, corrupted(nil, "edge %d references out of range ids", i)
		}
	}

	storage := NewGraphStorage()
	storage.globalPoints = make([]Coordinate, numPoints)
	for i := 0; i < numPoints; i++ {
		line, err := util.ReadLine(br)
		if err != nil {
			return nil, corrupted(err, "point %d", i)
		}
		vals, err := parseFloats(fields(line))
		if err != nil || len(vals) != 3 {
			return nil, corrupted(err, "point %d: malformed line %q", i, line)
		}
		storage.globalPoints[i] = NewCoordinate3D(vals[0], vals[1], vals[2])
	}

	storage.mapEdgeInfo = make([]EdgeExtraInfo, numEdgeInfo)
	for i := 0; i < numEdgeInfo; i++ {
		line, err := util.ReadLine(br)
		if err != nil {
			return nil, corrupted(err, "edge info %d", i)
		}
		tokens := fields(line)
		if len(tokens) != 3 {
			return nil, corrupted(nil, "edge info %d: malformed line %q", i, line)
		}
		start, err := ParseIndex(tokens[0])
		if err != nil {
			return nil, corrupted(err, "edge info %d", i)
		}
		end, err := ParseIndex(tokens[1])
		if err != nil {
			return nil, corrupted(err, "edge info %d", i)
		}
		wayId, err := strconv.ParseInt(tokens[2], 10, 64)
		if err != nil {
			return nil, corrupted(err, "edge info %d", i)
		}
		if int(start) > numPoints || int(end) > numPoints {
			return nil, corrupted(nil, "edge info %d points outside the geometry table", i)
		}
		storage.mapEdgeInfo[i] = NewEdgeExtraInfo(start, end, wayId)
	}

	return buildGraph(vertices, edges, storage), nil
}

func parseVertex(br *bufio.Reader, id Index) (*Vertex, error) {
	line, err := util.ReadLine(br)
	if err != nil {
		return nil, err
	}
	tokens := fields(line)
	if len(tokens) != 4 {
		return nil, fmt.Errorf("expected 4 fields, got %d", len(tokens))
	}
	vals, err := parseFloats(tokens[:3])
	if err != nil {
		return nil, err
	}
	osmId, err := strconv.ParseInt(tokens[3], 10, 64)
	if err != nil {
		return nil, err
	}
	return NewVertex(vals[0], vals[1], vals[2], id, osmId), nil
}

func parseEdge(br *bufio.Reader) (*Edge, error) {
	line, err := util.ReadLine(br)
	if err != nil {
		return nil, err
	}
	tokens := fields(line)
	if len(tokens) < 5 {
		return nil, fmt.Errorf("expected at least 5 fields, got %d", len(tokens))
	}
	edgeId, err := ParseIndex(tokens[0])
	if err != nil {
		return nil, err
	}
	base, err := ParseIndex(tokens[1])
	if err != nil {
		return nil, err
	}
	adj, err := ParseIndex(tokens[2])
	if err != nil {
		return nil, err
	}
	dist, err := strconv.ParseFloat(tokens[3], 64)
	if err != nil {
		return nil, err
	}
	numFlags, err := strconv.Atoi(tokens[4])
	if err != nil {
		return nil, err
	}
	if len(tokens) != 5+numFlags {
		return nil, fmt.Errorf("expected %d flags, got %d", numFlags, len(tokens)-5)
	}
	flags := NewIntsRef(numFlags)
	for i := 0; i < numFlags; i++ {
		v, err := strconv.ParseInt(tokens[5+i], 10, 32)
		if err != nil {
			return nil, err
		}
		flags[i] = int32(v)
	}
	return NewEdge(edgeId, base, adj, dist, flags), nil
}
