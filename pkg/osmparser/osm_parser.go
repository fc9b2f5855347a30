package osmparser

import (
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"go.uber.org/zap"

	"github.com/lintang-b-s/navigatorx-querygraph/pkg"
	da "github.com/lintang-b-s/navigatorx-querygraph/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/util"
)

type NodeType uint8

const (
	END_NODE NodeType = iota
	BETWEEN_NODE
	JUNCTION_NODE
)

type nodeCoord struct {
	lat float64
	lon float64
}

type osmWay struct {
	id    int64
	nodes []int64
	flags da.IntsRef
}

var acceptedHighway = map[string]struct{}{
	"motorway":         {},
	"motorway_link":    {},
	"trunk":            {},
	"trunk_link":       {},
	"primary":          {},
	"primary_link":     {},
	"secondary":        {},
	"secondary_link":   {},
	"residential":      {},
	"residential_link": {},
	"service":          {},
	"tertiary":         {},
	"tertiary_link":    {},
	"road":             {},
	"track":            {},
	"unclassified":     {},
	"undefined":        {},
	"unknown":          {},
	"living_street":    {},
	"private":          {},
	"motorroad":        {},
}

// ScannerFactory opens a scanner over r. Parsing reads the input twice, so a
// new scanner is created for every pass.
type ScannerFactory func(ctx context.Context, r io.Reader) osm.Scanner

func PbfScanner(ctx context.Context, r io.Reader) osm.Scanner {
	return osmpbf.New(ctx, r, 0)
}

func XmlScanner(ctx context.Context, r io.Reader) osm.Scanner {
	return osmxml.New(ctx, r)
}

// OsmParser turns the road network of an openstreetmap extract into a graph.
// Ways are split at tower nodes (way ends and junctions), the nodes between
// two tower nodes become pillars of the edge geometry.
type OsmParser struct {
	logger          *zap.Logger
	wayNodeMap      map[int64]NodeType
	acceptedNodeMap map[int64]nodeCoord
	nodeIDMap       map[int64]da.Index
	ways            []osmWay
}

func NewOsmParser(logger *zap.Logger) *OsmParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OsmParser{
		logger:          logger,
		wayNodeMap:      make(map[int64]NodeType),
		acceptedNodeMap: make(map[int64]nodeCoord),
		nodeIDMap:       make(map[int64]da.Index),
	}
}

// Parse reads an .osm.pbf or .osm file, picked by the file extension.
func (p *OsmParser) Parse(ctx context.Context, mapFile string) (*da.Graph, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "open osm file %s", mapFile)
	}
	defer f.Close()

	newScanner := XmlScanner
	if strings.HasSuffix(mapFile, ".pbf") {
		newScanner = PbfScanner
	}
	return p.ParseReader(ctx, f, newScanner)
}

func (p *OsmParser) ParseReader(ctx context.Context, r io.ReadSeeker, newScanner ScannerFactory) (*da.Graph, error) {
	if err := p.scanWays(ctx, newScanner(ctx, r)); err != nil {
		return nil, err
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "rewind osm input")
	}
	if err := p.scanNodes(ctx, newScanner(ctx, r)); err != nil {
		return nil, err
	}

	graph, err := p.buildGraph()
	if err != nil {
		return nil, err
	}

	p.logger.Sugar().Infof("number of vertices: %v", graph.NumberOfVertices())
	p.logger.Sugar().Infof("number of edges: %v", graph.NumberOfEdges())
	return graph, nil
}

// scanWays keeps the accepted ways and classifies their nodes.
func (p *OsmParser) scanWays(ctx context.Context, scanner osm.Scanner) error {
	defer scanner.Close()

	countWays := 0
	for scanner.Scan() {
		o := scanner.Object()
		if o.ObjectID().Type() != osm.TypeWay {
			continue
		}
		way := o.(*osm.Way)
		if len(way.Nodes) < 2 || !acceptOsmWay(way) {
			continue
		}
		if (countWays+1)%50000 == 0 {
			p.logger.Sugar().Infof("scanning openstreetmap ways: %d...", countWays+1)
		}
		countWays++

		nodes := make([]int64, 0, len(way.Nodes))
		for i, node := range way.Nodes {
			nodeID := int64(node.ID)
			if _, ok := p.wayNodeMap[nodeID]; !ok {
				if i == 0 || i == len(way.Nodes)-1 {
					p.wayNodeMap[nodeID] = END_NODE
				} else {
					p.wayNodeMap[nodeID] = BETWEEN_NODE
				}
			} else {
				p.wayNodeMap[nodeID] = JUNCTION_NODE
			}
			nodes = append(nodes, nodeID)
		}

		flags, err := wayFlags(way)
		if err != nil {
			p.logger.Warn("skipping way with invalid tags", zap.Int64("wayId", int64(way.ID)), zap.Error(err))
			continue
		}
		p.ways = append(p.ways, osmWay{id: int64(way.ID), nodes: nodes, flags: flags})
	}
	if err := scanner.Err(); err != nil {
		return util.WrapErrorf(err, util.ErrCorruptedData, "scan openstreetmap ways")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	p.logger.Sugar().Infof("accepted openstreetmap ways: %d", len(p.ways))
	return nil
}

// scanNodes stores the coordinates of every node used by an accepted way.
func (p *OsmParser) scanNodes(ctx context.Context, scanner osm.Scanner) error {
	defer scanner.Close()

	countNodes := 0
	for scanner.Scan() {
		o := scanner.Object()
		if o.ObjectID().Type() != osm.TypeNode {
			continue
		}
		if (countNodes+1)%500000 == 0 {
			p.logger.Sugar().Infof("scanning openstreetmap nodes: %d...", countNodes+1)
		}
		countNodes++

		node := o.(*osm.Node)
		if _, ok := p.wayNodeMap[int64(node.ID)]; ok {
			p.acceptedNodeMap[int64(node.ID)] = nodeCoord{lat: node.Lat, lon: node.Lon}
		}
	}
	if err := scanner.Err(); err != nil {
		return util.WrapErrorf(err, util.ErrCorruptedData, "scan openstreetmap nodes")
	}
	return ctx.Err()
}

func (p *OsmParser) isTowerNode(nodeID int64) bool {
	t := p.wayNodeMap[nodeID]
	return t == END_NODE || t == JUNCTION_NODE
}

func (p *OsmParser) towerVertex(b *da.GraphBuilder, nodeID int64) da.Index {
	if id, ok := p.nodeIDMap[nodeID]; ok {
		return id
	}
	c := p.acceptedNodeMap[nodeID]
	id := b.AddVertex(c.lat, c.lon, 0, nodeID)
	p.nodeIDMap[nodeID] = id
	return id
}

func (p *OsmParser) buildGraph() (*da.Graph, error) {
	b := da.NewGraphBuilder()
	missing := 0
	for _, way := range p.ways {
		nodes := make([]int64, 0, len(way.nodes))
		for _, nodeID := range way.nodes {
			if _, ok := p.acceptedNodeMap[nodeID]; !ok {
				missing++
				continue
			}
			nodes = append(nodes, nodeID)
		}
		if len(nodes) < 2 {
			continue
		}

		start := 0
		for i := 1; i < len(nodes); i++ {
			if i != len(nodes)-1 && !p.isTowerNode(nodes[i]) {
				continue
			}
			if err := p.addSegment(b, nodes[start:i+1], way); err != nil {
				return nil, err
			}
			start = i
		}
	}
	if missing > 0 {
		p.logger.Warn("way nodes without coordinates were dropped", zap.Int("count", missing))
	}
	return b.Build(), nil
}

// addSegment adds the edge between the first and the last node of segment.
func (p *OsmParser) addSegment(b *da.GraphBuilder, segment []int64, way osmWay) error {
	first, last := segment[0], segment[len(segment)-1]
	if first == last && len(segment) <= 2 {
		return nil
	}

	pillars := make([]da.Coordinate, 0, len(segment)-2)
	for _, nodeID := range segment[1 : len(segment)-1] {
		c := p.acceptedNodeMap[nodeID]
		pillars = append(pillars, da.NewCoordinate(c.lat, c.lon))
	}

	base := p.towerVertex(b, first)
	adj := p.towerVertex(b, last)
	_, err := b.AddEdge(base, adj, way.flags, pillars, way.id)
	return err
}

func acceptOsmWay(way *osm.Way) bool {
	highway := way.Tags.Find("highway")
	junction := way.Tags.Find("junction")
	if highway != "" {
		if _, ok := acceptedHighway[highway]; ok {
			return true
		}
	} else if junction != "" {
		return true
	}
	return false
}

func isRestricted(value string) bool {
	return value == "no" || value == "restricted"
}

func getReversedOneWay(way *osm.Way) (bool, bool, bool, bool) {
	vehicleForward := way.Tags.Find("vehicle:forward")
	motorVehicleForward := way.Tags.Find("motor_vehicle:forward")
	vehicleBackward := way.Tags.Find("vehicle:backward")
	motorVehicleBackward := way.Tags.Find("motor_vehicle:backward")
	return isRestricted(vehicleForward), isRestricted(motorVehicleForward), isRestricted(vehicleBackward), isRestricted(motorVehicleBackward)
}

func wayFlags(way *osm.Way) (da.IntsRef, error) {
	hwType := pkg.GetHighwayType(way.Tags.Find("highway"))

	forward, backward := true, true
	okvf, okmvf, okvb, okmvb := getReversedOneWay(way)
	switch way.Tags.Find("oneway") {
	case "yes", "true", "1":
		backward = false
	case "-1":
		forward = false
	}
	if okvf || okmvf {
		forward = false
	}
	if okvb || okmvb {
		backward = false
	}
	if way.Tags.Find("junction") == "roundabout" && way.Tags.Find("oneway") != "no" {
		backward = false
	}

	speed := pkg.RoadTypeMaxSpeed(hwType)
	if val := way.Tags.Find("maxspeed"); val != "" {
		maxSpeed, err := parseMaxSpeed(val)
		if err != nil {
			return nil, err
		}
		if maxSpeed > 0 {
			speed = maxSpeed
		}
	}

	return EncodeFlags(EdgeFlags{
		HighwayType: hwType,
		SpeedKmh:    int32(speed + 0.5),
		Forward:     forward,
		Backward:    backward,
	}), nil
}

// parseMaxSpeed returns the maxspeed tag in km/h. Symbolic values such as
// "none" or "signals" give 0.
func parseMaxSpeed(value string) (float64, error) {
	value = strings.TrimSpace(value)
	factor := 1.0
	switch {
	case strings.HasSuffix(value, "mph"):
		value = strings.TrimSuffix(value, "mph")
		factor = pkg.MPH_TO_KMH
	case strings.HasSuffix(value, "km/h"):
		value = strings.TrimSuffix(value, "km/h")
	case strings.HasSuffix(value, "knots"):
		value = strings.TrimSuffix(value, "knots")
		factor = pkg.KNOTS_TO_KMH
	}
	value = strings.TrimSpace(value)
	if value == "" || strings.IndexFunc(value, func(r rune) bool { return r >= '0' && r <= '9' }) < 0 {
		return 0, nil
	}

	speed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, util.WrapErrorf(err, util.ErrBadParamInput, "invalid maxspeed %q", value)
	}
	return speed * factor, nil
}
