package querygraph

import (
	"time"

	"go.uber.org/zap"

	da "github.com/lintang-b-s/navigatorx-querygraph/pkg/datastructure"
)

// DefaultWayIndexWarnDistance is the distance in meter above which a snapped
// point is reported as being off the segment its way index names.
const DefaultWayIndexWarnDistance = 1.0

// Builder creates query overlays. It holds configuration only, so one Builder
// can serve concurrent requests.
type Builder struct {
	logger               *zap.Logger
	metrics              *Metrics
	equalityTolerance    float64
	wayIndexWarnDistance float64
}

// NewBuilder returns a Builder. A nil logger disables logging, a nil metrics
// disables metrics and a non positive equalityTolerance falls back to
// DefaultEqualityTolerance.
func NewBuilder(logger *zap.Logger, metrics *Metrics, equalityTolerance, wayIndexWarnDistance float64) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if equalityTolerance <= 0 {
		equalityTolerance = DefaultEqualityTolerance
	}
	return &Builder{
		logger:               logger,
		metrics:              metrics,
		equalityTolerance:    equalityTolerance,
		wayIndexWarnDistance: wayIndexWarnDistance,
	}
}

// Build creates the overlay for snaps with the default settings.
func Build(firstVirtualNode, firstVirtualEdge da.Index, bidirectional bool, snaps []*Snap) (*QueryOverlay, error) {
	return NewBuilder(nil, nil, DefaultEqualityTolerance, DefaultWayIndexWarnDistance).
		Build(firstVirtualNode, firstVirtualEdge, bidirectional, snaps)
}

// Build turns snaps into virtual nodes and splits their closest edges at
// them. firstVirtualNode and firstVirtualEdge must be above every node and
// edge id of the base graph and of any overlay used together with this one.
// Virtual node ids follow the order edge id, way index, distance from the
// base node, input order. The snaps are not modified; the node each snap
// resolved to is returned by QueryOverlay.GetClosestNodes.
func (b *Builder) Build(firstVirtualNode, firstVirtualEdge da.Index, bidirectional bool, snaps []*Snap) (*QueryOverlay, error) {
	start := time.Now()

	overlay, err := b.build(firstVirtualNode, firstVirtualEdge, bidirectional, snaps)
	if err != nil {
		b.metrics.observeFailure()
		return nil, err
	}

	elapsed := time.Since(start)
	b.metrics.observeBuild(overlay, elapsed)
	b.logger.Debug("query overlay built",
		zap.Int("snaps", len(snaps)),
		zap.Int("virtualNodes", overlay.GetNumVirtualNodes()),
		zap.Int("virtualEdges", overlay.GetNumVirtualEdges()),
		zap.Duration("took", elapsed))
	return overlay, nil
}

func (b *Builder) build(firstVirtualNode, firstVirtualEdge da.Index, bidirectional bool, snaps []*Snap) (*QueryOverlay, error) {
	merged, err := newMerger(b.equalityTolerance).merge(snaps)
	if err != nil {
		return nil, err
	}

	split, err := newSplitter(b.equalityTolerance, b.wayIndexWarnDistance, b.logger).
		split(merged.representatives, firstVirtualNode)
	if err != nil {
		return nil, err
	}

	edges := synthesize(split.edges, firstVirtualEdge, bidirectional)

	closestNodes := make([]da.Index, len(snaps))
	for i := range snaps {
		if rep := merged.memberOf[i]; rep >= 0 {
			closestNodes[i] = split.repNodes[rep]
		} else {
			closestNodes[i] = merged.towerNodes[i]
		}
	}

	overlay := &QueryOverlay{
		firstVirtualNode: firstVirtualNode,
		firstVirtualEdge: firstVirtualEdge,
		bidirectional:    bidirectional,
		virtualNodes:     split.nodes,
		closestEdges:     split.closestEdges,
		virtualEdges:     edges,
		closestNodes:     closestNodes,
	}
	overlay.edgeChangesAtRealNodes = buildEdgeChanges(edges, overlay.IsVirtualNode)
	return overlay, nil
}
