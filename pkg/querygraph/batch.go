package querygraph

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	da "github.com/lintang-b-s/navigatorx-querygraph/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/util"
)

// IDAllocator hands out disjoint virtual node and edge id ranges to
// concurrent requests.
type IDAllocator struct {
	nextNode atomic.Uint32
	nextEdge atomic.Uint32
}

// NewIDAllocator starts the ranges at firstNode and firstEdge, usually the
// vertex and edge counts of the base graph.
func NewIDAllocator(firstNode, firstEdge da.Index) *IDAllocator {
	a := &IDAllocator{}
	a.nextNode.Store(uint32(firstNode))
	a.nextEdge.Store(uint32(firstEdge))
	return a
}

// Reserve returns the first ids of a range of numNodes node ids and numEdges
// edge ids that no other caller will receive.
func (a *IDAllocator) Reserve(numNodes, numEdges int) (firstNode, firstEdge da.Index) {
	firstNode = da.Index(a.nextNode.Add(uint32(numNodes)) - uint32(numNodes))
	firstEdge = da.Index(a.nextEdge.Add(uint32(numEdges)) - uint32(numEdges))
	return firstNode, firstEdge
}

// ReserveFor reserves enough ids for any overlay built from snaps: one node
// per snap and at most one edge id per piece, which is bounded by twice the
// number of snaps.
func (a *IDAllocator) ReserveFor(snaps []*Snap) (firstNode, firstEdge da.Index) {
	return a.Reserve(len(snaps), 2*len(snaps))
}

type BuildRequest struct {
	Snaps         []*Snap
	Bidirectional bool
}

// BuildBatch builds one overlay per request with at most workers builds
// running at once. Id ranges are reserved in request order before any build
// starts, so the result for a request does not depend on scheduling. The
// first failing request cancels the rest of the batch.
func (b *Builder) BuildBatch(ctx context.Context, alloc *IDAllocator, requests []BuildRequest, workers int) ([]*QueryOverlay, error) {
	if workers < 1 {
		workers = 1
	}

	type idRange struct {
		node, edge da.Index
	}
	ranges := make([]idRange, len(requests))
	for i, req := range requests {
		ranges[i].node, ranges[i].edge = alloc.ReserveFor(req.Snaps)
	}

	overlays := make([]*QueryOverlay, len(requests))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range requests {
		i := i
		g.Go(func() error {
			if util.StopConcurrentOperation(gctx) {
				return gctx.Err()
			}
			overlay, err := b.Build(ranges[i].node, ranges[i].edge, requests[i].Bidirectional, requests[i].Snaps)
			if err != nil {
				return util.WrapErrorf(err, util.ErrorCode(err), "request %d", i)
			}
			overlays[i] = overlay
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		b.logger.Error("batch build failed", zap.Int("requests", len(requests)), zap.Error(err))
		return nil, err
	}
	return overlays, nil
}
