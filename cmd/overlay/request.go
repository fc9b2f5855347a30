package main

import (
	"encoding/json"
	"io"
	"os"

	da "github.com/lintang-b-s/navigatorx-querygraph/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/querygraph"
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/util"
)

type snapRequest struct {
	Edge     uint32   `json:"edge"`
	Adj      uint32   `json:"adj"`
	Lat      float64  `json:"lat"`
	Lon      float64  `json:"lon"`
	QueryLat *float64 `json:"query_lat,omitempty"`
	QueryLon *float64 `json:"query_lon,omitempty"`
	WayIndex int      `json:"way_index"`
	Position string   `json:"position"`
	// ClosestNode is the tower node of a tower snap, when the snapper knows it.
	ClosestNode *uint32 `json:"closest_node,omitempty"`
}

type overlayRequest struct {
	Bidirectional *bool         `json:"bidirectional,omitempty"`
	Snaps         []snapRequest `json:"snaps"`
}

type requestFile struct {
	Requests []overlayRequest `json:"requests"`
}

func readRequestFile(path string) (*requestFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "open snap request file %s", path)
	}
	defer f.Close()
	return decodeRequests(f)
}

func decodeRequests(r io.Reader) (*requestFile, error) {
	var file requestFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "decode snap requests")
	}
	return &file, nil
}

// toBuildRequests resolves every snap onto the edge view of g it names.
func (f *requestFile) toBuildRequests(g *da.Graph, bidirectional bool) ([]querygraph.BuildRequest, error) {
	requests := make([]querygraph.BuildRequest, 0, len(f.Requests))
	for i, req := range f.Requests {
		snaps := make([]*querygraph.Snap, 0, len(req.Snaps))
		for j, sr := range req.Snaps {
			snap, err := sr.toSnap(g)
			if err != nil {
				return nil, util.WrapErrorf(err, util.ErrBadParamInput, "request %d snap %d", i, j)
			}
			snaps = append(snaps, snap)
		}

		bidir := bidirectional
		if req.Bidirectional != nil {
			bidir = *req.Bidirectional
		}
		requests = append(requests, querygraph.BuildRequest{Snaps: snaps, Bidirectional: bidir})
	}
	return requests, nil
}

func (sr snapRequest) toSnap(g *da.Graph) (*querygraph.Snap, error) {
	edge, ok := g.GetEdgeState(da.Index(sr.Edge), da.Index(sr.Adj))
	if !ok {
		return nil, util.WrapErrorf(nil, util.ErrNotFound, "edge %d has no end node %d", sr.Edge, sr.Adj)
	}
	position, err := querygraph.ParseSnappedPosition(sr.Position)
	if err != nil {
		return nil, err
	}

	queryLat, queryLon := sr.Lat, sr.Lon
	if sr.QueryLat != nil && sr.QueryLon != nil {
		queryLat, queryLon = *sr.QueryLat, *sr.QueryLon
	}

	snap := querygraph.NewSnap(queryLat, queryLon)
	snap.SetClosestEdge(edge)
	snap.SetSnappedPoint(da.NewCoordinate(sr.Lat, sr.Lon))
	snap.SetWayIndex(sr.WayIndex)
	snap.SetSnappedPosition(position)
	if sr.ClosestNode != nil {
		snap.SetClosestNode(da.Index(*sr.ClosestNode))
	}
	return snap, nil
}
