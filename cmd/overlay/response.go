package main

import (
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-querygraph/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/geo"
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/querygraph"
)

type snapSummary struct {
	Node    da.Index `json:"node"`
	Virtual bool     `json:"virtual"`
}

type virtualEdgeSummary struct {
	ID           da.Index `json:"id"`
	Key          da.Index `json:"key"`
	OriginalEdge da.Index `json:"original_edge"`
	Base         da.Index `json:"base"`
	Adj          da.Index `json:"adj"`
	Distance     float64  `json:"distance"`
	Accessible   bool     `json:"accessible"`
	TravelTime   float64  `json:"travel_time_minutes,omitempty"`
	Polyline     string   `json:"polyline"`
}

type overlaySummary struct {
	FirstVirtualNode da.Index             `json:"first_virtual_node"`
	FirstVirtualEdge da.Index             `json:"first_virtual_edge"`
	VirtualNodes     [][2]float64         `json:"virtual_nodes"`
	NumVirtualEdges  int                  `json:"num_virtual_edges"`
	NodeCount        int                  `json:"node_count"`
	EdgeCount        int                  `json:"edge_count"`
	Snaps            []snapSummary        `json:"snaps"`
	VirtualEdges     []virtualEdgeSummary `json:"virtual_edges"`
}

func summarizeOverlay(qg *querygraph.QueryGraph, cost costfunction.CostFunction) overlaySummary {
	overlay := qg.GetOverlay()
	summary := overlaySummary{
		FirstVirtualNode: overlay.GetFirstVirtualNode(),
		FirstVirtualEdge: overlay.GetFirstVirtualEdge(),
		VirtualNodes:     make([][2]float64, 0, overlay.GetNumVirtualNodes()),
		NumVirtualEdges:  overlay.GetNumVirtualEdges(),
		NodeCount:        qg.NodeCount(),
		EdgeCount:        qg.EdgeCount(),
		Snaps:            make([]snapSummary, 0, len(overlay.GetClosestNodes())),
		VirtualEdges:     make([]virtualEdgeSummary, 0, overlay.GetNumVirtualEdges()),
	}

	for _, c := range overlay.GetVirtualNodes() {
		summary.VirtualNodes = append(summary.VirtualNodes, [2]float64{c.Lat, c.Lon})
	}
	for _, node := range overlay.GetClosestNodes() {
		summary.Snaps = append(summary.Snaps, snapSummary{Node: node, Virtual: overlay.IsVirtualNode(node)})
	}
	for _, e := range overlay.GetVirtualEdges() {
		geometry := e.FetchWayGeometry(da.FETCH_ALL)
		es := virtualEdgeSummary{
			ID:           e.GetEdge(),
			Key:          e.GetEdgeKey(),
			OriginalEdge: e.GetOriginalEdge(),
			Base:         e.GetBaseNode(),
			Adj:          e.GetAdjNode(),
			Distance:     e.GetDistance(),
			Accessible:   cost.IsAccessible(e),
			Polyline:     geo.EncodePolyline(da.NewGeoCoordinates(geometry)),
		}
		if es.Accessible {
			es.TravelTime = cost.GetWeight(e)
		}
		summary.VirtualEdges = append(summary.VirtualEdges, es)
	}
	return summary
}
