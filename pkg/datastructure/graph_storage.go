package datastructure

// GraphStorage keeps the per-edge data that is not needed while scanning
// adjacency lists: geometry and the osm way an edge came from.
type GraphStorage struct {
	globalPoints []Coordinate
	mapEdgeInfo  []EdgeExtraInfo
}

type EdgeExtraInfo struct {
	// geometry of the edge is globalPoints[startPointsIndex:endPointsIndex],
	// read backwards when startPointsIndex > endPointsIndex.
	startPointsIndex Index
	endPointsIndex   Index
	osmWayId         int64
}

func NewEdgeExtraInfo(startPointsIdx, endPointsIdx Index, osmWayId int64) EdgeExtraInfo {
	return EdgeExtraInfo{
		startPointsIndex: startPointsIdx,
		endPointsIndex:   endPointsIdx,
		osmWayId:         osmWayId,
	}
}

func (e EdgeExtraInfo) GetStartPointsIndex() Index {
	return e.startPointsIndex
}

func (e EdgeExtraInfo) GetEndPointsIndex() Index {
	return e.endPointsIndex
}

func (e EdgeExtraInfo) GetOsmWayId() int64 {
	return e.osmWayId
}

func NewGraphStorage() *GraphStorage {
	return &GraphStorage{
		mapEdgeInfo:  make([]EdgeExtraInfo, 0),
		globalPoints: make([]Coordinate, 0),
	}
}

// GetEdgeGeometry returns the full geometry of the edge from its stored base
// node to its stored adj node. The returned slice may alias the storage.
func (gs *GraphStorage) GetEdgeGeometry(edgeID Index) []Coordinate {
	if int(edgeID) >= len(gs.mapEdgeInfo) {
		return []Coordinate{}
	}
	edge := gs.mapEdgeInfo[edgeID]
	startIndex := edge.startPointsIndex
	endIndex := edge.endPointsIndex
	if startIndex <= endIndex {
		return gs.globalPoints[startIndex:endIndex]
	}

	edgePoints := make([]Coordinate, 0, startIndex-endIndex)
	for i := int(startIndex) - 1; i >= int(endIndex); i-- {
		edgePoints = append(edgePoints, gs.globalPoints[i])
	}

	return edgePoints
}

func (gs *GraphStorage) GetEdgeExtraInfo(edgeID Index) EdgeExtraInfo {
	return gs.mapEdgeInfo[edgeID]
}

// AppendEdgeGeometry stores the points of a new edge and returns its extra info.
func (gs *GraphStorage) AppendEdgeGeometry(points []Coordinate, osmWayId int64) EdgeExtraInfo {
	start := Index(len(gs.globalPoints))
	gs.globalPoints = append(gs.globalPoints, points...)
	info := NewEdgeExtraInfo(start, Index(len(gs.globalPoints)), osmWayId)
	gs.mapEdgeInfo = append(gs.mapEdgeInfo, info)
	return info
}

func (gs *GraphStorage) GetGlobalPointsCount() int {
	return len(gs.globalPoints)
}

func (gs *GraphStorage) GetEdgeInfoCount() int {
	return len(gs.mapEdgeInfo)
}
