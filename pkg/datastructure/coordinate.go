package datastructure

import "github.com/lintang-b-s/navigatorx-querygraph/pkg/geo"

// Coordinate is a point of an edge geometry. Ele is in meters and stays zero
// for 2D graphs.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
	Ele float64 `json:"ele,omitempty"`
}

func (c Coordinate) GetLat() float64 {
	return c.Lat
}

func (c Coordinate) GetLon() float64 {
	return c.Lon
}

func (c Coordinate) GetEle() float64 {
	return c.Ele
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

func NewCoordinate3D(lat, lon, ele float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
		Ele: ele,
	}
}

func NewCoordinates(lat, lon []float64) []Coordinate {
	coords := make([]Coordinate, len(lat))
	for i := range lat {
		coords[i] = NewCoordinate(lat[i], lon[i])
	}
	return coords
}

func NewGeoCoordinates(coords []Coordinate) []geo.Coordinate {
	geoCoords := make([]geo.Coordinate, len(coords))
	for i, coord := range coords {
		geoCoords[i] = coord.ToGeoCoordinate()
	}
	return geoCoords
}

func (c Coordinate) ToGeoCoordinate() geo.Coordinate {
	return geo.NewCoordinate(c.GetLat(), c.GetLon())
}
