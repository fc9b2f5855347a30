package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateHaversineDistance(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKM                 float64
		delta                  float64
	}{
		{"same point", -7.76, 110.37, -7.76, 110.37, 0, 1e-12},
		{"one degree of latitude", 0, 0, 1, 0, 111.195, 0.01},
		{"one degree of longitude on the equator", 0, 0, 0, 1, 111.195, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateHaversineDistance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.wantKM, got, tt.delta)
			assert.InDelta(t, tt.wantKM*1000, CalculateHaversineDistanceMeter(tt.lat1, tt.lon1, tt.lat2, tt.lon2), tt.delta*1000)
		})
	}
}

func TestGetDestinationPoint(t *testing.T) {
	lat, lon := GetDestinationPoint(0, 0, 0, 111.195)
	assert.InDelta(t, 1.0, lat, 1e-3)
	assert.InDelta(t, 0.0, lon, 1e-9)

	lat, lon = GetDestinationPoint(0, 0, 90, 111.195)
	assert.InDelta(t, 0.0, lat, 1e-9)
	assert.InDelta(t, 1.0, lon, 1e-3)
}

func TestPointLinePerpendicularDistance(t *testing.T) {
	a := NewCoordinate(0, 0)
	b := NewCoordinate(0, 0.01)

	t.Run("point on the segment", func(t *testing.T) {
		assert.InDelta(t, 0, PointLinePerpendicularDistance(a, b, NewCoordinate(0, 0.005)), 1e-3)
	})

	t.Run("point beside the segment", func(t *testing.T) {
		// 0.0001 degree of latitude is about 11.1 meters
		assert.InDelta(t, 11.12, PointLinePerpendicularDistance(a, b, NewCoordinate(0.0001, 0.005)), 0.05)
	})

	t.Run("projection is clamped to the end point", func(t *testing.T) {
		p := ProjectPointToLineCoord(a, b, NewCoordinate(0, 0.02))
		assert.InDelta(t, 0.01, p.Lon, 1e-9)
		assert.InDelta(t, 0, p.Lat, 1e-9)
	})

	t.Run("degenerate segment", func(t *testing.T) {
		d := PointLinePerpendicularDistance(a, a, NewCoordinate(0.001, 0))
		assert.InDelta(t, CalculateHaversineDistanceMeter(0, 0, 0.001, 0), d, 1e-6)
	})
}

func TestPolyline(t *testing.T) {
	path := []Coordinate{
		NewCoordinate(38.5, -120.2),
		NewCoordinate(40.7, -120.95),
		NewCoordinate(43.252, -126.453),
	}
	encoded := EncodePolyline(path)
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", encoded)

	decoded, err := DecodePolyline(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, len(path))
	for i := range path {
		assert.InDelta(t, path[i].Lat, decoded[i].Lat, 1e-5)
		assert.InDelta(t, path[i].Lon, decoded[i].Lon, 1e-5)
	}
}
