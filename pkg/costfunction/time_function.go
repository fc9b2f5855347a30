package costfunction

import (
	"github.com/lintang-b-s/navigatorx-querygraph/pkg"
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/osmparser"
)

// TimeFunction weighs edges by travel time in minutes.
type TimeFunction struct {
}

func NewTimeCostFunction() *TimeFunction {
	return &TimeFunction{}
}

const (
	defaultSpeed = 20.0 // km/h
)

// IsAccessible reports whether the edge may be driven in its current
// orientation. Edges with undecodable flags are not accessible.
func (tf *TimeFunction) IsAccessible(e datastructure.EdgeState) bool {
	flags, err := osmparser.DecodeFlags(e.GetFlags())
	if err != nil {
		return false
	}
	if e.IsReverse() {
		return flags.Backward
	}
	return flags.Forward
}

func (tf *TimeFunction) GetWeight(e datastructure.EdgeState) float64 {
	if !tf.IsAccessible(e) {
		return pkg.INF_WEIGHT
	}
	flags, _ := osmparser.DecodeFlags(e.GetFlags())
	speed := float64(flags.SpeedKmh)
	if speed <= 0 {
		speed = defaultSpeed
	}
	return e.GetDistance() / (speed * 1000 / 60)
}
