package costfunction

import (
	"github.com/lintang-b-s/navigatorx-querygraph/pkg/datastructure"
)

// CostFunction weighs an edge in the direction the edge state is oriented.
// Base graph edges and virtual edges are weighed alike.
type CostFunction interface {
	GetWeight(e datastructure.EdgeState) float64
	IsAccessible(e datastructure.EdgeState) bool
}
