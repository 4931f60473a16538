package status

import (
	"math"
	"sync/atomic"
)

// Gauge is a float64 metric with the same Load/Store/Add shape as atomic.Int64
type Gauge struct {
	bits atomic.Uint64
}

func (g *Gauge) Load() float64 {
	return math.Float64frombits(g.bits.Load())
}

func (g *Gauge) Store(v float64) {
	g.bits.Store(math.Float64bits(v))
}

// Add returns the new value; concurrent adds retry until their swap lands
func (g *Gauge) Add(delta float64) float64 {
	for {
		old := g.bits.Load()
		next := math.Float64frombits(old) + delta
		if g.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}
