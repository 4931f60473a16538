package status

import "sync/atomic"

// Metric keys shared between the world, content blocks and observers
const (
	WorldTicks       = "world.ticks"
	WorldBuildings   = "world.buildings"
	AnimTransitions  = "anim.transitions"
	StreamLinks      = "stream.links"
	StreamRejected   = "stream.rejected"
	StreamDelivered  = "stream.delivered"
	UnderdriveTarget = "underdrive.targets"
)

// Registry is the metrics facade
// Owners cache pointers at construction; hot paths write atomics directly
type Registry struct {
	Ints   *MetricMap[atomic.Int64]
	Floats *MetricMap[Gauge]
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:   NewMetricMap[atomic.Int64](),
		Floats: NewMetricMap[Gauge](),
	}
}

// Snapshot copies every metric into a plain map, floats included
func (r *Registry) Snapshot() map[string]float64 {
	out := make(map[string]float64, r.Ints.Count()+r.Floats.Count())
	r.Ints.Range(func(k string, v *atomic.Int64) {
		out[k] = float64(v.Load())
	})
	r.Floats.Range(func(k string, v *Gauge) {
		out[k] = v.Load()
	})
	return out
}
