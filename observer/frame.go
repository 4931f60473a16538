package observer

import (
	"github.com/lixenwraith/cyberio/world"
)

// ProtocolVersion is sent with every frame
const ProtocolVersion = 1

type BuildingFrame struct {
	Block string `json:"block"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Team  string `json:"team"`
	// State is the current animation state, empty when not animating
	State string `json:"state,omitempty"`
}

type Frame struct {
	Type            string             `json:"type"`
	ProtocolVersion int                `json:"protocol_version"`
	Tick            uint64             `json:"tick"`
	Buildings       []BuildingFrame    `json:"buildings"`
	Metrics         map[string]float64 `json:"metrics"`
}

type animator interface {
	AniState() string
}

// BuildFrame captures w for observers; call from the world loop
func BuildFrame(w *world.World) Frame {
	f := Frame{
		Type:            "TICK",
		ProtocolVersion: ProtocolVersion,
		Tick:            w.Tick(),
		Buildings:       make([]BuildingFrame, 0, w.Len()),
		Metrics:         w.Status().Snapshot(),
	}
	w.Each(func(b world.Building) {
		bf := BuildingFrame{
			Block: b.BlockName(),
			X:     b.Pos().X(),
			Y:     b.Pos().Y(),
			Team:  b.Team().String(),
		}
		if a, ok := b.(animator); ok {
			bf.State = a.AniState()
		}
		f.Buildings = append(f.Buildings, bf)
	})
	return f
}
