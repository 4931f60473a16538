package world

import (
	"github.com/lixenwraith/cyberio/render"
	"github.com/lixenwraith/cyberio/tile"
)

// Building is what the world ticks and draws
type Building interface {
	Pos() tile.Pos
	Team() tile.Team
	BlockName() string
	UpdateTile()
	Draw(c render.Canvas)
}

// Remover is optionally implemented to observe removal from the world
type Remover interface {
	OnRemoved()
}

// Booster is optionally implemented by buildings whose speed can be scaled
// by projectors
type Booster interface {
	CanOverdrive() bool
	ApplyBoostOrSlow(intensity, duration float64)
	ResetBoost()
}
