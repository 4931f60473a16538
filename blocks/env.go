// Package blocks holds the content block types: the underdrive projector and
// the liquid stream host and client
package blocks

import (
	"github.com/lixenwraith/cyberio/audio"
	"github.com/lixenwraith/cyberio/liquid"
	"github.com/lixenwraith/cyberio/status"
	"github.com/lixenwraith/cyberio/world"
)

// Env is what block types share at construction
type Env struct {
	Liquids *liquid.Catalog
	// Cues is optional; nil plays nothing
	Cues *audio.Cues
}

func (e Env) play(name string) {
	if e.Cues != nil {
		e.Cues.Play(name)
	}
}

func countTransition(w *world.World) {
	if w != nil {
		w.Status().Ints.Get(status.AnimTransitions).Add(1)
	}
}
