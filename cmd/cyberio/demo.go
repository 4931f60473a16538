package main

import (
	"log"

	"github.com/lixenwraith/cyberio/blocks"
	"github.com/lixenwraith/cyberio/tile"
	"github.com/lixenwraith/cyberio/world"
)

// buildDemo lays out a projector covering two hosts that feed four clients
// The last link is refused by a full client
func buildDemo(w *world.World, set *blocks.Set) {
	place := func(b world.Building) {
		if err := w.Place(b); err != nil {
			log.Printf("demo: %v", err)
		}
	}

	ud := set.Underdrive.NewBuild(w, tile.Pack(8, 8), tile.TeamSharded)
	ud.Configure(set.Underdrive.MaxGear)
	place(ud)

	hosts := []tile.Pos{tile.Pack(11, 6), tile.Pack(11, 11)}
	for _, p := range hosts {
		place(set.Host.NewBuild(w, p, tile.TeamSharded))
	}
	clients := []tile.Pos{tile.Pack(26, 4), tile.Pack(28, 8), tile.Pack(26, 13), tile.Pack(38, 9)}
	for _, p := range clients {
		place(set.Client.NewBuild(w, p, tile.TeamSharded))
	}
	place(set.Host.NewBuild(w, tile.Pack(44, 3), tile.TeamCrux))

	links := [][2]tile.Pos{
		{hosts[0], clients[0]},
		{hosts[0], clients[1]},
		{hosts[1], clients[1]},
		{hosts[1], clients[2]},
		{hosts[1], clients[3]},
		{tile.Pack(44, 3), clients[3]},
		{tile.Pack(44, 3), clients[1]},
	}
	for _, l := range links {
		if err := blocks.LinkAt(w, l[0], l[1]); err != nil {
			log.Printf("demo: %v", err)
		}
	}
}
