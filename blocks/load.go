package blocks

import (
	"fmt"

	"github.com/lixenwraith/cyberio/config"
	"github.com/lixenwraith/cyberio/registry"
	"github.com/lixenwraith/cyberio/status"
	"github.com/lixenwraith/cyberio/stream"
	"github.com/lixenwraith/cyberio/tile"
	"github.com/lixenwraith/cyberio/world"
)

// Block type names
const (
	UnderdriveName   = "underdrive-projector"
	StreamHostName   = "stream-host"
	StreamClientName = "stream-client"
)

// Set holds the loaded block types
type Set struct {
	Underdrive *UnderdriveProjector
	Host       *StreamHost
	Client     *StreamClient
}

// Load constructs every block type from cfg and registers it by name
func Load(cfg config.Config, env Env) (*Set, error) {
	opts := cfg.BlockOptions()

	ud, err := NewUnderdriveProjector(UnderdriveName, opts, cfg.Underdrive, env)
	if err != nil {
		return nil, err
	}
	host, err := NewStreamHost(StreamHostName, opts, cfg.StreamHost, env)
	if err != nil {
		return nil, err
	}
	client, err := NewStreamClient(StreamClientName, opts, cfg.StreamClient, env)
	if err != nil {
		return nil, err
	}

	registry.RegisterBlock(ud)
	registry.RegisterBlock(host)
	registry.RegisterBlock(client)

	return &Set{Underdrive: ud, Host: host, Client: client}, nil
}

// LinkAt links the host and client placed at the given positions
// Refused links are counted in the world status
func LinkAt(w *world.World, hostPos, clientPos tile.Pos) error {
	hb, ok := w.Building(hostPos)
	h, isHost := hb.(stream.Host)
	if !ok || !isHost {
		return fmt.Errorf("link: no stream host at %v", hostPos)
	}
	cb, ok := w.Building(clientPos)
	c, isClient := cb.(stream.Client)
	if !ok || !isClient {
		return fmt.Errorf("link: no stream client at %v", clientPos)
	}
	if err := stream.Link(h, c); err != nil {
		w.Status().Ints.Get(status.StreamRejected).Add(1)
		return fmt.Errorf("link %v -> %v: %w", hostPos, clientPos, err)
	}
	return nil
}
