package registry

import (
	"sort"
	"sync"

	"github.com/lixenwraith/cyberio/tile"
	"github.com/lixenwraith/cyberio/world"
)

// BlockType is a placeable block definition
type BlockType interface {
	Name() string
	// Create builds a new building of this type; it is not placed yet
	Create(w *world.World, pos tile.Pos, team tile.Team) world.Building
}

var (
	blocksMu sync.RWMutex
	blocks   = make(map[string]BlockType)
)

// RegisterBlock adds a block type by name, replacing any previous one
func RegisterBlock(bt BlockType) {
	blocksMu.Lock()
	defer blocksMu.Unlock()
	blocks[bt.Name()] = bt
}

// GetBlock retrieves a block type by name
func GetBlock(name string) (BlockType, bool) {
	blocksMu.RLock()
	defer blocksMu.RUnlock()
	bt, ok := blocks[name]
	return bt, ok
}

// BlockNames returns every registered name, sorted
func BlockNames() []string {
	blocksMu.RLock()
	defer blocksMu.RUnlock()
	names := make([]string, 0, len(blocks))
	for name := range blocks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset forgets every registered block type
func Reset() {
	blocksMu.Lock()
	defer blocksMu.Unlock()
	clear(blocks)
}
