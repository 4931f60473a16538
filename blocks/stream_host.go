package blocks

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/cyberio/anim"
	"github.com/lixenwraith/cyberio/audio"
	"github.com/lixenwraith/cyberio/block"
	"github.com/lixenwraith/cyberio/config"
	"github.com/lixenwraith/cyberio/liquid"
	"github.com/lixenwraith/cyberio/render"
	"github.com/lixenwraith/cyberio/status"
	"github.com/lixenwraith/cyberio/stream"
	"github.com/lixenwraith/cyberio/tile"
	"github.com/lixenwraith/cyberio/world"
)

// Stream host animation states
const (
	StateHostIdle     = "idle"
	StateTransmitting = "transmitting"
)

// StreamHost fills a tank from a source liquid and streams it to linked clients
type StreamHost struct {
	block.Animated[*StreamHost, *StreamHostBuild]

	Source         *liquid.Liquid
	Capacity       float64
	ProducePerTick float64
	OutputPerTick  float64
	MaxClients     int
	Color          tcell.Color

	env Env
}

// NewStreamHost builds the block type from config
func NewStreamHost(name string, opts block.Options, cfg config.StreamHost, env Env) (*StreamHost, error) {
	if env.Liquids == nil {
		return nil, fmt.Errorf("block %s: no liquid catalog", name)
	}
	src, ok := env.Liquids.Get(cfg.Source)
	if !ok {
		return nil, fmt.Errorf("block %s: unknown source liquid %q", name, cfg.Source)
	}
	h := &StreamHost{
		Source:         src,
		Capacity:       cfg.Capacity,
		ProducePerTick: cfg.ProducePerTick,
		OutputPerTick:  cfg.OutputPerTick,
		MaxClients:     cfg.MaxClients,
		Color:          render.RgbHostPurple,
		env:            env,
	}
	err := h.Init(h, name, opts, block.Definition[*StreamHost, *StreamHostBuild]{
		States: func(r *anim.Registry[*StreamHost, *StreamHostBuild]) {
			r.Add(anim.NewState[*StreamHost, *StreamHostBuild](StateHostIdle, nil, nil))
			r.Add(anim.NewState[*StreamHost, *StreamHostBuild](StateTransmitting, nil, drawStreams))
		},
		Config: func(r *anim.Registry[*StreamHost, *StreamHostBuild]) *anim.Config[*StreamHost, *StreamHostBuild] {
			return anim.NewConfig(r).
				Default(StateHostIdle).
				From(StateHostIdle).To(StateTransmitting).When(func(_ *StreamHost, b *StreamHostBuild) bool {
					return b.lastSent > 0
				}).
				From(StateTransmitting).To(StateHostIdle).When(func(_ *StreamHost, b *StreamHostBuild) bool {
					return b.lastSent == 0
				}).
				OnTransition(func(h *StreamHost, b *StreamHostBuild, _, to *anim.State[*StreamHost, *StreamHostBuild]) {
					countTransition(b.World())
					if to.Name() == StateTransmitting {
						h.env.play(audio.CueTransmit)
					} else {
						h.env.play(audio.CueStreamIdle)
					}
				})
		},
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

func drawStreams(c render.Canvas, h *StreamHost, b *StreamHostBuild) {
	style := render.Styled(h.Source.Color)
	x, y := b.Pos().X(), b.Pos().Y()
	for _, pos := range b.clients.Positions() {
		render.Line(c, x, y, pos.X(), pos.Y(), h.Source.Glyph, style)
	}
}

// Create implements registry.BlockType
func (h *StreamHost) Create(w *world.World, pos tile.Pos, team tile.Team) world.Building {
	return h.NewBuild(w, pos, team)
}

// NewBuild creates an unplaced host building
func (h *StreamHost) NewBuild(w *world.World, pos tile.Pos, team tile.Team) *StreamHostBuild {
	b := &StreamHostBuild{
		clients: stream.NewConnSet(),
		unsubs:  make(map[tile.Pos]func()),
	}
	b.Create(&h.Animated, b, w, pos, team)
	return b
}

// StreamHostBuild is a placed stream host
type StreamHostBuild struct {
	block.Building[*StreamHost, *StreamHostBuild]
	world.TimeScale

	clients *stream.ConnSet

	mu     sync.Mutex
	unsubs map[tile.Pos]func()

	// routes are the linked clients that want the source liquid
	routes   []stream.Client
	dirty    atomic.Bool
	amount   float64
	lastSent float64
}

// Amount is the liquid in the tank
func (b *StreamHostBuild) Amount() float64 {
	return b.amount
}

// LastSent is the total delivered on the last tick
func (b *StreamHostBuild) LastSent() float64 {
	return b.lastSent
}

// ConnectClient records c and follows its requirement changes
// The slot may already be claimed by stream.Link; the subscription marks the
// link as established
func (b *StreamHostBuild) ConnectClient(c stream.Client) {
	pos := c.Pos()
	b.clients.Add(pos)
	b.mu.Lock()
	if _, ok := b.unsubs[pos]; ok {
		b.mu.Unlock()
		return
	}
	b.unsubs[pos] = c.OnRequirementUpdated().Add(func(stream.Client) {
		b.dirty.Store(true)
	})
	b.mu.Unlock()
	b.dirty.Store(true)
	b.World().Status().Ints.Get(status.StreamLinks).Add(1)
}

func (b *StreamHostBuild) DisconnectClient(c stream.Client) {
	b.dropClient(c.Pos())
}

func (b *StreamHostBuild) dropClient(pos tile.Pos) {
	if !b.clients.Remove(pos) {
		return
	}
	b.mu.Lock()
	unsub := b.unsubs[pos]
	delete(b.unsubs, pos)
	b.mu.Unlock()
	if unsub != nil {
		unsub()
	}
	b.dirty.Store(true)
	b.World().Status().Ints.Get(status.StreamLinks).Add(-1)
}

func (b *StreamHostBuild) ConnectedClients() *stream.ConnSet {
	return b.clients
}

func (b *StreamHostBuild) MaxClientConnection() int {
	return b.Block().MaxClients
}

func (b *StreamHostBuild) HostColor() tcell.Color {
	return b.Block().Color
}

// refreshRoutes resolves linked positions to clients that take the source
// Positions no longer holding a client are dropped from the set
func (b *StreamHostBuild) refreshRoutes() {
	src := b.Block().Source
	b.routes = b.routes[:0]
	for _, pos := range b.clients.Positions() {
		o, ok := b.World().Building(pos)
		c, isClient := o.(stream.Client)
		if !ok || !isClient {
			b.dropClient(pos)
			continue
		}
		if stream.Accepts(c, src) {
			b.routes = append(b.routes, c)
		}
	}
}

// FixedUpdateTile produces into the tank and splits output over the routes
func (b *StreamHostBuild) FixedUpdateTile() {
	h := b.Block()
	d := b.Advance(b.World().Delta())
	b.amount = min(h.Capacity, b.amount+h.ProducePerTick*d)

	if b.dirty.Swap(false) {
		b.refreshRoutes()
	}

	sent := 0.0
	if len(b.routes) > 0 {
		budget := min(b.amount, h.OutputPerTick*d)
		share := budget / float64(len(b.routes))
		for _, c := range b.routes {
			sent += stream.Offer(b, c, h.Source, share)
		}
	}
	b.amount -= sent
	b.lastSent = sent
	if sent > 0 {
		b.World().Status().Floats.Get(status.StreamDelivered).Add(sent)
	}
}

// FixedDraw draws the host body, brightening as the tank fills
func (b *StreamHostBuild) FixedDraw(c render.Canvas) {
	h := b.Block()
	fill := 1.0
	if h.Capacity > 0 {
		fill = b.amount / h.Capacity
	}
	color := render.Lerp(render.RgbIdleGray, h.Color, fill)
	render.Put(c, b.Pos().X(), b.Pos().Y(), '◆', render.Styled(color))
}

// OnRemoved unlinks every client
func (b *StreamHostBuild) OnRemoved() {
	for _, pos := range b.clients.Positions() {
		if o, ok := b.World().Building(pos); ok {
			if c, ok := o.(stream.Client); ok {
				stream.Unlink(b, c)
				continue
			}
		}
		b.dropClient(pos)
	}
	b.Building.OnRemoved()
}

type hostData struct {
	Amount float64 `json:"amount"`
}

func (b *StreamHostBuild) SaveData() ([]byte, error) {
	return json.Marshal(hostData{Amount: b.amount})
}

func (b *StreamHostBuild) LoadData(data []byte, _ int) error {
	var d hostData
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("stream host data: %w", err)
	}
	b.amount = min(max(d.Amount, 0), b.Block().Capacity)
	return nil
}
