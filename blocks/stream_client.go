package blocks

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/cyberio/anim"
	"github.com/lixenwraith/cyberio/audio"
	"github.com/lixenwraith/cyberio/block"
	"github.com/lixenwraith/cyberio/config"
	"github.com/lixenwraith/cyberio/liquid"
	"github.com/lixenwraith/cyberio/render"
	"github.com/lixenwraith/cyberio/stream"
	"github.com/lixenwraith/cyberio/tile"
	"github.com/lixenwraith/cyberio/world"
)

// Stream client animation states
const (
	StateWaiting   = "waiting"
	StateReceiving = "receiving"
)

// StreamClient stores liquids streamed from hosts and consumes them
type StreamClient struct {
	block.Animated[*StreamClient, *StreamClientBuild]

	// Capacity <= 0 takes any amount
	Capacity       float64
	ConsumePerTick float64
	MaxHosts       int
	Requirements   []*liquid.Liquid
	Color          tcell.Color

	env Env
}

// NewStreamClient builds the block type from config
func NewStreamClient(name string, opts block.Options, cfg config.StreamClient, env Env) (*StreamClient, error) {
	if env.Liquids == nil {
		return nil, fmt.Errorf("block %s: no liquid catalog", name)
	}
	reqs, err := resolveLiquids(env.Liquids, cfg.Requirements)
	if err != nil {
		return nil, fmt.Errorf("block %s: %w", name, err)
	}
	c := &StreamClient{
		Capacity:       cfg.Capacity,
		ConsumePerTick: cfg.ConsumePerTick,
		MaxHosts:       cfg.MaxHosts,
		Requirements:   reqs,
		Color:          render.RgbClientTeal,
		env:            env,
	}
	err = c.Init(c, name, opts, block.Definition[*StreamClient, *StreamClientBuild]{
		States: func(r *anim.Registry[*StreamClient, *StreamClientBuild]) {
			r.Add(anim.NewState[*StreamClient, *StreamClientBuild](StateWaiting, nil, nil))
			r.Add(anim.NewState[*StreamClient, *StreamClientBuild](StateReceiving, nil,
				func(cv render.Canvas, _ *StreamClient, b *StreamClientBuild) {
					l := b.Dominant()
					if l == nil {
						return
					}
					render.Put(cv, b.Pos().X(), b.Pos().Y(), '●', render.Styled(l.Color))
				}))
		},
		Config: func(r *anim.Registry[*StreamClient, *StreamClientBuild]) *anim.Config[*StreamClient, *StreamClientBuild] {
			return anim.NewConfig(r).
				Default(StateWaiting).
				From(StateWaiting).To(StateReceiving).When(func(_ *StreamClient, b *StreamClientBuild) bool {
					return b.lastReceived > 0
				}).
				Any().To(StateWaiting).When(func(_ *StreamClient, b *StreamClientBuild) bool {
					return b.lastReceived == 0
				}).
				OnTransition(func(c *StreamClient, b *StreamClientBuild, _, to *anim.State[*StreamClient, *StreamClientBuild]) {
					countTransition(b.World())
					if to.Name() == StateReceiving {
						c.env.play(audio.CueReceive)
					}
				})
		},
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func resolveLiquids(cat *liquid.Catalog, names []string) ([]*liquid.Liquid, error) {
	if names == nil {
		return nil, nil
	}
	out := make([]*liquid.Liquid, 0, len(names))
	for _, n := range names {
		l, ok := cat.Get(n)
		if !ok {
			return nil, fmt.Errorf("unknown liquid %q", n)
		}
		out = append(out, l)
	}
	return out, nil
}

// Create implements registry.BlockType
func (c *StreamClient) Create(w *world.World, pos tile.Pos, team tile.Team) world.Building {
	return c.NewBuild(w, pos, team)
}

// NewBuild creates an unplaced client building
func (c *StreamClient) NewBuild(w *world.World, pos tile.Pos, team tile.Team) *StreamClientBuild {
	b := &StreamClientBuild{
		hosts:  stream.NewConnSet(),
		stored: make(map[*liquid.Liquid]float64),
		reqs:   c.Requirements,
	}
	b.Create(&c.Animated, b, w, pos, team)
	return b
}

// StreamClientBuild is a placed stream client
type StreamClientBuild struct {
	block.Building[*StreamClient, *StreamClientBuild]
	world.TimeScale

	hosts *stream.ConnSet
	onReq stream.Delegate[stream.Client]

	// mu guards stored, reqs and received; hosts write during their own update
	mu       sync.Mutex
	stored   map[*liquid.Liquid]float64
	reqs     []*liquid.Liquid
	received float64

	lastReceived float64
}

func (b *StreamClientBuild) ReadStream(_ stream.Host, l *liquid.Liquid, amount float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stored[l] += amount
	b.received += amount
}

// AcceptedAmount is the free tank space, Unlimited when uncapped
func (b *StreamClientBuild) AcceptedAmount(_ stream.Host, _ *liquid.Liquid) float64 {
	limit := b.Block().Capacity
	if limit <= 0 {
		return stream.Unlimited
	}
	return max(0, limit-b.Total())
}

func (b *StreamClientBuild) OnRequirementUpdated() *stream.Delegate[stream.Client] {
	return &b.onReq
}

func (b *StreamClientBuild) Requirements() []*liquid.Liquid {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reqs
}

// SetRequirements replaces the wanted liquids and notifies linked hosts
// nil takes any liquid
func (b *StreamClientBuild) SetRequirements(ls []*liquid.Liquid) {
	b.mu.Lock()
	b.reqs = ls
	b.mu.Unlock()
	b.onReq.Dispatch(b)
}

func (b *StreamClientBuild) Connect(h stream.Host) {
	b.hosts.Add(h.Pos())
}

func (b *StreamClientBuild) Disconnect(h stream.Host) {
	b.hosts.Remove(h.Pos())
}

func (b *StreamClientBuild) ConnectedHosts() *stream.ConnSet {
	return b.hosts
}

func (b *StreamClientBuild) MaxHostConnection() int {
	return b.Block().MaxHosts
}

func (b *StreamClientBuild) ClientColor() tcell.Color {
	return b.Block().Color
}

// Stored returns the amount of l in the tank
func (b *StreamClientBuild) Stored(l *liquid.Liquid) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stored[l]
}

// Total returns the amount of every liquid in the tank
func (b *StreamClientBuild) Total() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0.0
	for _, v := range b.stored {
		total += v
	}
	return total
}

// Dominant returns the liquid with the most stored, nil when empty
func (b *StreamClientBuild) Dominant() *liquid.Liquid {
	b.mu.Lock()
	defer b.mu.Unlock()
	var best *liquid.Liquid
	for l, v := range b.stored {
		if v <= 0 {
			continue
		}
		if best == nil || v > b.stored[best] || (v == b.stored[best] && l.Name < best.Name) {
			best = l
		}
	}
	return best
}

// LastReceived is the amount streamed in since the previous update
func (b *StreamClientBuild) LastReceived() float64 {
	return b.lastReceived
}

// FixedUpdateTile consumes stored liquids in name order
func (b *StreamClientBuild) FixedUpdateTile() {
	d := b.Advance(b.World().Delta())

	b.mu.Lock()
	b.lastReceived = b.received
	b.received = 0
	need := b.Block().ConsumePerTick * d
	ls := make([]*liquid.Liquid, 0, len(b.stored))
	for l := range b.stored {
		ls = append(ls, l)
	}
	sort.Slice(ls, func(i, j int) bool { return ls[i].Name < ls[j].Name })
	for _, l := range ls {
		if need <= 0 {
			break
		}
		take := min(need, b.stored[l])
		b.stored[l] -= take
		need -= take
		if b.stored[l] <= 0 {
			delete(b.stored, l)
		}
	}
	b.mu.Unlock()
}

// FixedDraw draws the client body
func (b *StreamClientBuild) FixedDraw(c render.Canvas) {
	render.Put(c, b.Pos().X(), b.Pos().Y(), '○', render.Styled(b.Block().Color))
}

// OnRemoved unlinks every host
func (b *StreamClientBuild) OnRemoved() {
	for _, pos := range b.hosts.Positions() {
		if o, ok := b.World().Building(pos); ok {
			if h, ok := o.(stream.Host); ok {
				stream.Unlink(h, b)
				continue
			}
		}
		b.hosts.Remove(pos)
	}
	b.Building.OnRemoved()
}

type clientData struct {
	Stored       map[string]float64 `json:"stored"`
	Requirements []string           `json:"requirements"`
}

func (b *StreamClientBuild) SaveData() ([]byte, error) {
	b.mu.Lock()
	d := clientData{Stored: make(map[string]float64, len(b.stored))}
	for l, v := range b.stored {
		d.Stored[l.Name] = v
	}
	if b.reqs != nil {
		d.Requirements = make([]string, 0, len(b.reqs))
		for _, l := range b.reqs {
			d.Requirements = append(d.Requirements, l.Name)
		}
	}
	b.mu.Unlock()
	return json.Marshal(d)
}

// LoadData restores the tank and requirements; unknown liquids are an error
func (b *StreamClientBuild) LoadData(data []byte, _ int) error {
	var d clientData
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("stream client data: %w", err)
	}
	cat := b.Block().env.Liquids
	stored := make(map[*liquid.Liquid]float64, len(d.Stored))
	for name, v := range d.Stored {
		l, ok := cat.Get(name)
		if !ok {
			return fmt.Errorf("stream client data: unknown liquid %q", name)
		}
		stored[l] = v
	}
	reqs, err := resolveLiquids(cat, d.Requirements)
	if err != nil {
		return fmt.Errorf("stream client data: %w", err)
	}
	b.mu.Lock()
	b.stored = stored
	b.mu.Unlock()
	b.SetRequirements(reqs)
	return nil
}
