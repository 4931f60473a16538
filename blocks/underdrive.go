package blocks

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/cyberio/anim"
	"github.com/lixenwraith/cyberio/audio"
	"github.com/lixenwraith/cyberio/block"
	"github.com/lixenwraith/cyberio/config"
	"github.com/lixenwraith/cyberio/render"
	"github.com/lixenwraith/cyberio/status"
	"github.com/lixenwraith/cyberio/tile"
	"github.com/lixenwraith/cyberio/world"
)

const (
	MagicNSpiralRate = 0.1125
	MagicNSpiralMin  = 0.025
	MinSpiralSpeed   = 3.5
	MaxSpiralSpeed   = 16.0
	MagicAlpha       = 0.8
)

// Underdrive animation states
const (
	StateIdle     = "idle"
	StateSpinning = "spinning"
)

// Attenuation is how nearby projectors weaken each other
type Attenuation int

const (
	AttenuationNone Attenuation = iota
	AttenuationExponential
	AttenuationAdditive
)

// ParseAttenuation maps a config name to an Attenuation
func ParseAttenuation(s string) (Attenuation, error) {
	switch s {
	case "none":
		return AttenuationNone, nil
	case "", "exponential":
		return AttenuationExponential, nil
	case "additive":
		return AttenuationAdditive, nil
	}
	return 0, fmt.Errorf("unknown attenuation %q", s)
}

var spiralFrames = []rune{'◐', '◓', '◑', '◒'}

// UnderdriveProjector slows every overdrivable building in range and turns
// the slowdown into power efficiency
type UnderdriveProjector struct {
	block.Animated[*UnderdriveProjector, *UnderdriveBuild]

	Reload                float64
	Range                 float64
	MaxSlowDownRate       float64
	SpiralRotateSpeed     float64
	Attenuation           Attenuation
	AttenuationRateStep   float64
	SlowDownRateEFFReward float64
	MaxPowerEFFBlocksReq  int
	MaxGear               int
	Color                 tcell.Color

	env Env
}

// NewUnderdriveProjector builds the block type from config
func NewUnderdriveProjector(name string, opts block.Options, cfg config.Underdrive, env Env) (*UnderdriveProjector, error) {
	att, err := ParseAttenuation(cfg.Attenuation)
	if err != nil {
		return nil, fmt.Errorf("block %s: %w", name, err)
	}
	p := &UnderdriveProjector{
		Reload:                cfg.Reload,
		Range:                 cfg.Range,
		MaxSlowDownRate:       cfg.MaxSlowDownRate,
		SpiralRotateSpeed:     cfg.SpiralRotateSpeed,
		Attenuation:           att,
		AttenuationRateStep:   cfg.AttenuationRateStep,
		SlowDownRateEFFReward: cfg.SlowDownRateEFFReward,
		MaxPowerEFFBlocksReq:  max(1, cfg.MaxPowerEFFBlocksReq),
		MaxGear:               max(1, cfg.MaxGear),
		Color:                 render.RgbLightBlue,
		env:                   env,
	}
	if cfg.Color != "" {
		p.Color = tcell.GetColor(cfg.Color)
	}
	if p.Reload <= 0 {
		return nil, fmt.Errorf("block %s: reload must be positive", name)
	}

	err = p.Init(p, name, opts, block.Definition[*UnderdriveProjector, *UnderdriveBuild]{
		States: p.genStates,
		Config: p.genConfig,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (p *UnderdriveProjector) genStates(r *anim.Registry[*UnderdriveProjector, *UnderdriveBuild]) {
	r.Add(anim.NewState[*UnderdriveProjector, *UnderdriveBuild](StateIdle, nil, nil))
	r.Add(anim.NewState(StateSpinning,
		func(p *UnderdriveProjector, b *UnderdriveBuild) {
			speed := b.lastRealSpiralRotateSpeed
			if b.underdrivedBlocks != 0 {
				speed = b.RealSpiralRotateSpeed()
			}
			b.spin += speed * b.World().Delta() / 60
		},
		func(c render.Canvas, p *UnderdriveProjector, b *UnderdriveBuild) {
			x, y := b.Pos().X(), b.Pos().Y()
			ring := render.Styled(render.Fade(p.Color, b.Alpha()))
			render.DashCircle(c, x, y, b.buildingProgress*b.RealRange(), b.spin, ring)
			frame := spiralFrames[int(math.Floor(b.spin*4))%len(spiralFrames)]
			render.Put(c, x, y, frame, render.Styled(p.Color).Bold(true))
		},
	))
}

func (p *UnderdriveProjector) genConfig(r *anim.Registry[*UnderdriveProjector, *UnderdriveBuild]) *anim.Config[*UnderdriveProjector, *UnderdriveBuild] {
	return anim.NewConfig(r).
		Default(StateIdle).
		From(StateIdle).To(StateSpinning).When(func(_ *UnderdriveProjector, b *UnderdriveBuild) bool {
			return b.CanShowSpiral()
		}).
		From(StateSpinning).To(StateIdle).When(func(_ *UnderdriveProjector, b *UnderdriveBuild) bool {
			return !b.CanShowSpiral()
		}).
		OnTransition(func(p *UnderdriveProjector, b *UnderdriveBuild, _, to *anim.State[*UnderdriveProjector, *UnderdriveBuild]) {
			countTransition(b.World())
			if to.Name() == StateSpinning {
				p.env.play(audio.CueSpinUp)
			} else {
				p.env.play(audio.CueSpinDown)
			}
		})
}

// Create implements registry.BlockType
func (p *UnderdriveProjector) Create(w *world.World, pos tile.Pos, team tile.Team) world.Building {
	return p.NewBuild(w, pos, team)
}

// NewBuild creates an unplaced building of this type
func (p *UnderdriveProjector) NewBuild(w *world.World, pos tile.Pos, team tile.Team) *UnderdriveBuild {
	b := &UnderdriveBuild{
		charge:  p.Reload,
		curGear: 1,
	}
	b.Create(&p.Animated, b, w, pos, team)
	return b
}

// UnderdriveBuild is a placed underdrive projector
type UnderdriveBuild struct {
	block.Building[*UnderdriveProjector, *UnderdriveBuild]

	charge                    float64
	curGear                   int
	buildingProgress          float64
	underdrivedBlocks         int
	similarInRange            int
	productionEfficiency      float64
	lastRealSpiralRotateSpeed float64
	spin                      float64
}

// CurGear returns the selected gear, 1-based
func (b *UnderdriveBuild) CurGear() int {
	return b.curGear
}

// Configure selects a gear, clamped to [1, MaxGear]
func (b *UnderdriveBuild) Configure(gear int) {
	b.curGear = min(max(gear, 1), b.Block().MaxGear)
}

// ConfigClear returns to the first gear
func (b *UnderdriveBuild) ConfigClear() {
	b.curGear = 1
}

// UnderdrivedBlocks is the number of buildings slowed on the last cycle
func (b *UnderdriveBuild) UnderdrivedBlocks() int {
	return b.underdrivedBlocks
}

// SimilarInRange is the number of other projectors seen on the last cycle
func (b *UnderdriveBuild) SimilarInRange() int {
	return b.similarInRange
}

// ProductionEfficiency is the power output factor
func (b *UnderdriveBuild) ProductionEfficiency() float64 {
	return b.productionEfficiency
}

// BuildingProgress is the spiral build-up in [0, 1]
func (b *UnderdriveBuild) BuildingProgress() float64 {
	return b.buildingProgress
}

func (b *UnderdriveBuild) RealRange() float64 {
	return b.Block().Range
}

// RealSlowDown is the fraction of speed taken from targets
func (b *UnderdriveBuild) RealSlowDown() float64 {
	p := b.Block()
	if p.MaxGear == 1 {
		return p.MaxSlowDownRate
	}
	return p.MaxSlowDownRate * float64(b.curGear) / float64(p.MaxGear)
}

// RestEfficiency is the speed targets keep
func (b *UnderdriveBuild) RestEfficiency() float64 {
	return 1 - b.RealSlowDown()
}

func (b *UnderdriveBuild) Alpha() float64 {
	return MagicAlpha
}

// CanShowSpiral reports whether the spiral is visible
func (b *UnderdriveBuild) CanShowSpiral() bool {
	return b.buildingProgress > 0 || b.underdrivedBlocks != 0
}

// SimilarAttenuationFactor weakens output for every other projector in range
func (b *UnderdriveBuild) SimilarAttenuationFactor() float64 {
	p := b.Block()
	switch p.Attenuation {
	case AttenuationExponential:
		return math.Pow(p.AttenuationRateStep, float64(b.similarInRange))
	case AttenuationAdditive:
		return math.Max(0, 1-float64(b.similarInRange)*p.AttenuationRateStep)
	default:
		return 1
	}
}

// RealSpiralRotateSpeed is the spiral speed, remembered while targets exist
func (b *UnderdriveBuild) RealSpiralRotateSpeed() float64 {
	p := b.Block()
	if !b.CanShowSpiral() {
		return 0
	}
	percent := float64(b.underdrivedBlocks) / float64(p.MaxPowerEFFBlocksReq)
	factor := lerp(2*percent+0.5, percent*percent, 0.5)
	speed := p.SpiralRotateSpeed * factor * b.SimilarAttenuationFactor() * (1 + b.RealSlowDown()/2)
	speed = min(max(speed, MinSpiralSpeed), MaxSpiralSpeed)
	if b.underdrivedBlocks != 0 {
		b.lastRealSpiralRotateSpeed = speed
	}
	return speed
}

func (b *UnderdriveBuild) forEachTargetInRange(fn func(world.Booster)) {
	b.World().EachInRange(b.Pos(), b.RealRange(), nil, func(o world.Building) {
		if t, ok := o.(world.Booster); ok && t.CanOverdrive() {
			fn(t)
		}
	})
}

// FixedUpdateTile advances the reload cycle and reapplies the slowdown
func (b *UnderdriveBuild) FixedUpdateTile() {
	p := b.Block()
	w := b.World()
	delta := w.Delta()

	b.charge += delta
	per := delta / p.Reload
	if b.productionEfficiency > 0 {
		b.buildingProgress = min(1, b.buildingProgress+per)
	} else {
		b.buildingProgress = max(0, b.buildingProgress-per)
	}

	if b.charge < p.Reload {
		return
	}
	b.charge = 0

	underdrived, similar := 0, 0
	w.EachInRange(b.Pos(), b.RealRange(), nil, func(o world.Building) {
		if t, ok := o.(world.Booster); ok && t.CanOverdrive() {
			underdrived++
			t.ApplyBoostOrSlow(b.RestEfficiency(), p.Reload+1)
			return
		}
		if other, ok := o.(*UnderdriveBuild); ok && other != b {
			similar++
		}
	})
	b.underdrivedBlocks = underdrived
	b.similarInRange = similar
	w.Status().Ints.Get(status.UnderdriveTarget).Store(int64(underdrived))

	if underdrived == 0 {
		b.productionEfficiency = 0
		return
	}
	absorption := math.Min(float64(underdrived)/float64(p.MaxPowerEFFBlocksReq), 2)
	reward := b.RealSlowDown() * p.SlowDownRateEFFReward
	b.productionEfficiency = (absorption + reward) * b.SimilarAttenuationFactor()
}

var powerLevels = []rune(" ▁▂▃▄▅▆▇█")

// FixedDraw draws the projector body with its power output below
func (b *UnderdriveBuild) FixedDraw(c render.Canvas) {
	x, y := b.Pos().X(), b.Pos().Y()
	render.Put(c, x, y, '▼', render.Styled(b.Block().Color))
	level := int(math.Round(min(b.productionEfficiency, 1) * float64(len(powerLevels)-1)))
	if level > 0 {
		render.Put(c, x, y+1, powerLevels[level], render.Styled(render.RgbPowerBar))
	}
}

// OnRemoved releases every slowed target and winds a visible spiral down
func (b *UnderdriveBuild) OnRemoved() {
	b.forEachTargetInRange(func(t world.Booster) {
		t.ResetBoost()
	})
	if b.CanShowSpiral() {
		b.Block().env.play(audio.CueSpinDown)
	}
	b.Building.OnRemoved()
}

type underdriveData struct {
	CurGear           int `json:"cur_gear"`
	UnderdrivedBlocks int `json:"underdrived_blocks"`
	SimilarInRange    int `json:"similar_in_range"`
}

// SaveData encodes the persisted fields
func (b *UnderdriveBuild) SaveData() ([]byte, error) {
	return json.Marshal(underdriveData{
		CurGear:           b.curGear,
		UnderdrivedBlocks: b.underdrivedBlocks,
		SimilarInRange:    b.similarInRange,
	})
}

// LoadData restores fields written by SaveData
func (b *UnderdriveBuild) LoadData(data []byte, _ int) error {
	var d underdriveData
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("underdrive data: %w", err)
	}
	b.Configure(d.CurGear)
	b.underdrivedBlocks = d.UnderdrivedBlocks
	b.similarInRange = d.SimilarInRange
	return nil
}

func lerp(from, to, t float64) float64 {
	return from + (to-from)*t
}
