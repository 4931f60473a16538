package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/cyberio/block"
	"github.com/lixenwraith/cyberio/liquid"
)

//go:embed schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("mod.schema.json", schemaJSON)

// Config is the startup configuration of the mod
type Config struct {
	// Animations switches the animation state machines on for every block type
	Animations bool `yaml:"animations"`
	Audio      bool `yaml:"audio"`
	TickRateHz int  `yaml:"tick_rate_hz"`

	Liquids []liquid.Def `yaml:"liquids"`

	Underdrive   Underdrive   `yaml:"underdrive"`
	StreamHost   StreamHost   `yaml:"stream_host"`
	StreamClient StreamClient `yaml:"stream_client"`
}

type Underdrive struct {
	Reload                float64 `yaml:"reload"`
	Range                 float64 `yaml:"range"`
	MaxSlowDownRate       float64 `yaml:"max_slow_down_rate"`
	SpiralRotateSpeed     float64 `yaml:"spiral_rotate_speed"`
	Attenuation           string  `yaml:"attenuation"`
	AttenuationRateStep   float64 `yaml:"attenuation_rate_step"`
	SlowDownRateEFFReward float64 `yaml:"slow_down_rate_eff_reward"`
	MaxPowerEFFBlocksReq  int     `yaml:"max_power_eff_blocks_req"`
	MaxGear               int     `yaml:"max_gear"`
	Color                 string  `yaml:"color"`
}

type StreamHost struct {
	Source         string  `yaml:"source"`
	Capacity       float64 `yaml:"capacity"`
	ProducePerTick float64 `yaml:"produce_per_tick"`
	OutputPerTick  float64 `yaml:"output_per_tick"`
	MaxClients     int     `yaml:"max_clients"`
}

type StreamClient struct {
	// Capacity <= 0 accepts any amount
	Capacity       float64  `yaml:"capacity"`
	ConsumePerTick float64  `yaml:"consume_per_tick"`
	MaxHosts       int      `yaml:"max_hosts"`
	Requirements   []string `yaml:"requirements"`
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Animations: true,
		Audio:      false,
		TickRateHz: 60,
		Liquids: []liquid.Def{
			{Name: "water", Glyph: "≈", Color: "#596ab8"},
			{Name: "cryofluid", Glyph: "*", Color: "#6ecdec"},
			{Name: "oil", Glyph: "~", Color: "#313131"},
		},
		Underdrive: Underdrive{
			Reload:                60,
			Range:                 5,
			MaxSlowDownRate:       0.2,
			SpiralRotateSpeed:     2,
			Attenuation:           "exponential",
			AttenuationRateStep:   0.5,
			SlowDownRateEFFReward: 0.3,
			MaxPowerEFFBlocksReq:  10,
			MaxGear:               1,
			Color:                 "#87cefa",
		},
		StreamHost: StreamHost{
			Source:         "water",
			Capacity:       100,
			ProducePerTick: 2,
			OutputPerTick:  3,
			MaxClients:     4,
		},
		StreamClient: StreamClient{
			Capacity:       20,
			ConsumePerTick: 0.5,
			MaxHosts:       2,
		},
	}
}

// Load reads and validates a YAML config file
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(raw)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse validates raw YAML against the schema and decodes it over Defaults
func Parse(raw []byte) (Config, error) {
	if err := validate(raw); err != nil {
		return Config{}, err
	}
	cfg := Defaults()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode: %w", err)
	}
	return cfg, nil
}

// BlockOptions derives the block construction switches
func (c Config) BlockOptions() block.Options {
	return block.Options{Animations: c.Animations}
}

// validate runs the schema over the YAML document converted to JSON values
func validate(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if doc == nil {
		return nil
	}
	js, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(js))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}
