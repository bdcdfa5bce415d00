package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/san-kum/stardust/internal/palette"
	"github.com/san-kum/stardust/internal/particle"
	"gopkg.in/yaml.v3"
)

const (
	DefaultParticleCount     = 5000
	DefaultBaseRadius        = 15.0
	DefaultMaxDuration       = 10 * time.Second
	DefaultAttractionSpeed   = 0.1
	DefaultAttractionPercent = 0.001
	DefaultFlickDistance     = 5.0
	DefaultFlickSpeed        = 5.0
	DefaultFlickJitterDeg    = 10.0
	DefaultDragFactor        = 0.98
	DefaultVelocityThreshold = 0.1
	DefaultEdgeBuffer        = 1.0
	DefaultTouchBuffer       = 5.0
	DefaultDriftSpeed        = 0.005
	DefaultTwinkleStep       = 0.1
	DefaultRegularSize       = 1.0
	DefaultFamilySize        = 3.0
	DefaultBloomOffset       = 6.0
	DefaultTPS               = 60
	DefaultLevels            = 6
	DefaultWidth             = 1280
	DefaultHeight            = 800
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Particles   ParticleConfig    `yaml:"particles"`
	Interaction InteractionConfig `yaml:"interaction"`
	Family      []FamilyMember    `yaml:"family"`
	Background  BackgroundConfig  `yaml:"background"`
	Render      RenderConfig      `yaml:"render"`
	Seed        int64             `yaml:"seed"`
}

type ParticleConfig struct {
	Count       int     `yaml:"count"`
	RegularSize float64 `yaml:"regular_size"`
	FamilySize  float64 `yaml:"family_size"`
	DriftSpeed  float64 `yaml:"drift_speed"`
	TwinkleStep float64 `yaml:"twinkle_step"`
}

type InteractionConfig struct {
	BaseRadius        float64       `yaml:"base_radius"`
	MaxDuration       time.Duration `yaml:"max_duration"`
	AttractionSpeed   float64       `yaml:"attraction_speed"`
	AttractionPercent float64       `yaml:"attraction_percent"`
	FlickDistance     float64       `yaml:"flick_distance"`
	FlickSpeed        float64       `yaml:"flick_speed"`
	FlickJitterDeg    float64       `yaml:"flick_jitter_deg"`
	DragFactor        float64       `yaml:"drag_factor"`
	VelocityThreshold float64       `yaml:"velocity_threshold"`
	EdgeBuffer        float64       `yaml:"edge_buffer"`
	TouchBuffer       float64       `yaml:"touch_buffer"`
	// ReleaseOnEnd frees every attracted particle when an interaction
	// ends. Off by default: attracted particles stay captured.
	ReleaseOnEnd bool `yaml:"release_on_end"`
}

type FamilyMember struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

type BackgroundConfig struct {
	Top    string `yaml:"top"`
	Bottom string `yaml:"bottom"`
	Levels int    `yaml:"levels"`
}

type RenderConfig struct {
	BloomOffset float64 `yaml:"bloom_offset"`
	TPS         int     `yaml:"tps"`
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
}

func DefaultFamily() []FamilyMember {
	return []FamilyMember{
		{Name: "Daisy", Color: "rgb(78, 237, 229)"},
		{Name: "Elliot", Color: "rgb(93, 98, 245)"},
		{Name: "Cassie", Color: "rgb(189, 109, 242)"},
		{Name: "Lewis", Color: "rgb(250, 151, 75)"},
	}
}

func DefaultConfig() *Config {
	return &Config{
		Particles: ParticleConfig{
			Count:       DefaultParticleCount,
			RegularSize: DefaultRegularSize,
			FamilySize:  DefaultFamilySize,
			DriftSpeed:  DefaultDriftSpeed,
			TwinkleStep: DefaultTwinkleStep,
		},
		Interaction: InteractionConfig{
			BaseRadius:        DefaultBaseRadius,
			MaxDuration:       DefaultMaxDuration,
			AttractionSpeed:   DefaultAttractionSpeed,
			AttractionPercent: DefaultAttractionPercent,
			FlickDistance:     DefaultFlickDistance,
			FlickSpeed:        DefaultFlickSpeed,
			FlickJitterDeg:    DefaultFlickJitterDeg,
			DragFactor:        DefaultDragFactor,
			VelocityThreshold: DefaultVelocityThreshold,
			EdgeBuffer:        DefaultEdgeBuffer,
			TouchBuffer:       DefaultTouchBuffer,
		},
		Family: DefaultFamily(),
		Background: BackgroundConfig{
			Top:    "#05060f",
			Bottom: "#1b1f3a",
			Levels: DefaultLevels,
		},
		Render: RenderConfig{
			BloomOffset: DefaultBloomOffset,
			TPS:         DefaultTPS,
			Width:       DefaultWidth,
			Height:      DefaultHeight,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c *Config) Validate() error {
	in := c.Interaction
	switch {
	case c.Particles.Count < len(c.Family):
		return fmt.Errorf("%w: particle count %d smaller than family size %d", ErrInvalidConfig, c.Particles.Count, len(c.Family))
	case in.DragFactor <= 0 || in.DragFactor >= 1:
		return fmt.Errorf("%w: drag factor must be in (0, 1), got %f", ErrInvalidConfig, in.DragFactor)
	case in.VelocityThreshold <= 0:
		return fmt.Errorf("%w: velocity threshold must be positive, got %f", ErrInvalidConfig, in.VelocityThreshold)
	case in.BaseRadius < 0:
		return fmt.Errorf("%w: base radius must not be negative, got %f", ErrInvalidConfig, in.BaseRadius)
	case in.AttractionPercent < 0 || in.AttractionPercent > 1:
		return fmt.Errorf("%w: attraction percent must be in [0, 1], got %f", ErrInvalidConfig, in.AttractionPercent)
	case in.AttractionSpeed < 0 || in.AttractionSpeed > 1:
		return fmt.Errorf("%w: attraction speed must be in [0, 1], got %f", ErrInvalidConfig, in.AttractionSpeed)
	case in.EdgeBuffer < 0:
		return fmt.Errorf("%w: edge buffer must not be negative, got %f", ErrInvalidConfig, in.EdgeBuffer)
	case c.Background.Levels < 2:
		return fmt.Errorf("%w: background needs at least 2 levels, got %d", ErrInvalidConfig, c.Background.Levels)
	case c.Render.TPS <= 0:
		return fmt.Errorf("%w: tps must be positive, got %d", ErrInvalidConfig, c.Render.TPS)
	}
	return nil
}

// AttractionCap is the number of particles one attraction pass may
// capture. Zero is valid and turns attraction into a no-op.
func (c *Config) AttractionCap() int {
	return int(math.Floor(float64(c.Particles.Count) * c.Interaction.AttractionPercent))
}

// FlickJitter is the half-width of the flick angle jitter in radians.
func (c *Config) FlickJitter() float64 {
	return c.Interaction.FlickJitterDeg * math.Pi / 180
}

func (c *Config) Members() []particle.Member {
	members := make([]particle.Member, len(c.Family))
	for i, f := range c.Family {
		members[i] = particle.Member{Name: f.Name, Color: f.Color}
	}
	return members
}

// ColorErrors reports every colour that will fall back to white when
// parsed. Malformed colours are not fatal, so Validate ignores them.
func (c *Config) ColorErrors() []error {
	var errs []error
	for _, f := range c.Family {
		if _, err := palette.ParseStrict(f.Color); err != nil {
			errs = append(errs, fmt.Errorf("family %s: %w", f.Name, err))
		}
	}
	for _, bg := range []struct{ name, spec string }{
		{"background top", c.Background.Top},
		{"background bottom", c.Background.Bottom},
	} {
		if _, err := palette.ParseStrict(bg.spec); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", bg.name, err))
		}
	}
	return errs
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Family = append([]FamilyMember(nil), c.Family...)
	return &cp
}
