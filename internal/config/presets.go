package config

import (
	"sort"
	"time"
)

var Presets = map[string]func(*Config){
	"default": func(*Config) {},
	"dense": func(c *Config) {
		c.Particles.Count = 12000
		c.Interaction.AttractionPercent = 0.0005
	},
	"sparse": func(c *Config) {
		c.Particles.Count = 1200
		c.Interaction.AttractionPercent = 0.005
		c.Background.Levels = 4
	},
	"calm": func(c *Config) {
		c.Interaction.DragFactor = 0.9
		c.Interaction.FlickSpeed = 2
		c.Interaction.MaxDuration = 20 * time.Second
		c.Particles.TwinkleStep = 0.03
	},
	"release": func(c *Config) {
		c.Interaction.ReleaseOnEnd = true
	},
	"mobile": func(c *Config) {
		c.Particles.Count = 2000
		c.Interaction.TouchBuffer = 12
		c.Render.TPS = 30
	},
}

// GetPreset returns a fresh config with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
