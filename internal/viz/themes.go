package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/stardust/internal/config"
)

// Theme pairs a background gradient with the status line colours.
type Theme struct {
	Name   string
	Top    string
	Bottom string
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
}

// Available themes
var (
	ThemeNight = Theme{
		Name:   "night",
		Top:    "#05060f",
		Bottom: "#1b1f3a",
		Accent: lipgloss.Color("#4eede5"),
		Text:   lipgloss.Color("#e6e8ff"),
		Muted:  lipgloss.Color("#5a5f86"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Top:    "#000800",
		Bottom: "#003300",
		Accent: lipgloss.Color("#88ff88"),
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
	}

	ThemeMinimal = Theme{
		Name:   "minimal",
		Top:    "#000000",
		Bottom: "#202020",
		Accent: lipgloss.Color("#0088ff"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#888888"),
	}

	ThemeOcean = Theme{
		Name:   "ocean",
		Top:    "#020b1a",
		Bottom: "#0a3d5c",
		Accent: lipgloss.Color("#5d62f5"),
		Text:   lipgloss.Color("#d0f0ff"),
		Muted:  lipgloss.Color("#4a6b8a"),
	}

	ThemeSunset = Theme{
		Name:   "sunset",
		Top:    "#1a0a1f",
		Bottom: "#5c2a3a",
		Accent: lipgloss.Color("#fa974b"),
		Text:   lipgloss.Color("#ffe8d6"),
		Muted:  lipgloss.Color("#8b6b8c"),
	}

	Themes = []Theme{
		ThemeNight,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to night.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNight
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// ConfigTheme takes its gradient from the configured background.
func ConfigTheme(bg config.BackgroundConfig) Theme {
	t := ThemeNight
	t.Name = "config"
	t.Top, t.Bottom = bg.Top, bg.Bottom
	return t
}

// NextTheme cycles through the configured theme followed by the built-in
// ones.
func NextTheme(current Theme, cfgTheme Theme) Theme {
	order := append([]Theme{cfgTheme}, Themes...)
	for i, t := range order {
		if t.Name == current.Name {
			return order[(i+1)%len(order)]
		}
	}
	return cfgTheme
}
