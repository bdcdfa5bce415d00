// Package palette parses the colour specifications used for family
// particles and the background gradient.
//
// Accepted forms:
//
//	rgb(78, 237, 229)
//	rgba(78, 237, 229, 0.5)   alpha is ignored
//	#4eede5 / #4ee
//	white
//
// [Parse] never fails: a malformed spec yields opaque [White].
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var ErrMalformedColor = errors.New("palette: malformed colour spec")

type RGB struct {
	R, G, B uint8
}

var (
	White = RGB{255, 255, 255}
	Black = RGB{0, 0, 0}
)

var channelPattern = regexp.MustCompile(`\d+`)

func ParseStrict(spec string) (RGB, error) {
	s := strings.ToLower(strings.TrimSpace(spec))
	switch {
	case s == "white":
		return White, nil
	case s == "black":
		return Black, nil
	case strings.HasPrefix(s, "#"):
		c, err := colorful.Hex(s)
		if err != nil {
			return White, fmt.Errorf("%w: %q: %v", ErrMalformedColor, spec, err)
		}
		r, g, b := c.RGB255()
		return RGB{r, g, b}, nil
	case strings.HasPrefix(s, "rgb"):
		parts := channelPattern.FindAllString(s, -1)
		if len(parts) < 3 {
			return White, fmt.Errorf("%w: %q: need three channels", ErrMalformedColor, spec)
		}
		var ch [3]uint8
		for i := 0; i < 3; i++ {
			v, err := strconv.Atoi(parts[i])
			if err != nil || v > 255 {
				return White, fmt.Errorf("%w: %q: channel %d out of range", ErrMalformedColor, spec, i)
			}
			ch[i] = uint8(v)
		}
		return RGB{ch[0], ch[1], ch[2]}, nil
	}
	return White, fmt.Errorf("%w: %q", ErrMalformedColor, spec)
}

// Parse is ParseStrict with the error swallowed.
func Parse(spec string) RGB {
	c, _ := ParseStrict(spec)
	return c
}

// Scale multiplies every channel by mult, flooring and clamping to 0..255.
func (c RGB) Scale(mult float64) RGB {
	return RGB{scaleChannel(c.R, mult), scaleChannel(c.G, mult), scaleChannel(c.B, mult)}
}

// Lighten adds delta to every channel, saturating at 255.
func (c RGB) Lighten(delta int) RGB {
	return RGB{addChannel(c.R, delta), addChannel(c.G, delta), addChannel(c.B, delta)}
}

func (c RGB) NRGBA(alpha float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: alphaByte(alpha)}
}

func (c RGB) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Colorful converts to go-colorful space for blending.
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func scaleChannel(v uint8, mult float64) uint8 {
	f := math.Floor(float64(v) * mult)
	return uint8(math.Max(0, math.Min(255, f)))
}

func addChannel(v uint8, delta int) uint8 {
	n := int(v) + delta
	if n > 255 {
		return 255
	}
	if n < 0 {
		return 0
	}
	return uint8(n)
}

func alphaByte(a float64) uint8 {
	if a <= 0 {
		return 0
	}
	if a >= 1 {
		return 255
	}
	return uint8(math.Round(a * 255))
}
