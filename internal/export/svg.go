// Package export writes simulation frames and run series as SVG.
package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"github.com/san-kum/stardust/internal/geom"
	"github.com/san-kum/stardust/internal/palette"
	"github.com/san-kum/stardust/internal/render"
)

// SVGSink collects draw calls as SVG elements. Family glows become radial
// gradients, so the sink also tracks the defs block.
type SVGSink struct {
	defs  strings.Builder
	body  strings.Builder
	glows int
}

func NewSVGSink() *SVGSink { return &SVGSink{} }

func (s *SVGSink) DrawRegular(p geom.LogicalPoint, radius, alpha float64) {
	fmt.Fprintf(&s.body, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="#ffffff" fill-opacity="%.3f"/>
`, p.X, p.Y, radius, alpha)
}

func (s *SVGSink) DrawFamily(p geom.LogicalPoint, radius float64, c palette.RGB, glowRadius, glowIntensity float64) {
	id := fmt.Sprintf("glow%d", s.glows)
	s.glows++

	fmt.Fprintf(&s.defs, `<radialGradient id="%s"><stop offset="0" stop-color="%s" stop-opacity="%.3f"/><stop offset="1" stop-color="%s" stop-opacity="0"/></radialGradient>
`, id, c.Hex(), clamp01(glowIntensity), c.Hex())
	fmt.Fprintf(&s.body, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="url(#%s)"/>
<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>
`, p.X, p.Y, glowRadius, id, p.X, p.Y, radius, c.Hex())
}

// Glows is the number of family particles drawn so far.
func (s *SVGSink) Glows() int { return s.glows }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// errWriter keeps the first write error and skips later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func (e *errWriter) write(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}

// WriteSVG renders one frame of src over bg, which is embedded as a PNG
// data URI. The SVG is sized in logical units.
func WriteSVG(w io.Writer, bg image.Image, src render.Source, width, height float64, o render.Options) error {
	sink := NewSVGSink()
	render.Frame(src, sink, o)

	ew := &errWriter{w: w}
	ew.printf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
`, width, height, width, height)

	if sink.defs.Len() > 0 {
		ew.printf("<defs>\n%s</defs>\n", sink.defs.String())
	}

	if bg != nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, bg); err != nil {
			return fmt.Errorf("export: encode background: %w", err)
		}
		ew.printf(`<image width="%.0f" height="%.0f" preserveAspectRatio="none" style="image-rendering:pixelated" href="data:image/png;base64,%s"/>
`, width, height, base64.StdEncoding.EncodeToString(buf.Bytes()))
	} else {
		ew.write(`<rect width="100%" height="100%" fill="#000000"/>
`)
	}

	ew.write(sink.body.String())
	ew.write("</svg>\n")
	if ew.err != nil {
		return fmt.Errorf("export: write svg: %w", ew.err)
	}
	return nil
}

// SeriesToSVG plots values as a polyline scaled to width x height.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	rangeX := float64(len(values) - 1)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#05060f"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, v := range values {
		x := float64(i) / rangeX * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
