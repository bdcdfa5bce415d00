package geom

import "math"

// Bounds is the drawable region in logical units. Particles are kept
// within [EdgeBuffer, Width-EdgeBuffer] on x and the same on y.
type Bounds struct {
	Width, Height float64
	EdgeBuffer    float64
}

func NewBounds(w, h, edge float64) Bounds {
	return Bounds{Width: w, Height: h, EdgeBuffer: edge}
}

func (b Bounds) MinX() float64 { return b.EdgeBuffer }
func (b Bounds) MinY() float64 { return b.EdgeBuffer }
func (b Bounds) MaxX() float64 { return math.Max(b.EdgeBuffer, b.Width-b.EdgeBuffer) }
func (b Bounds) MaxY() float64 { return math.Max(b.EdgeBuffer, b.Height-b.EdgeBuffer) }

func (b Bounds) MinDim() float64 { return math.Min(b.Width, b.Height) }

func (b Bounds) Clamp(p LogicalPoint) LogicalPoint {
	return LogicalPoint{
		X: clamp(p.X, b.MinX(), b.MaxX()),
		Y: clamp(p.Y, b.MinY(), b.MaxY()),
	}
}

// ClampInset clamps p to the buffered region shrunk by inset on every
// side. The result still satisfies Clamp when the inset region collapses.
func (b Bounds) ClampInset(p LogicalPoint, inset float64) LogicalPoint {
	lo, hiX, hiY := b.MinX()+inset, b.MaxX()-inset, b.MaxY()-inset
	p.X = clamp(p.X, lo, math.Max(lo, hiX))
	p.Y = clamp(p.Y, lo, math.Max(lo, hiY))
	return b.Clamp(p)
}

// Contains reports whether p lies in the raw drawable rectangle widened
// by tolerance on every side.
func (b Bounds) Contains(p LogicalPoint, tolerance float64) bool {
	return p.X >= -tolerance && p.X <= b.Width+tolerance &&
		p.Y >= -tolerance && p.Y <= b.Height+tolerance
}

// Random returns a uniformly scattered point inside the buffered region.
func (b Bounds) Random(r interface{ Float64() float64 }) LogicalPoint {
	return LogicalPoint{
		X: b.MinX() + r.Float64()*(b.MaxX()-b.MinX()),
		Y: b.MinY() + r.Float64()*(b.MaxY()-b.MinY()),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
