package geom

import "math"

type Vec struct {
	X, Y float64
}

func (v Vec) Add(o Vec) Vec       { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec       { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Scale(f float64) Vec { return Vec{v.X * f, v.Y * f} }
func (v Vec) LenSq() float64      { return v.X*v.X + v.Y*v.Y }
func (v Vec) Len() float64        { return math.Sqrt(v.LenSq()) }
func (v Vec) Angle() float64      { return math.Atan2(v.Y, v.X) }
func (v Vec) IsZero() bool        { return v.X == 0 && v.Y == 0 }

func FromPolar(angle, mag float64) Vec {
	return Vec{math.Cos(angle) * mag, math.Sin(angle) * mag}
}

// LogicalPoint is a position in DPI-independent units. All simulation
// state lives in this space.
type LogicalPoint struct {
	X, Y float64
}

// PhysicalPoint is a position in device pixels.
type PhysicalPoint struct {
	X, Y float64
}

func (p LogicalPoint) Add(v Vec) LogicalPoint { return LogicalPoint{p.X + v.X, p.Y + v.Y} }

// Sub returns the vector from o to p.
func (p LogicalPoint) Sub(o LogicalPoint) Vec { return Vec{p.X - o.X, p.Y - o.Y} }

func (p LogicalPoint) DistSq(o LogicalPoint) float64 { return p.Sub(o).LenSq() }

// Scale converts between logical and physical coordinates.
type Scale struct {
	Factor float64
}

func (s Scale) factor() float64 {
	if s.Factor <= 0 {
		return 1
	}
	return s.Factor
}

func (s Scale) ToPhysical(p LogicalPoint) PhysicalPoint {
	f := s.factor()
	return PhysicalPoint{p.X * f, p.Y * f}
}

func (s Scale) ToLogical(p PhysicalPoint) LogicalPoint {
	f := s.factor()
	return LogicalPoint{p.X / f, p.Y / f}
}

// Length converts a logical length to physical pixels.
func (s Scale) Length(l float64) float64 { return l * s.factor() }

// PhysicalSize returns the device pixel dimensions for a logical size.
func (s Scale) PhysicalSize(w, h float64) (int, int) {
	f := s.factor()
	return int(math.Ceil(w * f)), int(math.Ceil(h * f))
}
