package geometry

import "math"

const (
	// TableSize is the side of the square every table occupies.
	TableSize = 120.0

	MinZoom = 0.3
	MaxZoom = 3.0

	// World coordinates are clamped to this range on every move.
	MinCoord = -800.0
	MaxCoord = 4000.0
)

type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Inflate grows the rect by m on every side.
func (r Rect) Inflate(m float64) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, Width: r.Width + 2*m, Height: r.Height + 2*m}
}

func TableRect(x, y float64) Rect {
	return Rect{X: x, Y: y, Width: TableSize, Height: TableSize}
}

// Overlaps reports whether two rects share interior area. The test is
// half-open: rects that only touch along an edge do not overlap.
func Overlaps(a, b Rect) bool {
	return !(a.Right() <= b.X || a.X >= b.Right() || a.Bottom() <= b.Y || a.Y >= b.Bottom())
}

// ClampZoom keeps the zoom factor inside [MinZoom, MaxZoom] and rounds it
// to two decimals so repeated wheel steps stay stable.
func ClampZoom(z float64) float64 {
	if z < MinZoom {
		z = MinZoom
	}
	if z > MaxZoom {
		z = MaxZoom
	}
	return math.Round(z*100) / 100
}

// ToWorld converts a screen-space delta to world space at the given zoom.
// Zoom is assumed already clamped, so it is never zero.
func ToWorld(dx, dy, zoom float64) (float64, float64) {
	return dx / zoom, dy / zoom
}

// ClampCoord snaps a world coordinate into the canvas range, rounded to a
// whole unit.
func ClampCoord(v float64) float64 {
	if v < MinCoord {
		v = MinCoord
	}
	if v > MaxCoord {
		v = MaxCoord
	}
	return math.Round(v)
}

// NormalizeAngle wraps degrees into [0, 360).
func NormalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
