package geom

import "math"

// Rect is an axis-aligned box in viewport coordinates.
// Right-Left equals Width and Bottom-Top equals Height.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Bottom float64 `json:"bottom"`
	Right  float64 `json:"right"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is a 2-D location.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect builds a Rect from its top-left corner and dimensions.
func NewRect(x, y, width, height float64) Rect {
	return Rect{
		Top:    y,
		Left:   x,
		Bottom: y + height,
		Right:  x + width,
		Width:  width,
		Height: height,
	}
}

// FromEdges builds a Rect from its four edges.
func FromEdges(top, left, bottom, right float64) Rect {
	return Rect{
		Top:    top,
		Left:   left,
		Bottom: bottom,
		Right:  right,
		Width:  right - left,
		Height: bottom - top,
	}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.Left, Y: r.Top} }

// Size returns the dimensions.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Area returns Width*Height, or 0 for degenerate rectangles.
func (r Rect) Area() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// CenterX returns the horizontal midpoint.
func (r Rect) CenterX() float64 { return r.Left + r.Width/2 }

// CenterY returns the vertical midpoint.
func (r Rect) CenterY() float64 { return r.Top + r.Height/2 }

// Translate returns the rectangle moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return NewRect(r.Left+dx, r.Top+dy, r.Width, r.Height)
}

// Inset returns the rectangle shrunk by m on every edge.
func (r Rect) Inset(m float64) Rect {
	return FromEdges(r.Top+m, r.Left+m, r.Bottom-m, r.Right-m)
}

// Contains reports whether other lies entirely within r. Shared edges count.
func (r Rect) Contains(other Rect) bool {
	return other.Left >= r.Left && other.Top >= r.Top &&
		other.Right <= r.Right && other.Bottom <= r.Bottom
}

// ContainsPoint reports whether p lies within r, edges included.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// Valid reports whether the edge and dimension fields agree within tolerance.
func (r Rect) Valid() bool {
	const eps = 1e-6
	return math.Abs(r.Right-r.Left-r.Width) < eps && math.Abs(r.Bottom-r.Top-r.Height) < eps
}

// RoundRect floors every field of r. Viewport rectangles are always integer
// aligned, so measured rectangles are floored before comparing against them
// to avoid sub-pixel false negatives under zoom.
func RoundRect(r Rect) Rect {
	return Rect{
		Top:    math.Floor(r.Top),
		Left:   math.Floor(r.Left),
		Bottom: math.Floor(r.Bottom),
		Right:  math.Floor(r.Right),
		Width:  math.Floor(r.Width),
		Height: math.Floor(r.Height),
	}
}

// SubtractOverflows returns length minus the sum of the positive overflows.
// Each overflow is clamped to zero first; the result may be negative when
// the overflows together exceed the length.
func SubtractOverflows(length float64, overflows ...float64) float64 {
	for _, o := range overflows {
		length -= math.Max(o, 0)
	}
	return length
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// IsZero reports whether p is the origin.
func (p Point) IsZero() bool { return p.X == 0 && p.Y == 0 }
