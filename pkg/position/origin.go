package position

import "github.com/matzehuels/tether/pkg/geom"

// Measurable is anything with a rendered rectangle.
type Measurable interface {
	Rect() geom.Rect
}

// Origin is what an overlay is positioned against: an [ElementOrigin],
// a [PointOrigin] or a [RectOrigin].
type Origin interface {
	isOrigin()
}

// ElementOrigin positions against a live element, measured on every pass.
type ElementOrigin struct {
	Element Measurable
}

// PointOrigin positions against a point with an optional size.
type PointOrigin struct {
	X, Y          float64
	Width, Height float64
}

// RectOrigin positions against a fixed rectangle.
type RectOrigin geom.Rect

func (ElementOrigin) isOrigin() {}
func (PointOrigin) isOrigin()   {}
func (RectOrigin) isOrigin()    {}

// ResolveOrigin measures o. A nil origin or element resolves to the zero rectangle.
func ResolveOrigin(o Origin) geom.Rect {
	switch o := o.(type) {
	case ElementOrigin:
		if o.Element == nil {
			return geom.Rect{}
		}
		return o.Element.Rect()
	case PointOrigin:
		return geom.NewRect(o.X, o.Y, o.Width, o.Height)
	case RectOrigin:
		return geom.Rect(o)
	}
	return geom.Rect{}
}
