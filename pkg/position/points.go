package position

import "github.com/matzehuels/tether/pkg/geom"

// originPoint resolves the connection point on the origin rectangle.
// Horizontal centering always starts from Left so RTL cannot flip the sign.
func (s *Strategy) originPoint(origin, container geom.Rect, pos ConnectedPosition) geom.Point {
	var x float64
	if pos.OriginX == CenterX {
		x = origin.Left + origin.Width/2
	} else {
		startX, endX := origin.Left, origin.Right
		if s.isRTL() {
			startX, endX = origin.Right, origin.Left
		}
		x = endX
		if pos.OriginX == Start {
			x = startX
		}
	}

	// A container shifted off the top-left (zoom, pinch) moves the overlay
	// with it; compensate so the overlay still lands on the origin.
	if container.Left < 0 {
		x -= container.Left
	}

	var y float64
	switch pos.OriginY {
	case CenterY:
		y = origin.Top + origin.Height/2
	case Top:
		y = origin.Top
	default:
		y = origin.Bottom
	}
	if container.Top < 0 {
		y -= container.Top
	}

	return geom.Point{X: x, Y: y}
}

// overlayPoint returns the top-left corner the overlay must occupy so that
// its connection point lands on origin.
func (s *Strategy) overlayPoint(origin geom.Point, overlay geom.Rect, pos ConnectedPosition) geom.Point {
	var startX float64
	switch {
	case pos.OverlayX == CenterX:
		startX = -overlay.Width / 2
	case pos.OverlayX == Start:
		if s.isRTL() {
			startX = -overlay.Width
		}
	default:
		if !s.isRTL() {
			startX = -overlay.Width
		}
	}

	var startY float64
	switch pos.OverlayY {
	case CenterY:
		startY = -overlay.Height / 2
	case Bottom:
		startY = -overlay.Height
	}

	return geom.Point{X: origin.X + startX, Y: origin.Y + startY}
}
