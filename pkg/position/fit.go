package position

import "github.com/matzehuels/tether/pkg/geom"

// OverlayFit describes how well an overlay placed at a candidate point fits
// the viewport.
type OverlayFit struct {
	VisibleArea                float64 `json:"visibleArea"`
	IsCompletelyWithinViewport bool    `json:"isCompletelyWithinViewport"`
	FitsInViewportVertically   bool    `json:"fitsInViewportVertically"`
	FitsInViewportHorizontally bool    `json:"fitsInViewportHorizontally"`
}

// EvaluateFit scores an overlay whose top-left corner would sit at point.
// The overlay rectangle is floored first and the given offsets are added to
// the point. Complete fit is an exact area comparison: any overflow
// disqualifies it.
func EvaluateFit(point geom.Point, overlay, viewport geom.Rect, offsetX, offsetY float64) OverlayFit {
	o := geom.RoundRect(overlay)
	x := point.X + offsetX
	y := point.Y + offsetY

	leftOverflow := 0 - x
	rightOverflow := x + o.Width - viewport.Width
	topOverflow := 0 - y
	bottomOverflow := y + o.Height - viewport.Height

	visibleWidth := geom.SubtractOverflows(o.Width, leftOverflow, rightOverflow)
	visibleHeight := geom.SubtractOverflows(o.Height, topOverflow, bottomOverflow)
	visibleArea := visibleWidth * visibleHeight

	return OverlayFit{
		VisibleArea:                visibleArea,
		IsCompletelyWithinViewport: o.Width*o.Height == visibleArea,
		FitsInViewportVertically:   visibleHeight == o.Height,
		FitsInViewportHorizontally: visibleWidth == o.Width,
	}
}

func (s *Strategy) overlayFit(point geom.Point, overlay, viewport geom.Rect, pos ConnectedPosition) OverlayFit {
	return EvaluateFit(point, overlay, viewport, s.offset(pos, axisX), s.offset(pos, axisY))
}

// canFitWithFlexibleDimensions reports whether a candidate that does not fit
// completely can still be used by shrinking the overlay: on each axis it
// either fits already or the configured minimum size fits in the space
// between the point and the viewport edge.
func (s *Strategy) canFitWithFlexibleDimensions(fit OverlayFit, point geom.Point, viewport geom.Rect) bool {
	if !s.flexible {
		return false
	}
	cfg := s.ref.Config()
	availableHeight := viewport.Bottom - point.Y
	availableWidth := viewport.Right - point.X

	verticalFit := fit.FitsInViewportVertically || (cfg.MinHeight > 0 && cfg.MinHeight <= availableHeight)
	horizontalFit := fit.FitsInViewportHorizontally || (cfg.MinWidth > 0 && cfg.MinWidth <= availableWidth)
	return verticalFit && horizontalFit
}

type axis int

const (
	axisX axis = iota
	axisY
)

// offset returns the candidate's own offset on a, falling back to the
// strategy default.
func (s *Strategy) offset(pos ConnectedPosition, a axis) float64 {
	if a == axisX {
		if pos.OffsetX != nil {
			return *pos.OffsetX
		}
		return s.offsetX
	}
	if pos.OffsetY != nil {
		return *pos.OffsetY
	}
	return s.offsetY
}
