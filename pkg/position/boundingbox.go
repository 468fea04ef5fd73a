package position

import (
	"math"

	"github.com/matzehuels/tether/pkg/dom"
	"github.com/matzehuels/tether/pkg/geom"
)

// BoundingBox is the rectangle of the flexible sizing wrapper. Only the
// insets that pin the box are set; the others are nil.
type BoundingBox struct {
	Top    *float64 `json:"top,omitempty"`
	Left   *float64 `json:"left,omitempty"`
	Bottom *float64 `json:"bottom,omitempty"`
	Right  *float64 `json:"right,omitempty"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
}

// Area returns Width*Height.
func (b BoundingBox) Area() float64 { return b.Width * b.Height }

// boundingBoxRect computes the box a flexible overlay may grow into when
// connected at origin. The box extends from the origin point to the
// viewport edge in the direction the overlay opens; centered axes take
// twice the smaller distance to either edge.
func (s *Strategy) boundingBoxRect(origin geom.Point, pos ConnectedPosition) BoundingBox {
	viewport := s.viewportRect
	rtl := s.isRTL()
	var box BoundingBox

	switch pos.OverlayY {
	case Top:
		box.Top = Offset(origin.Y)
		box.Height = viewport.Height - origin.Y + s.margin
	case Bottom:
		bottom := viewport.Height - origin.Y + s.margin*2
		box.Bottom = &bottom
		box.Height = viewport.Height - bottom + s.margin
	default:
		smallest := math.Min(viewport.Bottom-origin.Y+viewport.Top, origin.Y)
		previous := s.lastBoundingBoxSize.Height
		box.Height = smallest * 2
		top := origin.Y - smallest
		if box.Height > previous && !s.initialRender && !s.growAfterOpen {
			top = origin.Y - previous/2
		}
		box.Top = &top
	}

	boundedByRight := (pos.OverlayX == Start && !rtl) || (pos.OverlayX == End && rtl)
	boundedByLeft := (pos.OverlayX == End && !rtl) || (pos.OverlayX == Start && rtl)

	switch {
	case boundedByLeft:
		right := viewport.Width - origin.X + s.margin*2
		box.Right = &right
		box.Width = origin.X - s.margin
	case boundedByRight:
		box.Left = Offset(origin.X)
		box.Width = viewport.Right - origin.X
	default:
		smallest := math.Min(viewport.Right-origin.X+viewport.Left, origin.X)
		previous := s.lastBoundingBoxSize.Width
		box.Width = smallest * 2
		left := origin.X - smallest
		if box.Width > previous && !s.initialRender && !s.growAfterOpen {
			left = origin.X - previous/2
		}
		box.Left = &left
	}

	return box
}

// setBoundingBoxStyles writes the sizing wrapper's styles. In exact mode it
// fills the viewport; otherwise it becomes a flex box pinned at the
// computed insets. The size never grows after the first pass unless
// growAfterOpen is set.
func (s *Strategy) setBoundingBoxStyles(origin geom.Point, pos ConnectedPosition) {
	box := s.boundingBoxRect(origin, pos)

	if !s.initialRender && !s.growAfterOpen {
		box.Height = math.Min(box.Height, s.lastBoundingBoxSize.Height)
		box.Width = math.Min(box.Width, s.lastBoundingBoxSize.Width)
	}

	styles := dom.Style{}
	if s.hasExactPosition() {
		styles["top"] = "0"
		styles["left"] = "0"
		styles["bottom"] = ""
		styles["right"] = ""
		styles["max-height"] = ""
		styles["max-width"] = ""
		styles["width"] = "100%"
		styles["height"] = "100%"
	} else {
		cfg := s.ref.Config()
		styles["height"] = dom.Px(box.Height)
		styles["top"] = optionalPx(box.Top)
		styles["bottom"] = optionalPx(box.Bottom)
		styles["width"] = dom.Px(box.Width)
		styles["left"] = optionalPx(box.Left)
		styles["right"] = optionalPx(box.Right)

		switch pos.OverlayX {
		case CenterX:
			styles["align-items"] = "center"
		case End:
			styles["align-items"] = "flex-end"
		default:
			styles["align-items"] = "flex-start"
		}
		switch pos.OverlayY {
		case CenterY:
			styles["justify-content"] = "center"
		case Bottom:
			styles["justify-content"] = "flex-end"
		default:
			styles["justify-content"] = "flex-start"
		}

		if cfg.MaxHeight > 0 {
			styles["max-height"] = dom.Px(cfg.MaxHeight)
		}
		if cfg.MaxWidth > 0 {
			styles["max-width"] = dom.Px(cfg.MaxWidth)
		}
	}

	s.lastBoundingBoxSize = geom.Size{Width: box.Width, Height: box.Height}
	s.lastBoundingBox = box
	extendStyles(s.host, styles)
}

func (s *Strategy) resetBoundingBoxStyles() {
	extendStyles(s.host, dom.Style{
		"top":             "0",
		"left":            "0",
		"right":           "0",
		"bottom":          "0",
		"height":          "",
		"width":           "",
		"align-items":     "",
		"justify-content": "",
	})
}

func optionalPx(v *float64) string {
	if v == nil {
		return ""
	}
	return dom.Px(*v)
}

// extendStyles writes every property in styles onto b; empty values clear.
func extendStyles(b dom.Box, styles dom.Style) {
	for prop, v := range styles {
		b.SetStyle(prop, v)
	}
}
