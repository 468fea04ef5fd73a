package position

import (
	"slices"
	"strings"

	"github.com/matzehuels/tether/pkg/dom"
	"github.com/matzehuels/tether/pkg/geom"
)

// hasExactPosition reports whether literal insets are written instead of
// flexible sizing.
func (s *Strategy) hasExactPosition() bool {
	return !s.flexible || s.pushed
}

// setOverlayElementStyles writes the pane's insets (exact mode) or makes it
// a static flex item (flexible mode). Offsets always go through a transform
// so a flex-centered pane stays in normal flow.
func (s *Strategy) setOverlayElementStyles(origin geom.Point, pos ConnectedPosition) {
	styles := dom.Style{}
	exact := s.hasExactPosition()
	cfg := s.ref.Config()

	if exact {
		scroll := s.ruler.ScrollPosition()
		for k, v := range s.exactOverlayY(pos, origin, scroll) {
			styles[k] = v
		}
		for k, v := range s.exactOverlayX(pos, origin, scroll) {
			styles[k] = v
		}
	} else {
		styles["position"] = "static"
	}

	var transform []string
	if dx := s.offset(pos, axisX); dx != 0 {
		transform = append(transform, "translateX("+dom.Px(dx)+")")
	}
	if dy := s.offset(pos, axisY); dy != 0 {
		transform = append(transform, "translateY("+dom.Px(dy)+")")
	}
	styles["transform"] = strings.Join(transform, " ")

	if cfg.MaxHeight > 0 {
		if exact {
			styles["max-height"] = dom.Px(cfg.MaxHeight)
		} else if s.flexible {
			styles["max-height"] = ""
		}
	}
	if cfg.MaxWidth > 0 {
		if exact {
			styles["max-width"] = dom.Px(cfg.MaxWidth)
		} else if s.flexible {
			styles["max-width"] = ""
		}
	}

	extendStyles(s.pane, styles)
}

// exactOverlayY pins the pane vertically. Overlays opening upward are
// pinned by their bottom edge so content growth does not move them.
func (s *Strategy) exactOverlayY(pos ConnectedPosition, origin, scroll geom.Point) dom.Style {
	styles := dom.Style{"top": "", "bottom": ""}
	point := s.overlayPoint(origin, s.overlayRect, pos)
	if s.pushed {
		point = s.pushOnScreen(point, s.overlayRect, scroll)
	}

	// Mobile browsers shift the container up to make room for an on-screen
	// keyboard; its top edge tells by how much.
	if c := s.ref.ContainerElement(); c != nil {
		point.Y -= c.Rect().Top
	}

	if pos.OverlayY == Bottom {
		documentHeight := s.ruler.Size().Height
		styles["bottom"] = dom.Px(documentHeight - (point.Y + s.overlayRect.Height))
	} else {
		styles["top"] = dom.Px(point.Y)
	}
	return styles
}

// exactOverlayX pins the pane horizontally by its left or right edge
// depending on which side it opens towards.
func (s *Strategy) exactOverlayX(pos ConnectedPosition, origin, scroll geom.Point) dom.Style {
	styles := dom.Style{"left": "", "right": ""}
	point := s.overlayPoint(origin, s.overlayRect, pos)
	if s.pushed {
		point = s.pushOnScreen(point, s.overlayRect, scroll)
	}

	property := "left"
	if s.isRTL() {
		if pos.OverlayX != End {
			property = "right"
		}
	} else if pos.OverlayX == End {
		property = "right"
	}

	if property == "right" {
		documentWidth := s.ruler.Size().Width
		styles["right"] = dom.Px(documentWidth - (point.X + s.overlayRect.Width))
	} else {
		styles["left"] = dom.Px(point.X)
	}
	return styles
}

func (s *Strategy) resetOverlayElementStyles() {
	extendStyles(s.pane, dom.Style{
		"top":       "",
		"left":      "",
		"bottom":    "",
		"right":     "",
		"position":  "",
		"transform": "",
	})
}

// setTransformOrigin points the transform origin of matching elements at
// the overlay's connection corner so open/close animations grow from it.
func (s *Strategy) setTransformOrigin(pos ConnectedPosition) {
	if s.transformOriginSelector == "" {
		return
	}

	var xOrigin string
	switch {
	case pos.OverlayX == CenterX:
		xOrigin = "center"
	case s.isRTL():
		xOrigin = "left"
		if pos.OverlayX == Start {
			xOrigin = "right"
		}
	default:
		xOrigin = "right"
		if pos.OverlayX == Start {
			xOrigin = "left"
		}
	}

	value := xOrigin + " " + string(pos.OverlayY)
	for _, el := range s.host.QueryAll(s.transformOriginSelector) {
		el.SetStyle("transform-origin", value)
	}
}

func (s *Strategy) addPanelClasses(classes []string) {
	for _, c := range classes {
		if c == "" || slices.Contains(s.appliedClasses, c) {
			continue
		}
		s.appliedClasses = append(s.appliedClasses, c)
		s.pane.AddClass(c)
	}
}

func (s *Strategy) clearPanelClasses() {
	if s.pane != nil && len(s.appliedClasses) > 0 {
		s.pane.RemoveClass(s.appliedClasses...)
	}
	s.appliedClasses = nil
}
