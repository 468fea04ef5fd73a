package position

import (
	"math"

	"github.com/matzehuels/tether/pkg/geom"
)

// pushOnScreen translates an overflowing overlay whose top-left corner is at
// start back into the narrowed viewport. While the position is locked, the
// previous push amount is reused so repeated passes cannot creep further.
func (s *Strategy) pushOnScreen(start geom.Point, overlayRect geom.Rect, scroll geom.Point) geom.Point {
	if s.previousPush != nil && s.locked {
		return start.Add(*s.previousPush)
	}

	overlay := geom.RoundRect(overlayRect)
	viewport := s.viewportRect

	overflowRight := math.Max(start.X+overlay.Width-viewport.Width, 0)
	overflowBottom := math.Max(start.Y+overlay.Height-viewport.Height, 0)
	overflowTop := math.Max(viewport.Top-scroll.Y-start.Y, 0)
	overflowLeft := math.Max(viewport.Left-scroll.X-start.X, 0)

	var push geom.Point

	// An overlay that fits on an axis is pulled in from whichever side
	// overflows, leading edge first. One that cannot fit only gets its
	// leading edge pinned to the margin.
	if overlay.Width <= viewport.Width {
		push.X = overflowLeft
		if push.X == 0 && overflowRight > 0 {
			push.X = -overflowRight
		}
	} else if start.X < s.margin {
		push.X = viewport.Left - scroll.X - start.X
	}

	if overlay.Height <= viewport.Height {
		push.Y = overflowTop
		if push.Y == 0 && overflowBottom > 0 {
			push.Y = -overflowBottom
		}
	} else if start.Y < s.margin {
		push.Y = viewport.Top - scroll.Y - start.Y
	}

	s.previousPush = &push
	return start.Add(push)
}
