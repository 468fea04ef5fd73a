package dom

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/tether/pkg/geom"
)

// absoluteRect lays e out against the containing block cb using its inset,
// size and max-size properties.
func (e *Element) absoluteRect(cb geom.Rect) geom.Rect {
	left, hasLeft := ParsePx(e.Style("left"))
	right, hasRight := ParsePx(e.Style("right"))
	top, hasTop := ParsePx(e.Style("top"))
	bottom, hasBottom := ParsePx(e.Style("bottom"))

	w := e.axisLength("width", cb.Width, e.intrinsic.Width, hasLeft && hasRight, left+right)
	h := e.axisLength("height", cb.Height, e.intrinsic.Height, hasTop && hasBottom, top+bottom)
	w = clampMax(w, e.Style("max-width"), cb.Width)
	h = clampMax(h, e.Style("max-height"), cb.Height)

	x := cb.Left
	switch {
	case hasLeft:
		x = cb.Left + left
	case hasRight:
		x = cb.Right - right - w
	}

	y := cb.Top
	switch {
	case hasTop:
		y = cb.Top + top
	case hasBottom:
		y = cb.Bottom - bottom - h
	}

	return geom.NewRect(x, y, w, h)
}

// flexItemRect lays e out as an item of a column flex container occupying cb.
// align-items positions the item horizontally, justify-content vertically.
func (e *Element) flexItemRect(cb geom.Rect) geom.Rect {
	w := clampMax(e.intrinsic.Width, e.Style("max-width"), cb.Width)
	h := clampMax(e.intrinsic.Height, e.Style("max-height"), cb.Height)
	w = math.Min(w, math.Max(cb.Width, 0))
	h = math.Min(h, math.Max(cb.Height, 0))

	x := alignOffset(e.parent.Style("align-items"), cb.Left, cb.Width, w)
	y := alignOffset(e.parent.Style("justify-content"), cb.Top, cb.Height, h)
	return geom.NewRect(x, y, w, h)
}

func (e *Element) axisLength(prop string, containing, intrinsic float64, bothInsets bool, insets float64) float64 {
	v := e.Style(prop)
	if l, ok := resolveLength(v, containing); ok {
		return l
	}
	if bothInsets {
		return containing - insets
	}
	return intrinsic
}

func alignOffset(value string, start, available, size float64) float64 {
	switch value {
	case "center":
		return start + (available-size)/2
	case "flex-end", "end":
		return start + available - size
	default:
		return start
	}
}

func clampMax(v float64, limit string, containing float64) float64 {
	if m, ok := resolveLength(limit, containing); ok && v > m {
		return m
	}
	return v
}

// resolveLength resolves a pixel or percentage length.
func resolveLength(v string, containing float64) (float64, bool) {
	if px, ok := ParsePx(v); ok {
		return px, true
	}
	if pct, ok := strings.CutSuffix(strings.TrimSpace(v), "%"); ok {
		f, err := strconv.ParseFloat(pct, 64)
		if err == nil {
			return containing * f / 100, true
		}
	}
	return 0, false
}
