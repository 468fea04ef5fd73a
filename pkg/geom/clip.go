package geom

// ScrolledOutsideView reports whether el lies completely outside at least
// one of the scroll containers.
func ScrolledOutsideView(el Rect, containers []Rect) bool {
	for _, c := range containers {
		above := el.Bottom < c.Top
		below := el.Top > c.Bottom
		left := el.Right < c.Left
		right := el.Left > c.Right
		if above || below || left || right {
			return true
		}
	}
	return false
}

// ClippedByScrolling reports whether any part of el is cut off by at least
// one of the scroll containers.
func ClippedByScrolling(el Rect, containers []Rect) bool {
	for _, c := range containers {
		above := el.Top < c.Top
		below := el.Bottom > c.Bottom
		left := el.Left < c.Left
		right := el.Right > c.Right
		if above || below || left || right {
			return true
		}
	}
	return false
}
