package dom

import "github.com/matzehuels/tether/pkg/geom"

// Viewport is the in-memory viewport ruler.
type Viewport struct {
	size      geom.Size
	scroll    geom.Point
	headless  bool
	listeners map[int]func()
	order     []int
	nextID    int
}

// NewViewport creates a measurable viewport of the given size.
func NewViewport(width, height float64) *Viewport {
	return &Viewport{
		size:      geom.Size{Width: width, Height: height},
		listeners: make(map[int]func()),
	}
}

// NewHeadlessViewport creates a viewport that cannot measure layout, as in
// server-side rendering. Placement against it is a no-op.
func NewHeadlessViewport() *Viewport {
	v := NewViewport(0, 0)
	v.headless = true
	return v
}

// Size returns the viewport's client size.
func (v *Viewport) Size() geom.Size { return v.size }

// ScrollPosition returns the document scroll offset.
func (v *Viewport) ScrollPosition() geom.Point { return v.scroll }

// Measurable reports whether layout can be measured.
func (v *Viewport) Measurable() bool { return !v.headless }

// Rect returns the viewport in client coordinates.
func (v *Viewport) Rect() geom.Rect {
	return geom.NewRect(0, 0, v.size.Width, v.size.Height)
}

// Resize changes the viewport size and notifies listeners.
func (v *Viewport) Resize(width, height float64) {
	v.size = geom.Size{Width: width, Height: height}
	v.notify()
}

// ScrollTo sets the document scroll offset. Scrolling does not notify
// change listeners; callers re-apply placement on scroll themselves.
func (v *Viewport) ScrollTo(x, y float64) {
	v.scroll = geom.Point{X: x, Y: y}
}

// ScrollBy adds to the document scroll offset.
func (v *Viewport) ScrollBy(dx, dy float64) {
	v.ScrollTo(v.scroll.X+dx, v.scroll.Y+dy)
}

// OnChange registers fn to run after every resize and returns a function
// that removes it. Listeners run in registration order.
func (v *Viewport) OnChange(fn func()) func() {
	id := v.nextID
	v.nextID++
	v.listeners[id] = fn
	v.order = append(v.order, id)

	return func() {
		delete(v.listeners, id)
	}
}

// ListenerCount returns the number of registered change listeners.
func (v *Viewport) ListenerCount() int { return len(v.listeners) }

func (v *Viewport) notify() {
	live := v.order[:0]
	var fns []func()
	for _, id := range v.order {
		if fn, ok := v.listeners[id]; ok {
			live = append(live, id)
			fns = append(fns, fn)
		}
	}
	v.order = live
	for _, fn := range fns {
		fn()
	}
}
