package position

import "github.com/matzehuels/tether/pkg/geom"

// ScrollVisibility reports whether the origin and overlay are clipped or
// scrolled out of view by the registered scrollable containers.
type ScrollVisibility struct {
	IsOriginClipped      bool `json:"isOriginClipped"`
	IsOriginOutsideView  bool `json:"isOriginOutsideView"`
	IsOverlayClipped     bool `json:"isOverlayClipped"`
	IsOverlayOutsideView bool `json:"isOverlayOutsideView"`
}

// PositionChange is emitted when a pass picks a different candidate or the
// scroll visibility changes.
type PositionChange struct {
	StrategyID       string            `json:"strategyId"`
	Index            int               `json:"index"`
	Position         ConnectedPosition `json:"position"`
	ScrollVisibility ScrollVisibility  `json:"scrollVisibility"`
}

// ChangeStream delivers position changes to subscribers synchronously, in
// subscription order.
type ChangeStream struct {
	handlers map[int]func(PositionChange)
	order    []int
	nextID   int
	closed   bool
}

func newChangeStream() *ChangeStream {
	return &ChangeStream{handlers: make(map[int]func(PositionChange))}
}

// Subscribe registers fn and returns an unsubscribe function. Subscribing
// to a completed stream is a no-op.
func (c *ChangeStream) Subscribe(fn func(PositionChange)) func() {
	if c.closed {
		return func() {}
	}
	id := c.nextID
	c.nextID++
	c.handlers[id] = fn
	c.order = append(c.order, id)

	return func() {
		delete(c.handlers, id)
	}
}

// Count returns the number of active subscribers.
func (c *ChangeStream) Count() int { return len(c.handlers) }

func (c *ChangeStream) publish(ev PositionChange) {
	var fns []func(PositionChange)
	live := c.order[:0]
	for _, id := range c.order {
		if fn, ok := c.handlers[id]; ok {
			live = append(live, id)
			fns = append(fns, fn)
		}
	}
	c.order = live
	for _, fn := range fns {
		fn(ev)
	}
}

func (c *ChangeStream) complete() {
	c.closed = true
	c.handlers = make(map[int]func(PositionChange))
	c.order = nil
}

// scrollVisibility measures origin and overlay against every registered
// scrollable container.
func (s *Strategy) scrollVisibility() ScrollVisibility {
	origin := ResolveOrigin(s.origin)
	overlay := s.pane.Rect()

	containers := make([]geom.Rect, 0, len(s.scrollables))
	for _, sc := range s.scrollables {
		containers = append(containers, sc.Rect())
	}

	return ScrollVisibility{
		IsOriginClipped:      geom.ClippedByScrolling(origin, containers),
		IsOriginOutsideView:  geom.ScrolledOutsideView(origin, containers),
		IsOverlayClipped:     geom.ClippedByScrolling(overlay, containers),
		IsOverlayOutsideView: geom.ScrolledOutsideView(overlay, containers),
	}
}
