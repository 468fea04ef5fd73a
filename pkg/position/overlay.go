package position

import (
	"github.com/matzehuels/tether/pkg/dom"
	"github.com/matzehuels/tether/pkg/geom"
)

// OverlayConfig carries the sizing constraints of an overlay. Zero means unset.
type OverlayConfig struct {
	MinWidth  float64 `json:"minWidth,omitempty"`
	MinHeight float64 `json:"minHeight,omitempty"`
	MaxWidth  float64 `json:"maxWidth,omitempty"`
	MaxHeight float64 `json:"maxHeight,omitempty"`
}

// OverlayRef is the overlay a strategy is attached to. Implementations
// must be comparable; pointer types are.
type OverlayRef interface {
	// OverlayElement is the pane being positioned.
	OverlayElement() dom.Box
	// HostElement wraps the pane and doubles as the flexible bounding box.
	HostElement() dom.Box
	// ContainerElement is the overlay container. It may be nil.
	ContainerElement() dom.Box
	Config() OverlayConfig
	Direction() Direction
}

// ViewportRuler measures the viewport.
type ViewportRuler interface {
	Size() geom.Size
	ScrollPosition() geom.Point
	// Measurable is false in headless environments.
	Measurable() bool
	// OnChange registers fn for viewport resizes and returns an unsubscribe func.
	OnChange(fn func()) func()
}

// Handle is a plain OverlayRef.
type Handle struct {
	pane, host, container dom.Box
	config                OverlayConfig
	dir                   Direction
}

// NewHandle builds a Handle. container may be nil.
func NewHandle(pane, host, container dom.Box, cfg OverlayConfig, dir Direction) *Handle {
	if dir == "" {
		dir = LTR
	}
	return &Handle{pane: pane, host: host, container: container, config: cfg, dir: dir}
}

func (h *Handle) OverlayElement() dom.Box   { return h.pane }
func (h *Handle) HostElement() dom.Box      { return h.host }
func (h *Handle) ContainerElement() dom.Box { return h.container }
func (h *Handle) Config() OverlayConfig     { return h.config }
func (h *Handle) Direction() Direction      { return h.dir }

// SetConfig replaces the sizing constraints.
func (h *Handle) SetConfig(cfg OverlayConfig) { h.config = cfg }

// SetDirection changes the reading direction.
func (h *Handle) SetDirection(dir Direction) { h.dir = dir }

var _ OverlayRef = (*Handle)(nil)
