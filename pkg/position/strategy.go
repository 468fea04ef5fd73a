package position

import (
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/tether/pkg/dom"
	"github.com/matzehuels/tether/pkg/errors"
	"github.com/matzehuels/tether/pkg/geom"
	"github.com/matzehuels/tether/pkg/observability"
)

// BoundingBoxClass is added to the host element while a strategy is attached.
const BoundingBoxClass = "tether-connected-position-bounding-box"

// ValidationLevel controls how thoroughly candidate lists are checked.
type ValidationLevel int

const (
	// ValidateAlways checks every keyword and class name.
	ValidateAlways ValidationLevel = iota
	// ValidateNone only rejects empty candidate lists.
	ValidateNone
)

// Mode describes how the last applied position was chosen.
type Mode string

const (
	ModeNone     Mode = ""
	ModeFull     Mode = "full"
	ModeFlexible Mode = "flexible"
	ModePushed   Mode = "pushed"
	ModeFallback Mode = "fallback"
	ModeLocked   Mode = "locked"
)

// Option configures a Strategy at construction.
type Option func(*Strategy)

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(s *Strategy) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithValidation sets the validation level.
func WithValidation(level ValidationLevel) Option {
	return func(s *Strategy) { s.validation = level }
}

// WithID overrides the generated strategy ID.
func WithID(id string) Option {
	return func(s *Strategy) {
		if id != "" {
			s.id = id
		}
	}
}

// Strategy places an overlay next to an origin, choosing the first candidate
// position that fits the viewport and falling back to flexible sizing,
// pushing, or the candidate with the largest visible area.
//
// A Strategy is not safe for concurrent use. Configuration methods take
// effect on the next Apply.
type Strategy struct {
	id         string
	ruler      ViewportRuler
	logger     *log.Logger
	validation ValidationLevel

	// Configuration
	origin                  Origin
	positions               []ConnectedPosition
	configErr               error
	flexible                bool
	growAfterOpen           bool
	canPush                 bool
	locked                  bool
	margin                  float64
	offsetX, offsetY        float64
	transformOriginSelector string
	scrollables             []Measurable

	// Attachment
	ref         OverlayRef
	pane, host  dom.Box
	unsubscribe func()
	disposed    bool

	// State carried between passes
	initialRender       bool
	pushed              bool
	last                int
	mode                Mode
	lastBoundingBoxSize geom.Size
	lastBoundingBox     BoundingBox
	previousPush        *geom.Point
	appliedClasses      []string
	lastVisibility      *ScrollVisibility

	// Measurements of the current pass
	viewportRect  geom.Rect
	originRect    geom.Rect
	overlayRect   geom.Rect
	containerRect geom.Rect

	changes *ChangeStream
}

// New creates a strategy positioning against origin, measured with ruler.
// It has no candidate positions yet; set them with WithPositions.
func New(origin Origin, ruler ViewportRuler, opts ...Option) *Strategy {
	s := &Strategy{
		id:            uuid.NewString(),
		ruler:         ruler,
		logger:        log.Default(),
		origin:        origin,
		initialRender: true,
		last:          -1,
		changes:       newChangeStream(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the strategy's identifier used in events and hooks.
func (s *Strategy) ID() string { return s.id }

// =============================================================================
// Configuration
// =============================================================================

// SetOrigin changes what the overlay is positioned against.
func (s *Strategy) SetOrigin(origin Origin) *Strategy {
	s.origin = origin
	return s
}

// WithPositions replaces the candidate list. The last applied position is
// forgotten unless it is part of the new list. An invalid list is recorded
// and reported by Err, Attach and Apply.
func (s *Strategy) WithPositions(positions []ConnectedPosition) *Strategy {
	lastIndex := -1
	if s.last >= 0 && s.last < len(s.positions) {
		prev := s.positions[s.last]
		lastIndex = slices.IndexFunc(positions, prev.Equal)
	}
	s.positions = slices.Clone(positions)
	s.last = lastIndex
	s.configErr = s.validatePositions()
	return s
}

// WithViewportMargin sets the distance kept clear around the viewport edges.
func (s *Strategy) WithViewportMargin(margin float64) *Strategy {
	s.margin = margin
	return s
}

// WithFlexibleDimensions lets the overlay shrink to the space available.
func (s *Strategy) WithFlexibleDimensions(enabled bool) *Strategy {
	s.flexible = enabled
	return s
}

// WithGrowAfterOpen lets a flexible overlay grow again after the first pass.
func (s *Strategy) WithGrowAfterOpen(enabled bool) *Strategy {
	s.growAfterOpen = enabled
	return s
}

// WithPush lets the overlay be pushed on-screen when nothing fits.
func (s *Strategy) WithPush(enabled bool) *Strategy {
	s.canPush = enabled
	return s
}

// WithLockedPosition keeps the first chosen position for subsequent passes.
func (s *Strategy) WithLockedPosition(locked bool) *Strategy {
	s.locked = locked
	return s
}

// WithDefaultOffsetX sets the horizontal offset for candidates without one.
func (s *Strategy) WithDefaultOffsetX(offset float64) *Strategy {
	s.offsetX = offset
	return s
}

// WithDefaultOffsetY sets the vertical offset for candidates without one.
func (s *Strategy) WithDefaultOffsetY(offset float64) *Strategy {
	s.offsetY = offset
	return s
}

// WithTransformOriginOn sets the selector of elements inside the host whose
// transform-origin follows the connected corner.
func (s *Strategy) WithTransformOriginOn(selector string) *Strategy {
	s.transformOriginSelector = selector
	if len(s.positions) > 0 {
		s.configErr = s.validatePositions()
	}
	return s
}

// WithScrollableContainers sets the containers used for scroll visibility.
func (s *Strategy) WithScrollableContainers(containers []Measurable) *Strategy {
	s.scrollables = slices.Clone(containers)
	return s
}

// Positions returns a copy of the candidate list.
func (s *Strategy) Positions() []ConnectedPosition { return slices.Clone(s.positions) }

// Err returns the recorded configuration error, if any.
func (s *Strategy) Err() error { return s.configErr }

// PositionChanges returns the stream of position-change events. Scroll
// visibility is only computed while it has subscribers.
func (s *Strategy) PositionChanges() *ChangeStream { return s.changes }

// =============================================================================
// State
// =============================================================================

// LastPosition returns the most recently applied candidate.
func (s *Strategy) LastPosition() (ConnectedPosition, bool) {
	if s.last < 0 || s.last >= len(s.positions) {
		return ConnectedPosition{}, false
	}
	return s.positions[s.last], true
}

// LastIndex returns the index of the last applied candidate, or -1.
func (s *Strategy) LastIndex() int { return s.last }

// Mode returns how the last position was chosen.
func (s *Strategy) Mode() Mode { return s.mode }

// IsPushed reports whether the last position was pushed on-screen.
func (s *Strategy) IsPushed() bool { return s.pushed }

// PushAmount returns the translation applied by the last push.
func (s *Strategy) PushAmount() (geom.Point, bool) {
	if s.previousPush == nil {
		return geom.Point{}, false
	}
	return *s.previousPush, true
}

// BoundingBox returns the last computed flexible bounding box.
func (s *Strategy) BoundingBox() BoundingBox { return s.lastBoundingBox }

// IsInitialRender reports whether the next pass counts as a first render.
func (s *Strategy) IsInitialRender() bool { return s.initialRender }

// Disposed reports whether Dispose has been called.
func (s *Strategy) Disposed() bool { return s.disposed }

// =============================================================================
// Lifecycle
// =============================================================================

// Attach binds the strategy to an overlay. Attaching to a different overlay
// while attached fails; re-attaching to the same one resets per-render state.
// A disposed strategy cannot be attached again.
func (s *Strategy) Attach(ref OverlayRef) error {
	if s.disposed {
		return errors.New(errors.ErrCodeDisposed, "position strategy has been disposed")
	}
	if ref == nil || ref.HostElement() == nil || ref.OverlayElement() == nil {
		return errors.New(errors.ErrCodeInvalidInput, "overlay ref must provide a host and an overlay element")
	}
	if s.ref != nil && ref != s.ref {
		return errors.New(errors.ErrCodeAlreadyAttached, "this position strategy is already attached to an overlay")
	}
	if err := s.validatePositions(); err != nil {
		return err
	}

	host := ref.HostElement()
	host.AddClass(BoundingBoxClass)

	s.ref = ref
	s.host = host
	s.pane = ref.OverlayElement()
	s.initialRender = true
	s.last = -1

	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.unsubscribe = s.ruler.OnChange(func() {
		s.initialRender = true
		s.logger.Debug("viewport changed, re-placing overlay", "strategy", s.id)
		if err := s.Apply(); err != nil {
			s.logger.Error("re-place overlay after viewport change", "strategy", s.id, "err", err)
		}
	})
	return nil
}

// Apply computes and writes the overlay's position. It is a no-op once
// disposed or when the viewport cannot be measured.
func (s *Strategy) Apply() error {
	if s.disposed || !s.ruler.Measurable() {
		return nil
	}
	if err := s.ready(); err != nil {
		return err
	}

	// A locked overlay keeps its orientation even if a better candidate
	// would fit now.
	if !s.initialRender && s.locked && s.last >= 0 {
		return s.ReapplyLastPosition()
	}

	start := time.Now()
	observability.Placement().OnApplyStart(s.id, len(s.positions))

	s.clearPanelClasses()
	s.resetOverlayElementStyles()
	s.resetBoundingBoxStyles()
	s.measure()

	type flexibleFit struct {
		index  int
		origin geom.Point
		box    BoundingBox
	}
	type fallbackFit struct {
		index  int
		origin geom.Point
		fit    OverlayFit
	}

	var flexibleFits []flexibleFit
	var fallback *fallbackFit

	for i, pos := range s.positions {
		originPoint := s.originPoint(s.originRect, s.containerRect, pos)
		overlayPoint := s.overlayPoint(originPoint, s.overlayRect, pos)
		fit := s.overlayFit(overlayPoint, s.overlayRect, s.viewportRect, pos)

		if fit.IsCompletelyWithinViewport {
			s.pushed = false
			s.applyPosition(i, originPoint, ModeFull, start)
			return nil
		}

		if s.canFitWithFlexibleDimensions(fit, overlayPoint, s.viewportRect) {
			flexibleFits = append(flexibleFits, flexibleFit{
				index:  i,
				origin: originPoint,
				box:    s.boundingBoxRect(originPoint, pos),
			})
			continue
		}

		if fallback == nil || fallback.fit.VisibleArea < fit.VisibleArea {
			fallback = &fallbackFit{index: i, origin: originPoint, fit: fit}
		}
	}

	if len(flexibleFits) > 0 {
		best := flexibleFits[0]
		bestScore := -1.0
		for _, f := range flexibleFits {
			score := f.box.Area() * s.positions[f.index].weight()
			if score > bestScore {
				bestScore = score
				best = f
			}
		}
		s.pushed = false
		s.applyPosition(best.index, best.origin, ModeFlexible, start)
		return nil
	}

	if s.canPush {
		s.pushed = true
		s.applyPosition(fallback.index, fallback.origin, ModePushed, start)
		return nil
	}

	s.pushed = false
	s.applyPosition(fallback.index, fallback.origin, ModeFallback, start)
	return nil
}

// ReapplyLastPosition re-measures and writes the last applied candidate
// without searching. Without a last position it runs a full Apply.
func (s *Strategy) ReapplyLastPosition() error {
	if s.disposed || !s.ruler.Measurable() {
		return nil
	}
	if err := s.ready(); err != nil {
		return err
	}
	if s.last < 0 {
		return s.Apply()
	}

	start := time.Now()
	s.measure()
	pos := s.positions[s.last]
	originPoint := s.originPoint(s.originRect, s.containerRect, pos)
	s.applyPosition(s.last, originPoint, ModeLocked, start)
	return nil
}

// Detach clears per-render state and stops listening for viewport changes.
// Configuration is kept.
func (s *Strategy) Detach() {
	s.clearPanelClasses()
	s.last = -1
	s.previousPush = nil
	s.lastVisibility = nil
	s.ref = nil
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// Dispose resets every style the strategy wrote and releases the overlay.
// It is terminal and idempotent.
func (s *Strategy) Dispose() {
	if s.disposed {
		return
	}

	if s.host != nil {
		extendStyles(s.host, dom.Style{
			"top": "", "left": "", "right": "", "bottom": "",
			"height": "", "width": "", "align-items": "", "justify-content": "",
		})
		s.host.RemoveClass(BoundingBoxClass)
	}
	if s.pane != nil {
		s.resetOverlayElementStyles()
	}

	s.Detach()
	s.changes.complete()
	s.host = nil
	s.pane = nil
	s.disposed = true
}

// =============================================================================
// Internals
// =============================================================================

func (s *Strategy) ready() error {
	if s.ref == nil {
		return errors.New(errors.ErrCodeNotAttached, "position strategy is not attached to an overlay")
	}
	if s.configErr != nil {
		return s.configErr
	}
	if len(s.positions) == 0 {
		return errors.New(errors.ErrCodeNoPositions, "at least one position is required")
	}
	return nil
}

func (s *Strategy) validatePositions() error {
	if len(s.positions) == 0 {
		return errors.New(errors.ErrCodeNoPositions, "at least one position is required")
	}
	if s.validation == ValidateNone {
		return nil
	}
	for i, p := range s.positions {
		if err := p.Validate(); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "position %d", i)
		}
	}
	if s.transformOriginSelector != "" {
		return errors.ValidateSelector(s.transformOriginSelector)
	}
	return nil
}

// measure takes fresh rectangles for the current pass.
func (s *Strategy) measure() {
	s.viewportRect = s.narrowedViewportRect()
	s.originRect = ResolveOrigin(s.origin)
	s.overlayRect = s.pane.Rect()
	s.containerRect = geom.Rect{}
	if c := s.ref.ContainerElement(); c != nil {
		s.containerRect = c.Rect()
	}
}

// narrowedViewportRect returns the viewport in document coordinates, shrunk
// by the margin on every edge.
func (s *Strategy) narrowedViewportRect() geom.Rect {
	size := s.ruler.Size()
	scroll := s.ruler.ScrollPosition()
	return geom.Rect{
		Top:    scroll.Y + s.margin,
		Left:   scroll.X + s.margin,
		Right:  scroll.X + size.Width - s.margin,
		Bottom: scroll.Y + size.Height - s.margin,
		Width:  size.Width - 2*s.margin,
		Height: size.Height - 2*s.margin,
	}
}

// applyPosition writes the chosen candidate and emits a change event when
// someone is listening.
func (s *Strategy) applyPosition(index int, origin geom.Point, mode Mode, start time.Time) {
	pos := s.positions[index]
	s.setTransformOrigin(pos)
	s.setOverlayElementStyles(origin, pos)
	s.setBoundingBoxStyles(origin, pos)
	s.addPanelClasses(pos.PanelClass)

	// Scroll visibility needs extra measurements; skip it without listeners.
	if s.changes.Count() > 0 {
		vis := s.scrollVisibility()
		if index != s.last || s.lastVisibility == nil || *s.lastVisibility != vis {
			s.changes.publish(PositionChange{
				StrategyID:       s.id,
				Index:            index,
				Position:         pos,
				ScrollVisibility: vis,
			})
			observability.Placement().OnPositionChange(s.id, index)
		}
		s.lastVisibility = &vis
	}

	s.last = index
	s.mode = mode
	s.initialRender = false

	s.logger.Debug("placed overlay",
		"strategy", s.id,
		"candidate", index,
		"position", pos.String(),
		"mode", mode)
	observability.Placement().OnApplyComplete(s.id, index, string(mode), time.Since(start))
}

func (s *Strategy) isRTL() bool {
	return s.ref != nil && s.ref.Direction() == RTL
}
