package scenario

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/tether/pkg/dom"
	"github.com/matzehuels/tether/pkg/errors"
	"github.com/matzehuels/tether/pkg/geom"
	"github.com/matzehuels/tether/pkg/position"
)

// Class names of the elements a stage creates.
const (
	ContainerClass = "tether-overlay-container"
	PaneClass      = "tether-overlay-pane"
)

// Stage is the live document of a scenario: a viewport, an overlay
// container with host and pane, an origin, and an attached strategy.
type Stage struct {
	Scenario  *Scenario
	Viewport  *dom.Viewport
	Document  *dom.Document
	Container *dom.Element
	Host      *dom.Element
	Pane      *dom.Element
	Strategy  *position.Strategy
	Handle    *position.Handle

	originEl    *dom.Element
	point       position.PointOrigin
	logger      *log.Logger
	events      []Event
	unsubscribe func()
}

// StepReport is the state after one step.
type StepReport struct {
	Index       int       `json:"index"`
	Action      string    `json:"action"`
	Candidate   int       `json:"candidate"`
	Position    *Position `json:"position,omitempty"`
	Mode        string    `json:"mode,omitempty"`
	Pushed      bool      `json:"pushed,omitempty"`
	Overlay     geom.Rect `json:"overlay"`
	BoundingBox geom.Rect `json:"bounding_box"`
	PaneStyle   dom.Style `json:"pane_style,omitempty"`
	HostStyle   dom.Style `json:"host_style,omitempty"`
	PaneClasses []string  `json:"pane_classes,omitempty"`
	Events      []Event   `json:"events,omitempty"`
	Error       string    `json:"error,omitempty"`
	Code        string    `json:"code,omitempty"`
}

// Event is a position change observed during a step.
type Event struct {
	Candidate  int                       `json:"candidate"`
	Position   Position                  `json:"position"`
	Visibility position.ScrollVisibility `json:"visibility"`
}

// NewStage builds the document for sc and attaches the strategy. The
// strategy is not applied yet.
func NewStage(sc *Scenario, logger *log.Logger) (*Stage, error) {
	if err := sc.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	positions, err := sc.ConnectedPositions()
	if err != nil {
		return nil, err
	}

	st := &Stage{Scenario: sc, logger: logger}
	if sc.Viewport.Headless {
		st.Viewport = dom.NewHeadlessViewport()
	} else {
		st.Viewport = dom.NewViewport(sc.Viewport.Width, sc.Viewport.Height)
	}
	st.Viewport.ScrollTo(sc.Viewport.ScrollX, sc.Viewport.ScrollY)

	st.Document = dom.NewDocument(st.Viewport)
	st.Document.DefineClass(position.BoundingBoxClass, dom.Style{
		"display":        "flex",
		"flex-direction": "column",
	})

	st.Container = st.Document.CreateElement("div")
	st.Container.AddClass(ContainerClass)
	st.Container.SetStyle("top", dom.Px(sc.Overlay.ContainerTop))
	st.Container.SetStyle("left", dom.Px(sc.Overlay.ContainerLeft))
	st.Container.SetStyle("right", "0")
	st.Container.SetStyle("bottom", "0")

	st.Host = st.Container.AppendChild(st.Document.CreateElement("div"))
	st.Pane = st.Host.AppendChild(st.Document.CreateElement("div"))
	st.Pane.ID = "pane"
	st.Pane.AddClass(PaneClass)
	st.Pane.SetSize(sc.Overlay.Width, sc.Overlay.Height)

	var origin position.Origin
	if sc.Origin.Kind == OriginPoint {
		st.point = position.PointOrigin{X: sc.Origin.X, Y: sc.Origin.Y, Width: sc.Origin.Width, Height: sc.Origin.Height}
		origin = st.point
	} else {
		st.originEl = st.Document.CreateElement("button").
			SetRect(geom.NewRect(sc.Origin.X, sc.Origin.Y, sc.Origin.Width, sc.Origin.Height))
		origin = position.ElementOrigin{Element: st.originEl}
	}

	scrollables := make([]position.Measurable, 0, len(sc.Scrollables))
	for _, r := range sc.Scrollables {
		el := st.Document.CreateElement("div").SetRect(geom.NewRect(r.X, r.Y, r.Width, r.Height)).Pin()
		scrollables = append(scrollables, el)
	}

	level := position.ValidateAlways
	if sc.Strategy.Validation == ValidationNone {
		level = position.ValidateNone
	}

	cfg := sc.Strategy
	st.Strategy = position.New(origin, st.Viewport,
		position.WithLogger(logger),
		position.WithValidation(level),
		position.WithID(sc.Name)).
		WithPositions(positions).
		WithViewportMargin(cfg.ViewportMargin).
		WithFlexibleDimensions(cfg.FlexibleDimensions).
		WithGrowAfterOpen(cfg.GrowAfterOpen).
		WithPush(cfg.Push).
		WithLockedPosition(cfg.Locked).
		WithDefaultOffsetX(cfg.DefaultOffsetX).
		WithDefaultOffsetY(cfg.DefaultOffsetY).
		WithTransformOriginOn(cfg.TransformOriginOn).
		WithScrollableContainers(scrollables)
	if err := st.Strategy.Err(); err != nil {
		return nil, err
	}

	st.Handle = position.NewHandle(st.Pane, st.Host, st.Container, position.OverlayConfig{
		MinWidth:  sc.Overlay.MinWidth,
		MinHeight: sc.Overlay.MinHeight,
		MaxWidth:  sc.Overlay.MaxWidth,
		MaxHeight: sc.Overlay.MaxHeight,
	}, position.Direction(sc.Direction))

	st.unsubscribe = st.Strategy.PositionChanges().Subscribe(func(c position.PositionChange) {
		st.events = append(st.events, Event{
			Candidate:  c.Index,
			Position:   FromConnected(c.Position),
			Visibility: c.ScrollVisibility,
		})
	})

	if err := st.Strategy.Attach(st.Handle); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// Do runs one step and reports the resulting state. Engine errors are
// recorded on the report, not returned, so a script can continue.
//
// scroll, move-origin and resize-overlay only change the document; follow
// them with apply or reapply. resize re-applies through the viewport's
// change notification.
func (st *Stage) Do(index int, step Step) StepReport {
	var err error
	switch step.Action {
	case ActionApply:
		err = st.Strategy.Apply()
	case ActionReapply:
		err = st.Strategy.ReapplyLastPosition()
	case ActionScroll:
		st.Viewport.ScrollBy(step.DX, step.DY)
	case ActionResize:
		st.Viewport.Resize(step.Width, step.Height)
	case ActionMoveOrigin:
		st.MoveOrigin(step.DX, step.DY)
	case ActionResizeOverlay:
		st.Pane.SetSize(step.Width, step.Height)
	case ActionLock:
		st.Strategy.WithLockedPosition(true)
	case ActionUnlock:
		st.Strategy.WithLockedPosition(false)
	case ActionAttach:
		err = st.Strategy.Attach(st.Handle)
	case ActionDetach:
		st.Strategy.Detach()
	case ActionDispose:
		st.Strategy.Dispose()
	default:
		err = errors.New(errors.ErrCodeInvalidScenario, "unknown action %q", step.Action)
	}

	rep := st.Snapshot()
	rep.Index = index
	rep.Action = step.Action
	if err != nil {
		rep.Error = errors.UserMessage(err)
		rep.Code = string(errors.GetCode(err))
		st.logger.Debug("step failed", "step", index, "action", step.Action, "err", err)
	} else {
		st.logger.Debug("step done", "step", index, "action", step.Action, "candidate", rep.Candidate, "mode", rep.Mode)
	}
	return rep
}

// Snapshot reports the current state and drains the collected events.
func (st *Stage) Snapshot() StepReport {
	rep := StepReport{
		Candidate:   st.Strategy.LastIndex(),
		Mode:        string(st.Strategy.Mode()),
		Pushed:      st.Strategy.IsPushed(),
		Overlay:     st.Pane.Rect(),
		BoundingBox: st.Host.Rect(),
		PaneStyle:   st.Pane.InlineStyle(),
		HostStyle:   st.Host.InlineStyle(),
		Events:      st.events,
	}
	for _, c := range st.Pane.Classes() {
		if c != PaneClass {
			rep.PaneClasses = append(rep.PaneClasses, c)
		}
	}
	if cp, ok := st.Strategy.LastPosition(); ok {
		p := FromConnected(cp)
		rep.Position = &p
	}
	st.events = nil
	return rep
}

// MoveOrigin translates the origin.
func (st *Stage) MoveOrigin(dx, dy float64) {
	if st.originEl != nil {
		st.originEl.MoveBy(dx, dy)
		return
	}
	st.point.X += dx
	st.point.Y += dy
	st.Strategy.SetOrigin(st.point)
}

// OriginRect returns the origin's current rectangle on screen.
func (st *Stage) OriginRect() geom.Rect {
	if st.originEl != nil {
		return st.originEl.Rect()
	}
	return position.ResolveOrigin(st.point)
}

// SetDirection changes the overlay's reading direction.
func (st *Stage) SetDirection(dir position.Direction) {
	st.Handle.SetDirection(dir)
	st.Scenario.Direction = string(dir)
}

// SetPush toggles pushing.
func (st *Stage) SetPush(enabled bool) {
	st.Strategy.WithPush(enabled)
	st.Scenario.Strategy.Push = enabled
}

// SetFlexible toggles flexible dimensions.
func (st *Stage) SetFlexible(enabled bool) {
	st.Strategy.WithFlexibleDimensions(enabled)
	st.Scenario.Strategy.FlexibleDimensions = enabled
}

// SetLocked toggles the locked position.
func (st *Stage) SetLocked(locked bool) {
	st.Strategy.WithLockedPosition(locked)
	st.Scenario.Strategy.Locked = locked
}

// Close stops collecting events. It does not dispose the strategy.
func (st *Stage) Close() {
	if st.unsubscribe != nil {
		st.unsubscribe()
		st.unsubscribe = nil
	}
}
