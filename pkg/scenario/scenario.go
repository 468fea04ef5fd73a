// Package scenario describes overlay placements declaratively and replays
// them against the in-memory document.
//
// A scenario is a TOML file (or the equivalent JSON body of the HTTP API)
// that fixes a viewport, an origin, an overlay, the strategy settings and
// the candidate positions, followed by a script of steps:
//
//	name = "menu"
//
//	[viewport]
//	width = 800
//	height = 600
//
//	[origin]
//	x = 100
//	y = 100
//	width = 50
//	height = 20
//
//	[overlay]
//	width = 300
//	height = 200
//
//	[[positions]]
//	origin_x = "start"
//	origin_y = "bottom"
//	overlay_x = "start"
//	overlay_y = "top"
//
//	[[steps]]
//	action = "apply"
//
// A [Runner] executes a scenario and returns a [Report] with the chosen
// candidate, the overlay rectangle and the written styles after every step.
// Reports are cached by scenario content. A [Stage] is the live document
// behind a run; the preview command drives one interactively.
package scenario

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tether/pkg/cache"
	"github.com/matzehuels/tether/pkg/errors"
	"github.com/matzehuels/tether/pkg/position"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultViewportWidth  = 800.0
	DefaultViewportHeight = 600.0
	DefaultName           = "scenario"
)

// Step actions.
const (
	ActionApply         = "apply"
	ActionReapply       = "reapply"
	ActionScroll        = "scroll"
	ActionResize        = "resize"
	ActionMoveOrigin    = "move-origin"
	ActionResizeOverlay = "resize-overlay"
	ActionLock          = "lock"
	ActionUnlock        = "unlock"
	ActionAttach        = "attach"
	ActionDetach        = "detach"
	ActionDispose       = "dispose"
)

// ValidActions is the set of supported step actions.
var ValidActions = map[string]bool{
	ActionApply:         true,
	ActionReapply:       true,
	ActionScroll:        true,
	ActionResize:        true,
	ActionMoveOrigin:    true,
	ActionResizeOverlay: true,
	ActionLock:          true,
	ActionUnlock:        true,
	ActionAttach:        true,
	ActionDetach:        true,
	ActionDispose:       true,
}

// Origin kinds.
const (
	OriginElement = "element"
	OriginPoint   = "point"
)

// Validation levels.
const (
	ValidationAlways = "always"
	ValidationNone   = "none"
)

// =============================================================================
// Scenario
// =============================================================================

// Scenario is a complete placement setup plus a step script.
type Scenario struct {
	Name      string `toml:"name" json:"name,omitempty"`
	Direction string `toml:"direction" json:"direction,omitempty"`

	Viewport    Viewport   `toml:"viewport" json:"viewport"`
	Origin      Origin     `toml:"origin" json:"origin"`
	Overlay     Overlay    `toml:"overlay" json:"overlay"`
	Strategy    Strategy   `toml:"strategy" json:"strategy"`
	Positions   []Position `toml:"positions" json:"positions"`
	Scrollables []Rect     `toml:"scrollables" json:"scrollables,omitempty"`
	Steps       []Step     `toml:"steps" json:"steps,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Viewport sets the viewport size and initial scroll offset.
type Viewport struct {
	Width    float64 `toml:"width" json:"width,omitempty"`
	Height   float64 `toml:"height" json:"height,omitempty"`
	ScrollX  float64 `toml:"scroll_x" json:"scroll_x,omitempty"`
	ScrollY  float64 `toml:"scroll_y" json:"scroll_y,omitempty"`
	Headless bool    `toml:"headless" json:"headless,omitempty"`
}

// Origin is the rectangle the overlay connects to. An element origin lives
// in document coordinates and scrolls; a point origin is fixed on screen.
type Origin struct {
	Kind   string  `toml:"kind" json:"kind,omitempty"`
	X      float64 `toml:"x" json:"x"`
	Y      float64 `toml:"y" json:"y"`
	Width  float64 `toml:"width" json:"width,omitempty"`
	Height float64 `toml:"height" json:"height,omitempty"`
}

// Overlay is the pane's content size and sizing constraints.
type Overlay struct {
	Width     float64 `toml:"width" json:"width"`
	Height    float64 `toml:"height" json:"height"`
	MinWidth  float64 `toml:"min_width" json:"min_width,omitempty"`
	MinHeight float64 `toml:"min_height" json:"min_height,omitempty"`
	MaxWidth  float64 `toml:"max_width" json:"max_width,omitempty"`
	MaxHeight float64 `toml:"max_height" json:"max_height,omitempty"`

	// ContainerTop and ContainerLeft shift the overlay container, as an
	// on-screen keyboard or page zoom would.
	ContainerTop  float64 `toml:"container_top" json:"container_top,omitempty"`
	ContainerLeft float64 `toml:"container_left" json:"container_left,omitempty"`
}

// Strategy holds the strategy settings.
type Strategy struct {
	ViewportMargin     float64 `toml:"viewport_margin" json:"viewport_margin,omitempty"`
	FlexibleDimensions bool    `toml:"flexible_dimensions" json:"flexible_dimensions,omitempty"`
	GrowAfterOpen      bool    `toml:"grow_after_open" json:"grow_after_open,omitempty"`
	Push               bool    `toml:"push" json:"push,omitempty"`
	Locked             bool    `toml:"locked" json:"locked,omitempty"`
	DefaultOffsetX     float64 `toml:"default_offset_x" json:"default_offset_x,omitempty"`
	DefaultOffsetY     float64 `toml:"default_offset_y" json:"default_offset_y,omitempty"`
	TransformOriginOn  string  `toml:"transform_origin_on" json:"transform_origin_on,omitempty"`
	Validation         string  `toml:"validation" json:"validation,omitempty"`
}

// Position is a candidate in keyword form.
type Position struct {
	OriginX    string   `toml:"origin_x" json:"origin_x"`
	OriginY    string   `toml:"origin_y" json:"origin_y"`
	OverlayX   string   `toml:"overlay_x" json:"overlay_x"`
	OverlayY   string   `toml:"overlay_y" json:"overlay_y"`
	OffsetX    *float64 `toml:"offset_x" json:"offset_x,omitempty"`
	OffsetY    *float64 `toml:"offset_y" json:"offset_y,omitempty"`
	PanelClass []string `toml:"panel_class" json:"panel_class,omitempty"`
	Weight     float64  `toml:"weight" json:"weight,omitempty"`
}

// Rect is a rectangle in screen coordinates.
type Rect struct {
	X      float64 `toml:"x" json:"x"`
	Y      float64 `toml:"y" json:"y"`
	Width  float64 `toml:"width" json:"width"`
	Height float64 `toml:"height" json:"height"`
}

// Step is one scripted action. DX/DY are used by scroll and move-origin,
// Width/Height by resize and resize-overlay.
type Step struct {
	Action string  `toml:"action" json:"action"`
	DX     float64 `toml:"dx" json:"dx,omitempty"`
	DY     float64 `toml:"dy" json:"dy,omitempty"`
	Width  float64 `toml:"width" json:"width,omitempty"`
	Height float64 `toml:"height" json:"height,omitempty"`
}

// =============================================================================
// Loading
// =============================================================================

// Load reads a TOML scenario file.
func Load(path string) (*Scenario, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "scenario file not found: %s", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc, err := Decode(f)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "load %s", path)
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// Decode reads a TOML scenario. Unknown keys are rejected.
func Decode(r io.Reader) (*Scenario, error) {
	var sc Scenario
	md, err := toml.NewDecoder(r).Decode(&sc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScenario, err, "decode scenario")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidScenario, "unknown scenario key %q", undecoded[0].String())
	}
	return &sc, nil
}

// ParseJSON reads a JSON scenario, as posted to the HTTP API. Unknown
// fields are rejected.
func ParseJSON(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScenario, err, "decode scenario")
	}
	return &sc, nil
}

// Hash returns a content hash of the scenario after defaults are applied.
func (s *Scenario) Hash() string {
	data, _ := json.Marshal(s)
	return cache.Hash(data)
}

// =============================================================================
// Validation
// =============================================================================

// ValidateAndSetDefaults fills in defaults and validates the scenario. It
// is idempotent.
func (s *Scenario) ValidateAndSetDefaults() error {
	if s.validated {
		return nil
	}

	if s.Name == "" {
		s.Name = DefaultName
	}
	dir, err := position.ParseDirection(s.Direction)
	if err != nil {
		return err
	}
	s.Direction = string(dir)

	if !s.Viewport.Headless {
		if s.Viewport.Width == 0 {
			s.Viewport.Width = DefaultViewportWidth
		}
		if s.Viewport.Height == 0 {
			s.Viewport.Height = DefaultViewportHeight
		}
	}
	if s.Viewport.Width < 0 || s.Viewport.Height < 0 {
		return errors.New(errors.ErrCodeInvalidScenario, "viewport size must not be negative")
	}

	if s.Origin.Kind == "" {
		s.Origin.Kind = OriginElement
	}
	if s.Origin.Kind != OriginElement && s.Origin.Kind != OriginPoint {
		return errors.New(errors.ErrCodeInvalidScenario, "invalid origin kind %q, expected %q or %q", s.Origin.Kind, OriginElement, OriginPoint)
	}
	if s.Origin.Width < 0 || s.Origin.Height < 0 {
		return errors.New(errors.ErrCodeInvalidScenario, "origin size must not be negative")
	}

	if s.Overlay.Width <= 0 || s.Overlay.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidScenario, "overlay width and height are required")
	}
	if s.Overlay.MinWidth < 0 || s.Overlay.MinHeight < 0 || s.Overlay.MaxWidth < 0 || s.Overlay.MaxHeight < 0 {
		return errors.New(errors.ErrCodeInvalidScenario, "overlay size limits must not be negative")
	}

	if s.Strategy.ViewportMargin < 0 {
		return errors.New(errors.ErrCodeInvalidScenario, "viewport_margin must not be negative")
	}
	switch s.Strategy.Validation {
	case "":
		s.Strategy.Validation = ValidationAlways
	case ValidationAlways, ValidationNone:
	default:
		return errors.New(errors.ErrCodeInvalidScenario, "invalid validation %q, expected %q or %q", s.Strategy.Validation, ValidationAlways, ValidationNone)
	}

	if len(s.Positions) == 0 {
		return errors.New(errors.ErrCodeNoPositions, "at least one position is required")
	}
	if s.Strategy.Validation == ValidationAlways {
		for i, p := range s.Positions {
			if _, err := p.connected(true); err != nil {
				return errors.Wrap(errors.GetCode(err), err, "positions[%d]", i)
			}
		}
	}

	for i, sc := range s.Scrollables {
		if sc.Width < 0 || sc.Height < 0 {
			return errors.New(errors.ErrCodeInvalidScenario, "scrollables[%d]: size must not be negative", i)
		}
	}

	if len(s.Steps) == 0 {
		s.Steps = []Step{{Action: ActionApply}}
	}
	for i, st := range s.Steps {
		if !ValidActions[st.Action] {
			return errors.New(errors.ErrCodeInvalidScenario, "steps[%d]: unknown action %q", i, st.Action)
		}
	}

	s.validated = true
	return nil
}

// ConnectedPositions converts the candidates for the position engine.
func (s *Scenario) ConnectedPositions() ([]position.ConnectedPosition, error) {
	check := s.Strategy.Validation != ValidationNone
	out := make([]position.ConnectedPosition, 0, len(s.Positions))
	for i, p := range s.Positions {
		cp, err := p.connected(check)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "positions[%d]", i)
		}
		out = append(out, cp)
	}
	return out, nil
}

func (p Position) connected(check bool) (position.ConnectedPosition, error) {
	cp := position.ConnectedPosition{
		OriginX:    position.HorizontalPos(p.OriginX),
		OriginY:    position.VerticalPos(p.OriginY),
		OverlayX:   position.HorizontalPos(p.OverlayX),
		OverlayY:   position.VerticalPos(p.OverlayY),
		OffsetX:    p.OffsetX,
		OffsetY:    p.OffsetY,
		PanelClass: p.PanelClass,
		Weight:     p.Weight,
	}
	if check {
		if err := cp.Validate(); err != nil {
			return position.ConnectedPosition{}, err
		}
	}
	return cp, nil
}

// FromConnected converts an engine position back into keyword form.
func FromConnected(cp position.ConnectedPosition) Position {
	return Position{
		OriginX:    string(cp.OriginX),
		OriginY:    string(cp.OriginY),
		OverlayX:   string(cp.OverlayX),
		OverlayY:   string(cp.OverlayY),
		OffsetX:    cp.OffsetX,
		OffsetY:    cp.OffsetY,
		PanelClass: cp.PanelClass,
		Weight:     cp.Weight,
	}
}
