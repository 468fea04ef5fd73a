package position

import (
	"maps"
	"testing"

	"github.com/matzehuels/tether/pkg/dom"
	"github.com/matzehuels/tether/pkg/errors"
	"github.com/matzehuels/tether/pkg/geom"
)

// fixture is an 800x600 document with a full-viewport container, a host
// and a 300x200 pane, and a 50x20 origin element at (100, 100).
type fixture struct {
	viewport  *dom.Viewport
	doc       *dom.Document
	container *dom.Element
	host      *dom.Element
	pane      *dom.Element
	origin    *dom.Element
	handle    *Handle
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithViewport(t, dom.NewViewport(800, 600))
}

func newFixtureWithViewport(t *testing.T, v *dom.Viewport) *fixture {
	t.Helper()
	doc := dom.NewDocument(v)
	doc.DefineClass(BoundingBoxClass, dom.Style{"display": "flex", "flex-direction": "column"})

	container := doc.CreateElement("div")
	for _, p := range []string{"top", "left", "right", "bottom"} {
		container.SetStyle(p, "0")
	}
	host := container.AppendChild(doc.CreateElement("div"))
	pane := host.AppendChild(doc.CreateElement("div"))
	pane.ID = "pane"
	pane.SetSize(300, 200)

	origin := doc.CreateElement("button").SetRect(geom.NewRect(100, 100, 50, 20))

	return &fixture{
		viewport:  v,
		doc:       doc,
		container: container,
		host:      host,
		pane:      pane,
		origin:    origin,
		handle:    NewHandle(pane, host, container, OverlayConfig{}, LTR),
	}
}

func (f *fixture) strategy(positions ...ConnectedPosition) *Strategy {
	return New(ElementOrigin{Element: f.origin}, f.viewport).WithPositions(positions)
}

func (f *fixture) attach(t *testing.T, s *Strategy) {
	t.Helper()
	if err := s.Attach(f.handle); err != nil {
		t.Fatalf("Attach() error: %v", err)
	}
}

func (f *fixture) apply(t *testing.T, s *Strategy) {
	t.Helper()
	if err := s.Apply(); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
}

func endBelow() ConnectedPosition {
	return ConnectedPosition{OriginX: End, OriginY: Bottom, OverlayX: End, OverlayY: Top}
}

func TestApplyBelow(t *testing.T) {
	f := newFixture(t)
	s := f.strategy(Below())
	f.attach(t, s)
	f.apply(t, s)

	want := geom.NewRect(100, 120, 300, 200)
	if got := f.pane.Rect(); got != want {
		t.Errorf("pane.Rect() = %+v, want %+v", got, want)
	}
	if got := f.pane.Style("top"); got != "120px" {
		t.Errorf("pane top = %q, want %q", got, "120px")
	}
	if got := f.pane.Style("left"); got != "100px" {
		t.Errorf("pane left = %q, want %q", got, "100px")
	}
	if s.Mode() != ModeFull {
		t.Errorf("Mode() = %q, want %q", s.Mode(), ModeFull)
	}
	if !f.host.HasClass(BoundingBoxClass) {
		t.Errorf("host is missing %s", BoundingBoxClass)
	}
	if got := f.host.Style("width"); got != "100%" {
		t.Errorf("host width = %q, want 100%%", got)
	}
}

func TestApplyPrefersFirstCompleteFit(t *testing.T) {
	f := newFixture(t)
	f.origin.SetRect(geom.NewRect(100, 300, 50, 20))

	tall := Below()
	tall.OffsetY = Offset(200) // pushes the overlay past the bottom edge
	s := f.strategy(tall, Above(), Below())
	f.attach(t, s)
	f.apply(t, s)

	if got := s.LastIndex(); got != 1 {
		t.Errorf("LastIndex() = %d, want 1", got)
	}
	if got := f.pane.Style("bottom"); got != "300px" {
		t.Errorf("pane bottom = %q, want %q", got, "300px")
	}
	if got := f.pane.Rect().Top; got != 100 {
		t.Errorf("pane top = %v, want 100", got)
	}
}

func TestApplyFallbackUncorrected(t *testing.T) {
	f := newFixture(t)
	f.origin.SetRect(geom.NewRect(100, 550, 50, 20))
	s := f.strategy(Below())
	f.attach(t, s)
	f.apply(t, s)

	if s.Mode() != ModeFallback {
		t.Errorf("Mode() = %q, want %q", s.Mode(), ModeFallback)
	}
	if s.IsPushed() {
		t.Error("IsPushed() = true, want false")
	}
	if got := f.pane.Rect().Top; got != 570 {
		t.Errorf("pane top = %v, want 570", got)
	}
}

func TestApplyFallbackTieKeepsFirst(t *testing.T) {
	f := newFixture(t)
	f.origin.SetRect(geom.NewRect(100, 550, 50, 20))

	second := Below()
	second.PanelClass = []string{"second"}
	s := f.strategy(Below(), second)
	f.attach(t, s)
	f.apply(t, s)

	if got := s.LastIndex(); got != 0 {
		t.Errorf("LastIndex() = %d, want 0", got)
	}
	if f.pane.HasClass("second") {
		t.Error("pane has class of the second candidate")
	}
}

func TestApplyFallbackLargestVisibleArea(t *testing.T) {
	f := newFixture(t)
	f.origin.SetRect(geom.NewRect(100, 500, 50, 20))

	// Below shows 80px of the pane; the shifted candidate only 30px.
	shifted := Below()
	shifted.OffsetY = Offset(50)
	s := f.strategy(shifted, Below())
	f.attach(t, s)
	f.apply(t, s)

	if got := s.LastIndex(); got != 1 {
		t.Errorf("LastIndex() = %d, want 1", got)
	}
}

func TestApplyPush(t *testing.T) {
	f := newFixture(t)
	f.origin.SetRect(geom.NewRect(700, 100, 50, 20))
	s := f.strategy(Below()).WithPush(true)
	f.attach(t, s)
	f.apply(t, s)

	if !s.IsPushed() || s.Mode() != ModePushed {
		t.Fatalf("IsPushed() = %v, Mode() = %q, want pushed", s.IsPushed(), s.Mode())
	}
	if got := f.pane.Style("left"); got != "500px" {
		t.Errorf("pane left = %q, want %q", got, "500px")
	}
	push, ok := s.PushAmount()
	if !ok || push != (geom.Point{X: -200}) {
		t.Errorf("PushAmount() = %+v, %v, want {-200 0}, true", push, ok)
	}
	if got := f.host.Style("height"); got != "100%" {
		t.Errorf("host height = %q, want exact sizing", got)
	}
}

func TestApplyPushReusedWhileLocked(t *testing.T) {
	tests := []struct {
		name     string
		locked   bool
		wantLeft string
	}{
		{"locked reuses push", true, "510px"},
		{"unlocked recomputes push", false, "500px"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.origin.SetRect(geom.NewRect(700, 100, 50, 20))
			s := f.strategy(Below()).WithPush(true).WithLockedPosition(tt.locked)
			f.attach(t, s)
			f.apply(t, s)

			f.origin.MoveBy(10, 0)
			f.apply(t, s)
			if got := f.pane.Style("left"); got != tt.wantLeft {
				t.Errorf("pane left = %q, want %q", got, tt.wantLeft)
			}
		})
	}
}

func TestApplyLockedKeepsPosition(t *testing.T) {
	f := newFixture(t)
	s := f.strategy(Below(), Above()).WithLockedPosition(true)
	f.attach(t, s)
	f.apply(t, s)

	f.origin.SetRect(geom.NewRect(100, 500, 50, 20))
	f.apply(t, s)

	if got := s.LastIndex(); got != 0 {
		t.Errorf("LastIndex() = %d, want 0", got)
	}
	if s.Mode() != ModeLocked {
		t.Errorf("Mode() = %q, want %q", s.Mode(), ModeLocked)
	}
	if got := f.pane.Style("top"); got != "520px" {
		t.Errorf("pane top = %q, want %q", got, "520px")
	}
}

func TestApplyRTL(t *testing.T) {
	f := newFixture(t)
	f.origin.SetRect(geom.NewRect(400, 100, 50, 20))
	f.handle.SetDirection(RTL)
	s := f.strategy(Below())
	f.attach(t, s)
	f.apply(t, s)

	if got := f.pane.Style("right"); got != "350px" {
		t.Errorf("pane right = %q, want %q", got, "350px")
	}
	if got := f.pane.Style("left"); got != "" {
		t.Errorf("pane left = %q, want empty", got)
	}
	want := geom.NewRect(150, 120, 300, 200)
	if got := f.pane.Rect(); got != want {
		t.Errorf("pane.Rect() = %+v, want %+v", got, want)
	}
}

func TestApplyFlexibleWeight(t *testing.T) {
	tests := []struct {
		name      string
		weight    float64
		wantIndex int
	}{
		{"larger box wins", 0, 0},
		{"weight outranks area", 5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.origin.SetRect(geom.NewRect(100, 500, 50, 20))
			f.handle.SetConfig(OverlayConfig{MinWidth: 100, MinHeight: 50})

			weighted := endBelow()
			weighted.Weight = tt.weight
			s := f.strategy(Below(), weighted).WithFlexibleDimensions(true)
			f.attach(t, s)
			f.apply(t, s)

			if s.Mode() != ModeFlexible {
				t.Fatalf("Mode() = %q, want %q", s.Mode(), ModeFlexible)
			}
			if got := s.LastIndex(); got != tt.wantIndex {
				t.Errorf("LastIndex() = %d, want %d", got, tt.wantIndex)
			}
			if got := f.pane.Style("position"); got != "static" {
				t.Errorf("pane position = %q, want static", got)
			}
			if got := f.host.Style("top"); got != "520px" {
				t.Errorf("host top = %q, want %q", got, "520px")
			}
			if got := f.host.Style("height"); got != "80px" {
				t.Errorf("host height = %q, want %q", got, "80px")
			}
		})
	}
}

func TestApplyFlexibleBoundingBox(t *testing.T) {
	f := newFixture(t)
	f.origin.SetRect(geom.NewRect(100, 500, 50, 20))
	f.handle.SetConfig(OverlayConfig{MinWidth: 100, MinHeight: 50, MaxHeight: 400})
	s := f.strategy(endBelow()).WithFlexibleDimensions(true)
	f.attach(t, s)
	f.apply(t, s)

	wantStyles := map[string]string{
		"right":           "650px",
		"left":            "",
		"width":           "150px",
		"align-items":     "flex-end",
		"justify-content": "flex-start",
		"max-height":      "400px",
	}
	for prop, want := range wantStyles {
		if got := f.host.Style(prop); got != want {
			t.Errorf("host %s = %q, want %q", prop, got, want)
		}
	}

	box := s.BoundingBox()
	if box.Right == nil || *box.Right != 650 || box.Width != 150 || box.Height != 80 {
		t.Errorf("BoundingBox() = %+v, want right 650, 150x80", box)
	}

	pane := f.pane.Rect()
	if pane.Width != 150 || pane.Height != 80 {
		t.Errorf("pane size = %vx%v, want 150x80", pane.Width, pane.Height)
	}
}

func TestApplyFlexibleDoesNotGrow(t *testing.T) {
	f := newFixture(t)
	f.origin.SetRect(geom.NewRect(100, 500, 50, 20))
	f.handle.SetConfig(OverlayConfig{MinWidth: 100, MinHeight: 50})
	s := f.strategy(Below()).WithFlexibleDimensions(true)
	f.attach(t, s)
	f.apply(t, s)

	f.origin.SetRect(geom.NewRect(100, 450, 50, 20))
	f.apply(t, s)
	if got := f.host.Style("height"); got != "80px" {
		t.Errorf("host height = %q, want %q", got, "80px")
	}

	s.WithGrowAfterOpen(true)
	f.apply(t, s)
	if got := f.host.Style("height"); got != "130px" {
		t.Errorf("host height with grow = %q, want %q", got, "130px")
	}
}

func TestApplyFlexibleCentered(t *testing.T) {
	tests := []struct {
		name      string
		pos       ConnectedPosition
		first     geom.Rect
		moved     geom.Rect
		sizeProp  string
		edgeProp  string
		wantSize  string // twice the distance to the nearer viewport edge
		wantEdge  string
		keptEdge  string // re-centred at origin minus half the previous size
		grownSize string
		grownEdge string
	}{
		{
			name:      "vertical",
			pos:       ConnectedPosition{OriginX: Start, OriginY: CenterY, OverlayX: Start, OverlayY: CenterY},
			first:     geom.NewRect(100, 390, 50, 20),
			moved:     geom.NewRect(100, 290, 50, 20),
			sizeProp:  "height",
			edgeProp:  "top",
			wantSize:  "400px",
			wantEdge:  "200px",
			keptEdge:  "100px",
			grownSize: "600px",
			grownEdge: "0px",
		},
		{
			name:      "horizontal",
			pos:       ConnectedPosition{OriginX: CenterX, OriginY: Bottom, OverlayX: CenterX, OverlayY: Top},
			first:     geom.NewRect(200, 100, 50, 20),
			moved:     geom.NewRect(300, 100, 50, 20),
			sizeProp:  "width",
			edgeProp:  "left",
			wantSize:  "450px",
			wantEdge:  "0px",
			keptEdge:  "100px",
			grownSize: "650px",
			grownEdge: "0px",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.origin.SetRect(tt.first)
			s := f.strategy(tt.pos).WithFlexibleDimensions(true)
			f.attach(t, s)
			f.apply(t, s)

			if got := f.host.Style(tt.sizeProp); got != tt.wantSize {
				t.Errorf("host %s = %q, want %q", tt.sizeProp, got, tt.wantSize)
			}
			if got := f.host.Style(tt.edgeProp); got != tt.wantEdge {
				t.Errorf("host %s = %q, want %q", tt.edgeProp, got, tt.wantEdge)
			}

			f.origin.SetRect(tt.moved)
			f.apply(t, s)
			if got := f.host.Style(tt.sizeProp); got != tt.wantSize {
				t.Errorf("host %s after move = %q, want %q", tt.sizeProp, got, tt.wantSize)
			}
			if got := f.host.Style(tt.edgeProp); got != tt.keptEdge {
				t.Errorf("host %s after move = %q, want %q", tt.edgeProp, got, tt.keptEdge)
			}

			s.WithGrowAfterOpen(true)
			f.apply(t, s)
			if got := f.host.Style(tt.sizeProp); got != tt.grownSize {
				t.Errorf("host %s with grow = %q, want %q", tt.sizeProp, got, tt.grownSize)
			}
			if got := f.host.Style(tt.edgeProp); got != tt.grownEdge {
				t.Errorf("host %s with grow = %q, want %q", tt.edgeProp, got, tt.grownEdge)
			}
		})
	}
}

func TestApplyIdempotent(t *testing.T) {
	centered := ConnectedPosition{OriginX: CenterX, OriginY: CenterY, OverlayX: CenterX, OverlayY: CenterY}

	tests := []struct {
		name  string
		setup func(f *fixture) *Strategy
	}{
		{"exact", func(f *fixture) *Strategy {
			return f.strategy(Below())
		}},
		{"pushed", func(f *fixture) *Strategy {
			f.origin.SetRect(geom.NewRect(700, 100, 50, 20))
			return f.strategy(Below()).WithPush(true)
		}},
		{"flexible", func(f *fixture) *Strategy {
			f.origin.SetRect(geom.NewRect(100, 500, 50, 20))
			f.handle.SetConfig(OverlayConfig{MinWidth: 100, MinHeight: 50})
			return f.strategy(Below()).WithFlexibleDimensions(true)
		}},
		{"centered", func(f *fixture) *Strategy {
			f.origin.SetRect(geom.NewRect(300, 300, 50, 20))
			return f.strategy(centered).WithFlexibleDimensions(true)
		}},
		{"rtl", func(f *fixture) *Strategy {
			f.origin.SetRect(geom.NewRect(400, 100, 50, 20))
			f.handle.SetDirection(RTL)
			return f.strategy(Below())
		}},
		{"scrolled with margin", func(f *fixture) *Strategy {
			f.viewport.ScrollTo(0, 40)
			return f.strategy(Below(), Above()).WithViewportMargin(8)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			s := tt.setup(f)
			f.attach(t, s)
			f.apply(t, s)
			rect, pane, host := f.pane.Rect(), f.pane.InlineStyle(), f.host.InlineStyle()
			index := s.LastIndex()

			f.apply(t, s)
			if got := f.pane.Rect(); got != rect {
				t.Errorf("pane.Rect() = %+v, want %+v", got, rect)
			}
			if got := f.pane.InlineStyle(); !maps.Equal(got, pane) {
				t.Errorf("pane style = %v, want %v", got, pane)
			}
			if got := f.host.InlineStyle(); !maps.Equal(got, host) {
				t.Errorf("host style = %v, want %v", got, host)
			}
			if got := s.LastIndex(); got != index {
				t.Errorf("LastIndex() = %d, want %d", got, index)
			}
		})
	}
}

func TestViewportMargin(t *testing.T) {
	f := newFixture(t)
	f.viewport.ScrollTo(0, 40)
	s := f.strategy(Below()).WithViewportMargin(8)
	f.attach(t, s)

	want := geom.Rect{Top: 48, Left: 8, Right: 792, Bottom: 632, Width: 784, Height: 584}
	if got := s.narrowedViewportRect(); got != want {
		t.Errorf("narrowedViewportRect() = %+v, want %+v", got, want)
	}
}

func TestApplyOffsets(t *testing.T) {
	f := newFixture(t)
	s := f.strategy(Below()).WithDefaultOffsetX(10).WithDefaultOffsetY(4)
	f.attach(t, s)
	f.apply(t, s)

	if got := f.pane.Style("transform"); got != "translateX(10px) translateY(4px)" {
		t.Errorf("pane transform = %q", got)
	}
	want := geom.NewRect(110, 124, 300, 200)
	if got := f.pane.Rect(); got != want {
		t.Errorf("pane.Rect() = %+v, want %+v", got, want)
	}
}

func TestApplyContainerOffset(t *testing.T) {
	f := newFixture(t)
	f.container.SetStyle("top", "30px")
	s := f.strategy(Below())
	f.attach(t, s)
	f.apply(t, s)

	if got := f.pane.Style("top"); got != "90px" {
		t.Errorf("pane top = %q, want %q", got, "90px")
	}
	if got := f.pane.Rect().Top; got != 120 {
		t.Errorf("pane client top = %v, want 120", got)
	}
}

func TestTransformOrigin(t *testing.T) {
	tests := []struct {
		name string
		dir  Direction
		pos  ConnectedPosition
		want string
	}{
		{"below ltr", LTR, Below(), "left top"},
		{"below rtl", RTL, Below(), "right top"},
		{"above ltr", LTR, Above(), "left bottom"},
		{"center", LTR, ConnectedPosition{OriginX: CenterX, OriginY: Bottom, OverlayX: CenterX, OverlayY: Top}, "center top"},
		{"end ltr", LTR, endBelow(), "right top"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.origin.SetRect(geom.NewRect(400, 300, 50, 20))
			f.handle.SetDirection(tt.dir)
			s := f.strategy(tt.pos).WithTransformOriginOn("#pane")
			f.attach(t, s)
			f.apply(t, s)

			if got := f.pane.Style("transform-origin"); got != tt.want {
				t.Errorf("transform-origin = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPanelClasses(t *testing.T) {
	f := newFixture(t)
	below := Below()
	below.PanelClass = []string{"below", "open"}
	above := Above()
	above.PanelClass = []string{"above"}
	s := f.strategy(below, above)
	f.attach(t, s)
	f.apply(t, s)

	if !f.pane.HasClass("below") || !f.pane.HasClass("open") {
		t.Errorf("pane classes = %v, want below and open", f.pane.Classes())
	}

	f.origin.SetRect(geom.NewRect(100, 500, 50, 20))
	f.apply(t, s)
	if f.pane.HasClass("below") || !f.pane.HasClass("above") {
		t.Errorf("pane classes = %v, want only above", f.pane.Classes())
	}

	s.Detach()
	if f.pane.HasClass("above") {
		t.Error("Detach() left panel class on pane")
	}
}

func TestAttachErrors(t *testing.T) {
	f := newFixture(t)

	t.Run("no positions", func(t *testing.T) {
		s := New(ElementOrigin{Element: f.origin}, f.viewport)
		if err := s.Attach(f.handle); !errors.Is(err, errors.ErrCodeNoPositions) {
			t.Errorf("Attach() error = %v, want %s", err, errors.ErrCodeNoPositions)
		}
	})

	t.Run("invalid keyword", func(t *testing.T) {
		s := f.strategy(ConnectedPosition{OriginX: "left", OriginY: Bottom, OverlayX: Start, OverlayY: Top})
		if !errors.Is(s.Err(), errors.ErrCodeInvalidPosition) {
			t.Errorf("Err() = %v, want %s", s.Err(), errors.ErrCodeInvalidPosition)
		}
		if err := s.Attach(f.handle); !errors.Is(err, errors.ErrCodeInvalidPosition) {
			t.Errorf("Attach() error = %v, want %s", err, errors.ErrCodeInvalidPosition)
		}
	})

	t.Run("invalid keyword unchecked", func(t *testing.T) {
		s := New(ElementOrigin{Element: f.origin}, f.viewport, WithValidation(ValidateNone)).
			WithPositions([]ConnectedPosition{{OriginX: "left", OriginY: Bottom, OverlayX: Start, OverlayY: Top}})
		if err := s.Err(); err != nil {
			t.Errorf("Err() = %v, want nil", err)
		}
	})

	t.Run("invalid selector", func(t *testing.T) {
		s := f.strategy(Below()).WithTransformOriginOn("div > span")
		if !errors.Is(s.Err(), errors.ErrCodeInvalidSelector) {
			t.Errorf("Err() = %v, want %s", s.Err(), errors.ErrCodeInvalidSelector)
		}
	})

	t.Run("nil ref", func(t *testing.T) {
		s := f.strategy(Below())
		if err := s.Attach(nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Attach(nil) error = %v, want %s", err, errors.ErrCodeInvalidInput)
		}
	})

	t.Run("missing host", func(t *testing.T) {
		s := f.strategy(Below())
		ref := NewHandle(f.pane, nil, f.container, OverlayConfig{}, LTR)
		if err := s.Attach(ref); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Attach() error = %v, want %s", err, errors.ErrCodeInvalidInput)
		}
	})

	t.Run("already attached", func(t *testing.T) {
		s := f.strategy(Below())
		f.attach(t, s)
		other := NewHandle(f.pane, f.host, f.container, OverlayConfig{}, LTR)
		if err := s.Attach(other); !errors.Is(err, errors.ErrCodeAlreadyAttached) {
			t.Errorf("Attach(other) error = %v, want %s", err, errors.ErrCodeAlreadyAttached)
		}
		if err := s.Attach(f.handle); err != nil {
			t.Errorf("Attach(same) error = %v, want nil", err)
		}
		s.Detach()
		if err := s.Attach(other); err != nil {
			t.Errorf("Attach(other) after Detach error = %v, want nil", err)
		}
	})
}

func TestApplyErrors(t *testing.T) {
	f := newFixture(t)
	s := f.strategy(Below())
	if err := s.Apply(); !errors.Is(err, errors.ErrCodeNotAttached) {
		t.Errorf("Apply() error = %v, want %s", err, errors.ErrCodeNotAttached)
	}

	f.attach(t, s)
	s.WithPositions(nil)
	if err := s.Apply(); !errors.Is(err, errors.ErrCodeNoPositions) {
		t.Errorf("Apply() error = %v, want %s", err, errors.ErrCodeNoPositions)
	}
}

func TestApplyHeadless(t *testing.T) {
	f := newFixtureWithViewport(t, dom.NewHeadlessViewport())
	s := f.strategy(Below())
	f.attach(t, s)
	if err := s.Apply(); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if got := f.pane.Style("top"); got != "" {
		t.Errorf("pane top = %q, want untouched", got)
	}
	if s.LastIndex() != -1 {
		t.Errorf("LastIndex() = %d, want -1", s.LastIndex())
	}
}

func TestDispose(t *testing.T) {
	f := newFixture(t)
	below := Below()
	below.PanelClass = []string{"below"}
	s := f.strategy(below)
	f.attach(t, s)
	f.apply(t, s)
	s.PositionChanges().Subscribe(func(PositionChange) {})

	s.Dispose()
	s.Dispose()

	if !s.Disposed() {
		t.Error("Disposed() = false")
	}
	if f.host.HasClass(BoundingBoxClass) || f.pane.HasClass("below") {
		t.Error("Dispose() left classes behind")
	}
	for _, prop := range []string{"top", "left", "transform"} {
		if got := f.pane.Style(prop); got != "" {
			t.Errorf("pane %s = %q after Dispose", prop, got)
		}
	}
	for _, prop := range []string{"width", "height", "top"} {
		if got := f.host.Style(prop); got != "" {
			t.Errorf("host %s = %q after Dispose", prop, got)
		}
	}
	if n := f.viewport.ListenerCount(); n != 0 {
		t.Errorf("ListenerCount() = %d after Dispose, want 0", n)
	}
	if n := s.PositionChanges().Count(); n != 0 {
		t.Errorf("PositionChanges().Count() = %d after Dispose, want 0", n)
	}
	if err := s.Apply(); err != nil {
		t.Errorf("Apply() after Dispose error = %v, want nil", err)
	}

	if err := s.Attach(f.handle); !errors.Is(err, errors.ErrCodeDisposed) {
		t.Errorf("Attach() after Dispose error = %v, want %s", err, errors.ErrCodeDisposed)
	}
	if !s.Disposed() {
		t.Error("Disposed() = false after Attach")
	}
	events := 0
	s.PositionChanges().Subscribe(func(PositionChange) { events++ })
	if err := s.Apply(); err != nil {
		t.Errorf("Apply() after Attach error = %v, want nil", err)
	}
	if got := f.pane.Style("top"); got != "" || events != 0 {
		t.Errorf("Apply() after Attach placed the pane: top = %q, %d events", got, events)
	}
	if f.host.HasClass(BoundingBoxClass) {
		t.Error("Attach() after Dispose added the bounding box class")
	}
}

func TestWithPositionsRemapsLast(t *testing.T) {
	f := newFixture(t)
	s := f.strategy(Below(), Above())
	f.attach(t, s)
	f.apply(t, s)

	s.WithPositions([]ConnectedPosition{Above(), Below()})
	if got := s.LastIndex(); got != 1 {
		t.Errorf("LastIndex() after reorder = %d, want 1", got)
	}

	s.WithPositions([]ConnectedPosition{Above()})
	if got := s.LastIndex(); got != -1 {
		t.Errorf("LastIndex() after removal = %d, want -1", got)
	}
	if _, ok := s.LastPosition(); ok {
		t.Error("LastPosition() ok = true, want false")
	}
}

func TestPositionChanges(t *testing.T) {
	f := newFixture(t)
	s := f.strategy(Below(), Above())
	var got []PositionChange
	s.PositionChanges().Subscribe(func(c PositionChange) { got = append(got, c) })
	f.attach(t, s)

	f.apply(t, s)
	f.apply(t, s)
	if len(got) != 1 {
		t.Fatalf("events after two identical passes = %d, want 1", len(got))
	}
	if got[0].Index != 0 || got[0].StrategyID != s.ID() || !got[0].Position.Equal(Below()) {
		t.Errorf("event = %+v, want index 0 of %s", got[0], s.ID())
	}

	f.origin.SetRect(geom.NewRect(100, 500, 50, 20))
	f.apply(t, s)
	if len(got) != 2 || got[1].Index != 1 {
		t.Fatalf("events = %+v, want a second event for index 1", got)
	}
}

func TestPositionChangesScrollVisibility(t *testing.T) {
	f := newFixture(t)
	scroller := f.doc.CreateElement("div").SetRect(geom.NewRect(0, 0, 800, 300)).Pin()
	s := f.strategy(Below()).WithScrollableContainers([]Measurable{scroller})

	var got []PositionChange
	s.PositionChanges().Subscribe(func(c PositionChange) { got = append(got, c) })
	f.attach(t, s)
	f.apply(t, s)

	if len(got) != 1 {
		t.Fatalf("events = %d, want 1", len(got))
	}
	vis := got[0].ScrollVisibility
	if vis.IsOriginClipped || vis.IsOriginOutsideView || !vis.IsOverlayClipped || vis.IsOverlayOutsideView {
		t.Errorf("ScrollVisibility = %+v, want only overlay clipped", vis)
	}

	f.viewport.ScrollTo(0, 50)
	f.apply(t, s)
	if len(got) != 2 {
		t.Errorf("events = %d, want a second event after visibility change", len(got))
	}
}

func TestViewportChangeReapplies(t *testing.T) {
	f := newFixture(t)
	f.origin.SetRect(geom.NewRect(100, 200, 50, 20))
	s := f.strategy(Below(), Above())
	f.attach(t, s)
	f.apply(t, s)
	if s.LastIndex() != 0 {
		t.Fatalf("LastIndex() = %d, want 0", s.LastIndex())
	}

	f.viewport.Resize(800, 250)
	if got := s.LastIndex(); got != 1 {
		t.Errorf("LastIndex() after resize = %d, want 1", got)
	}

	s.Detach()
	if n := f.viewport.ListenerCount(); n != 0 {
		t.Errorf("ListenerCount() after Detach = %d, want 0", n)
	}
}

func TestReapplyLastPosition(t *testing.T) {
	f := newFixture(t)
	s := f.strategy(Below(), Above())
	f.attach(t, s)
	f.apply(t, s)

	f.origin.SetRect(geom.NewRect(100, 500, 50, 20))
	if err := s.ReapplyLastPosition(); err != nil {
		t.Fatalf("ReapplyLastPosition() error: %v", err)
	}
	if got := s.LastIndex(); got != 0 {
		t.Errorf("LastIndex() = %d, want 0", got)
	}
	if got := f.pane.Style("top"); got != "520px" {
		t.Errorf("pane top = %q, want %q", got, "520px")
	}
}
