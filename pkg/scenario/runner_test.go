package scenario

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tether/pkg/cache"
	"github.com/matzehuels/tether/pkg/errors"
	"github.com/matzehuels/tether/pkg/geom"
)

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.New(io.Discard))
}

func run(t *testing.T, sc *Scenario) *Report {
	t.Helper()
	res, err := quietRunner(nil).Run(context.Background(), sc, RunOptions{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	return res.Report
}

func TestRunBasic(t *testing.T) {
	rep := run(t, basic())

	final := rep.Final()
	want := geom.NewRect(100, 120, 300, 200)
	if final.Overlay != want {
		t.Errorf("Overlay = %+v, want %+v", final.Overlay, want)
	}
	if final.Candidate != 0 || final.Mode != "full" {
		t.Errorf("Candidate, Mode = %d, %q, want 0, full", final.Candidate, final.Mode)
	}
	if final.PaneStyle["top"] != "120px" || final.PaneStyle["left"] != "100px" {
		t.Errorf("PaneStyle = %v", final.PaneStyle)
	}
	if len(final.Events) != 1 || final.Events[0].Candidate != 0 {
		t.Errorf("Events = %+v, want one event for candidate 0", final.Events)
	}
}

func TestRunScript(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "menu.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	rep := run(t, sc)
	if len(rep.Steps) != 5 {
		t.Fatalf("len(Steps) = %d, want 5", len(rep.Steps))
	}

	tests := []struct {
		step      int
		candidate int
		top       float64
		classes   []string
		events    int
		code      string
	}{
		{0, 0, 120, []string{"below"}, 1, ""},
		{1, 0, 120, []string{"below"}, 0, ""},
		{2, 1, 350, []string{"above"}, 1, ""},
		{3, -1, 350, nil, 0, ""},
		{4, -1, 350, nil, 0, string(errors.ErrCodeNotAttached)},
	}
	for _, tt := range tests {
		got := rep.Steps[tt.step]
		if got.Candidate != tt.candidate {
			t.Errorf("step %d: Candidate = %d, want %d", tt.step, got.Candidate, tt.candidate)
		}
		if got.Overlay.Top != tt.top {
			t.Errorf("step %d: Overlay.Top = %v, want %v", tt.step, got.Overlay.Top, tt.top)
		}
		if len(got.PaneClasses) != len(tt.classes) || (len(tt.classes) > 0 && got.PaneClasses[0] != tt.classes[0]) {
			t.Errorf("step %d: PaneClasses = %v, want %v", tt.step, got.PaneClasses, tt.classes)
		}
		if len(got.Events) != tt.events {
			t.Errorf("step %d: %d events, want %d", tt.step, len(got.Events), tt.events)
		}
		if got.Code != tt.code {
			t.Errorf("step %d: Code = %q, want %q", tt.step, got.Code, tt.code)
		}
	}
	if got := rep.Steps[2].PaneStyle["transform-origin"]; got != "left bottom" {
		t.Errorf("transform-origin = %q, want %q", got, "left bottom")
	}
}

func TestRunPush(t *testing.T) {
	sc := basic()
	sc.Origin.X = 700
	sc.Strategy.Push = true
	final := run(t, sc).Final()

	if !final.Pushed || final.Mode != "pushed" {
		t.Errorf("Pushed, Mode = %v, %q, want true, pushed", final.Pushed, final.Mode)
	}
	if final.Overlay.Left != 500 {
		t.Errorf("Overlay.Left = %v, want 500", final.Overlay.Left)
	}
}

func TestRunScroll(t *testing.T) {
	tests := []struct {
		kind string
		want float64
	}{
		{OriginElement, 70},
		{OriginPoint, 120},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			sc := basic()
			sc.Origin.Kind = tt.kind
			sc.Steps = []Step{{Action: ActionApply}, {Action: ActionScroll, DY: 50}, {Action: ActionApply}}
			final := run(t, sc).Final()
			if final.Overlay.Top != tt.want {
				t.Errorf("Overlay.Top = %v, want %v", final.Overlay.Top, tt.want)
			}
		})
	}
}

func TestRunResizeReapplies(t *testing.T) {
	sc := basic()
	sc.Origin.Y = 200
	sc.Positions = append(sc.Positions, Position{OriginX: "start", OriginY: "top", OverlayX: "start", OverlayY: "bottom"})
	sc.Steps = []Step{{Action: ActionApply}, {Action: ActionResize, Width: 800, Height: 250}}
	rep := run(t, sc)

	if got := rep.Steps[1].Candidate; got != 1 {
		t.Errorf("Candidate after resize = %d, want 1", got)
	}
	if got := rep.Steps[1].Overlay.Top; got != 0 {
		t.Errorf("Overlay.Top after resize = %v, want 0", got)
	}
}

func TestRunMovePointOrigin(t *testing.T) {
	sc := basic()
	sc.Origin.Kind = OriginPoint
	sc.Steps = []Step{{Action: ActionMoveOrigin, DX: 20}, {Action: ActionApply}}
	final := run(t, sc).Final()
	if final.Overlay.Left != 120 {
		t.Errorf("Overlay.Left = %v, want 120", final.Overlay.Left)
	}
}

func TestRunHeadless(t *testing.T) {
	sc := basic()
	sc.Viewport = Viewport{Headless: true}
	final := run(t, sc).Final()
	if final.Candidate != -1 || final.Error != "" {
		t.Errorf("Candidate, Error = %d, %q, want -1 and no error", final.Candidate, final.Error)
	}
}

func TestRunDispose(t *testing.T) {
	sc := basic()
	sc.Steps = []Step{{Action: ActionApply}, {Action: ActionDispose}, {Action: ActionAttach}, {Action: ActionApply}}
	rep := run(t, sc)

	disposed := rep.Steps[1]
	if len(disposed.HostStyle) != 0 {
		t.Errorf("HostStyle after dispose = %v", disposed.HostStyle)
	}
	if _, ok := disposed.PaneStyle["top"]; ok {
		t.Errorf("PaneStyle after dispose = %v, want top cleared", disposed.PaneStyle)
	}
	if got := rep.Steps[2].Code; got != string(errors.ErrCodeDisposed) {
		t.Errorf("attach after dispose: Code = %q, want %q", got, errors.ErrCodeDisposed)
	}
	if final := rep.Final(); final.Error != "" || final.Candidate != -1 {
		t.Errorf("apply after dispose = %+v, want silent no-op", final)
	}
}

func TestRunInvalidKeyword(t *testing.T) {
	sc := basic()
	sc.Positions[0].OverlayY = "middle"
	_, err := quietRunner(nil).Run(context.Background(), sc, RunOptions{})
	if !errors.Is(err, errors.ErrCodeInvalidPosition) {
		t.Errorf("Run() error = %v, want %s", err, errors.ErrCodeInvalidPosition)
	}
}

func TestRunCached(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	r := quietRunner(fc)
	ctx := context.Background()

	fresh, err := r.Run(ctx, basic(), RunOptions{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if fresh.CacheHit {
		t.Error("first Run() hit the cache")
	}

	cached, err := r.Run(ctx, basic(), RunOptions{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !cached.CacheHit {
		t.Error("second Run() missed the cache")
	}
	if cached.RunID == fresh.RunID {
		t.Error("runs share a RunID")
	}

	a, _ := json.Marshal(fresh.Report)
	b, _ := json.Marshal(cached.Report)
	if !bytes.Equal(a, b) {
		t.Errorf("cached report differs from fresh report:\n%s\n%s", a, b)
	}

	refreshed, err := r.Run(ctx, basic(), RunOptions{Refresh: true})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if refreshed.CacheHit {
		t.Error("Run() with Refresh hit the cache")
	}
}

func TestRunExampleScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "*.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no example scenarios found")
	}

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			sc, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			rep := run(t, sc)
			for _, s := range rep.Steps {
				if s.Error != "" {
					t.Errorf("step %d (%s): %s", s.Index, s.Action, s.Error)
				}
			}
			if rep.Steps[0].Candidate < 0 {
				t.Errorf("first step placed nothing")
			}
		})
	}
}
