package position

import (
	"testing"

	"github.com/matzehuels/tether/pkg/geom"
)

func TestEvaluateFit(t *testing.T) {
	viewport := geom.NewRect(0, 0, 800, 600)
	overlay := geom.NewRect(0, 0, 300, 200)

	tests := []struct {
		name   string
		point  geom.Point
		dx, dy float64
		want   OverlayFit
	}{
		{
			name:  "inside",
			point: geom.Point{X: 100, Y: 120},
			want:  OverlayFit{VisibleArea: 60000, IsCompletelyWithinViewport: true, FitsInViewportVertically: true, FitsInViewportHorizontally: true},
		},
		{
			name:  "overflows bottom",
			point: geom.Point{X: 100, Y: 570},
			want:  OverlayFit{VisibleArea: 9000, FitsInViewportHorizontally: true},
		},
		{
			name:  "overflows left",
			point: geom.Point{X: -100, Y: 0},
			want:  OverlayFit{VisibleArea: 40000, FitsInViewportVertically: true},
		},
		{
			name:  "offset pushes out",
			point: geom.Point{X: 500, Y: 0},
			dx:    10,
			want:  OverlayFit{VisibleArea: 58000, FitsInViewportVertically: true},
		},
		{
			// Overflows are subtracted without clamping, so an overlay far
			// outside ranks below one that is barely outside.
			name:  "completely outside",
			point: geom.Point{X: 900, Y: 0},
			want:  OverlayFit{VisibleArea: -20000, FitsInViewportVertically: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateFit(tt.point, overlay, viewport, tt.dx, tt.dy)
			if got != tt.want {
				t.Errorf("EvaluateFit() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEvaluateFitRoundsOverlay(t *testing.T) {
	viewport := geom.NewRect(0, 0, 800, 600)
	overlay := geom.NewRect(0, 0, 300.7, 200.4)

	got := EvaluateFit(geom.Point{X: 499.5, Y: 0}, overlay, viewport, 0, 0)
	if !got.IsCompletelyWithinViewport {
		t.Errorf("EvaluateFit() = %+v, want complete fit for floored overlay", got)
	}
}

func TestCanFitWithFlexibleDimensions(t *testing.T) {
	viewport := geom.NewRect(0, 0, 800, 600)
	tests := []struct {
		name     string
		flexible bool
		cfg      OverlayConfig
		fit      OverlayFit
		point    geom.Point
		want     bool
	}{
		{"disabled", false, OverlayConfig{MinHeight: 50}, OverlayFit{FitsInViewportHorizontally: true}, geom.Point{X: 0, Y: 520}, false},
		{"min height fits", true, OverlayConfig{MinHeight: 50}, OverlayFit{FitsInViewportHorizontally: true}, geom.Point{X: 0, Y: 520}, true},
		{"min height too large", true, OverlayConfig{MinHeight: 100}, OverlayFit{FitsInViewportHorizontally: true}, geom.Point{X: 0, Y: 520}, false},
		{"no minimum", true, OverlayConfig{}, OverlayFit{FitsInViewportHorizontally: true}, geom.Point{X: 0, Y: 520}, false},
		{"both axes", true, OverlayConfig{MinWidth: 100, MinHeight: 50}, OverlayFit{}, geom.Point{X: 650, Y: 520}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.handle.SetConfig(tt.cfg)
			s := f.strategy(Below()).WithFlexibleDimensions(tt.flexible)
			f.attach(t, s)

			if got := s.canFitWithFlexibleDimensions(tt.fit, tt.point, viewport); got != tt.want {
				t.Errorf("canFitWithFlexibleDimensions() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOffsetFallsBackToDefault(t *testing.T) {
	s := New(PointOrigin{}, nil).WithDefaultOffsetX(4).WithDefaultOffsetY(6)
	pos := Below()
	if got := s.offset(pos, axisX); got != 4 {
		t.Errorf("offset(x) = %v, want 4", got)
	}
	pos.OffsetY = Offset(0)
	if got := s.offset(pos, axisY); got != 0 {
		t.Errorf("offset(y) = %v, want explicit 0", got)
	}
}
