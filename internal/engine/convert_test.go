package engine

import (
	"math"
	"testing"
)

func TestComputeScenarios(t *testing.T) {
	origin := Session{OriginX: 500, OriginY: 200, OriginTime: 5}

	tests := []struct {
		name string
		cfg  AxisConfig
		x, y float64
		want float64
	}{
		{"forward vertical", AxisConfig{Axis: AxisVertical, Factor: 1}, 500, 300, 15},
		{"reverse clamps at zero", AxisConfig{Axis: AxisVertical, Reverse: true, Factor: 1}, 500, 300, 0},
		{"factor five", AxisConfig{Axis: AxisVertical, Factor: 5}, 500, 300, 55},
		{"backward vertical", AxisConfig{Axis: AxisVertical, Factor: 1}, 500, 170, 2},
		{"reverse upward drag goes forward", AxisConfig{Axis: AxisVertical, Reverse: true, Factor: 1}, 500, 100, 15},
		{"clamps at duration", AxisConfig{Axis: AxisVertical, Factor: 5}, 500, 900, 100},
		{"zero delta keeps origin", AxisConfig{Axis: AxisVertical, Factor: 1}, 500, 200, 5},
		{"horizontal uses width", AxisConfig{Axis: AxisHorizontal, Factor: 1}, 700, 200, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// width 2000 so the horizontal case travels 200/2000 of the screen
			got, ok := Compute(origin, tt.cfg, tt.x, tt.y, 2000, 1000, 100)
			if !ok {
				t.Fatalf("expected conversion to succeed")
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected %.3f, got %.3f", tt.want, got)
			}
		})
	}
}

func TestComputeUnknownDuration(t *testing.T) {
	for _, d := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, ok := Compute(Session{}, DefaultAxisConfig(), 0, 100, 1000, 1000, d); ok {
			t.Errorf("duration %v: expected no conversion", d)
		}
	}
}

func TestComputeZeroExtent(t *testing.T) {
	if _, ok := Compute(Session{}, DefaultAxisConfig(), 0, 100, 1000, 0, 100); ok {
		t.Error("expected no conversion with zero viewport height")
	}
}

func TestComputeAxisIndependence(t *testing.T) {
	s := Session{OriginX: 100, OriginY: 100, OriginTime: 40}

	got, _ := Compute(s, AxisConfig{Axis: AxisHorizontal, Factor: 1}, 100, 400, 1000, 1000, 100)
	if got != 40 {
		t.Errorf("vertical drag moved horizontal scrubber to %.3f", got)
	}
	got, _ = Compute(s, AxisConfig{Axis: AxisVertical, Factor: 1}, 400, 100, 1000, 1000, 100)
	if got != 40 {
		t.Errorf("horizontal drag moved vertical scrubber to %.3f", got)
	}
}

func TestComputeReverseSymmetry(t *testing.T) {
	s := Session{OriginY: 500, OriginTime: 50}
	for _, y := range []float64{400, 450, 550, 600} {
		fwd, _ := Compute(s, AxisConfig{Factor: 1}, 0, y, 1000, 1000, 100)
		rev, _ := Compute(s, AxisConfig{Reverse: true, Factor: 1}, 0, y, 1000, 1000, 100)
		if math.Abs((fwd-50)+(rev-50)) > 1e-9 {
			t.Errorf("y=%.0f: forward offset %.3f and reverse offset %.3f are not opposite", y, fwd-50, rev-50)
		}
	}
}

func TestTimeDeltaFactorScaling(t *testing.T) {
	for factor := 1; factor <= 8; factor *= 2 {
		single := TimeDelta(37, 900, factor, 240)
		double := TimeDelta(37, 900, factor*2, 240)
		if math.Abs(double-2*single) > 1e-9 {
			t.Errorf("factor %d: doubling gave %.6f, want %.6f", factor, double, 2*single)
		}
	}
	if got := TimeDelta(100, 1000, 0, 100); got != 10 {
		t.Errorf("factor below 1 should act as 1, got %.3f", got)
	}
}

func TestComputeAlwaysClamped(t *testing.T) {
	durations := []float64{0.5, 7, 100, 3600}
	origins := []float64{0, 0.25, 0.5, 1}
	deltas := []float64{-5000, -300, -1, 0, 1, 300, 5000}
	for _, d := range durations {
		for _, of := range origins {
			for _, dy := range deltas {
				for factor := 1; factor <= 5; factor++ {
					for _, rev := range []bool{false, true} {
						s := Session{OriginY: 500, OriginTime: of * d}
						got, ok := Compute(s, AxisConfig{Reverse: rev, Factor: factor}, 0, 500+dy, 800, 1000, d)
						if !ok {
							t.Fatalf("unexpected skip")
						}
						if got < 0 || got > d {
							t.Fatalf("duration %.2f origin %.2f delta %.0f factor %d: %.4f out of range", d, of*d, dy, factor, got)
						}
					}
				}
			}
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct{ in, dur, want float64 }{
		{-1, 10, 0},
		{5, 10, 5},
		{11, 10, 10},
		{math.NaN(), 10, 0},
		{3, 0, 0},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in, tt.dur); got != tt.want {
			t.Errorf("Clamp(%v, %v) = %v, want %v", tt.in, tt.dur, got, tt.want)
		}
	}
}

func TestParseAxis(t *testing.T) {
	if a, err := ParseAxis("Horizontal"); err != nil || a != AxisHorizontal {
		t.Errorf("expected horizontal, got %q (%v)", a, err)
	}
	if a, err := ParseAxis(""); err != nil || a != AxisVertical {
		t.Errorf("expected vertical default, got %q (%v)", a, err)
	}
	if _, err := ParseAxis("diagonal"); err == nil {
		t.Error("expected error for unknown axis")
	}
}
