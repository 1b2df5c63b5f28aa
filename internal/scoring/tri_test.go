package scoring

import "testing"

func TestEstimateLinear_Bounds(t *testing.T) {
	for _, code := range []string{AreaLC, AreaCH, AreaCN, AreaMT} {
		b := BoundsFor(code)
		for _, n := range []int{1, 10, 45, 90} {
			if got := EstimateLinear(0, n, code); got != b.Min {
				t.Errorf("%s: estimate(0, %d) = %v, want floor %v", code, n, got, b.Min)
			}
			if got := EstimateLinear(n, n, code); got != b.Max {
				t.Errorf("%s: estimate(%d, %d) = %v, want ceiling %v", code, n, n, got, b.Max)
			}
		}
	}
}

func TestEstimateLinear_KnownValues(t *testing.T) {
	tests := []struct {
		name     string
		correct  int
		total    int
		area     string
		expected float64
	}{
		{"LC all correct", 10, 10, AreaLC, 820.8},
		{"LC none correct", 0, 10, AreaLC, 299.6},
		{"LC halfway", 5, 10, AreaLC, 560.2},
		{"zero items yields floor", 0, 0, AreaLC, 299.6},
		{"unknown area falls back to LC", 10, 10, "XX", 820.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateLinear(tt.correct, tt.total, tt.area); got != tt.expected {
				t.Errorf("EstimateLinear(%d, %d, %s) = %v, want %v", tt.correct, tt.total, tt.area, got, tt.expected)
			}
		})
	}
}

func TestEstimateLinear_Monotonic(t *testing.T) {
	const total = 45
	prev := EstimateLinear(0, total, AreaMT)
	for correct := 1; correct <= total; correct++ {
		got := EstimateLinear(correct, total, AreaMT)
		if got < prev {
			t.Fatalf("estimate decreased from %v to %v at correct=%d", prev, got, correct)
		}
		prev = got
	}
}

func TestBoundsFor_Fallback(t *testing.T) {
	ref := BoundsFor(ReferenceArea)
	if got := BoundsFor("no-such-area"); got != ref {
		t.Errorf("unknown area bounds = %v, want reference %v", got, ref)
	}
}
