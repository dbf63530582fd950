package scoring

import (
	"math"
	"testing"
)

func TestNormLog_Monotonic(t *testing.T) {
	// Pool resembling a real snapshot: US (~27T), Germany, Vietnam (~430B).
	pool := NewLogPool([]float64{27e12, 4.4e12, 430e9, 1.1e11})

	usa, ok := pool.NormLog(27e12)
	if !ok {
		t.Fatal("expected USA GDP to normalize")
	}
	vnm, ok := pool.NormLog(430e9)
	if !ok {
		t.Fatal("expected VNM GDP to normalize")
	}

	if usa <= vnm {
		t.Errorf("expected norm(USA)=%f > norm(VNM)=%f", usa, vnm)
	}
	if usa != 1.0 {
		t.Errorf("pool max should normalize to 1.0, got %f", usa)
	}
	if vnm < 0 || vnm > 1 {
		t.Errorf("norm out of bounds: %f", vnm)
	}
}

func TestNormLog_DegeneratePool(t *testing.T) {
	// All candidates equal: no discriminating information, everyone gets 0.5.
	pool := NewLogPool([]float64{5e11, 5e11, 5e11})

	for _, v := range []float64{5e11, 5e11} {
		got, ok := pool.NormLog(v)
		if !ok {
			t.Fatal("expected value to normalize")
		}
		if got != 0.5 {
			t.Errorf("degenerate pool: expected exactly 0.5, got %f", got)
		}
	}
}

func TestNormLog_RejectsNonPositive(t *testing.T) {
	pool := NewLogPool([]float64{1e9, 1e12})
	if _, ok := pool.NormLog(0); ok {
		t.Error("zero must not normalize")
	}
	if _, ok := pool.NormLog(-5); ok {
		t.Error("negative must not normalize")
	}
}

func TestNewLogPool_SkipsNonPositive(t *testing.T) {
	pool := NewLogPool([]float64{-1, 0, 100, 1000})
	if pool.Count != 2 {
		t.Errorf("expected 2 pooled values, got %d", pool.Count)
	}
	if pool.MinLog != math.Log(100) || pool.MaxLog != math.Log(1000) {
		t.Errorf("unexpected pool extrema: [%f, %f]", pool.MinLog, pool.MaxLog)
	}
}

func TestNormClip(t *testing.T) {
	tests := []struct {
		name   string
		x      float64
		lower  float64
		upper  float64
		expect float64
	}{
		{"above upper clips to 1 exactly", 15, -5, 10, 1.0},
		{"below lower clips to 0 exactly", -10, -5, 10, 0.0},
		{"interior value", 5.07, -5, 10, (5.07 + 5) / 15},
		{"zero growth is a real observation", 0, -5, 10, 5.0 / 15},
		{"at lower bound", -5, -5, 10, 0.0},
		{"at upper bound", 10, -5, 10, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormClip(tt.x, tt.lower, tt.upper)
			if math.Abs(got-tt.expect) > 1e-9 {
				t.Errorf("NormClip(%f, %f, %f) = %f, want %f", tt.x, tt.lower, tt.upper, got, tt.expect)
			}
		})
	}
}
