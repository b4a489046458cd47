package utils

import (
	"math"
	"testing"
)

func TestTruncate(t *testing.T) {
	if got := Truncate("kısa", 10); got != "kısa" {
		t.Errorf("got %q", got)
	}
	if got := Truncate("hello world", 5); got != "hello..." {
		t.Errorf("got %q", got)
	}
	if got := Truncate("x", 0); got != "x" {
		t.Errorf("got %q", got)
	}
}

func TestNormalizeL2(t *testing.T) {
	v := []float32{3, 4}
	NormalizeL2(v)
	var norm float64
	for _, x := range v {
		norm += float64(x * x)
	}
	if math.Abs(norm-1) > 1e-6 {
		t.Errorf("norm=%v", norm)
	}

	zero := []float32{0, 0}
	NormalizeL2(zero)
	if zero[0] != 0 || zero[1] != 0 {
		t.Error("zero vector must stay zero")
	}
}

func TestNewLogger(t *testing.T) {
	for _, debug := range []bool{true, false} {
		logger, err := NewLogger(debug)
		if err != nil {
			t.Fatalf("NewLogger(%v): %v", debug, err)
		}
		if logger == nil {
			t.Fatalf("NewLogger(%v) returned nil", debug)
		}
		_ = logger.Sync()
	}
}
