package metrics

import "testing"

func TestComputeCPUUsage(t *testing.T) {
	t.Run("zero interval does not divide by zero", func(t *testing.T) {
		got := computeCPUUsage(1000, 500, 0)
		if got != 0 {
			t.Fatalf("expected 0, got %v", got)
		}
	})

	t.Run("negative interval does not divide by zero", func(t *testing.T) {
		got := computeCPUUsage(1000, 500, -5)
		if got != 0 {
			t.Fatalf("expected 0, got %v", got)
		}
	})

	t.Run("normal interval computes a fraction", func(t *testing.T) {
		got := computeCPUUsage(2000, 1000, 2000)
		if got != 0.5 {
			t.Fatalf("expected 0.5, got %v", got)
		}
	})
}
