package config

import (
	"testing"
	"time"
)

func TestClampTickRateFloor(t *testing.T) {
	c := Default()
	if got := c.ClampTickRate(time.Millisecond); got != c.MinTickRate {
		t.Fatalf("ClampTickRate(1ms) = %v, want floor %v", got, c.MinTickRate)
	}
}

func TestClampTickRateCeiling(t *testing.T) {
	c := Default()
	if got := c.ClampTickRate(10 * time.Second); got != c.MaxTickRate {
		t.Fatalf("ClampTickRate(10s) = %v, want ceiling %v", got, c.MaxTickRate)
	}
}

func TestClampTickRatePassesThroughInRange(t *testing.T) {
	c := Default()
	mid := 500 * time.Millisecond
	if got := c.ClampTickRate(mid); got != mid {
		t.Fatalf("ClampTickRate(%v) = %v, want unchanged", mid, got)
	}
}

func TestDefaultConfigIsSane(t *testing.T) {
	c := Default()
	if c.GridWidth <= 0 || c.GridHeight <= 0 {
		t.Fatalf("Default() produced a non-positive grid: %dx%d", c.GridWidth, c.GridHeight)
	}
	if c.MinTickRate > c.MaxTickRate {
		t.Fatalf("Default() MinTickRate (%v) exceeds MaxTickRate (%v)", c.MinTickRate, c.MaxTickRate)
	}
	if c.NumWorkers < 1 {
		t.Fatalf("Default() NumWorkers = %d, want at least 1", c.NumWorkers)
	}
}
