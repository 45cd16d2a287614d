package services

import (
	"testing"
)

func TestLevelOptions(t *testing.T) {
	if len(LevelOptions) == 0 {
		t.Fatal("LevelOptions should not be empty")
	}
	seen := make(map[string]bool)
	for _, opt := range LevelOptions {
		if opt == "" {
			t.Error("LevelOptions contains empty string")
		}
		if seen[opt] {
			t.Errorf("duplicate level %q", opt)
		}
		seen[opt] = true
	}
	for _, want := range []string{"Júnior", "Pleno", "Sênior"} {
		if !seen[want] {
			t.Errorf("expected level %q not found", want)
		}
	}
}

func TestAllocationPercentOptions(t *testing.T) {
	for _, v := range AllocationPercentOptions {
		if v <= 0 || v > 100 {
			t.Errorf("percentage option %d out of range", v)
		}
	}
	if AllocationPercentOptions[len(AllocationPercentOptions)-1] != 100 {
		t.Error("last percentage option should be 100")
	}
}

func TestDurationOptions(t *testing.T) {
	for i, v := range DurationOptions {
		if v < 1 {
			t.Errorf("duration %d is below one month", v)
		}
		if i > 0 && v <= DurationOptions[i-1] {
			t.Errorf("durations not ascending at %d", i)
		}
	}
}
