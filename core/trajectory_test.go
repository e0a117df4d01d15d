package core

import "testing"

func TestEventFlags(t *testing.T) {
	e := EventRangeStep | EventZeroCrossing

	if !e.Has(EventRangeStep) || !e.Has(EventZeroCrossing) {
		t.Errorf("Has lost a set flag in %b", e)
	}
	if e.Has(EventApex) {
		t.Errorf("Has reported an unset flag in %b", e)
	}
	if !e.Has(EventRangeStep | EventZeroCrossing) {
		t.Errorf("Has should match the full combination")
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		e    Event
		want string
	}{
		{0, ""},
		{EventRangeStep, "range"},
		{EventZeroCrossing | EventApex, "zero|apex"},
		{EventRangeStep | EventMachCrossing | EventRequested, "range|mach|mark"},
	}
	for _, tt := range tests {
		if got := tt.e.String(); got != tt.want {
			t.Errorf("Event(%b).String() = %q, want %q", tt.e, got, tt.want)
		}
	}
}

func TestTerminationString(t *testing.T) {
	tests := []struct {
		term Termination
		want string
	}{
		{TerminationNone, "none"},
		{TerminationMaxRange, "max_range"},
		{TerminationGroundImpact, "ground_impact"},
		{TerminationMinVelocity, "min_velocity"},
		{TerminationFailed, "failed"},
		{Termination(42), "none"},
	}
	for _, tt := range tests {
		if got := tt.term.String(); got != tt.want {
			t.Errorf("Termination(%d).String() = %q, want %q", tt.term, got, tt.want)
		}
	}
}
