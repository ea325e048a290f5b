package models

import "testing"

func TestValidStatus(t *testing.T) {
	for _, s := range []TaskStatus{StatusPending, StatusInProgress, StatusCompleted, StatusAwaitingClient} {
		if !ValidStatus(s) {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	for _, s := range []TaskStatus{"", "done", "Pending", "in-progress"} {
		if ValidStatus(s) {
			t.Fatalf("expected %q to be invalid", s)
		}
	}
}

func TestValidPriority(t *testing.T) {
	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh} {
		if !ValidPriority(p) {
			t.Fatalf("expected %q to be valid", p)
		}
	}
	for _, p := range []Priority{"", "urgent", "High"} {
		if ValidPriority(p) {
			t.Fatalf("expected %q to be invalid", p)
		}
	}
}

func TestCoerceStatus(t *testing.T) {
	if got := CoerceStatus(StatusCompleted); got != StatusCompleted {
		t.Fatalf("valid status coerced away: %q", got)
	}
	if got := CoerceStatus("doing stuff"); got != StatusPending {
		t.Fatalf("unknown status: got %q, want pending", got)
	}
	if got := CoerceStatus(""); got != StatusPending {
		t.Fatalf("empty status: got %q, want pending", got)
	}
}

func TestCoercePriority(t *testing.T) {
	if got := CoercePriority(PriorityHigh); got != PriorityHigh {
		t.Fatalf("valid priority coerced away: %q", got)
	}
	if got := CoercePriority("urgent"); got != PriorityMedium {
		t.Fatalf("unknown priority: got %q, want medium", got)
	}
}
