package analytics

import "testing"

func hasBadge(badges []Badge, id BadgeID) bool {
	for _, b := range badges {
		if b.ID == id {
			return true
		}
	}
	return false
}

func TestEvaluateRunBadges_Lightning(t *testing.T) {
	badges := EvaluateRunBadges(RunSummary{ElapsedSeconds: 29, Mismatches: 2})
	if !hasBadge(badges, BadgeLightning) {
		t.Error("should earn Lightning under 30 seconds")
	}
	if !hasBadge(badges, BadgeSpeedy) {
		t.Error("Lightning runs are also Speedy")
	}
}

func TestEvaluateRunBadges_NoLightning(t *testing.T) {
	badges := EvaluateRunBadges(RunSummary{ElapsedSeconds: 30, Mismatches: 2})
	if hasBadge(badges, BadgeLightning) {
		t.Error("should not earn Lightning at exactly 30 seconds")
	}
	if !hasBadge(badges, BadgeSpeedy) {
		t.Error("should earn Speedy at 30 seconds")
	}
}

func TestEvaluateRunBadges_NoSpeedy(t *testing.T) {
	badges := EvaluateRunBadges(RunSummary{ElapsedSeconds: 60, Mismatches: 1})
	if len(badges) != 0 {
		t.Errorf("expected no badges, got %v", badges)
	}
}

func TestEvaluateRunBadges_SteadyHands(t *testing.T) {
	badges := EvaluateRunBadges(RunSummary{ElapsedSeconds: 90})
	if !hasBadge(badges, BadgeSteadyHands) {
		t.Error("should earn Steady Hands with no mismatches")
	}
}

func TestEvaluateRunBadges_SteadyHandsLostOnMismatch(t *testing.T) {
	badges := EvaluateRunBadges(RunSummary{ElapsedSeconds: 90, Mismatches: 1})
	if hasBadge(badges, BadgeSteadyHands) {
		t.Error("a double-clicked single-click ball should cost Steady Hands")
	}
	if want := "Never double-clicked a single-click ball"; AllBadges[BadgeSteadyHands].Description != want {
		t.Errorf("description = %q, want %q", AllBadges[BadgeSteadyHands].Description, want)
	}
}

func TestEvaluateRunBadges_QuickFingers(t *testing.T) {
	tests := []struct {
		gap  float64
		want bool
	}{
		{0, false},
		{120, true},
		{199.9, true},
		{200, false},
	}
	for _, tt := range tests {
		badges := EvaluateRunBadges(RunSummary{ElapsedSeconds: 90, Mismatches: 1, AvgDoubleGapMs: tt.gap})
		if got := hasBadge(badges, BadgeQuickFingers); got != tt.want {
			t.Errorf("gap %.1fms: Quick Fingers = %v, want %v", tt.gap, got, tt.want)
		}
	}
}

func TestBadgesByID(t *testing.T) {
	badges := BadgesByID([]string{"speedy", "retired_badge", "steady_hands"})
	if len(badges) != 2 {
		t.Fatalf("len = %d, want 2", len(badges))
	}
	if badges[0].ID != BadgeSpeedy || badges[1].ID != BadgeSteadyHands {
		t.Errorf("unexpected badges %v", badges)
	}
}
