package analytics

type BadgeID string

const (
	BadgeLightning    BadgeID = "lightning"
	BadgeSpeedy       BadgeID = "speedy"
	BadgeSteadyHands  BadgeID = "steady_hands"
	BadgeQuickFingers BadgeID = "quick_fingers"
)

type Badge struct {
	ID          BadgeID `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

var AllBadges = map[BadgeID]Badge{
	BadgeLightning:    {ID: BadgeLightning, Name: "Lightning", Description: "Popped every ball in under 30 seconds", Icon: "⚡"},
	BadgeSpeedy:       {ID: BadgeSpeedy, Name: "Speedy", Description: "Popped every ball in under a minute", Icon: "🏃"},
	BadgeSteadyHands:  {ID: BadgeSteadyHands, Name: "Steady Hands", Description: "Never double-clicked a single-click ball", Icon: "🖐️"},
	BadgeQuickFingers: {ID: BadgeQuickFingers, Name: "Quick Fingers", Description: "Double clicks averaged under 200ms", Icon: "👆"},
}

// EvaluateRunBadges checks which badges a completed run earned.
func EvaluateRunBadges(run RunSummary) []Badge {
	var earned []Badge

	if run.ElapsedSeconds < 30 {
		earned = append(earned, AllBadges[BadgeLightning])
	}

	if run.ElapsedSeconds < 60 {
		earned = append(earned, AllBadges[BadgeSpeedy])
	}

	if run.Mismatches == 0 {
		earned = append(earned, AllBadges[BadgeSteadyHands])
	}

	// Zero means no double pops were measured.
	if run.AvgDoubleGapMs > 0 && run.AvgDoubleGapMs < 200 {
		earned = append(earned, AllBadges[BadgeQuickFingers])
	}

	return earned
}

// BadgesByID resolves stored badge ids, skipping ids that are no longer known.
func BadgesByID(ids []string) []Badge {
	badges := make([]Badge, 0, len(ids))
	for _, id := range ids {
		if b, ok := AllBadges[BadgeID(id)]; ok {
			badges = append(badges, b)
		}
	}
	return badges
}
