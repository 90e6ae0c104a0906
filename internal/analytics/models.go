package analytics

import "time"

type RunSummary struct {
	ID             string    `json:"id"`
	SessionCode    string    `json:"sessionCode"`
	StartedAt      time.Time `json:"startedAt"`
	EndedAt        time.Time `json:"endedAt"`
	ElapsedSeconds int       `json:"elapsedSeconds"`
	Clicks         int       `json:"clicks"`
	Pops           int       `json:"pops"`
	Mismatches     int       `json:"mismatches"`
	AvgDoubleGapMs float64   `json:"avgDoubleGapMs"` // mean gap between the two clicks of a double pop
	Badges         []Badge   `json:"badges"`
}

type LeaderboardEntry struct {
	RunID       string    `json:"runId"`
	SessionCode string    `json:"sessionCode"`
	Value       int       `json:"value"`
	EndedAt     time.Time `json:"endedAt"`
	Rank        int       `json:"rank"`
}
