package analytics

import (
	"database/sql"
	"errors"
	"fmt"

	"ballpop/internal/db"
)

var (
	ErrRunNotFound     = errors.New("run not found")
	ErrUnknownCategory = errors.New("unknown leaderboard category")
)

type Queries struct {
	DB *db.DB
}

func NewQueries(database *db.DB) *Queries {
	return &Queries{DB: database}
}

func (q *Queries) GetRunSummary(runID string) (*RunSummary, error) {
	s := &RunSummary{ID: runID}
	var epoch int64

	err := q.DB.QueryRow(`
		SELECT session_code, epoch, started_at, ended_at, elapsed_seconds, clicks, pops, mismatches
		FROM runs WHERE id = $1
	`, runID).Scan(&s.SessionCode, &epoch, &s.StartedAt, &s.EndedAt, &s.ElapsedSeconds, &s.Clicks, &s.Pops, &s.Mismatches)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}

	err = q.DB.QueryRow(`
		SELECT COALESCE(AVG(gap_ms), 0)
		FROM click_events
		WHERE session_code = $1 AND epoch = $2
			AND click_type = 'double' AND outcome = 'pop' AND gap_ms IS NOT NULL
	`, s.SessionCode, epoch).Scan(&s.AvgDoubleGapMs)
	if err != nil {
		return nil, fmt.Errorf("getting double-click gaps: %w", err)
	}

	ids, err := q.DB.GetRunBadges(runID)
	if err != nil {
		return nil, err
	}
	s.Badges = BadgesByID(ids)

	return s, nil
}

// GetLeaderboard ranks completed runs. Category "fastest" orders by elapsed
// seconds, "cleanest" by mismatches and then elapsed seconds.
func (q *Queries) GetLeaderboard(category string, limit int) ([]LeaderboardEntry, error) {
	var query string
	switch category {
	case "fastest":
		query = `
			SELECT id, session_code, elapsed_seconds AS value, ended_at
			FROM runs
			ORDER BY elapsed_seconds ASC, ended_at ASC
			LIMIT $1`
	case "cleanest":
		query = `
			SELECT id, session_code, mismatches AS value, ended_at
			FROM runs
			ORDER BY mismatches ASC, elapsed_seconds ASC, ended_at ASC
			LIMIT $1`
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}

	rows, err := q.DB.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("getting leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.RunID, &e.SessionCode, &e.Value, &e.EndedAt); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
