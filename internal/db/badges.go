package db

import "fmt"

func (d *DB) AwardBadge(runID, badgeID string) error {
	_, err := d.conn.Exec(`
		INSERT INTO run_badges (run_id, badge_id)
		VALUES ($1, $2)
		ON CONFLICT (run_id, badge_id) DO NOTHING
	`, runID, badgeID)
	if err != nil {
		return fmt.Errorf("awarding badge: %w", err)
	}
	return nil
}

func (d *DB) GetRunBadges(runID string) ([]string, error) {
	rows, err := d.conn.Query(`
		SELECT badge_id FROM run_badges WHERE run_id = $1 ORDER BY awarded_at, badge_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("getting badges: %w", err)
	}
	defer rows.Close()

	var badges []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		badges = append(badges, id)
	}
	return badges, rows.Err()
}
