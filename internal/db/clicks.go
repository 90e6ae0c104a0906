package db

import (
	"fmt"
	"time"
)

type ClickEvent struct {
	SessionCode string
	Epoch       uint64
	BallID      int
	ClickType   string
	Outcome     string
	// GapMs is nil for the first click on a ball.
	GapMs      *int
	ClickedAt  time.Time
	ScoreAfter int
}

const insertClick = `
	INSERT INTO click_events (session_code, epoch, ball_id, click_type, outcome, gap_ms, clicked_at, score_after)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

func (d *DB) RecordClick(ev ClickEvent) error {
	_, err := d.conn.Exec(insertClick, ev.SessionCode, int64(ev.Epoch), ev.BallID, ev.ClickType, ev.Outcome, ev.GapMs, ev.ClickedAt, ev.ScoreAfter)
	if err != nil {
		return fmt.Errorf("recording click: %w", err)
	}
	return nil
}

func (d *DB) BatchRecordClicks(events []ClickEvent) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertClick)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.Exec(ev.SessionCode, int64(ev.Epoch), ev.BallID, ev.ClickType, ev.Outcome, ev.GapMs, ev.ClickedAt, ev.ScoreAfter); err != nil {
			return fmt.Errorf("recording click in batch: %w", err)
		}
	}

	return tx.Commit()
}
