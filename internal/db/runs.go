package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type RunRecord struct {
	ID             string
	SessionCode    string
	Epoch          uint64
	StartedAt      time.Time
	EndedAt        time.Time
	ElapsedSeconds int
	Clicks         int
	Pops           int
	Mismatches     int
}

// RecordRun stores a completed run and returns its id. A new id is generated
// when run.ID is empty.
func (d *DB) RecordRun(run RunRecord) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	_, err := d.conn.Exec(`
		INSERT INTO runs (id, session_code, epoch, started_at, ended_at, elapsed_seconds, clicks, pops, mismatches)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, run.ID, run.SessionCode, int64(run.Epoch), run.StartedAt, run.EndedAt, run.ElapsedSeconds, run.Clicks, run.Pops, run.Mismatches)
	if err != nil {
		return "", fmt.Errorf("recording run: %w", err)
	}
	return run.ID, nil
}

func (d *DB) GetRun(id string) (*RunRecord, error) {
	var r RunRecord
	var epoch int64
	err := d.conn.QueryRow(`
		SELECT id, session_code, epoch, started_at, ended_at, elapsed_seconds, clicks, pops, mismatches
		FROM runs WHERE id = $1
	`, id).Scan(&r.ID, &r.SessionCode, &epoch, &r.StartedAt, &r.EndedAt, &r.ElapsedSeconds, &r.Clicks, &r.Pops, &r.Mismatches)
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}
	r.Epoch = uint64(epoch)
	return &r, nil
}
