package activity

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Recorder menulis entri ke tabel activity_logs.
type Recorder struct {
	pool *pgxpool.Pool
}

// NewRecorder returns a new Recorder.
func NewRecorder(pool *pgxpool.Pool) *Recorder {
	return &Recorder{pool: pool}
}

// Record persists the log entry. Entries are append-only and never updated.
func (r *Recorder) Record(ctx context.Context, entry Entry) error {
	if r == nil {
		return errors.New("activity recorder not initialised")
	}
	if entry.Action == "" {
		return errors.New("activity entry requires an action")
	}
	var at any
	if !entry.CreatedAt.IsZero() {
		at = entry.CreatedAt
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO activity_logs (user_id, action, ip, user_agent, created_at) VALUES ($1, $2, $3, $4, COALESCE($5, NOW()))`,
		entry.UserID, entry.Action, entry.IP, entry.UserAgent, at)
	return err
}
