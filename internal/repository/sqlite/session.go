package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hireloop/interviewd/pkg/models"
)

// The live session is one JSON blob under a fixed single-row key, rewritten
// on every applied transition.

func (r *SQLiteRepo) SaveSession(ctx context.Context, s *models.Session) error {
	if s == nil {
		return fmt.Errorf("session is nil")
	}

	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	_, err = r.conn.Exec(ctx,
		`INSERT INTO session_state (id, payload, updated) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated = excluded.updated`,
		string(payload), now())
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) LoadSession(ctx context.Context) (*models.Session, error) {
	row := r.conn.QueryRow(ctx, `SELECT payload FROM session_state WHERE id = 1`)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var s models.Session
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &s, nil
}
