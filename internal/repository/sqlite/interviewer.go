package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hireloop/interviewd/pkg/models"
)

func (r *SQLiteRepo) CreateInterviewer(ctx context.Context, iv *models.Interviewer) (int64, error) {
	if iv == nil {
		return 0, fmt.Errorf("interviewer is nil")
	}

	res, err := r.conn.Exec(ctx,
		`INSERT INTO interviewers (name, email, password_hash, updated) VALUES (?, ?, ?, ?)`,
		iv.Name, iv.Email, iv.PasswordHash, now())
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetInterviewerByEmail(ctx context.Context, email string) (*models.Interviewer, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT id, name, email, password_hash, updated FROM interviewers WHERE email = ?`, email)

	var iv models.Interviewer
	if err := row.Scan(&iv.ID, &iv.Name, &iv.Email, &iv.PasswordHash, &iv.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &iv, nil
}
