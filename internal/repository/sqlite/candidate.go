package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hireloop/interviewd/pkg/models"
)

// CreateCandidate inserts an archive record unless one with the same id
// already exists. INSERT OR IGNORE keeps the archive append-only and
// idempotent per candidate; the return reports whether a row was inserted.
func (r *SQLiteRepo) CreateCandidate(ctx context.Context, rec *models.CandidateRecord) (bool, error) {
	if rec == nil {
		return false, fmt.Errorf("candidate record is nil")
	}
	if err := rec.Validate(); err != nil {
		return false, err
	}

	questions, err := json.Marshal(rec.Questions)
	if err != nil {
		return false, fmt.Errorf("marshal questions: %w", err)
	}
	answers, err := json.Marshal(rec.Answers)
	if err != nil {
		return false, fmt.Errorf("marshal answers: %w", err)
	}

	res, err := r.conn.Exec(ctx,
		`INSERT OR IGNORE INTO candidates (id, name, email, phone, questions, answers, score, summary, completed_date, created)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Candidate.Name, rec.Candidate.Email, rec.Candidate.Phone,
		string(questions), string(answers), rec.Score, rec.Summary, rec.CompletedDate, now())
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *SQLiteRepo) GetCandidate(ctx context.Context, id string) (*models.CandidateRecord, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT rowid, id, name, email, phone, questions, answers, score, summary, completed_date FROM candidates WHERE id = ?`, id)

	rec, err := scanCandidate(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// ListCandidates returns the whole archive newest-first.
func (r *SQLiteRepo) ListCandidates(ctx context.Context) ([]models.CandidateRecord, error) {
	rows, err := r.conn.QueryRows(ctx,
		`SELECT rowid, id, name, email, phone, questions, answers, score, summary, completed_date FROM candidates ORDER BY rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CandidateRecord
	for rows.Next() {
		rec, err := scanCandidate(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}

	return out, rows.Err()
}

func scanCandidate(scan func(dest ...any) error) (*models.CandidateRecord, error) {
	var (
		rec              models.CandidateRecord
		name, email, ph  sql.NullString
		questions, answs string
	)
	if err := scan(&rec.Position, &rec.ID, &name, &email, &ph, &questions, &answs, &rec.Score, &rec.Summary, &rec.CompletedDate); err != nil {
		return nil, err
	}
	if name.Valid {
		rec.Candidate.Name = &name.String
	}
	if email.Valid {
		rec.Candidate.Email = &email.String
	}
	if ph.Valid {
		rec.Candidate.Phone = &ph.String
	}
	if err := json.Unmarshal([]byte(questions), &rec.Questions); err != nil {
		return nil, fmt.Errorf("unmarshal questions for %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(answs), &rec.Answers); err != nil {
		return nil, fmt.Errorf("unmarshal answers for %s: %w", rec.ID, err)
	}
	return &rec, nil
}
