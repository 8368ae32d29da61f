package repository

import (
	"context"

	"github.com/hireloop/interviewd/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

// SessionRepo persists the single live session as one durable record under a
// fixed key. Save is write-through: it is called after every applied
// transition, before the next trigger can be accepted.
type SessionRepo interface {
	SaveSession(ctx context.Context, s *models.Session) error
	// LoadSession returns nil, nil when no session has been persisted yet.
	LoadSession(ctx context.Context) (*models.Session, error)
}

// CandidateRepo is the append-only archive of finalized interviews.
type CandidateRepo interface {
	// CreateCandidate inserts a record unless one with the same ID exists;
	// the second return reports whether a row was actually inserted.
	CreateCandidate(ctx context.Context, rec *models.CandidateRecord) (bool, error)
	GetCandidate(ctx context.Context, id string) (*models.CandidateRecord, error)
	// ListCandidates returns all records newest-first (descending insertion order).
	ListCandidates(ctx context.Context) ([]models.CandidateRecord, error)
}

type InterviewerRepo interface {
	CreateInterviewer(ctx context.Context, iv *models.Interviewer) (int64, error)
	GetInterviewerByEmail(ctx context.Context, email string) (*models.Interviewer, error)
}
