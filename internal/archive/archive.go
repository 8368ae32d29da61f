// Package archive owns the append-only record of finalized interviews: the
// finalize step that turns a completed session into a CandidateRecord, and
// the derived read-only view the dashboard queries.
package archive

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hireloop/interviewd/pkg/models"
	"github.com/hireloop/interviewd/pkg/repository"
)

// Scorer is the external grading collaborator.
type Scorer interface {
	ScoreTranscript(ctx context.Context, questions []models.Question, answers []string) (int, string, error)
}

type Service struct {
	repo   repository.CandidateRepo
	scorer Scorer
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo repository.CandidateRepo, scorer Scorer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, scorer: scorer, logger: logger, now: time.Now}
}

// Finalize scores a completed session and appends one CandidateRecord. It is
// idempotent per candidate email: if a record already exists the call is a
// no-op, so repeated completion observations (or finalize retries) are safe.
// Returns whether a record was created by this call.
func (s *Service) Finalize(ctx context.Context, sess models.Session) (bool, error) {
	if sess.Status != models.StatusCompleted {
		return false, fmt.Errorf("session %s is %s, not completed", sess.ID, sess.Status)
	}
	if sess.Candidate.Email == nil || *sess.Candidate.Email == "" {
		return false, fmt.Errorf("completed session %s has no candidate email", sess.ID)
	}
	id := *sess.Candidate.Email

	existing, err := s.repo.GetCandidate(ctx, id)
	if err != nil {
		return false, fmt.Errorf("archive lookup: %w", err)
	}
	if existing != nil {
		s.logger.Info("finalize skipped, record exists", slog.String("candidate", id))
		return false, nil
	}

	score, summary, err := s.scorer.ScoreTranscript(ctx, sess.Questions, sess.Answers)
	if err != nil {
		return false, err
	}

	rec := &models.CandidateRecord{
		ID:            id,
		Candidate:     sess.Candidate,
		Questions:     sess.Questions,
		Answers:       sess.Answers,
		Score:         score,
		Summary:       summary,
		CompletedDate: s.now().UTC().Format(time.RFC3339),
	}
	if err := rec.Validate(); err != nil {
		return false, fmt.Errorf("candidate record: %w", err)
	}

	created, err := s.repo.CreateCandidate(ctx, rec)
	if err != nil {
		return false, fmt.Errorf("archive insert: %w", err)
	}
	if created {
		s.logger.Info("interview archived",
			slog.String("candidate", id),
			slog.Int("score", score),
		)
	}
	return created, nil
}

// Get returns one archived record, or nil when absent.
func (s *Service) Get(ctx context.Context, id string) (*models.CandidateRecord, error) {
	return s.repo.GetCandidate(ctx, id)
}
