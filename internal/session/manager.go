package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/hireloop/interviewd/internal/config"
	"github.com/hireloop/interviewd/pkg/models"
	"github.com/hireloop/interviewd/pkg/repository"
)

var (
	// ErrResumePending is returned while a rehydrated in-progress session
	// waits for the candidate's resume-or-restart decision.
	ErrResumePending = errors.New("resume decision pending")

	// ErrInvalidTransition is returned when a caller requests a trigger the
	// current state does not offer.
	ErrInvalidTransition = errors.New("invalid transition for current session state")
)

// Engine is the async collaborator surface the manager drives. Scoring is
// not here: it runs during finalize, owned by the archive service.
type Engine interface {
	ExtractCandidateInfo(ctx context.Context, fileBytes []byte) (models.CandidateInfo, error)
	GenerateQuestions(ctx context.Context) ([]models.Question, error)
}

// Manager owns the single live session. Every transition is applied under one
// mutex and written through to the session repo before the next trigger can
// be accepted. Async collaborator results are matched against the session id,
// status, and an epoch counter captured at issue time; anything stale is
// discarded.
type Manager struct {
	repo        repository.SessionRepo
	engine      Engine
	timers      config.TimerConfig
	logger      *slog.Logger
	onCompleted func(models.Session)

	mu            sync.Mutex
	sess          models.Session
	epoch         uint64
	resumePending bool
	closed        bool

	timer        *time.Timer
	timerSession string
	timerIndex   int

	wg sync.WaitGroup
}

// NewManager wires a manager. onCompleted runs (in its own goroutine) each
// time the session reaches completed, including on rehydration of an already
// completed session so an interrupted finalize gets retried.
func NewManager(repo repository.SessionRepo, engine Engine, timers config.TimerConfig, logger *slog.Logger, onCompleted func(models.Session)) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if onCompleted == nil {
		onCompleted = func(models.Session) {}
	}
	return &Manager{
		repo:        repo,
		engine:      engine,
		timers:      timers,
		logger:      logger,
		onCompleted: onCompleted,
		sess:        NewSession(),
		timerIndex:  -1,
	}
}

// Start rehydrates the persisted session before any trigger is accepted. A
// restored in_progress session puts the manager into resume-pending mode; a
// restored parsing/generating session lost its outstanding call with the
// process, so it falls back to idle with a diagnostic.
func (m *Manager) Start(ctx context.Context) error {
	loaded, err := m.repo.LoadSession(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if loaded == nil {
		return m.persistLocked(ctx)
	}

	m.sess = loaded.Clone()
	switch m.sess.Status {
	case models.StatusInProgress:
		m.resumePending = true
	case models.StatusParsing:
		m.applyLocked(ctx, ExtractionFailed{Msg: "Resume analysis was interrupted. Please upload again."})
	case models.StatusGenerating:
		m.applyLocked(ctx, GenerationFailed{Msg: "Question generation was interrupted. Please try again."})
	case models.StatusCompleted:
		m.fireCompleted(m.sess.Clone())
	}
	return nil
}

// Snapshot returns a deep copy of the session and the resume-pending flag.
func (m *Manager) Snapshot() (models.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess.Clone(), m.resumePending
}

// ResolveResume settles the startup choice for a rehydrated in_progress
// session: resume leaves it untouched (re-arming the current question's
// timer), restart resets to an empty session.
func (m *Manager) ResolveResume(ctx context.Context, resume bool) (models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.resumePending {
		return m.sess.Clone(), ErrInvalidTransition
	}
	m.resumePending = false
	if resume {
		m.reconcileTimerLocked()
		return m.sess.Clone(), nil
	}
	m.applyLocked(ctx, Restart{})
	return m.sess.Clone(), nil
}

// Upload starts resume parsing and kicks off extraction in the background.
func (m *Manager) Upload(ctx context.Context, fileBytes []byte) (models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.resumePending {
		return m.sess.Clone(), ErrResumePending
	}
	if _, applied := m.applyLocked(ctx, BeginUpload{}); !applied {
		return m.sess.Clone(), ErrInvalidTransition
	}

	sid, epoch := m.sess.ID, m.epoch
	data := append([]byte(nil), fileBytes...)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		info, err := m.engine.ExtractCandidateInfo(context.Background(), data)
		m.deliver(sid, epoch, models.StatusParsing, func(ctx context.Context) {
			if err != nil {
				m.applyLocked(ctx, ExtractionFailed{Msg: err.Error()})
			} else {
				m.applyLocked(ctx, ExtractionSucceeded{Info: info})
			}
		})
	}()

	return m.sess.Clone(), nil
}

// EditField fills in one missing contact field.
func (m *Manager) EditField(ctx context.Context, field, value string) (models.Session, error) {
	return m.userEvent(ctx, FieldEdited{Field: field, Value: strings.TrimSpace(value)})
}

// Confirm validates the contact fields. A failed validation is an applied
// transition (the session records the error and stays put), not an HTTP error.
func (m *Manager) Confirm(ctx context.Context) (models.Session, error) {
	return m.userEvent(ctx, Confirm{})
}

// Cancel discards the confirmed candidate and returns to idle.
func (m *Manager) Cancel(ctx context.Context) (models.Session, error) {
	return m.userEvent(ctx, Cancel{})
}

// BeginInterview moves ready -> generating and requests questions in the
// background. The generating state itself locks out a second call: the
// trigger is simply not available from it.
func (m *Manager) BeginInterview(ctx context.Context) (models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.resumePending {
		return m.sess.Clone(), ErrResumePending
	}
	if _, applied := m.applyLocked(ctx, BeginGeneration{}); !applied {
		return m.sess.Clone(), ErrInvalidTransition
	}

	sid, epoch := m.sess.ID, m.epoch
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		qs, err := m.engine.GenerateQuestions(context.Background())
		m.deliver(sid, epoch, models.StatusGenerating, func(ctx context.Context) {
			if err != nil {
				m.applyLocked(ctx, GenerationFailed{Msg: err.Error()})
			} else {
				m.applyLocked(ctx, QuestionsReady{Questions: qs})
			}
		})
	}()

	return m.sess.Clone(), nil
}

// SubmitAnswer records the answer for the question at index. A duplicate or
// late submission for an index that already advanced is a silent no-op, so a
// timer firing right after a manual submit cannot double-fill a slot.
func (m *Manager) SubmitAnswer(ctx context.Context, index int, text string) (models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.resumePending {
		return m.sess.Clone(), ErrResumePending
	}
	switch m.sess.Status {
	case models.StatusInProgress:
		m.applyLocked(ctx, AnswerSubmitted{Index: index, Text: strings.TrimSpace(text)})
		return m.sess.Clone(), nil
	case models.StatusCompleted:
		// late event after the final answer; tolerated
		return m.sess.Clone(), nil
	default:
		return m.sess.Clone(), ErrInvalidTransition
	}
}

// Restart resets to an empty session. Valid from every state.
func (m *Manager) Restart(ctx context.Context) (models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resumePending = false
	m.applyLocked(ctx, Restart{})
	return m.sess.Clone(), nil
}

// ReportScoringError surfaces a finalize failure on the session's error
// channel. The session stays completed; finalize retries are driven by the
// job queue and the archive guard keeps them idempotent.
func (m *Manager) ReportScoringError(ctx context.Context, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sess.Status != models.StatusCompleted {
		return
	}
	m.sess.Error = msg
	if err := m.persistLocked(ctx); err != nil {
		m.logger.Error("persist session", slog.Any("err", err))
	}
}

// Close stops the timer and waits for outstanding collaborator goroutines.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	m.stopTimerLocked()
	m.mu.Unlock()
	m.wg.Wait()
}

func (m *Manager) userEvent(ctx context.Context, ev Event) (models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.resumePending {
		return m.sess.Clone(), ErrResumePending
	}
	if _, applied := m.applyLocked(ctx, ev); !applied {
		return m.sess.Clone(), ErrInvalidTransition
	}
	return m.sess.Clone(), nil
}

// applyLocked runs one event through the reducer and, when it applies, bumps
// the epoch, writes through to storage, reconciles the question timer, and
// fires the completion hook on entry to completed. Callers hold m.mu.
func (m *Manager) applyLocked(ctx context.Context, ev Event) (models.Session, bool) {
	prev := m.sess
	next, applied := Apply(m.sess, ev)
	if !applied {
		return m.sess, false
	}

	m.sess = next
	m.epoch++
	if err := m.persistLocked(ctx); err != nil {
		m.logger.Error("persist session", slog.Any("err", err))
	}
	m.reconcileTimerLocked()

	if next.Status == models.StatusCompleted && prev.Status != models.StatusCompleted {
		m.fireCompleted(next.Clone())
	}
	return next, true
}

func (m *Manager) persistLocked(ctx context.Context) error {
	snap := m.sess.Clone()
	return m.repo.SaveSession(ctx, &snap)
}

// deliver applies an async collaborator result unless the session moved on
// since the call was issued. Stale results are logged and dropped, never
// treated as errors.
func (m *Manager) deliver(sid string, epoch uint64, expect models.SessionStatus, fn func(ctx context.Context)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || m.sess.ID != sid || m.sess.Status != expect || m.epoch != epoch {
		m.logger.Info("discarding stale collaborator result",
			slog.String("issued_session", sid),
			slog.String("expected_status", string(expect)),
			slog.String("current_status", string(m.sess.Status)),
		)
		return
	}
	fn(context.Background())
}

func (m *Manager) fireCompleted(snap models.Session) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.onCompleted(snap)
	}()
}

// reconcileTimerLocked keeps exactly one countdown armed: the one for the
// current question of an in-progress session. Any other timer is stopped the
// moment the question advances, the session leaves in_progress, or a resume
// decision becomes pending.
func (m *Manager) reconcileTimerLocked() {
	if m.sess.Status != models.StatusInProgress || m.resumePending || m.closed {
		m.stopTimerLocked()
		return
	}
	if m.timer != nil && m.timerSession == m.sess.ID && m.timerIndex == m.sess.CurrentIndex {
		return
	}
	m.stopTimerLocked()

	q, ok := m.sess.CurrentQuestion()
	if !ok {
		return
	}
	sid, idx := m.sess.ID, m.sess.CurrentIndex
	m.timerSession = sid
	m.timerIndex = idx
	m.timer = time.AfterFunc(m.timers.Duration(string(q.Difficulty)), func() {
		m.expire(sid, idx)
	})
}

func (m *Manager) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.timerSession = ""
	m.timerIndex = -1
}

// expire is the timer callback: it submits the no-answer sentinel for the
// question it was armed on, unless the session already moved past it.
func (m *Manager) expire(sid string, idx int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || m.resumePending || m.sess.ID != sid ||
		m.sess.Status != models.StatusInProgress || m.sess.CurrentIndex != idx {
		return
	}
	m.applyLocked(context.Background(), AnswerSubmitted{Index: idx, Text: NoAnswerText})
}
