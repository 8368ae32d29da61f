package models

import "fmt"

// Difficulty grades an interview question and drives the per-question timer.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Valid reports whether d is one of the three known grades.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// SessionStatus is the lifecycle stage of the live interview session.
type SessionStatus string

const (
	StatusIdle         SessionStatus = "idle"
	StatusParsing      SessionStatus = "parsing"
	StatusAwaitingInfo SessionStatus = "awaiting_info"
	StatusReady        SessionStatus = "ready"
	StatusGenerating   SessionStatus = "generating"
	StatusInProgress   SessionStatus = "in_progress"
	StatusCompleted    SessionStatus = "completed"
)

// CandidateInfo holds the contact fields extracted from a resume.
// Fields stay nil until extracted or confirmed by the candidate.
type CandidateInfo struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// Complete reports whether all three contact fields are present and non-empty.
func (c CandidateInfo) Complete() bool {
	return has(c.Name) && has(c.Email) && has(c.Phone)
}

func has(s *string) bool {
	return s != nil && *s != ""
}

// Question is a single generated interview question. Immutable once generated.
type Question struct {
	ID         int        `json:"id"`
	Text       string     `json:"text"`
	Difficulty Difficulty `json:"difficulty"`
}

// Session is the single live interview session. Answers[i] corresponds to
// Questions[i]; len(Answers) == CurrentIndex holds while in progress and
// len(Answers) == len(Questions) exactly when the session is completed.
type Session struct {
	ID           string        `json:"id"`
	Status       SessionStatus `json:"status"`
	Candidate    CandidateInfo `json:"candidate"`
	Error        string        `json:"error,omitempty"`
	Questions    []Question    `json:"questions"`
	Answers      []string      `json:"answers"`
	CurrentIndex int           `json:"currentIndex"`
}

// CurrentQuestion returns the question at CurrentIndex, or false when the
// session holds no questions yet.
func (s *Session) CurrentQuestion() (Question, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// Clone returns a deep copy so snapshots cannot alias live state.
func (s *Session) Clone() Session {
	out := *s
	out.Candidate = CandidateInfo{
		Name:  cloneStr(s.Candidate.Name),
		Email: cloneStr(s.Candidate.Email),
		Phone: cloneStr(s.Candidate.Phone),
	}
	if s.Questions != nil {
		out.Questions = make([]Question, len(s.Questions))
		copy(out.Questions, s.Questions)
	}
	if s.Answers != nil {
		out.Answers = make([]string, len(s.Answers))
		copy(out.Answers, s.Answers)
	}
	return out
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// CandidateRecord is one finalized interview in the archive. Keyed by the
// candidate's email; at most one record exists per key and records are never
// mutated or deleted.
type CandidateRecord struct {
	ID            string        `json:"id"`
	Candidate     CandidateInfo `json:"candidate"`
	Questions     []Question    `json:"questions"`
	Answers       []string      `json:"answers"`
	Score         int           `json:"score"`
	Summary       string        `json:"summary"`
	CompletedDate string        `json:"completedDate"`

	// Position is the insertion order assigned by storage; listings use it
	// as the final sort tie-break.
	Position int64 `json:"-"`
}

// Validate checks the archive entry invariants before insertion.
func (r *CandidateRecord) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("candidate record id is empty")
	}
	if r.Score < 0 || r.Score > 100 {
		return fmt.Errorf("score %d out of range [0,100]", r.Score)
	}
	if len(r.Answers) != len(r.Questions) {
		return fmt.Errorf("answers (%d) and questions (%d) length mismatch", len(r.Answers), len(r.Questions))
	}
	return nil
}

// Interviewer is a dashboard account.
type Interviewer struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	Updated      int64  `json:"updated" db:"updated"`
	PasswordHash string `json:"password_hash,omitempty" db:"password_hash"`
}
