package session

import "github.com/hireloop/interviewd/pkg/models"

// Event is the closed set of triggers accepted by the session reducer.
// Button presses, timer expiries, and async collaborator results all funnel
// into this union; the reducer is the only place session state changes.
type Event interface {
	isEvent()
}

// BeginUpload starts resume parsing (idle -> parsing).
type BeginUpload struct{}

// ExtractionSucceeded delivers the contact fields pulled from the resume.
type ExtractionSucceeded struct {
	Info models.CandidateInfo
}

// ExtractionFailed returns the session to idle with a diagnostic.
type ExtractionFailed struct {
	Msg string
}

// FieldEdited fills in one missing contact field while awaiting_info.
// Only fields currently empty are editable.
type FieldEdited struct {
	Field string
	Value string
}

// Confirm validates the contact fields (awaiting_info -> ready, or stays).
type Confirm struct{}

// Cancel discards the confirmed candidate before the interview starts.
type Cancel struct{}

// BeginGeneration starts question generation (ready -> generating).
type BeginGeneration struct{}

// QuestionsReady delivers the generated question set and starts the interview.
type QuestionsReady struct {
	Questions []models.Question
}

// GenerationFailed returns the session to idle with a diagnostic.
type GenerationFailed struct {
	Msg string
}

// AnswerSubmitted records the answer for one question. Index names the
// question being answered; an index other than the current one is ignored,
// which makes a timer firing after a manual submit harmless.
type AnswerSubmitted struct {
	Index int
	Text  string
}

// Restart resets to an empty session. Accepted from every state.
type Restart struct{}

func (BeginUpload) isEvent()         {}
func (ExtractionSucceeded) isEvent() {}
func (ExtractionFailed) isEvent()    {}
func (FieldEdited) isEvent()         {}
func (Confirm) isEvent()             {}
func (Cancel) isEvent()              {}
func (BeginGeneration) isEvent()     {}
func (QuestionsReady) isEvent()      {}
func (GenerationFailed) isEvent()    {}
func (AnswerSubmitted) isEvent()     {}
func (Restart) isEvent()             {}
