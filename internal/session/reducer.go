package session

import (
	"github.com/google/uuid"

	"github.com/hireloop/interviewd/pkg/models"
)

// NoAnswerText is the sentinel recorded when a question's timer expires (or
// the candidate submits an empty answer).
const NoAnswerText = "No answer provided."

// MissingFieldsMsg is the validation error shown when Confirm finds empty
// contact fields.
const MissingFieldsMsg = "Please fill in all required fields."

// NewSession returns an empty session with a fresh identity.
func NewSession() models.Session {
	return models.Session{
		ID:        uuid.NewString(),
		Status:    models.StatusIdle,
		Questions: []models.Question{},
		Answers:   []string{},
	}
}

// Apply runs one event through the transition table and returns the next
// session plus whether the event applied. Events not listed for the current
// state are no-ops: the same session comes back with applied == false. Apply
// is pure; it never mutates its input.
func Apply(s models.Session, ev Event) (models.Session, bool) {
	next := s.Clone()

	switch e := ev.(type) {
	case Restart:
		return NewSession(), true

	case BeginUpload:
		if s.Status != models.StatusIdle {
			return s, false
		}
		next.Status = models.StatusParsing
		next.Error = ""
		return next, true

	case ExtractionSucceeded:
		if s.Status != models.StatusParsing {
			return s, false
		}
		next.Candidate = e.Info
		next.Error = ""
		if e.Info.Complete() {
			next.Status = models.StatusReady
		} else {
			next.Status = models.StatusAwaitingInfo
		}
		return next, true

	case ExtractionFailed:
		if s.Status != models.StatusParsing {
			return s, false
		}
		next.Status = models.StatusIdle
		next.Error = e.Msg
		return next, true

	case FieldEdited:
		if s.Status != models.StatusAwaitingInfo {
			return s, false
		}
		return editField(next, e)

	case Confirm:
		if s.Status != models.StatusAwaitingInfo {
			return s, false
		}
		if next.Candidate.Complete() {
			next.Status = models.StatusReady
			next.Error = ""
		} else {
			next.Error = MissingFieldsMsg
		}
		return next, true

	case Cancel:
		if s.Status != models.StatusReady {
			return s, false
		}
		next.Status = models.StatusIdle
		next.Candidate = models.CandidateInfo{}
		next.Questions = []models.Question{}
		next.Answers = []string{}
		next.CurrentIndex = 0
		next.Error = ""
		return next, true

	case BeginGeneration:
		if s.Status != models.StatusReady {
			return s, false
		}
		next.Status = models.StatusGenerating
		next.Error = ""
		return next, true

	case QuestionsReady:
		if s.Status != models.StatusGenerating {
			return s, false
		}
		next.Status = models.StatusInProgress
		next.Questions = append([]models.Question{}, e.Questions...)
		next.Answers = []string{}
		next.CurrentIndex = 0
		next.Error = ""
		return next, true

	case GenerationFailed:
		if s.Status != models.StatusGenerating {
			return s, false
		}
		next.Status = models.StatusIdle
		next.Error = e.Msg
		return next, true

	case AnswerSubmitted:
		if s.Status != models.StatusInProgress || e.Index != s.CurrentIndex {
			return s, false
		}
		text := e.Text
		if text == "" {
			text = NoAnswerText
		}
		next.Answers = append(next.Answers, text)
		if next.CurrentIndex < len(next.Questions)-1 {
			next.CurrentIndex++
		} else {
			next.Status = models.StatusCompleted
		}
		return next, true
	}

	return s, false
}

func editField(next models.Session, e FieldEdited) (models.Session, bool) {
	v := e.Value
	switch e.Field {
	case "name":
		if next.Candidate.Name != nil && *next.Candidate.Name != "" {
			return next, false
		}
		next.Candidate.Name = &v
	case "email":
		if next.Candidate.Email != nil && *next.Candidate.Email != "" {
			return next, false
		}
		next.Candidate.Email = &v
	case "phone":
		if next.Candidate.Phone != nil && *next.Candidate.Phone != "" {
			return next, false
		}
		next.Candidate.Phone = &v
	default:
		return next, false
	}
	return next, true
}
