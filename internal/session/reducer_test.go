package session_test

import (
	"reflect"
	"testing"

	"github.com/hireloop/interviewd/internal/session"
	"github.com/hireloop/interviewd/pkg/models"
)

func strptr(s string) *string { return &s }

func fullInfo() models.CandidateInfo {
	return models.CandidateInfo{Name: strptr("Alice Johnson"), Email: strptr("alice.j@example.com"), Phone: strptr("123-456-7890")}
}

func sixQuestions() []models.Question {
	return []models.Question{
		{ID: 1, Text: "What does the := operator do?", Difficulty: models.DifficultyEasy},
		{ID: 2, Text: "Name two built-in collection types.", Difficulty: models.DifficultyEasy},
		{ID: 3, Text: "Explain closures.", Difficulty: models.DifficultyMedium},
		{ID: 4, Text: "What is a race condition?", Difficulty: models.DifficultyMedium},
		{ID: 5, Text: "Design a rate limiter.", Difficulty: models.DifficultyHard},
		{ID: 6, Text: "How would you debug a memory leak?", Difficulty: models.DifficultyHard},
	}
}

// drives a fresh session to in_progress via the full trigger sequence
func inProgressSession(t *testing.T) models.Session {
	t.Helper()
	s := session.NewSession()
	var ok bool
	steps := []session.Event{
		session.BeginUpload{},
		session.ExtractionSucceeded{Info: fullInfo()},
		session.BeginGeneration{},
		session.QuestionsReady{Questions: sixQuestions()},
	}
	for _, ev := range steps {
		if s, ok = session.Apply(s, ev); !ok {
			t.Fatalf("setup event %T did not apply (status %s)", ev, s.Status)
		}
	}
	if s.Status != models.StatusInProgress {
		t.Fatalf("setup ended in %s", s.Status)
	}
	return s
}

func TestExtractionCompleteInfoGoesReady(t *testing.T) {
	s := session.NewSession()
	s, _ = session.Apply(s, session.BeginUpload{})
	if s.Status != models.StatusParsing {
		t.Fatalf("expected parsing, got %s", s.Status)
	}

	s, ok := session.Apply(s, session.ExtractionSucceeded{Info: fullInfo()})
	if !ok || s.Status != models.StatusReady {
		t.Fatalf("expected ready, got %s (applied=%v)", s.Status, ok)
	}
}

func TestExtractionPartialInfoAwaitsThenConfirms(t *testing.T) {
	info := fullInfo()
	info.Email = nil

	s := session.NewSession()
	s, _ = session.Apply(s, session.BeginUpload{})
	s, ok := session.Apply(s, session.ExtractionSucceeded{Info: info})
	if !ok || s.Status != models.StatusAwaitingInfo {
		t.Fatalf("expected awaiting_info, got %s", s.Status)
	}

	// confirm without the missing field stays put with a validation error
	s, ok = session.Apply(s, session.Confirm{})
	if !ok || s.Status != models.StatusAwaitingInfo || s.Error != session.MissingFieldsMsg {
		t.Fatalf("expected validation error, got status=%s error=%q", s.Status, s.Error)
	}

	s, ok = session.Apply(s, session.FieldEdited{Field: "email", Value: "alice.j@example.com"})
	if !ok {
		t.Fatalf("field edit did not apply")
	}
	s, ok = session.Apply(s, session.Confirm{})
	if !ok || s.Status != models.StatusReady || s.Error != "" {
		t.Fatalf("expected ready after confirm, got status=%s error=%q", s.Status, s.Error)
	}
}

func TestFieldEditedOnlyFillsMissingFields(t *testing.T) {
	info := fullInfo()
	info.Phone = nil

	s := session.NewSession()
	s, _ = session.Apply(s, session.BeginUpload{})
	s, _ = session.Apply(s, session.ExtractionSucceeded{Info: info})

	// present field must not be overwritten
	s, ok := session.Apply(s, session.FieldEdited{Field: "name", Value: "Mallory"})
	if ok {
		t.Fatalf("editing a present field should not apply")
	}
	if *s.Candidate.Name != "Alice Johnson" {
		t.Fatalf("name overwritten to %q", *s.Candidate.Name)
	}

	s, ok = session.Apply(s, session.FieldEdited{Field: "phone", Value: "555-0100"})
	if !ok || *s.Candidate.Phone != "555-0100" {
		t.Fatalf("missing field edit failed")
	}
}

func TestExtractionFailureReturnsToIdle(t *testing.T) {
	s := session.NewSession()
	s, _ = session.Apply(s, session.BeginUpload{})
	s, ok := session.Apply(s, session.ExtractionFailed{Msg: "could not parse resume"})
	if !ok || s.Status != models.StatusIdle || s.Error != "could not parse resume" {
		t.Fatalf("expected idle with error, got status=%s error=%q", s.Status, s.Error)
	}

	// error clears on the next forward transition
	s, _ = session.Apply(s, session.BeginUpload{})
	if s.Error != "" {
		t.Fatalf("error not cleared on retry: %q", s.Error)
	}
}

func TestGenerationFailureReturnsToIdle(t *testing.T) {
	s := session.NewSession()
	s, _ = session.Apply(s, session.BeginUpload{})
	s, _ = session.Apply(s, session.ExtractionSucceeded{Info: fullInfo()})
	s, _ = session.Apply(s, session.BeginGeneration{})
	s, ok := session.Apply(s, session.GenerationFailed{Msg: "model unavailable"})
	if !ok || s.Status != models.StatusIdle || s.Error == "" {
		t.Fatalf("expected idle with error, got %s %q", s.Status, s.Error)
	}
}

func TestCancelDiscardsCandidate(t *testing.T) {
	s := session.NewSession()
	s, _ = session.Apply(s, session.BeginUpload{})
	s, _ = session.Apply(s, session.ExtractionSucceeded{Info: fullInfo()})

	s, ok := session.Apply(s, session.Cancel{})
	if !ok || s.Status != models.StatusIdle {
		t.Fatalf("cancel failed, status %s", s.Status)
	}
	if s.Candidate.Name != nil || len(s.Questions) != 0 || len(s.Answers) != 0 {
		t.Fatalf("cancel did not discard state: %+v", s)
	}
}

func TestAnswerFlowInvariants(t *testing.T) {
	s := inProgressSession(t)

	for i := 0; i < 6; i++ {
		if len(s.Answers) != s.CurrentIndex {
			t.Fatalf("invariant broken at %d: %d answers, index %d", i, len(s.Answers), s.CurrentIndex)
		}
		var ok bool
		s, ok = session.Apply(s, session.AnswerSubmitted{Index: i, Text: "answer"})
		if !ok {
			t.Fatalf("answer %d did not apply", i)
		}
	}

	if s.Status != models.StatusCompleted {
		t.Fatalf("expected completed, got %s", s.Status)
	}
	if len(s.Answers) != len(s.Questions) {
		t.Fatalf("completed with %d answers for %d questions", len(s.Answers), len(s.Questions))
	}
}

func TestLastAnswerCompletes(t *testing.T) {
	s := inProgressSession(t)
	for i := 0; i < 5; i++ {
		s, _ = session.Apply(s, session.AnswerSubmitted{Index: i, Text: "a"})
	}
	if s.CurrentIndex != 5 || len(s.Answers) != 5 {
		t.Fatalf("bad setup: index %d, %d answers", s.CurrentIndex, len(s.Answers))
	}

	s, ok := session.Apply(s, session.AnswerSubmitted{Index: 5, Text: "x"})
	if !ok || s.Status != models.StatusCompleted || len(s.Answers) != 6 {
		t.Fatalf("final answer: status=%s answers=%d", s.Status, len(s.Answers))
	}
}

func TestDuplicateAnswerIsNoOp(t *testing.T) {
	s := inProgressSession(t)

	s, ok := session.Apply(s, session.AnswerSubmitted{Index: 0, Text: "typed answer"})
	if !ok {
		t.Fatalf("first answer did not apply")
	}

	// the timer fires for question 0 after the manual submit already advanced
	dup, ok := session.Apply(s, session.AnswerSubmitted{Index: 0, Text: session.NoAnswerText})
	if ok {
		t.Fatalf("duplicate answer applied")
	}
	if !reflect.DeepEqual(dup, s) {
		t.Fatalf("duplicate answer changed state")
	}
	if len(dup.Answers) != 1 {
		t.Fatalf("expected 1 answer, got %d", len(dup.Answers))
	}
}

func TestEmptyAnswerRecordsSentinel(t *testing.T) {
	s := inProgressSession(t)
	s, _ = session.Apply(s, session.AnswerSubmitted{Index: 0, Text: ""})
	if s.Answers[0] != session.NoAnswerText {
		t.Fatalf("expected sentinel, got %q", s.Answers[0])
	}
}

func TestRestartIsIdempotentFromEveryState(t *testing.T) {
	states := map[string]models.Session{
		"idle": session.NewSession(),
	}
	s := session.NewSession()
	s, _ = session.Apply(s, session.BeginUpload{})
	states["parsing"] = s
	states["in_progress"] = inProgressSession(t)

	done := inProgressSession(t)
	for i := 0; i < 6; i++ {
		done, _ = session.Apply(done, session.AnswerSubmitted{Index: i, Text: "a"})
	}
	states["completed"] = done

	for name, st := range states {
		once, ok := session.Apply(st, session.Restart{})
		if !ok {
			t.Fatalf("restart from %s did not apply", name)
		}
		twice, ok := session.Apply(once, session.Restart{})
		if !ok {
			t.Fatalf("second restart from %s did not apply", name)
		}
		// identity differs per reset; everything else must be the empty session
		once.ID, twice.ID = "", ""
		empty := session.NewSession()
		empty.ID = ""
		if !reflect.DeepEqual(once, empty) || !reflect.DeepEqual(twice, empty) {
			t.Fatalf("restart from %s not idempotent: %+v vs %+v", name, once, twice)
		}
	}
}

func TestUnlistedTriggersAreNoOps(t *testing.T) {
	s := session.NewSession()

	for _, ev := range []session.Event{
		session.ExtractionSucceeded{Info: fullInfo()},
		session.ExtractionFailed{Msg: "x"},
		session.Confirm{},
		session.Cancel{},
		session.BeginGeneration{},
		session.QuestionsReady{Questions: sixQuestions()},
		session.GenerationFailed{Msg: "x"},
		session.AnswerSubmitted{Index: 0, Text: "x"},
		session.FieldEdited{Field: "name", Value: "x"},
	} {
		next, ok := session.Apply(s, ev)
		if ok {
			t.Fatalf("event %T applied from idle", ev)
		}
		if next.Status != models.StatusIdle {
			t.Fatalf("event %T moved idle to %s", ev, next.Status)
		}
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	s := inProgressSession(t)
	before := s.Clone()

	_, _ = session.Apply(s, session.AnswerSubmitted{Index: 0, Text: "a"})
	if !reflect.DeepEqual(s, before) {
		t.Fatalf("Apply mutated its input")
	}
}
