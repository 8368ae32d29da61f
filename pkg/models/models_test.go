package models

import (
	"reflect"
	"testing"
)

func strptr(s string) *string { return &s }

func TestCandidateInfoComplete(t *testing.T) {
	full := CandidateInfo{Name: strptr("A"), Email: strptr("a@x.com"), Phone: strptr("555")}
	if !full.Complete() {
		t.Fatalf("full info reported incomplete")
	}

	empty := CandidateInfo{}
	if empty.Complete() {
		t.Fatalf("empty info reported complete")
	}

	blank := CandidateInfo{Name: strptr("A"), Email: strptr(""), Phone: strptr("555")}
	if blank.Complete() {
		t.Fatalf("blank email reported complete")
	}
}

func TestSessionCloneIsDeep(t *testing.T) {
	orig := Session{
		ID:        "s1",
		Status:    StatusInProgress,
		Candidate: CandidateInfo{Name: strptr("Alice")},
		Questions: []Question{{ID: 1, Text: "q", Difficulty: DifficultyEasy}},
		Answers:   []string{"a"},
	}

	clone := orig.Clone()
	if !reflect.DeepEqual(orig, clone) {
		t.Fatalf("clone differs from original")
	}

	*clone.Candidate.Name = "Mallory"
	clone.Questions[0].Text = "changed"
	clone.Answers[0] = "changed"

	if *orig.Candidate.Name != "Alice" || orig.Questions[0].Text != "q" || orig.Answers[0] != "a" {
		t.Fatalf("clone aliases the original: %+v", orig)
	}
}

func TestClonePreservesEmptySlices(t *testing.T) {
	orig := Session{ID: "s1", Questions: []Question{}, Answers: []string{}}
	clone := orig.Clone()
	if clone.Questions == nil || clone.Answers == nil {
		t.Fatalf("empty slices became nil")
	}
}

func TestCurrentQuestion(t *testing.T) {
	s := Session{Questions: []Question{{ID: 1}, {ID: 2}}, CurrentIndex: 1}
	q, ok := s.CurrentQuestion()
	if !ok || q.ID != 2 {
		t.Fatalf("got %v %v", q, ok)
	}

	s.CurrentIndex = 2
	if _, ok := s.CurrentQuestion(); ok {
		t.Fatalf("index past the end reported a question")
	}

	empty := Session{}
	if _, ok := empty.CurrentQuestion(); ok {
		t.Fatalf("empty session reported a question")
	}
}

func TestCandidateRecordValidate(t *testing.T) {
	good := CandidateRecord{ID: "a@x.com", Questions: []Question{{ID: 1}}, Answers: []string{"a"}, Score: 70}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	cases := map[string]CandidateRecord{
		"empty id":        {Questions: []Question{{ID: 1}}, Answers: []string{"a"}, Score: 70},
		"score too high":  {ID: "a", Questions: []Question{{ID: 1}}, Answers: []string{"a"}, Score: 101},
		"negative score":  {ID: "a", Questions: []Question{{ID: 1}}, Answers: []string{"a"}, Score: -1},
		"length mismatch": {ID: "a", Questions: []Question{{ID: 1}, {ID: 2}}, Answers: []string{"a"}, Score: 50},
	}
	for name, rec := range cases {
		if err := rec.Validate(); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestDifficultyValid(t *testing.T) {
	for _, d := range []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		if !d.Valid() {
			t.Errorf("%s reported invalid", d)
		}
	}
	if Difficulty("Extreme").Valid() {
		t.Errorf("unknown difficulty reported valid")
	}
}
