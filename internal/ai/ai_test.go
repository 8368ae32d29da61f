package ai

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/hireloop/interviewd/internal/config"
	"github.com/hireloop/interviewd/pkg/models"
)

type scriptedGen struct {
	response string
	err      error
	prompts  []string
}

func (g *scriptedGen) Generate(ctx context.Context, model string, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func newTestEngine(t *testing.T, gen Generator) *Engine {
	t.Helper()
	eng, err := NewEngine(gen, config.EngineConfig{Model: "test-model", Timeout: 5 * time.Second}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return eng
}

const validQuestionsJSON = `{"questions": [
  {"id": 1, "text": "What is JSX?", "difficulty": "Easy"},
  {"id": 2, "text": "What does npm install do?", "difficulty": "Easy"},
  {"id": 3, "text": "Explain the event loop.", "difficulty": "Medium"},
  {"id": 4, "text": "What are React hooks?", "difficulty": "Medium"},
  {"id": 5, "text": "Design a rate limiter middleware.", "difficulty": "Hard"},
  {"id": 6, "text": "How would you scale websockets?", "difficulty": "Hard"}
]}`

func TestExtractCandidateInfo(t *testing.T) {
	gen := &scriptedGen{response: `Here is the JSON you asked for:
{"name": " Alice Johnson ", "email": "alice@example.com", "phone": null}`}
	eng := newTestEngine(t, gen)

	info, err := eng.ExtractCandidateInfo(context.Background(), []byte("Alice Johnson\nalice@example.com\nReact developer"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if info.Name == nil || *info.Name != "Alice Johnson" {
		t.Fatalf("name not trimmed: %v", info.Name)
	}
	if info.Email == nil || *info.Email != "alice@example.com" {
		t.Fatalf("email: %v", info.Email)
	}
	if info.Phone != nil {
		t.Fatalf("phone should be nil, got %q", *info.Phone)
	}
	if len(gen.prompts) != 1 || !strings.Contains(gen.prompts[0], "React developer") {
		t.Fatalf("resume text not in prompt")
	}
}

func TestExtractRejectsEmptyResume(t *testing.T) {
	eng := newTestEngine(t, &scriptedGen{})
	_, err := eng.ExtractCandidateInfo(context.Background(), []byte("   \n\t "))
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
}

func TestExtractTruncatesLongResume(t *testing.T) {
	gen := &scriptedGen{response: `{"name": null, "email": null, "phone": null}`}
	eng := newTestEngine(t, gen)

	long := strings.Repeat("x", maxResumeChars+5000)
	if _, err := eng.ExtractCandidateInfo(context.Background(), []byte(long)); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(gen.prompts[0]) > maxResumeChars+len(extractPromptTemplate) {
		t.Fatalf("prompt not truncated: %d chars", len(gen.prompts[0]))
	}
}

func TestExtractWrapsGeneratorError(t *testing.T) {
	eng := newTestEngine(t, &scriptedGen{err: errors.New("connection refused")})
	_, err := eng.ExtractCandidateInfo(context.Background(), []byte("resume"))
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
}

func TestExtractRejectsNonJSONOutput(t *testing.T) {
	eng := newTestEngine(t, &scriptedGen{response: "I could not find any contact details."})
	_, err := eng.ExtractCandidateInfo(context.Background(), []byte("resume"))
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
}

func TestGenerateQuestions(t *testing.T) {
	eng := newTestEngine(t, &scriptedGen{response: "```json\n" + validQuestionsJSON + "\n```"})

	qs, err := eng.GenerateQuestions(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(qs) != QuestionCount {
		t.Fatalf("got %d questions", len(qs))
	}
	for i, q := range qs {
		if q.ID != i+1 {
			t.Fatalf("questions not in id order: %v", qs)
		}
	}
}

func TestGenerateQuestionsSortsById(t *testing.T) {
	shuffled := `{"questions": [
	  {"id": 6, "text": "f", "difficulty": "Hard"},
	  {"id": 3, "text": "c", "difficulty": "Medium"},
	  {"id": 1, "text": "a", "difficulty": "Easy"},
	  {"id": 5, "text": "e", "difficulty": "Hard"},
	  {"id": 2, "text": "b", "difficulty": "Easy"},
	  {"id": 4, "text": "d", "difficulty": "Medium"}
	]}`
	eng := newTestEngine(t, &scriptedGen{response: shuffled})

	qs, err := eng.GenerateQuestions(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for i, q := range qs {
		if q.ID != i+1 {
			t.Fatalf("position %d holds id %d", i, q.ID)
		}
	}
}

func TestGenerateQuestionsRejectsBadSets(t *testing.T) {
	cases := map[string]string{
		"too few":         `{"questions": [{"id": 1, "text": "a", "difficulty": "Easy"}]}`,
		"duplicate id":    `{"questions": [{"id": 1, "text": "a", "difficulty": "Easy"},{"id": 1, "text": "b", "difficulty": "Easy"},{"id": 3, "text": "c", "difficulty": "Medium"},{"id": 4, "text": "d", "difficulty": "Medium"},{"id": 5, "text": "e", "difficulty": "Hard"},{"id": 6, "text": "f", "difficulty": "Hard"}]}`,
		"id out of range": `{"questions": [{"id": 0, "text": "a", "difficulty": "Easy"},{"id": 2, "text": "b", "difficulty": "Easy"},{"id": 3, "text": "c", "difficulty": "Medium"},{"id": 4, "text": "d", "difficulty": "Medium"},{"id": 5, "text": "e", "difficulty": "Hard"},{"id": 6, "text": "f", "difficulty": "Hard"}]}`,
		"skewed mix":      `{"questions": [{"id": 1, "text": "a", "difficulty": "Easy"},{"id": 2, "text": "b", "difficulty": "Easy"},{"id": 3, "text": "c", "difficulty": "Easy"},{"id": 4, "text": "d", "difficulty": "Medium"},{"id": 5, "text": "e", "difficulty": "Hard"},{"id": 6, "text": "f", "difficulty": "Hard"}]}`,
		"empty text":      `{"questions": [{"id": 1, "text": " ", "difficulty": "Easy"},{"id": 2, "text": "b", "difficulty": "Easy"},{"id": 3, "text": "c", "difficulty": "Medium"},{"id": 4, "text": "d", "difficulty": "Medium"},{"id": 5, "text": "e", "difficulty": "Hard"},{"id": 6, "text": "f", "difficulty": "Hard"}]}`,
	}
	for name, resp := range cases {
		t.Run(name, func(t *testing.T) {
			eng := newTestEngine(t, &scriptedGen{response: resp})
			if _, err := eng.GenerateQuestions(context.Background()); !errors.Is(err, ErrGeneration) {
				t.Fatalf("expected ErrGeneration, got %v", err)
			}
		})
	}
}

func TestScoreTranscript(t *testing.T) {
	gen := &scriptedGen{response: `{"score": 82, "summary": "Strong on fundamentals, weaker on system design."}`}
	eng := newTestEngine(t, gen)

	qs := []models.Question{
		{ID: 1, Text: "What is JSX?", Difficulty: models.DifficultyEasy},
		{ID: 2, Text: "Explain the event loop.", Difficulty: models.DifficultyMedium},
	}
	answers := []string{"A syntax extension.", "No answer provided."}

	score, summary, err := eng.ScoreTranscript(context.Background(), qs, answers)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if score != 82 || summary == "" {
		t.Fatalf("got %d %q", score, summary)
	}
	if !strings.Contains(gen.prompts[0], "No answer provided.") {
		t.Fatalf("transcript not rendered into prompt")
	}
}

func TestScoreTranscriptLengthMismatch(t *testing.T) {
	eng := newTestEngine(t, &scriptedGen{})
	qs := []models.Question{{ID: 1, Text: "q", Difficulty: models.DifficultyEasy}}
	if _, _, err := eng.ScoreTranscript(context.Background(), qs, nil); !errors.Is(err, ErrScoring) {
		t.Fatalf("expected ErrScoring, got %v", err)
	}
}

func TestScoreTranscriptRejectsOutOfRange(t *testing.T) {
	eng := newTestEngine(t, &scriptedGen{response: `{"score": 101, "summary": "x"}`})
	qs := []models.Question{{ID: 1, Text: "q", Difficulty: models.DifficultyEasy}}
	if _, _, err := eng.ScoreTranscript(context.Background(), qs, []string{"a"}); !errors.Is(err, ErrScoring) {
		t.Fatalf("expected ErrScoring, got %v", err)
	}
}

func TestScoreTranscriptRejectsEmptySummary(t *testing.T) {
	eng := newTestEngine(t, &scriptedGen{response: `{"score": 50, "summary": "  "}`})
	qs := []models.Question{{ID: 1, Text: "q", Difficulty: models.DifficultyEasy}}
	if _, _, err := eng.ScoreTranscript(context.Background(), qs, []string{"a"}); !errors.Is(err, ErrScoring) {
		t.Fatalf("expected ErrScoring, got %v", err)
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`{"a": 1}`, `{"a": 1}`},
		{"text before {\"a\": 1} text after", `{"a": 1}`},
		{"```json\n{\"a\": {\"b\": 2}}\n```", `{"a": {"b": 2}}`},
		{"no json here", ""},
		{"} backwards {", ""},
	}
	for _, c := range cases {
		if got := extractJSON(c.in); got != c.want {
			t.Errorf("extractJSON(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestLoaderHasAllSchemas(t *testing.T) {
	l, err := NewLoader()
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}
	for _, name := range []string{"extract_v1", "questions_v1", "score_v1"} {
		if s, ok := l.GetSchema(name); !ok || s == nil {
			t.Errorf("schema %s missing", name)
		}
	}
	if _, ok := l.GetSchema("nope"); ok {
		t.Errorf("unknown schema reported present")
	}
}
