package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/hireloop/interviewd/internal/config"
	"github.com/hireloop/interviewd/pkg/models"
	"github.com/hireloop/interviewd/pkg/ollama"
)

// Error taxonomy for the three model-backed operations. Callers match with
// errors.Is and route the session accordingly.
var (
	ErrExtraction = errors.New("resume extraction failed")
	ErrGeneration = errors.New("question generation failed")
	ErrScoring    = errors.New("transcript scoring failed")
)

// QuestionCount is the fixed interview length; the generator must return
// exactly this many questions, two per difficulty.
const QuestionCount = 6

// maxResumeChars caps how much resume text is sent to the model.
const maxResumeChars = 20000

// Generator is the subset of pkg/ollama.Client the engine needs; tests
// substitute a mock.
type Generator interface {
	Generate(ctx context.Context, model string, prompt string) (string, error)
}

var _ Generator = (*ollama.Client)(nil)

// Engine wraps a generative client and provides the three interview
// operations: contact extraction, question generation, and scoring.
type Engine struct {
	gen    Generator
	cfg    config.EngineConfig
	loader *Loader
	logger *slog.Logger
}

// NewEngine creates a new AI engine.
func NewEngine(gen Generator, cfg config.EngineConfig, logger *slog.Logger) (*Engine, error) {
	if gen == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("engine model is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	loader, err := NewLoader()
	if err != nil {
		return nil, fmt.Errorf("create loader: %w", err)
	}

	return &Engine{gen: gen, cfg: cfg, loader: loader, logger: logger}, nil
}

type extractResponse struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// ExtractCandidateInfo sends the resume text to the model and returns the
// best-effort contact fields. Any field may come back nil.
func (e *Engine) ExtractCandidateInfo(ctx context.Context, fileBytes []byte) (models.CandidateInfo, error) {
	text := strings.ToValidUTF8(string(fileBytes), "")
	text = strings.TrimSpace(text)
	if text == "" {
		return models.CandidateInfo{}, fmt.Errorf("%w: empty resume", ErrExtraction)
	}
	if len(text) > maxResumeChars {
		text = text[:maxResumeChars]
	}

	prompt, err := ollama.RenderTemplate(extractPromptTemplate, map[string]any{"Resume": text})
	if err != nil {
		return models.CandidateInfo{}, fmt.Errorf("%w: render template: %v", ErrExtraction, err)
	}

	var resp extractResponse
	if err := e.generateInto(ctx, prompt, "extract_v1", &resp); err != nil {
		return models.CandidateInfo{}, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	return models.CandidateInfo{
		Name:  normalize(resp.Name),
		Email: normalize(resp.Email),
		Phone: normalize(resp.Phone),
	}, nil
}

type questionsResponse struct {
	Questions []models.Question `json:"questions"`
}

// GenerateQuestions asks the model for the interview question set and
// enforces the contract: exactly six questions, two per difficulty, unique
// ids 1..6, returned in id order.
func (e *Engine) GenerateQuestions(ctx context.Context) ([]models.Question, error) {
	var resp questionsResponse
	if err := e.generateInto(ctx, questionsPromptTemplate, "questions_v1", &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	if err := validateQuestionSet(resp.Questions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	qs := append([]models.Question(nil), resp.Questions...)
	sort.Slice(qs, func(i, j int) bool { return qs[i].ID < qs[j].ID })
	return qs, nil
}

type scoreResponse struct {
	Score   int    `json:"score"`
	Summary string `json:"summary"`
}

type transcriptItem struct {
	ID         int
	Difficulty models.Difficulty
	Question   string
	Answer     string
}

// ScoreTranscript grades a finished interview and writes a short summary.
func (e *Engine) ScoreTranscript(ctx context.Context, questions []models.Question, answers []string) (int, string, error) {
	if len(questions) == 0 || len(questions) != len(answers) {
		return 0, "", fmt.Errorf("%w: transcript has %d questions and %d answers", ErrScoring, len(questions), len(answers))
	}

	items := make([]transcriptItem, len(questions))
	for i, q := range questions {
		items[i] = transcriptItem{ID: q.ID, Difficulty: q.Difficulty, Question: q.Text, Answer: answers[i]}
	}

	prompt, err := ollama.RenderTemplate(scorePromptTemplate, map[string]any{"Items": items})
	if err != nil {
		return 0, "", fmt.Errorf("%w: render template: %v", ErrScoring, err)
	}

	var resp scoreResponse
	if err := e.generateInto(ctx, prompt, "score_v1", &resp); err != nil {
		return 0, "", fmt.Errorf("%w: %v", ErrScoring, err)
	}

	if resp.Score < 0 || resp.Score > 100 {
		return 0, "", fmt.Errorf("%w: score %d out of range", ErrScoring, resp.Score)
	}
	if strings.TrimSpace(resp.Summary) == "" {
		return 0, "", fmt.Errorf("%w: empty summary", ErrScoring)
	}

	return resp.Score, resp.Summary, nil
}

// generateInto runs the prompt, extracts the JSON object from the raw model
// output, validates it against the named schema, and unmarshals into out.
func (e *Engine) generateInto(ctx context.Context, prompt, schemaName string, out any) error {
	ctxReq, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	raw, err := e.gen.Generate(ctxReq, e.cfg.Model, prompt)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	j := extractJSON(raw)
	if j == "" {
		e.logger.Warn("no JSON in model output", slog.String("schema", schemaName), slog.String("raw", truncate(raw, 500)))
		return errors.New("no JSON object found in response")
	}

	schema, ok := e.loader.GetSchema(schemaName)
	if !ok || schema == nil {
		return fmt.Errorf("no schema %s", schemaName)
	}

	verrs, err := schema.ValidateBytes(ctxReq, []byte(j))
	if err != nil {
		return fmt.Errorf("schema validate error: %w", err)
	}
	if len(verrs) > 0 {
		var sb strings.Builder
		for _, v := range verrs {
			sb.WriteString(v.Message)
			sb.WriteString("; ")
		}
		return fmt.Errorf("response does not match schema: %s", sb.String())
	}

	return unmarshalJSON(j, out)
}

func validateQuestionSet(qs []models.Question) error {
	if len(qs) != QuestionCount {
		return fmt.Errorf("expected %d questions, got %d", QuestionCount, len(qs))
	}

	seen := make(map[int]bool, len(qs))
	counts := make(map[models.Difficulty]int, 3)
	for _, q := range qs {
		if q.ID < 1 || q.ID > QuestionCount {
			return fmt.Errorf("question id %d out of range 1..%d", q.ID, QuestionCount)
		}
		if seen[q.ID] {
			return fmt.Errorf("duplicate question id %d", q.ID)
		}
		seen[q.ID] = true
		if !q.Difficulty.Valid() {
			return fmt.Errorf("unknown difficulty %q", q.Difficulty)
		}
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("question %d has empty text", q.ID)
		}
		counts[q.Difficulty]++
	}
	for _, d := range []models.Difficulty{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard} {
		if counts[d] != 2 {
			return fmt.Errorf("expected 2 %s questions, got %d", d, counts[d])
		}
	}
	return nil
}

func normalize(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
