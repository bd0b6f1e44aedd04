package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/lshigami/examforge/internal/model"
	"github.com/rs/zerolog/log"
)

// GradeResult is the common result shape every question type normalizes to.
// IsCorrect is only set for objectively scored types.
type GradeResult struct {
	Score     float64
	IsCorrect *bool
	Feedback  string
	Degraded  bool
}

// GradingService decides per question whether scoring is local answer-key
// comparison or delegated to the AI adapter, and normalizes the outcome.
type GradingService interface {
	GradeQuestion(ctx context.Context, question model.Question, answer json.RawMessage) GradeResult
}

type gradingService struct {
	ai AIClient
}

func NewGradingService(ai AIClient) GradingService {
	return &gradingService{ai: ai}
}

func (s *gradingService) GradeQuestion(ctx context.Context, question model.Question, answer json.RawMessage) GradeResult {
	switch question.Type {
	case model.QuestionTypeMCQ, model.QuestionTypeOrdering:
		return gradeExactMatch(question, answer)
	case model.QuestionTypeGapFill:
		return gradeGapFill(question, answer)
	case model.QuestionTypeSortable:
		return gradeSortable(question, answer)
	case model.QuestionTypeEssay, model.QuestionTypeWriting, model.QuestionTypeSpeaking:
		return s.gradeSubjective(ctx, question, answer)
	default:
		log.Warn().Uint("questionID", question.ID).Str("type", question.Type).Msg("Unknown question type, scoring as zero")
		return GradeResult{Score: 0, Feedback: "Unsupported question type."}
	}
}

// gradeExactMatch scores MCQ and ORDERING answers. Policy: trim-only,
// case-sensitive equality against the answer key ("b" does not match "B").
func gradeExactMatch(question model.Question, answer json.RawMessage) GradeResult {
	submitted := decodeAnswerString(answer)
	correct := strings.TrimSpace(submitted) == strings.TrimSpace(question.CorrectAnswer)
	return objectiveResult(correct, question.Points)
}

// gradeGapFill scores gap-fill answers. A serialized list in the answer key
// means multi-blank: the submitted blank-index→text map must match every
// element, case-insensitively after trimming. All blanks must be right for
// any credit; partial credit is not awarded.
func gradeGapFill(question model.Question, answer json.RawMessage) GradeResult {
	var blanks []string
	if err := json.Unmarshal([]byte(question.CorrectAnswer), &blanks); err != nil || len(blanks) == 0 {
		// Single-blank key stored as a plain string.
		submitted := decodeAnswerString(answer)
		correct := strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(question.CorrectAnswer))
		return objectiveResult(correct, question.Points)
	}

	var submitted map[string]string
	if err := json.Unmarshal(answer, &submitted); err != nil {
		return objectiveResult(false, question.Points)
	}
	for i, expected := range blanks {
		got, ok := submitted[strconv.Itoa(i)]
		if !ok || !strings.EqualFold(strings.TrimSpace(got), strings.TrimSpace(expected)) {
			return objectiveResult(false, question.Points)
		}
	}
	return objectiveResult(true, question.Points)
}

// gradeSortable compares the submitted ordered id list against the canonical
// order encoded in the answer key.
func gradeSortable(question model.Question, answer json.RawMessage) GradeResult {
	var canonical []string
	if err := json.Unmarshal([]byte(question.CorrectAnswer), &canonical); err != nil {
		// Key was not stored as a list; compare raw strings.
		submitted := decodeAnswerString(answer)
		correct := strings.TrimSpace(submitted) == strings.TrimSpace(question.CorrectAnswer)
		return objectiveResult(correct, question.Points)
	}

	var submitted []string
	if err := json.Unmarshal(answer, &submitted); err != nil || len(submitted) != len(canonical) {
		return objectiveResult(false, question.Points)
	}
	for i := range canonical {
		if strings.TrimSpace(submitted[i]) != strings.TrimSpace(canonical[i]) {
			return objectiveResult(false, question.Points)
		}
	}
	return objectiveResult(true, question.Points)
}

// gradeSubjective delegates to the AI adapter and parses its response. An
// adapter failure (timeout, network, missing key) degrades to the parser's
// fallback result; it never aborts the rest of the submission's scoring pass.
func (s *gradingService) gradeSubjective(ctx context.Context, question model.Question, answer json.RawMessage) GradeResult {
	studentAnswer := decodeAnswerString(answer)
	content := question.ContentPayload()
	prompt := buildGradingPrompt(question, content, studentAnswer)

	raw, err := s.ai.Generate(ctx, prompt, nil)
	if err != nil {
		log.Error().Err(err).Uint("questionID", question.ID).Msg("AI grading call failed, degrading to review fallback")
		return GradeResult{Score: 0, Feedback: parseFailedFeedback, Degraded: true}
	}

	parsed := ParseGradingResponse(raw, question.Points)
	return GradeResult{Score: parsed.Score, Feedback: parsed.Feedback, Degraded: parsed.Degraded}
}

func objectiveResult(correct bool, points float64) GradeResult {
	score := 0.0
	if correct {
		score = points
	}
	return GradeResult{Score: score, IsCorrect: &correct}
}

// decodeAnswerString reads an answer submitted as a JSON string; anything
// else is kept as its raw JSON text.
func decodeAnswerString(answer json.RawMessage) string {
	var s string
	if err := json.Unmarshal(answer, &s); err == nil {
		return s
	}
	return string(answer)
}
