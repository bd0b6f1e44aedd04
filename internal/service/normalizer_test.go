package service

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeExtraction_SectionsEnvelope(t *testing.T) {
	raw := `{
		"sections": [
			{
				"title": "Reading Passage 1",
				"type": "READING",
				"passage": "Once upon a time...",
				"questions": [
					{"questionNumber": 1, "type": "MCQ", "text": "What happened?", "options": ["a", "b"], "correctAnswer": "a"},
					{"questionNumber": 2, "type": "MCQ", "text": "Why?", "options": ["c", "d"], "correctAnswer": "d"}
				]
			}
		]
	}`

	sections, err := NormalizeExtraction(raw, ImportModeSectioned)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Title != "Reading Passage 1" || sections[0].Type != "READING" {
		t.Fatalf("unexpected section identity: %q/%q", sections[0].Title, sections[0].Type)
	}
	if len(sections[0].Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(sections[0].Questions))
	}
}

func TestNormalizeExtraction_StripsCodeFences(t *testing.T) {
	raw := "```json\n{\"sections\": [{\"title\": \"S\", \"type\": \"STANDALONE\", \"questions\": [{\"type\": \"MCQ\", \"text\": \"q\"}]}]}\n```"

	sections, err := NormalizeExtraction(raw, ImportModeSectioned)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sections) != 1 || len(sections[0].Questions) != 1 {
		t.Fatalf("fenced JSON did not normalize: %+v", sections)
	}
}

func TestNormalizeExtraction_LegacyArrayGetsSyntheticSection(t *testing.T) {
	raw := `[
		{"type": "MCQ", "text": "First?", "options": ["a", "b"], "correctAnswer": "a"},
		{"type": "MCQ", "text": "Second?", "options": ["a", "b"], "correctAnswer": "b"}
	]`

	sections, err := NormalizeExtraction(raw, ImportModeMCQ)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sections) != 1 {
		t.Fatalf("expected 1 synthetic section, got %d", len(sections))
	}
	if sections[0].Title != "Câu hỏi" || sections[0].Type != SectionTypeStandalone {
		t.Fatalf("unexpected synthetic section: %q/%q", sections[0].Title, sections[0].Type)
	}
	// Question numbers were absent and must be renumbered sequentially.
	for i, q := range sections[0].Questions {
		if q.QuestionNumber != i+1 {
			t.Fatalf("question %d renumbered to %d", i, q.QuestionNumber)
		}
	}
}

func TestNormalizeExtraction_MalformedJSONReturnsTypedError(t *testing.T) {
	raw := `{"sections": [{"title": "broken"`

	sections, err := NormalizeExtraction(raw, ImportModeSectioned)
	if err == nil {
		t.Fatalf("expected parse error, got sections: %+v", sections)
	}
	var parseErr *AIResponseParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *AIResponseParseError, got %T", err)
	}
	if parseErr.RawExcerpt == "" {
		t.Fatalf("expected a raw excerpt for diagnostics")
	}
}

func TestNormalizeExtraction_ExcerptIsBounded(t *testing.T) {
	raw := "not json " + strings.Repeat("x", 5000)

	_, err := NormalizeExtraction(raw, ImportModeSectioned)
	var parseErr *AIResponseParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *AIResponseParseError, got %v", err)
	}
	if len(parseErr.RawExcerpt) > 1000 {
		t.Fatalf("excerpt too long: %d", len(parseErr.RawExcerpt))
	}
}

func TestNormalizeExtraction_WrongShapeDegradesToEmpty(t *testing.T) {
	for _, raw := range []string{`"just a string"`, `42`, `true`, `{"answers": []}`} {
		sections, err := NormalizeExtraction(raw, ImportModeSectioned)
		if err != nil {
			t.Fatalf("raw %q: valid JSON must not error, got %v", raw, err)
		}
		if len(sections) != 0 {
			t.Fatalf("raw %q: expected zero sections, got %d", raw, len(sections))
		}
	}
}

func TestNormalizeExtraction_DefaultsSectionType(t *testing.T) {
	raw := `{"sections": [{"title": "Untitled block", "questions": [{"type": "ESSAY", "text": "Discuss."}]}]}`

	sections, err := NormalizeExtraction(raw, ImportModeSectioned)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sections[0].Type != SectionTypeStandalone {
		t.Fatalf("expected STANDALONE default, got %q", sections[0].Type)
	}
}

func TestNormalizeExtraction_NumericCorrectAnswerIsTolerated(t *testing.T) {
	raw := `[{"type": "GAP_FILL", "text": "2+2=__", "correctAnswer": 4}]`

	sections, err := NormalizeExtraction(raw, ImportModeMCQ)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := string(sections[0].Questions[0].CorrectAnswer); got != "4" {
		t.Fatalf("expected numeric answer kept as %q, got %q", "4", got)
	}
}
