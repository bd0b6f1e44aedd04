package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lshigami/examforge/internal/model"
)

func TestImportQuestions_AppendsAfterExistingRows(t *testing.T) {
	existing := model.Question{ID: 1, AssignmentID: 3, Type: model.QuestionTypeMCQ, Points: 1, OrderIndex: 2}
	mustContent(&existing, model.QuestionContent{Text: "old", SectionTitle: "Old", SectionType: SectionTypeStandalone})

	qRepo := &fakeQuestionRepo{questions: []model.Question{existing}}
	aRepo := &fakeAssignmentRepo{assignments: map[uint]*model.Assignment{3: {ID: 3, Title: "Quiz"}}}
	ai := &fakeAIClient{response: `{"sections": [{"title": "New", "type": "STANDALONE", "questions": [
		{"type": "MCQ", "text": "n1", "correctAnswer": "a"},
		{"type": "MCQ", "text": "n2", "correctAnswer": "b"}
	]}]}`}
	svc := NewImportService(aRepo, qRepo, ai)

	result, err := svc.ImportQuestions(context.Background(), 3, ImportRequest{Mode: ImportModeSectioned, DocumentText: "doc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CreatedCount != 2 || result.SkippedCount != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(qRepo.created) != 2 {
		t.Fatalf("expected 2 inserted rows, got %d", len(qRepo.created))
	}
	// Existing max order index is 2, so new rows start at 3.
	if qRepo.created[0].OrderIndex != 3 || qRepo.created[1].OrderIndex != 4 {
		t.Fatalf("new rows not appended after existing: %d, %d",
			qRepo.created[0].OrderIndex, qRepo.created[1].OrderIndex)
	}
}

func TestImportQuestions_ZeroUsableRows(t *testing.T) {
	qRepo := &fakeQuestionRepo{}
	aRepo := &fakeAssignmentRepo{assignments: map[uint]*model.Assignment{3: {ID: 3}}}
	ai := &fakeAIClient{response: `{"sections": [{"title": "Empty", "questions": [{"type": "", "text": ""}]}]}`}
	svc := NewImportService(aRepo, qRepo, ai)

	_, err := svc.ImportQuestions(context.Background(), 3, ImportRequest{Mode: ImportModeSectioned, DocumentText: "doc"})
	if !errors.Is(err, ErrNoQuestionsExtracted) {
		t.Fatalf("expected ErrNoQuestionsExtracted, got %v", err)
	}
	if len(qRepo.created) != 0 {
		t.Fatalf("nothing should be inserted, got %d rows", len(qRepo.created))
	}
}

func TestImportQuestions_UpstreamFailurePropagatesTyped(t *testing.T) {
	qRepo := &fakeQuestionRepo{}
	aRepo := &fakeAssignmentRepo{assignments: map[uint]*model.Assignment{3: {ID: 3}}}
	svc := NewImportService(aRepo, qRepo, &fakeAIClient{failWith: errFakeUpstream})

	_, err := svc.ImportQuestions(context.Background(), 3, ImportRequest{Mode: ImportModeMCQ, DocumentText: "doc"})
	var upstream *ExtractionUpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected *ExtractionUpstreamError, got %v", err)
	}
}

func TestImportQuestions_MalformedResponsePropagatesParseError(t *testing.T) {
	qRepo := &fakeQuestionRepo{}
	aRepo := &fakeAssignmentRepo{assignments: map[uint]*model.Assignment{3: {ID: 3}}}
	svc := NewImportService(aRepo, qRepo, &fakeAIClient{response: `{"sections": [`})

	_, err := svc.ImportQuestions(context.Background(), 3, ImportRequest{Mode: ImportModeSectioned, DocumentText: "doc"})
	var parseErr *AIResponseParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *AIResponseParseError, got %v", err)
	}
}
