package service

import (
	"testing"

	"github.com/lshigami/examforge/internal/dto"
	"github.com/lshigami/examforge/internal/model"
)

func TestCreateQuestion_AppendsOrderIndex(t *testing.T) {
	existing := model.Question{ID: 1, AssignmentID: 2, Type: model.QuestionTypeMCQ, Points: 1, OrderIndex: 4}
	mustContent(&existing, model.QuestionContent{Text: "old", SectionTitle: "S", SectionType: SectionTypeStandalone})

	qRepo := &fakeQuestionRepo{questions: []model.Question{existing}}
	aRepo := &fakeAssignmentRepo{assignments: map[uint]*model.Assignment{2: {ID: 2}}}
	svc := NewQuestionService(qRepo, aRepo)

	resp, err := svc.CreateQuestion(2, dto.QuestionCreateDTO{
		Type:          model.QuestionTypeMCQ,
		Text:          "new question",
		Options:       []string{"a", "b"},
		CorrectAnswer: "a",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.OrderIndex != 5 {
		t.Fatalf("expected order index 5 after existing max 4, got %d", resp.OrderIndex)
	}
	if resp.Points != 1 {
		t.Fatalf("expected default points 1, got %v", resp.Points)
	}
}

func TestCreateQuestion_MCQRequiresOptions(t *testing.T) {
	qRepo := &fakeQuestionRepo{}
	aRepo := &fakeAssignmentRepo{assignments: map[uint]*model.Assignment{2: {ID: 2}}}
	svc := NewQuestionService(qRepo, aRepo)

	_, err := svc.CreateQuestion(2, dto.QuestionCreateDTO{Type: model.QuestionTypeMCQ, Text: "no options"})
	if err == nil {
		t.Fatalf("expected error for MCQ without options")
	}
}

func TestCreateQuestion_UnknownAssignment(t *testing.T) {
	svc := NewQuestionService(&fakeQuestionRepo{}, &fakeAssignmentRepo{assignments: map[uint]*model.Assignment{}})

	_, err := svc.CreateQuestion(99, dto.QuestionCreateDTO{Type: model.QuestionTypeEssay, Text: "q"})
	if err == nil {
		t.Fatalf("expected error for missing assignment")
	}
}

func TestCreateQuestion_DefaultsSectionType(t *testing.T) {
	qRepo := &fakeQuestionRepo{}
	aRepo := &fakeAssignmentRepo{assignments: map[uint]*model.Assignment{2: {ID: 2}}}
	svc := NewQuestionService(qRepo, aRepo)

	_, err := svc.CreateQuestion(2, dto.QuestionCreateDTO{
		Type:         model.QuestionTypeEssay,
		Text:         "essay prompt",
		SectionTitle: "Writing",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := qRepo.created[0].ContentPayload()
	if content.SectionType != SectionTypeStandalone {
		t.Fatalf("expected STANDALONE default, got %q", content.SectionType)
	}
	if content.SectionTitle != "Writing" {
		t.Fatalf("section title lost: %q", content.SectionTitle)
	}
}
