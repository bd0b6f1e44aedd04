package service

import (
	"errors"
	"sort"
	"testing"

	"github.com/lshigami/examforge/internal/model"
)

func sectionedQuestions(t *testing.T, layout ...string) []model.Question {
	t.Helper()
	rows := make([]model.Question, len(layout))
	for i, title := range layout {
		rows[i] = model.Question{
			ID:           uint(i + 1),
			AssignmentID: 1,
			Type:         model.QuestionTypeMCQ,
			Points:       1,
			OrderIndex:   i,
		}
		mustContent(&rows[i], model.QuestionContent{
			Text:         "q",
			SectionTitle: title,
			SectionType:  SectionTypeStandalone,
		})
	}
	return rows
}

func TestGroupQuestions_SplitsOnTitleChangeOnly(t *testing.T) {
	rows := sectionedQuestions(t, "A", "A", "B", "B", "B", "C")

	groups := GroupQuestions(rows)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if len(groups[0].Questions) != 2 || len(groups[1].Questions) != 3 || len(groups[2].Questions) != 1 {
		t.Fatalf("unexpected group sizes: %d/%d/%d",
			len(groups[0].Questions), len(groups[1].Questions), len(groups[2].Questions))
	}
}

func TestGroupQuestions_NonAdjacentRunsStaySeparate(t *testing.T) {
	rows := sectionedQuestions(t, "A", "B", "A")

	groups := GroupQuestions(rows)
	if len(groups) != 3 {
		t.Fatalf("expected A, B, A as 3 groups, got %d", len(groups))
	}
	if groups[0].Title != "A" || groups[1].Title != "B" || groups[2].Title != "A" {
		t.Fatalf("unexpected titles: %q %q %q", groups[0].Title, groups[1].Title, groups[2].Title)
	}
}

func TestGroupQuestions_EmptyInput(t *testing.T) {
	if groups := GroupQuestions(nil); len(groups) != 0 {
		t.Fatalf("expected no groups for no rows, got %d", len(groups))
	}
}

func TestReorderSection_UnknownTitle(t *testing.T) {
	repo := &fakeQuestionRepo{questions: sectionedQuestions(t, "A", "B")}
	svc := NewSectionService(repo, nil)

	_, err := svc.ReorderSection(1, "Nope", ReorderDirectionUp)
	if !errors.Is(err, ErrSectionNotFound) {
		t.Fatalf("expected ErrSectionNotFound, got %v", err)
	}
}

func TestReorderSection_InvalidDirection(t *testing.T) {
	repo := &fakeQuestionRepo{questions: sectionedQuestions(t, "A", "B")}
	svc := NewSectionService(repo, nil)

	if _, err := svc.ReorderSection(1, "A", "SIDEWAYS"); err == nil {
		t.Fatalf("expected error for invalid direction")
	}
}

func applyReorderPlan(rows []model.Question, changes []questionReindex) []model.Question {
	updated := make([]model.Question, len(rows))
	copy(updated, rows)
	for _, c := range changes {
		for i := range updated {
			if updated[i].ID == c.id {
				updated[i].OrderIndex = c.order
			}
		}
	}
	sort.Slice(updated, func(i, j int) bool { return updated[i].OrderIndex < updated[j].OrderIndex })
	return updated
}

func TestReorderPlan_InverseMoveRestoresOrder(t *testing.T) {
	rows := sectionedQuestions(t, "A", "A", "B", "B", "B", "C")

	down, err := reorderPlan(GroupQuestions(rows), "B", ReorderDirectionDown)
	if err != nil {
		t.Fatalf("unexpected error moving down: %v", err)
	}
	if len(down) == 0 {
		t.Fatalf("expected the move to change at least one row")
	}
	moved := applyReorderPlan(rows, down)

	up, err := reorderPlan(GroupQuestions(moved), "B", ReorderDirectionUp)
	if err != nil {
		t.Fatalf("unexpected error moving back up: %v", err)
	}
	restored := applyReorderPlan(moved, up)

	for i := range rows {
		if restored[i].ID != rows[i].ID || restored[i].OrderIndex != rows[i].OrderIndex {
			t.Fatalf("row %d not restored: got ID %d order %d, want ID %d order %d",
				i, restored[i].ID, restored[i].OrderIndex, rows[i].ID, rows[i].OrderIndex)
		}
	}
}

func TestReorderSection_BoundaryMoveIsNoOp(t *testing.T) {
	repo := &fakeQuestionRepo{questions: sectionedQuestions(t, "A", "A", "B")}
	svc := NewSectionService(repo, nil)

	// First group up and last group down both succeed without touching rows.
	changed, err := svc.ReorderSection(1, "A", ReorderDirectionUp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changed != 0 {
		t.Fatalf("expected 0 changed rows, got %d", changed)
	}

	changed, err = svc.ReorderSection(1, "B", ReorderDirectionDown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changed != 0 {
		t.Fatalf("expected 0 changed rows, got %d", changed)
	}
}
