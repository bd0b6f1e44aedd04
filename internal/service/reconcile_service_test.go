package service

import (
	"context"
	"testing"

	"github.com/lshigami/examforge/internal/model"
	"gorm.io/datatypes"
)

func reconcileFixture(t *testing.T) (*fakeSubmissionRepo, *fakeProgressRepo, *fakeQuestionRepo) {
	t.Helper()

	q1 := model.Question{ID: 1, AssignmentID: 5, Type: model.QuestionTypeEssay, Points: 5}
	mustContent(&q1, model.QuestionContent{Text: "essay", SectionTitle: "S", SectionType: SectionTypeStandalone})
	q2 := model.Question{ID: 2, AssignmentID: 5, Type: model.QuestionTypeMCQ, CorrectAnswer: "a", Points: 5}
	mustContent(&q2, model.QuestionContent{Text: "mcq", SectionTitle: "S", SectionType: SectionTypeStandalone})

	sub := model.Submission{ID: 1, UserID: 9, AssignmentProgressID: 10, AttemptNumber: 1}
	correct := true
	score := 3.0
	if err := sub.SetFeedbackPayload(model.FeedbackMap{
		"1": {Score: &score, Feedback: "partial credit"},
		"2": {IsCorrect: &correct},
	}); err != nil {
		t.Fatalf("encoding feedback: %v", err)
	}

	return &fakeSubmissionRepo{submissions: []model.Submission{sub}},
		&fakeProgressRepo{progresses: map[uint]*model.AssignmentProgress{
			10: {ID: 10, UserID: 9, AssignmentID: 5, Status: model.ProgressStatusPendingGrading},
		}},
		&fakeQuestionRepo{questions: []model.Question{q1, q2}}
}

func TestReconcile_DryRunRecomputesFromFeedback(t *testing.T) {
	subRepo, progRepo, qRepo := reconcileFixture(t)
	svc := NewReconcileService(subRepo, progRepo, qRepo, nil)

	report, err := svc.Reconcile(context.Background(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.DryRun {
		t.Fatalf("dry run flag lost")
	}
	if report.Scanned != 1 || report.Updated != 1 || report.Skipped != 0 {
		t.Fatalf("unexpected counters: %+v", report)
	}
	if len(report.Deltas) != 1 {
		t.Fatalf("expected 1 delta, got %d", len(report.Deltas))
	}

	// Explicit per-question score wins (3), bare isCorrect falls back to the
	// question's full points (5).
	delta := report.Deltas[0]
	if delta.SubmissionID != 1 {
		t.Fatalf("unexpected submission in delta: %d", delta.SubmissionID)
	}
	if delta.NewScore != 8 {
		t.Fatalf("expected recomputed total 8, got %v", delta.NewScore)
	}
	if delta.OldScore != nil {
		t.Fatalf("expected no old score, got %v", *delta.OldScore)
	}
}

func TestReconcile_DryRunIsRepeatable(t *testing.T) {
	subRepo, progRepo, qRepo := reconcileFixture(t)
	svc := NewReconcileService(subRepo, progRepo, qRepo, nil)

	first, err := svc.Reconcile(context.Background(), true)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := svc.Reconcile(context.Background(), true)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if first.Updated != second.Updated || first.Scanned != second.Scanned {
		t.Fatalf("runs disagree: %+v vs %+v", first, second)
	}
	if second.Deltas[0].NewScore != first.Deltas[0].NewScore {
		t.Fatalf("recomputed totals differ between runs")
	}
}

func TestReconcile_MalformedFeedbackIsSkipped(t *testing.T) {
	subRepo, progRepo, qRepo := reconcileFixture(t)
	subRepo.submissions = append(subRepo.submissions, model.Submission{
		ID:                   2,
		UserID:               9,
		AssignmentProgressID: 10,
		AttemptNumber:        2,
		Feedback:             datatypes.JSON(`{"1": broken`),
	})
	svc := NewReconcileService(subRepo, progRepo, qRepo, nil)

	report, err := svc.Reconcile(context.Background(), true)
	if err != nil {
		t.Fatalf("one bad row must not abort the batch: %v", err)
	}
	if report.Scanned != 2 {
		t.Fatalf("expected 2 scanned, got %d", report.Scanned)
	}
	if report.Updated != 1 || report.Skipped != 1 {
		t.Fatalf("expected 1 updated and 1 skipped, got %+v", report)
	}
}

func TestReconcile_FeedbackForDeletedQuestionContributesNothing(t *testing.T) {
	subRepo, progRepo, qRepo := reconcileFixture(t)
	// Feedback references question 99 which no longer exists.
	score := 7.0
	sub := &subRepo.submissions[0]
	correct := true
	existing3 := 3.0
	if err := sub.SetFeedbackPayload(model.FeedbackMap{
		"1":  {Score: &existing3},
		"2":  {IsCorrect: &correct},
		"99": {Score: &score},
	}); err != nil {
		t.Fatalf("encoding feedback: %v", err)
	}
	svc := NewReconcileService(subRepo, progRepo, qRepo, nil)

	report, err := svc.Reconcile(context.Background(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Deltas[0].NewScore != 8 {
		t.Fatalf("orphaned feedback entry must not count, got %v", report.Deltas[0].NewScore)
	}
}
