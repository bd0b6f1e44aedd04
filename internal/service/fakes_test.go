package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lshigami/examforge/internal/model"
	"gorm.io/gorm"
)

// In-memory repository stand-ins for exercising service logic without a
// database connection.

type fakeQuestionRepo struct {
	questions []model.Question
	created   []model.Question
}

func (f *fakeQuestionRepo) Create(q *model.Question) error {
	q.ID = uint(len(f.questions) + len(f.created) + 1)
	f.created = append(f.created, *q)
	return nil
}

func (f *fakeQuestionRepo) CreateBatch(questions []model.Question) error {
	f.created = append(f.created, questions...)
	return nil
}

func (f *fakeQuestionRepo) FindByID(id uint) (*model.Question, error) {
	for i := range f.questions {
		if f.questions[i].ID == id {
			q := f.questions[i]
			return &q, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeQuestionRepo) FindByAssignmentID(assignmentID uint) ([]model.Question, error) {
	var out []model.Question
	for _, q := range f.questions {
		if q.AssignmentID == assignmentID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuestionRepo) FindByIDs(ids []uint) ([]model.Question, error) {
	var out []model.Question
	for _, id := range ids {
		for _, q := range f.questions {
			if q.ID == id {
				out = append(out, q)
			}
		}
	}
	return out, nil
}

func (f *fakeQuestionRepo) Update(q *model.Question) error { return nil }
func (f *fakeQuestionRepo) Delete(id uint) error           { return nil }

type fakeAssignmentRepo struct {
	assignments map[uint]*model.Assignment
}

func (f *fakeAssignmentRepo) Create(a *model.Assignment) error { return nil }

func (f *fakeAssignmentRepo) FindByID(id uint) (*model.Assignment, error) {
	if a, ok := f.assignments[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAssignmentRepo) FindByIDWithQuestions(id uint) (*model.Assignment, error) {
	return f.FindByID(id)
}

func (f *fakeAssignmentRepo) FindAllByClass(classID uint) ([]model.Assignment, error) {
	return nil, nil
}

func (f *fakeAssignmentRepo) Update(a *model.Assignment) error { return nil }
func (f *fakeAssignmentRepo) Delete(id uint) error             { return nil }

type fakeProgressRepo struct {
	progresses map[uint]*model.AssignmentProgress
}

func (f *fakeProgressRepo) Create(p *model.AssignmentProgress) error { return nil }

func (f *fakeProgressRepo) FindByID(id uint) (*model.AssignmentProgress, error) {
	if p, ok := f.progresses[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProgressRepo) FindByUserAndAssignment(userID, assignmentID uint) (*model.AssignmentProgress, error) {
	for _, p := range f.progresses {
		if p.UserID == userID && p.AssignmentID == assignmentID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProgressRepo) FindOrCreate(userID, assignmentID uint) (*model.AssignmentProgress, error) {
	return f.FindByUserAndAssignment(userID, assignmentID)
}

func (f *fakeProgressRepo) FindWithSubmissions(id uint) (*model.AssignmentProgress, error) {
	return f.FindByID(id)
}

func (f *fakeProgressRepo) Update(p *model.AssignmentProgress) error { return nil }

type fakeSubmissionRepo struct {
	submissions []model.Submission
}

func (f *fakeSubmissionRepo) Create(s *model.Submission) error { return nil }

func (f *fakeSubmissionRepo) FindByID(id uint) (*model.Submission, error) {
	for i := range f.submissions {
		if f.submissions[i].ID == id {
			s := f.submissions[i]
			return &s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSubmissionRepo) FindByProgressID(progressID uint) ([]model.Submission, error) {
	var out []model.Submission
	for _, s := range f.submissions {
		if s.AssignmentProgressID == progressID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubmissionRepo) Update(s *model.Submission) error { return nil }

func (f *fakeSubmissionRepo) FindNeedingReconciliation() ([]model.Submission, error) {
	var out []model.Submission
	for _, s := range f.submissions {
		if (s.Score == nil || *s.Score == 0) && len(s.Feedback) > 0 {
			out = append(out, s)
		}
	}
	return out, nil
}

// fakeAIClient returns a canned response, or an error when failWith is set.
type fakeAIClient struct {
	response string
	failWith error
	prompts  []string
}

func (f *fakeAIClient) Generate(ctx context.Context, prompt string, attachment *Blob) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.failWith != nil {
		return "", f.failWith
	}
	return f.response, nil
}

var errFakeUpstream = &ExtractionUpstreamError{Err: errors.New("connection refused")}

func mustContent(q *model.Question, c model.QuestionContent) {
	if err := q.SetContentPayload(c); err != nil {
		panic(fmt.Sprintf("encoding question content: %v", err))
	}
}
