package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuestionFeedback is one entry of the submission feedback JSON map, keyed by
// question ID. The payload contract must remain stable: the reconciliation
// job recomputes totals from historical rows of this shape.
type QuestionFeedback struct {
	IsCorrect     *bool    `json:"isCorrect,omitempty"`
	Score         *float64 `json:"score,omitempty"`
	Feedback      string   `json:"feedback,omitempty"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
}

// AnswerMap maps question ID → submitted answer. Values stay raw because the
// shape varies by question type: string for MCQ/ORDERING/essays, an index→text
// map for multi-blank GAP_FILL, an ordered list for SORTABLE.
type AnswerMap map[string]json.RawMessage

type FeedbackMap map[string]QuestionFeedback

type Submission struct {
	ID                   uint           `gorm:"primarykey" json:"id"`
	UserID               uint           `json:"user_id" gorm:"not null;index"`
	AssignmentProgressID uint           `json:"assignment_progress_id" gorm:"not null;index"`
	AttemptNumber        int            `json:"attempt_number" gorm:"not null"`
	Answers              datatypes.JSON `json:"answers"`
	Score                *float64       `json:"score,omitempty"`
	Feedback             datatypes.JSON `json:"feedback,omitempty"`
	TeacherFeedback      *string        `json:"teacher_feedback,omitempty" gorm:"type:text"`
	GradedAt             *time.Time     `json:"graded_at,omitempty"`
	GradedByID           *uint          `json:"graded_by_id,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *Submission) AnswerPayload() (AnswerMap, error) {
	m := AnswerMap{}
	if len(s.Answers) == 0 {
		return m, nil
	}
	err := json.Unmarshal(s.Answers, &m)
	return m, err
}

func (s *Submission) SetAnswerPayload(m AnswerMap) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	s.Answers = datatypes.JSON(raw)
	return nil
}

func (s *Submission) FeedbackPayload() (FeedbackMap, error) {
	m := FeedbackMap{}
	if len(s.Feedback) == 0 {
		return m, nil
	}
	err := json.Unmarshal(s.Feedback, &m)
	return m, err
}

func (s *Submission) SetFeedbackPayload(m FeedbackMap) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	s.Feedback = datatypes.JSON(raw)
	return nil
}
