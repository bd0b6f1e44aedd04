package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	QuestionTypeMCQ      = "MCQ"
	QuestionTypeGapFill  = "GAP_FILL"
	QuestionTypeOrdering = "ORDERING"
	QuestionTypeEssay    = "ESSAY"
	QuestionTypeWriting  = "WRITING"
	QuestionTypeSpeaking = "SPEAKING"
	QuestionTypeSortable = "SORTABLE"
)

// SubjectiveType reports whether the question type needs AI-delegated grading
// rather than local answer-key comparison.
func SubjectiveType(questionType string) bool {
	switch questionType {
	case QuestionTypeEssay, QuestionTypeWriting, QuestionTypeSpeaking:
		return true
	}
	return false
}

// QuestionContent is the persisted content JSON payload of a Question.
// Section identity is embedded per-question rather than foreign-keyed, so the
// display layer can treat a question as self-describing without a join.
type QuestionContent struct {
	Text               string   `json:"text"`
	Options            []string `json:"options,omitempty"`
	Items              []string `json:"items,omitempty"`
	SectionTitle       string   `json:"sectionTitle"`
	SectionType        string   `json:"sectionType"`
	Passage            string   `json:"passage,omitempty"`
	PassageTranslation string   `json:"passageTranslation,omitempty"`
	SectionAudio       string   `json:"sectionAudio,omitempty"`
	SectionImages      []string `json:"sectionImages,omitempty"`
}

type Question struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	AssignmentID  uint           `json:"assignment_id" gorm:"not null;index"`
	Type          string         `json:"type" gorm:"not null"`
	Content       datatypes.JSON `json:"content" gorm:"not null"`
	CorrectAnswer string         `json:"correct_answer" gorm:"type:text"`
	Points        float64        `json:"points" gorm:"default:1"`
	OrderIndex    int            `json:"order_index" gorm:"not null;index"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// ContentPayload decodes the content JSON column. A corrupt payload yields the
// zero value; callers treat that as an untitled standalone question.
func (q *Question) ContentPayload() QuestionContent {
	var c QuestionContent
	if len(q.Content) > 0 {
		_ = json.Unmarshal(q.Content, &c)
	}
	return c
}

// SetContentPayload encodes and stores the content JSON column.
func (q *Question) SetContentPayload(c QuestionContent) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	q.Content = datatypes.JSON(raw)
	return nil
}
