package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	AssignmentTypeLecture = "LECTURE"
	AssignmentTypeQuiz    = "QUIZ"
	AssignmentTypeTest    = "TEST"
	AssignmentTypeEssay   = "ESSAY"
)

type Assignment struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	ClassID     uint           `json:"class_id" gorm:"not null;index"`
	Title       string         `json:"title" gorm:"not null"`
	Type        string         `json:"type" gorm:"not null"` // "LECTURE", "QUIZ", "TEST", "ESSAY"
	Content     *string        `json:"content,omitempty" gorm:"type:text"`
	MaxAttempts int            `json:"max_attempts" gorm:"default:1"`
	OrderIndex  int            `json:"order_index" gorm:"not null;default:0"`
	Questions   []Question     `json:"questions,omitempty" gorm:"foreignKey:AssignmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
