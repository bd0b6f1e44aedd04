package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	ProgressStatusInProgress     = "IN_PROGRESS"
	ProgressStatusPendingGrading = "PENDING_GRADING"
	ProgressStatusCompleted      = "COMPLETED"
)

// AssignmentProgress is the per-student, per-assignment record spanning all
// attempts. Score is the best score across its submissions, not the latest.
type AssignmentProgress struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	UserID       uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_progress_user_assignment"`
	AssignmentID uint           `json:"assignment_id" gorm:"not null;uniqueIndex:idx_progress_user_assignment"`
	Status       string         `json:"status" gorm:"not null;default:'IN_PROGRESS'"`
	Score        *float64       `json:"score,omitempty"`
	Submissions  []Submission   `json:"submissions,omitempty" gorm:"foreignKey:AssignmentProgressID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
