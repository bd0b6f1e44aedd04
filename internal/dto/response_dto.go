package dto

import (
	"time"

	"github.com/lshigami/examforge/internal/model"
)

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type ClassResponseDTO struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	TeacherID   uint      `json:"teacher_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type AssignmentResponseDTO struct {
	ID          uint      `json:"id"`
	ClassID     uint      `json:"class_id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	Content     *string   `json:"content,omitempty"`
	MaxAttempts int       `json:"max_attempts"`
	OrderIndex  int       `json:"order_index"`
	CreatedAt   time.Time `json:"created_at"`
}

type QuestionResponseDTO struct {
	ID            uint     `json:"id"`
	AssignmentID  uint     `json:"assignment_id"`
	Type          string   `json:"type"`
	Text          string   `json:"text"`
	Options       []string `json:"options,omitempty"`
	Items         []string `json:"items,omitempty"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
	Points        float64  `json:"points"`
	OrderIndex    int      `json:"order_index"`
}

// SectionResponseDTO is one reconstructed section for authoring-time display.
type SectionResponseDTO struct {
	Title              string                `json:"title"`
	Type               string                `json:"type"`
	Passage            string                `json:"passage,omitempty"`
	PassageTranslation string                `json:"passage_translation,omitempty"`
	SectionAudio       string                `json:"section_audio,omitempty"`
	SectionImages      []string              `json:"section_images,omitempty"`
	Questions          []QuestionResponseDTO `json:"questions"`
}

// AssignmentDetailDTO is the assignment plus its grouped sections.
type AssignmentDetailDTO struct {
	AssignmentResponseDTO
	Sections []SectionResponseDTO `json:"sections"`
}

type ImportResultDTO struct {
	CreatedCount int `json:"created_count"`
	SkippedCount int `json:"skipped_count"`
}

type ReorderResultDTO struct {
	ChangedRows int `json:"changed_rows"`
}

type SubmissionDetailDTO struct {
	ID                   uint                              `json:"id"`
	UserID               uint                              `json:"user_id"`
	AssignmentProgressID uint                              `json:"assignment_progress_id"`
	AttemptNumber        int                               `json:"attempt_number"`
	Score                *float64                          `json:"score,omitempty"`
	TotalPoints          float64                           `json:"total_points"`
	Feedback             map[string]model.QuestionFeedback `json:"feedback,omitempty"`
	TeacherFeedback      *string                           `json:"teacher_feedback,omitempty"`
	GradedAt             *time.Time                        `json:"graded_at,omitempty"`
	GradedByID           *uint                             `json:"graded_by_id,omitempty"`
	ProgressStatus       string                            `json:"progress_status,omitempty"`
	ProgressScore        *float64                          `json:"progress_score,omitempty"`
	CreatedAt            time.Time                         `json:"created_at"`
}

type SubmissionSummaryDTO struct {
	ID            uint       `json:"id"`
	AttemptNumber int        `json:"attempt_number"`
	Score         *float64   `json:"score,omitempty"`
	GradedAt      *time.Time `json:"graded_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type ReconcileDeltaDTO struct {
	SubmissionID uint     `json:"submission_id"`
	OldScore     *float64 `json:"old_score,omitempty"`
	NewScore     float64  `json:"new_score"`
}

type ReconcileReportDTO struct {
	DryRun  bool                `json:"dry_run"`
	Scanned int                 `json:"scanned"`
	Updated int                 `json:"updated"`
	Skipped int                 `json:"skipped"`
	Deltas  []ReconcileDeltaDTO `json:"deltas,omitempty"`
}
