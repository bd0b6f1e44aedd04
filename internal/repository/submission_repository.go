package repository

import (
	"github.com/lshigami/examforge/internal/model"
	"gorm.io/gorm"
)

type SubmissionRepository interface {
	Create(submission *model.Submission) error
	FindByID(id uint) (*model.Submission, error)
	FindByProgressID(progressID uint) ([]model.Submission, error)
	Update(submission *model.Submission) error
	FindNeedingReconciliation() ([]model.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(submission *model.Submission) error {
	return r.db.Create(submission).Error
}

func (r *submissionRepository) FindByID(id uint) (*model.Submission, error) {
	var submission model.Submission
	if err := r.db.First(&submission, id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) FindByProgressID(progressID uint) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.Where("assignment_progress_id = ?", progressID).
		Order("attempt_number ASC").
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepository) Update(submission *model.Submission) error {
	return r.db.Save(submission).Error
}

// FindNeedingReconciliation selects rows whose stored score was lost or never
// written but whose per-question feedback survived.
func (r *submissionRepository) FindNeedingReconciliation() ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.Where("(score IS NULL OR score = 0) AND feedback IS NOT NULL").
		Order("id ASC").
		Find(&submissions).Error
	return submissions, err
}
