package repository

import (
	"errors"

	"github.com/lshigami/examforge/internal/model"
	"gorm.io/gorm"
)

type ProgressRepository interface {
	Create(progress *model.AssignmentProgress) error
	FindByID(id uint) (*model.AssignmentProgress, error)
	FindByUserAndAssignment(userID, assignmentID uint) (*model.AssignmentProgress, error)
	FindOrCreate(userID, assignmentID uint) (*model.AssignmentProgress, error)
	FindWithSubmissions(id uint) (*model.AssignmentProgress, error)
	Update(progress *model.AssignmentProgress) error
}

type progressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Create(progress *model.AssignmentProgress) error {
	return r.db.Create(progress).Error
}

func (r *progressRepository) FindByID(id uint) (*model.AssignmentProgress, error) {
	var progress model.AssignmentProgress
	if err := r.db.First(&progress, id).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *progressRepository) FindByUserAndAssignment(userID, assignmentID uint) (*model.AssignmentProgress, error) {
	var progress model.AssignmentProgress
	err := r.db.Where("user_id = ? AND assignment_id = ?", userID, assignmentID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// FindOrCreate lazily creates the progress record on a student's first attempt.
func (r *progressRepository) FindOrCreate(userID, assignmentID uint) (*model.AssignmentProgress, error) {
	progress, err := r.FindByUserAndAssignment(userID, assignmentID)
	if err == nil {
		return progress, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	created := &model.AssignmentProgress{
		UserID:       userID,
		AssignmentID: assignmentID,
		Status:       model.ProgressStatusInProgress,
	}
	if err := r.db.Create(created).Error; err != nil {
		return nil, err
	}
	return created, nil
}

func (r *progressRepository) FindWithSubmissions(id uint) (*model.AssignmentProgress, error) {
	var progress model.AssignmentProgress
	err := r.db.Preload("Submissions", func(db *gorm.DB) *gorm.DB {
		return db.Order("submissions.attempt_number ASC")
	}).First(&progress, id).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *progressRepository) Update(progress *model.AssignmentProgress) error {
	return r.db.Save(progress).Error
}
