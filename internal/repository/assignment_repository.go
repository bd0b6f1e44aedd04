package repository

import (
	"github.com/lshigami/examforge/internal/model"
	"gorm.io/gorm"
)

type AssignmentRepository interface {
	Create(assignment *model.Assignment) error
	FindByID(id uint) (*model.Assignment, error)
	FindByIDWithQuestions(id uint) (*model.Assignment, error)
	FindAllByClass(classID uint) ([]model.Assignment, error)
	Update(assignment *model.Assignment) error
	Delete(id uint) error
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(assignment *model.Assignment) error {
	return r.db.Create(assignment).Error
}

func (r *assignmentRepository) FindByID(id uint) (*model.Assignment, error) {
	var assignment model.Assignment
	if err := r.db.First(&assignment, id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) FindByIDWithQuestions(id uint) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.order_index ASC, questions.created_at ASC")
	}).First(&assignment, id).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) FindAllByClass(classID uint) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.Where("class_id = ?", classID).Order("order_index ASC, created_at ASC").Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepository) Update(assignment *model.Assignment) error {
	return r.db.Save(assignment).Error
}

func (r *assignmentRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assignment_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("assignment_id = ?", id).Delete(&model.AssignmentProgress{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Assignment{}, id).Error
	})
}
