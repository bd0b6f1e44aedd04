package repository

import (
	"github.com/lshigami/examforge/internal/model"
	"gorm.io/gorm"
)

type ClassRepository interface {
	Create(class *model.Class) error
	FindByID(id uint) (*model.Class, error)
	FindAllByTeacher(teacherID uint) ([]model.Class, error)
	Delete(id uint) error
}

type classRepository struct {
	db *gorm.DB
}

func NewClassRepository(db *gorm.DB) ClassRepository {
	return &classRepository{db: db}
}

func (r *classRepository) Create(class *model.Class) error {
	return r.db.Create(class).Error
}

func (r *classRepository) FindByID(id uint) (*model.Class, error) {
	var class model.Class
	if err := r.db.First(&class, id).Error; err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *classRepository) FindAllByTeacher(teacherID uint) ([]model.Class, error) {
	var classes []model.Class
	err := r.db.Where("teacher_id = ?", teacherID).Order("created_at desc").Find(&classes).Error
	return classes, err
}

// Delete cascades to assignments, their questions and progress rows inside
// one transaction.
func (r *classRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var assignmentIDs []uint
		if err := tx.Model(&model.Assignment{}).Where("class_id = ?", id).Pluck("id", &assignmentIDs).Error; err != nil {
			return err
		}
		if len(assignmentIDs) > 0 {
			if err := tx.Where("assignment_id IN ?", assignmentIDs).Delete(&model.Question{}).Error; err != nil {
				return err
			}
			if err := tx.Where("assignment_id IN ?", assignmentIDs).Delete(&model.AssignmentProgress{}).Error; err != nil {
				return err
			}
			if err := tx.Where("class_id = ?", id).Delete(&model.Assignment{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.Class{}, id).Error
	})
}
