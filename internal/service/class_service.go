package service

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/examforge/internal/dto"
	"github.com/lshigami/examforge/internal/model"
	"github.com/lshigami/examforge/internal/repository"
	"github.com/rs/zerolog/log"
)

type ClassService interface {
	CreateClass(req dto.ClassCreateDTO) (*dto.ClassResponseDTO, error)
	GetClassesByTeacher(teacherID uint) ([]dto.ClassResponseDTO, error)
	DeleteClass(id uint) error
}

type classService struct {
	classRepo repository.ClassRepository
}

func NewClassService(classRepo repository.ClassRepository) ClassService {
	return &classService{classRepo: classRepo}
}

func (s *classService) CreateClass(req dto.ClassCreateDTO) (*dto.ClassResponseDTO, error) {
	class := model.Class{
		Name:        req.Name,
		Description: req.Description,
		TeacherID:   req.TeacherID,
	}
	if err := s.classRepo.Create(&class); err != nil {
		log.Error().Err(err).Msg("Failed to create class in database")
		return nil, fmt.Errorf("database error creating class: %w", err)
	}

	var resp dto.ClassResponseDTO
	if err := copier.Copy(&resp, &class); err != nil {
		return nil, fmt.Errorf("error preparing response data: %w", err)
	}
	return &resp, nil
}

func (s *classService) GetClassesByTeacher(teacherID uint) ([]dto.ClassResponseDTO, error) {
	classes, err := s.classRepo.FindAllByTeacher(teacherID)
	if err != nil {
		log.Error().Err(err).Uint("teacherID", teacherID).Msg("Failed to get classes from repository")
		return nil, fmt.Errorf("error fetching classes: %w", err)
	}
	var resp []dto.ClassResponseDTO
	if err := copier.Copy(&resp, &classes); err != nil {
		return nil, fmt.Errorf("error preparing response data: %w", err)
	}
	return resp, nil
}

func (s *classService) DeleteClass(id uint) error {
	if _, err := s.classRepo.FindByID(id); err != nil {
		return fmt.Errorf("class not found with ID %d: %w", id, err)
	}
	return s.classRepo.Delete(id)
}
