package service

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/examforge/internal/dto"
	"github.com/lshigami/examforge/internal/model"
	"github.com/lshigami/examforge/internal/repository"
	"github.com/rs/zerolog/log"
)

type AssignmentService interface {
	CreateAssignment(classID uint, req dto.AssignmentCreateDTO) (*dto.AssignmentResponseDTO, error)
	GetAssignmentsByClass(classID uint) ([]dto.AssignmentResponseDTO, error)
	GetAssignmentDetail(id uint) (*dto.AssignmentDetailDTO, error)
	DeleteAssignment(id uint) error
}

type assignmentService struct {
	classRepo      repository.ClassRepository
	assignmentRepo repository.AssignmentRepository
	sections       SectionService
}

func NewAssignmentService(
	classRepo repository.ClassRepository,
	assignmentRepo repository.AssignmentRepository,
	sections SectionService,
) AssignmentService {
	return &assignmentService{
		classRepo:      classRepo,
		assignmentRepo: assignmentRepo,
		sections:       sections,
	}
}

func (s *assignmentService) CreateAssignment(classID uint, req dto.AssignmentCreateDTO) (*dto.AssignmentResponseDTO, error) {
	if _, err := s.classRepo.FindByID(classID); err != nil {
		log.Warn().Err(err).Uint("classID", classID).Msg("CreateAssignment: invalid class ID")
		return nil, fmt.Errorf("class not found with ID %d: %w", classID, err)
	}

	maxAttempts := req.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	assignment := model.Assignment{
		ClassID:     classID,
		Title:       req.Title,
		Type:        req.Type,
		Content:     req.Content,
		MaxAttempts: maxAttempts,
		OrderIndex:  req.OrderIndex,
	}
	if err := s.assignmentRepo.Create(&assignment); err != nil {
		log.Error().Err(err).Msg("Failed to create assignment in database")
		return nil, fmt.Errorf("database error creating assignment: %w", err)
	}

	var resp dto.AssignmentResponseDTO
	if err := copier.Copy(&resp, &assignment); err != nil {
		return nil, fmt.Errorf("error preparing response data: %w", err)
	}
	return &resp, nil
}

func (s *assignmentService) GetAssignmentsByClass(classID uint) ([]dto.AssignmentResponseDTO, error) {
	assignments, err := s.assignmentRepo.FindAllByClass(classID)
	if err != nil {
		return nil, fmt.Errorf("error fetching assignments for class %d: %w", classID, err)
	}
	var resp []dto.AssignmentResponseDTO
	if err := copier.Copy(&resp, &assignments); err != nil {
		return nil, fmt.Errorf("error preparing response data: %w", err)
	}
	return resp, nil
}

// GetAssignmentDetail returns the assignment with its questions grouped back
// into display sections by the scan in GroupQuestions.
func (s *assignmentService) GetAssignmentDetail(id uint) (*dto.AssignmentDetailDTO, error) {
	assignment, err := s.assignmentRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("assignment not found with ID %d: %w", id, err)
	}

	groups, err := s.sections.GetSections(id)
	if err != nil {
		return nil, err
	}

	var resp dto.AssignmentDetailDTO
	if err := copier.Copy(&resp.AssignmentResponseDTO, assignment); err != nil {
		return nil, fmt.Errorf("error preparing response data: %w", err)
	}
	resp.Sections = GroupsToDTO(groups)
	return &resp, nil
}

func (s *assignmentService) DeleteAssignment(id uint) error {
	if _, err := s.assignmentRepo.FindByID(id); err != nil {
		return fmt.Errorf("assignment not found with ID %d: %w", id, err)
	}
	return s.assignmentRepo.Delete(id)
}

// GroupsToDTO maps reconstructed question groups to the section response
// shape, lifting the embedded content payload fields into the question DTO.
func GroupsToDTO(groups []QuestionGroup) []dto.SectionResponseDTO {
	sections := make([]dto.SectionResponseDTO, 0, len(groups))
	for _, g := range groups {
		section := dto.SectionResponseDTO{
			Title:              g.Title,
			Type:               g.Type,
			Passage:            g.Passage,
			PassageTranslation: g.PassageTranslation,
			SectionAudio:       g.SectionAudio,
			SectionImages:      g.SectionImages,
			Questions:          make([]dto.QuestionResponseDTO, 0, len(g.Questions)),
		}
		for _, q := range g.Questions {
			content := q.ContentPayload()
			section.Questions = append(section.Questions, dto.QuestionResponseDTO{
				ID:            q.ID,
				AssignmentID:  q.AssignmentID,
				Type:          q.Type,
				Text:          content.Text,
				Options:       content.Options,
				Items:         content.Items,
				CorrectAnswer: q.CorrectAnswer,
				Points:        q.Points,
				OrderIndex:    q.OrderIndex,
			})
		}
		sections = append(sections, section)
	}
	return sections
}
