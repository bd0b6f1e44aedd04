package service

import (
	"fmt"

	"github.com/lshigami/examforge/internal/dto"
	"github.com/lshigami/examforge/internal/model"
	"github.com/lshigami/examforge/internal/repository"
	"github.com/rs/zerolog/log"
)

// QuestionService covers manual authoring alongside the AI import pipeline.
type QuestionService interface {
	CreateQuestion(assignmentID uint, req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error)
	UpdateQuestion(id uint, req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error)
	DeleteQuestion(id uint) error
}

type questionService struct {
	questionRepo   repository.QuestionRepository
	assignmentRepo repository.AssignmentRepository
}

func NewQuestionService(questionRepo repository.QuestionRepository, assignmentRepo repository.AssignmentRepository) QuestionService {
	return &questionService{questionRepo: questionRepo, assignmentRepo: assignmentRepo}
}

func (s *questionService) CreateQuestion(assignmentID uint, req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error) {
	if _, err := s.assignmentRepo.FindByID(assignmentID); err != nil {
		log.Warn().Err(err).Uint("assignmentID", assignmentID).Msg("CreateQuestion: invalid assignment ID")
		return nil, fmt.Errorf("assignment not found with ID %d: %w", assignmentID, err)
	}
	if req.Type == model.QuestionTypeMCQ && len(req.Options) == 0 {
		return nil, fmt.Errorf("options are required for MCQ questions")
	}
	if req.Type == model.QuestionTypeSortable && len(req.Items) == 0 {
		return nil, fmt.Errorf("items are required for SORTABLE questions")
	}

	existing, err := s.questionRepo.FindByAssignmentID(assignmentID)
	if err != nil {
		return nil, fmt.Errorf("error loading existing questions: %w", err)
	}
	orderIndex := 0
	for _, q := range existing {
		if q.OrderIndex >= orderIndex {
			orderIndex = q.OrderIndex + 1
		}
	}

	points := req.Points
	if points <= 0 {
		points = 1
	}
	sectionType := req.SectionType
	if sectionType == "" {
		sectionType = SectionTypeStandalone
	}

	question := model.Question{
		AssignmentID:  assignmentID,
		Type:          req.Type,
		CorrectAnswer: req.CorrectAnswer,
		Points:        points,
		OrderIndex:    orderIndex,
	}
	content := model.QuestionContent{
		Text:               req.Text,
		Options:            req.Options,
		Items:              req.Items,
		SectionTitle:       req.SectionTitle,
		SectionType:        sectionType,
		Passage:            req.Passage,
		PassageTranslation: req.PassageTranslation,
		SectionAudio:       req.SectionAudio,
		SectionImages:      req.SectionImages,
	}
	if err := question.SetContentPayload(content); err != nil {
		return nil, fmt.Errorf("error encoding question content: %w", err)
	}
	if err := s.questionRepo.Create(&question); err != nil {
		log.Error().Err(err).Msg("Failed to create question in database")
		return nil, fmt.Errorf("database error creating question: %w", err)
	}
	return questionToDTO(&question), nil
}

func (s *questionService) UpdateQuestion(id uint, req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error) {
	question, err := s.questionRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("question not found with ID %d: %w", id, err)
	}

	question.Type = req.Type
	question.CorrectAnswer = req.CorrectAnswer
	if req.Points > 0 {
		question.Points = req.Points
	}

	content := question.ContentPayload()
	content.Text = req.Text
	content.Options = req.Options
	content.Items = req.Items
	if req.SectionTitle != "" {
		content.SectionTitle = req.SectionTitle
	}
	if req.SectionType != "" {
		content.SectionType = req.SectionType
	}
	if req.Passage != "" {
		content.Passage = req.Passage
	}
	if req.PassageTranslation != "" {
		content.PassageTranslation = req.PassageTranslation
	}
	if req.SectionAudio != "" {
		content.SectionAudio = req.SectionAudio
	}
	if len(req.SectionImages) > 0 {
		content.SectionImages = req.SectionImages
	}
	if err := question.SetContentPayload(content); err != nil {
		return nil, fmt.Errorf("error encoding question content: %w", err)
	}

	if err := s.questionRepo.Update(question); err != nil {
		return nil, fmt.Errorf("database error updating question %d: %w", id, err)
	}
	return questionToDTO(question), nil
}

func (s *questionService) DeleteQuestion(id uint) error {
	if _, err := s.questionRepo.FindByID(id); err != nil {
		return fmt.Errorf("question not found with ID %d: %w", id, err)
	}
	return s.questionRepo.Delete(id)
}

func questionToDTO(question *model.Question) *dto.QuestionResponseDTO {
	content := question.ContentPayload()
	return &dto.QuestionResponseDTO{
		ID:            question.ID,
		AssignmentID:  question.AssignmentID,
		Type:          question.Type,
		Text:          content.Text,
		Options:       content.Options,
		Items:         content.Items,
		CorrectAnswer: question.CorrectAnswer,
		Points:        question.Points,
		OrderIndex:    question.OrderIndex,
	}
}
