package service

import (
	"context"
	"fmt"

	"github.com/lshigami/examforge/internal/repository"
	"github.com/rs/zerolog/log"
)

// ImportRequest carries one document to digitize into an assignment's
// question bank. DocumentBytes is optional (scanned PDFs, images); the text
// is always sent as part of the prompt.
type ImportRequest struct {
	Mode          ImportMode
	DocumentText  string
	DocumentBytes []byte
	MIMEType      string
}

// ImportResult reports what the materializer produced. Skipped questions are
// a reported, non-fatal condition.
type ImportResult struct {
	CreatedCount int
	SkippedCount int
}

// ImportService runs the full digitization pipeline: extraction call,
// normalization, materialization, then one batch insert.
type ImportService interface {
	ImportQuestions(ctx context.Context, assignmentID uint, req ImportRequest) (*ImportResult, error)
}

type importService struct {
	assignmentRepo repository.AssignmentRepository
	questionRepo   repository.QuestionRepository
	ai             AIClient
}

func NewImportService(
	assignmentRepo repository.AssignmentRepository,
	questionRepo repository.QuestionRepository,
	ai AIClient,
) ImportService {
	return &importService{
		assignmentRepo: assignmentRepo,
		questionRepo:   questionRepo,
		ai:             ai,
	}
}

func (s *importService) ImportQuestions(ctx context.Context, assignmentID uint, req ImportRequest) (*ImportResult, error) {
	assignment, err := s.assignmentRepo.FindByID(assignmentID)
	if err != nil {
		log.Error().Err(err).Uint("assignmentID", assignmentID).Msg("ImportQuestions: assignment not found")
		return nil, fmt.Errorf("assignment not found with ID %d: %w", assignmentID, err)
	}

	prompt := buildExtractionPrompt(req.Mode, req.DocumentText)
	var attachment *Blob
	if len(req.DocumentBytes) > 0 {
		attachment = &Blob{MIMEType: req.MIMEType, Data: req.DocumentBytes}
	}

	raw, err := s.ai.Generate(ctx, prompt, attachment)
	if err != nil {
		// Already an *ExtractionUpstreamError; retry policy is the caller's.
		return nil, err
	}

	sections, err := NormalizeExtraction(raw, req.Mode)
	if err != nil {
		return nil, err
	}

	rows, skipped := MaterializeSections(sections, assignment.ID)
	if len(rows) == 0 {
		log.Warn().Uint("assignmentID", assignment.ID).Int("skipped", skipped).Msg("ImportQuestions: extraction produced no usable questions")
		return nil, ErrNoQuestionsExtracted
	}

	// Imported questions are appended after whatever the assignment already has.
	existing, err := s.questionRepo.FindByAssignmentID(assignment.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading existing questions for assignment %d: %w", assignment.ID, err)
	}
	offset := 0
	for _, q := range existing {
		if q.OrderIndex >= offset {
			offset = q.OrderIndex + 1
		}
	}
	for i := range rows {
		rows[i].OrderIndex += offset
	}

	if err := s.questionRepo.CreateBatch(rows); err != nil {
		log.Error().Err(err).Uint("assignmentID", assignment.ID).Int("count", len(rows)).Msg("ImportQuestions: batch insert failed")
		return nil, fmt.Errorf("error inserting extracted questions: %w", err)
	}

	log.Info().Uint("assignmentID", assignment.ID).Int("created", len(rows)).Int("skipped", skipped).Msg("Question import completed")
	return &ImportResult{CreatedCount: len(rows), SkippedCount: skipped}, nil
}
