package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/examforge/internal/dto"
	"github.com/lshigami/examforge/internal/model"
	"github.com/lshigami/examforge/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SubmissionService handles a student's attempts: grading a submitted answer
// set, enforcing the attempt limit, and keeping the progress record's best
// score and status current.
type SubmissionService interface {
	SubmitAssignment(ctx context.Context, assignmentID uint, req dto.SubmissionCreateDTO) (*dto.SubmissionDetailDTO, error)
	GetSubmission(id uint) (*dto.SubmissionDetailDTO, error)
	GetUserSubmissions(assignmentID, userID uint) ([]dto.SubmissionSummaryDTO, error)
	GradeManually(submissionID uint, req dto.TeacherGradeDTO) (*dto.SubmissionDetailDTO, error)
}

type submissionService struct {
	assignmentRepo repository.AssignmentRepository
	questionRepo   repository.QuestionRepository
	progressRepo   repository.ProgressRepository
	submissionRepo repository.SubmissionRepository
	grading        GradingService
	db             *gorm.DB
}

func NewSubmissionService(
	assignmentRepo repository.AssignmentRepository,
	questionRepo repository.QuestionRepository,
	progressRepo repository.ProgressRepository,
	submissionRepo repository.SubmissionRepository,
	grading GradingService,
	db *gorm.DB,
) SubmissionService {
	return &submissionService{
		assignmentRepo: assignmentRepo,
		questionRepo:   questionRepo,
		progressRepo:   progressRepo,
		submissionRepo: submissionRepo,
		grading:        grading,
		db:             db,
	}
}

// questionGradingResult carries one question's outcome back from the grading
// goroutines.
type questionGradingResult struct {
	questionID uint
	result     GradeResult
}

func (s *submissionService) SubmitAssignment(ctx context.Context, assignmentID uint, req dto.SubmissionCreateDTO) (*dto.SubmissionDetailDTO, error) {
	assignment, err := s.assignmentRepo.FindByIDWithQuestions(assignmentID)
	if err != nil {
		log.Error().Err(err).Uint("assignmentID", assignmentID).Msg("SubmitAssignment: assignment not found")
		return nil, fmt.Errorf("assignment not found with ID %d: %w", assignmentID, err)
	}
	if len(assignment.Questions) == 0 {
		return nil, fmt.Errorf("assignment %d has no questions, submission is not possible", assignmentID)
	}

	progress, err := s.progressRepo.FindOrCreate(req.UserID, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("error loading assignment progress: %w", err)
	}

	previous, err := s.submissionRepo.FindByProgressID(progress.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading previous submissions: %w", err)
	}
	attemptNumber := len(previous) + 1
	if assignment.MaxAttempts > 0 && attemptNumber > assignment.MaxAttempts {
		return nil, fmt.Errorf("%w (%d of %d)", ErrMaxAttemptsReached, attemptNumber, assignment.MaxAttempts)
	}

	// Fan out grading per answered question. Each call is independent; the
	// aggregation below waits for every result before anything is persisted,
	// so a partially graded submission is never visible.
	resultsChan := make(chan questionGradingResult, len(assignment.Questions))
	answered := 0
	for _, question := range assignment.Questions {
		answer, ok := req.Answers[strconv.FormatUint(uint64(question.ID), 10)]
		if !ok {
			continue
		}
		answered++
		go func(q model.Question, a json.RawMessage) {
			resultsChan <- questionGradingResult{
				questionID: q.ID,
				result:     s.grading.GradeQuestion(ctx, q, a),
			}
		}(question, answer)
	}
	if answered == 0 {
		return nil, fmt.Errorf("no answers match the questions of assignment %d", assignmentID)
	}

	feedback := model.FeedbackMap{}
	totalScore := 0.0
	anyDegraded := false
	for i := 0; i < answered; i++ {
		r := <-resultsChan
		entry := model.QuestionFeedback{
			IsCorrect: r.result.IsCorrect,
			Score:     &r.result.Score,
			Feedback:  r.result.Feedback,
		}
		feedback[strconv.FormatUint(uint64(r.questionID), 10)] = entry
		totalScore += r.result.Score
		if r.result.Degraded {
			anyDegraded = true
		}
	}
	close(resultsChan)

	// Answer keys of objective questions ride along for review UI.
	questionByID := make(map[string]model.Question, len(assignment.Questions))
	totalPoints := 0.0
	for _, q := range assignment.Questions {
		questionByID[strconv.FormatUint(uint64(q.ID), 10)] = q
		totalPoints += q.Points
	}
	for id, entry := range feedback {
		if q, ok := questionByID[id]; ok && !model.SubjectiveType(q.Type) {
			entry.CorrectAnswer = q.CorrectAnswer
			feedback[id] = entry
		}
	}

	submission := model.Submission{
		UserID:               req.UserID,
		AssignmentProgressID: progress.ID,
		AttemptNumber:        attemptNumber,
	}
	if err := submission.SetAnswerPayload(model.AnswerMap(req.Answers)); err != nil {
		return nil, fmt.Errorf("error encoding answers: %w", err)
	}
	if err := submission.SetFeedbackPayload(feedback); err != nil {
		return nil, fmt.Errorf("error encoding feedback: %w", err)
	}
	submission.Score = &totalScore
	now := time.Now()
	if !anyDegraded {
		submission.GradedAt = &now
	}

	// The gradebook surfaces the best score across attempts, not the latest.
	best := bestScore(previous, totalScore)
	status := model.ProgressStatusCompleted
	if anyDegraded {
		status = model.ProgressStatusPendingGrading
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&submission).Error; err != nil {
			return fmt.Errorf("failed to create submission record: %w", err)
		}
		return tx.Model(&model.AssignmentProgress{}).
			Where("id = ?", progress.ID).
			Updates(map[string]any{"score": best, "status": status}).Error
	})
	if err != nil {
		log.Error().Err(err).Uint("assignmentID", assignmentID).Uint("userID", req.UserID).Msg("SubmitAssignment: transaction failed")
		return nil, err
	}

	log.Info().
		Uint("submissionID", submission.ID).
		Int("attempt", attemptNumber).
		Float64("score", totalScore).
		Bool("degraded", anyDegraded).
		Msg("Submission graded")

	resp := s.toDetailDTO(&submission, totalPoints)
	resp.ProgressStatus = status
	resp.ProgressScore = &best
	return resp, nil
}

// bestScore returns the highest score across all previous attempts and the
// current one. Attempts without a recorded score are ignored.
func bestScore(previous []model.Submission, current float64) float64 {
	best := current
	for _, prev := range previous {
		if prev.Score != nil && *prev.Score > best {
			best = *prev.Score
		}
	}
	return best
}

func (s *submissionService) GetSubmission(id uint) (*dto.SubmissionDetailDTO, error) {
	submission, err := s.submissionRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("submission not found with ID %d: %w", id, err)
	}

	var totalPoints float64
	progress, err := s.progressRepo.FindByID(submission.AssignmentProgressID)
	if err == nil {
		if questions, qErr := s.questionRepo.FindByAssignmentID(progress.AssignmentID); qErr == nil {
			for _, q := range questions {
				totalPoints += q.Points
			}
		}
	}

	resp := s.toDetailDTO(submission, totalPoints)
	if progress != nil {
		resp.ProgressStatus = progress.Status
		resp.ProgressScore = progress.Score
	}
	return resp, nil
}

func (s *submissionService) GetUserSubmissions(assignmentID, userID uint) ([]dto.SubmissionSummaryDTO, error) {
	progress, err := s.progressRepo.FindByUserAndAssignment(userID, assignmentID)
	if err != nil {
		// No progress record yet means no attempts yet.
		return []dto.SubmissionSummaryDTO{}, nil
	}
	submissions, err := s.submissionRepo.FindByProgressID(progress.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading submissions: %w", err)
	}

	summaries := make([]dto.SubmissionSummaryDTO, 0, len(submissions))
	for _, sub := range submissions {
		var summary dto.SubmissionSummaryDTO
		if err := copier.Copy(&summary, &sub); err != nil {
			log.Error().Err(err).Uint("submissionID", sub.ID).Msg("GetUserSubmissions: failed to copy submission to summary DTO")
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// GradeManually records a teacher's grading pass: feedback, optional score
// override, and completion of a pending progress record.
func (s *submissionService) GradeManually(submissionID uint, req dto.TeacherGradeDTO) (*dto.SubmissionDetailDTO, error) {
	submission, err := s.submissionRepo.FindByID(submissionID)
	if err != nil {
		return nil, fmt.Errorf("submission not found with ID %d: %w", submissionID, err)
	}
	progress, err := s.progressRepo.FindByID(submission.AssignmentProgressID)
	if err != nil {
		return nil, fmt.Errorf("error loading progress for submission %d: %w", submissionID, err)
	}

	now := time.Now()
	submission.TeacherFeedback = &req.TeacherFeedback
	submission.GradedAt = &now
	submission.GradedByID = &req.GradedByID
	if req.Score != nil {
		submission.Score = req.Score
	}

	siblings, err := s.submissionRepo.FindByProgressID(progress.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading sibling submissions: %w", err)
	}
	best := 0.0
	for _, sib := range siblings {
		score := sib.Score
		if sib.ID == submission.ID {
			score = submission.Score
		}
		if score != nil && *score > best {
			best = *score
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(submission).Error; err != nil {
			return err
		}
		return tx.Model(&model.AssignmentProgress{}).
			Where("id = ?", progress.ID).
			Updates(map[string]any{"score": best, "status": model.ProgressStatusCompleted}).Error
	})
	if err != nil {
		log.Error().Err(err).Uint("submissionID", submissionID).Msg("GradeManually: transaction failed")
		return nil, err
	}

	resp := s.toDetailDTO(submission, 0)
	resp.ProgressStatus = model.ProgressStatusCompleted
	resp.ProgressScore = &best
	return resp, nil
}

func (s *submissionService) toDetailDTO(submission *model.Submission, totalPoints float64) *dto.SubmissionDetailDTO {
	resp := dto.SubmissionDetailDTO{
		ID:                   submission.ID,
		UserID:               submission.UserID,
		AssignmentProgressID: submission.AssignmentProgressID,
		AttemptNumber:        submission.AttemptNumber,
		Score:                submission.Score,
		TotalPoints:          totalPoints,
		TeacherFeedback:      submission.TeacherFeedback,
		GradedAt:             submission.GradedAt,
		GradedByID:           submission.GradedByID,
		CreatedAt:            submission.CreatedAt,
	}
	if feedback, err := submission.FeedbackPayload(); err == nil && len(feedback) > 0 {
		resp.Feedback = feedback
	}
	return &resp
}
