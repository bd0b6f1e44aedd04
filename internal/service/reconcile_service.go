package service

import (
	"context"
	"strconv"
	"sync"

	"github.com/lshigami/examforge/internal/dto"
	"github.com/lshigami/examforge/internal/model"
	"github.com/lshigami/examforge/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// reconcileConcurrency bounds how many submission rows are repaired at once.
const reconcileConcurrency = 4

// ReconcileService is the out-of-band batch repair: it recomputes submission
// totals from previously stored per-question feedback for rows whose score
// was lost or never written. Idempotent and safe to re-run.
type ReconcileService interface {
	Reconcile(ctx context.Context, dryRun bool) (*dto.ReconcileReportDTO, error)
}

type reconcileService struct {
	submissionRepo repository.SubmissionRepository
	progressRepo   repository.ProgressRepository
	questionRepo   repository.QuestionRepository
	db             *gorm.DB
}

func NewReconcileService(
	submissionRepo repository.SubmissionRepository,
	progressRepo repository.ProgressRepository,
	questionRepo repository.QuestionRepository,
	db *gorm.DB,
) ReconcileService {
	return &reconcileService{
		submissionRepo: submissionRepo,
		progressRepo:   progressRepo,
		questionRepo:   questionRepo,
		db:             db,
	}
}

func (s *reconcileService) Reconcile(ctx context.Context, dryRun bool) (*dto.ReconcileReportDTO, error) {
	candidates, err := s.submissionRepo.FindNeedingReconciliation()
	if err != nil {
		return nil, err
	}

	report := dto.ReconcileReportDTO{DryRun: dryRun, Scanned: len(candidates)}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(reconcileConcurrency)
	for _, candidate := range candidates {
		submission := candidate
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			total, ok := s.recomputeTotal(&submission)
			if !ok {
				// Malformed rows are logged and skipped; one bad row must not
				// abort the batch.
				mu.Lock()
				report.Skipped++
				mu.Unlock()
				return nil
			}

			delta := dto.ReconcileDeltaDTO{
				SubmissionID: submission.ID,
				OldScore:     submission.Score,
				NewScore:     total,
			}
			if dryRun {
				mu.Lock()
				report.Updated++
				report.Deltas = append(report.Deltas, delta)
				mu.Unlock()
				return nil
			}

			if err := s.writeRecomputedScore(&submission, total); err != nil {
				log.Error().Err(err).Uint("submissionID", submission.ID).Msg("Reconcile: failed to write recomputed score")
				mu.Lock()
				report.Skipped++
				mu.Unlock()
				return nil
			}
			mu.Lock()
			report.Updated++
			report.Deltas = append(report.Deltas, delta)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().
		Bool("dryRun", dryRun).
		Int("scanned", report.Scanned).
		Int("updated", report.Updated).
		Int("skipped", report.Skipped).
		Msg("Score reconciliation finished")
	return &report, nil
}

// recomputeTotal rebuilds a submission's total from its stored feedback: an
// explicit per-question score wins, a bare isCorrect falls back to the
// question's full points, anything else contributes zero.
func (s *reconcileService) recomputeTotal(submission *model.Submission) (float64, bool) {
	feedback, err := submission.FeedbackPayload()
	if err != nil {
		log.Warn().Err(err).Uint("submissionID", submission.ID).Msg("Reconcile: feedback JSON did not parse, skipping row")
		return 0, false
	}
	if _, err := submission.AnswerPayload(); err != nil {
		log.Warn().Err(err).Uint("submissionID", submission.ID).Msg("Reconcile: answers JSON did not parse, skipping row")
		return 0, false
	}

	progress, err := s.progressRepo.FindByID(submission.AssignmentProgressID)
	if err != nil {
		log.Warn().Err(err).Uint("submissionID", submission.ID).Msg("Reconcile: parent progress not found, skipping row")
		return 0, false
	}
	questions, err := s.questionRepo.FindByAssignmentID(progress.AssignmentID)
	if err != nil {
		log.Warn().Err(err).Uint("submissionID", submission.ID).Msg("Reconcile: could not load assignment questions, skipping row")
		return 0, false
	}

	total := 0.0
	for _, question := range questions {
		entry, ok := feedback[strconv.FormatUint(uint64(question.ID), 10)]
		if !ok {
			continue
		}
		switch {
		case entry.Score != nil:
			total += *entry.Score
		case entry.IsCorrect != nil && *entry.IsCorrect:
			total += question.Points
		}
	}
	return total, true
}

// writeRecomputedScore updates the submission and its progress record's best
// score atomically; each row's repair is its own transaction.
func (s *reconcileService) writeRecomputedScore(submission *model.Submission, total float64) error {
	progress, err := s.progressRepo.FindByID(submission.AssignmentProgressID)
	if err != nil {
		return err
	}
	siblings, err := s.submissionRepo.FindByProgressID(progress.ID)
	if err != nil {
		return err
	}
	best := total
	for _, sib := range siblings {
		if sib.ID == submission.ID {
			continue
		}
		if sib.Score != nil && *sib.Score > best {
			best = *sib.Score
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Submission{}).
			Where("id = ?", submission.ID).
			Update("score", total).Error; err != nil {
			return err
		}
		return tx.Model(&model.AssignmentProgress{}).
			Where("id = ?", progress.ID).
			Update("score", best).Error
	})
}
