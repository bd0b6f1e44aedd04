package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examforge/internal/dto"
	"github.com/lshigami/examforge/internal/service"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AdminGradingController struct {
	submissionService service.SubmissionService
	reconcileService  service.ReconcileService
}

func NewAdminGradingController(submissionService service.SubmissionService, reconcileService service.ReconcileService) *AdminGradingController {
	return &AdminGradingController{
		submissionService: submissionService,
		reconcileService:  reconcileService,
	}
}

// GradeSubmission godoc
// @Summary (Admin) Manually grade a submission
// @Description Teacher overrides or completes the grading of one submission. The progress row is recomputed to the best score across attempts.
// @Tags Admin - Grading
// @Accept json
// @Produce json
// @Param submission_id path int true "Submission ID"
// @Param grade_data body dto.TeacherGradeDTO true "Score and feedback from the teacher"
// @Success 200 {object} dto.SubmissionDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 404 {object} dto.ErrorResponse "Submission not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/submissions/{submission_id}/grade [post]
func (c *AdminGradingController) GradeSubmission(ctx *gin.Context) {
	submissionIDStr := ctx.Param("submission_id")
	submissionID, err := strconv.ParseUint(submissionIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Submission ID format"})
		return
	}

	var req dto.TeacherGradeDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin GradeSubmission: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	detail, err := c.submissionService.GradeManually(uint(submissionID), req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Submission not found"})
			return
		}
		log.Error().Err(err).Uint64("submissionID", submissionID).Msg("Admin GradeSubmission: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to grade submission", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// Reconcile godoc
// @Summary (Admin) Recompute scores for submissions with missing totals
// @Description Scans submissions whose score is absent or zero despite having feedback, recomputes the total from per-question feedback and rewrites both the submission and its progress row. Safe to run repeatedly.
// @Tags Admin - Grading
// @Produce json
// @Param dry_run query bool false "Report deltas without writing anything"
// @Success 200 {object} dto.ReconcileReportDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/reconcile [post]
func (c *AdminGradingController) Reconcile(ctx *gin.Context) {
	dryRun := false
	if dryRunStr := ctx.Query("dry_run"); dryRunStr != "" {
		val, err := strconv.ParseBool(dryRunStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid dry_run flag"})
			return
		}
		dryRun = val
	}

	report, err := c.reconcileService.Reconcile(ctx.Request.Context(), dryRun)
	if err != nil {
		log.Error().Err(err).Bool("dryRun", dryRun).Msg("Admin Reconcile: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Reconciliation failed", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, report)
}
