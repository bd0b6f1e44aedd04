package user

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

type UserAssignmentController struct {
	assignmentService service.AssignmentService
	submissionService service.SubmissionService
}

func NewUserAssignmentController(assignmentService service.AssignmentService, submissionService service.SubmissionService) *UserAssignmentController {
	return &UserAssignmentController{
		assignmentService: assignmentService,
		submissionService: submissionService,
	}
}

// GetAssignmentDetail godoc
// @Summary (User) Get an assignment with its grouped sections
// @Description Full assignment view a student needs to start an attempt, questions grouped into display sections.
// @Tags User - Assignments & Submissions
// @Produce json
// @Param assignment_id path int true "Assignment ID"
// @Success 200 {object} dto.AssignmentDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Assignment ID format"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/{assignment_id} [get]
func (c *UserAssignmentController) GetAssignmentDetail(ctx *gin.Context) {
	assignmentIDStr := ctx.Param("assignment_id")
	assignmentID, err := strconv.ParseUint(assignmentIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Assignment ID format"})
		return
	}

	detail, err := c.assignmentService.GetAssignmentDetail(uint(assignmentID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Assignment not found"})
			return
		}
		log.Error().Err(err).Uint64("assignmentID", assignmentID).Msg("User GetAssignmentDetail: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve assignment", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// SubmitAssignment godoc
// @Summary (User) Submit answers for an assignment
// @Description Student submits one full attempt. Objective questions are graded locally, subjective ones by AI; if any AI call degrades, the attempt is parked for manual review.
// @Tags User - Assignments & Submissions
// @Accept json
// @Produce json
// @Param assignment_id path int true "Assignment ID"
// @Param submission_data body dto.SubmissionCreateDTO true "User ID and answers keyed by question ID"
// @Success 200 {object} dto.SubmissionDetailDTO "Graded attempt with per-question feedback"
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 409 {object} dto.ErrorResponse "Maximum number of attempts reached"
// @Failure 500 {object} dto.ErrorResponse "Error processing submission"
// @Router /assignments/{assignment_id}/submissions [post]
func (c *UserAssignmentController) SubmitAssignment(ctx *gin.Context) {
	assignmentIDStr := ctx.Param("assignment_id")
	assignmentID, err := strconv.ParseUint(assignmentIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Assignment ID format"})
		return
	}

	var req dto.SubmissionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("User SubmitAssignment: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if len(req.Answers) == 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Submission must contain at least one answer."})
		return
	}

	log.Info().Uint64("assignmentID", assignmentID).Uint("userID", req.UserID).Int("answerCount", len(req.Answers)).Msg("Received assignment submission")

	detail, err := c.submissionService.SubmitAssignment(ctx.Request.Context(), uint(assignmentID), req)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Assignment not found"})
		case errors.Is(err, service.ErrMaxAttemptsReached):
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
		default:
			log.Error().Err(err).Uint64("assignmentID", assignmentID).Msg("User SubmitAssignment: Service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to submit assignment", Details: []string{err.Error()}})
		}
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// GetMySubmissions godoc
// @Summary (User) List a user's submissions for an assignment
// @Tags User - Assignments & Submissions
// @Produce json
// @Param assignment_id path int true "Assignment ID"
// @Param user_id query int true "User ID"
// @Success 200 {array} dto.SubmissionSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/{assignment_id}/my-submissions [get]
func (c *UserAssignmentController) GetMySubmissions(ctx *gin.Context) {
	assignmentIDStr := ctx.Param("assignment_id")
	assignmentID, err := strconv.ParseUint(assignmentIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Assignment ID format"})
		return
	}

	userIDStr := ctx.Query("user_id")
	userID, err := strconv.ParseUint(userIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid User ID format in query"})
		return
	}

	submissions, err := c.submissionService.GetUserSubmissions(uint(assignmentID), uint(userID))
	if err != nil {
		log.Error().Err(err).Uint64("assignmentID", assignmentID).Uint64("userID", userID).Msg("User GetMySubmissions: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve submissions", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, submissions)
}

// GetSubmissionDetail godoc
// @Summary (User) Get one submission with full feedback
// @Tags User - Assignments & Submissions
// @Produce json
// @Param submission_id path int true "Submission ID"
// @Success 200 {object} dto.SubmissionDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Submission ID format"
// @Failure 404 {object} dto.ErrorResponse "Submission not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /submissions/{submission_id} [get]
func (c *UserAssignmentController) GetSubmissionDetail(ctx *gin.Context) {
	submissionIDStr := ctx.Param("submission_id")
	submissionID, err := strconv.ParseUint(submissionIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Submission ID format"})
		return
	}

	detail, err := c.submissionService.GetSubmission(uint(submissionID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Submission not found"})
			return
		}
		log.Error().Err(err).Uint64("submissionID", submissionID).Msg("User GetSubmissionDetail: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve submission", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, detail)
}
