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

type AdminAssignmentController struct {
	assignmentService service.AssignmentService
	questionService   service.QuestionService
}

func NewAdminAssignmentController(assignmentService service.AssignmentService, questionService service.QuestionService) *AdminAssignmentController {
	return &AdminAssignmentController{
		assignmentService: assignmentService,
		questionService:   questionService,
	}
}

// CreateAssignment godoc
// @Summary (Admin) Create an assignment in a class
// @Tags Admin - Assignments
// @Accept json
// @Produce json
// @Param class_id path int true "Class ID"
// @Param assignment_data body dto.AssignmentCreateDTO true "Assignment creation data"
// @Success 201 {object} dto.AssignmentResponseDTO "Assignment created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/classes/{class_id}/assignments [post]
func (c *AdminAssignmentController) CreateAssignment(ctx *gin.Context) {
	classIDStr := ctx.Param("class_id")
	classID, err := strconv.ParseUint(classIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Class ID format"})
		return
	}

	var req dto.AssignmentCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateAssignment: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	assignmentResp, err := c.assignmentService.CreateAssignment(uint(classID), req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Class not found"})
			return
		}
		log.Error().Err(err).Uint64("classID", classID).Msg("Admin CreateAssignment: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to create assignment", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, assignmentResp)
}

// GetAssignmentsByClass godoc
// @Summary (Admin) List assignments of a class
// @Tags Admin - Assignments
// @Produce json
// @Param class_id path int true "Class ID"
// @Success 200 {array} dto.AssignmentResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Class ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/classes/{class_id}/assignments [get]
func (c *AdminAssignmentController) GetAssignmentsByClass(ctx *gin.Context) {
	classIDStr := ctx.Param("class_id")
	classID, err := strconv.ParseUint(classIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Class ID format"})
		return
	}

	assignments, err := c.assignmentService.GetAssignmentsByClass(uint(classID))
	if err != nil {
		log.Error().Err(err).Uint64("classID", classID).Msg("Admin GetAssignmentsByClass: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve assignments", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, assignments)
}

// GetAssignmentDetail godoc
// @Summary (Admin) Get an assignment with its grouped sections
// @Description Returns the assignment plus its questions reconstructed into display sections.
// @Tags Admin - Assignments
// @Produce json
// @Param assignment_id path int true "Assignment ID"
// @Success 200 {object} dto.AssignmentDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Assignment ID format"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/assignments/{assignment_id} [get]
func (c *AdminAssignmentController) GetAssignmentDetail(ctx *gin.Context) {
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
		log.Error().Err(err).Uint64("assignmentID", assignmentID).Msg("Admin GetAssignmentDetail: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve assignment", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// DeleteAssignment godoc
// @Summary (Admin) Delete an assignment
// @Tags Admin - Assignments
// @Produce json
// @Param assignment_id path int true "Assignment ID"
// @Success 204 "Assignment deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid Assignment ID format"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/assignments/{assignment_id} [delete]
func (c *AdminAssignmentController) DeleteAssignment(ctx *gin.Context) {
	assignmentIDStr := ctx.Param("assignment_id")
	assignmentID, err := strconv.ParseUint(assignmentIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Assignment ID format"})
		return
	}

	if err := c.assignmentService.DeleteAssignment(uint(assignmentID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Assignment not found"})
			return
		}
		log.Error().Err(err).Uint64("assignmentID", assignmentID).Msg("Admin DeleteAssignment: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to delete assignment", Details: []string{err.Error()}})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// CreateQuestion godoc
// @Summary (Admin) Manually add a question to an assignment
// @Description Appends a question after the current last order index. Section metadata is embedded into the question content.
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param assignment_id path int true "Assignment ID"
// @Param question_data body dto.QuestionCreateDTO true "Question creation data"
// @Success 201 {object} dto.QuestionResponseDTO "Question created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/assignments/{assignment_id}/questions [post]
func (c *AdminAssignmentController) CreateQuestion(ctx *gin.Context) {
	assignmentIDStr := ctx.Param("assignment_id")
	assignmentID, err := strconv.ParseUint(assignmentIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Assignment ID format"})
		return
	}

	var req dto.QuestionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateQuestion: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	questionResp, err := c.questionService.CreateQuestion(uint(assignmentID), req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Assignment not found"})
			return
		}
		log.Error().Err(err).Uint64("assignmentID", assignmentID).Msg("Admin CreateQuestion: Service error")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to create question", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, questionResp)
}

// UpdateQuestion godoc
// @Summary (Admin) Update a question
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param question_id path int true "Question ID"
// @Param question_data body dto.QuestionCreateDTO true "Question update data"
// @Success 200 {object} dto.QuestionResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions/{question_id} [put]
func (c *AdminAssignmentController) UpdateQuestion(ctx *gin.Context) {
	questionIDStr := ctx.Param("question_id")
	questionID, err := strconv.ParseUint(questionIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Question ID format"})
		return
	}

	var req dto.QuestionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin UpdateQuestion: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	questionResp, err := c.questionService.UpdateQuestion(uint(questionID), req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Question not found"})
			return
		}
		log.Error().Err(err).Uint64("questionID", questionID).Msg("Admin UpdateQuestion: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to update question", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, questionResp)
}

// DeleteQuestion godoc
// @Summary (Admin) Delete a question
// @Tags Admin - Questions
// @Produce json
// @Param question_id path int true "Question ID"
// @Success 204 "Question deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid Question ID format"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions/{question_id} [delete]
func (c *AdminAssignmentController) DeleteQuestion(ctx *gin.Context) {
	questionIDStr := ctx.Param("question_id")
	questionID, err := strconv.ParseUint(questionIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Question ID format"})
		return
	}

	if err := c.questionService.DeleteQuestion(uint(questionID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Question not found"})
			return
		}
		log.Error().Err(err).Uint64("questionID", questionID).Msg("Admin DeleteQuestion: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to delete question", Details: []string{err.Error()}})
		return
	}
	ctx.Status(http.StatusNoContent)
}
