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

type AdminClassController struct {
	classService service.ClassService
}

func NewAdminClassController(classService service.ClassService) *AdminClassController {
	return &AdminClassController{classService: classService}
}

// CreateClass godoc
// @Summary (Admin) Create a new class
// @Description Teacher creates a class that assignments will be attached to.
// @Tags Admin - Classes
// @Accept json
// @Produce json
// @Param class_data body dto.ClassCreateDTO true "Class creation data"
// @Success 201 {object} dto.ClassResponseDTO "Class created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/classes [post]
func (c *AdminClassController) CreateClass(ctx *gin.Context) {
	var req dto.ClassCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateClass: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	classResp, err := c.classService.CreateClass(req)
	if err != nil {
		log.Error().Err(err).Interface("requestPayload", req).Msg("Admin CreateClass: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to create class", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, classResp)
}

// GetClasses godoc
// @Summary (Admin) List classes owned by a teacher
// @Tags Admin - Classes
// @Produce json
// @Param teacher_id query int true "Teacher ID"
// @Success 200 {array} dto.ClassResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Teacher ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/classes [get]
func (c *AdminClassController) GetClasses(ctx *gin.Context) {
	teacherIDStr := ctx.Query("teacher_id")
	teacherID, err := strconv.ParseUint(teacherIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Teacher ID format in query"})
		return
	}

	classes, err := c.classService.GetClassesByTeacher(uint(teacherID))
	if err != nil {
		log.Error().Err(err).Uint64("teacherID", teacherID).Msg("Admin GetClasses: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve classes", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, classes)
}

// DeleteClass godoc
// @Summary (Admin) Delete a class
// @Description Removes the class together with its assignments, questions and progress rows.
// @Tags Admin - Classes
// @Produce json
// @Param class_id path int true "Class ID"
// @Success 204 "Class deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid Class ID format"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/classes/{class_id} [delete]
func (c *AdminClassController) DeleteClass(ctx *gin.Context) {
	classIDStr := ctx.Param("class_id")
	classID, err := strconv.ParseUint(classIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Class ID format"})
		return
	}

	if err := c.classService.DeleteClass(uint(classID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Class not found"})
			return
		}
		log.Error().Err(err).Uint64("classID", classID).Msg("Admin DeleteClass: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to delete class", Details: []string{err.Error()}})
		return
	}
	ctx.Status(http.StatusNoContent)
}
