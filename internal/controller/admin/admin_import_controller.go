package admin

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examforge/internal/dto"
	"github.com/lshigami/examforge/internal/service"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AdminImportController struct {
	importService  service.ImportService
	sectionService service.SectionService
}

func NewAdminImportController(importService service.ImportService, sectionService service.SectionService) *AdminImportController {
	return &AdminImportController{
		importService:  importService,
		sectionService: sectionService,
	}
}

// ImportQuestions godoc
// @Summary (Admin) Import questions from an exam document via AI extraction
// @Description Sends the document to the AI extractor, normalizes the response and materializes question rows. New rows are appended after existing ones.
// @Tags Admin - Import
// @Accept json
// @Produce json
// @Param assignment_id path int true "Assignment ID"
// @Param import_data body dto.ImportRequestDTO true "Document text, optional base64 document bytes and extraction mode"
// @Success 200 {object} dto.ImportResultDTO "Import completed"
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 422 {object} dto.ErrorResponse "AI response could not be parsed or yielded no questions"
// @Failure 502 {object} dto.ErrorResponse "AI extraction service unavailable"
// @Router /admin/assignments/{assignment_id}/import [post]
func (c *AdminImportController) ImportQuestions(ctx *gin.Context) {
	assignmentIDStr := ctx.Param("assignment_id")
	assignmentID, err := strconv.ParseUint(assignmentIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Assignment ID format"})
		return
	}

	var req dto.ImportRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin ImportQuestions: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	importReq := service.ImportRequest{
		Mode:         service.ImportMode(req.Mode),
		DocumentText: req.DocumentText,
		MIMEType:     req.MIMEType,
	}
	if req.DocumentData != "" {
		data, decErr := base64.StdEncoding.DecodeString(req.DocumentData)
		if decErr != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid base64 document data", Details: []string{decErr.Error()}})
			return
		}
		importReq.DocumentBytes = data
	}

	result, err := c.importService.ImportQuestions(ctx.Request.Context(), uint(assignmentID), importReq)
	if err != nil {
		var parseErr *service.AIResponseParseError
		var upstreamErr *service.ExtractionUpstreamError
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Assignment not found"})
		case errors.As(err, &parseErr):
			log.Warn().Err(err).Uint64("assignmentID", assignmentID).Msg("Admin ImportQuestions: Unparseable AI response")
			ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
				Message: "AI extraction response could not be parsed",
				Details: []string{parseErr.RawExcerpt},
			})
		case errors.Is(err, service.ErrNoQuestionsExtracted):
			ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Message: err.Error()})
		case errors.As(err, &upstreamErr):
			log.Error().Err(err).Uint64("assignmentID", assignmentID).Msg("Admin ImportQuestions: Upstream AI failure")
			ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Message: "AI extraction service is unavailable", Details: []string{err.Error()}})
		default:
			log.Error().Err(err).Uint64("assignmentID", assignmentID).Msg("Admin ImportQuestions: Service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to import questions", Details: []string{err.Error()}})
		}
		return
	}
	ctx.JSON(http.StatusOK, dto.ImportResultDTO{CreatedCount: result.CreatedCount, SkippedCount: result.SkippedCount})
}

// GetSections godoc
// @Summary (Admin) List the grouped sections of an assignment
// @Description Sections are reconstructed with a sequential scan over question rows; two non-adjacent runs sharing a title stay separate.
// @Tags Admin - Sections
// @Produce json
// @Param assignment_id path int true "Assignment ID"
// @Success 200 {array} dto.SectionResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Assignment ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/assignments/{assignment_id}/sections [get]
func (c *AdminImportController) GetSections(ctx *gin.Context) {
	assignmentIDStr := ctx.Param("assignment_id")
	assignmentID, err := strconv.ParseUint(assignmentIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Assignment ID format"})
		return
	}

	groups, err := c.sectionService.GetSections(uint(assignmentID))
	if err != nil {
		log.Error().Err(err).Uint64("assignmentID", assignmentID).Msg("Admin GetSections: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve sections", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, service.GroupsToDTO(groups))
}

// ReorderSection godoc
// @Summary (Admin) Move a section up or down within an assignment
// @Description Swaps the section with its neighbor and rewrites order indexes densely. Moving past either end is a no-op.
// @Tags Admin - Sections
// @Accept json
// @Produce json
// @Param assignment_id path int true "Assignment ID"
// @Param reorder_data body dto.SectionReorderDTO true "Section title and direction"
// @Success 200 {object} dto.ReorderResultDTO "Number of rows whose order changed"
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 404 {object} dto.ErrorResponse "Section not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/assignments/{assignment_id}/sections/reorder [post]
func (c *AdminImportController) ReorderSection(ctx *gin.Context) {
	assignmentIDStr := ctx.Param("assignment_id")
	assignmentID, err := strconv.ParseUint(assignmentIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Assignment ID format"})
		return
	}

	var req dto.SectionReorderDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin ReorderSection: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	changed, err := c.sectionService.ReorderSection(uint(assignmentID), req.SectionTitle, req.Direction)
	if err != nil {
		if errors.Is(err, service.ErrSectionNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
			return
		}
		log.Error().Err(err).Uint64("assignmentID", assignmentID).Str("sectionTitle", req.SectionTitle).Msg("Admin ReorderSection: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to reorder section", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, dto.ReorderResultDTO{ChangedRows: changed})
}

// UpdateSectionContent godoc
// @Summary (Admin) Edit shared section metadata on a set of questions
// @Description Overwrites the embedded section title, passage, translation, audio and images of every listed question in one transaction.
// @Tags Admin - Sections
// @Accept json
// @Produce json
// @Param update_data body dto.SectionContentUpdateDTO true "Question IDs and the section metadata to apply"
// @Success 204 "Section content updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 404 {object} dto.ErrorResponse "One or more questions not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/sections/content [put]
func (c *AdminImportController) UpdateSectionContent(ctx *gin.Context) {
	var req dto.SectionContentUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin UpdateSectionContent: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	meta := service.SectionMetadata{
		Title:              req.SectionTitle,
		Passage:            req.Passage,
		PassageTranslation: req.PassageTranslation,
		SectionAudio:       req.SectionAudio,
		SectionImages:      req.SectionImages,
	}
	if err := c.sectionService.UpdateSectionContent(req.QuestionIDs, meta); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "One or more questions not found"})
			return
		}
		log.Error().Err(err).Interface("questionIDs", req.QuestionIDs).Msg("Admin UpdateSectionContent: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to update section content", Details: []string{err.Error()}})
		return
	}
	ctx.Status(http.StatusNoContent)
}
