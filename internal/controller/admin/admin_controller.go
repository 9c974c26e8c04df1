package admin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Margays/internal/controller"
	"github.com/lshigami/Margays/internal/dto"
	"github.com/lshigami/Margays/internal/model"
	"github.com/lshigami/Margays/internal/repository"
	"github.com/lshigami/Margays/internal/service"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AdminController struct {
	adminTestService service.AdminTestService
	scoringService   service.ScoringService
	gradingAssist    service.GradingAssistService
	answerRepo       repository.AnswerRepository
}

func NewAdminController(
	adminTestService service.AdminTestService,
	scoringService service.ScoringService,
	gradingAssist service.GradingAssistService,
	answerRepo repository.AnswerRepository,
) *AdminController {
	return &AdminController{
		adminTestService: adminTestService,
		scoringService:   scoringService,
		gradingAssist:    gradingAssist,
		answerRepo:       answerRepo,
	}
}

func parseID(ctx *gin.Context, param string) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param(param), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + param + " format"})
		return 0, false
	}
	return uint(val), true
}

// CreateTest godoc
// @Summary (Staff) Create a new assessment window
// @Tags Staff - Tests & Marking
// @Accept json
// @Produce json
// @Param body body dto.CreateTestRequest true "Test definition"
// @Success 201 {object} dto.TestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/tests [post]
func (c *AdminController) CreateTest(ctx *gin.Context) {
	var req dto.CreateTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	test, err := c.adminTestService.CreateTest(req, time.Now())
	if err != nil {
		log.Warn().Err(err).Str("title", req.Title).Msg("CreateTest rejected")
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, test)
}

// GetTest godoc
// @Summary (Staff) Get a test with its domains and derived status
// @Tags Staff - Tests & Marking
// @Produce json
// @Param test_id path int true "Test ID"
// @Success 200 {object} dto.TestResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/tests/{test_id} [get]
func (c *AdminController) GetTest(ctx *gin.Context) {
	testID, ok := parseID(ctx, "test_id")
	if !ok {
		return
	}
	test, err := c.adminTestService.GetTest(testID, time.Now())
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, test)
}

// AddMark godoc
// @Summary (Staff) Set the first mark on an answer
// @Description Fails when a mark already exists; corrections go through the edit operation.
// @Tags Staff - Tests & Marking
// @Accept json
// @Produce json
// @Param answer_id path int true "Answer ID"
// @Param body body dto.MarkRequest true "Mark value"
// @Success 200 {object} dto.AnswerResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /admin/answers/{answer_id}/mark [post]
func (c *AdminController) AddMark(ctx *gin.Context) {
	answerID, ok := parseID(ctx, "answer_id")
	if !ok {
		return
	}
	var req dto.MarkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	answer, err := c.scoringService.AddMark(answerID, req.Mark)
	if err != nil {
		log.Warn().Err(err).Uint("answerID", answerID).Msg("AddMark rejected")
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, answer)
}

// EditMark godoc
// @Summary (Staff) Correct an existing mark
// @Description Fails when the answer has no mark yet; first scores go through the add operation.
// @Tags Staff - Tests & Marking
// @Accept json
// @Produce json
// @Param answer_id path int true "Answer ID"
// @Param body body dto.MarkRequest true "Mark value"
// @Success 200 {object} dto.AnswerResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /admin/answers/{answer_id}/mark [put]
func (c *AdminController) EditMark(ctx *gin.Context) {
	answerID, ok := parseID(ctx, "answer_id")
	if !ok {
		return
	}
	var req dto.MarkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	answer, err := c.scoringService.EditMark(answerID, req.Mark)
	if err != nil {
		log.Warn().Err(err).Uint("answerID", answerID).Msg("EditMark rejected")
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, answer)
}

// ComputeTotal godoc
// @Summary (Staff) Compute a student's total score for a domain
// @Description Sums marks treating unset marks as zero. With a test id, the total is persisted onto the student's attempt.
// @Tags Staff - Tests & Marking
// @Accept json
// @Produce json
// @Param body body dto.ComputeTotalRequest true "Scope of the total"
// @Success 200 {object} dto.TotalScoreResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/scores/compute [post]
func (c *AdminController) ComputeTotal(ctx *gin.Context) {
	var req dto.ComputeTotalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	total, err := c.scoringService.ComputeTotal(req.StudentID, req.DomainID, req.TestID)
	if err != nil {
		log.Warn().Err(err).Uint("studentID", req.StudentID).Msg("ComputeTotal rejected")
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, total)
}

// SuggestMark godoc
// @Summary (Staff) Get an informational AI mark suggestion for an answer
// @Description Advisory only; the suggestion is never written to the answer.
// @Tags Staff - Tests & Marking
// @Produce json
// @Param answer_id path int true "Answer ID"
// @Success 200 {object} dto.MarkSuggestionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /admin/answers/{answer_id}/suggested-mark [get]
func (c *AdminController) SuggestMark(ctx *gin.Context) {
	answerID, ok := parseID(ctx, "answer_id")
	if !ok {
		return
	}
	answer, err := c.answerRepo.FindByIDWithQuestion(answerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			controller.RespondError(ctx, model.ErrNotFound)
			return
		}
		controller.RespondError(ctx, err)
		return
	}
	suggestion, err := c.gradingAssist.SuggestMark(ctx.Request.Context(), answer)
	if err != nil {
		log.Warn().Err(err).Uint("answerID", answerID).Msg("SuggestMark unavailable")
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Message: "Mark suggestion unavailable", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, suggestion)
}
