package user

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Margays/internal/controller"
	"github.com/lshigami/Margays/internal/dto"
	"github.com/lshigami/Margays/internal/service"
	"github.com/rs/zerolog/log"
)

type ExamController struct {
	admissionService  service.AdmissionService
	submissionService service.SubmissionService
	statusService     service.StatusService
	adminTestService  service.AdminTestService
}

func NewExamController(
	admissionService service.AdmissionService,
	submissionService service.SubmissionService,
	statusService service.StatusService,
	adminTestService service.AdminTestService,
) *ExamController {
	return &ExamController{
		admissionService:  admissionService,
		submissionService: submissionService,
		statusService:     statusService,
		adminTestService:  adminTestService,
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

// StartAttempt godoc
// @Summary Start or resume an attempt on an active test
// @Description Admits the student, allocates the exam window on first entry, and returns the question set for the chosen domain and section. Re-entry returns the existing window unchanged.
// @Tags Student - Exams
// @Accept json
// @Produce json
// @Param test_id path int true "Test ID"
// @Param body body dto.StartAttemptRequest true "Chosen domain and section"
// @Success 200 {object} dto.AttemptWindowResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /tests/{test_id}/attempts/start [post]
func (c *ExamController) StartAttempt(ctx *gin.Context) {
	testID, ok := parseID(ctx, "test_id")
	if !ok {
		return
	}
	var req dto.StartAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	studentID := controller.PrincipalID(ctx)
	window, err := c.admissionService.StartAttempt(studentID, testID, req.DomainID, req.Section, time.Now())
	if err != nil {
		log.Warn().Err(err).Uint("testID", testID).Uint("studentID", studentID).Msg("StartAttempt rejected")
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, window)
}

// SubmitAnswer godoc
// @Summary Submit an answer under the exam clock
// @Description Accepts the answer only while the deadline derived from the exam-start snapshot has not passed. A second submission before the deadline replaces the first.
// @Tags Student - Exams
// @Accept json
// @Produce json
// @Param body body dto.SubmitAnswerRequest true "Answer payload with exam-start snapshot"
// @Success 200 {object} dto.AnswerResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /answers [post]
func (c *ExamController) SubmitAnswer(ctx *gin.Context) {
	var req dto.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	studentID := controller.PrincipalID(ctx)
	answer, err := c.submissionService.SubmitAnswer(studentID, req, time.Now())
	if err != nil {
		log.Warn().Err(err).Uint("studentID", studentID).Uint("questionID", req.QuestionID).Msg("SubmitAnswer rejected")
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, answer)
}

// FinishAttempt godoc
// @Summary Finish the attempt on a test
// @Description Closes the attempt, recording completed or expired depending on whether the due time has passed.
// @Tags Student - Exams
// @Produce json
// @Param test_id path int true "Test ID"
// @Success 200 {object} dto.AttemptResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /tests/{test_id}/attempts/finish [post]
func (c *ExamController) FinishAttempt(ctx *gin.Context) {
	testID, ok := parseID(ctx, "test_id")
	if !ok {
		return
	}
	studentID := controller.PrincipalID(ctx)
	attempt, err := c.submissionService.FinishAttempt(studentID, testID, time.Now())
	if err != nil {
		log.Warn().Err(err).Uint("testID", testID).Uint("studentID", studentID).Msg("FinishAttempt rejected")
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, attempt)
}

// GetTests godoc
// @Summary List tests with their derived status
// @Tags Student - Exams
// @Produce json
// @Success 200 {array} dto.TestSummaryResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tests [get]
func (c *ExamController) GetTests(ctx *gin.Context) {
	tests, err := c.adminTestService.ListTests(time.Now())
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, tests)
}

// GetTestStatus godoc
// @Summary Get one test's derived status
// @Tags Student - Exams
// @Produce json
// @Param test_id path int true "Test ID"
// @Success 200 {object} dto.TestSummaryResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tests/{test_id}/status [get]
func (c *ExamController) GetTestStatus(ctx *gin.Context) {
	testID, ok := parseID(ctx, "test_id")
	if !ok {
		return
	}
	status, err := c.statusService.ProjectTest(testID, time.Now())
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, status)
}

// GetMyAttempts godoc
// @Summary List the caller's attempts bucketed by status
// @Description Buckets every attempt into upcoming, active, or completed by combining the ledger state with each test's derived status.
// @Tags Student - Exams
// @Produce json
// @Success 200 {object} dto.AttemptHistoryResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /my/attempts [get]
func (c *ExamController) GetMyAttempts(ctx *gin.Context) {
	studentID := controller.PrincipalID(ctx)
	history, err := c.statusService.ProjectAttempts(studentID, time.Now())
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, history)
}
