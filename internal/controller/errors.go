package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Margays/internal/dto"
	"github.com/lshigami/Margays/internal/model"
)

// RespondError maps the service error taxonomy onto HTTP statuses. Every
// rejection keeps its reason in the message so callers see an unambiguous
// outcome.
func RespondError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrValidation),
		errors.Is(err, model.ErrDomainNotInTest),
		errors.Is(err, model.ErrInvalidSection):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrNotEligible):
		status = http.StatusForbidden
	case errors.Is(err, model.ErrNotFound),
		errors.Is(err, model.ErrNotStarted):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrNotActive),
		errors.Is(err, model.ErrAlreadyCompleted),
		errors.Is(err, model.ErrExamExpired),
		errors.Is(err, model.ErrMarkAlreadyExists),
		errors.Is(err, model.ErrNoExistingMark):
		status = http.StatusConflict
	}
	ctx.JSON(status, dto.ErrorResponse{Message: err.Error()})
}
