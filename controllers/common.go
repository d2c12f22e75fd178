package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quanghuy/intelliquiz-backend/services"
	"github.com/quanghuy/intelliquiz-backend/utils"
)

func mustDB(c *gin.Context) *gorm.DB {
	return c.MustGet("db").(*gorm.DB)
}

// currentUserID parses the authenticated user id set by the auth middleware.
// Aborts with 401 when missing or mangled.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Cannot identify the current user")
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps domain failures onto the error envelope.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrForbidden):
		utils.RespondError(c, http.StatusForbidden, "Access denied")
	case errors.Is(err, services.ErrValidation):
		utils.RespondError(c, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, services.ErrAlreadyAttempted):
		utils.RespondError(c, http.StatusConflict, "You have already attempted this quiz")
	case errors.Is(err, services.ErrSessionClosed):
		utils.RespondError(c, http.StatusConflict, "This session has already been submitted")
	case errors.Is(err, services.ErrSessionExpired):
		utils.RespondError(c, http.StatusConflict, "The session time is over")
	case errors.Is(err, services.ErrQuizNotPublished):
		utils.RespondError(c, http.StatusForbidden, "This quiz is not published")
	case errors.Is(err, services.ErrQuestionNotInQuiz):
		utils.RespondError(c, http.StatusBadRequest, "The question does not belong to this quiz")
	case errors.Is(err, services.ErrQuizHasResults):
		utils.RespondError(c, http.StatusConflict, "The quiz has submitted attempts and cannot be deleted")
	case errors.Is(err, services.ErrMaterialNoContent):
		utils.RespondError(c, http.StatusBadRequest, "The material has no extracted content")
	case errors.Is(err, services.ErrDuplicateVideo):
		utils.RespondError(c, http.StatusConflict, "This session already has a video submission")
	default:
		utils.RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
