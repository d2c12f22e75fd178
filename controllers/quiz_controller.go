package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quanghuy/intelliquiz-backend/models"
	"github.com/quanghuy/intelliquiz-backend/services"
	"github.com/quanghuy/intelliquiz-backend/utils"
	"github.com/quanghuy/intelliquiz-backend/ws"
)

func CreateQuiz(c *gin.Context) {
	db := mustDB(c)
	lecturerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input services.CreateQuizInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	quiz, err := services.CreateQuiz(db, lecturerID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, http.StatusCreated, quiz, "Quiz created successfully")
}

// GetMyQuizzes lists the lecturer's own quizzes, newest first.
func GetMyQuizzes(c *gin.Context) {
	db := mustDB(c)
	lecturerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var quizzes []models.Quiz
	if err := db.Preload("Questions").
		Where("lecturer_id = ?", lecturerID).
		Order("created_at DESC").
		Find(&quizzes).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Cannot list quizzes")
		return
	}

	utils.RespondSuccess(c, http.StatusOK, quizzes, "")
}

// GetPublishedQuizzes is the public catalog. Questions are sanitized: no
// correct indexes, no explanations.
func GetPublishedQuizzes(c *gin.Context) {
	db := mustDB(c)

	var quizzes []models.Quiz
	if err := db.Preload("Questions").
		Where("is_published = ?", true).
		Order("created_at DESC").
		Find(&quizzes).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Cannot list quizzes")
		return
	}

	sanitized := make([]map[string]interface{}, 0, len(quizzes))
	for i := range quizzes {
		sanitized = append(sanitized, services.SanitizeQuiz(&quizzes[i]))
	}

	utils.RespondSuccess(c, http.StatusOK, sanitized, "")
}

func GetQuizDetail(c *gin.Context) {
	db := mustDB(c)

	var quiz models.Quiz
	if err := db.Preload("Questions").First(&quiz, "id = ?", c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Quiz not found")
		return
	}

	// owner sees the full questions, everyone else the sanitized shape
	callerID, _ := uuid.Parse(c.GetString("user_id"))
	if callerID == quiz.LecturerID {
		utils.RespondSuccess(c, http.StatusOK, quiz, "")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, services.SanitizeQuiz(&quiz), "")
}

func UpdateQuiz(c *gin.Context) {
	db := mustDB(c)
	lecturerID, ok := currentUserID(c)
	if !ok {
		return
	}
	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid quiz id")
		return
	}

	var input services.UpdateQuizInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	quiz, err := services.UpdateQuiz(db, quizID, lecturerID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, http.StatusOK, quiz, "Quiz updated successfully")
}

func PublishQuiz(c *gin.Context) {
	db := mustDB(c)
	lecturerID, ok := currentUserID(c)
	if !ok {
		return
	}
	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid quiz id")
		return
	}

	quiz, err := services.PublishQuiz(db, quizID, lecturerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	ws.BroadcastQuizListChanged()

	utils.RespondSuccess(c, http.StatusOK, quiz, "Quiz published successfully")
}

func DeleteQuiz(c *gin.Context) {
	db := mustDB(c)
	lecturerID, ok := currentUserID(c)
	if !ok {
		return
	}
	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid quiz id")
		return
	}

	if err := services.DeleteQuiz(db, quizID, lecturerID); err != nil {
		respondServiceError(c, err)
		return
	}
	ws.BroadcastQuizListChanged()

	utils.RespondSuccess(c, http.StatusOK, nil, "Quiz deleted successfully")
}
