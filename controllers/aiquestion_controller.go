package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quanghuy/intelliquiz-backend/models"
	"github.com/quanghuy/intelliquiz-backend/services"
	"github.com/quanghuy/intelliquiz-backend/utils"
)

type GenerateQuestionsInput struct {
	MaterialID        uuid.UUID `json:"material_id" binding:"required"`
	QuizID            uuid.UUID `json:"quiz_id" binding:"required"`
	NumberOfQuestions int       `json:"number_of_questions" binding:"required,min=1,max=20"`
	Difficulty        string    `json:"difficulty" binding:"required,oneof=EASY MEDIUM HARD"`
}

// GenerateQuestions asks the configured model for question drafts and
// persists them onto the quiz. Generator unavailability degrades to template
// questions, it never fails the request.
func GenerateQuestions(c *gin.Context) {
	db := mustDB(c)
	lecturerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input GenerateQuestionsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var material models.Material
	if err := db.First(&material, "id = ?", input.MaterialID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Material not found")
		return
	}
	if material.LecturerID != lecturerID {
		utils.RespondError(c, http.StatusForbidden, "Access denied")
		return
	}
	if strings.TrimSpace(material.Content) == "" {
		respondServiceError(c, services.ErrMaterialNoContent)
		return
	}

	var quiz models.Quiz
	if err := db.First(&quiz, "id = ?", input.QuizID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Quiz not found")
		return
	}
	if quiz.LecturerID != lecturerID {
		utils.RespondError(c, http.StatusForbidden, "Access denied")
		return
	}

	drafts := services.GenerateQuestions(
		c.Request.Context(),
		services.DefaultGenerator(),
		material.Content,
		input.NumberOfQuestions,
		models.Difficulty(input.Difficulty),
	)

	questions := make([]models.Question, 0, len(drafts))
	for _, d := range drafts {
		q := models.Question{
			QuizID:        quiz.ID,
			MaterialID:    &material.ID,
			Text:          d.Text,
			Options:       d.Options,
			CorrectAnswer: d.CorrectAnswer,
			Explanation:   d.Explanation,
			Difficulty:    d.Difficulty,
		}
		if err := db.Create(&q).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, "Cannot store generated questions")
			return
		}
		questions = append(questions, q)
	}

	utils.RespondSuccess(c, http.StatusCreated, questions, "Questions generated successfully")
}

// GetGeneratedQuestions lists the questions generated for a quiz/material
// pair. Full rows, correct answers included, so only the quiz owner may read
// them.
func GetGeneratedQuestions(c *gin.Context) {
	db := mustDB(c)
	lecturerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var quiz models.Quiz
	if err := db.First(&quiz, "id = ?", c.Param("quizId")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Quiz not found")
		return
	}
	if quiz.LecturerID != lecturerID {
		utils.RespondError(c, http.StatusForbidden, "Access denied")
		return
	}

	var questions []models.Question
	if err := db.Where("quiz_id = ? AND material_id = ?", quiz.ID, c.Param("materialId")).
		Order("created_at ASC").
		Find(&questions).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Cannot list questions")
		return
	}

	utils.RespondSuccess(c, http.StatusOK, questions, "")
}
