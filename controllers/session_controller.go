package controllers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quanghuy/intelliquiz-backend/models"
	"github.com/quanghuy/intelliquiz-backend/services"
	"github.com/quanghuy/intelliquiz-backend/utils"
)

type StartSessionInput struct {
	QuizID uuid.UUID `json:"quiz_id" binding:"required"`
}

func StartQuizSession(c *gin.Context) {
	db := mustDB(c)
	studentID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input StartSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	session, questions, err := services.StartSession(db, input.QuizID, studentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, http.StatusCreated, gin.H{
		"session":   session,
		"questions": questions,
	}, "Quiz session started")
}

type AnswerQuestionInput struct {
	SessionID      uuid.UUID `json:"session_id" binding:"required"`
	QuestionID     uuid.UUID `json:"question_id" binding:"required"`
	SelectedIndex  *int      `json:"selected_index"`
	SelectedAnswer string    `json:"selected_answer"`
}

func AnswerQuestion(c *gin.Context) {
	db := mustDB(c)
	studentID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input AnswerQuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if input.SelectedIndex == nil && input.SelectedAnswer == "" {
		utils.RespondError(c, http.StatusBadRequest, "An answer is required")
		return
	}

	answer, err := services.AnswerQuestion(db, studentID, services.AnswerInput{
		SessionID:      input.SessionID,
		QuestionID:     input.QuestionID,
		SelectedIndex:  input.SelectedIndex,
		SelectedAnswer: input.SelectedAnswer,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, http.StatusOK, answer, "Answer recorded")
}

func SubmitQuizSession(c *gin.Context) {
	db := mustDB(c)
	studentID, ok := currentUserID(c)
	if !ok {
		return
	}
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid session id")
		return
	}

	session, result, err := services.SubmitSession(db, sessionID, studentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// best-effort result mail, never blocks the response
	go sendResultEmail(db, session, result)

	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"session": session,
		"result":  result,
	}, "Quiz submitted successfully")
}

func sendResultEmail(db *gorm.DB, session *models.QuizSession, result *models.Result) {
	var student models.User
	if err := db.First(&student, "id = ?", session.StudentID).Error; err != nil {
		return
	}
	var quiz models.Quiz
	if err := db.First(&quiz, "id = ?", session.QuizID).Error; err != nil {
		return
	}

	verdict := "did not pass"
	if result.PassingStatus {
		verdict = "passed"
	}
	subject := fmt.Sprintf("Your result for %q", quiz.Title)
	body := fmt.Sprintf(`
	<h3>Hello %s,</h3>
	<p>Your attempt at <b>%s</b> has been scored.</p>
	<p><b>Score:</b> %d/%d (%.1f%%)<br>
	<b>Status:</b> you %s.</p>
	<hr>
	<p><i>This is an automated email, please do not reply.</i></p>
	`, student.FirstName, quiz.Title, result.Score, result.TotalQuestions, result.Percentage, verdict)

	if err := utils.SendEmail(student.Email, subject, body); err != nil {
		log.Printf("result email to %s failed: %v", student.Email, err)
	}
}

func GetQuizSession(c *gin.Context) {
	db := mustDB(c)
	callerID, ok := currentUserID(c)
	if !ok {
		return
	}
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid session id")
		return
	}

	session, questions, err := services.GetSession(db, sessionID, callerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"session":   session,
		"questions": questions,
	}, "")
}
