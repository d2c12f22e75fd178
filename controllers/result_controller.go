package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quanghuy/intelliquiz-backend/models"
	"github.com/quanghuy/intelliquiz-backend/utils"
)

// GetMyResults returns the student's own results, newest first.
func GetMyResults(c *gin.Context) {
	db := mustDB(c)
	studentID, ok := currentUserID(c)
	if !ok {
		return
	}

	var results []models.Result
	if err := db.Preload("Quiz").
		Where("student_id = ?", studentID).
		Order("submitted_at DESC").
		Find(&results).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Cannot list results")
		return
	}

	utils.RespondSuccess(c, http.StatusOK, results, "")
}

func quizForLecturer(c *gin.Context) (*models.Quiz, bool) {
	db := mustDB(c)
	lecturerID, ok := currentUserID(c)
	if !ok {
		return nil, false
	}

	var quiz models.Quiz
	if err := db.First(&quiz, "id = ?", c.Param("quizId")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Quiz not found")
		return nil, false
	}
	if quiz.LecturerID != lecturerID {
		utils.RespondError(c, http.StatusForbidden, "Access denied")
		return nil, false
	}
	return &quiz, true
}

// GetQuizResults returns all results of one quiz for its owner.
func GetQuizResults(c *gin.Context) {
	db := mustDB(c)
	quiz, ok := quizForLecturer(c)
	if !ok {
		return
	}

	var results []models.Result
	if err := db.Preload("Student").
		Where("quiz_id = ?", quiz.ID).
		Order("submitted_at DESC").
		Find(&results).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Cannot list results")
		return
	}

	utils.RespondSuccess(c, http.StatusOK, results, "")
}

// ExportQuizResults streams the same rows as an .xlsx workbook.
func ExportQuizResults(c *gin.Context) {
	db := mustDB(c)
	quiz, ok := quizForLecturer(c)
	if !ok {
		return
	}

	var results []models.Result
	if err := db.Preload("Student").
		Where("quiz_id = ?", quiz.ID).
		Order("submitted_at DESC").
		Find(&results).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Cannot list results")
		return
	}

	data, err := utils.ExportResultsXLSX(*quiz, results)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Cannot build export file")
		return
	}

	filename := fmt.Sprintf("results-%s.xlsx", quiz.ID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// GetResultDetails returns one result with the submitted session and its
// per-question answers. Visible to the student it belongs to and to the
// quiz owner.
func GetResultDetails(c *gin.Context) {
	db := mustDB(c)
	callerID, ok := currentUserID(c)
	if !ok {
		return
	}

	quizID := c.Param("quizId")
	studentID := c.Param("studentId")

	var result models.Result
	if err := db.Preload("Quiz").Preload("Student").
		First(&result, "quiz_id = ? AND student_id = ?", quizID, studentID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Result not found")
		return
	}
	if result.StudentID != callerID && result.Quiz.LecturerID != callerID {
		utils.RespondError(c, http.StatusForbidden, "Access denied")
		return
	}

	var session models.QuizSession
	if err := db.Preload("Answers.Question").
		First(&session, "quiz_id = ? AND student_id = ? AND status = ?",
			quizID, studentID, models.SessionSubmitted).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Session not found")
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"result":  result,
		"session": session,
	}, "")
}
