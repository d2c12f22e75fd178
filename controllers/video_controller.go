package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quanghuy/intelliquiz-backend/models"
	"github.com/quanghuy/intelliquiz-backend/services"
	"github.com/quanghuy/intelliquiz-backend/utils"
)

const maxVideoSize = 50 * 1024 * 1024

// UploadSessionVideo stores the proctoring recording for one session.
// One video per session; the artifact never influences scoring.
func UploadSessionVideo(c *gin.Context) {
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

	var session models.QuizSession
	if err := db.First(&session, "id = ?", sessionID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Session not found")
		return
	}
	if session.StudentID != studentID {
		utils.RespondError(c, http.StatusForbidden, "Access denied")
		return
	}

	file, err := c.FormFile("video")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "No video file provided")
		return
	}
	if file.Size > maxVideoSize {
		utils.RespondError(c, http.StatusBadRequest, "Video exceeds 50MB")
		return
	}
	if !utils.ValidVideoMime(file.Header.Get("Content-Type")) {
		utils.RespondError(c, http.StatusBadRequest, "Unsupported video type")
		return
	}

	var existing int64
	if err := db.Model(&models.VideoSubmission{}).
		Where("session_id = ?", sessionID).
		Count(&existing).Error; err == nil && existing > 0 {
		respondServiceError(c, services.ErrDuplicateVideo)
		return
	}

	publicURL, err := utils.UploadVideoToSupabase(file, sessionID.String())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Video storage upload failed")
		return
	}

	duration, _ := strconv.Atoi(c.PostForm("duration"))

	video := models.VideoSubmission{
		SessionID: sessionID,
		StudentID: studentID,
		VideoURL:  publicURL,
		Duration:  duration,
		FileSize:  file.Size,
	}
	if err := db.Create(&video).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Cannot store video submission")
		return
	}

	utils.RespondSuccess(c, http.StatusCreated, video, "Video uploaded successfully")
}

// GetVideoSubmission returns metadata for one recording: visible to the
// student who made it and to the lecturer owning the quiz.
func GetVideoSubmission(c *gin.Context) {
	db := mustDB(c)
	callerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var video models.VideoSubmission
	if err := db.First(&video, "id = ?", c.Param("id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Video not found")
		return
	}

	var session models.QuizSession
	if err := db.Preload("Quiz").First(&session, "id = ?", video.SessionID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "Session not found")
		return
	}
	if video.StudentID != callerID && session.Quiz.LecturerID != callerID {
		utils.RespondError(c, http.StatusForbidden, "Access denied")
		return
	}

	utils.RespondSuccess(c, http.StatusOK, video, "")
}
