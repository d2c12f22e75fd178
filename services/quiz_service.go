package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quanghuy/intelliquiz-backend/models"
)

type QuestionInput struct {
	Text          string   `json:"text" binding:"required"`
	Options       []string `json:"options" binding:"required,min=1"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
}

type CreateQuizInput struct {
	Title        string          `json:"title" binding:"required"`
	Description  string          `json:"description"`
	Duration     int             `json:"duration" binding:"required,min=1"`
	PassingScore *int            `json:"passing_score"`
	Questions    []QuestionInput `json:"questions"`
}

func validateQuestion(in QuestionInput) error {
	if strings.TrimSpace(in.Text) == "" || len(in.Options) < 1 {
		return ErrValidation
	}
	if in.CorrectAnswer < 0 || in.CorrectAnswer >= len(in.Options) {
		return ErrValidation
	}
	return nil
}

// CreateQuiz stores the quiz and its initial question set in one transaction.
func CreateQuiz(db *gorm.DB, lecturerID uuid.UUID, in CreateQuizInput) (*models.Quiz, error) {
	passingScore := 60
	if in.PassingScore != nil {
		if *in.PassingScore < 0 || *in.PassingScore > 100 {
			return nil, ErrValidation
		}
		passingScore = *in.PassingScore
	}
	for _, q := range in.Questions {
		if err := validateQuestion(q); err != nil {
			return nil, err
		}
	}

	quiz := models.Quiz{
		LecturerID:   lecturerID,
		Title:        in.Title,
		Description:  in.Description,
		Duration:     in.Duration,
		PassingScore: passingScore,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&quiz).Error; err != nil {
			return err
		}
		for _, q := range in.Questions {
			question := models.Question{
				QuizID:        quiz.ID,
				Text:          q.Text,
				Options:       q.Options,
				CorrectAnswer: q.CorrectAnswer,
				Explanation:   q.Explanation,
				Difficulty:    models.Difficulty(q.Difficulty),
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
			quiz.Questions = append(quiz.Questions, question)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

type UpdateQuizInput struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Duration     *int    `json:"duration"`
	PassingScore *int    `json:"passing_score"`
}

func UpdateQuiz(db *gorm.DB, quizID, lecturerID uuid.UUID, in UpdateQuizInput) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := db.First(&quiz, "id = ?", quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if quiz.LecturerID != lecturerID {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, ErrValidation
		}
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Duration != nil {
		if *in.Duration < 1 {
			return nil, ErrValidation
		}
		updates["duration"] = *in.Duration
	}
	if in.PassingScore != nil {
		if *in.PassingScore < 0 || *in.PassingScore > 100 {
			return nil, ErrValidation
		}
		updates["passing_score"] = *in.PassingScore
	}
	if len(updates) > 0 {
		if err := db.Model(&quiz).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	if err := db.Preload("Questions").First(&quiz, "id = ?", quizID).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func PublishQuiz(db *gorm.DB, quizID, lecturerID uuid.UUID) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := db.First(&quiz, "id = ?", quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if quiz.LecturerID != lecturerID {
		return nil, ErrForbidden
	}
	if err := db.Model(&quiz).Update("is_published", true).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

// DeleteQuiz removes a quiz and cascades to its questions and sessions.
// Refused once any attempt has been scored: results are a permanent record.
func DeleteQuiz(db *gorm.DB, quizID, lecturerID uuid.UUID) error {
	var quiz models.Quiz
	if err := db.First(&quiz, "id = ?", quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if quiz.LecturerID != lecturerID {
		return ErrForbidden
	}

	var attempts int64
	if err := db.Model(&models.Result{}).Where("quiz_id = ?", quizID).Count(&attempts).Error; err != nil {
		return err
	}
	if attempts > 0 {
		return ErrQuizHasResults
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", quizID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		var sessionIDs []uuid.UUID
		if err := tx.Model(&models.QuizSession{}).Where("quiz_id = ?", quizID).Pluck("id", &sessionIDs).Error; err != nil {
			return err
		}
		if len(sessionIDs) > 0 {
			if err := tx.Where("session_id IN ?", sessionIDs).Delete(&models.StudentAnswer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("quiz_id = ?", quizID).Delete(&models.QuizSession{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&quiz).Error
	})
}

// SanitizeQuiz strips correct answers and explanations for non-owner readers.
func SanitizeQuiz(quiz *models.Quiz) map[string]interface{} {
	questions := make([]models.PublicQuestion, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions = append(questions, q.Public())
	}
	return map[string]interface{}{
		"id":            quiz.ID,
		"lecturer_id":   quiz.LecturerID,
		"title":         quiz.Title,
		"description":   quiz.Description,
		"duration":      quiz.Duration,
		"passing_score": quiz.PassingScore,
		"is_published":  quiz.IsPublished,
		"created_at":    quiz.CreatedAt,
		"questions":     questions,
	}
}
