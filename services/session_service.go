package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quanghuy/intelliquiz-backend/models"
)

// Grace added on top of the quiz duration before the server refuses further
// answers on an in-progress session.
const answerGrace = 30 * time.Second

// StartSession creates one attempt of a student at a quiz. The question order
// is a Fisher-Yates permutation fixed at start; options and correct answers
// never leave the server in the session payload.
func StartSession(db *gorm.DB, quizID, studentID uuid.UUID) (*models.QuizSession, []models.PublicQuestion, error) {
	var quiz models.Quiz
	if err := db.Preload("Questions").First(&quiz, "id = ?", quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	if !quiz.IsPublished {
		return nil, nil, ErrQuizNotPublished
	}

	// Advisory check. The unique index on results(quiz_id, student_id) is the
	// real guard: two racing starts can both pass here, but only one of the
	// sessions will ever reach SUBMITTED.
	var existing int64
	if err := db.Model(&models.Result{}).
		Where("quiz_id = ? AND student_id = ?", quizID, studentID).
		Count(&existing).Error; err != nil {
		return nil, nil, err
	}
	if existing > 0 {
		return nil, nil, ErrAlreadyAttempted
	}

	ids := make([]string, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		ids = append(ids, q.ID.String())
	}
	order := RandomizeSlice(ids)

	session := models.QuizSession{
		QuizID:        quizID,
		StudentID:     studentID,
		Status:        models.SessionInProgress,
		QuestionOrder: order,
		StartTime:     time.Now(),
	}
	if err := db.Create(&session).Error; err != nil {
		return nil, nil, err
	}

	return &session, orderedPublicQuestions(quiz.Questions, order), nil
}

func orderedPublicQuestions(questions []models.Question, order []string) []models.PublicQuestion {
	byID := make(map[string]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID.String()] = q
	}
	out := make([]models.PublicQuestion, 0, len(order))
	for _, id := range order {
		if q, ok := byID[id]; ok {
			out = append(out, q.Public())
		}
	}
	return out
}

type AnswerInput struct {
	SessionID  uuid.UUID
	QuestionID uuid.UUID
	// One of the two must be set. An index wins over a value; a bare value
	// resolves to the first matching option.
	SelectedIndex  *int
	SelectedAnswer string
}

// AnswerQuestion records or overwrites the student's answer for one question
// of an in-progress session. Correctness compares the selected option index
// against the question's correct index.
func AnswerQuestion(db *gorm.DB, studentID uuid.UUID, in AnswerInput) (*models.StudentAnswer, error) {
	var session models.QuizSession
	if err := db.Preload("Quiz").First(&session, "id = ?", in.SessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if session.StudentID != studentID {
		return nil, ErrForbidden
	}
	if session.Status != models.SessionInProgress {
		return nil, ErrSessionClosed
	}
	if sessionExpired(&session, answerGrace) {
		return nil, ErrSessionExpired
	}

	var question models.Question
	if err := db.First(&question, "id = ?", in.QuestionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if question.QuizID != session.QuizID {
		return nil, ErrQuestionNotInQuiz
	}

	idx, err := resolveSelectedIndex(&question, in)
	if err != nil {
		return nil, err
	}

	answer := models.StudentAnswer{
		SessionID:      session.ID,
		QuestionID:     question.ID,
		StudentID:      studentID,
		SelectedIndex:  idx,
		SelectedAnswer: question.Options[idx],
		IsCorrect:      idx == question.CorrectAnswer,
		AnsweredAt:     time.Now(),
	}

	// Upsert on (session, question): answers may change until submission,
	// last write wins.
	err = db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"selected_index", "selected_answer", "is_correct", "answered_at",
		}),
	}).Create(&answer).Error
	if err != nil {
		return nil, err
	}

	// Re-read so the caller sees the stored row, not the insert candidate.
	// A fresh dest matters: answer's hook already assigned an id, and a
	// populated primary key would end up in the query conditions.
	var stored models.StudentAnswer
	if err := db.First(&stored, "session_id = ? AND question_id = ?", session.ID, question.ID).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func resolveSelectedIndex(question *models.Question, in AnswerInput) (int, error) {
	if in.SelectedIndex != nil {
		idx := *in.SelectedIndex
		if idx < 0 || idx >= len(question.Options) {
			return 0, ErrValidation
		}
		return idx, nil
	}
	for i, opt := range question.Options {
		if opt == in.SelectedAnswer {
			return i, nil
		}
	}
	return 0, ErrValidation
}

func sessionExpired(session *models.QuizSession, grace time.Duration) bool {
	if session.Quiz.Duration <= 0 {
		return false
	}
	deadline := session.StartTime.
		Add(time.Duration(session.Quiz.Duration) * time.Minute).
		Add(grace)
	return time.Now().After(deadline)
}

// SubmitSession scores and closes a session in one transaction: count the
// recorded answers, flip the status, stamp the end time and create the
// Result. The Result's unique (quiz, student) index makes a concurrent
// double-submit fail instead of producing a second Result.
func SubmitSession(db *gorm.DB, sessionID, studentID uuid.UUID) (*models.QuizSession, *models.Result, error) {
	var session models.QuizSession
	var result models.Result

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Quiz").First(&session, "id = ?", sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if session.StudentID != studentID {
			return ErrForbidden
		}
		if session.Status != models.SessionInProgress {
			return ErrSessionClosed
		}

		var answers []models.StudentAnswer
		if err := tx.Where("session_id = ?", session.ID).Find(&answers).Error; err != nil {
			return err
		}

		correct := 0
		for _, a := range answers {
			if a.IsCorrect {
				correct++
			}
		}
		// Scored on what was actually answered, skipped questions do not count
		// into the total.
		total := len(answers)
		percentage := 0.0
		if total > 0 {
			percentage = float64(correct) / float64(total) * 100
		}
		passingScore := session.Quiz.PassingScore
		if passingScore == 0 {
			passingScore = 60
		}

		now := time.Now()
		if err := tx.Model(&session).Updates(map[string]interface{}{
			"status":   models.SessionSubmitted,
			"end_time": now,
		}).Error; err != nil {
			return err
		}
		session.Status = models.SessionSubmitted
		session.EndTime = &now

		result = models.Result{
			QuizID:         session.QuizID,
			StudentID:      session.StudentID,
			SessionID:      session.ID,
			Score:          correct,
			TotalQuestions: total,
			Percentage:     percentage,
			PassingStatus:  percentage >= float64(passingScore),
			SubmittedAt:    now,
		}
		if err := tx.Create(&result).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrAlreadyAttempted
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &session, &result, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

// GetSession returns a session with its sanitized questions in session order
// and the caller's answers so far. Students see only their own sessions; the
// quiz owner may inspect any session of their quiz.
func GetSession(db *gorm.DB, sessionID, callerID uuid.UUID) (*models.QuizSession, []models.PublicQuestion, error) {
	var session models.QuizSession
	err := db.Preload("Quiz.Questions").Preload("Answers").First(&session, "id = ?", sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	if session.StudentID != callerID && session.Quiz.LecturerID != callerID {
		return nil, nil, ErrForbidden
	}
	questions := orderedPublicQuestions(session.Quiz.Questions, session.QuestionOrder)
	session.Quiz.Questions = nil
	return &session, questions, nil
}
