package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/quanghuy/intelliquiz-backend/config"
	"github.com/quanghuy/intelliquiz-backend/models"
)

var testDBSeq int64

// newTestDB opens a private in-memory database per test. The shared cache
// keeps the database alive across the connections of gorm's pool.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()
	user := models.User{
		Email:     fmt.Sprintf("%s@test.local", uuid.NewString()),
		Password:  "hashed",
		FirstName: "Test",
		LastName:  string(role),
		Role:      role,
	}
	if role == models.RoleStudent {
		regNo := "REG-" + uuid.NewString()[:8]
		user.RegNo = &regNo
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

// createTestQuiz makes a published quiz with n questions, each with four
// options and option 0 correct.
func createTestQuiz(t *testing.T, db *gorm.DB, lecturerID uuid.UUID, n int) *models.Quiz {
	t.Helper()
	in := CreateQuizInput{
		Title:    "Operating Systems Midterm",
		Duration: 30,
	}
	for i := 0; i < n; i++ {
		in.Questions = append(in.Questions, QuestionInput{
			Text:          fmt.Sprintf("Question %d?", i+1),
			Options:       []string{"Option A", "Option B", "Option C", "Option D"},
			CorrectAnswer: 0,
		})
	}
	quiz, err := CreateQuiz(db, lecturerID, in)
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	quiz, err = PublishQuiz(db, quiz.ID, lecturerID)
	if err != nil {
		t.Fatalf("publish quiz: %v", err)
	}
	if err := db.Preload("Questions").First(quiz, "id = ?", quiz.ID).Error; err != nil {
		t.Fatalf("reload quiz: %v", err)
	}
	return quiz
}

func intPtr(v int) *int { return &v }

func backdateSession(t *testing.T, db *gorm.DB, sessionID uuid.UUID, d time.Duration) {
	t.Helper()
	err := db.Model(&models.QuizSession{}).
		Where("id = ?", sessionID).
		Update("start_time", time.Now().Add(-d)).Error
	if err != nil {
		t.Fatalf("backdate session: %v", err)
	}
}
