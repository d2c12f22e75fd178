package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Result is created exactly once, when a session is submitted. The unique
// index on (quiz_id, student_id) is the one-attempt-per-quiz guard: the
// application-level check in StartSession is advisory, this constraint is
// what holds under concurrency.
type Result struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_quiz_student" json:"quiz_id"`
	Quiz      Quiz      `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE;" json:"quiz,omitempty"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_quiz_student" json:"student_id"`
	Student   User      `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE;" json:"student,omitempty"`
	SessionID uuid.UUID `gorm:"type:uuid;not null" json:"session_id"`

	Score          int       `gorm:"not null" json:"score"` // count of correct answers
	TotalQuestions int       `gorm:"not null" json:"total_questions"`
	Percentage     float64   `gorm:"type:numeric(5,2);not null" json:"percentage"`
	PassingStatus  bool      `gorm:"not null" json:"passing_status"`
	SubmittedAt    time.Time `gorm:"autoCreateTime" json:"submitted_at"`
}

func (r *Result) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
