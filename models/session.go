package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SessionStatus string

const (
	SessionInProgress SessionStatus = "IN_PROGRESS"
	SessionSubmitted  SessionStatus = "SUBMITTED"
)

// QuizSession is one attempt by one student at one quiz. The randomized
// question order is fixed at start time and never changes afterwards.
type QuizSession struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID    uuid.UUID `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Quiz      Quiz      `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE;" json:"quiz,omitempty"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	Student   User      `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE;" json:"-"`

	Status        SessionStatus               `gorm:"type:varchar(20);not null;default:'IN_PROGRESS'" json:"status"`
	QuestionOrder datatypes.JSONSlice[string] `gorm:"not null" json:"question_order"`
	StartTime     time.Time                   `gorm:"not null" json:"start_time"`
	EndTime       *time.Time                  `json:"end_time,omitempty"`

	Answers []StudentAnswer `gorm:"foreignKey:SessionID" json:"answers,omitempty"`
}

func (s *QuizSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// StudentAnswer is upserted on (session, question): a student may change an
// answer any number of times before submission, only the last value counts.
type StudentAnswer struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID  uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_session_question" json:"session_id"`
	Session    QuizSession `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE;" json:"-"`
	QuestionID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_session_question" json:"question_id"`
	Question   Question    `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE;" json:"question,omitempty"`
	StudentID  uuid.UUID   `gorm:"type:uuid;not null;index" json:"student_id"`

	SelectedIndex  int       `gorm:"not null" json:"selected_index"`
	SelectedAnswer string    `gorm:"type:text" json:"selected_answer"`
	IsCorrect      bool      `gorm:"not null" json:"is_correct"`
	AnsweredAt     time.Time `gorm:"autoUpdateTime" json:"answered_at"`
}

func (a *StudentAnswer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
