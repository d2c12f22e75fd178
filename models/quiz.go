package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

type Quiz struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LecturerID  uuid.UUID `gorm:"type:uuid;not null;index" json:"lecturer_id"`
	Lecturer    User      `gorm:"foreignKey:LecturerID;constraint:OnDelete:CASCADE;" json:"lecturer,omitempty"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	// Duration in minutes. Advisory for the client countdown, enforced
	// server-side when answering and by the session sweeper.
	Duration     int       `gorm:"not null" json:"duration"`
	PassingScore int       `gorm:"default:60" json:"passing_score"` // percentage
	IsPublished  bool      `gorm:"default:false" json:"is_published"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Questions []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (q *Quiz) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

type Question struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID uuid.UUID `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Quiz   Quiz      `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE;" json:"-"`
	// Set when the question was generated from a material.
	MaterialID *uuid.UUID `gorm:"type:uuid;index" json:"material_id,omitempty"`

	Text    string                      `gorm:"type:text;not null" json:"text"`
	Options datatypes.JSONSlice[string] `gorm:"not null" json:"options"`
	// Zero-based index into Options. Invariant: 0 <= CorrectAnswer < len(Options).
	CorrectAnswer int        `gorm:"not null" json:"correct_answer"`
	Explanation   string     `gorm:"type:text" json:"explanation,omitempty"`
	Difficulty    Difficulty `gorm:"size:20" json:"difficulty,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// PublicQuestion is the student-facing shape: no correct index, no explanation.
type PublicQuestion struct {
	ID      uuid.UUID `json:"id"`
	QuizID  uuid.UUID `json:"quiz_id"`
	Text    string    `json:"text"`
	Options []string  `json:"options"`
}

func (q Question) Public() PublicQuestion {
	return PublicQuestion{
		ID:      q.ID,
		QuizID:  q.QuizID,
		Text:    q.Text,
		Options: q.Options,
	}
}
