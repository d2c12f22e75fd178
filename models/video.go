package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VideoSubmission is the optional webcam recording tied to a session.
// Purely observational, it never influences scoring. One video per session.
type VideoSubmission struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex" json:"session_id"`
	Session   QuizSession `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE;" json:"-"`
	StudentID uuid.UUID   `gorm:"type:uuid;not null;index" json:"student_id"`

	VideoURL   string    `gorm:"type:text;not null" json:"video_url"`
	Duration   int       `json:"duration"` // seconds, 0 when unknown
	FileSize   int64     `json:"file_size"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (v *VideoSubmission) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
