package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MaterialStatusUploading  = "uploading"
	MaterialStatusExtracting = "extracting"
	MaterialStatusReady      = "ready"
	MaterialStatusFailed     = "failed" // uploaded but text extraction failed
)

type Material struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LecturerID  uuid.UUID `gorm:"type:uuid;not null;index" json:"lecturer_id"`
	Lecturer    User      `gorm:"foreignKey:LecturerID;constraint:OnDelete:CASCADE;" json:"lecturer,omitempty"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	// Plain text extracted from the uploaded file. Empty when extraction failed.
	Content   string    `gorm:"type:text" json:"content"`
	FileURL   string    `gorm:"type:text" json:"file_url"`
	FileType  string    `gorm:"size:20" json:"file_type"` // pdf|docx|txt
	FileSize  int64     `json:"file_size"`
	Status    string    `gorm:"size:30;default:'uploading'" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (m *Material) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
