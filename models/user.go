package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleLecturer UserRole = "LECTURER" // creates materials and quizzes
	RoleStudent  UserRole = "STUDENT"  // takes quizzes
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	FirstName string    `gorm:"size:100;not null" json:"first_name"`
	LastName  string    `gorm:"size:100;not null" json:"last_name"`
	Role      UserRole  `gorm:"type:varchar(20);not null;default:'STUDENT'" json:"role"`
	// Registration number, students only. Unique when present.
	RegNo     *string   `gorm:"size:50;uniqueIndex" json:"reg_no,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Materials []Material `gorm:"foreignKey:LecturerID" json:"materials,omitempty"`
	Quizzes   []Quiz     `gorm:"foreignKey:LecturerID" json:"quizzes,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
