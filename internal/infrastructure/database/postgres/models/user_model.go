package models

import (
	"time"

	"github.com/google/uuid"
)

// UserModel represents the database model for User
type UserModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email          string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	Username       string     `gorm:"type:varchar(100);not null;uniqueIndex"`
	PasswordHashed string     `gorm:"type:varchar(255);not null"`
	Role           string     `gorm:"type:varchar(50);not null;default:'user'"`
	Status         string     `gorm:"type:varchar(50);not null;default:'inactive'"`
	EmailVerified  bool       `gorm:"default:false;not null"`
	Bio            string     `gorm:"type:text"`
	ProfileImageID *uuid.UUID `gorm:"type:uuid"`

	PasswordResetToken       *string    `gorm:"type:varchar(500)"`
	PasswordResetExpires     *time.Time `gorm:"type:timestamp"`
	EmailVerificationToken   *string    `gorm:"type:varchar(500)"`
	EmailVerificationExpires *time.Time `gorm:"type:timestamp"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}
