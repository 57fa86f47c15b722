package models

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Firstname    string   `gorm:"size:100;not null"`
	Lastname     string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null;default:user"`
	ImageURL     *string  `gorm:"size:255"` // profil fotoğrafı (opsiyonel)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
