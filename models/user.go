package models

import (
	"time"
)

type Role string

const (
	AdminRole Role = "ADMIN"
	UserRole  Role = "USER"
)

// User is a registered community member. Password holds the bcrypt hash and is never serialized.
type User struct {
	ID              string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Email           string    `json:"email" gorm:"uniqueIndex;not null"`
	Password        string    `json:"-" gorm:"not null"`
	FirstName       string    `json:"firstName" gorm:"column:first_name"`
	LastName        string    `json:"lastName" gorm:"column:last_name"`
	ProfileImageURL string    `json:"profileImageUrl" gorm:"column:profile_image_url"`
	Role            Role      `json:"role" gorm:"type:varchar(20);default:'USER'"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// UserCreate model for registration
// @Description model for registering a new user
type UserCreate struct {
	Email     string `json:"email" binding:"required" example:"jane.doe@example.com"`
	Password  string `json:"password" binding:"required" example:"Password123"`
	FirstName string `json:"firstName" example:"Jane"`
	LastName  string `json:"lastName" example:"Doe"`
}

// UserLogin model for login
type UserLogin struct {
	Email    string `json:"email" binding:"required" example:"jane.doe@example.com"`
	Password string `json:"password" binding:"required" example:"Password123"`
}

func (User) TableName() string {
	return "users"
}
