package models

import (
	"time"
)

// Doctor is a directory entry. Rating is stored in tenths: 45 means 4.5.
type Doctor struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	Name            string     `json:"name" gorm:"type:varchar(255);not null"`
	Specialization  string     `json:"specialization" gorm:"type:varchar(255);not null;index"`
	Experience      int        `json:"experience" gorm:"not null"`
	Rating          int        `json:"rating" gorm:"default:0"`
	Bio             string     `json:"bio" gorm:"type:text"`
	ProfileImageURL string     `json:"profileImageUrl" gorm:"column:profile_image_url"`
	IsAvailable     bool       `json:"isAvailable" gorm:"column:is_available;not null"`
	NextAvailable   *time.Time `json:"nextAvailable,omitempty" gorm:"column:next_available"`
	CreatedAt       time.Time  `json:"createdAt"`
}

func (Doctor) TableName() string {
	return "doctors"
}

type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionApproved ConnectionStatus = "approved"
	ConnectionDeclined ConnectionStatus = "declined"
)

type DoctorConnection struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	UserID    string           `json:"userId" gorm:"column:user_id;type:uuid;not null;index"`
	DoctorID  uint             `json:"doctorId" gorm:"column:doctor_id;not null"`
	Status    ConnectionStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	Message   string           `json:"message" gorm:"type:text"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// DoctorConnectionCreate model for requesting a connection with a doctor
type DoctorConnectionCreate struct {
	Message string `json:"message" example:"I would like to book a first session."`
}

func (DoctorConnection) TableName() string {
	return "doctor_connections"
}
