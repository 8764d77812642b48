package models

import (
	"time"
)

// ChatMessage is one turn of a user's conversation with the assistant.
type ChatMessage struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"userId" gorm:"column:user_id;type:uuid;not null;index"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	IsFromUser bool      `json:"isFromUser" gorm:"column:is_from_user;not null"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ChatMessageCreate model for sending a message to the assistant
type ChatMessageCreate struct {
	Content string `json:"content" example:"I have trouble sleeping lately."`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
