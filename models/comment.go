package models

import (
	"time"
)

type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	AuthorID  string    `json:"authorId" gorm:"column:author_id;type:uuid;not null"`
	PostID    uint      `json:"postId" gorm:"column:post_id;not null;index"`
	ParentID  *uint     `json:"parentId,omitempty" gorm:"column:parent_id"`
	Votes     int       `json:"votes" gorm:"default:0"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CommentCreate model for commenting a post
type CommentCreate struct {
	Content  string `json:"content" binding:"required" example:"Thank you for sharing this."`
	ParentID *uint  `json:"parentId"`
}

func (Comment) TableName() string {
	return "comments"
}
