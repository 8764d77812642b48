package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

const excerptLength = 200

type Post struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Title        string    `json:"title" gorm:"type:varchar(255);not null"`
	Content      string    `json:"content" gorm:"type:text;not null"`
	Excerpt      string    `json:"excerpt" gorm:"type:text"`
	AuthorID     string    `json:"authorId,omitempty" gorm:"column:author_id;type:uuid;not null;index"`
	IsAnonymous  bool      `json:"isAnonymous" gorm:"column:is_anonymous;default:false"`
	Votes        int       `json:"votes" gorm:"default:0"`
	CommentCount int       `json:"commentCount" gorm:"column:comment_count;default:0"`
	Tags         []Tag     `json:"tags" gorm:"many2many:post_tags;"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PostCreate model for creating a post
// @Description model for creating a post
type PostCreate struct {
	Title       string   `json:"title" binding:"required,max=255" example:"Coping with exam anxiety"`
	Content     string   `json:"content" binding:"required" example:"Here is what helped me..."`
	IsAnonymous bool     `json:"isAnonymous"`
	Tags        []string `json:"tags" example:"anxiety,students"`
}

// PostSuggestionRequest model for asking title suggestions
type PostSuggestionRequest struct {
	Tags []string `json:"tags" binding:"required,min=1"`
}

func (Post) TableName() string {
	return "posts"
}

// Redacted hides the author of an anonymous post.
func (p Post) Redacted() Post {
	if p.IsAnonymous {
		p.AuthorID = ""
	}
	return p
}

// BuildExcerpt returns the first 200 characters of content, followed by "..." when truncated.
func BuildExcerpt(content string) string {
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) <= excerptLength {
		return content
	}
	runes := []rune(content)
	return string(runes[:excerptLength]) + "..."
}
