package models

import (
	"time"
)

type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

func (v VoteType) Valid() bool {
	return v == VoteUp || v == VoteDown
}

// PostVote is a user's standing vote on a post. The composite unique index keeps one row per (user, post).
type PostVote struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"userId" gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_post_votes_user_post"`
	PostID    uint      `json:"postId" gorm:"column:post_id;not null;uniqueIndex:idx_post_votes_user_post"`
	VoteType  VoteType  `json:"voteType" gorm:"column:vote_type;type:varchar(10);not null"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostVoteCreate model for voting on a post
// @Description voteType is either "up" or "down"
type PostVoteCreate struct {
	VoteType VoteType `json:"voteType" binding:"required" example:"up"`
}

func (PostVote) TableName() string {
	return "post_votes"
}
