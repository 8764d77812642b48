package votes

import (
	"context"
	"errors"

	"mindful-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Result describes the state after a vote was cast.
type Result struct {
	PostID uint
	Action Action
	Vote   models.VoteType
	Votes  int
}

// CastVote records voteType for userID on postID and adjusts the post tally in the
// same transaction. The post row is locked first, so concurrent votes on one post,
// including two requests from the same user, are applied one after the other.
func CastVote(ctx context.Context, db *gorm.DB, userID string, postID uint, voteType models.VoteType) (Result, error) {
	if userID == "" {
		return Result{}, ErrUnauthenticated
	}
	if !voteType.Valid() {
		return Result{}, ErrInvalidVoteType
	}

	var result Result
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "votes").
			First(&post, postID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		if err != nil {
			return err
		}

		existing, err := findVote(tx, userID, postID)
		if err != nil {
			return err
		}

		current := None
		if existing != nil {
			current = existing.VoteType
		}

		t, err := Resolve(current, voteType)
		if err != nil {
			return err
		}

		switch t.Action {
		case ActionInsert:
			vote := models.PostVote{UserID: userID, PostID: postID, VoteType: t.Next}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
		case ActionDelete:
			if err := tx.Delete(existing).Error; err != nil {
				return err
			}
		case ActionFlip:
			if err := tx.Model(existing).Update("vote_type", t.Next).Error; err != nil {
				return err
			}
		}

		if err := adjustTally(tx, postID, t.Delta); err != nil {
			return err
		}

		// the row is locked, so the value read above plus our delta is the stored tally
		result = Result{
			PostID: postID,
			Action: t.Action,
			Vote:   t.Next,
			Votes:  post.Votes + t.Delta,
		}
		return nil
	})
	if err != nil {
		return Result{}, classify(err)
	}

	return result, nil
}

// FindVote returns the user's vote on a post, or nil when there is none.
func FindVote(ctx context.Context, db *gorm.DB, userID string, postID uint) (*models.PostVote, error) {
	vote, err := findVote(db.WithContext(ctx), userID, postID)
	if err != nil {
		return nil, classify(err)
	}
	return vote, nil
}

func findVote(tx *gorm.DB, userID string, postID uint) (*models.PostVote, error) {
	var vote models.PostVote
	err := tx.Where("user_id = ? AND post_id = ?", userID, postID).Take(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

func adjustTally(tx *gorm.DB, postID uint, delta int) error {
	if delta == 0 {
		return nil
	}
	return tx.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("votes", gorm.Expr("votes + ?", delta)).Error
}
