package comments

import (
	"errors"
	"net/http"
	"strings"

	"mindful-backend/db"
	"mindful-backend/metrics"
	"mindful-backend/models"
	"mindful-backend/realtime"
	"mindful-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errPostNotFound   = errors.New("post not found")
	errParentNotFound = errors.New("parent comment not found on this post")
)

// @Summary List comments of a post
// @Description Newest comments first
// @Tags comments
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {array} models.Comment
// @Failure 400 {object} map[string]string "message: Invalid post ID"
// @Failure 500 {object} map[string]string "message: Failed to fetch comments"
// @Router /api/posts/{id}/comments [get]
func GetComments(c *gin.Context) {
	postID, err := utils.ParseID(c, "id")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid post ID")
		return
	}

	var comments []models.Comment
	if err := db.DB.Where("post_id = ?", postID).Order("created_at DESC").Find(&comments).Error; err != nil {
		utils.LogError(err, "Error fetching comments in GetComments")
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch comments")
		return
	}

	if comments == nil {
		comments = []models.Comment{}
	}
	c.JSON(http.StatusOK, comments)
}

// @Summary Comment a post
// @Description Add a comment or a reply after moderation and bump the post's comment count
// @Tags comments
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param comment body models.CommentCreate true "Comment"
// @Security BearerAuth
// @Success 201 {object} models.Comment
// @Failure 400 {object} map[string]string "message: Invalid input or comment violates community guidelines"
// @Failure 401 {object} map[string]string "message: Unauthorized"
// @Failure 404 {object} map[string]string "message: Post not found"
// @Failure 500 {object} map[string]string "message: Failed to create comment"
// @Router /api/posts/{id}/comments [post]
func CreateComment(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.SendError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	postID, err := utils.ParseID(c, "id")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid post ID")
		return
	}

	var input models.CommentCreate
	if !utils.ValidateRequestBody(c, &input) {
		return
	}
	input.Content = strings.TrimSpace(input.Content)
	if input.Content == "" {
		utils.SendError(c, http.StatusBadRequest, "Comment content is required")
		return
	}

	verdict := utils.AI.Moderate(c.Request.Context(), input.Content)
	if verdict.Flagged {
		metrics.ModerationFlaggedTotal.WithLabelValues("comment").Inc()
		utils.Logger.WithField("user_id", userID).WithField("reason", verdict.Reason).Warn("Comment rejected by moderation")
		utils.SendError(c, http.StatusBadRequest, "Comment violates community guidelines")
		return
	}

	comment := models.Comment{
		Content:  input.Content,
		AuthorID: userID.(string),
		PostID:   postID,
		ParentID: input.ParentID,
	}

	var post models.Post
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&post, "id = ?", postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errPostNotFound
			}
			return err
		}

		if comment.ParentID != nil {
			var parent models.Comment
			if err := tx.Where("id = ? AND post_id = ?", *comment.ParentID, postID).First(&parent).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errParentNotFound
				}
				return err
			}
		}

		if err := tx.Create(&comment).Error; err != nil {
			return err
		}

		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + ?", 1)).Error
	})

	switch {
	case errors.Is(err, errPostNotFound):
		utils.SendError(c, http.StatusNotFound, "Post not found")
		return
	case errors.Is(err, errParentNotFound):
		utils.SendError(c, http.StatusBadRequest, "Parent comment not found on this post")
		return
	case err != nil:
		utils.LogErrorWithUser(userID, err, "Error creating comment in CreateComment")
		utils.SendError(c, http.StatusInternalServerError, "Failed to create comment")
		return
	}

	utils.LogSuccessWithUser(userID, "Comment created")
	realtime.BroadcastComment(comment, post.CommentCount+1)
	c.JSON(http.StatusCreated, comment)
}
