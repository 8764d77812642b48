package posts

import (
	"errors"
	"net/http"
	"strings"

	"mindful-backend/db"
	"mindful-backend/metrics"
	"mindful-backend/models"
	"mindful-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// @Summary List posts
// @Description Newest posts first, with their tags
// @Tags posts
// @Produce json
// @Param limit query int false "Page size (default 50)"
// @Param offset query int false "Offset (default 0)"
// @Success 200 {array} models.Post
// @Failure 500 {object} map[string]string "message: Failed to fetch posts"
// @Router /api/posts [get]
func GetAllPosts(c *gin.Context) {
	limit := utils.QueryInt(c, "limit", defaultPageSize)
	if limit == 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset := utils.QueryInt(c, "offset", 0)

	var posts []models.Post
	err := db.DB.Preload("Tags").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		utils.LogError(err, "Error fetching posts in GetAllPosts")
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}

	c.JSON(http.StatusOK, redactAll(posts))
}

// @Summary List my posts
// @Description Posts written by the authenticated user, anonymous ones included
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Post
// @Failure 401 {object} map[string]string "message: Unauthorized"
// @Failure 500 {object} map[string]string "message: Failed to fetch user posts"
// @Router /api/posts/my [get]
func GetMyPosts(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.SendError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var posts []models.Post
	err := db.DB.Preload("Tags").
		Where("author_id = ?", userID).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error fetching posts in GetMyPosts")
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch user posts")
		return
	}

	// the author sees their own posts unredacted
	c.JSON(http.StatusOK, posts)
}

// @Summary Search posts
// @Description Case-insensitive search on title and content
// @Tags posts
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {array} models.Post
// @Failure 400 {object} map[string]string "message: Search query required"
// @Failure 500 {object} map[string]string "message: Failed to search posts"
// @Router /api/posts/search [get]
func SearchPosts(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		utils.SendError(c, http.StatusBadRequest, "Search query required")
		return
	}

	pattern := "%" + query + "%"
	var posts []models.Post
	err := db.DB.Preload("Tags").
		Where("title ILIKE ? OR content ILIKE ?", pattern, pattern).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		utils.LogError(err, "Error searching posts in SearchPosts")
		utils.SendError(c, http.StatusInternalServerError, "Failed to search posts")
		return
	}

	c.JSON(http.StatusOK, redactAll(posts))
}

// @Summary Get a post by ID
// @Description Retrieve a post and its tags
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 400 {object} map[string]string "message: Invalid post ID"
// @Failure 404 {object} map[string]string "message: Post not found"
// @Failure 500 {object} map[string]string "message: Failed to fetch post"
// @Router /api/posts/{id} [get]
func GetPostByID(c *gin.Context) {
	postID, err := utils.ParseID(c, "id")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid post ID")
		return
	}

	var post models.Post
	if err := db.DB.Preload("Tags").First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendError(c, http.StatusNotFound, "Post not found")
			return
		}
		utils.LogError(err, "Error fetching post in GetPostByID")
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch post")
		return
	}

	c.JSON(http.StatusOK, post.Redacted())
}

// @Summary Create a post
// @Description Publish a post after moderation. Unknown tags are created on the fly.
// @Tags posts
// @Accept json
// @Produce json
// @Param post body models.PostCreate true "Post"
// @Security BearerAuth
// @Success 201 {object} models.Post
// @Failure 400 {object} map[string]string "message: Invalid input or content violates community guidelines"
// @Failure 401 {object} map[string]string "message: Unauthorized"
// @Failure 500 {object} map[string]string "message: Failed to create post"
// @Router /api/posts [post]
func CreatePost(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.SendError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input models.PostCreate
	if !utils.ValidateRequestBody(c, &input) {
		return
	}

	verdict := utils.AI.Moderate(c.Request.Context(), input.Title+" "+input.Content)
	if verdict.Flagged {
		metrics.ModerationFlaggedTotal.WithLabelValues("post").Inc()
		utils.Logger.WithField("user_id", userID).WithField("reason", verdict.Reason).Warn("Post rejected by moderation")
		utils.SendError(c, http.StatusBadRequest, "Content violates community guidelines")
		return
	}

	post := models.Post{
		Title:       strings.TrimSpace(input.Title),
		Content:     input.Content,
		Excerpt:     models.BuildExcerpt(input.Content),
		AuthorID:    userID.(string),
		IsAnonymous: input.IsAnonymous,
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		tags, err := findOrCreateTags(tx, input.Tags)
		if err != nil {
			return err
		}
		post.Tags = tags
		return tx.Create(&post).Error
	})
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error creating post in CreatePost")
		utils.SendError(c, http.StatusInternalServerError, "Failed to create post")
		return
	}

	utils.LogSuccessWithUser(userID, "Post created")
	c.JSON(http.StatusCreated, post)
}

// @Summary Delete a post
// @Description Only the author may delete a post. Its votes, comments and tag links go with it.
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Post deleted successfully"
// @Failure 400 {object} map[string]string "message: Invalid post ID"
// @Failure 401 {object} map[string]string "message: Unauthorized"
// @Failure 403 {object} map[string]string "message: Not authorized to delete this post"
// @Failure 500 {object} map[string]string "message: Failed to delete post"
// @Router /api/posts/{id} [delete]
func DeletePost(c *gin.Context) {
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

	var post models.Post
	if err := db.DB.Where("id = ? AND author_id = ?", postID, userID).First(&post).Error; err != nil {
		// a missing post and someone else's post look the same to the caller
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendError(c, http.StatusForbidden, "Not authorized to delete this post")
			return
		}
		utils.LogErrorWithUser(userID, err, "Error fetching post in DeletePost")
		utils.SendError(c, http.StatusInternalServerError, "Failed to delete post")
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostVote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Select("Tags").Delete(&post).Error
	})
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error deleting post in DeletePost")
		utils.SendError(c, http.StatusInternalServerError, "Failed to delete post")
		return
	}

	utils.LogSuccessWithUser(userID, "Post deleted")
	utils.SendMessage(c, http.StatusOK, "Post deleted successfully")
}

// @Summary Suggest post ideas
// @Description Ask the assistant for post ideas matching the given tags
// @Tags posts
// @Accept json
// @Produce json
// @Param request body models.PostSuggestionRequest true "Tags"
// @Security BearerAuth
// @Success 200 {object} map[string][]string "suggestions"
// @Failure 400 {object} map[string]string "message: Invalid input"
// @Failure 401 {object} map[string]string "message: Unauthorized"
// @Router /api/posts/suggestions [post]
func GetSuggestions(c *gin.Context) {
	if _, exists := c.Get("user_id"); !exists {
		utils.SendError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input models.PostSuggestionRequest
	if !utils.ValidateRequestBody(c, &input) {
		return
	}

	suggestions := utils.AI.SuggestPosts(c.Request.Context(), input.Tags)
	if suggestions == nil {
		suggestions = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// findOrCreateTags resolves tag names, creating the unknown ones with the default color.
func findOrCreateTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	seen := make(map[string]bool, len(names))
	tags := make([]models.Tag, 0, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		var tag models.Tag
		err := tx.Where(models.Tag{Name: name}).
			Attrs(models.Tag{Color: models.DefaultTagColor}).
			FirstOrCreate(&tag).Error
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	return tags, nil
}

func redactAll(posts []models.Post) []models.Post {
	out := make([]models.Post, len(posts))
	for i, p := range posts {
		out[i] = p.Redacted()
	}
	return out
}
