package votes

import (
	"errors"
	"net/http"

	"mindful-backend/db"
	"mindful-backend/metrics"
	"mindful-backend/models"
	"mindful-backend/realtime"
	"mindful-backend/utils"
	ledger "mindful-backend/votes"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// @Summary Vote on a post
// @Description Cast an up or down vote. Repeating the same vote removes it, the opposite vote flips it.
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param vote body models.PostVoteCreate true "Vote"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Vote recorded successfully"
// @Failure 400 {object} map[string]string "message: Invalid input"
// @Failure 401 {object} map[string]string "message: Unauthorized"
// @Failure 404 {object} map[string]string "message: Post not found"
// @Failure 409 {object} map[string]string "message: Vote conflict, please try again"
// @Failure 503 {object} map[string]string "message: Vote service temporarily unavailable"
// @Failure 500 {object} map[string]string "message: Failed to record vote"
// @Router /api/posts/{id}/vote [post]
func VotePost(c *gin.Context) {
	rawUserID, _ := c.Get("user_id")
	userID, _ := rawUserID.(string)
	if userID == "" {
		reject(c, userID, ledger.ErrUnauthenticated)
		return
	}

	postID, err := utils.ParseID(c, "id")
	if err != nil {
		metrics.VoteErrorsTotal.WithLabelValues("bad_request").Inc()
		utils.SendError(c, http.StatusBadRequest, "Invalid post ID")
		return
	}

	var input models.PostVoteCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		metrics.VoteErrorsTotal.WithLabelValues("bad_request").Inc()
		utils.SendError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := ledger.CastVote(c.Request.Context(), db.DB, userID, postID, input.VoteType)
	if err != nil {
		reject(c, userID, err)
		return
	}

	metrics.VotesCastTotal.WithLabelValues(result.Action.String()).Inc()
	utils.Logger.WithFields(logrus.Fields{
		"function": "VotePost",
		"source":   "votes",
		"user_id":  userID,
		"post_id":  result.PostID,
		"action":   result.Action.String(),
		"votes":    result.Votes,
	}).Info("Vote recorded")

	realtime.BroadcastVotes(result.PostID, result.Votes)

	utils.SendMessage(c, http.StatusOK, "Vote recorded successfully")
}

// @Summary Get my vote on a post
// @Description Returns the caller's standing vote, or null when there is none
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "voteType: up, down or null"
// @Failure 400 {object} map[string]string "message: Invalid post ID"
// @Failure 401 {object} map[string]string "message: Unauthorized"
// @Failure 503 {object} map[string]string "message: Vote service temporarily unavailable"
// @Failure 500 {object} map[string]string "message: Failed to record vote"
// @Router /api/posts/{id}/vote [get]
func GetMyVote(c *gin.Context) {
	rawUserID, _ := c.Get("user_id")
	userID, _ := rawUserID.(string)
	if userID == "" {
		reject(c, userID, ledger.ErrUnauthenticated)
		return
	}

	postID, err := utils.ParseID(c, "id")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid post ID")
		return
	}

	vote, err := ledger.FindVote(c.Request.Context(), db.DB, userID, postID)
	if err != nil {
		status, message, _ := describe(err)
		utils.LogErrorWithUser(userID, err, "Error fetching vote in GetMyVote")
		utils.SendError(c, status, message)
		return
	}

	if vote == nil {
		c.JSON(http.StatusOK, gin.H{"voteType": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"voteType": vote.VoteType})
}

// reject logs a failed vote and answers with the matching status.
func reject(c *gin.Context, userID string, err error) {
	status, message, reason := describe(err)
	metrics.VoteErrorsTotal.WithLabelValues(reason).Inc()

	if status >= http.StatusInternalServerError {
		utils.LogErrorWithUser(userID, err, "Error recording vote in VotePost")
	} else {
		utils.Logger.WithField("user_id", userID).WithField("reason", reason).Warn("Vote rejected")
	}

	utils.SendError(c, status, message)
}

func describe(err error) (status int, message string, reason string) {
	switch {
	case errors.Is(err, ledger.ErrUnauthenticated):
		return http.StatusUnauthorized, "Unauthorized", "unauthenticated"
	case errors.Is(err, ledger.ErrInvalidVoteType):
		return http.StatusBadRequest, "Invalid vote type, expected up or down", "invalid_vote_type"
	case errors.Is(err, ledger.ErrPostNotFound):
		return http.StatusNotFound, "Post not found", "post_not_found"
	case errors.Is(err, ledger.ErrVoteConflict):
		return http.StatusConflict, "Vote conflict, please try again", "conflict"
	case errors.Is(err, ledger.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "Vote service temporarily unavailable", "unavailable"
	default:
		return http.StatusInternalServerError, "Failed to record vote", "internal"
	}
}
