package chat

import (
	"net/http"
	"strings"

	"mindful-backend/db"
	"mindful-backend/metrics"
	"mindful-backend/models"
	"mindful-backend/utils"

	"github.com/gin-gonic/gin"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 100
	// turns replayed to the assistant as context
	contextWindow = 10
)

// @Summary Chat history
// @Description The caller's latest messages with the assistant, oldest first
// @Tags chat
// @Produce json
// @Param limit query int false "Number of messages (default 50)"
// @Security BearerAuth
// @Success 200 {array} models.ChatMessage
// @Failure 401 {object} map[string]string "message: Unauthorized"
// @Failure 500 {object} map[string]string "message: Failed to fetch chat messages"
// @Router /api/chat/messages [get]
func GetMessages(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.SendError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit := utils.QueryInt(c, "limit", defaultHistoryLimit)
	if limit == 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	messages, err := latestMessages(userID, limit)
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error fetching chat messages in GetMessages")
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch chat messages")
		return
	}

	c.JSON(http.StatusOK, messages)
}

// @Summary Talk to the assistant
// @Description Stores the message, asks the assistant with the recent conversation as context and stores its reply
// @Tags chat
// @Accept json
// @Produce json
// @Param message body models.ChatMessageCreate true "Message"
// @Security BearerAuth
// @Success 200 {object} map[string]models.ChatMessage "userMessage, aiMessage"
// @Failure 400 {object} map[string]string "message: Message content is required"
// @Failure 401 {object} map[string]string "message: Unauthorized"
// @Failure 429 {object} map[string]string "message: Too many requests"
// @Failure 500 {object} map[string]string "message: Failed to send message"
// @Router /api/chat/messages [post]
func SendMessage(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.SendError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input models.ChatMessageCreate
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Content) == "" {
		utils.SendError(c, http.StatusBadRequest, "Message content is required")
		return
	}

	history, err := latestMessages(userID, contextWindow)
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error loading chat context in SendMessage")
		utils.SendError(c, http.StatusInternalServerError, "Failed to send message")
		return
	}

	userMessage := models.ChatMessage{
		UserID:     userID.(string),
		Content:    input.Content,
		IsFromUser: true,
	}
	if err := db.DB.Create(&userMessage).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Error saving user message in SendMessage")
		utils.SendError(c, http.StatusInternalServerError, "Failed to send message")
		return
	}
	metrics.ChatMessagesTotal.Inc()

	reply := utils.AI.Reply(c.Request.Context(), history, input.Content)

	aiMessage := models.ChatMessage{
		UserID:     userID.(string),
		Content:    reply,
		IsFromUser: false,
	}
	if err := db.DB.Create(&aiMessage).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Error saving assistant reply in SendMessage")
		utils.SendError(c, http.StatusInternalServerError, "Failed to send message")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userMessage": userMessage,
		"aiMessage":   aiMessage,
	})
}

// latestMessages returns the user's last n messages in chronological order.
func latestMessages(userID interface{}, n int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := db.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(n).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	return messages, nil
}
