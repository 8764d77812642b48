package testutils

import (
	"context"

	"mindful-backend/models"
	"mindful-backend/utils"
)

// FakeAssistant is a scripted utils.Assistant.
type FakeAssistant struct {
	ReplyText   string
	Flagged     bool
	Suggestions []string

	LastHistory []models.ChatMessage
	LastPrompt  string
}

func (f *FakeAssistant) Reply(ctx context.Context, history []models.ChatMessage, message string) string {
	f.LastHistory = history
	f.LastPrompt = message
	return f.ReplyText
}

func (f *FakeAssistant) Moderate(ctx context.Context, content string) utils.ModerationResult {
	f.LastPrompt = content
	if f.Flagged {
		return utils.ModerationResult{Flagged: true, Reason: "Content flagged for: harassment"}
	}
	return utils.ModerationResult{}
}

func (f *FakeAssistant) SuggestPosts(ctx context.Context, tags []string) []string {
	return f.Suggestions
}

// UseAssistant installs a for the duration of the test.
func UseAssistant(t interface{ Cleanup(func()) }, a utils.Assistant) {
	original := utils.AI
	utils.AI = a
	t.Cleanup(func() { utils.AI = original })
}
