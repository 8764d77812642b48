package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"mindful-backend/models"

	openai "github.com/sashabaranov/go-openai"
)

const (
	assistantSystemPrompt = `You are a compassionate mental health assistant named Mindful AI. You provide supportive, empathetic responses to users seeking mental health guidance. Always:
- Be warm, understanding, and non-judgmental
- Provide practical coping strategies and techniques
- Encourage professional help when appropriate
- Avoid diagnosing or prescribing medication
- Keep responses helpful but not overly long
- Use a calm, reassuring tone
- Remember this is for general guidance only and not a replacement for professional care`

	suggestionSystemPrompt = `You are a helpful assistant that generates thoughtful mental health post suggestions based on tags. Respond with JSON in this format: { "suggestions": ["suggestion1", "suggestion2", "suggestion3"] }`

	EmptyReplyFallback  = "I'm here to help, but I'm having trouble responding right now. Please try again."
	FailedReplyFallback = "I apologize, but I'm experiencing technical difficulties. Please try again in a moment, or consider reaching out to a mental health professional if you need immediate support."

	assistantMaxTokens   = 500
	assistantTemperature = 0.7
	assistantTimeout     = 30 * time.Second
)

type ModerationResult struct {
	Flagged bool
	Reason  string
}

// Assistant is the language-model collaborator. Implementations never fail:
// they degrade to a fallback reply, an unflagged verdict or no suggestions.
type Assistant interface {
	Reply(ctx context.Context, history []models.ChatMessage, message string) string
	Moderate(ctx context.Context, content string) ModerationResult
	SuggestPosts(ctx context.Context, tags []string) []string
}

// AI is the assistant used by the handlers. It answers with fallbacks until InitAssistant runs.
var AI Assistant = offlineAssistant{}

// InitAssistant connects AI to OpenAI. Without an API key the offline assistant stays in place.
func InitAssistant(apiKey, model string) {
	if apiKey == "" {
		LogInfo("OPENAI_API_KEY not set, chatbot answers with a fallback message")
		return
	}
	AI = &openAIAssistant{
		client: openai.NewClient(apiKey),
		model:  model,
	}
	LogSuccess("OpenAI assistant initialized")
}

type offlineAssistant struct{}

func (offlineAssistant) Reply(context.Context, []models.ChatMessage, string) string {
	return FailedReplyFallback
}

func (offlineAssistant) Moderate(context.Context, string) ModerationResult {
	return ModerationResult{}
}

func (offlineAssistant) SuggestPosts(context.Context, []string) []string {
	return []string{}
}

type openAIAssistant struct {
	client *openai.Client
	model  string
}

func (a *openAIAssistant) Reply(ctx context.Context, history []models.ChatMessage, message string) string {
	ctx, cancel := context.WithTimeout(ctx, assistantTimeout)
	defer cancel()

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Messages:    BuildConversation(history, message),
		MaxTokens:   assistantMaxTokens,
		Temperature: assistantTemperature,
	})
	if err != nil {
		LogError(err, "OpenAI chat completion failed")
		return FailedReplyFallback
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return EmptyReplyFallback
	}
	return resp.Choices[0].Message.Content
}

func (a *openAIAssistant) Moderate(ctx context.Context, content string) ModerationResult {
	ctx, cancel := context.WithTimeout(ctx, assistantTimeout)
	defer cancel()

	resp, err := a.client.Moderations(ctx, openai.ModerationRequest{Input: content})
	if err != nil {
		// moderation outages must not block posting
		LogError(err, "Content moderation failed")
		return ModerationResult{}
	}
	if len(resp.Results) == 0 || !resp.Results[0].Flagged {
		return ModerationResult{}
	}

	categories := FlaggedCategories(resp.Results[0].Categories)
	return ModerationResult{
		Flagged: true,
		Reason:  "Content flagged for: " + strings.Join(categories, ", "),
	}
}

func (a *openAIAssistant) SuggestPosts(ctx context.Context, tags []string) []string {
	ctx, cancel := context.WithTimeout(ctx, assistantTimeout)
	defer cancel()

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: suggestionSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Generate 3 thoughtful post title suggestions for mental health topics related to these tags: %s", strings.Join(tags, ", "))},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		LogError(err, "Post suggestion generation failed")
		return []string{}
	}
	if len(resp.Choices) == 0 {
		return []string{}
	}

	return ParseSuggestions(resp.Choices[0].Message.Content)
}

// BuildConversation prepends the system prompt and replays history as user/assistant turns.
func BuildConversation(history []models.ChatMessage, message string) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: assistantSystemPrompt,
	})
	for _, m := range history {
		role := openai.ChatMessageRoleAssistant
		if m.IsFromUser {
			role = openai.ChatMessageRoleUser
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})
}

// FlaggedCategories lists the moderation categories set to true, sorted by name.
func FlaggedCategories(categories openai.ResultCategories) []string {
	raw, err := json.Marshal(categories)
	if err != nil {
		return nil
	}
	var fields map[string]bool
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}

	flagged := make([]string, 0)
	for name, set := range fields {
		if set {
			flagged = append(flagged, name)
		}
	}
	sort.Strings(flagged)
	return flagged
}

// ParseSuggestions reads {"suggestions": [...]}; anything else yields an empty list.
func ParseSuggestions(content string) []string {
	var payload struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(content), &payload); err != nil || payload.Suggestions == nil {
		return []string{}
	}
	return payload.Suggestions
}
