package chat

import (
	"context"
	"fmt"
	"sync"

	"github.com/krishkalaria12/Bingo/internal/database"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"gorm.io/gorm"
)

const systemPrompt = "You are a social media content strategist. Help the user brainstorm post ideas, hooks, and hashtags. Keep suggestions concrete and platform-aware."

// BrainstormSession is a content-ideas conversation. Messages are persisted
// per session so the model always sees the full exchange.
type BrainstormSession struct {
	mu        sync.Mutex
	db        *gorm.DB
	sessionID string
	client    *openai.LLM
}

// NewBrainstormSession connects the session to DeepSeek's OpenAI compatible
// chat endpoint.
func NewBrainstormSession(db *gorm.DB, sessionID, apiKey, model string) (*BrainstormSession, error) {
	client, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(model),
		openai.WithBaseURL("https://api.deepseek.com/v1"),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create chat client: %w", err)
	}

	return &BrainstormSession{
		db:        db,
		sessionID: sessionID,
		client:    client,
	}, nil
}

func (session *BrainstormSession) Chat(ctx context.Context, userInput string) (string, error) {
	session.mu.Lock()
	defer session.mu.Unlock()

	if err := session.saveMessage("user", userInput); err != nil {
		return "", err
	}

	history, err := session.getHistory()
	if err != nil {
		return "", err
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
	}
	for _, msg := range history {
		role := llms.ChatMessageTypeHuman
		if msg.MessageType == "ai" {
			role = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, msg.Content))
	}

	resp, err := session.client.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat backend returned no choices")
	}
	reply := resp.Choices[0].Content

	if err := session.saveMessage("ai", reply); err != nil {
		return "", err
	}

	return reply, nil
}

func (session *BrainstormSession) saveMessage(messageType, msg string) error {
	return session.db.Create(&database.ChatHistory{
		SessionID:   session.sessionID,
		MessageType: messageType,
		Content:     msg,
	}).Error
}

func (session *BrainstormSession) getHistory() ([]database.ChatHistory, error) {
	var history []database.ChatHistory
	err := session.db.Where("session_id = ?", session.sessionID).Order("timestamp ASC").Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}
