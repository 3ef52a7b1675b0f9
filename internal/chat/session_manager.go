package chat

import (
	"gorm.io/gorm"
)

const defaultChatModel = "deepseek-chat"

type SessionManager struct {
	db     *gorm.DB
	apiKey string
}

func NewSessionManager(db *gorm.DB, apiKey string) *SessionManager {
	return &SessionManager{db: db, apiKey: apiKey}
}

func (manager *SessionManager) StartSession(sessionID string) (*BrainstormSession, error) {
	return NewBrainstormSession(manager.db, sessionID, manager.apiKey, defaultChatModel)
}
