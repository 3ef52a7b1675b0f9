package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/krishkalaria12/Bingo/internal/chat"
	"github.com/krishkalaria12/Bingo/internal/database"
	"github.com/krishkalaria12/Bingo/pkg/api"
)

type ChatService struct {
	db      *gorm.DB
	manager *chat.SessionManager
}

func NewChatService(db *gorm.DB, manager *chat.SessionManager) *ChatService {
	return &ChatService{db: db, manager: manager}
}

func (s *ChatService) AddRoutes(r chi.Router) {
	r.Route("/chat", func(r chi.Router) {
		r.Get("/sessions", RestHandler(s.GetSessions))
		r.Post("/sessions", RestHandler(s.StartSession))
		r.Post("/sessions/{session_id}/messages", RestHandler(s.SendMessage))
		r.Get("/sessions/{session_id}/history", RestHandler(s.GetHistory))
	})
}

func (s *ChatService) GetSessions(r *http.Request) (any, error) {
	userId, err := UserId(r)
	if err != nil {
		return nil, err
	}

	var sessions []database.ChatSession
	if err := s.db.Where("user_id = ?", userId).Find(&sessions).Error; err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "error listing chat sessions: %w", err)
	}

	return sessions, nil
}

func (s *ChatService) StartSession(r *http.Request) (any, error) {
	userId, err := UserId(r)
	if err != nil {
		return nil, err
	}

	req, err := ParseRequest[api.StartSessionRequest](r)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.New()
	err = s.db.Create(&database.ChatSession{
		ID:        sessionID,
		UserId:    userId,
		Title:     req.Title,
		CreatedAt: time.Now().UTC(),
	}).Error
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "error creating chat session: %w", err)
	}

	return api.StartSessionResponse{SessionID: sessionID.String()}, nil
}

// resolveSession loads a session only if it belongs to the acting user.
// Someone else's session looks the same as a missing one.
func (s *ChatService) resolveSession(r *http.Request) (uuid.UUID, error) {
	userId, err := UserId(r)
	if err != nil {
		return uuid.Nil, err
	}

	sessionID, err := URLParamUUID(r, "session_id")
	if err != nil {
		return uuid.Nil, err
	}

	var stored database.ChatSession
	if err := s.db.Where("id = ? AND user_id = ?", sessionID, userId).First(&stored).Error; err != nil {
		return uuid.Nil, CodedErrorf(http.StatusNotFound, "session %s not found", sessionID)
	}

	return sessionID, nil
}

func (s *ChatService) SendMessage(r *http.Request) (any, error) {
	sessionID, err := s.resolveSession(r)
	if err != nil {
		return nil, err
	}

	req, err := ParseRequest[api.ChatRequest](r)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "message must not be empty")
	}

	session, err := s.manager.StartSession(sessionID.String())
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "error starting chat session: %w", err)
	}

	reply, err := session.Chat(r.Context(), req.Message)
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "chat completion failed: %w", err)
	}

	return api.ChatResponse{Reply: reply}, nil
}

func (s *ChatService) GetHistory(r *http.Request) (any, error) {
	sessionID, err := s.resolveSession(r)
	if err != nil {
		return nil, err
	}

	var history []database.ChatHistory
	err = s.db.
		Where("session_id = ?", sessionID).
		Order("timestamp ASC").
		Find(&history).
		Error
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving chat history: %w", err)
	}

	var resp []api.ChatHistoryItem
	for _, msg := range history {
		resp = append(resp, api.ChatHistoryItem{
			MessageType: msg.MessageType,
			Content:     msg.Content,
			Timestamp:   msg.Timestamp.Format("2006-01-02 15:04:05"),
			Metadata:    msg.Metadata,
		})
	}

	return resp, nil
}
