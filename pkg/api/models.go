package api

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Post struct {
	Id        uint
	UserId    string
	Platform  string
	Content   string
	Status    string
	UpdatedAt time.Time
}

type GeneratePostRequest struct {
	Platform string `json:"platform"`
	Prompt   string `json:"prompt"`
	Tone     string `json:"tone,omitempty"`
	Model    string `json:"model,omitempty"`
}

type GeneratePostResponse struct {
	ContentId uint   `json:"contentId"`
	Content   string `json:"content"`
	Platform  string `json:"platform"`
}

type UpdatePostRequest struct {
	ContentId       *uint  `json:"contentId,omitempty"`
	Platform        string `json:"platform"`
	OriginalContent string `json:"originalContent"`
	UpdatePrompt    string `json:"updatePrompt"`
	Model           string `json:"model,omitempty"`
	SaveHistory     *bool  `json:"saveHistory,omitempty"`
}

type UpdatePostResponse struct {
	UpdatedContent      string `json:"updatedContent"`
	IsSignificantChange bool   `json:"isSignificantChange"`
	ContentId           uint   `json:"contentId"`
}

type ListPostsQuery struct {
	Platform string `schema:"platform"`
	Status   string `schema:"status"`
	Limit    int    `schema:"limit"`
	Offset   int    `schema:"offset"`
}

type PostRevision struct {
	Id              uint      `json:"id"`
	ContentId       uint      `json:"contentId"`
	PreviousContent string    `json:"previousContent"`
	UpdatedContent  string    `json:"updatedContent"`
	Prompt          string    `json:"prompt"`
	Model           string    `json:"model"`
	CreatedBy       string    `json:"createdBy"`
	CreatedAt       time.Time `json:"createdAt"`
}

type SchedulePostRequest struct {
	PublishAt time.Time `json:"publishAt"`
}

type SchedulePostResponse struct {
	ScheduleId uuid.UUID `json:"scheduleId"`
}

type ScheduledPost struct {
	Id        uuid.UUID `json:"id"`
	ContentId uint      `json:"contentId"`
	Platform  string    `json:"platform"`
	PublishAt time.Time `json:"publishAt"`
	Status    string    `json:"status"`
}

type GenerateImageRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model,omitempty"`
}

type GenerateImageResponse struct {
	Key string `json:"key"`
}

type StartSessionRequest struct {
	Title string `json:"title"`
}

type StartSessionResponse struct {
	SessionID string `json:"sessionId"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type ChatHistoryItem struct {
	MessageType string         `json:"messageType"`
	Content     string         `json:"content"`
	Timestamp   string         `json:"timestamp"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"`
}
