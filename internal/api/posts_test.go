package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	backend "github.com/krishkalaria12/Bingo/internal/api"
	"github.com/krishkalaria12/Bingo/internal/database"
	"github.com/krishkalaria12/Bingo/internal/llm"
	"github.com/krishkalaria12/Bingo/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func createDB(t *testing.T, create ...any) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, database.GetMigrator(db).Migrate())

	for _, c := range create {
		require.NoError(t, db.Create(c).Error)
	}

	return db
}

type mockGenerator struct {
	output  string
	err     error
	prompts []string
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.output, m.err
}

func createPostRouter(db *gorm.DB, generator llm.TextGenerator) chi.Router {
	models := llm.NewRegistry()
	models.Register(llm.ModelGemini, generator)

	service := backend.NewPostService(db, models)
	router := chi.NewRouter()
	service.AddRoutes(router)
	return router
}

func jsonRequest(t *testing.T, method, target, userId string, payload any) *http.Request {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	if userId != "" {
		req.Header.Set("X-User-Id", userId)
	}
	return req
}

func TestUpdatePostCreatesDraft(t *testing.T) {
	db := createDB(t)
	generator := &mockGenerator{output: "Exciting news: we just shipped version two of our platform today!"}
	router := createPostRouter(db, generator)

	payload := api.UpdatePostRequest{
		Platform:        "twitter",
		OriginalContent: "We shipped v2.",
		UpdatePrompt:    "Make it more enthusiastic",
	}
	req := jsonRequest(t, http.MethodPost, "/posts/update", "user-1", payload)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, "recieved response: "+rec.Body.String())
	var response api.UpdatePostResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	assert.Equal(t, generator.output, response.UpdatedContent)
	assert.True(t, response.IsSignificantChange)
	assert.NotZero(t, response.ContentId)

	var post database.SocialContent
	require.NoError(t, db.First(&post, "id = ?", response.ContentId).Error)
	assert.Equal(t, "user-1", post.UserId)
	assert.Equal(t, "twitter", post.Platform)
	assert.Equal(t, generator.output, post.Content)
	assert.Equal(t, database.ContentDraft, post.Status)

	// the prompt sent to the backend carries the post and the instruction
	require.Len(t, generator.prompts, 1)
	assert.Contains(t, generator.prompts[0], "We shipped v2.")
	assert.Contains(t, generator.prompts[0], "Make it more enthusiastic")
}

func TestUpdatePostSavesHistory(t *testing.T) {
	db := createDB(t, &database.SocialContent{
		UserId:   "user-1",
		Platform: "linkedin",
		Content:  "Old draft content",
		Status:   database.ContentDraft,
	})
	generator := &mockGenerator{output: "Old draft content with a small tweak"}
	router := createPostRouter(db, generator)

	contentId := uint(1)
	payload := api.UpdatePostRequest{
		ContentId:       &contentId,
		Platform:        "linkedin",
		OriginalContent: "Old draft content",
		UpdatePrompt:    "Add a small tweak",
	}
	req := jsonRequest(t, http.MethodPost, "/posts/update", "user-1", payload)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, "recieved response: "+rec.Body.String())
	var response api.UpdatePostResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, contentId, response.ContentId)

	var post database.SocialContent
	require.NoError(t, db.First(&post, "id = ?", contentId).Error)
	assert.Equal(t, generator.output, post.Content)

	var history []database.SocialContentHistory
	require.NoError(t, db.Where("content_id = ?", contentId).Find(&history).Error)
	require.Len(t, history, 1)
	assert.Equal(t, "Old draft content", history[0].PreviousContent)
	assert.Equal(t, generator.output, history[0].UpdatedContent)
	assert.Equal(t, "Add a small tweak", history[0].Prompt)
	assert.Equal(t, llm.ModelGemini, history[0].Model)
	assert.Equal(t, "user-1", history[0].CreatedBy)
}

func TestUpdatePostWithoutHistory(t *testing.T) {
	db := createDB(t, &database.SocialContent{
		UserId:   "user-1",
		Platform: "facebook",
		Content:  "Original row content",
		Status:   database.ContentDraft,
	})
	generator := &mockGenerator{output: "A rewritten take on the original"}
	router := createPostRouter(db, generator)

	contentId := uint(1)
	saveHistory := false
	payload := api.UpdatePostRequest{
		ContentId:       &contentId,
		Platform:        "facebook",
		OriginalContent: "Original row content",
		UpdatePrompt:    "Rewrite it",
		SaveHistory:     &saveHistory,
	}
	req := jsonRequest(t, http.MethodPost, "/posts/update", "user-1", payload)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, "recieved response: "+rec.Body.String())
	var response api.UpdatePostResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	// a fresh draft is created, the referenced row stays untouched
	assert.NotEqual(t, contentId, response.ContentId)

	var original database.SocialContent
	require.NoError(t, db.First(&original, "id = ?", contentId).Error)
	assert.Equal(t, "Original row content", original.Content)

	var history int64
	require.NoError(t, db.Model(&database.SocialContentHistory{}).Count(&history).Error)
	assert.Zero(t, history)
}

func TestUpdatePostUnknownContent(t *testing.T) {
	db := createDB(t, &database.SocialContent{
		UserId:   "someone-else",
		Platform: "twitter",
		Content:  "Not your post",
		Status:   database.ContentDraft,
	})
	generator := &mockGenerator{output: "irrelevant"}
	router := createPostRouter(db, generator)

	for name, contentId := range map[string]uint{"MissingRow": 42, "OtherUsersRow": 1} {
		t.Run(name, func(t *testing.T) {
			id := contentId
			payload := api.UpdatePostRequest{
				ContentId:       &id,
				Platform:        "twitter",
				OriginalContent: "Some post",
				UpdatePrompt:    "Edit it",
			}
			req := jsonRequest(t, http.MethodPost, "/posts/update", "user-1", payload)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}

	// the backend is never called when the target row cannot be resolved
	assert.Empty(t, generator.prompts)
}

func TestUpdatePostTwitterLimit(t *testing.T) {
	db := createDB(t)
	generator := &mockGenerator{output: strings.Repeat("x", 300)}
	router := createPostRouter(db, generator)

	payload := api.UpdatePostRequest{
		Platform:        "twitter",
		OriginalContent: "Short post",
		UpdatePrompt:    "Expand on this",
	}
	req := jsonRequest(t, http.MethodPost, "/posts/update", "user-1", payload)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var count int64
	require.NoError(t, db.Model(&database.SocialContent{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdatePostBackendFailures(t *testing.T) {
	t.Run("EmptyOutput", func(t *testing.T) {
		db := createDB(t)
		router := createPostRouter(db, &mockGenerator{output: "   \n  "})

		payload := api.UpdatePostRequest{
			Platform:        "instagram",
			OriginalContent: "A caption",
			UpdatePrompt:    "Improve it",
		}
		req := jsonRequest(t, http.MethodPost, "/posts/update", "user-1", payload)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var count int64
		require.NoError(t, db.Model(&database.SocialContent{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("GenerationError", func(t *testing.T) {
		db := createDB(t)
		router := createPostRouter(db, &mockGenerator{err: errors.New("backend unavailable")})

		payload := api.UpdatePostRequest{
			Platform:        "instagram",
			OriginalContent: "A caption",
			UpdatePrompt:    "Improve it",
		}
		req := jsonRequest(t, http.MethodPost, "/posts/update", "user-1", payload)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestUpdatePostValidation(t *testing.T) {
	db := createDB(t)
	generator := &mockGenerator{output: "irrelevant"}
	router := createPostRouter(db, generator)

	tests := map[string]api.UpdatePostRequest{
		"InvalidPlatform": {Platform: "tiktok", OriginalContent: "post", UpdatePrompt: "edit"},
		"EmptyOriginal":   {Platform: "twitter", OriginalContent: "  ", UpdatePrompt: "edit"},
		"EmptyPrompt":     {Platform: "twitter", OriginalContent: "post", UpdatePrompt: ""},
		"UnknownModel":    {Platform: "twitter", OriginalContent: "post", UpdatePrompt: "edit", Model: "gpt-9"},
	}
	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			req := jsonRequest(t, http.MethodPost, "/posts/update", "user-1", payload)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	t.Run("MissingUser", func(t *testing.T) {
		payload := api.UpdatePostRequest{Platform: "twitter", OriginalContent: "post", UpdatePrompt: "edit"}
		req := jsonRequest(t, http.MethodPost, "/posts/update", "", payload)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	assert.Empty(t, generator.prompts)
}

func TestGeneratePost(t *testing.T) {
	db := createDB(t)
	generator := &mockGenerator{output: "Fresh caption about our product launch"}
	router := createPostRouter(db, generator)

	payload := api.GeneratePostRequest{Platform: "instagram", Prompt: "our product launch", Tone: "playful"}
	req := jsonRequest(t, http.MethodPost, "/posts/generate", "user-1", payload)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, "recieved response: "+rec.Body.String())
	var response api.GeneratePostResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, generator.output, response.Content)
	assert.Equal(t, "instagram", response.Platform)

	var post database.SocialContent
	require.NoError(t, db.First(&post, "id = ?", response.ContentId).Error)
	assert.Equal(t, database.ContentDraft, post.Status)
	assert.Equal(t, generator.output, post.Content)

	require.Len(t, generator.prompts, 1)
	assert.Contains(t, generator.prompts[0], "our product launch")
	assert.Contains(t, generator.prompts[0], "playful")
}

func TestListPosts(t *testing.T) {
	db := createDB(t,
		&database.SocialContent{UserId: "user-1", Platform: "twitter", Content: "tweet 1", Status: database.ContentDraft},
		&database.SocialContent{UserId: "user-1", Platform: "linkedin", Content: "post 1", Status: database.ContentPublished},
		&database.SocialContent{UserId: "user-2", Platform: "twitter", Content: "tweet 2", Status: database.ContentDraft},
	)
	router := createPostRouter(db, &mockGenerator{})

	t.Run("AllForUser", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/posts/", "user-1", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var posts []api.Post
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
		assert.Len(t, posts, 2)
	})

	t.Run("FilterByPlatform", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/posts/?platform=twitter", "user-1", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var posts []api.Post
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
		require.Len(t, posts, 1)
		assert.Equal(t, "tweet 1", posts[0].Content)
	})

	t.Run("FilterByStatus", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/posts/?status=PUBLISHED", "user-1", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var posts []api.Post
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
		require.Len(t, posts, 1)
		assert.Equal(t, "post 1", posts[0].Content)
	})
}

func TestGetPost(t *testing.T) {
	db := createDB(t,
		&database.SocialContent{UserId: "user-1", Platform: "twitter", Content: "tweet 1", Status: database.ContentDraft},
	)
	router := createPostRouter(db, &mockGenerator{})

	req := jsonRequest(t, http.MethodGet, "/posts/1", "user-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var post api.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
	assert.Equal(t, uint(1), post.Id)
	assert.Equal(t, "tweet 1", post.Content)

	// other users cannot see the row
	req = jsonRequest(t, http.MethodGet, "/posts/1", "user-2", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPostHistory(t *testing.T) {
	db := createDB(t,
		&database.SocialContent{UserId: "user-1", Platform: "twitter", Content: "latest", Status: database.ContentDraft},
		&database.SocialContentHistory{ContentId: 1, PreviousContent: "v1", UpdatedContent: "v2", Prompt: "first edit", Model: "gemini", CreatedBy: "user-1", CreatedAt: time.Now().Add(-time.Hour)},
		&database.SocialContentHistory{ContentId: 1, PreviousContent: "v2", UpdatedContent: "latest", Prompt: "second edit", Model: "deepseek", CreatedBy: "user-1", CreatedAt: time.Now()},
	)
	router := createPostRouter(db, &mockGenerator{})

	req := jsonRequest(t, http.MethodGet, "/posts/1/history", "user-1", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var history []api.PostRevision
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 2)
	assert.Equal(t, "first edit", history[0].Prompt)
	assert.Equal(t, "second edit", history[1].Prompt)
}
