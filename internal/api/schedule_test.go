package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	backend "github.com/krishkalaria12/Bingo/internal/api"
	"github.com/krishkalaria12/Bingo/internal/database"
	"github.com/krishkalaria12/Bingo/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createScheduleRouter(db *gorm.DB) chi.Router {
	service := backend.NewScheduleService(db)
	router := chi.NewRouter()
	service.AddRoutes(router)
	return router
}

func TestSchedulePost(t *testing.T) {
	db := createDB(t, &database.SocialContent{
		UserId:   "user-1",
		Platform: "twitter",
		Content:  "ready to go",
		Status:   database.ContentDraft,
	})
	router := createScheduleRouter(db)

	publishAt := time.Now().Add(2 * time.Hour)
	payload := api.SchedulePostRequest{PublishAt: publishAt}
	req := jsonRequest(t, http.MethodPost, "/posts/1/schedule", "user-1", payload)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, "recieved response: "+rec.Body.String())
	var response api.SchedulePostResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.NotEqual(t, uuid.Nil, response.ScheduleId)

	var schedule database.ScheduledPost
	require.NoError(t, db.First(&schedule, "id = ?", response.ScheduleId).Error)
	assert.Equal(t, uint(1), schedule.ContentId)
	assert.Equal(t, "twitter", schedule.Platform)
	assert.Equal(t, database.ScheduleScheduled, schedule.Status)
	assert.WithinDuration(t, publishAt.UTC(), schedule.PublishAt, time.Second)

	var post database.SocialContent
	require.NoError(t, db.First(&post, "id = ?", 1).Error)
	assert.Equal(t, database.ContentScheduled, post.Status)

	t.Run("SecondScheduleConflicts", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/posts/1/schedule", "user-1", payload)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestSchedulePostErrors(t *testing.T) {
	db := createDB(t, &database.SocialContent{
		UserId:   "user-1",
		Platform: "twitter",
		Content:  "ready to go",
		Status:   database.ContentDraft,
	})
	router := createScheduleRouter(db)

	t.Run("PublishAtInPast", func(t *testing.T) {
		payload := api.SchedulePostRequest{PublishAt: time.Now().Add(-time.Minute)}
		req := jsonRequest(t, http.MethodPost, "/posts/1/schedule", "user-1", payload)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("UnknownContent", func(t *testing.T) {
		payload := api.SchedulePostRequest{PublishAt: time.Now().Add(time.Hour)}
		req := jsonRequest(t, http.MethodPost, "/posts/99/schedule", "user-1", payload)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("OtherUsersContent", func(t *testing.T) {
		payload := api.SchedulePostRequest{PublishAt: time.Now().Add(time.Hour)}
		req := jsonRequest(t, http.MethodPost, "/posts/1/schedule", "user-2", payload)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListScheduled(t *testing.T) {
	scheduleId := uuid.New()
	db := createDB(t,
		&database.SocialContent{UserId: "user-1", Platform: "twitter", Content: "mine", Status: database.ContentScheduled},
		&database.SocialContent{UserId: "user-2", Platform: "linkedin", Content: "theirs", Status: database.ContentScheduled},
		&database.ScheduledPost{Id: scheduleId, ContentId: 1, Platform: "twitter", Status: database.ScheduleScheduled, PublishAt: time.Now().Add(time.Hour), CreationTime: time.Now()},
		&database.ScheduledPost{Id: uuid.New(), ContentId: 2, Platform: "linkedin", Status: database.ScheduleScheduled, PublishAt: time.Now().Add(time.Hour), CreationTime: time.Now()},
	)
	router := createScheduleRouter(db)

	req := jsonRequest(t, http.MethodGet, "/schedule/", "user-1", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var schedules []api.ScheduledPost
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schedules))
	require.Len(t, schedules, 1)
	assert.Equal(t, scheduleId, schedules[0].Id)
	assert.Equal(t, uint(1), schedules[0].ContentId)
}

func TestCancelScheduled(t *testing.T) {
	scheduleId, queuedId := uuid.New(), uuid.New()
	db := createDB(t,
		&database.SocialContent{UserId: "user-1", Platform: "twitter", Content: "mine", Status: database.ContentScheduled},
		&database.ScheduledPost{Id: scheduleId, ContentId: 1, Platform: "twitter", Status: database.ScheduleScheduled, PublishAt: time.Now().Add(time.Hour), CreationTime: time.Now()},
		&database.ScheduledPost{Id: queuedId, ContentId: 1, Platform: "twitter", Status: database.ScheduleQueued, PublishAt: time.Now(), CreationTime: time.Now()},
	)
	router := createScheduleRouter(db)

	t.Run("OtherUserCannotCancel", func(t *testing.T) {
		req := jsonRequest(t, http.MethodDelete, "/schedule/"+scheduleId.String(), "user-2", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("QueuedCannotBeCancelled", func(t *testing.T) {
		req := jsonRequest(t, http.MethodDelete, "/schedule/"+queuedId.String(), "user-1", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Cancel", func(t *testing.T) {
		req := jsonRequest(t, http.MethodDelete, "/schedule/"+scheduleId.String(), "user-1", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, "recieved response: "+rec.Body.String())

		var schedule database.ScheduledPost
		require.NoError(t, db.First(&schedule, "id = ?", scheduleId).Error)
		assert.Equal(t, database.ScheduleCancelled, schedule.Status)
		assert.True(t, schedule.CompletionTime.Valid)

		var post database.SocialContent
		require.NoError(t, db.First(&post, "id = ?", 1).Error)
		assert.Equal(t, database.ContentDraft, post.Status)
	})
}
