package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maheshrc27/postgate/internal/models"
	"github.com/maheshrc27/postgate/internal/transfer"
)

type fakePostService struct {
	created   *transfer.PostCreation
	files     []transfer.MediaFile
	operator  int64
	listed    string
	removed   int64
	createErr error
	err       error
}

func (f *fakePostService) PostInfo(ctx context.Context, operatorID, postID int64) (*models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Post{ID: postID, OperatorID: operatorID, Status: models.PostStatusPending}, nil
}

func (f *fakePostService) MarkPublished(ctx context.Context, postID int64) error { return nil }

func (f *fakePostService) CreatePost(ctx context.Context, operatorID int64, pc *transfer.PostCreation, files []transfer.MediaFile) (*models.Post, error) {
	f.operator = operatorID
	f.created = pc
	f.files = files
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Post{ID: 1, OperatorID: operatorID, Content: pc.Content, Status: models.PostStatusPending}, nil
}

func (f *fakePostService) List(ctx context.Context, operatorID int64, status string) ([]*models.Post, error) {
	f.listed = status
	return []*models.Post{{ID: 1, Status: models.PostStatusPending}}, f.err
}

func (f *fakePostService) UpdatePost(ctx context.Context, operatorID, postID int64, pu *transfer.PostUpdate) (*models.Post, error) {
	return nil, f.err
}

func (f *fakePostService) Approve(ctx context.Context, operatorID, postID int64) (*models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Post{ID: postID, Status: models.PostStatusApproved}, nil
}

func (f *fakePostService) Remove(ctx context.Context, operatorID, postID int64) error {
	f.removed = postID
	return f.err
}

type fakePublishService struct {
	req   *transfer.PublishRequest
	delay time.Duration
	err   error
}

func (f *fakePublishService) Publish(ctx context.Context, operatorID, postID int64, req *transfer.PublishRequest) (*transfer.PublishResult, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &transfer.PublishResult{
		Status:          models.OutcomePublishedMock,
		Post:            &models.Post{ID: postID, Status: models.PostStatusPublished},
		DegradedReasons: []string{models.DegradedNoMatchingChannel},
	}, nil
}

func (f *fakePublishService) Preview(ctx context.Context, operatorID, postID int64, override models.AccountContext) (*transfer.PublishPreview, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &transfer.PublishPreview{Account: override, Payload: transfer.ProviderPostPayload{Content: "Hello", Channels: []string{"42"}}}, nil
}

func (f *fakePublishService) Schedule(ctx context.Context, operatorID, postID int64, req *transfer.PublishRequest) (time.Duration, error) {
	f.req = req
	return f.delay, f.err
}

func (f *fakePublishService) Attempts(ctx context.Context, operatorID, postID int64) ([]*models.PublishAttempt, error) {
	return []*models.PublishAttempt{{ID: 1, PostID: postID, Outcome: models.OutcomeFailed}}, f.err
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
}

func (f *fakeEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1"}, nil
}

func newPostTestApp(ps *fakePostService, pub *fakePublishService, enq *fakeEnqueuer) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		SetOperatorID(c, "1")
		return c.Next()
	})

	h := NewPostHandler(ps, pub, enq)
	app.Post("/posts", h.CreatePost)
	app.Get("/posts", h.ListPosts)
	app.Get("/posts/:id", h.GetPost)
	app.Patch("/posts/:id", h.UpdatePost)
	app.Delete("/posts/:id", h.RemovePost)
	app.Post("/posts/:id/approve", h.ApprovePost)
	app.Post("/posts/:id/publish", h.PublishPost)
	app.Get("/posts/:id/preview", h.PreviewPost)
	app.Post("/posts/:id/schedule", h.SchedulePost)
	app.Get("/posts/:id/attempts", h.ListAttempts)
	return app
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreatePostJSON(t *testing.T) {
	ps := &fakePostService{}
	app := newPostTestApp(ps, &fakePublishService{}, &fakeEnqueuer{})

	resp, err := app.Test(jsonRequest(http.MethodPost, "/posts",
		`{"content":"Hello","hashtags":"#a, b","platforms":["linkedin"],"media_urls":["https://x/1.png"]}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.Equal(t, int64(1), ps.operator)
	assert.Equal(t, "Hello", ps.created.Content)
	assert.Equal(t, "#a, b", ps.created.Hashtags)
	assert.Equal(t, []string{"linkedin"}, ps.created.Platforms)
	assert.Equal(t, []string{"https://x/1.png"}, ps.created.MediaURLs)
}

func TestCreatePostMultipart(t *testing.T) {
	ps := &fakePostService{}
	app := newPostTestApp(ps, &fakePublishService{}, &fakeEnqueuer{})

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("content", "Hello"))
	require.NoError(t, w.WriteField("platforms", "linkedin, instagram"))
	require.NoError(t, w.WriteField("scheduled_time", "2026-11-02T15:00:00Z"))
	fw, err := w.CreateFormFile("files", "a.png")
	require.NoError(t, err)
	_, err = io.WriteString(fw, "png-bytes")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/posts", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.Equal(t, []string{"linkedin", "instagram"}, ps.created.Platforms)
	require.NotNil(t, ps.created.ScheduledTime)
	assert.Equal(t, time.Date(2026, 11, 2, 15, 0, 0, 0, time.UTC), ps.created.ScheduledTime.UTC())
	require.Len(t, ps.files, 1)
	assert.Equal(t, "a.png", ps.files[0].Name)
	assert.Equal(t, []byte("png-bytes"), ps.files[0].Data)
}

func TestCreatePostValidationError(t *testing.T) {
	ps := &fakePostService{createErr: models.NewValidationError("content cannot be empty")}
	app := newPostTestApp(ps, &fakePublishService{}, &fakeEnqueuer{})

	resp, err := app.Test(jsonRequest(http.MethodPost, "/posts", `{"content":""}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "content cannot be empty", body["error"])
	assert.Equal(t, "validation_error", body["code"])
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{models.NewNotFoundError("post", 9), http.StatusNotFound},
		{models.NewInvalidStateError("post must be approved before publishing"), http.StatusConflict},
		{models.NewMissingCredentialError("metricool"), http.StatusPreconditionFailed},
		{models.NewProviderError(errors.New("timeout")), http.StatusBadGateway},
		{models.NewResolutionError(errors.New("timeout")), http.StatusBadGateway},
		{errors.New("db gone"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		app := newPostTestApp(&fakePostService{}, &fakePublishService{err: tc.err}, &fakeEnqueuer{})
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/posts/9/publish", nil))
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode, tc.err.Error())
	}
}

func TestInternalErrorHidesCause(t *testing.T) {
	app := newPostTestApp(&fakePostService{}, &fakePublishService{err: errors.New("pq: password authentication failed")}, &fakeEnqueuer{})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/posts/9/publish", nil))
	require.NoError(t, err)

	body := decodeBody(t, resp)
	assert.Equal(t, "internal_error", body["code"])
	assert.NotContains(t, body["error"], "password")
}

func TestPublishPostForce(t *testing.T) {
	pub := &fakePublishService{}
	app := newPostTestApp(&fakePostService{}, pub, &fakeEnqueuer{})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/posts/9/publish?force=true", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, pub.req.Force)

	body := decodeBody(t, resp)
	assert.Equal(t, "published_mock", body["status"])
	assert.Equal(t, []any{"no_matching_channel"}, body["degraded_reasons"])

	resp, err = app.Test(jsonRequest(http.MethodPost, "/posts/9/publish", `{"workspace_id":"ws-2"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, pub.req.Force)
	assert.Equal(t, "ws-2", pub.req.WorkspaceID)
}

func TestInvalidPostID(t *testing.T) {
	app := newPostTestApp(&fakePostService{}, &fakePublishService{}, &fakeEnqueuer{})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/posts/abc/approve", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSchedulePostEnqueues(t *testing.T) {
	enq := &fakeEnqueuer{}
	pub := &fakePublishService{delay: time.Hour}
	app := newPostTestApp(&fakePostService{}, pub, enq)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/posts/9/schedule", `{"force":true}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Len(t, enq.tasks, 1)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &payload))
	assert.Equal(t, float64(9), payload["post_id"])
	assert.Equal(t, float64(1), payload["operator_id"])
	assert.Equal(t, true, payload["force"])

	body := decodeBody(t, resp)
	assert.Equal(t, "task-1", body["task_id"])
}

func TestScheduleRejectedDoesNotEnqueue(t *testing.T) {
	enq := &fakeEnqueuer{}
	app := newPostTestApp(&fakePostService{}, &fakePublishService{err: models.NewInvalidStateError("post must be approved before publishing")}, enq)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/posts/9/schedule", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Empty(t, enq.tasks)
}

func TestListAndRemovePosts(t *testing.T) {
	ps := &fakePostService{}
	app := newPostTestApp(ps, &fakePublishService{}, &fakeEnqueuer{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/posts?status=approved", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "approved", ps.listed)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/posts/4", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, int64(4), ps.removed)
}

func TestPreviewPassesAccountOverride(t *testing.T) {
	app := newPostTestApp(&fakePostService{}, &fakePublishService{}, &fakeEnqueuer{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/posts/9/preview?workspace_id=ws-3&blog_id=b", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	account := body["account"].(map[string]any)
	assert.Equal(t, "ws-3", account["workspace_id"])
	assert.Equal(t, "b", account["blog_id"])
}
