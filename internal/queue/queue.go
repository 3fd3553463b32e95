package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/postgate/internal/transfer"
	"github.com/maheshrc27/postgate/pkg/logging"
	"go.uber.org/zap"
)

const TaskTypePublishPost = "publish:post"

type PublishPostPayload struct {
	OperatorID  int64  `json:"operator_id"`
	PostID      int64  `json:"post_id"`
	Force       bool   `json:"force"`
	WorkspaceID string `json:"workspace_id,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	BlogID      string `json:"blog_id,omitempty"`
}

func NewPublishPostPayload(operatorID, postID int64, req *transfer.PublishRequest) PublishPostPayload {
	payload := PublishPostPayload{OperatorID: operatorID, PostID: postID}
	if req != nil {
		payload.Force = req.Force
		payload.WorkspaceID = req.WorkspaceID
		payload.UserID = req.UserID
		payload.BlogID = req.BlogID
	}
	return payload
}

func (p PublishPostPayload) Request() *transfer.PublishRequest {
	return &transfer.PublishRequest{
		Force:       p.Force,
		WorkspaceID: p.WorkspaceID,
		UserID:      p.UserID,
		BlogID:      p.BlogID,
	}
}

// Enqueuer is the part of *asynq.Client the API needs.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// EnqueuePublish schedules a publish after delay. The task is never
// retried; a failed publish surfaces once in the attempt log.
func EnqueuePublish(client Enqueuer, payload PublishPostPayload, delay time.Duration) (*asynq.TaskInfo, error) {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	task := asynq.NewTask(TaskTypePublishPost, taskPayload)

	info, err := client.Enqueue(task, asynq.ProcessIn(delay), asynq.MaxRetry(0))
	if err != nil {
		logging.GetLogger().Error("failed to enqueue publish task", zap.Int64("post_id", payload.PostID), zap.Error(err))
		return nil, err
	}

	logging.GetLogger().Info("publish task scheduled",
		zap.String("task_id", info.ID),
		zap.Int64("post_id", payload.PostID),
		zap.Duration("delay", delay))
	return info, nil
}
