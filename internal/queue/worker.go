package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/postgate/internal/models"
	"github.com/maheshrc27/postgate/pkg/logging"
	"go.uber.org/zap"
)

func (q *Queue) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid publish payload: %v: %w", err, asynq.SkipRetry)
	}

	result, err := q.ps.Publish(ctx, payload.OperatorID, payload.PostID, payload.Request())
	if err != nil {
		logging.GetLogger().Error("scheduled publish failed",
			zap.Int64("post_id", payload.PostID),
			zap.Int64("operator_id", payload.OperatorID),
			zap.Error(err))
		if isPermanent(err) {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return err
	}

	logging.GetLogger().Info("scheduled publish done",
		zap.Int64("post_id", payload.PostID),
		zap.String("status", result.Status))
	return nil
}

// isPermanent reports errors that running the task again cannot fix.
func isPermanent(err error) bool {
	return errors.Is(err, models.ErrValidation) ||
		errors.Is(err, models.ErrNotFound) ||
		errors.Is(err, models.ErrInvalidState) ||
		errors.Is(err, models.ErrMissingCredential)
}
