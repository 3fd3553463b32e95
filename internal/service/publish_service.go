package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	config "github.com/maheshrc27/postgate/configs"
	"github.com/maheshrc27/postgate/internal/models"
	"github.com/maheshrc27/postgate/internal/repository"
	"github.com/maheshrc27/postgate/internal/transfer"
	"github.com/maheshrc27/postgate/pkg/logging"
	"github.com/maheshrc27/postgate/pkg/utils"
	"go.uber.org/zap"
)

// AccountResolver picks the account context a publish goes to.
type AccountResolver interface {
	ResolveAccount(ctx context.Context, operatorID int64, override models.AccountContext) (models.AccountContext, error)
}

type PublishService interface {
	Publish(ctx context.Context, operatorID, postID int64, req *transfer.PublishRequest) (*transfer.PublishResult, error)
	Preview(ctx context.Context, operatorID, postID int64, override models.AccountContext) (*transfer.PublishPreview, error)
	// Schedule checks that the post could be published now and returns how
	// long to wait until its scheduled time. Past or unset times give zero.
	Schedule(ctx context.Context, operatorID, postID int64, req *transfer.PublishRequest) (time.Duration, error)
	Attempts(ctx context.Context, operatorID, postID int64) ([]*models.PublishAttempt, error)
}

type publishService struct {
	posts          PostStore
	credentials    CredentialStore
	accounts       AccountResolver
	resolver       ChannelResolver
	provider       SchedulingProvider
	attempts       repository.PublishAttemptRepository
	credentialName string
	now            func() time.Time
}

func NewPublishService(
	posts PostStore,
	credentials CredentialStore,
	accounts AccountResolver,
	resolver ChannelResolver,
	provider SchedulingProvider,
	attempts repository.PublishAttemptRepository,
	cfg config.Config) PublishService {
	return &publishService{
		posts:          posts,
		credentials:    credentials,
		accounts:       accounts,
		resolver:       resolver,
		provider:       provider,
		attempts:       attempts,
		credentialName: cfg.Metricool.CredentialName,
		now:            time.Now,
	}
}

type publishPlan struct {
	account   models.AccountContext
	channelID string
	payload   transfer.ProviderPostPayload
	reasons   []string
}

func (s *publishService) Publish(ctx context.Context, operatorID, postID int64, req *transfer.PublishRequest) (*transfer.PublishResult, error) {
	if req == nil {
		req = &transfer.PublishRequest{}
	}

	secret, err := s.secret(ctx, operatorID)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.PostInfo(ctx, operatorID, postID)
	if err != nil {
		return nil, err
	}
	if err := checkPublishable(post.Status, req.Force); err != nil {
		logging.GetLogger().Info("publish rejected",
			zap.Int64("post_id", post.ID),
			zap.String("status", post.Status),
			zap.Bool("force", req.Force))
		return nil, err
	}

	plan, err := s.prepare(ctx, operatorID, secret, post, req.Account())
	if err != nil {
		return nil, err
	}

	resp, err := s.provider.CreatePost(ctx, secret, plan.account, plan.payload)
	if err != nil {
		logging.GetLogger().Error("publish request failed", zap.Int64("post_id", post.ID), zap.Error(err))
		s.recordAttempt(ctx, &models.PublishAttempt{
			OperatorID:      operatorID,
			PostID:          post.ID,
			ChannelID:       plan.channelID,
			Outcome:         models.OutcomeFailed,
			DegradedReasons: plan.reasons,
			ErrorMessage:    err.Error(),
		})
		return nil, models.NewProviderError(err)
	}

	reasons := plan.reasons
	if resp.Mock {
		reasons = append(reasons, models.DegradedProviderMock)
	}
	status := models.OutcomePublished
	if len(reasons) > 0 {
		status = models.OutcomePublishedMock
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		logging.GetLogger().Error("failed to encode provider response", zap.Int64("post_id", post.ID), zap.Error(err))
		raw = nil
	}
	s.recordAttempt(ctx, &models.PublishAttempt{
		OperatorID:       operatorID,
		PostID:           post.ID,
		ChannelID:        plan.channelID,
		Outcome:          status,
		DegradedReasons:  reasons,
		ProviderResponse: raw,
		ErrorMessage:     resp.Error,
	})

	if err := s.posts.MarkPublished(ctx, post.ID); err != nil {
		return nil, err
	}
	post.Status = models.PostStatusPublished

	logging.GetLogger().Info("post published",
		zap.Int64("post_id", post.ID),
		zap.String("status", status),
		zap.String("channel_id", plan.channelID),
		zap.Strings("degraded_reasons", reasons))

	return &transfer.PublishResult{
		Status:           status,
		Post:             post,
		ChannelID:        plan.channelID,
		DegradedReasons:  reasons,
		ProviderResponse: resp,
	}, nil
}

func (s *publishService) Preview(ctx context.Context, operatorID, postID int64, override models.AccountContext) (*transfer.PublishPreview, error) {
	secret, err := s.secret(ctx, operatorID)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.PostInfo(ctx, operatorID, postID)
	if err != nil {
		return nil, err
	}

	plan, err := s.prepare(ctx, operatorID, secret, post, override)
	if err != nil {
		return nil, err
	}

	return &transfer.PublishPreview{
		Post:            post,
		Account:         plan.account,
		Payload:         plan.payload,
		DegradedReasons: plan.reasons,
	}, nil
}

func (s *publishService) Schedule(ctx context.Context, operatorID, postID int64, req *transfer.PublishRequest) (time.Duration, error) {
	if req == nil {
		req = &transfer.PublishRequest{}
	}

	if _, err := s.secret(ctx, operatorID); err != nil {
		return 0, err
	}

	post, err := s.posts.PostInfo(ctx, operatorID, postID)
	if err != nil {
		return 0, err
	}
	if err := checkPublishable(post.Status, req.Force); err != nil {
		return 0, err
	}
	if strings.TrimSpace(post.Content) == "" {
		return 0, models.NewValidationError("post has no content")
	}
	if _, err := s.accounts.ResolveAccount(ctx, operatorID, req.Account()); err != nil {
		return 0, err
	}

	var delay time.Duration
	if post.ScheduledTime != nil {
		delay = post.ScheduledTime.Sub(s.now())
		if delay < 0 {
			delay = 0
		}
	}
	return delay, nil
}

func (s *publishService) Attempts(ctx context.Context, operatorID, postID int64) ([]*models.PublishAttempt, error) {
	post, err := s.posts.PostInfo(ctx, operatorID, postID)
	if err != nil {
		return nil, err
	}

	attempts, err := s.attempts.ListByPostID(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing publish attempts: %w", err)
	}
	return attempts, nil
}

func (s *publishService) secret(ctx context.Context, operatorID int64) (string, error) {
	secret, ok, err := s.credentials.Get(ctx, operatorID, s.credentialName)
	if err != nil {
		return "", err
	}
	if !ok {
		logging.GetLogger().Info("no scheduling credential on file", zap.Int64("operator_id", operatorID))
		return "", models.NewMissingCredentialError(s.credentialName)
	}
	return secret, nil
}

// prepare validates the post, then resolves the channel and builds the
// payload. Resolution failures degrade the plan instead of failing it.
func (s *publishService) prepare(ctx context.Context, operatorID int64, secret string, post *models.Post, override models.AccountContext) (*publishPlan, error) {
	if strings.TrimSpace(post.Content) == "" {
		return nil, models.NewValidationError("post has no content")
	}

	account, err := s.accounts.ResolveAccount(ctx, operatorID, override)
	if err != nil {
		return nil, err
	}

	plan := &publishPlan{account: account, reasons: []string{}}

	var channels []models.Channel
	list, err := s.resolver.Resolve(ctx, secret, account)
	if err != nil {
		logging.GetLogger().Warn("channel resolution failed, publishing without channels",
			zap.Int64("post_id", post.ID),
			zap.Error(err))
		plan.reasons = append(plan.reasons, models.DegradedResolutionFailed)
	} else {
		channels = list.Channels
		if list.Mock {
			plan.reasons = append(plan.reasons, models.DegradedChannelListMock)
		}
	}

	var platform string
	if len(post.Platforms) > 0 {
		platform = post.Platforms[0]
	}
	channelIDs := []string{}
	if id, ok := MatchChannel(channels, platform); ok {
		plan.channelID = id
		channelIDs = append(channelIDs, id)
	} else {
		plan.reasons = append(plan.reasons, models.DegradedNoMatchingChannel)
	}

	plan.payload = transfer.ProviderPostPayload{
		Content:  utils.RenderPostText(post.Content, post.Hashtags),
		Channels: channelIDs,
	}
	if post.ScheduledTime != nil {
		plan.payload.ScheduledTime = post.ScheduledTime.UTC().Format(time.RFC3339)
	}
	for _, u := range post.MediaURLs {
		plan.payload.Media = append(plan.payload.Media, transfer.ProviderMedia{URL: u})
	}

	return plan, nil
}

// recordAttempt logs a failed insert; the publish outcome stands either way.
func (s *publishService) recordAttempt(ctx context.Context, pa *models.PublishAttempt) {
	if _, err := s.attempts.Create(ctx, pa); err != nil {
		logging.GetLogger().Error("failed to record publish attempt",
			zap.Int64("post_id", pa.PostID),
			zap.String("outcome", pa.Outcome),
			zap.Error(err))
	}
}
