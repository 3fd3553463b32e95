package service

import (
	"context"
	"fmt"
	"strings"

	config "github.com/maheshrc27/postgate/configs"
	"github.com/maheshrc27/postgate/internal/models"
	"github.com/maheshrc27/postgate/internal/repository"
	"github.com/maheshrc27/postgate/internal/transfer"
	"github.com/maheshrc27/postgate/pkg/logging"
	"go.uber.org/zap"
)

const (
	generateWithContextTemplate = `Write a %s post about "%s" in a %s tone.
Use the following research as background and keep every claim consistent with it:

%s

Return only the post text.`

	generateTopicOnlyTemplate = `Write a %s post about "%s" in a %s tone.
Return only the post text.`

	researchTemplate = `Research "%s" for the %s market.
Summarize the main trends, audience interests and talking points a social media post could use.`
)

// BuildGeneratePrompt picks the research-backed template when rctx has
// any non-blank text and the topic-only template otherwise.
func BuildGeneratePrompt(topic, platform, tone, rctx string) string {
	if strings.TrimSpace(rctx) != "" {
		return fmt.Sprintf(generateWithContextTemplate, platform, topic, tone, rctx)
	}
	return fmt.Sprintf(generateTopicOnlyTemplate, platform, topic, tone)
}

func BuildResearchPrompt(query, market string) string {
	return fmt.Sprintf(researchTemplate, query, market)
}

type ContentService interface {
	Generate(ctx context.Context, operatorID int64, gr *transfer.GenerateRequest) (string, error)
	Research(ctx context.Context, operatorID int64, rr *transfer.ResearchRequest) (*models.ResearchResult, error)
	History(ctx context.Context, operatorID int64) ([]*models.ResearchResult, error)
}

type contentService struct {
	generator      TextGenerator
	credentials    CredentialStore
	rr             repository.ResearchRepository
	credentialName string
	historyLimit   int
}

func NewContentService(
	generator TextGenerator,
	credentials CredentialStore,
	rr repository.ResearchRepository,
	cfg config.Config) ContentService {
	return &contentService{
		generator:      generator,
		credentials:    credentials,
		rr:             rr,
		credentialName: cfg.AI.CredentialName,
		historyLimit:   cfg.Research.HistoryLimit,
	}
}

func (s *contentService) secret(ctx context.Context, operatorID int64) (string, error) {
	secret, ok, err := s.credentials.Get(ctx, operatorID, s.credentialName)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", models.NewMissingCredentialError(s.credentialName)
	}
	return secret, nil
}

func (s *contentService) Generate(ctx context.Context, operatorID int64, gr *transfer.GenerateRequest) (string, error) {
	if gr == nil || strings.TrimSpace(gr.Topic) == "" {
		return "", models.NewValidationError("topic cannot be empty")
	}
	if strings.TrimSpace(gr.Platform) == "" {
		return "", models.NewValidationError("platform cannot be empty")
	}

	tone := strings.TrimSpace(gr.Tone)
	if tone == "" {
		tone = "professional"
	}

	secret, err := s.secret(ctx, operatorID)
	if err != nil {
		return "", err
	}

	text, err := s.generator.Complete(ctx, secret, BuildGeneratePrompt(gr.Topic, gr.Platform, tone, gr.Context))
	if err != nil {
		logging.GetLogger().Error("content generation failed", zap.Int64("operator_id", operatorID), zap.Error(err))
		return "", models.NewProviderError(err)
	}
	return text, nil
}

func (s *contentService) Research(ctx context.Context, operatorID int64, rr *transfer.ResearchRequest) (*models.ResearchResult, error) {
	if rr == nil || strings.TrimSpace(rr.Query) == "" {
		return nil, models.NewValidationError("query cannot be empty")
	}

	market := strings.TrimSpace(rr.Market)
	if market == "" {
		market = "global"
	}

	secret, err := s.secret(ctx, operatorID)
	if err != nil {
		return nil, err
	}

	text, err := s.generator.Complete(ctx, secret, BuildResearchPrompt(rr.Query, market))
	if err != nil {
		logging.GetLogger().Error("research failed", zap.Int64("operator_id", operatorID), zap.Error(err))
		return nil, models.NewProviderError(err)
	}

	result := &models.ResearchResult{
		OperatorID: operatorID,
		Query:      rr.Query,
		Market:     market,
		Result:     text,
	}
	if _, err := s.rr.Create(ctx, result); err != nil {
		return nil, fmt.Errorf("error saving research result: %w", err)
	}
	return result, nil
}

func (s *contentService) History(ctx context.Context, operatorID int64) ([]*models.ResearchResult, error) {
	results, err := s.rr.ListRecent(ctx, operatorID, s.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("error listing research history: %w", err)
	}
	return results, nil
}
