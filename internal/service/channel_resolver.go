package service

import (
	"context"
	"strings"

	config "github.com/maheshrc27/postgate/configs"
	"github.com/maheshrc27/postgate/internal/models"
	"github.com/maheshrc27/postgate/pkg/logging"
	"go.uber.org/zap"
)

// ChannelResolver lists the channels connected to an account. A response
// flagged as mock is returned as is; only a failed request is an error.
type ChannelResolver interface {
	Resolve(ctx context.Context, secret string, account models.AccountContext) (*models.ChannelList, error)
}

type channelResolver struct {
	provider SchedulingProvider
}

func NewChannelResolver(provider SchedulingProvider) ChannelResolver {
	return &channelResolver{provider: provider}
}

func (r *channelResolver) Resolve(ctx context.Context, secret string, account models.AccountContext) (*models.ChannelList, error) {
	list, err := r.provider.ListChannels(ctx, secret, account)
	if err != nil {
		return nil, models.NewResolutionError(err)
	}

	out := &models.ChannelList{Channels: make([]models.Channel, 0, len(list.Channels)), Mock: list.Mock}
	for _, c := range list.Channels {
		c.Platform = strings.ToLower(strings.TrimSpace(c.Platform))
		out.Channels = append(out.Channels, c)
	}

	if out.Mock {
		logging.GetLogger().Warn("channel list is flagged as mock",
			zap.String("workspace_id", account.WorkspaceID),
			zap.Int("channels", len(out.Channels)))
	}
	return out, nil
}

// MatchChannel returns the id of the first channel whose platform equals
// the given tag exactly.
func MatchChannel(channels []models.Channel, platform string) (string, bool) {
	for _, c := range channels {
		if c.Platform == platform {
			return c.ID, true
		}
	}
	return "", false
}

// ChannelService browses the provider with the operator's credential.
type ChannelService interface {
	Workspaces(ctx context.Context, operatorID int64) ([]models.Workspace, error)
	Channels(ctx context.Context, operatorID int64, override models.AccountContext) (*models.ChannelList, error)
}

type channelService struct {
	provider       SchedulingProvider
	resolver       ChannelResolver
	credentials    CredentialStore
	settings       SettingsService
	credentialName string
}

func NewChannelService(
	provider SchedulingProvider,
	resolver ChannelResolver,
	credentials CredentialStore,
	settings SettingsService,
	cfg config.Config) ChannelService {
	return &channelService{
		provider:       provider,
		resolver:       resolver,
		credentials:    credentials,
		settings:       settings,
		credentialName: cfg.Metricool.CredentialName,
	}
}

func (s *channelService) secret(ctx context.Context, operatorID int64) (string, error) {
	secret, ok, err := s.credentials.Get(ctx, operatorID, s.credentialName)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", models.NewMissingCredentialError(s.credentialName)
	}
	return secret, nil
}

func (s *channelService) Workspaces(ctx context.Context, operatorID int64) ([]models.Workspace, error) {
	secret, err := s.secret(ctx, operatorID)
	if err != nil {
		return nil, err
	}

	workspaces, err := s.provider.ListWorkspaces(ctx, secret)
	if err != nil {
		return nil, models.NewResolutionError(err)
	}
	return workspaces, nil
}

func (s *channelService) Channels(ctx context.Context, operatorID int64, override models.AccountContext) (*models.ChannelList, error) {
	secret, err := s.secret(ctx, operatorID)
	if err != nil {
		return nil, err
	}

	account, err := s.settings.ResolveAccount(ctx, operatorID, override)
	if err != nil {
		return nil, err
	}
	return s.resolver.Resolve(ctx, secret, account)
}
