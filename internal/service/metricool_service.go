package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	config "github.com/maheshrc27/postgate/configs"
	"github.com/maheshrc27/postgate/internal/models"
	"github.com/maheshrc27/postgate/internal/transfer"
	"github.com/maheshrc27/postgate/pkg/logging"
	"go.uber.org/zap"
)

const metricoolAuthHeader = "X-Mc-Auth"

// SchedulingProvider is the remote scheduling service. Errors returned
// from it are transport failures: the request did not complete or the
// answer could not be read.
type SchedulingProvider interface {
	ListWorkspaces(ctx context.Context, secret string) ([]models.Workspace, error)
	ListChannels(ctx context.Context, secret string, account models.AccountContext) (*models.ChannelList, error)
	CreatePost(ctx context.Context, secret string, account models.AccountContext, payload transfer.ProviderPostPayload) (*transfer.ProviderResponse, error)
}

type metricoolService struct {
	baseURL string
	client  *http.Client
}

func NewMetricoolService(cfg config.Config) SchedulingProvider {
	return &metricoolService{
		baseURL: cfg.Metricool.BaseURL,
		client:  &http.Client{Timeout: cfg.Metricool.Timeout},
	}
}

func (m *metricoolService) endpoint(account models.AccountContext, parts ...string) string {
	escaped := make([]string, 0, len(parts))
	for _, p := range parts {
		escaped = append(escaped, url.PathEscape(p))
	}
	endpoint := m.baseURL + "/" + strings.Join(escaped, "/")

	params := url.Values{}
	if account.UserID != "" {
		params.Set("userId", account.UserID)
	}
	if account.BlogID != "" {
		params.Set("blogId", account.BlogID)
	}
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	return endpoint
}

func (m *metricoolService) do(ctx context.Context, method, endpoint, secret string, body any) (*http.Response, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set(metricoolAuthHeader, secret)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := m.client.Do(req)
	if err != nil {
		logging.GetLogger().Info("metricool request failed", zap.String("method", method), zap.Error(err))
		return nil, nil, fmt.Errorf("request to metricool failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read metricool response: %w", err)
	}
	return resp, respBody, nil
}

func (m *metricoolService) ListWorkspaces(ctx context.Context, secret string) ([]models.Workspace, error) {
	resp, body, err := m.do(ctx, http.MethodGet, m.endpoint(models.AccountContext{}, "workspaces"), secret, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error response from metricool: %s (status code: %d)", errorText(body), resp.StatusCode)
	}

	var result transfer.MetricoolWorkspacesResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode workspaces response: %w", err)
	}

	workspaces := make([]models.Workspace, 0, len(result.Data))
	for _, w := range result.Data {
		workspaces = append(workspaces, models.Workspace{ID: string(w.ID), Name: w.Name})
	}
	return workspaces, nil
}

// ListChannels fetches the connected channels. A non-200 answer counts as
// a failure here because an auth error leaves nothing to resolve against.
func (m *metricoolService) ListChannels(ctx context.Context, secret string, account models.AccountContext) (*models.ChannelList, error) {
	endpoint := m.endpoint(account, "workspaces", account.WorkspaceID, "channels")
	resp, body, err := m.do(ctx, http.MethodGet, endpoint, secret, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error response from metricool: %s (status code: %d)", errorText(body), resp.StatusCode)
	}

	var result transfer.MetricoolChannelsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode channels response: %w", err)
	}

	list := &models.ChannelList{Channels: make([]models.Channel, 0, len(result.Data)), Mock: result.Mock}
	for _, c := range result.Data {
		list.Channels = append(list.Channels, models.Channel{ID: c.ID, Platform: c.Platform, Name: c.Name})
	}
	return list, nil
}

// CreatePost submits a post. Any decodable answer is returned as the
// provider's outcome, error statuses included.
func (m *metricoolService) CreatePost(ctx context.Context, secret string, account models.AccountContext, payload transfer.ProviderPostPayload) (*transfer.ProviderResponse, error) {
	endpoint := m.endpoint(account, "workspaces", account.WorkspaceID, "posts")
	resp, body, err := m.do(ctx, http.MethodPost, endpoint, secret, payload)
	if err != nil {
		return nil, err
	}

	out := &transfer.ProviderResponse{HTTPStatus: resp.StatusCode}
	if len(bytes.TrimSpace(body)) > 0 {
		var raw struct {
			Status  string          `json:"status"`
			Mock    bool            `json:"mock"`
			Error   json.RawMessage `json:"error"`
			Message string          `json:"message"`
			Data    json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("failed to decode publish response (status code: %d): %w", resp.StatusCode, err)
		}
		out.Status = raw.Status
		out.Mock = raw.Mock
		out.Error = rawErrorText(raw.Error)
		out.Data = raw.Data
		if out.Error == "" && resp.StatusCode >= http.StatusBadRequest {
			out.Error = raw.Message
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		if out.Status == "" {
			out.Status = "error"
		}
		if out.Error == "" {
			out.Error = http.StatusText(resp.StatusCode)
		}
		logging.GetLogger().Warn("metricool rejected post",
			zap.Int("status_code", resp.StatusCode),
			zap.String("error", out.Error))
	} else if out.Status == "" {
		out.Status = "ok"
	}

	return out, nil
}

func rawErrorText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	return string(trimmed)
}

func errorText(body []byte) string {
	var e transfer.MetricoolErrorResponse
	if err := json.Unmarshal(body, &e); err == nil {
		if e.Error != "" {
			return e.Error
		}
		if e.Message != "" {
			return e.Message
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
