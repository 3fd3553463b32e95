package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/maheshrc27/postgate/internal/models"
	"github.com/maheshrc27/postgate/internal/transfer"
)

var epoch = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

func clonePost(p *models.Post) *models.Post {
	c := *p
	c.Hashtags = append(pq.StringArray{}, p.Hashtags...)
	c.MediaURLs = append(pq.StringArray{}, p.MediaURLs...)
	c.Platforms = append(pq.StringArray{}, p.Platforms...)
	return &c
}

// memPostRepo is an in-memory PostRepository.
type memPostRepo struct {
	mu     sync.Mutex
	posts  map[int64]*models.Post
	nextID int64
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{posts: map[int64]*models.Post{}}
}

func (r *memPostRepo) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	post.ID = r.nextID
	post.CreatedAt = epoch.Add(time.Duration(post.ID) * time.Second)
	post.UpdatedAt = post.CreatedAt
	r.posts[post.ID] = clonePost(post)
	return post.ID, nil
}

// seed stores a post with the given status directly.
func (r *memPostRepo) seed(operatorID int64, status string, content string, platforms ...string) *models.Post {
	post := &models.Post{
		OperatorID: operatorID,
		Content:    content,
		Hashtags:   pq.StringArray{},
		MediaURLs:  pq.StringArray{},
		Platforms:  pq.StringArray(platforms),
		Status:     status,
	}
	r.Create(context.Background(), nil, post)
	return post
}

func (r *memPostRepo) status(id int64) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.posts[id]; ok {
		return p.Status
	}
	return ""
}

func (r *memPostRepo) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	return clonePost(p), nil
}

func (r *memPostRepo) ListByOperatorID(ctx context.Context, operatorID int64, status string) ([]*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Post{}
	for _, p := range r.posts {
		if p.OperatorID == operatorID && (status == "" || p.Status == status) {
			out = append(out, clonePost(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memPostRepo) Update(ctx context.Context, post *models.Post) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[post.ID]
	if !ok || p.Status != models.PostStatusPending {
		return false, nil
	}
	r.posts[post.ID] = clonePost(post)
	return true, nil
}

func (r *memPostRepo) UpdatePostStatus(ctx context.Context, status string, postID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return false, nil
	}
	p.Status = status
	return true, nil
}

func (r *memPostRepo) Remove(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return false, nil
	}
	delete(r.posts, id)
	return true, nil
}

type memMediaAssetRepo struct {
	assets []models.MediaAsset
}

func (r *memMediaAssetRepo) Create(ctx context.Context, tx *sql.Tx, ma *models.MediaAsset) (int64, error) {
	ma.ID = int64(len(r.assets) + 1)
	r.assets = append(r.assets, *ma)
	return ma.ID, nil
}

type memStorage struct {
	keys []string
	err  error
}

func (s *memStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.keys = append(s.keys, key)
	return "https://cdn.example.com/" + key, nil
}

// memCredentials is an in-memory CredentialStore.
type memCredentials struct {
	secrets map[string]string
	err     error
}

func newMemCredentials() *memCredentials {
	return &memCredentials{secrets: map[string]string{}}
}

func credentialKey(operatorID int64, name string) string {
	return fmt.Sprintf("%d/%s", operatorID, name)
}

func (m *memCredentials) Get(ctx context.Context, operatorID int64, name string) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	s, ok := m.secrets[credentialKey(operatorID, name)]
	return s, ok, nil
}

func (m *memCredentials) Set(ctx context.Context, operatorID int64, name, secret string) error {
	m.secrets[credentialKey(operatorID, name)] = secret
	return nil
}

func (m *memCredentials) Delete(ctx context.Context, operatorID int64, name string) error {
	key := credentialKey(operatorID, name)
	if _, ok := m.secrets[key]; !ok {
		return models.NewNotFoundError("credential", name)
	}
	delete(m.secrets, key)
	return nil
}

func (m *memCredentials) List(ctx context.Context, operatorID int64) ([]string, error) {
	names := []string{}
	prefix := fmt.Sprintf("%d/", operatorID)
	for k := range m.secrets {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			names = append(names, k[len(prefix):])
		}
	}
	sort.Strings(names)
	return names, nil
}

type staticAccounts struct {
	account models.AccountContext
	err     error
}

func (s staticAccounts) ResolveAccount(ctx context.Context, operatorID int64, override models.AccountContext) (models.AccountContext, error) {
	if s.err != nil {
		return models.AccountContext{}, s.err
	}
	return mergeAccount(override, s.account), nil
}

// fakeProvider records calls and answers with canned data.
type fakeProvider struct {
	workspaces    []models.Workspace
	workspacesErr error
	channels      *models.ChannelList
	channelsErr   error
	response      *transfer.ProviderResponse
	createErr     error

	channelCalls int
	created      []transfer.ProviderPostPayload
	createdFor   []models.AccountContext
	secrets      []string
}

func (f *fakeProvider) ListWorkspaces(ctx context.Context, secret string) ([]models.Workspace, error) {
	f.secrets = append(f.secrets, secret)
	return f.workspaces, f.workspacesErr
}

func (f *fakeProvider) ListChannels(ctx context.Context, secret string, account models.AccountContext) (*models.ChannelList, error) {
	f.channelCalls++
	f.secrets = append(f.secrets, secret)
	if f.channelsErr != nil {
		return nil, f.channelsErr
	}
	if f.channels == nil {
		return &models.ChannelList{Channels: []models.Channel{}}, nil
	}
	return f.channels, nil
}

func (f *fakeProvider) CreatePost(ctx context.Context, secret string, account models.AccountContext, payload transfer.ProviderPostPayload) (*transfer.ProviderResponse, error) {
	f.secrets = append(f.secrets, secret)
	f.created = append(f.created, payload)
	f.createdFor = append(f.createdFor, account)
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.response == nil {
		return &transfer.ProviderResponse{HTTPStatus: 200, Status: "ok"}, nil
	}
	return f.response, nil
}

type memAttemptRepo struct {
	attempts []*models.PublishAttempt
	err      error
}

func (r *memAttemptRepo) Create(ctx context.Context, pa *models.PublishAttempt) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	pa.ID = int64(len(r.attempts) + 1)
	r.attempts = append(r.attempts, pa)
	return pa.ID, nil
}

func (r *memAttemptRepo) ListByPostID(ctx context.Context, postID int64) ([]*models.PublishAttempt, error) {
	out := []*models.PublishAttempt{}
	for _, a := range r.attempts {
		if a.PostID == postID {
			out = append(out, a)
		}
	}
	return out, nil
}

type memSettingsRepo struct {
	settings map[int64]*models.PublishSettings
	err      error
}

func (r *memSettingsRepo) GetByOperatorID(ctx context.Context, operatorID int64) (*models.PublishSettings, bool, error) {
	if r.err != nil {
		return nil, false, r.err
	}
	s, ok := r.settings[operatorID]
	return s, ok, nil
}

func (r *memSettingsRepo) Upsert(ctx context.Context, s *models.PublishSettings) error {
	if r.settings == nil {
		r.settings = map[int64]*models.PublishSettings{}
	}
	r.settings[s.OperatorID] = s
	return nil
}

type memResearchRepo struct {
	results []*models.ResearchResult
	limit   int
}

func (r *memResearchRepo) Create(ctx context.Context, rr *models.ResearchResult) (int64, error) {
	rr.ID = int64(len(r.results) + 1)
	rr.CreatedAt = epoch.Add(time.Duration(rr.ID) * time.Minute)
	r.results = append(r.results, rr)
	return rr.ID, nil
}

func (r *memResearchRepo) ListRecent(ctx context.Context, operatorID int64, limit int) ([]*models.ResearchResult, error) {
	r.limit = limit
	out := []*models.ResearchResult{}
	for i := len(r.results) - 1; i >= 0 && len(out) < limit; i-- {
		if r.results[i].OperatorID == operatorID {
			out = append(out, r.results[i])
		}
	}
	return out, nil
}

func (r *memResearchRepo) Prune(ctx context.Context, keep int) (int64, error) {
	return 0, errors.New("not used")
}

type fakeGenerator struct {
	prompts []string
	secrets []string
	text    string
	err     error
}

func (g *fakeGenerator) Complete(ctx context.Context, secret, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	g.secrets = append(g.secrets, secret)
	return g.text, g.err
}
