package service

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/lib/pq"
	"github.com/maheshrc27/postgate/internal/models"
	"github.com/maheshrc27/postgate/internal/repository"
	"github.com/maheshrc27/postgate/internal/transfer"
	"github.com/maheshrc27/postgate/pkg/logging"
	"github.com/maheshrc27/postgate/pkg/utils"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

// PostStore is the slice of the post lifecycle the publisher depends on.
type PostStore interface {
	PostInfo(ctx context.Context, operatorID, postID int64) (*models.Post, error)
	MarkPublished(ctx context.Context, postID int64) error
}

type PostService interface {
	PostStore
	CreatePost(ctx context.Context, operatorID int64, pc *transfer.PostCreation, files []transfer.MediaFile) (*models.Post, error)
	List(ctx context.Context, operatorID int64, status string) ([]*models.Post, error)
	UpdatePost(ctx context.Context, operatorID, postID int64, pu *transfer.PostUpdate) (*models.Post, error)
	Approve(ctx context.Context, operatorID, postID int64) (*models.Post, error)
	Remove(ctx context.Context, operatorID, postID int64) error
}

var allowedMediaTypes = map[string]struct{}{
	"jpg": {}, "png": {}, "gif": {}, "webp": {}, "mp4": {}, "mov": {},
}

type postService struct {
	db *sql.DB
	pr repository.PostRepository
	ma repository.MediaAssetRepository
	ms MediaStorage
}

func NewPostService(
	db *sql.DB,
	pr repository.PostRepository,
	ma repository.MediaAssetRepository,
	ms MediaStorage) PostService {
	return &postService{
		db: db,
		pr: pr,
		ma: ma,
		ms: ms,
	}
}

func (s *postService) CreatePost(ctx context.Context, operatorID int64, pc *transfer.PostCreation, files []transfer.MediaFile) (*models.Post, error) {
	if pc == nil {
		return nil, models.NewValidationError("post creation data is missing")
	}

	content := strings.TrimSpace(pc.Content)
	if content == "" {
		logging.GetLogger().Info("rejected post without content", zap.Int64("operator_id", operatorID))
		return nil, models.NewValidationError("content cannot be empty")
	}

	platforms := normalizePlatforms(pc.Platforms)
	if len(platforms) == 0 && !pc.Draft {
		logging.GetLogger().Info("rejected post without platforms", zap.Int64("operator_id", operatorID))
		return nil, models.NewValidationError("at least one platform is required")
	}

	mediaURLs, err := validateMediaURLs(pc.MediaURLs)
	if err != nil {
		return nil, err
	}

	uploads, err := s.uploadFiles(ctx, operatorID, files)
	if err != nil {
		return nil, err
	}
	for _, asset := range uploads {
		mediaURLs = append(mediaURLs, asset.FileURL)
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	post := &models.Post{
		OperatorID:    operatorID,
		Content:       pc.Content,
		Hashtags:      pq.StringArray(utils.ParseHashtags(pc.Hashtags)),
		MediaURLs:     pq.StringArray(mediaURLs),
		Platforms:     pq.StringArray(platforms),
		Status:        models.PostStatusPending,
		ScheduledTime: pc.ScheduledTime,
	}

	if _, err = s.pr.Create(ctx, tx, post); err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}

	for i := range uploads {
		if _, err = s.ma.Create(ctx, tx, &uploads[i]); err != nil {
			return nil, fmt.Errorf("error saving media asset: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logging.GetLogger().Info("post created",
		zap.Int64("post_id", post.ID),
		zap.Int64("operator_id", operatorID),
		zap.Strings("platforms", platforms))
	return post, nil
}

// uploadFiles stores attachments in order and returns the stored assets.
func (s *postService) uploadFiles(ctx context.Context, operatorID int64, files []transfer.MediaFile) ([]models.MediaAsset, error) {
	uploads := make([]models.MediaAsset, 0, len(files))
	for _, file := range files {
		kind, err := filetype.Match(file.Data)
		if err != nil || kind == types.Unknown {
			return nil, models.NewValidationError(fmt.Sprintf("unsupported file type for %s", file.Name))
		}
		if _, ok := allowedMediaTypes[kind.Extension]; !ok {
			return nil, models.NewValidationError(fmt.Sprintf("file type %s is not allowed", kind.Extension))
		}

		id, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("error generating media key: %w", err)
		}
		key := id + "." + kind.Extension

		fileURL, err := s.ms.Upload(ctx, key, file.Data, kind.MIME.Value)
		if err != nil {
			return nil, fmt.Errorf("error uploading %s: %w", file.Name, err)
		}

		uploads = append(uploads, models.MediaAsset{
			OperatorID: operatorID,
			FileName:   key,
			FileType:   kind.MIME.Value,
			FileSize:   int64(len(file.Data)),
			FileURL:    fileURL,
		})
	}
	return uploads, nil
}

func (s *postService) PostInfo(ctx context.Context, operatorID, postID int64) (*models.Post, error) {
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error getting post info: %w", err)
	}
	if post == nil || post.OperatorID != operatorID {
		return nil, models.NewNotFoundError("post", postID)
	}

	return post, nil
}

func (s *postService) List(ctx context.Context, operatorID int64, status string) ([]*models.Post, error) {
	if status != "" && !models.IsPostStatus(status) {
		return nil, models.NewValidationError(fmt.Sprintf("unknown status %q", status))
	}

	posts, err := s.pr.ListByOperatorID(ctx, operatorID, status)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	return posts, nil
}

func (s *postService) UpdatePost(ctx context.Context, operatorID, postID int64, pu *transfer.PostUpdate) (*models.Post, error) {
	if pu == nil {
		return nil, models.NewValidationError("post update data is missing")
	}

	post, err := s.PostInfo(ctx, operatorID, postID)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusPending {
		return nil, models.NewInvalidStateError("only pending posts can be edited")
	}

	if pu.Content != nil {
		if strings.TrimSpace(*pu.Content) == "" {
			return nil, models.NewValidationError("content cannot be empty")
		}
		post.Content = *pu.Content
	}
	if pu.Hashtags != nil {
		post.Hashtags = pq.StringArray(utils.ParseHashtags(*pu.Hashtags))
	}
	if pu.MediaURLs != nil {
		mediaURLs, err := validateMediaURLs(pu.MediaURLs)
		if err != nil {
			return nil, err
		}
		post.MediaURLs = pq.StringArray(mediaURLs)
	}
	if pu.Platforms != nil {
		platforms := normalizePlatforms(pu.Platforms)
		if len(platforms) == 0 {
			return nil, models.NewValidationError("at least one platform is required")
		}
		post.Platforms = pq.StringArray(platforms)
	}
	if pu.ClearScheduledTime {
		post.ScheduledTime = nil
	} else if pu.ScheduledTime != nil {
		post.ScheduledTime = pu.ScheduledTime
	}

	updated, err := s.pr.Update(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("error updating post: %w", err)
	}
	if !updated {
		return nil, models.NewInvalidStateError("post left the pending state while being edited")
	}

	return post, nil
}

func (s *postService) Approve(ctx context.Context, operatorID, postID int64) (*models.Post, error) {
	post, err := s.PostInfo(ctx, operatorID, postID)
	if err != nil {
		return nil, err
	}

	next, err := approvedStatus(post.Status)
	if err != nil {
		return nil, err
	}
	if next == post.Status {
		return post, nil
	}

	updated, err := s.pr.UpdatePostStatus(ctx, next, post.ID)
	if err != nil {
		return nil, fmt.Errorf("error approving post: %w", err)
	}
	if !updated {
		return nil, models.NewNotFoundError("post", post.ID)
	}
	post.Status = next

	logging.GetLogger().Info("post approved", zap.Int64("post_id", post.ID))
	return post, nil
}

func (s *postService) MarkPublished(ctx context.Context, postID int64) error {
	updated, err := s.pr.UpdatePostStatus(ctx, models.PostStatusPublished, postID)
	if err != nil {
		return fmt.Errorf("error marking post published: %w", err)
	}
	if !updated {
		return models.NewNotFoundError("post", postID)
	}
	return nil
}

// Remove deletes the local record only; nothing is retracted remotely.
func (s *postService) Remove(ctx context.Context, operatorID, postID int64) error {
	if _, err := s.PostInfo(ctx, operatorID, postID); err != nil {
		return err
	}

	removed, err := s.pr.Remove(ctx, postID)
	if err != nil {
		return fmt.Errorf("error removing post: %w", err)
	}
	if !removed {
		return models.NewNotFoundError("post", postID)
	}
	return nil
}

// normalizePlatforms lowercases tags and drops blanks and repeats, keeping
// first-seen order since the first platform picks the channel.
func normalizePlatforms(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := []string{}
	for _, p := range in {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func validateMediaURLs(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	for _, raw := range in {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, models.NewValidationError(fmt.Sprintf("media url %q is not a valid http(s) url", raw))
		}
		out = append(out, raw)
	}
	return out, nil
}
