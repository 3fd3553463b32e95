package transfer

import (
	"time"

	"github.com/maheshrc27/postgate/internal/models"
)

// PostCreation is the create input. Hashtags arrive comma separated;
// Draft allows an empty platform set for posts not yet meant to publish.
type PostCreation struct {
	Content       string     `json:"content" form:"content"`
	Hashtags      string     `json:"hashtags" form:"hashtags"`
	MediaURLs     []string   `json:"media_urls" form:"media_urls"`
	Platforms     []string   `json:"platforms" form:"platforms"`
	ScheduledTime *time.Time `json:"scheduled_time" form:"-"`
	Draft         bool       `json:"draft" form:"draft"`
}

// PostUpdate carries the fields an operator may change while a post is
// still pending. Nil means unchanged.
type PostUpdate struct {
	Content            *string    `json:"content"`
	Hashtags           *string    `json:"hashtags"`
	MediaURLs          []string   `json:"media_urls"`
	Platforms          []string   `json:"platforms"`
	ScheduledTime      *time.Time `json:"scheduled_time"`
	ClearScheduledTime bool       `json:"clear_scheduled_time"`
}

// MediaFile is an attachment to upload before the post is stored.
type MediaFile struct {
	Name string
	Data []byte
}

type PublishRequest struct {
	Force       bool   `json:"force"`
	WorkspaceID string `json:"workspace_id"`
	UserID      string `json:"user_id"`
	BlogID      string `json:"blog_id"`
}

func (r PublishRequest) Account() models.AccountContext {
	return models.AccountContext{WorkspaceID: r.WorkspaceID, UserID: r.UserID, BlogID: r.BlogID}
}

// PublishResult is what publish returns to the caller. Status is
// "published" or "published_mock"; DegradedReasons explains the latter.
type PublishResult struct {
	Status           string            `json:"status"`
	Post             *models.Post      `json:"post"`
	ChannelID        string            `json:"channel_id,omitempty"`
	DegradedReasons  []string          `json:"degraded_reasons"`
	ProviderResponse *ProviderResponse `json:"provider_response"`
}

// PublishPreview is the payload publish would submit, without submitting it.
type PublishPreview struct {
	Post            *models.Post          `json:"post"`
	Account         models.AccountContext `json:"account"`
	Payload         ProviderPostPayload   `json:"payload"`
	DegradedReasons []string              `json:"degraded_reasons"`
}
