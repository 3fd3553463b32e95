package models

import (
	"time"

	"github.com/lib/pq"
)

type Post struct {
	ID            int64          `db:"id" json:"id"`
	OperatorID    int64          `db:"operator_id" json:"operator_id"`
	Content       string         `db:"content" json:"content"`
	Hashtags      pq.StringArray `db:"hashtags" json:"hashtags"`
	MediaURLs     pq.StringArray `db:"media_urls" json:"media_urls"`
	Platforms     pq.StringArray `db:"platforms" json:"platforms"`
	Status        string         `db:"status" json:"status"` // pending, approved, published
	ScheduledTime *time.Time     `db:"scheduled_time" json:"scheduled_time"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

type MediaAsset struct {
	ID         int64     `db:"id"`
	OperatorID int64     `db:"operator_id"`
	FileName   string    `db:"file_name"`
	FileType   string    `db:"file_type"`
	FileSize   int64     `db:"file_size"`
	FileURL    string    `db:"file_url"`
	CreatedAt  time.Time `db:"created_at"`
}

const (
	PostStatusPending   = "pending"
	PostStatusApproved  = "approved"
	PostStatusPublished = "published"
)

func IsPostStatus(status string) bool {
	switch status {
	case PostStatusPending, PostStatusApproved, PostStatusPublished:
		return true
	}
	return false
}
