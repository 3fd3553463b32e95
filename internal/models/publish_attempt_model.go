package models

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

type PublishAttempt struct {
	ID               int64           `db:"id" json:"id"`
	OperatorID       int64           `db:"operator_id" json:"operator_id"`
	PostID           int64           `db:"post_id" json:"post_id"`
	ChannelID        string          `db:"channel_id" json:"channel_id"`
	Outcome          string          `db:"outcome" json:"outcome"`
	DegradedReasons  pq.StringArray  `db:"degraded_reasons" json:"degraded_reasons"`
	ProviderResponse json.RawMessage `db:"provider_response" json:"provider_response,omitempty"`
	ErrorMessage     string          `db:"error_message" json:"error_message"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

const (
	OutcomePublished     = "published"
	OutcomePublishedMock = "published_mock"
	OutcomeFailed        = "failed"
)

const (
	DegradedResolutionFailed  = "channel_resolution_failed"
	DegradedChannelListMock   = "channel_list_mock"
	DegradedNoMatchingChannel = "no_matching_channel"
	DegradedProviderMock      = "provider_mock"
)
