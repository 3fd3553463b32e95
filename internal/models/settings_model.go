package models

import "time"

// PublishSettings is the operator's default account context on the
// scheduling provider.
type PublishSettings struct {
	ID          int64     `db:"id" json:"id"`
	OperatorID  int64     `db:"operator_id" json:"operator_id"`
	WorkspaceID string    `db:"workspace_id" json:"workspace_id"`
	UserID      string    `db:"user_id" json:"user_id"`
	BlogID      string    `db:"blog_id" json:"blog_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
