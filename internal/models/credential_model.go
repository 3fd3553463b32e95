package models

import "time"

// Credential is a named provider API key owned by one operator. Secret
// holds the sealed value as stored; it is never serialized.
type Credential struct {
	ID         int64     `db:"id" json:"id"`
	OperatorID int64     `db:"operator_id" json:"operator_id"`
	Name       string    `db:"name" json:"name"`
	Secret     string    `db:"secret" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
