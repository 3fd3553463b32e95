package models

import "time"

type ResearchResult struct {
	ID         int64     `db:"id" json:"id"`
	OperatorID int64     `db:"operator_id" json:"operator_id"`
	Query      string    `db:"query" json:"query"`
	Market     string    `db:"market" json:"market"`
	Result     string    `db:"result" json:"result"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
