package models

import (
	"fmt"
	"time"
)

type Review struct {
	ID               string    `db:"id" json:"id"`
	Service          string    `db:"service" json:"service"`
	Rating           int       `db:"rating" json:"rating"`
	Content          string    `db:"content" json:"content"`
	Reviewer         string    `db:"reviewer" json:"reviewer"`
	Timestamp        time.Time `db:"created_at" json:"timestamp"`
	TransactionProof string    `db:"transaction_proof" json:"transaction_proof"`
	Signature        []byte    `db:"signature" json:"signature,omitempty"`
	IsDisputed       bool      `db:"is_disputed" json:"is_disputed"`
	DisputeReason    *string   `db:"dispute_reason" json:"dispute_reason,omitempty"`
}

// NewReviewID строит идентификатор из секунды отправки и адреса отправителя.
// Два отзыва одного пользователя в одну секунду получают одинаковый ключ —
// известный дефект формата, сохранённый ради совместимости (см. DESIGN.md).
func NewReviewID(ts time.Time, reviewer string) string {
	return fmt.Sprintf("%d-%s", ts.Unix(), reviewer)
}
