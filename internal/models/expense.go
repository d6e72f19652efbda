package models

import (
	"time"

	"github.com/google/uuid"
)

// ExpenseRecord is the persisted outcome of one analyzed receipt. It is
// written once and never updated.
type ExpenseRecord struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Text      string    `db:"text" json:"text"`
	Category  string    `db:"category" json:"category"`
	Advice    string    `db:"advice" json:"advice"`
	FileID    string    `db:"file_id" json:"fileId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
