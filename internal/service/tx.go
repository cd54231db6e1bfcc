package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actor is the authenticated identity a transition is performed by, injected
// from the request's auth context into every audit entry.
type Actor struct {
	ID         uuid.UUID
	Name       string
	Department string
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// formatDocNumber renders sequence values as GRN-2026-000123 style numbers.
func formatDocNumber(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%d-%06d", prefix, time.Now().UTC().Year(), seq)
}
