package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Document number sequences. Injected into the workflows so number generation
// stays a collaborator, not process-wide mutable state.
const (
	SeqGoodsReceipt  = "grn_number_seq"
	SeqVendorRequest = "vendor_request_number_seq"
	SeqCreditNote    = "credit_note_number_seq"
)

type SequenceRepository interface {
	// Next draws the next value from a PostgreSQL sequence, atomically, inside
	// the caller's transaction so a rolled-back submission never burns a
	// visible gap mid-flight.
	Next(ctx context.Context, tx *gorm.DB, sequence string) (int64, error)
}

type sequenceRepo struct{ db *gorm.DB }

func NewSequenceRepository(db *gorm.DB) SequenceRepository { return &sequenceRepo{db: db} }

func (r *sequenceRepo) Next(ctx context.Context, tx *gorm.DB, sequence string) (int64, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	var num int64
	err := db.WithContext(ctx).Raw(fmt.Sprintf("SELECT nextval('%s')", sequence)).Scan(&num).Error
	return num, err
}
