package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/codigix/passion-clothing-sub009/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// for all tables, then applies the idempotent SQL patches GORM cannot express
// (sequences, partial unique indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates or updates the schema. Also used by integration tests
// against a throwaway container database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Vendor{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderLine{},
		&model.InventoryItem{},
		&model.InventoryMovement{},
		&model.GoodsReceiptNote{},
		&model.GoodsReceiptItem{},
		&model.DiscrepancyCase{},
		&model.VendorRequest{},
		&model.VendorRequestItem{},
		&model.CreditNote{},
		&model.CreditNoteItem{},
		&model.AuditTrailEntry{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs DDL that AutoMigrate cannot produce. Every statement
// is guarded so re-running on an already-patched database is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Document number sequences — one per document family.
		`CREATE SEQUENCE IF NOT EXISTS grn_number_seq`,
		`CREATE SEQUENCE IF NOT EXISTS vendor_request_number_seq`,
		`CREATE SEQUENCE IF NOT EXISTS credit_note_number_seq`,

		// At most one OPEN case per (entity, complaint_type). Resolved cases
		// stay behind as history, so the uniqueness must be partial.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uniq_open_case_per_entity_type') THEN
		    CREATE UNIQUE INDEX uniq_open_case_per_entity_type
		        ON approvals (entity_type, entity_id, complaint_type)
		        WHERE status IN ('pending', 'in_progress');
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
