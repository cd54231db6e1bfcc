package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codigix/passion-clothing-sub009/internal/model"
)

// VendorRepository is read-only vendor master data, used to denormalize
// vendor names into listings.
type VendorRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Vendor, error)
}

type vendorRepo struct{ db *gorm.DB }

func NewVendorRepository(db *gorm.DB) VendorRepository { return &vendorRepo{db: db} }

func (r *vendorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Vendor, error) {
	var v model.Vendor
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}
