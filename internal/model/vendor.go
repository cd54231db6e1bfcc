package model

import (
	"time"

	"github.com/google/uuid"
)

// Vendor master data — read-only here, owned by the vendor subsystem.
// Names are denormalized into case listings so reviewers get them without a
// second round-trip.
type Vendor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(120);not null"`
	Email     string    `gorm:"type:varchar(120)"`
	Phone     string    `gorm:"type:varchar(30)"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
