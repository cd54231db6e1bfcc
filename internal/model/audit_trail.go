package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Metadata is a free-form JSONB bag attached to an audit entry.
type Metadata map[string]interface{}

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("audit metadata: unsupported scan type")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, m)
}

// AuditTrailEntry mirrors every state transition across the workflow
// entities. Append-only: no update or delete path exists anywhere in the
// codebase, and entries are written in the same transaction as the change
// they describe.
type AuditTrailEntry struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EntityType   string    `gorm:"type:varchar(30);not null;index:idx_audit_entity"`
	EntityID     uuid.UUID `gorm:"type:uuid;not null;index:idx_audit_entity"`
	Action       string    `gorm:"type:varchar(40);not null"`
	StatusBefore string    `gorm:"type:varchar(20)"`
	StatusAfter  string    `gorm:"type:varchar(20)"`
	PerformedBy  uuid.UUID `gorm:"type:uuid;not null"`
	Department   string    `gorm:"type:varchar(40)"`
	Reason       string    `gorm:"type:text"`
	Metadata     Metadata  `gorm:"type:jsonb"`
	CreatedAt    time.Time
}

func (AuditTrailEntry) TableName() string { return "audit_trails" }
