package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog captures authentication events such as issued tokens and rejected logins.
type AuditLog struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	Actor     string            `gorm:"size:128;not null;index" json:"actor"`
	Action    string            `gorm:"size:64;not null" json:"action"`
	Outcome   string            `gorm:"size:32;not null" json:"outcome"`
	Metadata  datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}

// All lists every persisted model for auto-migration.
func All() []interface{} {
	return []interface{}{
		&Building{},
		&Organization{},
		&PhoneNumber{},
		&Activity{},
		&User{},
		&Permission{},
		&AuditLog{},
	}
}
