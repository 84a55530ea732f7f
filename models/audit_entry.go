package models

import (
	"time"
)

// AuditEntry is an append-only record of a state-changing action.
// Rows are only ever inserted, never updated or deleted; the audit
// package is the single write path into this table.
type AuditEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ActorID   string    `gorm:"type:varchar(64);not null;index" json:"actor_id"` // "user:<id>" atau identitas sistem
	Action    string    `gorm:"type:varchar(64);not null;index" json:"action"`
	Details   string    `gorm:"type:json;not null" json:"details"` // previous_value, new_value, affected_entity_id, ...
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
