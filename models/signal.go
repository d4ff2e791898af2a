package models

import (
	"time"

	"gorm.io/datatypes"
)

// SignalType classifies the kind of ecosystem event a Signal records.
type SignalType string

const (
	SignalRelease       SignalType = "release"
	SignalVulnerability SignalType = "vulnerability"
	SignalChangelog     SignalType = "changelog"
	SignalIssue         SignalType = "issue"
	SignalBounty        SignalType = "bounty"
	SignalNewRepo       SignalType = "new_repo"
)

// Signal is one canonical, deduplicated record of an external
// developer-ecosystem event. EntityRef is the sole dedup and
// idempotency key; a row is never rewritten once inserted.
type Signal struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	SignalType  SignalType     `json:"signal_type" gorm:"type:varchar(32);not null;index"`
	Source      string         `json:"source" gorm:"not null;index"`
	Title       string         `json:"title" gorm:"not null"`
	Summary     string         `json:"summary"`
	EntityRef   string         `json:"entity_ref" gorm:"uniqueIndex;not null"`
	Score       int            `json:"score"`
	PublishedAt time.Time      `json:"published_at" gorm:"index"`
	RawPayload  datatypes.JSON `json:"raw_payload"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
