package models

import (
	"time"

	"gorm.io/datatypes"
)

// Resource is a curated or discovered repository (templates, reference
// projects). (provider, owner, repo) is the idempotency key.
type Resource struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Provider    string         `json:"provider" gorm:"not null;uniqueIndex:idx_resource_repo"`
	Owner       string         `json:"owner" gorm:"not null;uniqueIndex:idx_resource_repo"`
	Repo        string         `json:"repo" gorm:"not null;uniqueIndex:idx_resource_repo"`
	URL         string         `json:"url" gorm:"not null"`
	Description string         `json:"description"`
	Topics      datatypes.JSON `json:"topics"`
	Language    string         `json:"language" gorm:"index"`
	Stars       int            `json:"stars"`
	Forks       int            `json:"forks"`
	LicenseSPDX string         `json:"license_spdx"`
	IsTemplate  bool           `json:"is_template" gorm:"index"`
	PushedAt    time.Time      `json:"pushed_at"`
	HealthScore int            `json:"health_score" gorm:"index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
