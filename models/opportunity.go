package models

import (
	"time"

	"gorm.io/datatypes"
)

type DifficultyLevel string

const (
	DifficultyBeginner     DifficultyLevel = "beginner"
	DifficultyIntermediate DifficultyLevel = "intermediate"
	DifficultyAdvanced     DifficultyLevel = "advanced"
)

// ContributionOpportunity is an open issue worth contributing to,
// discovered through label searches. (provider, repo, issue_number) is
// the idempotency key.
type ContributionOpportunity struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Provider     string          `json:"provider" gorm:"not null;uniqueIndex:idx_opportunity_issue"`
	Repo         string          `json:"repo" gorm:"not null;uniqueIndex:idx_opportunity_issue"`
	IssueNumber  int             `json:"issue_number" gorm:"not null;uniqueIndex:idx_opportunity_issue"`
	Title        string          `json:"title" gorm:"not null"`
	Labels       datatypes.JSON  `json:"labels"`
	Difficulty   DifficultyLevel `json:"difficulty" gorm:"type:varchar(16)"`
	BountyAmount int             `json:"bounty_amount"`
	Currency     string          `json:"currency"`
	URL          string          `json:"url" gorm:"not null"`
	Score        int             `json:"score" gorm:"index"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
