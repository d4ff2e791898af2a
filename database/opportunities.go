package database

import (
	"gorm.io/gorm/clause"

	"devradar/models"
)

// OpportunityFilter narrows ListOpportunities results.
type OpportunityFilter struct {
	Difficulty string
	MinScore   int
	Limit      int
}

// InsertOpportunityIfAbsent inserts the opportunity unless one already
// exists for the same (provider, repo, issue number).
func (db *DB) InsertOpportunityIfAbsent(o *models.ContributionOpportunity) (bool, error) {
	res := db.gorm.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"}, {Name: "repo"}, {Name: "issue_number"},
		},
		DoNothing: true,
	}).Create(o)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ListOpportunities returns opportunities matching the filter, highest
// score first.
func (db *DB) ListOpportunities(f OpportunityFilter) ([]models.ContributionOpportunity, error) {
	query := db.gorm.Model(&models.ContributionOpportunity{})

	if f.Difficulty != "" {
		query = query.Where("difficulty = ?", f.Difficulty)
	}
	if f.MinScore > 0 {
		query = query.Where("score >= ?", f.MinScore)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	var opportunities []models.ContributionOpportunity
	err := query.Order("score DESC").Limit(limit).Find(&opportunities).Error
	return opportunities, err
}
