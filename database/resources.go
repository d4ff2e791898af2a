package database

import (
	"gorm.io/gorm/clause"

	"devradar/models"
)

// ResourceFilter narrows ListResources results.
type ResourceFilter struct {
	Language     string
	TemplateOnly bool
	Limit        int
}

// InsertResourceIfAbsent inserts the resource unless one already exists
// for the same (provider, owner, repo).
func (db *DB) InsertResourceIfAbsent(r *models.Resource) (bool, error) {
	res := db.gorm.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"}, {Name: "owner"}, {Name: "repo"},
		},
		DoNothing: true,
	}).Create(r)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ListResources returns resources matching the filter, highest health
// score first.
func (db *DB) ListResources(f ResourceFilter) ([]models.Resource, error) {
	query := db.gorm.Model(&models.Resource{})

	if f.Language != "" {
		query = query.Where("language = ?", f.Language)
	}
	if f.TemplateOnly {
		query = query.Where("is_template = ?", true)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	var resources []models.Resource
	err := query.Order("health_score DESC").Limit(limit).Find(&resources).Error
	return resources, err
}
