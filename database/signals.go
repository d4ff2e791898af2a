package database

import (
	"time"

	"gorm.io/gorm/clause"

	"devradar/models"
)

// SignalFilter narrows ListSignals results. Zero values mean "no
// filter" for that field.
type SignalFilter struct {
	Type     string
	Source   string
	MinScore int
	Since    time.Time
	Limit    int
}

// SignalStats aggregates the stored signal set.
type SignalStats struct {
	Total        int64            `json:"total"`
	HighImpact   int64            `json:"high_impact"`
	MediumImpact int64            `json:"medium_impact"`
	AvgScore     float64          `json:"avg_score"`
	ByType       map[string]int64 `json:"by_type"`
}

// InsertSignalIfAbsent inserts the signal unless a row with the same
// entity_ref already exists. An existing row is never touched. Returns
// whether a new row was written.
func (db *DB) InsertSignalIfAbsent(s *models.Signal) (bool, error) {
	res := db.gorm.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entity_ref"}},
		DoNothing: true,
	}).Create(s)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ListSignals returns signals matching the filter, newest first.
func (db *DB) ListSignals(f SignalFilter) ([]models.Signal, error) {
	query := db.gorm.Model(&models.Signal{})

	if f.Type != "" {
		query = query.Where("signal_type = ?", f.Type)
	}
	if f.Source != "" {
		query = query.Where("source = ?", f.Source)
	}
	if f.MinScore > 0 {
		query = query.Where("score >= ?", f.MinScore)
	}
	if !f.Since.IsZero() {
		query = query.Where("published_at >= ?", f.Since)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	var signals []models.Signal
	err := query.Order("published_at DESC").Limit(limit).Find(&signals).Error
	return signals, err
}

// SignalStats computes aggregate counts over all stored signals.
func (db *DB) SignalStats() (SignalStats, error) {
	stats := SignalStats{ByType: make(map[string]int64)}

	if err := db.gorm.Model(&models.Signal{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	if err := db.gorm.Model(&models.Signal{}).Where("score >= ?", 70).Count(&stats.HighImpact).Error; err != nil {
		return stats, err
	}
	if err := db.gorm.Model(&models.Signal{}).Where("score >= ? AND score < ?", 50, 70).Count(&stats.MediumImpact).Error; err != nil {
		return stats, err
	}
	if stats.Total > 0 {
		if err := db.gorm.Model(&models.Signal{}).Select("AVG(score)").Scan(&stats.AvgScore).Error; err != nil {
			return stats, err
		}
	}

	rows, err := db.gorm.Model(&models.Signal{}).
		Select("signal_type, COUNT(*) as count").
		Group("signal_type").Rows()
	if err != nil {
		return stats, err
	}
	defer rows.Close()
	for rows.Next() {
		var signalType string
		var count int64
		if err := rows.Scan(&signalType, &count); err != nil {
			return stats, err
		}
		stats.ByType[signalType] = count
	}

	return stats, rows.Err()
}
