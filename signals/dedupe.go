package signals

import (
	"sort"

	"devradar/models"
)

// Deduplicate collapses signals sharing an EntityRef in one linear
// pass. The strictly higher score wins; ties keep the first seen.
func Deduplicate(in []models.Signal) []models.Signal {
	index := make(map[string]int, len(in))
	out := make([]models.Signal, 0, len(in))

	for _, s := range in {
		i, ok := index[s.EntityRef]
		if !ok {
			index[s.EntityRef] = len(out)
			out = append(out, s)
			continue
		}
		if s.Score > out[i].Score {
			out[i] = s
		}
	}

	return out
}

// SortByRelevance orders a copy of the signals by score, newest first
// within equal scores.
func SortByRelevance(in []models.Signal) []models.Signal {
	out := make([]models.Signal, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	return out
}
