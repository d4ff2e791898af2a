package signals

import "time"

// HealthScore rates a repository resource by popularity and
// maintenance recency.
func HealthScore(stars int, lastPushed time.Time) int {
	daysSinceUpdate := int(time.Since(lastPushed).Hours() / 24)

	score := 50

	switch {
	case stars > 10000:
		score += 25
	case stars > 1000:
		score += 20
	case stars > 100:
		score += 10
	case stars > 10:
		score += 5
	}

	switch {
	case daysSinceUpdate < 7:
		score += 15
	case daysSinceUpdate < 30:
		score += 10
	case daysSinceUpdate < 90:
		score += 5
	case daysSinceUpdate > 365:
		score -= 10
	}

	return clampScore(score)
}
