package signals

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	"devradar/connectors"
	"devradar/models"
)

// EntityRef builds the deterministic dedup key <namespace>:<identifier>.
func EntityRef(namespace, identifier string) string {
	return namespace + ":" + identifier
}

// contentHash is the stable digest used when a source has no natural
// key: first 16 hex chars of sha256.
func contentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])[:16]
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// rawPayload marshals provenance fields. The maps passed in hold only
// JSON-safe values, so marshaling cannot fail; a nil column is returned
// in the impossible case rather than an error.
func rawPayload(fields map[string]interface{}) datatypes.JSON {
	data, err := json.Marshal(fields)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}

// FromFeedItem maps an RSS/Atom item to a Signal. Classification keys
// off the item's extracted keywords; items with no marker keywords land
// as ordinary changelog entries.
func FromFeedItem(item connectors.RawFeedItem, source string) models.Signal {
	keywords := connectors.ExtractKeywords(item)
	has := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		has[k] = true
	}

	signalType := models.SignalChangelog
	score := 50

	switch {
	case has["security"] || has["critical"]:
		signalType = models.SignalVulnerability
		score = 90
	case has["breaking"] || has["deprecat"]:
		signalType = models.SignalChangelog
		score = 80
	case has["release"]:
		signalType = models.SignalRelease
		score = 70
	}

	summary := item.Snippet
	if summary == "" {
		summary = truncate(item.Content, 300)
	}

	hashInput := item.Link
	if hashInput == "" {
		hashInput = item.Title
	}

	return models.Signal{
		SignalType:  signalType,
		Source:      source,
		Title:       item.Title,
		Summary:     summary,
		EntityRef:   EntityRef(source, contentHash(hashInput)),
		Score:       clampScore(score),
		PublishedAt: connectors.ParseFeedDate(item.Published),
		RawPayload: rawPayload(map[string]interface{}{
			"link":       item.Link,
			"categories": item.Categories,
			"creator":    item.Creator,
			"guid":       item.GUID,
		}),
	}
}

// FromRelease maps a repository release to a Signal. A breaking or
// security mention in the body overrides the prerelease discount.
func FromRelease(release connectors.Release, repoFullName string) models.Signal {
	score := 70
	if release.Prerelease {
		score = 50
	}

	bodyLower := strings.ToLower(release.Body)
	if strings.Contains(bodyLower, "breaking") || strings.Contains(bodyLower, "security") {
		score = 90
	}

	name := release.Name
	if name == "" {
		name = "New Release"
	}

	return models.Signal{
		SignalType:  models.SignalRelease,
		Source:      "github",
		Title:       fmt.Sprintf("%s %s: %s", repoFullName, release.TagName, name),
		Summary:     truncate(release.Body, 500),
		EntityRef:   EntityRef("github_release", repoFullName+":"+release.TagName),
		Score:       clampScore(score),
		PublishedAt: parseGitHubTime(release.PublishedAt),
		RawPayload: rawPayload(map[string]interface{}{
			"repo":       repoFullName,
			"tagName":    release.TagName,
			"htmlUrl":    release.HTMLURL,
			"prerelease": release.Prerelease,
		}),
	}
}

// FromIssue maps an issue hit to a Signal. Bounty issues score from the
// bounty amount; otherwise beginner labels give a modest lift.
func FromIssue(issue connectors.Issue, repoFullName string, hasBounty bool, bountyAmount int) models.Signal {
	labels := make([]string, 0, len(issue.Labels))
	has := make(map[string]bool, len(issue.Labels))
	for _, l := range issue.Labels {
		lower := strings.ToLower(l.Name)
		labels = append(labels, lower)
		has[lower] = true
	}

	signalType := models.SignalIssue
	score := 50

	switch {
	case hasBounty || has["bounty"]:
		signalType = models.SignalBounty
		bonus := bountyAmount / 100
		if bonus > 20 {
			bonus = 20
		}
		score = 80 + bonus
	case has["good first issue"]:
		score = 60
	case has["help wanted"]:
		score = 55
	}

	return models.Signal{
		SignalType:  signalType,
		Source:      "github",
		Title:       fmt.Sprintf("[%s] %s", repoFullName, issue.Title),
		Summary:     fmt.Sprintf("Issue #%d - Labels: %s", issue.Number, strings.Join(labels, ", ")),
		EntityRef:   EntityRef("github_issue", fmt.Sprintf("%s#%d", repoFullName, issue.Number)),
		Score:       clampScore(score),
		PublishedAt: parseGitHubTime(issue.CreatedAt),
		RawPayload: rawPayload(map[string]interface{}{
			"repo":         repoFullName,
			"issueNumber":  issue.Number,
			"htmlUrl":      issue.HTMLURL,
			"labels":       labels,
			"hasBounty":    hasBounty,
			"bountyAmount": bountyAmount,
		}),
	}
}

// FromRepository maps a repository hit to a new_repo Signal, scored by
// star-count thresholds with a bonus for templates.
func FromRepository(repo connectors.Repository) models.Signal {
	score := 40
	switch {
	case repo.Stars > 1000:
		score = 80
	case repo.Stars > 100:
		score = 65
	case repo.Stars > 10:
		score = 50
	}
	if repo.IsTemplate {
		score += 10
	}

	summary := repo.Description
	if summary == "" {
		summary = "No description provided"
	}

	return models.Signal{
		SignalType:  models.SignalNewRepo,
		Source:      "github",
		Title:       "New repo: " + repo.FullName,
		Summary:     summary,
		EntityRef:   EntityRef("github_repo", repo.FullName),
		Score:       clampScore(score),
		PublishedAt: parseGitHubTime(repo.CreatedAt),
		RawPayload: rawPayload(map[string]interface{}{
			"owner":      repo.Owner.Login,
			"repo":       repo.Name,
			"htmlUrl":    repo.HTMLURL,
			"stars":      repo.Stars,
			"language":   repo.Language,
			"topics":     repo.Topics,
			"isTemplate": repo.IsTemplate,
		}),
	}
}

// parseGitHubTime parses the API's RFC 3339 timestamps, defaulting to
// now on malformed input.
func parseGitHubTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Now()
	}
	return t
}
