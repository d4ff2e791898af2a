package signals

import (
	"regexp"
	"testing"
	"time"

	"devradar/connectors"
	"devradar/models"
)

func TestIssueEntityRefDeterministic(t *testing.T) {
	issue := connectors.Issue{
		ID:      100,
		Number:  42,
		Title:   "Fix flaky test",
		HTMLURL: "https://github.com/acme/widgets/issues/42",
	}

	first := FromIssue(issue, "acme/widgets", false, 0)
	second := FromIssue(issue, "acme/widgets", false, 0)

	if first.EntityRef != second.EntityRef {
		t.Fatalf("entity refs differ: %q vs %q", first.EntityRef, second.EntityRef)
	}
	if first.EntityRef != "github_issue:acme/widgets#42" {
		t.Fatalf("unexpected entity ref %q", first.EntityRef)
	}
}

func TestBountyScoreClamped(t *testing.T) {
	issue := connectors.Issue{
		Number: 7,
		Title:  "Implement dark mode",
		Labels: []connectors.Label{{Name: "bounty"}},
	}

	sig := FromIssue(issue, "acme/widgets", true, 5000)

	if sig.SignalType != models.SignalBounty {
		t.Fatalf("expected bounty, got %s", sig.SignalType)
	}
	if sig.Score != 100 {
		t.Fatalf("expected score 100, got %d", sig.Score)
	}
}

func TestIssueLabelScoring(t *testing.T) {
	cases := []struct {
		name  string
		label string
		score int
	}{
		{name: "good first issue", label: "Good First Issue", score: 60},
		{name: "help wanted", label: "help wanted", score: 55},
		{name: "unlabeled", label: "documentation", score: 50},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			issue := connectors.Issue{Number: 1, Labels: []connectors.Label{{Name: tc.label}}}
			sig := FromIssue(issue, "acme/widgets", false, 0)
			if sig.Score != tc.score {
				t.Fatalf("expected score %d, got %d", tc.score, sig.Score)
			}
			if sig.SignalType != models.SignalIssue {
				t.Fatalf("expected issue type, got %s", sig.SignalType)
			}
		})
	}
}

func TestFeedItemVulnerabilityClassification(t *testing.T) {
	item := connectors.RawFeedItem{
		Title:     "Critical security patch released",
		Link:      "https://example.com/advisory",
		Published: "2024-03-01T12:00:00Z",
	}

	sig := FromFeedItem(item, "cloudflare")

	if sig.SignalType != models.SignalVulnerability {
		t.Fatalf("expected vulnerability, got %s", sig.SignalType)
	}
	if sig.Score != 90 {
		t.Fatalf("expected score 90, got %d", sig.Score)
	}
}

func TestFeedItemClassificationTiers(t *testing.T) {
	cases := []struct {
		name       string
		item       connectors.RawFeedItem
		signalType models.SignalType
		score      int
	}{
		{
			name:       "breaking change",
			item:       connectors.RawFeedItem{Title: "Breaking change in v2 API", Link: "https://example.com/1"},
			signalType: models.SignalChangelog,
			score:      80,
		},
		{
			name:       "release category",
			item:       connectors.RawFeedItem{Title: "v3.2.0", Link: "https://example.com/2", Categories: []string{"Release"}},
			signalType: models.SignalRelease,
			score:      70,
		},
		{
			name:       "plain entry",
			item:       connectors.RawFeedItem{Title: "Weekly roundup", Link: "https://example.com/3"},
			signalType: models.SignalChangelog,
			score:      50,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sig := FromFeedItem(tc.item, "blog")
			if sig.SignalType != tc.signalType {
				t.Fatalf("expected %s, got %s", tc.signalType, sig.SignalType)
			}
			if sig.Score != tc.score {
				t.Fatalf("expected score %d, got %d", tc.score, sig.Score)
			}
		})
	}
}

func TestFeedItemBadDateFallsBackToNow(t *testing.T) {
	before := time.Now()
	sig := FromFeedItem(connectors.RawFeedItem{
		Title:     "Malformed entry",
		Link:      "https://example.com/bad",
		Published: "not-a-date",
	}, "blog")
	after := time.Now()

	if sig.PublishedAt.Before(before.Add(-5*time.Second)) || sig.PublishedAt.After(after.Add(5*time.Second)) {
		t.Fatalf("expected published_at near now, got %v", sig.PublishedAt)
	}
}

func TestFeedItemEntityRefShape(t *testing.T) {
	item := connectors.RawFeedItem{Title: "Post", Link: "https://example.com/post"}

	first := FromFeedItem(item, "vercel")
	second := FromFeedItem(item, "vercel")

	if first.EntityRef != second.EntityRef {
		t.Fatalf("entity refs differ for same link")
	}
	if !regexp.MustCompile(`^vercel:[0-9a-f]{16}$`).MatchString(first.EntityRef) {
		t.Fatalf("unexpected entity ref shape %q", first.EntityRef)
	}

	// No link: the title is hashed instead, still deterministically.
	noLink := connectors.RawFeedItem{Title: "Only a title"}
	if FromFeedItem(noLink, "vercel").EntityRef != FromFeedItem(noLink, "vercel").EntityRef {
		t.Fatalf("entity refs differ for same title")
	}
}

func TestReleaseScoring(t *testing.T) {
	cases := []struct {
		name    string
		release connectors.Release
		score   int
	}{
		{
			name:    "stable release",
			release: connectors.Release{TagName: "v1.0.0", Name: "First stable"},
			score:   70,
		},
		{
			name:    "prerelease discount",
			release: connectors.Release{TagName: "v2.0.0-rc1", Prerelease: true},
			score:   50,
		},
		{
			name:    "breaking body overrides prerelease",
			release: connectors.Release{TagName: "v2.0.0-rc2", Prerelease: true, Body: "BREAKING: renamed config keys"},
			score:   90,
		},
		{
			name:    "security mention",
			release: connectors.Release{TagName: "v1.0.1", Body: "Fixes a security issue in auth"},
			score:   90,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sig := FromRelease(tc.release, "acme/widgets")
			if sig.Score != tc.score {
				t.Fatalf("expected score %d, got %d", tc.score, sig.Score)
			}
			if sig.SignalType != models.SignalRelease {
				t.Fatalf("expected release type, got %s", sig.SignalType)
			}
		})
	}

	sig := FromRelease(connectors.Release{TagName: "v1.2.3"}, "acme/widgets")
	if sig.EntityRef != "github_release:acme/widgets:v1.2.3" {
		t.Fatalf("unexpected entity ref %q", sig.EntityRef)
	}
}

func TestRepositoryStarThresholds(t *testing.T) {
	cases := []struct {
		stars    int
		template bool
		score    int
	}{
		{stars: 5, template: false, score: 40},
		{stars: 50, template: false, score: 50},
		{stars: 500, template: false, score: 65},
		{stars: 1500, template: false, score: 80},
		{stars: 1500, template: true, score: 90},
	}

	for _, tc := range cases {
		repo := connectors.Repository{
			FullName:   "acme/starter",
			Name:       "starter",
			Owner:      connectors.Owner{Login: "acme"},
			Stars:      tc.stars,
			IsTemplate: tc.template,
		}
		sig := FromRepository(repo)
		if sig.Score != tc.score {
			t.Fatalf("stars=%d template=%v: expected score %d, got %d", tc.stars, tc.template, tc.score, sig.Score)
		}
		if sig.SignalType != models.SignalNewRepo {
			t.Fatalf("expected new_repo type, got %s", sig.SignalType)
		}
	}
}

func TestRepositoryMissingDescriptionDefaults(t *testing.T) {
	sig := FromRepository(connectors.Repository{FullName: "acme/empty"})
	if sig.Summary != "No description provided" {
		t.Fatalf("unexpected summary %q", sig.Summary)
	}
	if sig.EntityRef != "github_repo:acme/empty" {
		t.Fatalf("unexpected entity ref %q", sig.EntityRef)
	}
}

func TestSummaryTruncation(t *testing.T) {
	long := make([]byte, 1000)
	for i := range long {
		long[i] = 'a'
	}

	sig := FromFeedItem(connectors.RawFeedItem{Title: "Long", Link: "https://example.com/x", Content: string(long)}, "blog")
	if len(sig.Summary) != 300 {
		t.Fatalf("expected 300-char summary, got %d", len(sig.Summary))
	}

	rel := FromRelease(connectors.Release{TagName: "v1", Body: string(long)}, "acme/widgets")
	if len(rel.Summary) != 500 {
		t.Fatalf("expected 500-char summary, got %d", len(rel.Summary))
	}
}
