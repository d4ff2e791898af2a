package ingest

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"sync"

	"devradar/connectors"
	"devradar/models"
)

var repoFromURL = regexp.MustCompile(`github\.com/([^/]+/[^/]+)`)

// RunOpportunities searches good-first-issue and help-wanted issues for
// each curated language and stores them idempotently.
func (o *Orchestrator) RunOpportunities(ctx context.Context) (Summary, error) {
	fetched := 0
	inserted := 0
	skipped := 0
	insertErrs := 0
	attempts := 0
	var failed []string

	for _, lang := range o.cfg.CuratedLanguages {
		issues := o.searchLanguageIssues(ctx, lang, &failed)
		fetched += len(issues)

		seen := make(map[int64]struct{}, len(issues))
		for _, issue := range issues {
			if _, dup := seen[issue.ID]; dup {
				continue
			}
			seen[issue.ID] = struct{}{}

			repo := extractRepo(issue.HTMLURL)
			if repo == "" {
				continue
			}

			opportunity := buildOpportunity(issue, repo)
			attempts++
			ok, err := o.store.InsertOpportunityIfAbsent(&opportunity)
			if err != nil {
				insertErrs++
				skipped++
				o.logger.WithError(err).WithField("repo", repo).Warn("Opportunity insert failed")
				continue
			}
			if ok {
				inserted++
			} else {
				skipped++
			}
		}
	}

	if attempts > 0 && insertErrs == attempts {
		return Summary{}, errAllInsertsFailed(insertErrs)
	}

	summary := Summary{
		OK:       true,
		Fetched:  fetched,
		Unique:   inserted + skipped,
		Inserted: inserted,
		Skipped:  skipped,
		Failed:   failed,
	}
	o.logger.WithField("inserted", inserted).WithField("skipped", skipped).Info("Opportunity ingestion run complete")
	return summary, nil
}

// searchLanguageIssues runs the two label searches for one language
// concurrently; either failing is a soft failure for that query only.
func (o *Orchestrator) searchLanguageIssues(ctx context.Context, lang string, failed *[]string) []connectors.Issue {
	queries := []struct {
		name  string
		query string
	}{
		{name: lang + ":good_first_issue", query: connectors.GoodFirstIssueQuery(lang)},
		{name: lang + ":help_wanted", query: connectors.HelpWantedQuery(lang)},
	}

	results := make([]connectors.IssueSearchResult, len(queries))
	errs := make([]error, len(queries))

	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(i int, query string) {
			defer wg.Done()
			results[i], errs[i] = o.github.SearchIssues(ctx, query, connectors.SearchOptions{
				Sort:    "created",
				Order:   "desc",
				PerPage: o.cfg.PerPage,
			})
		}(i, q.query)
	}
	wg.Wait()

	var issues []connectors.Issue
	for i, q := range queries {
		if errs[i] != nil {
			o.logger.WithError(errs[i]).WithField("query", q.name).Warn("Issue search failed; continuing without it")
			*failed = append(*failed, q.name)
			continue
		}
		issues = append(issues, results[i].Items...)
	}
	return issues
}

func buildOpportunity(issue connectors.Issue, repo string) models.ContributionOpportunity {
	labels := make([]string, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		labels = append(labels, l.Name)
	}
	labelsJSON, _ := json.Marshal(labels)

	return models.ContributionOpportunity{
		Provider:     "github",
		Repo:         repo,
		IssueNumber:  issue.Number,
		Title:        issue.Title,
		Labels:       labelsJSON,
		Difficulty:   difficultyFromLabels(labels),
		BountyAmount: 0,
		Currency:     "USD",
		URL:          issue.HTMLURL,
		Score:        scoreIssue(labels, 0),
	}
}

func difficultyFromLabels(labels []string) models.DifficultyLevel {
	lower := lowercaseAll(labels)
	if lower["good first issue"] || lower["beginner"] {
		return models.DifficultyBeginner
	}
	if lower["advanced"] || lower["expert"] {
		return models.DifficultyAdvanced
	}
	return models.DifficultyIntermediate
}

func scoreIssue(labels []string, stars int) int {
	lower := lowercaseAll(labels)
	score := 50
	if lower["good first issue"] {
		score += 10
	}
	if lower["help wanted"] {
		score += 5
	}
	if lower["bounty"] {
		score += 20
	}
	if stars > 1000 {
		score += 10
	}
	if score > 100 {
		score = 100
	}
	return score
}

func lowercaseAll(labels []string) map[string]bool {
	out := make(map[string]bool, len(labels))
	for _, l := range labels {
		out[strings.ToLower(l)] = true
	}
	return out
}

func extractRepo(htmlURL string) string {
	match := repoFromURL.FindStringSubmatch(htmlURL)
	if match == nil {
		return ""
	}
	return match[1]
}
