package ingest

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"devradar/config"
	"devradar/connectors"
	"devradar/models"
	"devradar/signals"
)

// Store is the persistence surface a run needs: insert-if-absent per
// record, nothing else.
type Store interface {
	InsertSignalIfAbsent(*models.Signal) (bool, error)
	InsertOpportunityIfAbsent(*models.ContributionOpportunity) (bool, error)
	InsertResourceIfAbsent(*models.Resource) (bool, error)
}

// FeedFetcher fetches one RSS/Atom feed.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (*connectors.Feed, error)
}

// GitHubSearcher runs code-host search queries.
type GitHubSearcher interface {
	SearchIssues(ctx context.Context, query string, opts connectors.SearchOptions) (connectors.IssueSearchResult, error)
	SearchRepositories(ctx context.Context, query string, opts connectors.SearchOptions) (connectors.RepoSearchResult, error)
}

// Summary describes one ingestion run.
type Summary struct {
	OK       bool     `json:"ok"`
	Fetched  int      `json:"fetched"`
	Unique   int      `json:"unique"`
	Inserted int      `json:"inserted"`
	Skipped  int      `json:"skipped"`
	Failed   []string `json:"failed,omitempty"`
}

// Orchestrator drives ingestion runs: concurrent source fan-out with
// partial-failure tolerance, normalize, dedupe, idempotent persist.
type Orchestrator struct {
	feeds      FeedFetcher
	github     GitHubSearcher
	store      Store
	classifier signals.Classifier
	cfg        config.Config
	logger     *logrus.Logger
}

func NewOrchestrator(feeds FeedFetcher, github GitHubSearcher, store Store, classifier signals.Classifier, cfg config.Config, logger *logrus.Logger) *Orchestrator {
	return &Orchestrator{
		feeds:      feeds,
		github:     github,
		store:      store,
		classifier: classifier,
		cfg:        cfg,
		logger:     logger,
	}
}

type feedResult struct {
	name  string
	items []connectors.RawFeedItem
	err   error
}

// RunSignals ingests all configured feeds. A failing feed contributes
// nothing but never aborts the run; the summary records which sources
// failed.
func (o *Orchestrator) RunSignals(ctx context.Context) (Summary, error) {
	results := make([]feedResult, len(o.cfg.Feeds))

	var wg sync.WaitGroup
	for i, feed := range o.cfg.Feeds {
		wg.Add(1)
		go func(i int, feed config.FeedSpec) {
			defer wg.Done()
			fetched, err := o.feeds.Fetch(ctx, feed.URL)
			if err != nil {
				results[i] = feedResult{name: feed.Name, err: err}
				return
			}
			results[i] = feedResult{name: feed.Name, items: fetched.Items}
		}(i, feed)
	}
	wg.Wait()

	var all []models.Signal
	var failed []string
	fetched := 0

	for _, r := range results {
		if r.err != nil {
			o.logger.WithError(r.err).WithField("source", r.name).Warn("Feed fetch failed; continuing without it")
			failed = append(failed, r.name)
			continue
		}
		for _, item := range r.items {
			all = append(all, signals.FromFeedItem(item, r.name))
		}
		fetched += len(r.items)
	}

	if o.classifier != nil {
		for i := range all {
			all[i] = signals.Enrich(ctx, o.classifier, all[i], o.cfg.AIBlendWeight, o.logger)
		}
	}

	unique := signals.Deduplicate(all)

	inserted, skipped, err := o.persistSignals(unique)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		OK:       true,
		Fetched:  fetched,
		Unique:   len(unique),
		Inserted: inserted,
		Skipped:  skipped,
		Failed:   failed,
	}
	o.logger.WithFields(logrus.Fields{
		"fetched":  summary.Fetched,
		"unique":   summary.Unique,
		"inserted": summary.Inserted,
		"skipped":  summary.Skipped,
	}).Info("Signal ingestion run complete")
	return summary, nil
}

// persistSignals inserts each signal with insert-if-absent semantics.
// Conflicts and per-row errors count as skipped; when every single
// insert errors the store is treated as down and the run fails.
func (o *Orchestrator) persistSignals(unique []models.Signal) (inserted, skipped int, err error) {
	insertErrs := 0
	for i := range unique {
		ok, insertErr := o.store.InsertSignalIfAbsent(&unique[i])
		if insertErr != nil {
			insertErrs++
			skipped++
			o.logger.WithError(insertErr).WithField("entity_ref", unique[i].EntityRef).Warn("Signal insert failed")
			continue
		}
		if ok {
			inserted++
		} else {
			skipped++
		}
	}
	if len(unique) > 0 && insertErrs == len(unique) {
		return 0, 0, errAllInsertsFailed(insertErrs)
	}
	return inserted, skipped, nil
}

// errAllInsertsFailed signals the store itself is down, as opposed to
// per-row conflicts which are expected and counted as skipped.
func errAllInsertsFailed(count int) error {
	return fmt.Errorf("persisting records: all %d inserts failed", count)
}
