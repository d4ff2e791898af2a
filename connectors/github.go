package connectors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// ErrRateLimited marks a search call rejected for quota reasons after
// all credentials were tried.
var ErrRateLimited = errors.New("github: rate limited")

// Label is an issue label.
type Label struct {
	Name string `json:"name"`
}

// Issue is a raw issue search hit.
type Issue struct {
	ID        int64   `json:"id"`
	Number    int     `json:"number"`
	Title     string  `json:"title"`
	HTMLURL   string  `json:"html_url"`
	Labels    []Label `json:"labels"`
	State     string  `json:"state"`
	CreatedAt string  `json:"created_at"`
}

// Release is a raw repository release.
type Release struct {
	ID          int64  `json:"id"`
	TagName     string `json:"tag_name"`
	Name        string `json:"name"`
	Body        string `json:"body"`
	PublishedAt string `json:"published_at"`
	HTMLURL     string `json:"html_url"`
	Prerelease  bool   `json:"prerelease"`
}

// Repository is a raw repository search hit.
type Repository struct {
	ID          int64    `json:"id"`
	FullName    string   `json:"full_name"`
	Name        string   `json:"name"`
	Owner       Owner    `json:"owner"`
	HTMLURL     string   `json:"html_url"`
	Description string   `json:"description"`
	Topics      []string `json:"topics"`
	Language    string   `json:"language"`
	Stars       int      `json:"stargazers_count"`
	Forks       int      `json:"forks_count"`
	License     *License `json:"license"`
	IsTemplate  bool     `json:"is_template"`
	PushedAt    string   `json:"pushed_at"`
	CreatedAt   string   `json:"created_at"`
}

type Owner struct {
	Login string `json:"login"`
}

type License struct {
	SPDXID string `json:"spdx_id"`
}

// IssueSearchResult is one page of issue hits plus the total-count hint.
type IssueSearchResult struct {
	Items      []Issue `json:"items"`
	TotalCount int     `json:"total_count"`
}

// RepoSearchResult is one page of repository hits plus the total-count hint.
type RepoSearchResult struct {
	Items      []Repository `json:"items"`
	TotalCount int          `json:"total_count"`
}

// SearchOptions control sorting and pagination of a search call.
type SearchOptions struct {
	Sort    string
	Order   string
	PerPage int
	Page    int
}

// TokenRing is a lock-protected rotation cursor over a set of API
// credentials. It is owned by the client, never process-global, so
// concurrent runs sharing one client rotate safely.
type TokenRing struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

func NewTokenRing(tokens []string) *TokenRing {
	return &TokenRing{tokens: tokens}
}

// Len returns the number of credentials in the ring.
func (r *TokenRing) Len() int {
	return len(r.tokens)
}

// Current returns the active credential, or "" when the ring is empty.
func (r *TokenRing) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.tokens) == 0 {
		return ""
	}
	return r.tokens[r.idx%len(r.tokens)]
}

// Advance rotates to the next credential and returns it.
func (r *TokenRing) Advance() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.tokens) == 0 {
		return ""
	}
	r.idx = (r.idx + 1) % len(r.tokens)
	return r.tokens[r.idx]
}

// GitHubClient talks to the code-host search API.
type GitHubClient struct {
	baseURL    string
	tokens     *TokenRing
	httpClient *http.Client
}

// NewGitHubClient builds a search client. tokens may be empty, for
// running at the unauthenticated quota.
func NewGitHubClient(baseURL string, tokens []string, timeout time.Duration) *GitHubClient {
	return &GitHubClient{
		baseURL:    baseURL,
		tokens:     NewTokenRing(tokens),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SearchIssues runs an issue search query and returns one page of hits.
func (c *GitHubClient) SearchIssues(ctx context.Context, query string, opts SearchOptions) (IssueSearchResult, error) {
	var result IssueSearchResult
	err := c.search(ctx, "/search/issues", query, opts, &result)
	return result, err
}

// SearchRepositories runs a repository search query and returns one
// page of hits.
func (c *GitHubClient) SearchRepositories(ctx context.Context, query string, opts SearchOptions) (RepoSearchResult, error) {
	var result RepoSearchResult
	err := c.search(ctx, "/search/repositories", query, opts, &result)
	return result, err
}

// search issues the request, rotating credentials once per remaining
// token when a rate-limit response comes back, then gives up.
func (c *GitHubClient) search(ctx context.Context, path, query string, opts SearchOptions, out interface{}) error {
	attempts := c.tokens.Len()
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		status, err := c.doSearch(ctx, path, query, opts, out)
		if err == nil {
			return nil
		}
		lastErr = err

		rateLimited := status == http.StatusForbidden || status == http.StatusTooManyRequests
		if !rateLimited || attempt == attempts-1 {
			return lastErr
		}
		c.tokens.Advance()
	}
	return lastErr
}

func (c *GitHubClient) doSearch(ctx context.Context, path, query string, opts SearchOptions, out interface{}) (int, error) {
	params := url.Values{}
	params.Set("q", query)
	if opts.Sort != "" {
		params.Set("sort", opts.Sort)
	}
	if opts.Order != "" {
		params.Set("order", opts.Order)
	}
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = 30
	}
	params.Set("per_page", strconv.Itoa(perPage))
	if opts.Page > 0 {
		params.Set("page", strconv.Itoa(opts.Page))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if token := c.tokens.Current(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("search %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden, http.StatusTooManyRequests:
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, fmt.Errorf("search %s: %w", path, ErrRateLimited)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return resp.StatusCode, fmt.Errorf("search %s: status %d: %s", path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decoding search response: %w", err)
	}
	return resp.StatusCode, nil
}

// GoodFirstIssueQuery builds the search query for beginner-friendly
// open issues, optionally narrowed by language.
func GoodFirstIssueQuery(language string) string {
	return labeledIssueQuery("good first issue", language)
}

// HelpWantedQuery builds the search query for help-wanted open issues.
func HelpWantedQuery(language string) string {
	return labeledIssueQuery("help wanted", language)
}

func labeledIssueQuery(label, language string) string {
	q := fmt.Sprintf("is:issue is:open label:%q", label)
	if language != "" {
		q += " language:" + language
	}
	return q
}

// TemplateRepoQuery builds the discovery query for template
// repositories under a topic with a star floor.
func TemplateRepoQuery(topic string, minStars int) string {
	return fmt.Sprintf("topic:%s is:template stars:>=%d", topic, minStars)
}

// TrendingRepoQuery builds the discovery query for repositories created
// after the given date.
func TrendingRepoQuery(language string, createdAfter time.Time) string {
	q := fmt.Sprintf("created:>=%s stars:>=10", createdAfter.Format("2006-01-02"))
	if language != "" {
		q += " language:" + language
	}
	return q
}
