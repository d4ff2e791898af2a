package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// FeedSpec names one RSS/Atom source.
type FeedSpec struct {
	Name string
	URL  string
}

// Config holds all runtime configuration. It is built once at startup
// and passed by reference; nothing else reads the environment.
type Config struct {
	ListenAddr   string
	GinMode      string
	DatabasePath string

	// CronSecret protects the ingestion trigger endpoints. Empty means
	// the endpoints are closed.
	CronSecret string

	GitHubBaseURL string
	GitHubTokens  []string

	Feeds            []FeedSpec
	CuratedLanguages []string
	TemplateTopics   []string
	TemplateMinStars int

	AIEnabled bool
	AIAPIKey  string
	AIBaseURL string
	AIModel   string
	// AIBlendWeight is the weight of the AI score in [0,1] when blending
	// with the heuristic score. 0.5 reproduces the plain average.
	AIBlendWeight float64

	HTTPTimeout time.Duration
	PerPage     int
}

// Default feed set mirrors the changelog sources the dashboard tracks.
var defaultFeeds = []FeedSpec{
	{Name: "cloudflare", URL: "https://developers.cloudflare.com/changelog/index.xml"},
	{Name: "github_changelog", URL: "https://github.blog/changelog/feed/"},
	{Name: "vercel", URL: "https://vercel.com/atom"},
	{Name: "nodejs", URL: "https://nodejs.org/en/feed/blog.xml"},
	{Name: "react", URL: "https://react.dev/rss.xml"},
}

// Load reads .env files (if present) and builds the Config from the
// process environment.
func Load(logger *logrus.Logger) Config {
	loadEnvFiles(logger)

	cfg := Config{
		ListenAddr:       ":" + GetEnv("PORT", "8090"),
		GinMode:          GetEnv("GIN_MODE", "debug"),
		DatabasePath:     GetEnv("DATABASE_PATH", "devradar.db"),
		CronSecret:       os.Getenv("CRON_SECRET"),
		GitHubBaseURL:    GetEnv("GITHUB_API_BASE", "https://api.github.com"),
		GitHubTokens:     GetEnvList("GITHUB_TOKENS", nil),
		CuratedLanguages: GetEnvList("CURATED_LANGUAGES", []string{"typescript", "javascript", "python", "rust", "go"}),
		TemplateTopics:   GetEnvList("TEMPLATE_TOPICS", []string{"nextjs", "react", "go"}),
		TemplateMinStars: GetEnvInt("TEMPLATE_MIN_STARS", 100),
		AIEnabled:        GetEnvBool("AI_ENABLED", false),
		AIAPIKey:         os.Getenv("AI_API_KEY"),
		AIBaseURL:        GetEnv("AI_BASE_URL", "https://api.deepseek.com/v1"),
		AIModel:          GetEnv("AI_MODEL", "deepseek-chat"),
		AIBlendWeight:    GetEnvFloat("AI_BLEND_WEIGHT", 0.5),
		HTTPTimeout:      time.Duration(GetEnvInt("HTTP_TIMEOUT_SECONDS", 10)) * time.Second,
		PerPage:          GetEnvInt("SEARCH_PER_PAGE", 30),
	}

	cfg.Feeds = parseFeeds(GetEnvList("FEED_URLS", nil))
	if len(cfg.Feeds) == 0 {
		cfg.Feeds = defaultFeeds
	}

	if cfg.CronSecret == "" && logger != nil {
		logger.Warn("CRON_SECRET not set; ingestion endpoints will reject all requests")
	}
	if len(cfg.GitHubTokens) == 0 && logger != nil {
		logger.Warn("GITHUB_TOKENS not set; GitHub search will run at the unauthenticated quota")
	}

	return cfg
}

func loadEnvFiles(logger *logrus.Logger) {
	for _, file := range []string{".env", ".env.dev"} {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Overload(file); err != nil && logger != nil {
			logger.WithError(err).Warnf("Failed to load %s", file)
		}
	}
}

// parseFeeds parses "name=url" entries; entries without a name take the
// URL host as their source tag.
func parseFeeds(entries []string) []FeedSpec {
	feeds := make([]FeedSpec, 0, len(entries))
	for _, entry := range entries {
		name, url, found := strings.Cut(entry, "=")
		if !found {
			feeds = append(feeds, FeedSpec{Name: entry, URL: entry})
			continue
		}
		feeds = append(feeds, FeedSpec{Name: strings.TrimSpace(name), URL: strings.TrimSpace(url)})
	}
	return feeds
}

// GetEnv gets an environment variable with a default value.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt gets an integer environment variable with a default value.
func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetEnvBool gets a boolean environment variable with a default value.
func GetEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetEnvFloat gets a float environment variable with a default value.
func GetEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetEnvList splits a comma-separated environment variable, dropping
// empty entries.
func GetEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// GetLogLevel gets the log level from environment.
func GetLogLevel() logrus.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
