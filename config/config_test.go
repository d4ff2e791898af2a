package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("FEED_URLS", "")
	t.Setenv("AI_ENABLED", "")
	t.Setenv("AI_BLEND_WEIGHT", "")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "")

	cfg := Load(nil)

	if cfg.ListenAddr != ":8090" {
		t.Fatalf("expected default listen addr :8090, got %q", cfg.ListenAddr)
	}
	if cfg.GitHubBaseURL != "https://api.github.com" {
		t.Fatalf("unexpected GitHub base URL %q", cfg.GitHubBaseURL)
	}
	if len(cfg.Feeds) == 0 {
		t.Fatalf("expected a default feed set")
	}
	if cfg.AIEnabled {
		t.Fatalf("AI must be disabled by default")
	}
	if cfg.AIBlendWeight != 0.5 {
		t.Fatalf("expected default blend weight 0.5, got %v", cfg.AIBlendWeight)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Fatalf("expected 10s default timeout, got %v", cfg.HTTPTimeout)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("GITHUB_TOKENS", "ghp_one, ghp_two ,")
	t.Setenv("CRON_SECRET", "topsecret")
	t.Setenv("AI_ENABLED", "true")
	t.Setenv("AI_BLEND_WEIGHT", "0.7")
	t.Setenv("TEMPLATE_MIN_STARS", "250")

	cfg := Load(nil)

	if cfg.ListenAddr != ":9000" {
		t.Fatalf("expected :9000, got %q", cfg.ListenAddr)
	}
	if len(cfg.GitHubTokens) != 2 || cfg.GitHubTokens[0] != "ghp_one" || cfg.GitHubTokens[1] != "ghp_two" {
		t.Fatalf("unexpected tokens %v", cfg.GitHubTokens)
	}
	if cfg.CronSecret != "topsecret" {
		t.Fatalf("unexpected cron secret %q", cfg.CronSecret)
	}
	if !cfg.AIEnabled || cfg.AIBlendWeight != 0.7 {
		t.Fatalf("unexpected AI config enabled=%v weight=%v", cfg.AIEnabled, cfg.AIBlendWeight)
	}
	if cfg.TemplateMinStars != 250 {
		t.Fatalf("unexpected template star floor %d", cfg.TemplateMinStars)
	}
}

func TestFeedEnvOverridesDefaults(t *testing.T) {
	t.Setenv("FEED_URLS", "deno=https://deno.com/feed.xml,https://bun.sh/rss.xml")

	cfg := Load(nil)

	if len(cfg.Feeds) != 2 {
		t.Fatalf("expected 2 feeds, got %d", len(cfg.Feeds))
	}
	if cfg.Feeds[0].Name != "deno" || cfg.Feeds[0].URL != "https://deno.com/feed.xml" {
		t.Fatalf("unexpected named feed %+v", cfg.Feeds[0])
	}
	// An entry without a name tag keeps the URL as its source tag.
	if cfg.Feeds[1].Name != "https://bun.sh/rss.xml" {
		t.Fatalf("unexpected unnamed feed %+v", cfg.Feeds[1])
	}
}

func TestGetEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("SEARCH_PER_PAGE", "not-a-number")

	if got := GetEnvInt("SEARCH_PER_PAGE", 30); got != 30 {
		t.Fatalf("expected fallback 30, got %d", got)
	}
}

func TestGetEnvListDropsEmptyEntries(t *testing.T) {
	t.Setenv("CURATED_LANGUAGES", " , ,go, rust ,")

	got := GetEnvList("CURATED_LANGUAGES", nil)
	if len(got) != 2 || got[0] != "go" || got[1] != "rust" {
		t.Fatalf("unexpected list %v", got)
	}
}

func TestGetLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	if got := GetLogLevel(); got != logrus.WarnLevel {
		t.Fatalf("expected warn level, got %v", got)
	}

	t.Setenv("LOG_LEVEL", "")
	if got := GetLogLevel(); got != logrus.InfoLevel {
		t.Fatalf("expected info default, got %v", got)
	}
}

func TestFeedsParsedFromURL(t *testing.T) {
	feeds := parseFeeds([]string{"vercel = https://vercel.com/atom"})
	if len(feeds) != 1 || feeds[0].Name != "vercel" || feeds[0].URL != "https://vercel.com/atom" {
		t.Fatalf("unexpected parse %+v", feeds)
	}
}
