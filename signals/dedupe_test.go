package signals

import (
	"testing"
	"time"

	"devradar/models"
)

func TestDeduplicateKeepsMaxScore(t *testing.T) {
	in := []models.Signal{
		{EntityRef: "github_repo:acme/widgets", Score: 60},
		{EntityRef: "github_repo:acme/widgets", Score: 85},
	}

	out := Deduplicate(in)

	if len(out) != 1 {
		t.Fatalf("expected 1 signal, got %d", len(out))
	}
	if out[0].Score != 85 {
		t.Fatalf("expected score 85, got %d", out[0].Score)
	}
}

func TestDeduplicateTieKeepsFirst(t *testing.T) {
	in := []models.Signal{
		{EntityRef: "ref:a", Score: 70, Title: "first"},
		{EntityRef: "ref:a", Score: 70, Title: "second"},
	}

	out := Deduplicate(in)

	if len(out) != 1 {
		t.Fatalf("expected 1 signal, got %d", len(out))
	}
	if out[0].Title != "first" {
		t.Fatalf("expected first-seen signal, got %q", out[0].Title)
	}
}

func TestDeduplicateMixedRefs(t *testing.T) {
	in := []models.Signal{
		{EntityRef: "ref:a", Score: 50},
		{EntityRef: "ref:b", Score: 60},
		{EntityRef: "ref:a", Score: 90},
		{EntityRef: "ref:c", Score: 40},
		{EntityRef: "ref:b", Score: 55},
	}

	out := Deduplicate(in)

	if len(out) != 3 {
		t.Fatalf("expected 3 signals, got %d", len(out))
	}
	scores := map[string]int{}
	for _, s := range out {
		scores[s.EntityRef] = s.Score
	}
	if scores["ref:a"] != 90 || scores["ref:b"] != 60 || scores["ref:c"] != 40 {
		t.Fatalf("unexpected winners: %v", scores)
	}
}

func TestDeduplicateEmpty(t *testing.T) {
	if out := Deduplicate(nil); len(out) != 0 {
		t.Fatalf("expected empty result, got %d", len(out))
	}
}

func TestSortByRelevance(t *testing.T) {
	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	in := []models.Signal{
		{EntityRef: "ref:a", Score: 50, PublishedAt: older},
		{EntityRef: "ref:b", Score: 90, PublishedAt: older},
		{EntityRef: "ref:c", Score: 50, PublishedAt: newer},
	}

	out := SortByRelevance(in)

	if out[0].EntityRef != "ref:b" || out[1].EntityRef != "ref:c" || out[2].EntityRef != "ref:a" {
		t.Fatalf("unexpected order: %s, %s, %s", out[0].EntityRef, out[1].EntityRef, out[2].EntityRef)
	}
	// Input must stay untouched.
	if in[0].EntityRef != "ref:a" {
		t.Fatalf("input slice was mutated")
	}
}
