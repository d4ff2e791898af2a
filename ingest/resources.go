package ingest

import (
	"context"
	"encoding/json"
	"time"

	"devradar/connectors"
	"devradar/models"
	"devradar/signals"
)

type seedResource struct {
	owner       string
	repo        string
	language    string
	stars       int
	topics      []string
	licenseSpdx string
	description string
}

// Curated baseline so the resource library is never empty before the
// first discovery run.
var seedResources = []seedResource{
	{owner: "vercel", repo: "next.js", language: "TypeScript", stars: 120000, topics: []string{"react", "framework", "ssr"}, licenseSpdx: "MIT", description: "The React Framework"},
	{owner: "facebook", repo: "react", language: "JavaScript", stars: 220000, topics: []string{"ui", "library", "frontend"}, licenseSpdx: "MIT", description: "The library for web and native user interfaces"},
	{owner: "microsoft", repo: "TypeScript", language: "TypeScript", stars: 97000, topics: []string{"typescript", "compiler", "language"}, licenseSpdx: "Apache-2.0", description: "TypeScript is a superset of JavaScript that compiles to clean JavaScript output"},
	{owner: "denoland", repo: "deno", language: "Rust", stars: 93000, topics: []string{"runtime", "typescript", "javascript"}, licenseSpdx: "MIT", description: "A modern runtime for JavaScript and TypeScript"},
	{owner: "nodejs", repo: "node", language: "JavaScript", stars: 104000, topics: []string{"nodejs", "runtime", "javascript"}, licenseSpdx: "MIT", description: "Node.js JavaScript runtime"},
	{owner: "tailwindlabs", repo: "tailwindcss", language: "TypeScript", stars: 78000, topics: []string{"css", "utility", "framework"}, licenseSpdx: "MIT", description: "A utility-first CSS framework for rapid UI development"},
	{owner: "prisma", repo: "prisma", language: "TypeScript", stars: 37000, topics: []string{"database", "orm", "typescript"}, licenseSpdx: "Apache-2.0", description: "Next-generation ORM for Node.js & TypeScript"},
	{owner: "trpc", repo: "trpc", language: "TypeScript", stars: 33000, topics: []string{"api", "rpc", "typescript"}, licenseSpdx: "MIT", description: "End-to-end typesafe APIs made easy"},
	{owner: "honojs", repo: "hono", language: "TypeScript", stars: 16000, topics: []string{"web", "framework", "edge"}, licenseSpdx: "MIT", description: "Ultrafast web framework for the Edges"},
	{owner: "sveltejs", repo: "svelte", language: "JavaScript", stars: 77000, topics: []string{"ui", "compiler", "framework"}, licenseSpdx: "MIT", description: "Cybernetically enhanced web apps"},
	{owner: "vuejs", repo: "core", language: "TypeScript", stars: 45000, topics: []string{"vue", "framework", "frontend"}, licenseSpdx: "MIT", description: "Vue.js is a progressive, incrementally-adoptable JavaScript framework"},
	{owner: "rust-lang", repo: "rust", language: "Rust", stars: 93000, topics: []string{"rust", "language", "systems"}, licenseSpdx: "Apache-2.0", description: "Empowering everyone to build reliable and efficient software"},
	{owner: "golang", repo: "go", language: "Go", stars: 120000, topics: []string{"go", "language", "systems"}, licenseSpdx: "BSD-3-Clause", description: "The Go programming language"},
	{owner: "kubernetes", repo: "kubernetes", language: "Go", stars: 107000, topics: []string{"kubernetes", "containers", "orchestration"}, licenseSpdx: "Apache-2.0", description: "Production-Grade Container Orchestration"},
	{owner: "vitejs", repo: "vite", language: "TypeScript", stars: 65000, topics: []string{"build", "bundler", "frontend"}, licenseSpdx: "MIT", description: "Next Generation Frontend Tooling"},
	{owner: "shadcn-ui", repo: "ui", language: "TypeScript", stars: 60000, topics: []string{"ui", "components", "react"}, licenseSpdx: "MIT", description: "Beautifully designed components built with Radix UI and Tailwind CSS"},
	{owner: "supabase", repo: "supabase", language: "TypeScript", stars: 67000, topics: []string{"database", "auth", "baas"}, licenseSpdx: "Apache-2.0", description: "The open source Firebase alternative"},
	{owner: "pocketbase", repo: "pocketbase", language: "Go", stars: 35000, topics: []string{"database", "backend", "baas"}, licenseSpdx: "MIT", description: "Open Source realtime backend in 1 file"},
	{owner: "redis", repo: "redis", language: "C", stars: 65000, topics: []string{"database", "cache", "in-memory"}, licenseSpdx: "BSD-3-Clause", description: "Redis is an in-memory database that persists on disk"},
	{owner: "turborepo", repo: "turborepo", language: "Rust", stars: 25000, topics: []string{"monorepo", "build", "tooling"}, licenseSpdx: "MIT", description: "Incremental bundler and build system optimized for JavaScript and TypeScript"},
}

// RunResources seeds the curated resource list and discovers template
// repositories for the configured topics, all with insert-if-absent
// semantics.
func (o *Orchestrator) RunResources(ctx context.Context) (Summary, error) {
	inserted := 0
	skipped := 0
	insertErrs := 0
	attempts := 0
	var failed []string

	for _, seed := range seedResources {
		topicsJSON, _ := json.Marshal(seed.topics)
		resource := models.Resource{
			Provider:    "github",
			Owner:       seed.owner,
			Repo:        seed.repo,
			URL:         "https://github.com/" + seed.owner + "/" + seed.repo,
			Description: seed.description,
			Topics:      topicsJSON,
			Language:    seed.language,
			Stars:       seed.stars,
			LicenseSPDX: seed.licenseSpdx,
			PushedAt:    time.Now(),
			HealthScore: 70,
		}
		attempts++
		ok, err := o.store.InsertResourceIfAbsent(&resource)
		if err != nil {
			insertErrs++
			skipped++
			o.logger.WithError(err).WithField("repo", seed.owner+"/"+seed.repo).Warn("Resource insert failed")
			continue
		}
		if ok {
			inserted++
		} else {
			skipped++
		}
	}

	discovered := 0
	for _, topic := range o.cfg.TemplateTopics {
		result, err := o.github.SearchRepositories(ctx, connectors.TemplateRepoQuery(topic, o.cfg.TemplateMinStars), connectors.SearchOptions{
			Sort:    "stars",
			Order:   "desc",
			PerPage: o.cfg.PerPage,
		})
		if err != nil {
			o.logger.WithError(err).WithField("topic", topic).Warn("Template discovery failed; continuing without it")
			failed = append(failed, "templates:"+topic)
			continue
		}
		discovered += len(result.Items)

		for _, repo := range result.Items {
			resource := buildDiscoveredResource(repo)
			attempts++
			ok, err := o.store.InsertResourceIfAbsent(&resource)
			if err != nil {
				insertErrs++
				skipped++
				o.logger.WithError(err).WithField("repo", repo.FullName).Warn("Resource insert failed")
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
		Fetched:  len(seedResources) + discovered,
		Unique:   inserted + skipped,
		Inserted: inserted,
		Skipped:  skipped,
		Failed:   failed,
	}
	o.logger.WithField("inserted", inserted).WithField("skipped", skipped).Info("Resource run complete")
	return summary, nil
}

func buildDiscoveredResource(repo connectors.Repository) models.Resource {
	topicsJSON, _ := json.Marshal(repo.Topics)

	pushedAt := time.Now()
	if t, err := time.Parse(time.RFC3339, repo.PushedAt); err == nil {
		pushedAt = t
	}

	license := ""
	if repo.License != nil {
		license = repo.License.SPDXID
	}

	return models.Resource{
		Provider:    "github",
		Owner:       repo.Owner.Login,
		Repo:        repo.Name,
		URL:         repo.HTMLURL,
		Description: repo.Description,
		Topics:      topicsJSON,
		Language:    repo.Language,
		Stars:       repo.Stars,
		Forks:       repo.Forks,
		LicenseSPDX: license,
		IsTemplate:  repo.IsTemplate,
		PushedAt:    pushedAt,
		HealthScore: signals.HealthScore(repo.Stars, pushedAt),
	}
}
