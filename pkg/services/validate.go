package services

import (
	"context"
	"sort"
	"strconv"

	"content-site/pkg/models"
)

const (
	LevelError   = "error"
	LevelWarning = "warning"
)

type Issue struct {
	Level   string
	Path    string
	Slug    string
	Message string
}

// Validate reports content problems across the registry. A nil prober skips the
// remote image checks.
func Validate(ctx context.Context, reg *Registry, prober *ImageProber) ([]Issue, error) {
	problems, err := reg.Problems(ctx)
	if err != nil {
		return nil, err
	}
	articles, err := reg.List(ctx, "")
	if err != nil {
		return nil, err
	}

	var issues []Issue
	for _, p := range problems {
		issues = append(issues, Issue{Level: LevelError, Path: p.Path, Message: p.Err.Error()})
	}

	site := reg.Site()
	heroes := map[string][]*models.Article{}
	for _, art := range articles {
		add := func(level, msg string) {
			issues = append(issues, Issue{Level: level, Path: art.Path, Slug: art.Slug, Message: msg})
		}

		if art.Description == "" {
			add(LevelWarning, "missing description")
		}
		if art.Hero.Alt == "" {
			add(LevelError, "hero image is missing alt text")
		}
		for _, img := range art.Images {
			if img.Alt == "" {
				add(LevelError, "image "+img.Src+" is missing alt text")
			}
		}
		if _, ok := site.Category(art.Category); !ok {
			add(LevelWarning, "category "+art.Category+" is not configured")
		}
		if art.AuthorID != "" && !hasAuthor(site, art.AuthorID) {
			add(LevelWarning, "author "+art.AuthorID+" is not configured; default byline used")
		}
		if art.Form != "" && !site.HasForm(art.Form) {
			add(LevelError, "form "+art.Form+" is not configured; submissions would be rejected")
		}
		ids := map[string]bool{}
		for i, item := range art.FAQ {
			switch {
			case item.ID == "":
				add(LevelError, "faq item "+strconv.Itoa(i+1)+" has no id")
			case ids[item.ID]:
				add(LevelError, "faq id "+item.ID+" is used twice")
			}
			ids[item.ID] = true
		}
		for i, ref := range art.References {
			if ref.Href == "" {
				add(LevelError, "reference "+strconv.Itoa(i+1)+" has no href")
			}
		}
		if art.Hero.Src != site.DefaultImage {
			heroes[art.Hero.Src] = append(heroes[art.Hero.Src], art)
		}
	}

	if prober != nil && len(heroes) > 0 {
		urls := make([]string, 0, len(heroes))
		for u := range heroes {
			urls = append(urls, u)
		}
		sort.Strings(urls)
		for u, err := range prober.Probe(ctx, urls) {
			for _, art := range heroes[u] {
				issues = append(issues, Issue{
					Level:   LevelWarning,
					Path:    art.Path,
					Slug:    art.Slug,
					Message: "hero image " + u + " does not load (" + err.Error() + "); fallback will be shown",
				})
			}
		}
	}

	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Path != issues[j].Path {
			return issues[i].Path < issues[j].Path
		}
		return issues[i].Message < issues[j].Message
	})
	return issues, nil
}

// HasErrors reports whether any issue is error level.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Level == LevelError {
			return true
		}
	}
	return false
}

func hasAuthor(site *models.SiteConfig, id string) bool {
	for _, a := range site.Authors {
		if a.ID == id {
			return true
		}
	}
	return false
}
