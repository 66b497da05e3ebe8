package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"content-site/pkg/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrDuplicateSlug   = errors.New("duplicate slug")
)

// Problem is a content file that could not be registered.
type Problem struct {
	Path string
	Err  error
}

func (p Problem) Error() string {
	return p.Path + ": " + p.Err.Error()
}

type RegistryOptions struct {
	Concurrency int
	ShowDrafts  bool
	// ReferencePreview applies to articles that do not set references_preview.
	ReferencePreview int
}

type CategorySummary struct {
	models.Category
	Count int
}

type snapshot struct {
	articles   []*models.Article
	bySlug     map[string]*models.Article
	byCategory map[string][]*models.Article
	problems   []Problem
	loadedAt   time.Time
}

// Registry resolves article slugs to the articles under a content root. The loaded set is
// cached until Invalidate.
type Registry struct {
	root   string
	site   *models.SiteConfig
	opts   RegistryOptions
	logger *zap.Logger

	mu    sync.Mutex
	snap  *snapshot
	gen   uint64 // bumped by Invalidate; a load only installs its snapshot if unchanged
	group singleflight.Group

	loadedHook func() // runs between load and install in tests
}

func NewRegistry(root string, site *models.SiteConfig, opts RegistryOptions, logger *zap.Logger) *Registry {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.ReferencePreview <= 0 {
		opts.ReferencePreview = DefaultReferencePreview
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{root: root, site: site, opts: opts, logger: logger}
}

func (r *Registry) Site() *models.SiteConfig {
	return r.site
}

// Invalidate drops the cached article set; the next lookup reloads it.
func (r *Registry) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap = nil
	r.gen++
	r.group.Forget("load")
}

func (r *Registry) current(ctx context.Context) (*snapshot, error) {
	r.mu.Lock()
	snap := r.snap
	r.mu.Unlock()
	if snap != nil {
		return snap, nil
	}

	// concurrent cold lookups share one load; a cancelled request must not fail the others
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := r.group.Do("load", func() (interface{}, error) {
		r.mu.Lock()
		gen := r.gen
		r.mu.Unlock()

		s, err := r.load(loadCtx)
		if err != nil {
			return nil, err
		}
		if r.loadedHook != nil {
			r.loadedHook()
		}
		r.mu.Lock()
		if r.gen == gen {
			r.snap = s
		}
		r.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*snapshot), nil
}

func (r *Registry) load(ctx context.Context) (*snapshot, error) {
	start := time.Now()
	var paths []string
	err := filepath.WalkDir(r.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != r.root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk content %s: %w", r.root, err)
	}
	sort.Strings(paths)

	decoded := make([]*models.Article, len(paths))
	failures := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rel, err := filepath.Rel(r.root, path)
			if err != nil {
				return err
			}
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", rel, err)
			}
			decoded[i], failures[i] = DecodeArticle(rel, content)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s := &snapshot{
		bySlug:     make(map[string]*models.Article, len(paths)),
		byCategory: make(map[string][]*models.Article),
		loadedAt:   time.Now(),
	}
	for i, art := range decoded {
		if failures[i] != nil {
			rel, _ := filepath.Rel(r.root, paths[i])
			s.problems = append(s.problems, Problem{Path: filepath.ToSlash(rel), Err: failures[i]})
			r.logger.Warn("skipping article", zap.String("path", paths[i]), zap.Error(failures[i]))
			continue
		}
		if art.Draft && !r.opts.ShowDrafts {
			continue
		}
		if prev, ok := s.bySlug[art.Slug]; ok {
			err := fmt.Errorf("%w %q already used by %s", ErrDuplicateSlug, art.Slug, prev.Path)
			s.problems = append(s.problems, Problem{Path: art.Path, Err: err})
			r.logger.Warn("skipping article", zap.String("path", art.Path), zap.Error(err))
			continue
		}
		s.bySlug[art.Slug] = art
		s.articles = append(s.articles, art)
	}

	sort.SliceStable(s.articles, func(i, j int) bool {
		a, b := s.articles[i], s.articles[j]
		if !a.Published.Equal(b.Published) {
			return a.Published.After(b.Published)
		}
		return a.Slug < b.Slug
	})
	for _, art := range s.articles {
		s.byCategory[art.Category] = append(s.byCategory[art.Category], art)
	}

	r.logger.Info("content loaded",
		zap.String("root", r.root),
		zap.Int("articles", len(s.articles)),
		zap.Int("problems", len(s.problems)),
		zap.Duration("took", time.Since(start)))
	return s, nil
}

// Lookup resolves a slug. The hero image of the result falls back to the site default
// image.
func (r *Registry) Lookup(ctx context.Context, slug string) (*models.Article, error) {
	s, err := r.current(ctx)
	if err != nil {
		return nil, err
	}
	art, ok := s.bySlug[slug]
	if !ok {
		return nil, ErrArticleNotFound
	}
	return r.withDefaults(art), nil
}

func (r *Registry) withDefaults(art *models.Article) *models.Article {
	out := *art
	if out.Hero.Src == "" {
		out.Hero.Src = r.site.DefaultImage
	}
	if out.Hero.Fallback == "" {
		out.Hero.Fallback = r.site.DefaultImage
	}
	if out.ReferencesPreview <= 0 {
		out.ReferencesPreview = r.opts.ReferencePreview
	}
	return &out
}

// List returns the articles of a category, newest first. An empty category lists all.
func (r *Registry) List(ctx context.Context, category string) ([]*models.Article, error) {
	s, err := r.current(ctx)
	if err != nil {
		return nil, err
	}
	src := s.articles
	if category != "" {
		src = s.byCategory[category]
	}
	out := make([]*models.Article, len(src))
	for i, art := range src {
		out[i] = r.withDefaults(art)
	}
	return out, nil
}

// Categories returns the configured categories followed by any category only used by
// articles, each with its article count.
func (r *Registry) Categories(ctx context.Context) ([]CategorySummary, error) {
	s, err := r.current(ctx)
	if err != nil {
		return nil, err
	}
	var out []CategorySummary
	known := map[string]bool{}
	for _, c := range r.site.Categories {
		known[c.Slug] = true
		out = append(out, CategorySummary{Category: c, Count: len(s.byCategory[c.Slug])})
	}
	var extra []string
	for slug := range s.byCategory {
		if !known[slug] {
			extra = append(extra, slug)
		}
	}
	sort.Strings(extra)
	for _, slug := range extra {
		out = append(out, CategorySummary{
			Category: models.Category{Slug: slug, Name: SlugTitle(slug)},
			Count:    len(s.byCategory[slug]),
		})
	}
	return out, nil
}

// Category resolves a category slug, including categories only used by articles.
func (r *Registry) Category(ctx context.Context, slug string) (models.Category, bool, error) {
	cats, err := r.Categories(ctx)
	if err != nil {
		return models.Category{}, false, err
	}
	for _, c := range cats {
		if c.Slug == slug {
			return c.Category, true, nil
		}
	}
	return models.Category{}, false, nil
}

// Problems lists the content files skipped by the last load.
func (r *Registry) Problems(ctx context.Context) ([]Problem, error) {
	s, err := r.current(ctx)
	if err != nil {
		return nil, err
	}
	return s.problems, nil
}

func (r *Registry) LoadedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.snap == nil {
		return time.Time{}
	}
	return r.snap.loadedAt
}
