package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"content-site/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeArticle(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestRegistry(t *testing.T, opts RegistryOptions) (*Registry, string) {
	t.Helper()
	root := t.TempDir()
	writeArticle(t, root, "guides/first.md", "---\ntitle: First\npublished: 2024-01-01\nhero:\n  src: https://cdn.example.com/first.jpg\n  alt: First\n---\nBody")
	writeArticle(t, root, "guides/second.md", "---\ntitle: Second\npublished: 2024-02-01\n---\nBody")
	writeArticle(t, root, "analysis/third.md", "---\ntitle: Third\npublished: 2023-06-01\n---\nBody")
	writeArticle(t, root, "analysis/draft.md", "---\ntitle: Draft\ndraft: true\n---\nBody")
	writeArticle(t, root, "guides/zz-dup.md", "---\ntitle: Dup\nslug: first\n---\nBody")
	writeArticle(t, root, "analysis/broken.md", "no front matter")
	writeArticle(t, root, "notes.txt", "ignored")

	site := &models.SiteConfig{}
	applySiteDefaults(site)
	site.DefaultImage = "/static/img/default.jpg"
	site.Categories = []models.Category{{Slug: "guides", Name: "Guides"}, {Slug: "reviews", Name: "Reviews"}}

	return NewRegistry(root, site, opts, zap.NewNop()), root
}

func TestRegistryLookup(t *testing.T) {
	reg, _ := newTestRegistry(t, RegistryOptions{Concurrency: 2})
	ctx := context.Background()

	art, err := reg.Lookup(ctx, "first")
	require.NoError(t, err)
	assert.Equal(t, "First", art.Title)
	assert.Equal(t, "https://cdn.example.com/first.jpg", art.Hero.Src)
	assert.Equal(t, "/static/img/default.jpg", art.Hero.Fallback)
	assert.Equal(t, DefaultReferencePreview, art.ReferencesPreview)

	second, err := reg.Lookup(ctx, "second")
	require.NoError(t, err)
	assert.Equal(t, "/static/img/default.jpg", second.Hero.Src)

	_, err = reg.Lookup(ctx, "draft")
	assert.ErrorIs(t, err, ErrArticleNotFound)

	_, err = reg.Lookup(ctx, "missing")
	assert.ErrorIs(t, err, ErrArticleNotFound)
}

func TestRegistryDefaultsDoNotLeak(t *testing.T) {
	reg, _ := newTestRegistry(t, RegistryOptions{})
	ctx := context.Background()

	art, err := reg.Lookup(ctx, "second")
	require.NoError(t, err)
	art.Title = "mutated"

	again, err := reg.Lookup(ctx, "second")
	require.NoError(t, err)
	assert.Equal(t, "Second", again.Title)
}

func TestRegistryList(t *testing.T) {
	reg, _ := newTestRegistry(t, RegistryOptions{Concurrency: 4})
	ctx := context.Background()

	all, err := reg.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"second", "first", "third"}, []string{all[0].Slug, all[1].Slug, all[2].Slug})

	guides, err := reg.List(ctx, "guides")
	require.NoError(t, err)
	assert.Len(t, guides, 2)

	none, err := reg.List(ctx, "reviews")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRegistryShowDrafts(t *testing.T) {
	reg, _ := newTestRegistry(t, RegistryOptions{ShowDrafts: true})
	_, err := reg.Lookup(context.Background(), "draft")
	assert.NoError(t, err)
}

func TestRegistryProblems(t *testing.T) {
	reg, _ := newTestRegistry(t, RegistryOptions{})
	problems, err := reg.Problems(context.Background())
	require.NoError(t, err)
	require.Len(t, problems, 2)

	var dup, broken bool
	for _, p := range problems {
		switch p.Path {
		case "guides/zz-dup.md":
			dup = assert.ErrorIs(t, p.Err, ErrDuplicateSlug)
		case "analysis/broken.md":
			broken = assert.ErrorIs(t, p.Err, ErrUnknownFormat)
		}
	}
	assert.True(t, dup)
	assert.True(t, broken)
}

func TestRegistryCategories(t *testing.T) {
	reg, _ := newTestRegistry(t, RegistryOptions{})
	cats, err := reg.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 3)
	assert.Equal(t, "guides", cats[0].Slug)
	assert.Equal(t, 2, cats[0].Count)
	assert.Equal(t, "reviews", cats[1].Slug)
	assert.Equal(t, 0, cats[1].Count)
	assert.Equal(t, "Analysis", cats[2].Name)
	assert.Equal(t, 1, cats[2].Count)

	_, ok, err := reg.Category(context.Background(), "analysis")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegistryInvalidate(t *testing.T) {
	reg, root := newTestRegistry(t, RegistryOptions{})
	ctx := context.Background()

	_, err := reg.Lookup(ctx, "fresh")
	require.ErrorIs(t, err, ErrArticleNotFound)
	assert.False(t, reg.LoadedAt().IsZero())

	writeArticle(t, root, "guides/fresh.md", "---\ntitle: Fresh\n---\nBody")
	_, err = reg.Lookup(ctx, "fresh")
	require.ErrorIs(t, err, ErrArticleNotFound, "cached set is served until invalidated")

	reg.Invalidate()
	art, err := reg.Lookup(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, "Fresh", art.Title)
}

func TestRegistryConcurrentColdLoad(t *testing.T) {
	reg, _ := newTestRegistry(t, RegistryOptions{Concurrency: 3})
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := reg.Lookup(ctx, "first")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestRegistryConcurrentDiacriticSlugs(t *testing.T) {
	root := t.TempDir()
	const n = 64
	for i := 0; i < n; i++ {
		writeArticle(t, root, fmt.Sprintf("guides/post-%02d.md", i),
			fmt.Sprintf("---\ntitle: Post %d\nslug: Naïve Résumé Guide %d\n---\nCrème brûlée", i, i))
	}
	reg := NewRegistry(root, &models.SiteConfig{}, RegistryOptions{Concurrency: 8}, zap.NewNop())

	list, err := reg.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, list, n)

	art, err := reg.Lookup(context.Background(), "naive-resume-guide-42")
	require.NoError(t, err)
	assert.Equal(t, "Post 42", art.Title)
}

func TestRegistryInvalidateDuringLoad(t *testing.T) {
	reg, root := newTestRegistry(t, RegistryOptions{Concurrency: 2})
	ctx := context.Background()

	loaded := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	reg.loadedHook = func() {
		once.Do(func() {
			close(loaded)
			<-release
		})
	}

	done := make(chan error, 1)
	go func() {
		_, err := reg.Lookup(ctx, "first")
		done <- err
	}()

	<-loaded
	writeArticle(t, root, "guides/fresh.md", "---\ntitle: Fresh\n---\nBody")
	reg.Invalidate()
	close(release)
	require.NoError(t, <-done)

	art, err := reg.Lookup(ctx, "fresh")
	require.NoError(t, err, "a load that started before Invalidate must not be cached")
	assert.Equal(t, "Fresh", art.Title)
}

func TestRegistryMissingRoot(t *testing.T) {
	site := &models.SiteConfig{}
	reg := NewRegistry(filepath.Join(t.TempDir(), "missing"), site, RegistryOptions{}, nil)
	_, err := reg.Lookup(context.Background(), "x")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrArticleNotFound)
}
