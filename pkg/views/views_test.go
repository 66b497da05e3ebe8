package views

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"content-site/pkg/models"
	"content-site/pkg/services"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSite() *models.SiteConfig {
	return &models.SiteConfig{
		Title:         "Safety Hub",
		DefaultImage:  "/static/img/default.jpg",
		DefaultAuthor: models.Author{Name: "Editors", Role: "Staff"},
		Authors:       []models.Author{{ID: "jane", Name: "Jane Doe", Role: "Analyst"}},
		Nav:           []models.NavItem{{Label: "Dashboard", Href: "/dashboard"}, {Label: "Articles", Href: "/"}},
	}
}

func testArticle(refs int) *models.Article {
	art := &models.Article{
		Slug:              "age-checks",
		Title:             "Age Checks",
		Description:       "How age checks work.",
		Category:          "guides",
		AuthorID:          "jane",
		Published:         time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Modified:          time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Hero:              models.Image{Src: "https://cdn.example.com/hero.jpg", Alt: "Hero", Fallback: "/static/img/default.jpg"},
		FAQ:               []models.FAQItem{{ID: "cost", Question: "Is it free?", Answer: "Yes."}},
		Steps:             []models.Step{{Title: "Open settings"}, {Title: "Verify", Body: "Upload ID."}},
		Quote:             &models.Quote{Text: "Safety first.", Attribution: "Regulator"},
		Body:              "## Intro\n\nText.\n\n## Details\n\nMore.",
		ReferencesPreview: 3,
	}
	for i := 0; i < refs; i++ {
		art.References = append(art.References, models.Reference{
			ID:    fmt.Sprintf("r%d", i+1),
			Href:  fmt.Sprintf("https://www.example.com/%d", i+1),
			Title: fmt.Sprintf("Ref %d", i+1),
		})
	}
	return art
}

func renderDoc(t *testing.T, name string, data any) *goquery.Document {
	t.Helper()
	r, err := New()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, name, data))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestArticlePageReferencesOverThreshold(t *testing.T) {
	page, err := NewArticlePage(testSite(), testArticle(5), models.Category{Slug: "guides", Name: "Guides"}, "https://example.org")
	require.NoError(t, err)

	doc := renderDoc(t, "article.gohtml", page)

	assert.Equal(t, 3, doc.Find("ol.references-preview > li").Length())
	assert.Equal(t, 2, doc.Find("details.references-more ol.references-remainder > li").Length())
	assert.Equal(t, "Show all 5 references (2 more)", strings.TrimSpace(doc.Find("details.references-more > summary").Text()))
	assert.Equal(t, "example.com", strings.TrimSpace(doc.Find("li#ref-r1 .badge-default").Text()))
}

func TestArticlePageReferencesUnderThreshold(t *testing.T) {
	page, err := NewArticlePage(testSite(), testArticle(3), models.Category{}, "")
	require.NoError(t, err)

	doc := renderDoc(t, "article.gohtml", page)
	assert.Equal(t, 3, doc.Find("ol.references-preview > li").Length())
	assert.Equal(t, 0, doc.Find("details.references-more").Length())
}

func TestArticlePageNoReferences(t *testing.T) {
	page, err := NewArticlePage(testSite(), testArticle(0), models.Category{}, "")
	require.NoError(t, err)

	doc := renderDoc(t, "article.gohtml", page)
	assert.Equal(t, 0, doc.Find("#references").Length())
	assert.Equal(t, 0, doc.Find(".references-preview").Length())
}

func TestArticlePageComponents(t *testing.T) {
	page, err := NewArticlePage(testSite(), testArticle(1), models.Category{Slug: "guides", Name: "Guides"}, "https://example.org")
	require.NoError(t, err)

	doc := renderDoc(t, "article.gohtml", page)

	assert.Equal(t, "Age Checks | Safety Hub", doc.Find("title").Text())
	canonical, _ := doc.Find(`link[rel="canonical"]`).Attr("href")
	assert.Equal(t, "https://example.org/articles/guides/age-checks", canonical)

	hero := doc.Find(".article-hero > img")
	require.Equal(t, 1, hero.Length())
	src, _ := hero.Attr("src")
	fallback, _ := hero.Attr("data-fallback")
	onerror, _ := hero.Attr("onerror")
	assert.Equal(t, "https://cdn.example.com/hero.jpg", src)
	assert.Equal(t, "/static/img/default.jpg", fallback)
	assert.Equal(t, services.FallbackOnError, onerror)

	assert.Equal(t, "Jane Doe", doc.Find(".author-name").Text())
	assert.Equal(t, 1, doc.Find(".updated").Length())
	assert.Equal(t, 2, doc.Find("nav.toc li").Length())
	assert.Equal(t, 1, doc.Find("details#faq-cost").Length())
	assert.Equal(t, []string{"1", "2"}, doc.Find(".step-number").Map(func(_ int, s *goquery.Selection) string { return s.Text() }))
	assert.Equal(t, "Regulator", doc.Find(".quote-block cite").Text())
	assert.Equal(t, 0, doc.Find(".cta").Length())
	assert.Equal(t, 0, doc.Find(".site-form").Length())
}

func TestArticlePageForm(t *testing.T) {
	art := testArticle(0)
	art.Form = "esafety"
	page, err := NewArticlePage(testSite(), art, models.Category{}, "")
	require.NoError(t, err)
	page.Submitted = true

	doc := renderDoc(t, "article.gohtml", page)
	action, _ := doc.Find(".site-form form").Attr("action")
	hidden, _ := doc.Find(`.site-form input[name="page"]`).Attr("value")
	assert.Equal(t, "/forms/esafety", action)
	assert.Equal(t, "/articles/guides/age-checks", hidden)
	assert.Equal(t, 1, doc.Find(".form-success").Length())
}

func TestArticlePageMissingAltUsesTitle(t *testing.T) {
	art := testArticle(0)
	art.Hero = models.Image{}
	page, err := NewArticlePage(testSite(), art, models.Category{}, "")
	require.NoError(t, err)

	assert.Equal(t, "/static/img/default.jpg", page.Hero.Src)
	assert.Equal(t, "Age Checks", page.Hero.Alt)
	assert.Empty(t, page.Hero.Fallback)
}

func TestIndexAndDashboard(t *testing.T) {
	site := testSite()
	arts := []*models.Article{testArticle(0)}

	idx := renderDoc(t, "index.gohtml", IndexPage{
		Layout:     NewLayout(site, "", "", ""),
		Categories: []services.CategorySummary{{Category: models.Category{Slug: "guides", Name: "Guides"}, Count: 1}, {Category: models.Category{Slug: "empty", Name: "Empty"}}},
		Articles:   NewArticleCards(arts),
	})
	assert.Equal(t, 1, idx.Find("nav.categories li").Length())
	assert.Equal(t, 1, idx.Find(".article-card").Length())

	dash := renderDoc(t, "dashboard.gohtml", DashboardPage{
		Layout:      NewLayout(site, "Dashboard", "", ""),
		User:        "octocat",
		Nav:         site.Nav,
		ActivePath:  "/dashboard",
		Articles:    arts,
		Submissions: []models.Submission{{Form: "esafety", Name: "Ada", Email: "ada@example.com", CreatedAt: time.Now()}},
	})
	assert.Equal(t, "octocat", dash.Find(".user").Text())
	assert.Equal(t, "Dashboard", dash.Find(".nav-item.active").Text())
	method, _ := dash.Find("form.logout").Attr("method")
	action, _ := dash.Find("form.logout").Attr("action")
	assert.Equal(t, "post", method)
	assert.Equal(t, "/logout", action)
	assert.Equal(t, 1, dash.Find("table.submissions tbody tr").Length())
}
