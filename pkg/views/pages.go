package views

import (
	"time"

	"content-site/pkg/models"
	"content-site/pkg/services"
)

// Layout carries what the shared public layout needs.
type Layout struct {
	SiteTitle   string
	Title       string
	Description string
	Canonical   string
}

type ArticleCard struct {
	*models.Article
	Image services.ImageView
}

type IndexPage struct {
	Layout
	Categories []services.CategorySummary
	Articles   []ArticleCard
}

type CategoryPage struct {
	Layout
	Category models.Category
	Articles []ArticleCard
}

type ArticlePage struct {
	Layout
	Article    *models.Article
	Category   models.Category
	Author     models.Author
	Hero       services.ImageView
	Body       services.Body
	Images     []services.ImageView
	References *services.ReferenceListView
	Related    []ArticleCard

	// form feedback after a full-page reload
	Submitted bool
	FormError bool
}

type NotFoundPage struct {
	Layout
	Path string
}

type LoginPage struct {
	Layout
	Error string
}

type DashboardPage struct {
	Layout
	User        string
	Nav         []models.NavItem
	ActivePath  string
	Articles    []*models.Article
	Categories  []services.CategorySummary
	Submissions []models.Submission
	Media       []services.MediaFile
	LoadedAt    time.Time
	Reloaded    bool

	GitSync    bool
	Synced     bool
	SyncFailed bool
	Dirty      map[string]bool // article paths with uncommitted changes
}

func NewLayout(site *models.SiteConfig, title, description, canonical string) Layout {
	if description == "" {
		description = site.Description
	}
	return Layout{SiteTitle: site.Title, Title: title, Description: description, Canonical: canonical}
}

// NewArticleCard prepares a listing entry; a missing hero alt falls back to the title.
func NewArticleCard(art *models.Article) ArticleCard {
	return ArticleCard{Article: art, Image: imageOrTitle(art.Hero, "", art.Title)}
}

func NewArticleCards(arts []*models.Article) []ArticleCard {
	cards := make([]ArticleCard, len(arts))
	for i, a := range arts {
		cards[i] = NewArticleCard(a)
	}
	return cards
}

// NewArticlePage assembles the article view from the registry record and site config.
// baseURL prefixes the canonical link.
func NewArticlePage(site *models.SiteConfig, art *models.Article, cat models.Category, baseURL string) (*ArticlePage, error) {
	body, err := services.RenderMarkdown(art.Body, site.DefaultImage)
	if err != nil {
		return nil, err
	}

	page := &ArticlePage{
		Layout:   NewLayout(site, art.Title, art.Description, baseURL+art.URL()),
		Article:  art,
		Category: cat,
		Author:   services.ResolveAuthor(site, art.AuthorID),
		Hero:     imageOrTitle(art.Hero, site.DefaultImage, art.Title),
		Body:     body,
		References: services.NewReferenceList(art.References, art.ReferencesPreview,
			art.ReferencesHeading, art.ReferencesDescription),
	}
	for _, img := range art.Images {
		page.Images = append(page.Images, imageOrTitle(img, site.DefaultImage, art.Title))
	}
	return page, nil
}

func imageOrTitle(img models.Image, defaultFallback, title string) services.ImageView {
	fallback := img.Fallback
	if fallback == "" {
		fallback = defaultFallback
	}
	alt := img.Alt
	if alt == "" {
		alt = title
	}
	v, err := services.NewImage(img.Src, fallback, alt)
	if err != nil {
		// alt is never empty here unless the title is
		v = services.NewImageSource(img.Src, fallback).View(alt)
	}
	v.Caption = img.Caption
	return v
}
