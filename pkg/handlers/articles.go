package handlers

import (
	"errors"
	"net/http"

	"content-site/pkg/models"
	"content-site/pkg/services"
	"content-site/pkg/views"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const relatedLimit = 3

func (h *Handler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	articles, err := h.Registry.List(ctx, "")
	if err != nil {
		h.serverError(c, "list articles", err)
		return
	}
	cats, err := h.Registry.Categories(ctx)
	if err != nil {
		h.serverError(c, "list categories", err)
		return
	}

	c.HTML(http.StatusOK, "index.gohtml", views.IndexPage{
		Layout:     views.NewLayout(h.Registry.Site(), "", "", h.BaseURL+"/"),
		Categories: cats,
		Articles:   views.NewArticleCards(articles),
	})
}

func (h *Handler) CategoryPage(c *gin.Context) {
	raw := c.Param("category")
	slug, err := services.NormalizeSlug(raw)
	if err != nil {
		h.NotFound(c)
		return
	}
	if slug != raw {
		redirectCanonical(c, "/articles/"+slug)
		return
	}

	ctx := c.Request.Context()
	cat, ok, err := h.Registry.Category(ctx, slug)
	if err != nil {
		h.serverError(c, "resolve category", err)
		return
	}
	if !ok {
		h.NotFound(c)
		return
	}
	articles, err := h.Registry.List(ctx, slug)
	if err != nil {
		h.serverError(c, "list articles", err)
		return
	}

	c.HTML(http.StatusOK, "category.gohtml", views.CategoryPage{
		Layout:   views.NewLayout(h.Registry.Site(), cat.Name, cat.Description, h.BaseURL+"/articles/"+slug),
		Category: cat,
		Articles: views.NewArticleCards(articles),
	})
}

func (h *Handler) ArticlePage(c *gin.Context) {
	rawSlug := c.Param("slug")
	slug, err := services.NormalizeSlug(rawSlug)
	if err != nil {
		h.NotFound(c)
		return
	}

	ctx := c.Request.Context()
	art, err := h.Registry.Lookup(ctx, slug)
	if errors.Is(err, services.ErrArticleNotFound) {
		h.NotFound(c)
		return
	}
	if err != nil {
		h.serverError(c, "lookup article", err)
		return
	}
	if slug != rawSlug || art.Category != c.Param("category") {
		redirectCanonical(c, art.URL())
		return
	}

	cat, ok, err := h.Registry.Category(ctx, art.Category)
	if err != nil {
		h.serverError(c, "resolve category", err)
		return
	}
	if !ok {
		cat = models.Category{Slug: art.Category, Name: services.SlugTitle(art.Category)}
	}

	page, err := views.NewArticlePage(h.Registry.Site(), art, cat, h.BaseURL)
	if err != nil {
		h.serverError(c, "render article "+art.Slug, err)
		return
	}

	siblings, err := h.Registry.List(ctx, art.Category)
	if err != nil {
		h.serverError(c, "list related", err)
		return
	}
	for _, s := range siblings {
		if len(page.Related) == relatedLimit {
			break
		}
		if s.Slug != art.Slug {
			page.Related = append(page.Related, views.NewArticleCard(s))
		}
	}

	if art.Form != "" {
		page.Submitted = c.Query("submitted") == art.Form
		page.FormError = c.Query("error") == art.Form
	}

	c.HTML(http.StatusOK, "article.gohtml", page)
}

// NotFound renders the 404 page.
func (h *Handler) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "not_found.gohtml", views.NotFoundPage{
		Layout: views.NewLayout(h.Registry.Site(), "Page not found", "", ""),
		Path:   c.Request.URL.Path,
	})
}

func (h *Handler) serverError(c *gin.Context, msg string, err error) {
	h.Logger.Error(msg, zap.String("path", c.Request.URL.Path), zap.Error(err))
	_ = c.Error(err)
	c.String(http.StatusInternalServerError, "Internal Server Error")
}

func redirectCanonical(c *gin.Context, path string) {
	if q := c.Request.URL.RawQuery; q != "" {
		path += "?" + q
	}
	c.Redirect(http.StatusMovedPermanently, path)
}
