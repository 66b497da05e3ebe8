package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"content-site/pkg/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) ListArticles(c *gin.Context) {
	articles, err := h.Registry.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.Logger.Error("list articles", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch articles"})
		return
	}
	c.JSON(http.StatusOK, articles)
}

func (h *Handler) GetArticle(c *gin.Context) {
	art, err := h.Registry.Lookup(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, services.ErrArticleNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}
	if err != nil {
		h.Logger.Error("lookup article", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch article"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"article": art,
		"author":  services.ResolveAuthor(h.Registry.Site(), art.AuthorID),
		"url":     h.BaseURL + art.URL(),
	})
}

func (h *Handler) Sitemap(c *gin.Context) {
	var buf bytes.Buffer
	if err := services.WriteSitemap(c.Request.Context(), &buf, h.Registry, h.BaseURL); err != nil {
		h.serverError(c, "build sitemap", err)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", buf.Bytes())
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) APIReload(c *gin.Context) {
	h.Registry.Invalidate()
	articles, err := h.Registry.List(c.Request.Context(), "")
	if err != nil {
		h.Logger.Error("reload content", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "articles": len(articles)})
}
