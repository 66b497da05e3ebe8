package handlers

import (
	"net/http"

	"content-site/pkg/views"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const recentSubmissions = 10

func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	site := h.Registry.Site()

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
	subs, err := h.Store.Recent(ctx, recentSubmissions)
	if err != nil {
		h.serverError(c, "recent submissions", err)
		return
	}

	media, err := h.Media.List()
	if err != nil {
		h.serverError(c, "list media", err)
		return
	}

	var dirty map[string]bool
	if h.Repo != nil {
		if dirty, err = h.Repo.DirtyFiles(ctx); err != nil {
			h.Logger.Warn("git status", zap.Error(err))
		}
	}

	user, _ := sessions.Default(c).Get("user").(string)
	c.HTML(http.StatusOK, "dashboard.gohtml", views.DashboardPage{
		Layout:      views.NewLayout(site, "Dashboard", "", ""),
		User:        user,
		Nav:         site.Nav,
		ActivePath:  c.Request.URL.Path,
		Articles:    articles,
		Categories:  cats,
		Submissions: subs,
		Media:       media,
		LoadedAt:    h.Registry.LoadedAt(),
		Reloaded:    c.Query("reloaded") == "1",
		GitSync:     h.Repo != nil,
		Synced:      c.Query("synced") == "1",
		SyncFailed:  c.Query("synced") == "0",
		Dirty:       dirty,
	})
}

// ReloadContent drops the registry cache and warms it again.
func (h *Handler) ReloadContent(c *gin.Context) {
	h.Registry.Invalidate()
	if _, err := h.Registry.List(c.Request.Context(), ""); err != nil {
		h.serverError(c, "reload content", err)
		return
	}
	user, _ := sessions.Default(c).Get("user").(string)
	h.Logger.Info("content reloaded", zap.String("user", user))
	c.Redirect(http.StatusSeeOther, "/dashboard?reloaded=1")
}

// SyncContent pulls the content repository with the editor's GitHub token and reloads.
func (h *Handler) SyncContent(c *gin.Context) {
	session := sessions.Default(c)
	token, _ := session.Get("access_token").(string)
	user, _ := session.Get("user").(string)

	out, err := h.Repo.Pull(c.Request.Context(), token)
	if err != nil {
		h.Logger.Error("content sync failed", zap.String("user", user), zap.String("output", out), zap.Error(err))
		c.Redirect(http.StatusSeeOther, "/dashboard?synced=0")
		return
	}
	h.Registry.Invalidate()
	h.Logger.Info("content synced", zap.String("user", user), zap.String("output", out))
	c.Redirect(http.StatusSeeOther, "/dashboard?synced=1")
}
