package handlers

import (
	"net/http"

	"content-site/pkg/logging"
	"content-site/pkg/services"
	"content-site/pkg/views"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const defaultGitHubUserURL = "https://api.github.com/user"

// Handler serves the public site, the JSON API and the dashboard.
type Handler struct {
	Registry *services.Registry
	Store    services.Store
	Media    *services.MediaLibrary
	Repo     *services.ContentRepo // nil when git sync is off
	Logger   *zap.Logger
	BaseURL  string

	OAuth         *oauth2.Config
	GitHubUserURL string
}

type RouterOptions struct {
	SessionName   string
	SessionSecret string
	StaticPath    string
}

// NewRouter wires every route onto a gin engine.
func NewRouter(h *Handler, renderer *views.Renderer, opts RouterOptions) *gin.Engine {
	if h.Logger == nil {
		h.Logger = zap.NewNop()
	}
	if h.GitHubUserURL == "" {
		h.GitHubUserURL = defaultGitHubUserURL
	}

	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger(h.Logger))

	// Session Setup
	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(opts.SessionName, store))

	r.SetHTMLTemplate(renderer.Template())
	if opts.StaticPath != "" {
		r.Static("/static", opts.StaticPath)
	}
	r.NoRoute(h.NotFound)

	// --- Public site ---
	r.GET("/", h.Index)
	r.GET("/articles", func(c *gin.Context) { c.Redirect(http.StatusMovedPermanently, "/") })
	r.GET("/articles/:category", h.CategoryPage)
	r.GET("/articles/:category/:slug", h.ArticlePage)
	r.GET("/sitemap.xml", h.Sitemap)
	r.GET("/healthz", h.Health)
	r.POST("/forms/:form", h.SubmitForm)

	api := r.Group("/api")
	{
		api.GET("/articles", h.ListArticles)
		api.GET("/articles/:slug", h.GetArticle)
	}

	// --- Auth Routes ---
	r.GET("/login", h.LoginPage)
	r.GET("/login/github", h.GithubLogin)
	r.GET("/auth/callback", h.AuthCallback)
	r.POST("/logout", h.Logout)

	// --- Dashboard (Authorized) ---
	authorized := r.Group("/")
	authorized.Use(AuthRequired)
	{
		authorized.GET("/dashboard", h.Dashboard)
		authorized.POST("/dashboard/reload", h.ReloadContent)
		authorized.POST("/api/reload", h.APIReload)
		authorized.GET("/api/media", h.ListMedia)
		authorized.POST("/api/media", h.UploadMedia)
		authorized.DELETE("/api/media/:name", h.DeleteMedia)
		if h.Repo != nil {
			authorized.POST("/dashboard/sync", h.SyncContent)
		}
	}

	return r
}
