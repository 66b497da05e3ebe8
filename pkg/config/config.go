package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

var (
	Port           = "8080"
	AppURL         = "http://localhost:8080"
	ContentPath    = "./content"
	SiteConfigPath = "./content/site.yml"
	StaticPath     = "./static"
	MediaPath      = "./static/uploads"

	// Environment is "production" on deployed instances.
	Environment = "development"

	// Session settings
	SessionName   = "content-site"
	SessionSecret = defaultSessionSecret

	// Storage settings
	DatabaseURL = "sqlite://./data/site.db"

	// Logging settings
	LogLevel  = "info"
	LogFormat = "json"

	// Registry settings
	CacheConcurrency      = 20
	ReferencePreviewCount = 3
	ShowDrafts            = false

	// Content repository sync
	GitSync   = false
	GitRemote = "origin"
	GitBranch = "main"
)

var OauthConf *oauth2.Config

const defaultSessionSecret = "dev-secret-change-me"

// ErrDefaultSessionSecret means session cookies would be signed with a publicly known key.
var ErrDefaultSessionSecret = errors.New("SESSION_SECRET is not set; sessions use the development key")

func Init() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found or error loading it.")
	}

	Port = getEnv("PORT", "8080")
	AppURL = strings.TrimSuffix(getEnv("APP_URL", "http://localhost:"+Port), "/")
	redirectURL := getEnv("GITHUB_REDIRECT_URL", AppURL+"/auth/callback")

	ContentPath = getEnv("CONTENT_PATH", "./content")
	SiteConfigPath = getEnv("SITE_CONFIG", ContentPath+"/site.yml")
	StaticPath = getEnv("STATIC_PATH", "./static")
	MediaPath = getEnv("MEDIA_PATH", StaticPath+"/uploads")

	Environment = getEnv("APP_ENV", "development")
	SessionSecret = getEnv("SESSION_SECRET", defaultSessionSecret)
	DatabaseURL = getEnv("DATABASE_URL", "sqlite://./data/site.db")

	LogLevel = getEnv("LOG_LEVEL", "info")
	LogFormat = getEnv("LOG_FORMAT", "json")

	CacheConcurrency = getEnvInt("CACHE_CONCURRENCY", 20)
	ReferencePreviewCount = getEnvInt("REFERENCE_PREVIEW_COUNT", 3)
	ShowDrafts = getEnvBool("SHOW_DRAFTS", false)

	GitSync = getEnvBool("GIT_SYNC", false)
	GitRemote = getEnv("GIT_REMOTE", "origin")
	GitBranch = getEnv("GIT_BRANCH", "main")

	OauthConf = &oauth2.Config{
		ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		Scopes:       []string{"read:user"},
		Endpoint:     github.Endpoint,
		RedirectURL:  redirectURL,
	}
}

// CheckSessionSecret reports whether SESSION_SECRET was left at its default.
func CheckSessionSecret() error {
	if SessionSecret == defaultSessionSecret {
		return ErrDefaultSessionSecret
	}
	return nil
}

func IsProduction() bool {
	return strings.EqualFold(Environment, "production")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
