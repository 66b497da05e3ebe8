package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"content-site/pkg/models"

	"gopkg.in/yaml.v3"
)

// SafeJoin joins target under root/sub, refusing paths that escape it.
func SafeJoin(root, sub, target string) string {
	cleanTarget := filepath.Clean("/" + target)
	if strings.Contains(target, "..") {
		return ""
	}
	return filepath.Join(root, sub, cleanTarget)
}

// LoadSiteConfig reads site.yml. A missing file yields the built-in defaults.
func LoadSiteConfig(path string) (*models.SiteConfig, error) {
	cfg := &models.SiteConfig{}
	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read site config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, fmt.Errorf("parse site config %s: %w", path, err)
		}
	}
	applySiteDefaults(cfg)
	return cfg, nil
}

func applySiteDefaults(cfg *models.SiteConfig) {
	if cfg.Title == "" {
		cfg.Title = "Articles"
	}
	if cfg.DefaultImage == "" {
		cfg.DefaultImage = "/static/img/default-article.jpg"
	}
	if cfg.DefaultAuthor.Name == "" {
		cfg.DefaultAuthor.Name = "Editorial Team"
	}
	if cfg.DefaultAuthor.Role == "" {
		cfg.DefaultAuthor.Role = "Staff writers"
	}
	if cfg.DefaultAuthor.Avatar == "" {
		cfg.DefaultAuthor.Avatar = "/static/img/default-avatar.png"
	}
	if len(cfg.Nav) == 0 {
		cfg.Nav = []models.NavItem{
			{Label: "Dashboard", Href: "/dashboard", Icon: "home"},
			{Label: "Articles", Href: "/", Icon: "book"},
		}
	}
}
