package models

// SiteConfig is the content-level configuration read from site.yml.
type SiteConfig struct {
	Title         string     `yaml:"title"`
	Description   string     `yaml:"description"`
	DefaultImage  string     `yaml:"default_image"`
	DefaultAuthor Author     `yaml:"default_author"`
	Authors       []Author   `yaml:"authors"`
	Categories    []Category `yaml:"categories"`
	Nav           []NavItem  `yaml:"nav"`
	Forms         []string   `yaml:"forms"`
}

type Category struct {
	Slug        string `yaml:"slug" json:"slug"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description,omitempty"`
}

// Author is a byline profile. Missing fields are filled from the site default author.
type Author struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Role   string `yaml:"role" json:"role,omitempty"`
	Bio    string `yaml:"bio" json:"bio,omitempty"`
	Avatar string `yaml:"avatar" json:"avatar,omitempty"`
}

type NavItem struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
	Icon  string `yaml:"icon"`
}

// Category looks up a category by slug.
func (s *SiteConfig) Category(slug string) (Category, bool) {
	for _, c := range s.Categories {
		if c.Slug == slug {
			return c, true
		}
	}
	return Category{}, false
}

// HasForm reports whether name is an accepted form submission target.
func (s *SiteConfig) HasForm(name string) bool {
	for _, f := range s.Forms {
		if f == name {
			return true
		}
	}
	return false
}
