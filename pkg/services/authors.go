package services

import "content-site/pkg/models"

// ResolveAuthor returns the profile for id with missing fields taken from the site
// default author. Unknown ids resolve to the default author.
func ResolveAuthor(site *models.SiteConfig, id string) models.Author {
	def := site.DefaultAuthor
	if id == "" {
		return def
	}
	for _, a := range site.Authors {
		if a.ID != id {
			continue
		}
		if a.Name == "" {
			a.Name = def.Name
		}
		if a.Role == "" {
			a.Role = def.Role
		}
		if a.Bio == "" {
			a.Bio = def.Bio
		}
		if a.Avatar == "" {
			a.Avatar = def.Avatar
		}
		return a
	}
	return def
}
