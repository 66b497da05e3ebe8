package services

import (
	"context"
	"encoding/xml"
	"io"
	"strings"
	"time"
)

type sitemapURL struct {
	Location string `xml:"loc"`
	LastMod  string `xml:"lastmod,omitempty"`
	Priority string `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// WriteSitemap writes a sitemaps.org urlset with the index, every category with articles
// and every article.
func WriteSitemap(ctx context.Context, w io.Writer, reg *Registry, baseURL string) error {
	baseURL = strings.TrimSuffix(baseURL, "/")
	articles, err := reg.List(ctx, "")
	if err != nil {
		return err
	}
	cats, err := reg.Categories(ctx)
	if err != nil {
		return err
	}

	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	set.URLs = append(set.URLs, sitemapURL{Location: baseURL + "/", Priority: "1.0"})
	for _, c := range cats {
		if c.Count == 0 {
			continue
		}
		set.URLs = append(set.URLs, sitemapURL{Location: baseURL + "/articles/" + c.Slug, Priority: "0.6"})
	}
	for _, a := range articles {
		u := sitemapURL{Location: baseURL + a.URL(), Priority: "0.8"}
		if !a.Modified.IsZero() {
			u.LastMod = a.Modified.UTC().Format(time.DateOnly)
		}
		set.URLs = append(set.URLs, u)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(set)
}
