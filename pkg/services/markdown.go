package services

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const wordsPerMinute = 200

type TOCEntry struct {
	ID    string
	Text  string
	Level int
}

// Body is a rendered article body.
type Body struct {
	HTML           template.HTML
	TOC            []TOCEntry
	Words          int
	ReadingMinutes int
	Images         []ImageView
}

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	sanitize = bluemonday.UGCPolicy()
)

// RenderMarkdown converts a Markdown body to sanitized HTML, adds heading anchors and
// wires every image to fall back to defaultImage.
func RenderMarkdown(src, defaultImage string) (Body, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return Body{}, fmt.Errorf("render markdown: %w", err)
	}
	clean := sanitize.SanitizeReader(&buf)

	doc, err := goquery.NewDocumentFromReader(clean)
	if err != nil {
		return Body{}, fmt.Errorf("parse rendered body: %w", err)
	}

	var body Body
	seen := map[string]int{}
	doc.Find("h2, h3").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		id, err := NormalizeSlug(text)
		if err != nil {
			id = "section"
		}
		seen[id]++
		if n := seen[id]; n > 1 {
			id = id + "-" + strconv.Itoa(n)
		}
		s.SetAttr("id", id)

		level := 2
		if goquery.NodeName(s) == "h3" {
			level = 3
		}
		body.TOC = append(body.TOC, TOCEntry{ID: id, Text: text, Level: level})
	})

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		alt, _ := s.Attr("alt")
		s.SetAttr("loading", "lazy")
		img := NewImageSource(src, defaultImage).View(alt)
		if img.Fallback != "" {
			s.SetAttr("data-fallback", img.Fallback)
			s.SetAttr("onerror", FallbackOnError)
		}
		body.Images = append(body.Images, img)
	})

	html, err := doc.Find("body").Html()
	if err != nil {
		return Body{}, fmt.Errorf("serialize body: %w", err)
	}

	body.Words = len(strings.Fields(doc.Find("body").Text()))
	body.ReadingMinutes = (body.Words + wordsPerMinute - 1) / wordsPerMinute
	if body.ReadingMinutes < 1 {
		body.ReadingMinutes = 1
	}
	body.HTML = template.HTML(html)
	return body, nil
}
