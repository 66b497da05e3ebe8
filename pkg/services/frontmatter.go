package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"content-site/pkg/models"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var ErrUnknownFormat = errors.New("unknown front matter format")

// articleFrontMatter carries the fields whose on-disk shape differs from models.Article.
type articleFrontMatter struct {
	models.Article `yaml:",inline"`

	Published any `json:"published" yaml:"published" toml:"published"`
	Modified  any `json:"modified" yaml:"modified" toml:"modified"`
}

func splitFrontMatter(content []byte) (fm []byte, body string, format string, err error) {
	str := normalizeLineEndings(string(content))
	// YAML (---)
	if strings.HasPrefix(str, "---\n") {
		parts := strings.SplitN(str, "\n---", 2)
		if len(parts) == 2 {
			return []byte(strings.TrimPrefix(parts[0], "---\n")), trimBody(parts[1]), "yaml", nil
		}
	}
	// TOML (+++)
	if strings.HasPrefix(str, "+++\n") {
		parts := strings.SplitN(str, "\n+++", 2)
		if len(parts) == 2 {
			return []byte(strings.TrimPrefix(parts[0], "+++\n")), trimBody(parts[1]), "toml", nil
		}
	}
	// JSON ({), terminated by the matching closing brace
	if strings.HasPrefix(strings.TrimSpace(str), "{") {
		dec := json.NewDecoder(strings.NewReader(str))
		var raw json.RawMessage
		if err := dec.Decode(&raw); err == nil {
			rest := str[dec.InputOffset():]
			return raw, strings.TrimSpace(rest), "json", nil
		}
	}
	return nil, "", "", ErrUnknownFormat
}

// trimBody drops the remainder of the closing delimiter line.
func trimBody(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return ""
}

func ParseFrontMatter(content []byte) (map[string]interface{}, string, string, error) {
	raw, body, format, err := splitFrontMatter(content)
	if err != nil {
		return nil, "", "", err
	}
	var fm map[string]interface{}
	switch format {
	case "yaml":
		err = yaml.Unmarshal(raw, &fm)
	case "toml":
		err = toml.Unmarshal(raw, &fm)
	case "json":
		err = json.Unmarshal(raw, &fm)
	}
	if err != nil {
		return nil, "", "", fmt.Errorf("parse %s front matter: %w", format, err)
	}
	return sanitizeFrontMatter(fm), body, format, nil
}

// DecodeArticle decodes a content file into an article. relPath is relative to the
// content root and supplies the slug and category when the front matter omits them.
func DecodeArticle(relPath string, content []byte) (*models.Article, error) {
	raw, body, format, err := splitFrontMatter(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", relPath, err)
	}

	var fm articleFrontMatter
	switch format {
	case "yaml":
		err = yaml.Unmarshal(raw, &fm)
	case "toml":
		err = toml.Unmarshal(raw, &fm)
	case "json":
		err = json.Unmarshal(raw, &fm)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: parse %s front matter: %w", relPath, format, err)
	}

	art := fm.Article
	art.Path = filepath.ToSlash(relPath)
	art.Body = body

	if strings.TrimSpace(art.Title) == "" {
		return nil, fmt.Errorf("%s: missing title", relPath)
	}

	if art.Slug == "" {
		base := filepath.Base(relPath)
		art.Slug = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if art.Slug, err = NormalizeSlug(art.Slug); err != nil {
		return nil, fmt.Errorf("%s: slug: %w", relPath, err)
	}

	if art.Category == "" {
		if dir := filepath.Dir(art.Path); dir != "." {
			art.Category = strings.Split(dir, "/")[0]
		}
	}
	if art.Category == "" {
		return nil, fmt.Errorf("%s: missing category", relPath)
	}
	if art.Category, err = NormalizeSlug(art.Category); err != nil {
		return nil, fmt.Errorf("%s: category: %w", relPath, err)
	}

	if art.Published, err = parseDate(fm.Published); err != nil {
		return nil, fmt.Errorf("%s: published: %w", relPath, err)
	}
	if art.Modified, err = parseDate(fm.Modified); err != nil {
		return nil, fmt.Errorf("%s: modified: %w", relPath, err)
	}
	if art.Modified.IsZero() {
		art.Modified = art.Published
	}

	return &art, nil
}

func parseDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return d, nil
	case toml.LocalDate:
		return d.AsTime(time.UTC), nil
	case toml.LocalDateTime:
		return d.AsTime(time.UTC), nil
	case string:
		if d == "" {
			return time.Time{}, nil
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, d); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognised date %q", d)
	default:
		return time.Time{}, fmt.Errorf("unsupported date value %v", v)
	}
}

func ConstructFileContent(fm map[string]interface{}, body string, format string) ([]byte, error) {
	normalizedFM := sanitizeFrontMatter(fm)
	if normalizedFM == nil {
		normalizedFM = map[string]interface{}{}
	}

	var buf bytes.Buffer
	switch format {
	case "yaml":
		buf.WriteString("---\n")
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(normalizedFM); err != nil {
			return nil, err
		}
		buf.WriteString("---\n")
	case "toml":
		buf.WriteString("+++\n")
		enc := toml.NewEncoder(&buf)
		if err := enc.Encode(normalizedFM); err != nil {
			return nil, err
		}
		buf.WriteString("+++\n")
	case "json":
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(normalizedFM); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// NewArticleContent scaffolds a draft article file for the given category and slug.
func NewArticleContent(category, slug, title, format string, now time.Time) ([]byte, error) {
	if title == "" {
		title = SlugTitle(slug)
	}
	fm := map[string]interface{}{
		"title":       title,
		"slug":        slug,
		"category":    category,
		"description": "",
		"published":   now.Format("2006-01-02"),
		"draft":       true,
		"hero": map[string]interface{}{
			"src": "",
			"alt": "",
		},
		"faq":        []interface{}{},
		"references": []interface{}{},
	}
	return ConstructFileContent(fm, "## Overview\n\nWrite the article here.", format)
}

func sanitizeFrontMatter(fm map[string]interface{}) map[string]interface{} {
	if fm == nil {
		return nil
	}
	sanitized := make(map[string]interface{}, len(fm))
	for k, v := range fm {
		sanitized[k] = sanitizeFrontMatterValue(v)
	}
	return sanitized
}

func sanitizeFrontMatterValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return sanitizeFrontMatter(v)
	case map[interface{}]interface{}:
		normalized := make(map[string]interface{}, len(v))
		for key, inner := range v {
			normalized[fmt.Sprint(key)] = sanitizeFrontMatterValue(inner)
		}
		return normalized
	case []interface{}:
		slice := make([]interface{}, len(v))
		for i := range v {
			slice[i] = sanitizeFrontMatterValue(v[i])
		}
		return slice
	default:
		return v
	}
}

func normalizeLineEndings(input string) string {
	return strings.ReplaceAll(input, "\r\n", "\n")
}
