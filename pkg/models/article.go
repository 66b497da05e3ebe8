package models

import "time"

// Article is one long-form content page, decoded from a Markdown file with front matter.
type Article struct {
	Slug        string    `json:"slug" yaml:"slug" toml:"slug"`
	Title       string    `json:"title" yaml:"title" toml:"title"`
	Description string    `json:"description" yaml:"description" toml:"description"`
	Category    string    `json:"category" yaml:"category" toml:"category"`
	AuthorID    string    `json:"author,omitempty" yaml:"author" toml:"author"`
	Published   time.Time `json:"published" yaml:"-" toml:"-"`
	Modified    time.Time `json:"modified" yaml:"-" toml:"-"`
	Draft       bool      `json:"draft,omitempty" yaml:"draft" toml:"draft"`

	Hero       Image       `json:"hero" yaml:"hero" toml:"hero"`
	Images     []Image     `json:"images,omitempty" yaml:"images" toml:"images"`
	FAQ        []FAQItem   `json:"faq,omitempty" yaml:"faq" toml:"faq"`
	References []Reference `json:"references,omitempty" yaml:"references" toml:"references"`
	Steps      []Step      `json:"steps,omitempty" yaml:"steps" toml:"steps"`
	Quote      *Quote      `json:"quote,omitempty" yaml:"quote" toml:"quote"`
	CTA        *CTA        `json:"cta,omitempty" yaml:"cta" toml:"cta"`
	Form       string      `json:"form,omitempty" yaml:"form" toml:"form"` // Form name accepted by /forms/:form

	ReferencesPreview     int    `json:"referencesPreview,omitempty" yaml:"referencesPreview" toml:"referencesPreview"`
	ReferencesHeading     string `json:"referencesHeading,omitempty" yaml:"referencesHeading" toml:"referencesHeading"`
	ReferencesDescription string `json:"referencesDescription,omitempty" yaml:"referencesDescription" toml:"referencesDescription"`

	Path string `json:"path" yaml:"-" toml:"-"` // Relative to the content root
	Body string `json:"-" yaml:"-" toml:"-"`    // Raw Markdown
}

// URL returns the canonical site path of the article.
func (a *Article) URL() string {
	return "/articles/" + a.Category + "/" + a.Slug
}

type Image struct {
	Src      string `json:"src" yaml:"src" toml:"src"`
	Alt      string `json:"alt" yaml:"alt" toml:"alt"`
	Fallback string `json:"fallback,omitempty" yaml:"fallback" toml:"fallback"`
	Caption  string `json:"caption,omitempty" yaml:"caption" toml:"caption"`
}

type FAQItem struct {
	ID       string `json:"id" yaml:"id" toml:"id"`
	Question string `json:"question" yaml:"question" toml:"question"`
	Answer   string `json:"answer" yaml:"answer" toml:"answer"`
}

// Reference is a citation rendered in the collapsible references list.
// Category only drives badge styling.
type Reference struct {
	ID          string `json:"id" yaml:"id" toml:"id"`
	Href        string `json:"href" yaml:"href" toml:"href"`
	Title       string `json:"title" yaml:"title" toml:"title"`
	Publisher   string `json:"publisher" yaml:"publisher" toml:"publisher"`
	Description string `json:"description,omitempty" yaml:"description" toml:"description"`
	Category    string `json:"category,omitempty" yaml:"category" toml:"category"`
}

type Step struct {
	Title string `json:"title" yaml:"title" toml:"title"`
	Body  string `json:"body" yaml:"body" toml:"body"`
}

type Quote struct {
	Text        string `json:"text" yaml:"text" toml:"text"`
	Attribution string `json:"attribution,omitempty" yaml:"attribution" toml:"attribution"`
}

type CTA struct {
	Title string `json:"title" yaml:"title" toml:"title"`
	Body  string `json:"body,omitempty" yaml:"body" toml:"body"`
	Label string `json:"label" yaml:"label" toml:"label"`
	Href  string `json:"href" yaml:"href" toml:"href"`
}
