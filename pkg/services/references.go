package services

import (
	"fmt"
	"net/url"
	"strings"

	"content-site/pkg/models"
)

const DefaultReferencePreview = 3

// Badge is the label and style class shown next to a reference.
type Badge struct {
	Label string
	Class string
}

var referenceBadges = map[string]Badge{
	"government": {Label: "Government", Class: "badge badge-government"},
	"guide":      {Label: "Guide", Class: "badge badge-guide"},
	"analysis":   {Label: "Analysis", Class: "badge badge-analysis"},
	"industry":   {Label: "Industry", Class: "badge badge-industry"},
	"watchlist":  {Label: "Watchlist", Class: "badge badge-watchlist"},
}

const defaultBadgeClass = "badge badge-default"

// ReferenceItem is a reference prepared for rendering.
type ReferenceItem struct {
	models.Reference
	Badge Badge
}

// ReferenceListView is the view model of the references section.
type ReferenceListView struct {
	Heading     string
	Description string
	Preview     []ReferenceItem
	Remainder   []ReferenceItem
	Total       int
}

// HasMore reports whether the disclosure toggle should be rendered.
func (v *ReferenceListView) HasMore() bool {
	return len(v.Remainder) > 0
}

func (v *ReferenceListView) ToggleLabel() string {
	return ToggleLabel(v.Total, len(v.Remainder))
}

// PartitionReferences splits refs into the always-visible preview and the disclosed
// remainder. Order is preserved.
func PartitionReferences(refs []models.Reference, previewCount int) (preview, remainder []models.Reference) {
	if previewCount <= 0 {
		previewCount = DefaultReferencePreview
	}
	if len(refs) <= previewCount {
		return refs, nil
	}
	return refs[:previewCount], refs[previewCount:]
}

// ReferenceBadge maps a reference category to its badge. Unknown or missing categories
// get the neutral style labelled with the link's hostname.
func ReferenceBadge(ref models.Reference) Badge {
	if b, ok := referenceBadges[strings.ToLower(strings.TrimSpace(ref.Category))]; ok {
		return b
	}
	return Badge{Label: hostLabel(ref), Class: defaultBadgeClass}
}

func hostLabel(ref models.Reference) string {
	if u, err := url.Parse(strings.TrimSpace(ref.Href)); err == nil && u.Hostname() != "" {
		return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	}
	if ref.Publisher != "" {
		return ref.Publisher
	}
	return "Source"
}

func ToggleLabel(total, hidden int) string {
	return fmt.Sprintf("Show all %d references (%d more)", total, hidden)
}

// NewReferenceList builds the references section. It returns nil for an empty list so
// the section is omitted entirely.
func NewReferenceList(refs []models.Reference, previewCount int, heading, description string) *ReferenceListView {
	if len(refs) == 0 {
		return nil
	}
	if heading == "" {
		heading = "References"
	}
	preview, remainder := PartitionReferences(refs, previewCount)
	return &ReferenceListView{
		Heading:     heading,
		Description: description,
		Preview:     referenceItems(preview),
		Remainder:   referenceItems(remainder),
		Total:       len(refs),
	}
}

func referenceItems(refs []models.Reference) []ReferenceItem {
	if len(refs) == 0 {
		return nil
	}
	items := make([]ReferenceItem, len(refs))
	for i, ref := range refs {
		items[i] = ReferenceItem{Reference: ref, Badge: ReferenceBadge(ref)}
	}
	return items
}
