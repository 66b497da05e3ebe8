package services

import (
	"errors"
	"strings"
)

// FallbackOnError is the inline handler attached to images with a fallback. It swaps to
// data-fallback once and detaches itself, so a broken fallback is left to the browser.
const FallbackOnError = "this.onerror=null;this.src=this.dataset.fallback;"

var ErrMissingAlt = errors.New("image alt text is required")

// ImageSource tracks the displayed source of an image that may swap to a fallback.
type ImageSource struct {
	primary  string
	fallback string
	current  string
	swapped  bool
}

func NewImageSource(primary, fallback string) *ImageSource {
	return &ImageSource{primary: primary, fallback: fallback, current: primary}
}

func (s *ImageSource) Current() string { return s.current }

func (s *ImageSource) Primary() string { return s.primary }

func (s *ImageSource) Fallback() string { return s.fallback }

// OnError handles a load failure of the displayed source. It reports whether the source
// changed. The fallback is used at most once per primary.
func (s *ImageSource) OnError() bool {
	if s.fallback == "" || s.swapped {
		return false
	}
	s.current = s.fallback
	s.swapped = true
	return true
}

// SetPrimary replaces the primary source. A different source resets the displayed image
// and re-arms the fallback.
func (s *ImageSource) SetPrimary(src string) {
	if src == s.primary {
		return
	}
	s.primary = src
	s.current = src
	s.swapped = false
}

// ImageView is the template model of the image component.
type ImageView struct {
	Src      string
	Alt      string
	Fallback string
	Caption  string
	Class    string
}

// View renders the current state. Fallback is omitted once it is already displayed or
// equals the primary.
func (s *ImageSource) View(alt string) ImageView {
	v := ImageView{Src: s.current, Alt: alt}
	if !s.swapped && s.fallback != "" && s.fallback != s.current {
		v.Fallback = s.fallback
	}
	return v
}

// NewImage prepares an image for rendering. An empty src renders the fallback directly.
func NewImage(src, fallback, alt string) (ImageView, error) {
	if strings.TrimSpace(alt) == "" {
		return ImageView{}, ErrMissingAlt
	}
	src = strings.TrimSpace(src)
	fallback = strings.TrimSpace(fallback)
	if src == "" {
		src, fallback = fallback, ""
	}
	return NewImageSource(src, fallback).View(alt), nil
}
