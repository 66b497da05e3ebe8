package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageSourceFallbackOnce(t *testing.T) {
	img := NewImageSource("https://cdn.example.com/broken.jpg", "/static/default.jpg")
	assert.Equal(t, "https://cdn.example.com/broken.jpg", img.Current())

	assert.True(t, img.OnError())
	assert.Equal(t, "/static/default.jpg", img.Current())

	// the fallback is broken as well: no loop, no further change
	assert.False(t, img.OnError())
	assert.Equal(t, "/static/default.jpg", img.Current())
}

func TestImageSourceRearmsOnPrimaryChange(t *testing.T) {
	img := NewImageSource("a.jpg", "fallback.jpg")
	img.OnError()
	require.Equal(t, "fallback.jpg", img.Current())

	img.SetPrimary("b.jpg")
	assert.Equal(t, "b.jpg", img.Current())

	assert.True(t, img.OnError())
	assert.Equal(t, "fallback.jpg", img.Current())
}

func TestImageSourceSamePrimaryKeepsState(t *testing.T) {
	img := NewImageSource("a.jpg", "fallback.jpg")
	img.OnError()
	img.SetPrimary("a.jpg")
	assert.Equal(t, "fallback.jpg", img.Current())
}

func TestImageSourceWithoutFallback(t *testing.T) {
	img := NewImageSource("broken.jpg", "")
	assert.False(t, img.OnError())
	assert.Equal(t, "broken.jpg", img.Current())
	assert.Empty(t, img.View("alt").Fallback)
}

func TestNewImage(t *testing.T) {
	t.Run("requires alt", func(t *testing.T) {
		_, err := NewImage("a.jpg", "b.jpg", " ")
		assert.ErrorIs(t, err, ErrMissingAlt)
	})

	t.Run("primary with fallback", func(t *testing.T) {
		v, err := NewImage("a.jpg", "b.jpg", "Alt")
		require.NoError(t, err)
		assert.Equal(t, ImageView{Src: "a.jpg", Alt: "Alt", Fallback: "b.jpg"}, v)
	})

	t.Run("empty primary renders fallback", func(t *testing.T) {
		v, err := NewImage("", "b.jpg", "Alt")
		require.NoError(t, err)
		assert.Equal(t, "b.jpg", v.Src)
		assert.Empty(t, v.Fallback)
	})

	t.Run("fallback equal to primary is dropped", func(t *testing.T) {
		v, err := NewImage("b.jpg", "b.jpg", "Alt")
		require.NoError(t, err)
		assert.Empty(t, v.Fallback)
	})
}
