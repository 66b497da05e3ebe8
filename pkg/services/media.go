package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

var (
	ErrUnsupportedMedia = errors.New("unsupported media type")
	ErrInvalidMediaPath = errors.New("invalid media path")
)

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".svg": true, ".avif": true,
}

type MediaFile struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"` // usable as an image src or fallback
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// MediaLibrary manages the uploaded images editors reference from front matter.
type MediaLibrary struct {
	dir    string
	public string
	now    func() time.Time
}

// NewMediaLibrary stores files under dir; publicPrefix is the URL path dir is served at.
func NewMediaLibrary(dir, publicPrefix string) *MediaLibrary {
	return &MediaLibrary{dir: dir, public: "/" + strings.Trim(publicPrefix, "/"), now: time.Now}
}

func (m *MediaLibrary) usagePath(name string) string {
	return path.Join(m.public, name)
}

// List returns the images in the library, newest first.
func (m *MediaLibrary) List() ([]MediaFile, error) {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return []MediaFile{}, nil
	}
	if err != nil {
		return nil, err
	}

	files := []MediaFile{}
	for _, entry := range entries {
		if entry.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, MediaFile{
			Name:    entry.Name(),
			Path:    m.usagePath(entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].ModTime.After(files[j].ModTime)
	})
	return files, nil
}

// Save writes an uploaded image under a slugged, timestamped name.
func (m *MediaLibrary) Save(header *multipart.FileHeader) (*MediaFile, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !imageExtensions[ext] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMedia, ext)
	}
	base, err := NormalizeSlug(strings.TrimSuffix(filepath.Base(header.Filename), filepath.Ext(header.Filename)))
	if err != nil {
		base = "image"
	}
	filename := fmt.Sprintf("%s_%d%s", base, m.now().Unix(), ext)

	fullPath := SafeJoin(m.dir, "", filename)
	if fullPath == "" {
		return nil, ErrInvalidMediaPath
	}
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return nil, err
	}

	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	size, err := writeMedia(fullPath, src)
	if err != nil {
		return nil, err
	}

	return &MediaFile{
		Name:    filename,
		Path:    m.usagePath(filename),
		Size:    size,
		ModTime: m.now(),
	}, nil
}

// writeMedia copies src to path, leaving nothing behind when the copy fails.
func writeMedia(path string, src io.Reader) (int64, error) {
	dst, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return 0, err
	}
	return size, nil
}

// Delete removes an image from the library. Only plain image file names are accepted.
func (m *MediaLibrary) Delete(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || !imageExtensions[strings.ToLower(filepath.Ext(name))] {
		return ErrInvalidMediaPath
	}
	fullPath := SafeJoin(m.dir, "", name)
	if fullPath == "" {
		return ErrInvalidMediaPath
	}
	return os.Remove(fullPath)
}
