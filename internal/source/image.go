package source

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ivlev/frameblend/internal/codec"
)

// ImageExts are the raster extensions a directory source picks up.
var ImageExts = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

type ImageSource struct {
	paths []string
}

// NewImageSource opens one image file, or every image in a directory
// sorted by name.
func NewImageSource(path string) (*ImageSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var paths []string
	if fi.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() && isImage(entry.Name()) {
				paths = append(paths, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(paths)
	} else {
		paths = []string{path}
	}

	return &ImageSource{paths: paths}, nil
}

func isImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range ImageExts {
		if ext == e {
			return true
		}
	}
	return false
}

func (s *ImageSource) PageCount() int {
	return len(s.paths)
}

func (s *ImageSource) GetPageDimensions(index int) (float64, float64, error) {
	w, h, err := s.PixelSize(index, 0)
	return float64(w), float64(h), err
}

// PixelSize reads only the image header; dpi is ignored for rasters.
func (s *ImageSource) PixelSize(index int, dpi int) (int, int, error) {
	f, err := os.Open(s.paths[index])
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode header %s: %w", s.paths[index], err)
	}
	return cfg.Width, cfg.Height, nil
}

func (s *ImageSource) RenderPage(index int, dpi int) (image.Image, error) {
	img, _, err := codec.DecodeFile(s.paths[index])
	return img, err
}

func (s *ImageSource) Close() error {
	return nil
}
