package source

import (
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

type Source interface {
	PageCount() int
	GetPageDimensions(index int) (width, height float64, err error)
	// PixelSize is the raster size RenderPage will produce at dpi.
	PixelSize(index int, dpi int) (width, height int, err error)
	RenderPage(index int, dpi int) (image.Image, error)
	Close() error
}

// Opener opens the source behind a keyframe path.
type Opener func(path string) (Source, error)

// Open picks a PDF or raster source by file extension.
func Open(path string) (Source, error) {
	if IsPDF(path) {
		pdf, err := NewFitzPDFSource(path)
		if err != nil {
			return nil, err
		}
		return pdf, nil
	}

	img, err := NewImageSource(path)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// Keyframe references one image: a raster file, or one page of a PDF.
type Keyframe struct {
	ID   string
	Path string
	Page int // 1-based, 0 means first page
}

// NewKeyframe builds a reference, deriving the id from the file name when
// none is given: "02.webp", or "deck.pdf#3" for a PDF page.
func NewKeyframe(path string, page int, id string) Keyframe {
	if id == "" {
		id = filepath.Base(path)
		if IsPDF(path) && page > 0 {
			id = fmt.Sprintf("%s#%d", id, page)
		}
	}
	return Keyframe{ID: id, Path: path, Page: page}
}

// Index is the 0-based page index inside the source.
func (k Keyframe) Index() int {
	if k.Page <= 0 {
		return 0
	}
	return k.Page - 1
}

type FitzPDFSource struct {
	doc  *fitz.Document
	path string
}

func NewFitzPDFSource(path string) (*FitzPDFSource, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &FitzPDFSource{doc: doc, path: path}, nil
}

func (f *FitzPDFSource) PageCount() int {
	return f.doc.NumPage()
}

func (f *FitzPDFSource) GetPageDimensions(index int) (float64, float64, error) {
	rect, err := f.doc.Bound(index)
	if err != nil {
		return 0, 0, err
	}
	return float64(rect.Dx()), float64(rect.Dy()), nil
}

// PixelSize scales the page box (72 dpi points) to dpi.
func (f *FitzPDFSource) PixelSize(index int, dpi int) (int, int, error) {
	w, h, err := f.GetPageDimensions(index)
	if err != nil {
		return 0, 0, err
	}
	scale := float64(dpi) / 72.0
	return int(math.Ceil(w * scale)), int(math.Ceil(h * scale)), nil
}

func (f *FitzPDFSource) RenderPage(index int, dpi int) (image.Image, error) {
	img, err := f.doc.ImageDPI(index, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("render %s page %d: %w", f.path, index+1, err)
	}
	return img, nil
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}
