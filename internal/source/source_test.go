package source

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewNRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func TestNewKeyframe(t *testing.T) {
	tests := []struct {
		path, id string
		page     int
		wantID   string
		wantIdx  int
	}{
		{"assets/images/frames/02.webp", "", 0, "02.webp", 0},
		{"assets/deck.pdf", "", 3, "deck.pdf#3", 2},
		{"assets/deck.PDF", "", 0, "deck.PDF", 0},
		{"a.png", "feb", 0, "feb", 0},
	}

	for _, tt := range tests {
		t.Run(tt.wantID, func(t *testing.T) {
			kf := NewKeyframe(tt.path, tt.page, tt.id)
			if kf.ID != tt.wantID {
				t.Errorf("Expected id %q, got %q", tt.wantID, kf.ID)
			}
			if kf.Index() != tt.wantIdx {
				t.Errorf("Expected index %d, got %d", tt.wantIdx, kf.Index())
			}
		})
	}
}

func TestImageSourceDirectory(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), 4, 3)
	writePNG(t, filepath.Join(dir, "a.png"), 4, 3)
	os.WriteFile(filepath.Join(dir, "readme.md"), []byte("#"), 0644)

	src, err := NewImageSource(dir)
	if err != nil {
		t.Fatalf("NewImageSource failed: %v", err)
	}
	defer src.Close()

	if src.PageCount() != 2 {
		t.Fatalf("Expected 2 images, got %d", src.PageCount())
	}
	if filepath.Base(src.paths[0]) != "a.png" {
		t.Errorf("Expected sorted paths, got %v", src.paths)
	}

	w, h, err := src.PixelSize(1, 300)
	if err != nil {
		t.Fatalf("PixelSize failed: %v", err)
	}
	if w != 4 || h != 3 {
		t.Errorf("Expected 4x3, got %dx%d", w, h)
	}

	img, err := src.RenderPage(0, 0)
	if err != nil {
		t.Fatalf("RenderPage failed: %v", err)
	}
	if img.Bounds().Dx() != 4 {
		t.Errorf("Unexpected bounds: %v", img.Bounds())
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.png"))
	if !os.IsNotExist(err) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestImageSourceCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	os.WriteFile(path, []byte("garbage"), 0644)

	src, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, _, err := src.PixelSize(0, 0); err == nil {
		t.Error("Expected header decode error")
	}
	if _, err := src.RenderPage(0, 0); err == nil {
		t.Error("Expected decode error")
	}
}
