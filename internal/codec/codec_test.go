package codec

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 8), G: uint8(y * 8), B: uint8(x + y), A: 255})
		}
	}
	return img
}

func samePixels(t *testing.T, want, got image.Image) {
	t.Helper()
	if want.Bounds() != got.Bounds() {
		t.Fatalf("Bounds mismatch: %v vs %v", want.Bounds(), got.Bounds())
	}
	b := want.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			wr, wg, wb, wa := want.At(x, y).RGBA()
			gr, gg, gb, ga := got.At(x, y).RGBA()
			if wr>>8 != gr>>8 || wg>>8 != gg>>8 || wb>>8 != gb>>8 || wa>>8 != ga>>8 {
				t.Fatalf("Pixel (%d,%d) differs: %v vs %v", x, y, want.At(x, y), got.At(x, y))
			}
		}
	}
}

func TestFormatFromExt(t *testing.T) {
	tests := []struct {
		ext     string
		want    Format
		wantErr bool
	}{
		{".png", PNG, false},
		{"PNG", PNG, false},
		{".jpg", JPEG, false},
		{".jpeg", JPEG, false},
		{".webp", WebP, false},
		{".tiff", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			got, err := FormatFromExt(tt.ext)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := gradient(16, 12)

	for _, name := range []string{"frame.png", "frame.webp"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := WriteFile(path, src, Options{Lossless: true}); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}

			got, _, err := DecodeFile(path)
			if err != nil {
				t.Fatalf("DecodeFile failed: %v", err)
			}
			samePixels(t, src, got)
		})
	}
}

func TestWriteFileLossyWebP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.webp")
	if err := WriteFile(path, gradient(32, 32), Options{Quality: 50}); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	img, format, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile failed: %v", err)
	}
	if format != "webp" {
		t.Errorf("Expected webp, got %s", format)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 32 {
		t.Errorf("Unexpected bounds: %v", img.Bounds())
	}
}

func TestWriteFileUnsupportedLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	if err := WriteFile(filepath.Join(dir, "frame.bmp"), gradient(2, 2), Options{}); err == nil {
		t.Fatal("Expected error for unsupported extension")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Expected empty dir, found %d entries", len(entries))
	}
}

func TestDecodeFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	os.WriteFile(path, []byte("not a png"), 0644)
	if _, _, err := DecodeFile(path); err == nil {
		t.Error("Expected decode error")
	}
}
