// Package codec reads and writes raster files, choosing the encoder from
// the file extension.
package codec

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	_ "golang.org/x/image/webp"
)

type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	WebP Format = "webp"
)

// Options controls lossy encoders. PNG ignores both fields; JPEG ignores
// Lossless.
type Options struct {
	Quality  float32
	Lossless bool
}

// FormatFromExt maps a file extension (with or without dot) to a Format.
func FormatFromExt(ext string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(ext), ".") {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "webp":
		return WebP, nil
	default:
		return "", fmt.Errorf("unsupported output format %q", ext)
	}
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format Format, opt Options) error {
	switch format {
	case PNG:
		enc := png.Encoder{CompressionLevel: png.DefaultCompression}
		return enc.Encode(w, img)
	case JPEG:
		q := int(opt.Quality)
		if q <= 0 {
			q = jpeg.DefaultQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: q})
	case WebP:
		return webp.Encode(w, img, &webp.Options{Lossless: opt.Lossless, Quality: opt.Quality})
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// WriteFile encodes img next to path under a temporary name and renames it
// into place, so path either holds a complete image or is untouched.
func WriteFile(path string, img image.Image, opt Options) error {
	format, err := FormatFromExt(filepath.Ext(path))
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if err := Encode(tmp, img, format, opt); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("encode %s: %w", format, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// DecodeFile decodes any registered raster format.
func DecodeFile(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", path, err)
	}
	return img, format, nil
}
