package svgpath

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivlev/frameblend/internal/codec"
)

const logoSVG = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" xmlns:svg="http://www.w3.org/2000/svg" viewBox="0 0 100 50">
  <g id="layer1">
    <svg:path id="wave" d="M0 25 Q25 0 50 25 T100 25" fill="none" stroke="#000"/>
    <path id="box" d=" M10 10 H90 V40 H10 Z " fill="#f00"/>
    <path id="box" d="M0 0 L1 1"/>
    <path id="hollow" d=""/>
    <path id="blank" d="   "/>
    <path d="M1 1 L2 2"/>
  </g>
</svg>`

func TestExtract(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"wave", "M0 25 Q25 0 50 25 T100 25"},
		{"box", " M10 10 H90 V40 H10 Z "},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := Extract(strings.NewReader(logoSVG), tt.id)
			if err != nil {
				t.Fatalf("Extract failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExtractMissingListsIDs(t *testing.T) {
	_, err := Extract(strings.NewReader(logoSVG), "star")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
	want := []string{"blank", "box", "hollow", "wave"}
	if strings.Join(nf.Available, ",") != strings.Join(want, ",") {
		t.Errorf("Expected available %v, got %v", want, nf.Available)
	}

	_, err = Extract(strings.NewReader(`<svg><rect id="r"/></svg>`), "star")
	if err == nil || !strings.Contains(err.Error(), "no path elements with ids") {
		t.Errorf("Expected no paths message, got %v", err)
	}
}

func TestExtractEmptyD(t *testing.T) {
	for _, id := range []string{"hollow", "blank"} {
		if _, err := Extract(strings.NewReader(logoSVG), id); !errors.Is(err, ErrEmptyPath) {
			t.Errorf("%s: expected ErrEmptyPath, got %v", id, err)
		}
	}
	if _, err := Extract(strings.NewReader(logoSVG), ""); err == nil {
		t.Error("Expected error for empty id")
	}
}

func TestExtractFileAndPreview(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "logo.svg")
	os.WriteFile(input, []byte(logoSVG), 0644)

	output := filepath.Join(dir, "paths", "box.txt")
	if _, err := ExtractFile(input, "box", output); err != nil {
		t.Fatalf("ExtractFile failed: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil || string(data) != " M10 10 H90 V40 H10 Z " {
		t.Errorf("Unexpected output %q, %v", data, err)
	}

	preview := filepath.Join(dir, "logo.png")
	if err := RenderPreview(input, preview, 200); err != nil {
		t.Fatalf("RenderPreview failed: %v", err)
	}
	img, _, err := codec.DecodeFile(preview)
	if err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("Expected 200x100 preview, got %v", b)
	}
}

func TestPreviewSize(t *testing.T) {
	tests := []struct {
		vw, vh float64
		size   int
		w, h   int
	}{
		{100, 50, 0, 100, 50},
		{100, 50, 400, 400, 200},
		{30, 60, 90, 45, 90},
		{0, 0, 0, DefaultPreviewSize, DefaultPreviewSize},
	}
	for _, tt := range tests {
		w, h := previewSize(tt.vw, tt.vh, tt.size)
		if w != tt.w || h != tt.h {
			t.Errorf("previewSize(%v, %v, %d) = %dx%d, expected %dx%d", tt.vw, tt.vh, tt.size, w, h, tt.w, tt.h)
		}
	}
}

func TestValidateAccepts(t *testing.T) {
	tests := []string{
		"M0 25 Q25 0 50 25 T100 25",
		" M10 10 H90 V40 H10 Z ",
		"m.5.5l1e2-3,4 5",
		"M0 0 A10 10 0 01 20 20z",
		"M0,0 a5 5 30 1 0 10 10",
		"M1 1 2 2 3 3Z m1 1 l1 1 -1 -1z",
		"M0 0C1 1 2 2 3 3S4 4 5 5",
		"M-1.5E+2 .25 v-3 h+4",
	}
	for _, d := range tests {
		if err := Validate(d); err != nil {
			t.Errorf("Validate(%q) failed: %v", d, err)
		}
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		d    string
	}{
		{"words", "hello world"},
		{"moveto without numbers", "M"},
		{"moveto with one number", "M 10"},
		{"no moveto", "Z Z Z"},
		{"letters as numbers", "M0 0 L x y"},
		{"markup", `<>&"`},
		{"whitespace only", "   "},
		{"lineto without numbers", "M0 0 L"},
		{"incomplete cubic", "M0 0 C1 1 2 2 3"},
		{"bad arc flag", "M0 0 A10 10 0 2 0 20 20"},
		{"dangling exponent", "M1e 2"},
		{"double comma", "M0,,0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.d); err == nil {
				t.Errorf("Expected Validate(%q) to fail", tt.d)
			}
		})
	}
}

func TestExtractFileRejectsMalformedPath(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "bad.svg")
	os.WriteFile(input, []byte(`<svg xmlns="http://www.w3.org/2000/svg"><path id="p" d="L 5"/></svg>`), 0644)

	output := filepath.Join(dir, "p.txt")
	if _, err := ExtractFile(input, "p", output); err == nil {
		t.Fatal("Expected malformed path to be rejected")
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Error("No output must be written for a malformed path")
	}
}
