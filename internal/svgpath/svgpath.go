// Package svgpath pulls the path data of one <path> element out of an SVG
// document.
package svgpath

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/srwiley/oksvg"
)

var ErrEmptyPath = errors.New("path has no d attribute")

// NotFoundError reports a missing id together with the ids that do exist.
type NotFoundError struct {
	ID        string
	Available []string
}

func (e *NotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("path with id %q not found: no path elements with ids", e.ID)
	}
	return fmt.Sprintf("path with id %q not found, available ids: %s", e.ID, strings.Join(e.Available, ", "))
}

// Extract returns the d attribute of the first path element whose id equals
// id. Namespaces are ignored so both plain and xmlns-qualified documents
// match.
func Extract(r io.Reader, id string) (string, error) {
	if id == "" {
		return "", errors.New("empty path id")
	}

	dec := xml.NewDecoder(r)
	dec.Strict = false
	seen := map[string]bool{}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse svg: %w", err)
		}

		el, ok := tok.(xml.StartElement)
		if !ok || el.Name.Local != "path" {
			continue
		}
		elID, d, hasD := pathAttrs(el)
		if elID == "" {
			continue
		}
		if elID != id {
			seen[elID] = true
			continue
		}
		if !hasD || strings.TrimSpace(d) == "" {
			return "", fmt.Errorf("%w: %s", ErrEmptyPath, id)
		}
		return d, nil
	}

	available := make([]string, 0, len(seen))
	for k := range seen {
		available = append(available, k)
	}
	sort.Strings(available)
	return "", &NotFoundError{ID: id, Available: available}
}

func pathAttrs(el xml.StartElement) (id, d string, hasD bool) {
	for _, a := range el.Attr {
		switch a.Name.Local {
		case "id":
			id = a.Value
		case "d":
			d, hasD = a.Value, true
		}
	}
	return id, d, hasD
}

// Validate checks that d is well-formed path data: it starts with a
// moveto, every command carries whole groups of parameters, and oksvg
// compiles it into a non-empty path.
func Validate(d string) error {
	if err := checkSyntax(d); err != nil {
		return fmt.Errorf("invalid path data: %w", err)
	}

	var c oksvg.PathCursor
	if err := c.CompilePath(d); err != nil {
		return fmt.Errorf("invalid path data: %w", err)
	}
	if len(c.Path) == 0 {
		return errors.New("invalid path data: path compiles to no geometry")
	}
	return nil
}

// ExtractFile reads the SVG at input, validates the path with the given id
// and writes its data to output.
func ExtractFile(input, id, output string) (string, error) {
	f, err := os.Open(input)
	if err != nil {
		return "", err
	}
	defer f.Close()

	d, err := Extract(f, id)
	if err != nil {
		return "", err
	}
	if err := Validate(d); err != nil {
		return "", err
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}
	if err := os.WriteFile(output, []byte(d), 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", output, err)
	}
	return d, nil
}
