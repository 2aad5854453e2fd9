package system

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shirou/gopsutil/v3/mem"
)

// MemoryReport describes whether an allocation of Required bytes fits into
// the memory currently available to the process.
type MemoryReport struct {
	Required  uint64
	Available uint64
}

func (r MemoryReport) Fits() bool {
	return r.Required <= r.Available
}

// virtualMemory is swapped in tests.
var virtualMemory = mem.VirtualMemory

// CheckMemory compares required bytes against available system memory.
func CheckMemory(required uint64) (MemoryReport, error) {
	vm, err := virtualMemory()
	if err != nil {
		return MemoryReport{Required: required}, fmt.Errorf("read memory stats: %w", err)
	}
	return MemoryReport{Required: required, Available: vm.Available}, nil
}

// ListImages returns files in dir whose extension matches one of exts
// (case-insensitive), sorted by name. Subdirectories are not scanned.
func ListImages(dir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, want := range exts {
			if ext == want {
				paths = append(paths, filepath.Join(dir, entry.Name()))
				break
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// CopyFile copies src to dest, keeping permission bits and modification time.
func CopyFile(src, dest string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	info, err := sourceFile.Stat()
	if err != nil {
		return err
	}

	destFile, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		destFile.Close()
		return err
	}
	if err := destFile.Sync(); err != nil {
		destFile.Close()
		return err
	}
	if err := destFile.Close(); err != nil {
		return err
	}

	return os.Chtimes(dest, info.ModTime(), info.ModTime())
}

// FileSize returns the size of path in bytes.
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
