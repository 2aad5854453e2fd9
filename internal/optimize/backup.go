package optimize

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/ivlev/frameblend/internal/system"
)

// Backup guards one file while it is rewritten in place. Exactly one of
// Restore or Release should follow a successful AcquireBackup.
type Backup struct {
	Original string
	Copy     string
	done     bool
}

// AcquireBackup copies path into dir under the same base name.
func AcquireBackup(path, dir string) (*Backup, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}
	dest := filepath.Join(dir, filepath.Base(path))
	if err := system.CopyFile(path, dest); err != nil {
		return nil, fmt.Errorf("backup %s: %w", path, err)
	}
	return &Backup{Original: path, Copy: dest}, nil
}

// Restore puts the backup back over the original. The backup file is
// consumed.
func (b *Backup) Restore() error {
	if b.done {
		return nil
	}
	b.done = true

	if err := os.Rename(b.Copy, b.Original); err == nil {
		return nil
	}
	// Rename fails across devices; fall back to copying.
	if err := system.CopyFile(b.Copy, b.Original); err != nil {
		return fmt.Errorf("restore %s from %s: %w", b.Original, b.Copy, err)
	}
	return os.Remove(b.Copy)
}

// Release ends the guard after a successful rewrite, removing the backup
// unless keep is set.
func (b *Backup) Release(keep bool) error {
	if b.done {
		return nil
	}
	b.done = true
	if keep {
		return nil
	}
	return os.Remove(b.Copy)
}

// WithBackup runs fn while path is backed up. Any error from fn restores
// the original.
func WithBackup(path, dir string, keep bool, fn func() error) error {
	backup, err := AcquireBackup(path, dir)
	if err != nil {
		return err
	}

	if err := fn(); err != nil {
		if rerr := backup.Restore(); rerr != nil {
			log.WithError(rerr).Errorf("[-] Could not restore %s", path)
		} else {
			log.Debugf("  Restored %s from backup", filepath.Base(path))
		}
		return err
	}
	return backup.Release(keep)
}
