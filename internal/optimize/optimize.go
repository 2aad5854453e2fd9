// Package optimize re-encodes WebP frames in place at a lower quality,
// keeping a backup of each file until its rewrite succeeds.
package optimize

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/frameblend/internal/codec"
	"github.com/ivlev/frameblend/internal/config"
	"github.com/ivlev/frameblend/internal/system"
)

// EncodeFunc writes img to w.
type EncodeFunc func(w io.Writer, img image.Image) error

type FileResult struct {
	Name    string
	OldSize int64
	NewSize int64
}

// Reduction is the size saving in percent; negative when the file grew.
func (r FileResult) Reduction() float64 {
	if r.OldSize == 0 {
		return 0
	}
	return float64(r.OldSize-r.NewSize) / float64(r.OldSize) * 100
}

type Report struct {
	Processed int
	Failed    int
	Files     []FileResult
	Elapsed   time.Duration
}

// TotalReduction is the saving over all processed files in percent.
func (r *Report) TotalReduction() float64 {
	total := FileResult{}
	for _, f := range r.Files {
		total.OldSize += f.OldSize
		total.NewSize += f.NewSize
	}
	return total.Reduction()
}

type Optimizer struct {
	Config *config.OptimizeConfig
	Encode EncodeFunc
}

// New returns an Optimizer encoding lossy WebP at cfg.Quality.
func New(cfg *config.OptimizeConfig) *Optimizer {
	format, err := codec.FormatFromExt(cfg.Ext)
	if err != nil {
		format = codec.WebP
	}
	opt := codec.Options{Quality: cfg.Quality}
	return &Optimizer{
		Config: cfg,
		Encode: func(w io.Writer, img image.Image) error {
			return codec.Encode(w, img, format, opt)
		},
	}
}

// Run optimizes every file in the configured directory. Failures are
// counted per file and the original content is restored; only an
// unreadable directory is returned as an error.
func (o *Optimizer) Run(ctx context.Context) (*Report, error) {
	startTime := time.Now()
	cfg := o.Config

	if _, err := os.Stat(cfg.Dir); err != nil {
		return nil, fmt.Errorf("directory %s not found: %w", cfg.Dir, err)
	}
	files, err := system.ListImages(cfg.Dir, []string{cfg.Ext})
	if err != nil {
		return nil, err
	}
	report := &Report{}
	if len(files) == 0 {
		log.Warnf("[!] No %s files found in %s", cfg.Ext, cfg.Dir)
		return report, nil
	}

	keep := true
	if cfg.KeepBackups != nil {
		keep = *cfg.KeepBackups
	}
	log.Infof("[*] Optimizing %d files in %s (quality %.0f, backups in %s)...", len(files), cfg.Dir, cfg.Quality, cfg.BackupDir)

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for _, path := range files {
		path := path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := o.optimizeFile(path, keep)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed++
				log.WithError(err).Warnf("  Skipped %s", filepath.Base(path))
				return nil
			}
			report.Processed++
			report.Files = append(report.Files, res)
			log.Infof("  %s: %d KB -> %d KB (%.1f%%)", res.Name, res.OldSize>>10, res.NewSize>>10, res.Reduction())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, err
	}
	sort.Slice(report.Files, func(i, j int) bool { return report.Files[i].Name < report.Files[j].Name })
	report.Elapsed = time.Since(startTime)
	return report, nil
}

func (o *Optimizer) optimizeFile(path string, keep bool) (FileResult, error) {
	res := FileResult{Name: filepath.Base(path)}

	oldSize, err := system.FileSize(path)
	if err != nil {
		return res, err
	}
	res.OldSize = oldSize

	err = WithBackup(path, o.Config.BackupDir, keep, func() error {
		img, _, err := codec.DecodeFile(path)
		if err != nil {
			return err
		}

		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := o.Encode(f, img); err != nil {
			f.Close()
			return fmt.Errorf("encode %s: %w", path, err)
		}
		return f.Close()
	})
	if err != nil {
		return res, err
	}

	res.NewSize, err = system.FileSize(path)
	return res, err
}
