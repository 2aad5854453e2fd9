// Package convert re-encodes a directory of raster frames to WebP.
package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/frameblend/internal/codec"
	"github.com/ivlev/frameblend/internal/config"
	"github.com/ivlev/frameblend/internal/system"
)

type Report struct {
	Converted int
	Failed    int
	Elapsed   time.Duration
}

// TargetPath is the WebP file written for src: same directory, same base name.
func TargetPath(src string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + ".webp"
}

// Run converts every matching file in cfg.Dir. A file that fails is logged
// and counted; the others still convert. Only an unreadable directory is
// returned as an error.
func Run(ctx context.Context, cfg *config.ConvertConfig) (*Report, error) {
	startTime := time.Now()

	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("directory %s not found: %w", cfg.Dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", cfg.Dir)
	}

	files, err := system.ListImages(cfg.Dir, cfg.Exts)
	if err != nil {
		return nil, err
	}
	report := &Report{}
	if len(files) == 0 {
		log.Warnf("[!] No %s files found in %s", strings.Join(cfg.Exts, "/"), cfg.Dir)
		return report, nil
	}

	opt := codec.Options{Quality: cfg.Quality}
	if cfg.Lossless != nil {
		opt.Lossless = *cfg.Lossless
	}
	mode := fmt.Sprintf("lossy q=%.0f", opt.Quality)
	if opt.Lossless {
		mode = "lossless"
	}
	log.Infof("[*] Converting %d files in %s to WebP (%s)...", len(files), cfg.Dir, mode)

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for _, path := range files {
		path := path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := convertFile(path, opt)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed++
				log.WithError(err).Errorf("  Failed %s", filepath.Base(path))
				return nil
			}
			report.Converted++
			log.Debugf("  Converted %s -> %s", filepath.Base(path), filepath.Base(TargetPath(path)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, err
	}
	report.Elapsed = time.Since(startTime)
	return report, nil
}

func convertFile(path string, opt codec.Options) error {
	img, _, err := codec.DecodeFile(path)
	if err != nil {
		return err
	}
	return codec.WriteFile(TargetPath(path), img, opt)
}
