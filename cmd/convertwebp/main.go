package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ivlev/frameblend/internal/config"
	"github.com/ivlev/frameblend/internal/convert"
	"github.com/ivlev/frameblend/internal/logger"
)

func main() {
	configPtr := flag.String("config", "", "YAML config file")
	dirPtr := flag.String("dir", "", "Directory with source frames")
	extsPtr := flag.String("exts", "", "Comma-separated source extensions (default .png)")
	qualityPtr := flag.Float64("quality", 0, "Lossy quality 1-100, used with -lossless=false")
	losslessPtr := flag.Bool("lossless", true, "Lossless WebP")
	workersPtr := flag.Int("workers", 0, "Parallel conversions (default: CPU count)")
	logLevelPtr := flag.String("log-level", "", "Log level")
	logFilePtr := flag.String("log-file", "", "Rotating JSON log file")
	flag.Parse()

	cfg := &config.ConvertConfig{}
	if err := config.Load(*configPtr, cfg); err != nil {
		log.Fatalf("[-] %v", err)
	}
	if flag.NArg() > 0 {
		cfg.Dir = flag.Arg(0)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dir":
			cfg.Dir = *dirPtr
		case "exts":
			cfg.Exts = strings.Split(*extsPtr, ",")
		case "quality":
			cfg.Quality = float32(*qualityPtr)
		case "lossless":
			lossless := *losslessPtr
			cfg.Lossless = &lossless
		case "workers":
			cfg.Workers = *workersPtr
		case "log-level":
			cfg.Log.Level = *logLevelPtr
		case "log-file":
			cfg.Log.File = *logFilePtr
		}
	})

	if err := logger.Setup(cfg.Log); err != nil {
		log.Fatalf("[-] Logger setup: %v", err)
	}
	if err := cfg.Verify(); err != nil {
		log.Fatalf("[-] Config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := convert.Run(ctx, cfg)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}
	fmt.Printf("\n[+++] Converted: %d, failed: %d (%v)\n", report.Converted, report.Failed, report.Elapsed.Round(time.Millisecond))
	if report.Failed > 0 {
		os.Exit(1)
	}
}
