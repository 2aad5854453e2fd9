package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ivlev/frameblend/internal/config"
	"github.com/ivlev/frameblend/internal/logger"
	"github.com/ivlev/frameblend/internal/optimize"
)

func main() {
	configPtr := flag.String("config", "", "YAML config file")
	dirPtr := flag.String("dir", "", "Directory with WebP frames")
	backupPtr := flag.String("backup-dir", "", "Backup directory (default <dir>_backup)")
	qualityPtr := flag.Float64("quality", 0, "Target quality 1-100")
	keepPtr := flag.Bool("keep-backups", true, "Keep backups after a successful rewrite")
	workersPtr := flag.Int("workers", 0, "Parallel files (default: CPU count)")
	logLevelPtr := flag.String("log-level", "", "Log level")
	logFilePtr := flag.String("log-file", "", "Rotating JSON log file")
	flag.Parse()

	cfg := &config.OptimizeConfig{}
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
		case "backup-dir":
			cfg.BackupDir = *backupPtr
		case "quality":
			cfg.Quality = float32(*qualityPtr)
		case "keep-backups":
			keep := *keepPtr
			cfg.KeepBackups = &keep
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

	report, err := optimize.New(cfg).Run(ctx)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}

	fmt.Printf("\n%-30s %10s %10s %8s\n", "file", "before KB", "after KB", "saved")
	for _, f := range report.Files {
		fmt.Printf("%-30s %10d %10d %7.1f%%\n", f.Name, f.OldSize>>10, f.NewSize>>10, f.Reduction())
	}
	fmt.Printf("\n[+++] Processed: %d, failed: %d, total saved %.1f%% (%v)\n",
		report.Processed, report.Failed, report.TotalReduction(), report.Elapsed.Round(time.Millisecond))
	if report.Failed > 0 {
		os.Exit(1)
	}
}
