package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ivlev/frameblend/internal/config"
	"github.com/ivlev/frameblend/internal/logger"
	"github.com/ivlev/frameblend/internal/svgpath"
)

func main() {
	configPtr := flag.String("config", "", "YAML config file")
	inputPtr := flag.String("input", "", "SVG file")
	idPtr := flag.String("id", "", "Id of the path element (prompted when empty)")
	outputPtr := flag.String("output", "", "File to write the path data to")
	previewPtr := flag.String("preview", "", "Also rasterize the SVG to this .png/.webp file")
	sizePtr := flag.Int("preview-size", 0, "Long side of the preview in pixels (default: viewBox size)")
	logLevelPtr := flag.String("log-level", "", "Log level")
	flag.Parse()

	cfg := &config.SVGPathConfig{}
	if err := config.Load(*configPtr, cfg); err != nil {
		log.Fatalf("[-] %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input = *inputPtr
		case "id":
			cfg.ID = *idPtr
		case "output":
			cfg.Output = *outputPtr
		case "preview":
			cfg.Preview = *previewPtr
		case "preview-size":
			cfg.PreviewSize = *sizePtr
		case "log-level":
			cfg.Log.Level = *logLevelPtr
		}
	})

	if err := logger.Setup(cfg.Log); err != nil {
		log.Fatalf("[-] Logger setup: %v", err)
	}
	if err := cfg.Verify(); err != nil {
		log.Fatalf("[-] Config: %v", err)
	}

	if cfg.ID == "" {
		fmt.Print("Enter the id of the path element: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			log.Fatalf("[-] Could not read id: %v", err)
		}
		cfg.ID = strings.TrimSpace(line)
		if cfg.ID == "" {
			log.Fatal("[-] Path id must not be empty")
		}
	}

	d, err := svgpath.ExtractFile(cfg.Input, cfg.ID, cfg.Output)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}
	fmt.Printf("[+++] Path %q (%d chars) saved to %s\n", cfg.ID, len(d), cfg.Output)

	if cfg.Preview != "" {
		if err := svgpath.RenderPreview(cfg.Input, cfg.Preview, cfg.PreviewSize); err != nil {
			log.Fatalf("[-] Preview: %v", err)
		}
		fmt.Printf("[+++] Preview saved to %s\n", cfg.Preview)
	}
}
