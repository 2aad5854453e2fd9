package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ivlev/frameblend/internal/config"
)

// cliHook echoes Info level and above to the terminal while the main
// output goes to the rotating log file.
type cliHook struct {
	out       io.Writer
	formatter log.Formatter
}

func (h *cliHook) Levels() []log.Level {
	return []log.Level{log.InfoLevel, log.WarnLevel, log.ErrorLevel, log.FatalLevel, log.PanicLevel}
}

func (h *cliHook) Fire(entry *log.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.out.Write(line)
	return err
}

// Setup configures the standard logrus logger. Without a log file
// everything goes to stderr as text; with one, JSON lines go to a
// lumberjack-rotated file and Info+ is mirrored to stderr.
func Setup(cfg config.LogConfig) error {
	level := log.InfoLevel
	if cfg.Level != "" {
		parsed, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return err
		}
		level = parsed
	}
	log.SetLevel(level)

	text := &log.TextFormatter{
		DisableTimestamp: true,
		DisableQuote:     true,
	}

	if cfg.File == "" {
		log.SetFormatter(text)
		log.SetOutput(os.Stderr)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return err
	}

	log.SetFormatter(&log.JSONFormatter{
		TimestampFormat: time.RFC1123Z,
	})
	log.SetOutput(&lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    5, // MB
		MaxBackups: 10,
		MaxAge:     30, // days
		Compress:   true,
	})
	log.AddHook(&cliHook{out: os.Stderr, formatter: text})
	return nil
}
