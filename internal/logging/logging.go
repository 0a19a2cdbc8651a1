// Package logging points the standard logger at stderr or a rotating file.
package logging

import (
	"io"
	"log"
	"os"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults applied when a log file is configured.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 7
)

// Config describes the log destination. An empty File logs to stderr.
type Config struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Writer returns the destination for cfg. The caller closes it when it is a
// file.
func Writer(cfg Config) io.Writer {
	if cfg.File == "" {
		return os.Stderr
	}
	l := &lj.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	if l.MaxSize <= 0 {
		l.MaxSize = DefaultMaxSizeMB
	}
	if l.MaxBackups <= 0 {
		l.MaxBackups = DefaultMaxBackups
	}
	if l.MaxAge <= 0 {
		l.MaxAge = DefaultMaxAgeDays
	}
	return l
}

// Setup directs the standard logger to cfg's destination and returns a
// function that releases it.
func Setup(cfg Config) func() {
	w := Writer(cfg)
	log.SetOutput(w)
	return func() {
		log.SetOutput(os.Stderr)
		if c, ok := w.(io.Closer); ok {
			c.Close()
		}
	}
}
