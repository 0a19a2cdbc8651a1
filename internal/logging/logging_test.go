package logging

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

func TestWriterDefaultsToStderr(t *testing.T) {
	if w := Writer(Config{}); w != os.Stderr {
		t.Errorf("writer: got %T, want os.Stderr", w)
	}
}

func TestWriterAppliesRotationDefaults(t *testing.T) {
	w := Writer(Config{File: filepath.Join(t.TempDir(), "rep.log")})
	l, ok := w.(*lj.Logger)
	if !ok {
		t.Fatalf("writer: got %T, want *lumberjack.Logger", w)
	}
	defer l.Close()
	if l.MaxSize != DefaultMaxSizeMB || l.MaxBackups != DefaultMaxBackups || l.MaxAge != DefaultMaxAgeDays {
		t.Errorf("rotation: got size=%d backups=%d age=%d", l.MaxSize, l.MaxBackups, l.MaxAge)
	}
}

func TestWriterKeepsExplicitRotation(t *testing.T) {
	w := Writer(Config{File: filepath.Join(t.TempDir(), "rep.log"), MaxSizeMB: 1, MaxBackups: 9, MaxAgeDays: 30, Compress: true})
	l := w.(*lj.Logger)
	defer l.Close()
	if l.MaxSize != 1 || l.MaxBackups != 9 || l.MaxAge != 30 || !l.Compress {
		t.Errorf("rotation: got %+v", l)
	}
}

func TestSetupWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rep.log")
	restore := Setup(Config{File: path})
	log.Printf("engine: session started")
	restore()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "engine: session started") {
		t.Errorf("log file: got %q", data)
	}
}
