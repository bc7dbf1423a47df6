package logging

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const logFileName = "berkelium.log"

// FileConfig controls the optional rotating log file.
type FileConfig struct {
	Enabled       bool
	Dir           string
	MaxSizeMB     int
	MaxBackups    int
	MaxAgeDays    int
	Compress      bool
	WriteToStderr bool
}

// NewWithFile creates a logger that also writes to a rotating file when
// fc.Enabled is set. The returned cleanup closes the file.
func NewWithFile(cfg Config, fc FileConfig) (zerolog.Logger, func(), error) {
	if !fc.Enabled {
		return New(cfg), func() {}, nil
	}

	rotator, err := newRotator(fc)
	if err != nil {
		return New(cfg), func() {}, err
	}

	fileCfg := cfg
	fileCfg.Format = "json"
	writers := []io.Writer{rotator}
	var out io.Writer = rotator
	if fc.WriteToStderr {
		console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: cfg.TimeFormat}
		writers = append(writers, console)
		out = zerolog.MultiLevelWriter(writers...)
	}

	logger := zerolog.New(out).Level(cfg.Level).With().Timestamp().Logger()
	return logger, func() { _ = rotator.Close() }, nil
}

// rotator is an io.Writer that rolls the log file over once it grows past
// maxSize, keeping at most maxBackups old files younger than maxAge.
type rotator struct {
	mu         sync.Mutex
	dir        string
	maxSize    int64
	maxAge     time.Duration
	maxBackups int
	compress   bool
	file       *os.File
	size       int64
}

func newRotator(fc FileConfig) (*rotator, error) {
	const dirPerm = 0o750
	if fc.Dir == "" {
		return nil, fmt.Errorf("log directory is empty")
	}
	if err := os.MkdirAll(fc.Dir, dirPerm); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	maxSize := fc.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	r := &rotator{
		dir:        fc.Dir,
		maxSize:    int64(maxSize) * 1024 * 1024,
		maxAge:     time.Duration(fc.MaxAgeDays) * 24 * time.Hour,
		maxBackups: fc.MaxBackups,
		compress:   fc.Compress,
	}
	if err := r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *rotator) path() string {
	return filepath.Join(r.dir, logFileName)
}

func (r *rotator) open() error {
	if info, err := os.Stat(r.path()); err == nil {
		r.size = info.Size()
	}
	file, err := os.OpenFile(r.path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	r.file = file
	return nil
}

func (r *rotator) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		if err := r.open(); err != nil {
			return 0, err
		}
	}
	if r.size+int64(len(p)) > r.maxSize {
		if err := r.rotate(); err != nil {
			return 0, err
		}
	}
	n, err := r.file.Write(p)
	r.size += int64(n)
	return n, err
}

func (r *rotator) rotate() error {
	if err := r.file.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to close log file: %v\n", err)
	}
	backup := fmt.Sprintf("%s.%s", r.path(), time.Now().Format("2006-01-02-15-04-05.000"))
	if err := os.Rename(r.path(), backup); err != nil {
		return fmt.Errorf("rotate log file: %w", err)
	}
	if r.compress {
		if err := gzipFile(backup); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to compress %s: %v\n", backup, err)
		} else {
			_ = os.Remove(backup)
		}
	}
	r.prune()
	r.size = 0
	return r.open()
}

func gzipFile(name string) error {
	in, err := os.Open(name)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(name + ".gz")
	if err != nil {
		return err
	}
	defer out.Close()

	zw := gzip.NewWriter(out)
	if _, err := io.Copy(zw, in); err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}

func (r *rotator) prune() {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return
	}

	now := time.Now()
	var backups []os.FileInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), logFileName+".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if r.maxAge > 0 && now.Sub(info.ModTime()) > r.maxAge {
			_ = os.Remove(filepath.Join(r.dir, e.Name()))
			continue
		}
		backups = append(backups, info)
	}

	if r.maxBackups <= 0 || len(backups) <= r.maxBackups {
		return
	}
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].ModTime().Before(backups[j].ModTime())
	})
	for _, info := range backups[:len(backups)-r.maxBackups] {
		_ = os.Remove(filepath.Join(r.dir, info.Name()))
	}
}

func (r *rotator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}
