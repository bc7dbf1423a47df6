// Package deploy places the bundled native engine files in a writable
// directory before the engine is loaded.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bnema/berkelium-go/internal/logging"
)

const (
	// LibraryDirName is the resource directory created under a home directory.
	LibraryDirName = "NativeLibraries"
	defaultDirName = "berkelium"

	dirPerm  = 0o755
	filePerm = 0o755
)

// ErrNotWritable reports a directory the process cannot write to.
var ErrNotWritable = errors.New("deploy: directory is not writable")

// Dirs holds the resolved engine directories. Home is empty when the
// per-user default location is used.
type Dirs struct {
	Home      string
	Resources string
}

// Resolve creates and checks the directories for home. An empty home
// selects the per-user cache location.
func Resolve(home string) (Dirs, error) {
	if home == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			return Dirs{}, fmt.Errorf("resolve user cache directory: %w", err)
		}
		resources := filepath.Join(cacheDir, defaultDirName)
		if err := ensureWritableDir(resources); err != nil {
			return Dirs{}, err
		}
		return Dirs{Resources: resources}, nil
	}

	abs, err := filepath.Abs(home)
	if err != nil {
		return Dirs{}, fmt.Errorf("resolve home directory %s: %w", home, err)
	}
	if err := ensureWritableDir(abs); err != nil {
		return Dirs{}, err
	}
	resources := filepath.Join(abs, LibraryDirName)
	if err := ensureWritableDir(resources); err != nil {
		return Dirs{}, err
	}
	return Dirs{Home: abs, Resources: resources}, nil
}

func ensureWritableDir(dir string) error {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	if err := checkWritable(dir); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNotWritable, dir, err)
	}
	return nil
}

// Action records what Deploy did with one resource.
type Action string

const (
	ActionExtracted Action = "extracted"
	ActionSkipped   Action = "skipped"
)

// Entry describes one deployed resource.
type Entry struct {
	Name   string
	Action Action
	Size   int64
}

// Report summarizes a deployment.
type Report struct {
	Dir       string
	BuildTime time.Time
	Entries   []Entry
}

// Extracted returns the number of resources written during the deployment.
func (r Report) Extracted() int {
	n := 0
	for _, e := range r.Entries {
		if e.Action == ActionExtracted {
			n++
		}
	}
	return n
}

// Options configures Deploy.
type Options struct {
	Source fs.FS
	Dir    string
	// BuildTime is the bundle timestamp. Zero selects DefaultBuildTime.
	BuildTime time.Time
	// Concurrency bounds parallel extraction. Zero selects GOMAXPROCS.
	Concurrency int
}

// DefaultBuildTime returns the modification time of the running executable.
func DefaultBuildTime() (time.Time, error) {
	exe, err := os.Executable()
	if err != nil {
		return time.Time{}, fmt.Errorf("locate executable: %w", err)
	}
	info, err := os.Stat(exe)
	if err != nil {
		return time.Time{}, fmt.Errorf("stat executable: %w", err)
	}
	return info.ModTime(), nil
}

// Deploy extracts every regular file of opts.Source into opts.Dir when the
// on-disk copy is missing or older than the build time. Extracted files get
// the build time as modification time so later runs skip them.
func Deploy(ctx context.Context, opts Options) (Report, error) {
	log := logging.FromContext(ctx)

	report := Report{Dir: opts.Dir}
	if opts.Source == nil {
		return report, nil
	}
	if opts.Dir == "" {
		return report, errors.New("deploy: destination directory is empty")
	}

	buildTime := opts.BuildTime
	if buildTime.IsZero() {
		var err error
		if buildTime, err = DefaultBuildTime(); err != nil {
			log.Warn().Err(err).Msg("falling back to current time as bundle build time")
			buildTime = time.Now()
		}
	}
	// Some filesystems keep whole seconds only.
	buildTime = buildTime.Truncate(time.Second)
	report.BuildTime = buildTime

	names, err := resourceNames(opts.Source)
	if err != nil {
		return report, err
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entry, err := deployOne(opts.Source, opts.Dir, name, buildTime)
			if err != nil {
				return err
			}
			mu.Lock()
			report.Entries = append(report.Entries, entry)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	sort.Slice(report.Entries, func(i, j int) bool {
		return report.Entries[i].Name < report.Entries[j].Name
	})

	log.Debug().
		Str("dir", opts.Dir).
		Int("resources", len(report.Entries)).
		Int("extracted", report.Extracted()).
		Msg("native resources deployed")
	return report, nil
}

func resourceNames(source fs.FS) ([]string, error) {
	var names []string
	err := fs.WalkDir(source, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			names = append(names, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list bundled resources: %w", err)
	}
	return names, nil
}

func deployOne(source fs.FS, dir, name string, buildTime time.Time) (Entry, error) {
	dest := filepath.Join(dir, filepath.FromSlash(name))

	info, err := os.Stat(dest)
	if err == nil && !info.ModTime().Before(buildTime) {
		return Entry{Name: name, Action: ActionSkipped, Size: info.Size()}, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Entry{}, fmt.Errorf("stat %s: %w", dest, err)
	}

	size, err := extract(source, name, dest)
	if err != nil {
		return Entry{}, err
	}
	if err := os.Chtimes(dest, buildTime, buildTime); err != nil {
		return Entry{}, fmt.Errorf("set modification time of %s: %w", dest, err)
	}
	return Entry{Name: name, Action: ActionExtracted, Size: size}, nil
}

func extract(source fs.FS, name, dest string) (int64, error) {
	src, err := source.Open(name)
	if err != nil {
		return 0, fmt.Errorf("open bundled %s: %w", name, err)
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(dest), dirPerm); err != nil {
		return 0, fmt.Errorf("create directory for %s: %w", dest, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+path.Base(name)+".*")
	if err != nil {
		return 0, fmt.Errorf("create temporary file for %s: %w", dest, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	size, err := io.Copy(tmp, src)
	if err != nil {
		_ = tmp.Close()
		return 0, fmt.Errorf("write %s: %w", dest, err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close()
		return 0, fmt.Errorf("chmod %s: %w", dest, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", dest, err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return 0, fmt.Errorf("replace %s: %w", dest, err)
	}
	return size, nil
}
