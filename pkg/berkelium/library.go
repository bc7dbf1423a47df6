// Package berkelium binds an embedded browser engine to Go. Engine objects
// are exposed as Context, Window and Widget values; engine notifications
// arrive through callback fields on those values.
//
// The engine is single threaded. Every call into a Library, Context, Window
// or Widget, and every callback, happens on the goroutine that drives
// Library.Update.
package berkelium

import (
	"context"
	"fmt"
	"io/fs"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/berkelium-go/internal/logging"
	"github.com/bnema/berkelium-go/pkg/berkelium/deploy"
	"github.com/bnema/berkelium-go/pkg/berkelium/internal/registry"
	"github.com/bnema/berkelium-go/pkg/berkelium/libpath"
	"github.com/bnema/berkelium-go/pkg/berkelium/marshal"
	"github.com/bnema/berkelium-go/pkg/berkelium/native"
)

// EngineLoader opens the engine once its files are deployed in resourceDir.
type EngineLoader func(ctx context.Context, resourceDir string) (native.Engine, error)

// StaticEngine returns a loader for an engine that needs no files.
func StaticEngine(e native.Engine) EngineLoader {
	return func(context.Context, string) (native.Engine, error) {
		return e, nil
	}
}

// Options configures Library.Init.
type Options struct {
	// HomeDir holds engine profile data. Empty selects the per-user cache
	// location and an engine-chosen profile directory.
	HomeDir string
	// Resources are the bundled engine files. Nil skips deployment.
	Resources fs.FS
	// BuildTime stamps the bundled files. Zero uses the executable's
	// modification time.
	BuildTime time.Time
	Loader    EngineLoader
}

// Library owns the process-wide engine state.
type Library struct {
	mu          sync.Mutex
	engine      native.Engine
	initialized bool
	dirs        deploy.Dirs
	report      deploy.Report
	errors      *errorDelegate
	log         zerolog.Logger

	contexts *registry.Registry[native.Handle, *Context]
	windows  *registry.Registry[native.Handle, *Window]

	OnPureCall         func()
	OnInvalidParameter func(p InvalidParameter)
	OnOutOfMemory      func()
	OnAssertion        func(message string)
}

// NewLibrary creates an uninitialized library.
func NewLibrary() *Library {
	return &Library{
		log:      zerolog.Nop(),
		contexts: registry.New[native.Handle, *Context](),
		windows:  registry.New[native.Handle, *Window](),
	}
}

var defaultLibrary = NewLibrary()

// Default returns the process-wide library used by Init, Destroy and Update.
func Default() *Library {
	return defaultLibrary
}

// Init initializes the process-wide library.
func Init(ctx context.Context, opts Options) error {
	return defaultLibrary.Init(ctx, opts)
}

// Destroy shuts the process-wide library down.
func Destroy() {
	defaultLibrary.Destroy()
}

// Update pumps the process-wide library once.
func Update() {
	defaultLibrary.Update()
}

// Init deploys the engine files, makes them visible to the loader, loads the
// engine and initializes it. Calling Init on an initialized library does
// nothing.
func (l *Library) Init(ctx context.Context, opts Options) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.initialized {
		return nil
	}
	if opts.Loader == nil {
		return fmt.Errorf("%w: no engine loader configured", ErrNativeUnavailable)
	}

	ctx = logging.WithComponent(ctx, "berkelium")
	log := logging.FromContext(ctx)

	dirs, err := deploy.Resolve(opts.HomeDir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidHomeDirectory, err)
	}

	report, err := deploy.Deploy(ctx, deploy.Options{
		Source:    opts.Resources,
		Dir:       dirs.Resources,
		BuildTime: opts.BuildTime,
	})
	if err != nil {
		return fmt.Errorf("deploy engine files: %w", err)
	}

	if err := libpath.Configure(dirs.Resources); err != nil {
		return fmt.Errorf("configure library search path: %w", err)
	}

	engine, err := opts.Loader(ctx, dirs.Resources)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNativeUnavailable, err)
	}

	home := marshal.StringToWide(dirs.Home)
	if err := engine.Init(marshal.WideOf(home)); err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}
	runtime.KeepAlive(home)

	l.errors = &errorDelegate{lib: l}
	engine.SetErrorHandler(l.errors)

	l.engine = engine
	l.dirs = dirs
	l.report = report
	l.log = *log
	l.initialized = true

	log.Info().
		Str("home", dirs.Home).
		Str("resources", dirs.Resources).
		Int("extracted", report.Extracted()).
		Msg("engine initialized")
	return nil
}

// Destroy shuts the engine down. Live contexts and windows become closed
// without further engine calls. Calling Destroy on an uninitialized library
// does nothing.
func (l *Library) Destroy() {
	l.mu.Lock()
	if !l.initialized {
		l.mu.Unlock()
		return
	}
	engine := l.engine
	l.engine = nil
	l.initialized = false
	l.errors = nil
	l.mu.Unlock()

	l.windows.Range(func(_ native.Handle, w *Window) bool {
		w.detach()
		return true
	})
	l.windows.Clear()
	l.contexts.Range(func(_ native.Handle, c *Context) bool {
		c.detach()
		return true
	})
	l.contexts.Clear()

	engine.SetErrorHandler(nil)
	engine.Destroy()
	l.log.Info().Msg("engine destroyed")
}

// Update runs one iteration of the engine message loop. Callbacks fire from
// inside Update.
func (l *Library) Update() {
	if engine := l.activeEngine(); engine != nil {
		engine.Update()
	}
}

// IsInitialized reports whether Init succeeded and Destroy has not run.
func (l *Library) IsInitialized() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.initialized
}

// HomeDir returns the resolved home directory, empty for the default location.
func (l *Library) HomeDir() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dirs.Home
}

// ResourceDir returns the directory holding the deployed engine files.
func (l *Library) ResourceDir() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dirs.Resources
}

// Deployment returns the report of the last deployment.
func (l *Library) Deployment() deploy.Report {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.report
}

// Contexts returns the live contexts in no particular order.
func (l *Library) Contexts() []*Context {
	var out []*Context
	l.contexts.Range(func(_ native.Handle, c *Context) bool {
		out = append(out, c)
		return true
	})
	return out
}

// Windows returns the live windows in no particular order.
func (l *Library) Windows() []*Window {
	var out []*Window
	l.windows.Range(func(_ native.Handle, w *Window) bool {
		out = append(out, w)
		return true
	})
	return out
}

func (l *Library) activeEngine() native.Engine {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine
}

func (l *Library) requireEngine() (native.Engine, error) {
	engine := l.activeEngine()
	if engine == nil {
		return nil, ErrNotInitialized
	}
	return engine, nil
}

func (l *Library) logger() *zerolog.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	log := l.log
	return &log
}
