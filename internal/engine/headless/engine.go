// Package headless is a pure Go implementation of the engine surface. It has
// no renderer: documents are parsed for their title, scripts and background
// colour, scripts run on sobek, and paints are solid colour. It is used when
// the native library is not installed and by the tests.
package headless

import (
	"errors"
	"unsafe"

	"github.com/rs/zerolog"

	"github.com/bnema/berkelium-go/pkg/berkelium/marshal"
	"github.com/bnema/berkelium-go/pkg/berkelium/native"
)

const (
	defaultWidth  = 640
	defaultHeight = 480

	// maxTasksPerUpdate bounds one Update so a page that keeps scheduling
	// work cannot starve the host loop.
	maxTasksPerUpdate = 256
)

// ErrAlreadyInitialized is returned by a second Init.
var ErrAlreadyInitialized = errors.New("headless: already initialized")

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithSize sets the initial size of new windows.
func WithSize(width, height int) Option {
	return func(e *Engine) {
		if width > 0 && height > 0 {
			e.width, e.height = int32(width), int32(height)
		}
	}
}

// WithoutProtocols makes protocol registration report native.ErrNotImplemented.
func WithoutProtocols() Option {
	return func(e *Engine) { e.noProtocols = true }
}

// Engine implements native.Engine. It is not safe for concurrent use; drive
// it from one goroutine like the native engine.
type Engine struct {
	log         zerolog.Logger
	width       int32
	height      int32
	noProtocols bool

	initialized bool
	home        string
	errors      native.ErrorDelegate

	next      native.Handle
	contexts  map[native.Handle]*contextState
	windows   map[native.Handle]*window
	widgets   map[native.Handle]*widget
	allocs    map[unsafe.Pointer][]byte
	queue     []func()
	clipboard string
}

var _ native.Engine = (*Engine)(nil)

// New creates an uninitialized engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		log:    zerolog.Nop(),
		width:  defaultWidth,
		height: defaultHeight,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.reset()
	return e
}

func (e *Engine) reset() {
	e.contexts = make(map[native.Handle]*contextState)
	e.windows = make(map[native.Handle]*window)
	e.widgets = make(map[native.Handle]*widget)
	e.allocs = make(map[unsafe.Pointer][]byte)
	e.queue = nil
	e.clipboard = ""
}

func (e *Engine) Init(homeDir native.WideString) error {
	if e.initialized {
		return ErrAlreadyInitialized
	}
	e.home = marshal.WideToString(homeDir)
	e.initialized = true
	e.log.Debug().Str("home", e.home).Msg("headless engine initialized")
	return nil
}

func (e *Engine) Destroy() {
	if !e.initialized {
		return
	}
	e.initialized = false
	e.errors = nil
	e.reset()
	e.log.Debug().Msg("headless engine destroyed")
}

// Update runs queued work. Work queued while running also runs, up to
// maxTasksPerUpdate tasks.
func (e *Engine) Update() {
	for n := 0; n < maxTasksPerUpdate && len(e.queue) > 0; n++ {
		task := e.queue[0]
		e.queue[0] = nil
		e.queue = e.queue[1:]
		task()
	}
}

func (e *Engine) SetErrorHandler(d native.ErrorDelegate) {
	e.errors = d
}

func (e *Engine) Alloc(size uintptr) unsafe.Pointer {
	if size == 0 {
		size = 1
	}
	buf := make([]byte, size)
	p := unsafe.Pointer(&buf[0])
	e.allocs[p] = buf
	return p
}

func (e *Engine) Free(p unsafe.Pointer) {
	if p == nil {
		return
	}
	if _, ok := e.allocs[p]; !ok {
		e.log.Warn().Msg("free of unknown allocation")
		return
	}
	delete(e.allocs, p)
}

// HomeDir returns the directory passed to Init.
func (e *Engine) HomeDir() string {
	return e.home
}

// Initialized reports whether Init ran and Destroy has not.
func (e *Engine) Initialized() bool {
	return e.initialized
}

// LiveAllocations returns the number of Alloc results not yet freed.
func (e *Engine) LiveAllocations() int {
	return len(e.allocs)
}

// Pending reports whether Update has queued work.
func (e *Engine) Pending() bool {
	return len(e.queue) > 0
}

func (e *Engine) post(task func()) {
	e.queue = append(e.queue, task)
}

func (e *Engine) newHandle() native.Handle {
	e.next++
	return e.next
}

// contextState is shared between a context and its clones.
type contextState struct {
	shared *contextShared
}

type contextShared struct {
	protocols map[string]native.Protocol
}

func (e *Engine) CreateContext() native.Handle {
	if !e.initialized {
		return 0
	}
	h := e.newHandle()
	e.contexts[h] = &contextState{shared: &contextShared{protocols: make(map[string]native.Protocol)}}
	return h
}

func (e *Engine) CloneContext(ctx native.Handle) native.Handle {
	c, ok := e.contexts[ctx]
	if !ok {
		return 0
	}
	h := e.newHandle()
	e.contexts[h] = &contextState{shared: c.shared}
	return h
}

func (e *Engine) DestroyContext(ctx native.Handle) {
	delete(e.contexts, ctx)
}

func (e *Engine) RegisterProtocol(ctx native.Handle, scheme native.NarrowString, p native.Protocol) error {
	if e.noProtocols {
		return native.ErrNotImplemented
	}
	c, ok := e.contexts[ctx]
	if !ok {
		return errors.New("headless: unknown context")
	}
	c.shared.protocols[marshal.NarrowToString(scheme)] = p
	return nil
}

func (e *Engine) UnregisterProtocol(ctx native.Handle, scheme native.NarrowString) error {
	if e.noProtocols {
		return native.ErrNotImplemented
	}
	c, ok := e.contexts[ctx]
	if !ok {
		return errors.New("headless: unknown context")
	}
	delete(c.shared.protocols, marshal.NarrowToString(scheme))
	return nil
}

// ContextCount returns the number of live contexts.
func (e *Engine) ContextCount() int {
	return len(e.contexts)
}

// WindowCount returns the number of live windows.
func (e *Engine) WindowCount() int {
	return len(e.windows)
}
