// Package host drives one engine window for the command line tools: it
// initializes the library from configuration, serves configured directories
// as protocols, composes paints into a surface and records visited pages.
package host

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/berkelium-go/internal/config"
	"github.com/bnema/berkelium-go/internal/domain/entity"
	"github.com/bnema/berkelium-go/internal/domain/repository"
	"github.com/bnema/berkelium-go/internal/logging"
	"github.com/bnema/berkelium-go/pkg/berkelium"
	"github.com/bnema/berkelium-go/pkg/berkelium/chromesend"
	"github.com/bnema/berkelium-go/pkg/berkelium/fileprotocol"
	"github.com/bnema/berkelium-go/pkg/berkelium/surface"
)

const (
	defaultUpdateInterval = 10 * time.Millisecond
	logURLMaxLen          = 80
)

// ErrLoadFailed is returned by Load when the main frame failed to load.
var ErrLoadFailed = errors.New("page failed to load")

// Options configures Open.
type Options struct {
	Config *config.Config
	// History records finished loads. Nil disables recording.
	History repository.HistoryRepository
	// Resources are the bundled engine files handed to Library.Init.
	Resources fs.FS
	// Loader overrides the loader selected by Config.Engine.Backend.
	Loader berkelium.EngineLoader
	// OnEvent receives session events on the pump goroutine.
	OnEvent func(Event)
}

// Session owns a library, one context and one window. Open, Pump and every
// Session method except Post must run on the same goroutine.
type Session struct {
	ctx       context.Context
	log       *zerolog.Logger
	lib       *berkelium.Library
	context   *berkelium.Context
	window    *berkelium.Window
	surface   *surface.Surface
	listener  *chromesend.Listener
	protocols []*berkelium.ProtocolHandler
	history   repository.HistoryRepository
	interval  time.Duration
	onEvent   func(Event)

	url       string
	title     string
	loading   bool
	loads     int
	loadErr   error
	lastEvent Event

	postMu sync.Mutex
	posted []func(*Session)
}

// Open locks the calling goroutine to its OS thread, initializes a library
// and opens a window sized from the configuration. Close releases the
// thread again.
func Open(ctx context.Context, opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	var err error
	loader := opts.Loader
	if loader == nil {
		if loader, err = NewLoader(cfg.Engine, cfg.Window); err != nil {
			return nil, err
		}
	}

	runtime.LockOSThread()
	ctx = logging.WithComponent(ctx, "host")
	s := &Session{
		ctx:      ctx,
		log:      logging.FromContext(ctx),
		lib:      berkelium.NewLibrary(),
		history:  opts.History,
		interval: cfg.Engine.UpdateInterval,
		onEvent:  opts.OnEvent,
	}
	if s.interval <= 0 {
		s.interval = defaultUpdateInterval
	}
	opened := false
	defer func() {
		if !opened {
			s.Close()
		}
	}()

	s.lib.OnPureCall = func() { s.emit(EventFatal, "pure virtual call") }
	s.lib.OnOutOfMemory = func() { s.emit(EventFatal, "out of memory") }
	s.lib.OnAssertion = func(message string) { s.emit(EventFatal, "assertion: "+message) }
	s.lib.OnInvalidParameter = func(p berkelium.InvalidParameter) {
		s.emit(EventFatal, fmt.Sprintf("invalid parameter %s in %s (%s:%d)", p.Expression, p.Function, p.File, p.Line))
	}

	if err = s.lib.Init(ctx, berkelium.Options{
		HomeDir:   cfg.Engine.HomeDir,
		Resources: opts.Resources,
		Loader:    loader,
	}); err != nil {
		return nil, err
	}

	if s.context, err = s.lib.NewContext(); err != nil {
		return nil, fmt.Errorf("create context: %w", err)
	}
	if err = s.registerProtocols(cfg.Protocols); err != nil {
		return nil, err
	}
	if s.window, err = s.context.NewWindow(); err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	s.window.SetTransparent(cfg.Window.Transparent)
	if err = s.window.Resize(cfg.Window.Width, cfg.Window.Height); err != nil {
		return nil, fmt.Errorf("resize window: %w", err)
	}
	s.wire()
	s.surface = surface.Attach(s.window)
	s.listener = chromesend.Attach(s.window)
	s.listener.OnUnhandled = func(message string, args []string) {
		s.emit(EventChromeSend, fmt.Sprintf("%s %q", message, args))
	}

	s.log.Debug().
		Int("window_id", s.window.ID()).
		Int("width", cfg.Window.Width).
		Int("height", cfg.Window.Height).
		Msg("session opened")
	opened = true
	return s, nil
}

// registerProtocols serves every configured directory under its scheme.
// Schemes are registered in sorted order so logs are stable.
func (s *Session) registerProtocols(protocols map[string]string) error {
	schemes := make([]string, 0, len(protocols))
	for scheme := range protocols {
		schemes = append(schemes, scheme)
	}
	sort.Strings(schemes)

	for _, scheme := range schemes {
		dir := protocols[scheme]
		if _, err := os.Stat(dir); err != nil {
			return fmt.Errorf("protocol %s: %w", scheme, err)
		}
		p, err := fileprotocol.Register(s.ctx, s.context, scheme, os.DirFS(dir))
		if err != nil {
			return fmt.Errorf("register protocol %s: %w", scheme, err)
		}
		s.protocols = append(s.protocols, p)
		s.log.Debug().Str("scheme", scheme).Str("dir", dir).Bool("registered", p.Registered()).Msg("protocol registered")
	}
	return nil
}

func (s *Session) wire() {
	w := s.window
	w.OnAddressBarChanged = func(url string) {
		s.url = url
		s.emit(EventAddress, url)
	}
	w.OnTitleChanged = func(title string) {
		s.title = title
		s.emit(EventTitle, title)
	}
	w.OnStartLoading = func(url string) {
		s.loadErr = nil
		s.emit(EventLoading, url)
	}
	w.OnLoadingStateChanged = func(loading bool) {
		s.loading = loading
	}
	w.OnLoad = func() {
		s.loads++
		s.emit(EventLoaded, s.url)
		s.record()
	}
	w.OnProvisionalLoadError = func(url string, code int, isMainFrame bool) {
		if isMainFrame {
			s.loads++
			s.loadErr = fmt.Errorf("%w: %s (error %d)", ErrLoadFailed, url, code)
		}
		s.emit(EventLoadError, fmt.Sprintf("%s (error %d)", url, code))
	}
	w.OnConsoleMessage = func(m berkelium.ConsoleMessage) {
		s.emit(EventConsole, fmt.Sprintf("%s:%d %s", m.SourceID, m.Line, m.Message))
	}
	w.OnScriptAlert = func(a berkelium.ScriptAlert) berkelium.ScriptAlertResult {
		s.emit(EventDialog, fmt.Sprintf("%s %q accepted", a.Flags.Kind(), a.Message))
		return answerDialog(a)
	}
	w.OnCreatedWindow = func(popup *berkelium.Window, _ berkelium.Rect, url string) {
		s.emit(EventPopup, url+" (closed)")
		_ = popup.Close()
	}
	w.OnCrashed = func() { s.emit(EventCrash, "renderer crashed") }
	w.OnCrashedPlugin = func(name string) { s.emit(EventCrash, "plugin crashed: "+name) }
	w.OnCrashedWorker = func() { s.emit(EventCrash, "worker crashed") }
	w.OnUnresponsive = func() { s.emit(EventCrash, "renderer unresponsive") }
}

// record saves the current page in the history repository.
func (s *Session) record() {
	if s.history == nil || s.url == "" {
		return
	}
	if err := s.history.Save(s.ctx, entity.NewHistoryEntry(s.url, s.title)); err != nil {
		s.log.Warn().Err(err).Str("url", logging.TruncateURL(s.url, logURLMaxLen)).Msg("failed to record history")
	}
}

func (s *Session) emit(kind EventKind, text string) {
	e := Event{Kind: kind, Text: text, Time: time.Now()}
	s.lastEvent = e
	if kind == EventFatal || kind == EventCrash {
		s.log.Warn().Str("event", string(kind)).Msg(text)
	} else {
		s.log.Trace().Str("event", string(kind)).Msg(text)
	}
	if s.onEvent != nil {
		s.onEvent(e)
	}
}

// Library returns the session library.
func (s *Session) Library() *berkelium.Library { return s.lib }

// Window returns the session window.
func (s *Session) Window() *berkelium.Window { return s.window }

// Surface returns the surface the window paints into.
func (s *Session) Surface() *surface.Surface { return s.surface }

// Listener returns the chrome.send listener of the window.
func (s *Session) Listener() *chromesend.Listener { return s.listener }

// URL returns the address of the last page shown.
func (s *Session) URL() string { return s.url }

// Title returns the title of the current page.
func (s *Session) Title() string { return s.title }

// Loading reports whether the window is loading.
func (s *Session) Loading() bool { return s.loading }

// Post queues fn to run on the pump goroutine. It is safe to call from any
// goroutine.
func (s *Session) Post(fn func(*Session)) {
	s.postMu.Lock()
	s.posted = append(s.posted, fn)
	s.postMu.Unlock()
}

func (s *Session) runPosted() {
	s.postMu.Lock()
	posted := s.posted
	s.posted = nil
	s.postMu.Unlock()
	for _, fn := range posted {
		fn(s)
	}
}

// Pump runs posted functions and library updates every update interval
// until done reports true or ctx ends. A nil done pumps until ctx ends.
func (s *Session) Pump(ctx context.Context, done func() bool) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		s.runPosted()
		s.lib.Update()
		if done != nil && done() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Load navigates to url and pumps until the main frame finished loading or
// failed.
func (s *Session) Load(ctx context.Context, url string) error {
	start := s.loads
	if err := s.window.NavigateTo(url); err != nil {
		return err
	}
	if err := s.Pump(ctx, func() bool { return s.loads > start }); err != nil {
		return fmt.Errorf("load %s: %w", logging.TruncateURL(url, logURLMaxLen), err)
	}
	return s.loadErr
}

// Settle pumps until the engine stays idle for one update interval after
// the last event, or ctx ends.
func (s *Session) Settle(ctx context.Context) error {
	last := s.lastEvent
	idle := 0
	return s.Pump(ctx, func() bool {
		if s.lastEvent != last || s.loading {
			last = s.lastEvent
			idle = 0
			return false
		}
		idle++
		return idle > 1
	})
}

// Close releases protocols, the window, the context and the library. It is
// safe to call more than once.
func (s *Session) Close() {
	if s.lib == nil {
		return
	}
	if s.listener != nil {
		s.listener.Close()
	}
	for _, p := range s.protocols {
		if err := p.Close(); err != nil {
			s.log.Debug().Err(err).Str("scheme", p.Scheme()).Msg("failed to unregister protocol")
		}
	}
	if s.window != nil {
		_ = s.window.Close()
	}
	if s.context != nil {
		_ = s.context.Close()
	}
	s.lib.Destroy()
	s.lib = nil
	runtime.UnlockOSThread()
	s.log.Debug().Int("loads", s.loads).Msg("session closed")
}

// Remote posts window actions to a session from other goroutines.
type Remote struct {
	s *Session
}

// Remote returns a handle that drives the window through Post.
func (s *Session) Remote() Remote { return Remote{s: s} }

func (r Remote) do(fn func(w *berkelium.Window)) {
	r.s.Post(func(s *Session) {
		if s.window != nil {
			fn(s.window)
		}
	})
}

// Navigate loads url in the window.
func (r Remote) Navigate(url string) {
	r.s.Post(func(s *Session) {
		if s.window == nil {
			return
		}
		if err := s.window.NavigateTo(url); err != nil {
			s.emit(EventLoadError, fmt.Sprintf("%s (%v)", url, err))
		}
	})
}

func (r Remote) Back()    { r.do((*berkelium.Window).GoBack) }
func (r Remote) Forward() { r.do((*berkelium.Window).GoForward) }
func (r Remote) Reload()  { r.do((*berkelium.Window).Refresh) }
func (r Remote) Stop()    { r.do((*berkelium.Window).Stop) }

// Zoom zooms in, or out when in is false.
func (r Remote) Zoom(in bool) {
	mode := berkelium.ZoomOut
	if in {
		mode = berkelium.ZoomIn
	}
	r.do(func(w *berkelium.Window) { w.AdjustZoom(mode) })
}

// ApplyWindow resizes the window and surface to win and updates transparency.
func (r Remote) ApplyWindow(win config.WindowConfig) {
	r.s.Post(func(s *Session) {
		if s.window == nil {
			return
		}
		s.window.SetTransparent(win.Transparent)
		if err := s.window.Resize(win.Width, win.Height); err != nil {
			s.log.Warn().Err(err).Msg("resize failed")
			return
		}
		s.surface.Resize(win.Width, win.Height)
		s.emit(EventConfig, fmt.Sprintf("window %dx%d", win.Width, win.Height))
	})
}
