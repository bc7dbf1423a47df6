// Package chromesend routes chrome.send messages of a window to handlers
// registered by message name.
package chromesend

import (
	"sync"

	"github.com/bnema/berkelium-go/pkg/berkelium"
)

// HandlerFunc handles one chrome.send message.
type HandlerFunc func(args []string)

// Listener dispatches a window's chrome.send messages by name. It installs
// itself as the window's OnChromeSend and restores the previous callback on
// Close.
type Listener struct {
	mu       sync.RWMutex
	window   *berkelium.Window
	previous func(message string, args []string)
	handlers map[string]HandlerFunc
	closed   bool

	// OnUnhandled receives messages no handler is registered for. When nil
	// they go to the callback that was installed before the listener.
	OnUnhandled func(message string, args []string)
}

// Attach installs a Listener on w.
func Attach(w *berkelium.Window) *Listener {
	l := &Listener{
		window:   w,
		previous: w.OnChromeSend,
		handlers: make(map[string]HandlerFunc),
	}
	w.OnChromeSend = l.dispatch
	return l
}

// Register sets the handler for message, replacing any earlier one.
func (l *Listener) Register(message string, fn HandlerFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers[message] = fn
}

// Unregister removes the handler for message.
func (l *Listener) Unregister(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.handlers, message)
}

// Messages returns the number of registered handlers.
func (l *Listener) Messages() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.handlers)
}

// Close detaches the listener and reinstalls the window's previous callback.
func (l *Listener) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	l.window.OnChromeSend = l.previous
}

func (l *Listener) dispatch(message string, args []string) {
	l.mu.RLock()
	fn, ok := l.handlers[message]
	unhandled := l.OnUnhandled
	l.mu.RUnlock()

	switch {
	case ok:
		fn(args)
	case unhandled != nil:
		unhandled(message, args)
	case l.previous != nil:
		l.previous(message, args)
	}
}
