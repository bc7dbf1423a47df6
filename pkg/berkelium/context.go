package berkelium

import (
	"fmt"

	"github.com/bnema/berkelium-go/pkg/berkelium/native"
)

// Context is a browsing context: the cookie, cache and protocol scope shared
// by the windows created from it.
type Context struct {
	lib       *Library
	engine    native.Engine
	handle    native.Handle
	protocols []*ProtocolHandler
}

// NewContext creates a browsing context.
func (l *Library) NewContext() (*Context, error) {
	engine, err := l.requireEngine()
	if err != nil {
		return nil, err
	}
	h := engine.CreateContext()
	if h.IsNull() {
		return nil, fmt.Errorf("%w: context", ErrCreateFailed)
	}
	return l.wrapContext(engine, h), nil
}

// wrapContext returns the Context recorded for h, creating it on first use.
// Contexts are only ever created by this package, so every wrapper owns its
// engine object.
func (l *Library) wrapContext(engine native.Engine, h native.Handle) *Context {
	c, _ := l.contexts.GetOrCreate(h, func() *Context {
		return &Context{lib: l, engine: engine, handle: h}
	})
	return c
}

// Clone creates a context sharing this context's state.
func (c *Context) Clone() (*Context, error) {
	if c.handle.IsNull() {
		return nil, ErrClosed
	}
	h := c.engine.CloneContext(c.handle)
	if h.IsNull() {
		return nil, fmt.Errorf("%w: cloned context", ErrCreateFailed)
	}
	return c.lib.wrapContext(c.engine, h), nil
}

// Handle returns the engine handle, or the null handle once closed.
func (c *Context) Handle() native.Handle {
	return c.handle
}

// Closed reports whether the context was closed.
func (c *Context) Closed() bool {
	return c.handle.IsNull()
}

// Close releases the protocol handlers registered on the context and the
// engine object.
func (c *Context) Close() error {
	if c.handle.IsNull() {
		return nil
	}
	for _, p := range c.protocols {
		_ = p.Close()
	}
	c.protocols = nil

	c.lib.contexts.NotifyDestroyed(c.handle)
	if c.lib.IsInitialized() {
		c.engine.DestroyContext(c.handle)
	}
	c.handle = 0
	return nil
}

// detach marks the context closed without calling the engine.
func (c *Context) detach() {
	for _, p := range c.protocols {
		p.detach()
	}
	c.protocols = nil
	c.handle = 0
}

func (c *Context) String() string {
	return fmt.Sprintf("Context(%#x)", uintptr(c.handle))
}
