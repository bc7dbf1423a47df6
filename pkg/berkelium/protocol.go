package berkelium

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/berkelium-go/pkg/berkelium/marshal"
	"github.com/bnema/berkelium-go/pkg/berkelium/native"
)

// Response is the answer to a protocol request. A nil Body sends no body and
// nil Headers send no header block.
type Response struct {
	Body    []byte
	Headers []string
}

// RequestHandler serves requests for a custom URL scheme. It reports false
// when it does not handle url.
type RequestHandler interface {
	HandleRequest(url string) (Response, bool)
}

// RequestHandlerFunc adapts a function to RequestHandler.
type RequestHandlerFunc func(url string) (Response, bool)

// HandleRequest calls f.
func (f RequestHandlerFunc) HandleRequest(url string) (Response, bool) {
	return f(url)
}

// ProtocolHandler is a RequestHandler registered for a scheme on a Context.
type ProtocolHandler struct {
	context    *Context
	scheme     string
	adapter    *protocolAdapter
	registered bool
	closed     bool
}

// RegisterProtocol routes requests for scheme in this context to h. When
// the engine does not support custom protocols the returned handler is
// inert: Registered reports false and h is never called.
func (c *Context) RegisterProtocol(scheme string, h RequestHandler) (*ProtocolHandler, error) {
	if c.handle.IsNull() {
		return nil, ErrClosed
	}
	scheme = strings.TrimSuffix(strings.ToLower(scheme), ":")
	if scheme == "" {
		return nil, errors.New("berkelium: empty protocol scheme")
	}
	if h == nil {
		return nil, errors.New("berkelium: nil request handler")
	}

	p := &ProtocolHandler{
		context: c,
		scheme:  scheme,
		adapter: &protocolAdapter{handler: h, alloc: c.engine},
	}

	name := marshal.StringToNarrow(scheme)
	err := c.engine.RegisterProtocol(c.handle, marshal.NarrowOf(name), p.adapter)
	switch {
	case errors.Is(err, native.ErrNotImplemented):
		c.lib.logger().Warn().Str("scheme", scheme).Msg("engine does not support custom protocols, handler is inert")
	case err != nil:
		return nil, fmt.Errorf("register protocol %s: %w", scheme, err)
	default:
		p.registered = true
	}

	c.protocols = append(c.protocols, p)
	return p, nil
}

// Scheme returns the registered scheme without the trailing colon.
func (p *ProtocolHandler) Scheme() string {
	return p.scheme
}

// Context returns the context the handler belongs to.
func (p *ProtocolHandler) Context() *Context {
	return p.context
}

// Registered reports whether the engine routes requests to the handler.
func (p *ProtocolHandler) Registered() bool {
	return p.registered && !p.closed
}

// Close unregisters the handler.
func (p *ProtocolHandler) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	c := p.context
	for i, other := range c.protocols {
		if other == p {
			c.protocols = append(c.protocols[:i], c.protocols[i+1:]...)
			break
		}
	}
	if !p.registered || c.handle.IsNull() || !c.lib.IsInitialized() {
		return nil
	}
	name := marshal.StringToNarrow(p.scheme)
	if err := c.engine.UnregisterProtocol(c.handle, marshal.NarrowOf(name)); err != nil && !errors.Is(err, native.ErrNotImplemented) {
		return fmt.Errorf("unregister protocol %s: %w", p.scheme, err)
	}
	return nil
}

func (p *ProtocolHandler) detach() {
	p.closed = true
}

func (p *ProtocolHandler) String() string {
	return fmt.Sprintf("ProtocolHandler(%s)", p.scheme)
}

// protocolAdapter answers engine protocol requests with a RequestHandler.
type protocolAdapter struct {
	handler RequestHandler
	alloc   marshal.Allocator
}

var _ native.Protocol = (*protocolAdapter)(nil)

func (a *protocolAdapter) HandleRequest(url native.WideString, body, headers *native.Buffer) bool {
	resp, ok := a.handler.HandleRequest(marshal.WideToString(url))
	if body != nil {
		*body = marshal.CopyToNative(a.alloc, resp.Body)
	}
	if headers != nil {
		*headers = marshal.HeaderBlock(a.alloc, resp.Headers)
	}
	return ok
}
