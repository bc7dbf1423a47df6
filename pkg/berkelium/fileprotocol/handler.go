// Package fileprotocol serves a file system under a custom URL scheme.
package fileprotocol

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bnema/berkelium-go/internal/logging"
	"github.com/bnema/berkelium-go/pkg/berkelium"
)

const (
	statusOK       = "HTTP/1.1 200 OK"
	statusNotFound = "HTTP/1.1 404 Not Found"
)

// Handler answers scheme://path requests with files from an fs.FS. The
// path after the scheme, including the host part, names the file.
type Handler struct {
	fsys   fs.FS
	scheme string
	logger zerolog.Logger

	// MimeType picks the content type for a file name. Defaults to
	// MimeTypeOf.
	MimeType func(name string) string
}

var _ berkelium.RequestHandler = (*Handler)(nil)

// New creates a handler for scheme backed by fsys.
func New(ctx context.Context, scheme string, fsys fs.FS) *Handler {
	return &Handler{
		fsys:     fsys,
		scheme:   strings.TrimSuffix(strings.ToLower(scheme), ":"),
		logger:   logging.FromContext(ctx).With().Str("component", "file-protocol").Str("scheme", scheme).Logger(),
		MimeType: MimeTypeOf,
	}
}

// Register creates a handler and registers it on c.
func Register(ctx context.Context, c *berkelium.Context, scheme string, fsys fs.FS) (*berkelium.ProtocolHandler, error) {
	h := New(ctx, scheme, fsys)
	p, err := c.RegisterProtocol(h.scheme, h)
	if err != nil {
		return nil, fmt.Errorf("register %s protocol: %w", h.scheme, err)
	}
	return p, nil
}

// Scheme returns the normalized scheme.
func (h *Handler) Scheme() string {
	return h.scheme
}

// HandleRequest reads the file url names.
func (h *Handler) HandleRequest(url string) (berkelium.Response, bool) {
	name, ok := h.fileName(url)
	if !ok {
		h.logger.Debug().Str("url", url).Msg("request outside the scheme")
		return notFound(), false
	}
	data, err := fs.ReadFile(h.fsys, name)
	if err != nil {
		h.logger.Debug().Err(err).Str("file", name).Msg("file not served")
		return notFound(), false
	}
	return berkelium.Response{
		Body: data,
		Headers: []string{
			statusOK,
			fmt.Sprintf("Content-type: %s; charset=utf-8", h.MimeType(name)),
		},
	}, true
}

func (h *Handler) fileName(url string) (string, bool) {
	rest, ok := cutPrefixFold(url, h.scheme+"://")
	if !ok {
		return "", false
	}
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return "", false
	}
	name := path.Clean(rest)
	if !fs.ValidPath(name) {
		return "", false
	}
	return name, true
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}

func notFound() berkelium.Response {
	return berkelium.Response{Headers: []string{statusNotFound}}
}

// MimeTypeOf maps the common web extensions; everything else is text/plain.
func MimeTypeOf(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".htm", ".html":
		return "text/html"
	case ".js":
		return "text/javascript"
	case ".css":
		return "text/css"
	case ".gif":
		return "image/gif"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".svg":
		return "image/svg+xml"
	case ".json":
		return "application/json"
	default:
		return "text/plain"
	}
}
