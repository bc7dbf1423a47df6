package headless

import (
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/bnema/berkelium-go/pkg/berkelium/marshal"
	"github.com/bnema/berkelium-go/pkg/berkelium/native"
)

// Load error codes, matching the network error numbers the native engine
// reports.
const (
	ErrCodeAborted       = -3
	ErrCodeFileNotFound  = -6
	ErrCodeInvalidURL    = -300
	ErrCodeUnknownScheme = -302
)

var (
	titlePattern  = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	scriptPattern = regexp.MustCompile(`(?is)<script[^>]*>(.*?)</script>`)
	bodyBgPattern = regexp.MustCompile(`(?is)<body[^>]*\bbgcolor\s*=\s*["']?([#\w]+)`)
	tagPattern    = regexp.MustCompile(`(?s)<[^>]*>`)
	spacePattern  = regexp.MustCompile(`\s+`)
	schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*$`)
)

// loadError is a failed fetch.
type loadError struct {
	code int32
	msg  string
}

func (e *loadError) Error() string {
	return fmt.Sprintf("load failed (%d): %s", e.code, e.msg)
}

// document is a fetched page.
type document struct {
	mimeType string
	body     []byte
}

func (e *Engine) alive(w *window) bool {
	return e.windows[w.handle] == w
}

// queueLoad schedules a load of target. push records it as a new history
// entry, dropping any forward entries.
func (e *Engine) queueLoad(w *window, target string, push bool) {
	if push {
		if len(w.history) > 0 {
			w.history = w.history[:w.pos+1]
		}
		w.history = append(w.history, target)
		w.pos = len(w.history) - 1
	}
	gen := w.gen
	e.post(func() {
		if !e.alive(w) || w.gen != gen {
			return
		}
		e.load(w, target)
	})
}

func (e *Engine) load(w *window, target string) {
	d := func() native.WindowDelegate { return w.delegate }
	narrow := func(s string) native.NarrowString {
		return marshal.NarrowOf(marshal.Latin1(s))
	}

	if dl := d(); dl != nil {
		dl.OnLoadingStateChanged(w.handle, true)
		dl.OnStartLoading(w.handle, narrow(target))
	}

	doc, err := e.fetch(w, target)
	if err != nil {
		code := int32(ErrCodeInvalidURL)
		var le *loadError
		if errors.As(err, &le) {
			code = le.code
		}
		e.log.Debug().Err(err).Str("url", target).Msg("load failed")
		if dl := d(); dl != nil {
			dl.OnLoadError(w.handle, narrow(target), code, true)
			dl.OnLoadingStateChanged(w.handle, false)
		}
		return
	}
	if !e.alive(w) {
		return
	}

	source := string(doc.body)
	w.url = target
	w.loaded = true
	w.selection = ""
	w.typed = nil
	w.undo, w.redo = nil, nil
	w.pageBg = nil
	if m := bodyBgPattern.FindStringSubmatch(source); m != nil {
		if c, ok := parseColor(m[1]); ok {
			w.pageBg = &c
		}
	}
	w.text = documentText(source, doc.mimeType)

	if dl := d(); dl != nil {
		dl.OnAddressBarChanged(w.handle, narrow(target))
	}

	title := target
	if m := titlePattern.FindStringSubmatch(source); m != nil {
		title = strings.TrimSpace(html.UnescapeString(m[1]))
	}
	e.setTitle(w, title)

	w.vm = nil
	if isHTML(doc.mimeType) {
		for _, m := range scriptPattern.FindAllStringSubmatch(source, -1) {
			if !e.alive(w) {
				return
			}
			e.runScript(w, target, m[1])
		}
	}
	if !e.alive(w) {
		return
	}

	e.paint(w)
	if dl := d(); dl != nil {
		dl.OnLoad(w.handle)
		dl.OnLoadingStateChanged(w.handle, false)
	}
}

func (e *Engine) setTitle(w *window, title string) {
	if title == w.title {
		return
	}
	w.title = title
	if d := w.delegate; d != nil {
		units := marshal.StringToWide(title)
		d.OnTitleChanged(w.handle, marshal.WideOf(units))
	}
}

func (e *Engine) fetch(w *window, target string) (document, error) {
	if target == "about:blank" {
		return document{mimeType: "text/html"}, nil
	}
	scheme, _, ok := strings.Cut(target, ":")
	if !ok || !schemePattern.MatchString(scheme) {
		return document{}, &loadError{code: ErrCodeInvalidURL, msg: target}
	}
	scheme = strings.ToLower(scheme)
	if p, ok := w.ctx.shared.protocols[scheme]; ok {
		return e.fetchProtocol(p, target)
	}
	if scheme == "data" {
		return parseDataURL(target)
	}
	return document{}, &loadError{code: ErrCodeUnknownScheme, msg: scheme}
}

// fetchProtocol asks a registered handler for target and releases the
// buffers it returned.
func (e *Engine) fetchProtocol(p native.Protocol, target string) (document, error) {
	units := marshal.StringToWide(target)
	var body, headers native.Buffer
	handled := p.HandleRequest(marshal.WideOf(units), &body, &headers)
	defer e.Free(body.Data)
	defer e.Free(headers.Data)

	if !handled {
		return document{}, &loadError{code: ErrCodeFileNotFound, msg: target}
	}
	doc := document{mimeType: "text/html", body: marshal.Bytes(body)}
	for i, line := range marshal.ParseHeaderBlock(headers) {
		if i == 0 && strings.HasPrefix(line, "HTTP/") {
			if code := statusCode(line); code >= 400 {
				return document{}, &loadError{code: ErrCodeFileNotFound, msg: line}
			}
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(name), "content-type") {
			doc.mimeType = mediaType(value)
		}
	}
	return doc, nil
}

func statusCode(line string) int {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0
	}
	code, _ := strconv.Atoi(fields[1])
	return code
}

func mediaType(v string) string {
	mt, _, _ := strings.Cut(v, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

// parseDataURL decodes data:[<mediatype>][;base64],<data>.
func parseDataURL(target string) (document, error) {
	_, rest, _ := strings.Cut(target, ":")
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return document{}, &loadError{code: ErrCodeInvalidURL, msg: "data url without payload"}
	}
	doc := document{mimeType: "text/plain"}
	encoded := false
	for i, part := range strings.Split(meta, ";") {
		switch {
		case i == 0 && part != "":
			doc.mimeType = strings.ToLower(part)
		case part == "base64":
			encoded = true
		}
	}
	if encoded {
		raw, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return document{}, &loadError{code: ErrCodeInvalidURL, msg: err.Error()}
		}
		doc.body = raw
		return doc, nil
	}
	text, err := url.PathUnescape(payload)
	if err != nil {
		// Stray percent signs are kept literally.
		text = payload
	}
	doc.body = []byte(text)
	return doc, nil
}

func isHTML(mimeType string) bool {
	return mimeType == "text/html" || mimeType == "application/xhtml+xml"
}

// documentText returns the visible text of a document.
func documentText(source, mimeType string) string {
	if !isHTML(mimeType) {
		return source
	}
	source = scriptPattern.ReplaceAllString(source, " ")
	source = titlePattern.ReplaceAllString(source, " ")
	text := html.UnescapeString(tagPattern.ReplaceAllString(source, " "))
	return strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
}

// showContextMenu reports a context menu at (x, y) for the current page.
func (e *Engine) showContextMenu(w *window, x, y int32) {
	d := w.delegate
	if d == nil || !e.alive(w) {
		return
	}
	page := marshal.Latin1(w.url)
	selected := marshal.StringToWide(w.selection)
	flags := int32(1 << 6) // select all
	if w.selection != "" {
		flags |= 1 << 3 // copy
	}
	if e.clipboard != "" {
		flags |= 1 << 4 // paste
	}
	if len(w.undo) > 0 {
		flags |= 1 << 0
	}
	args := native.ContextMenuArgs{
		MouseX:       x,
		MouseY:       y,
		PageURL:      marshal.NarrowOf(page),
		FrameURL:     marshal.NarrowOf(page),
		SelectedText: marshal.WideOf(selected),
		EditFlags:    flags,
	}
	d.OnShowContextMenu(w.handle, &args)
}
