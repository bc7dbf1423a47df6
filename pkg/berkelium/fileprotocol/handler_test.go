package fileprotocol_test

import (
	"context"
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/berkelium-go/internal/engine/headless"
	"github.com/bnema/berkelium-go/pkg/berkelium"
	"github.com/bnema/berkelium-go/pkg/berkelium/fileprotocol"
	"github.com/bnema/berkelium-go/pkg/berkelium/libpath"
)

var site = fstest.MapFS{
	"site/index.html":   {Data: []byte("<title>Home</title><body bgcolor=navy>")},
	"site/app.js":       {Data: []byte("console.log(1)")},
	"site/img/logo.PNG": {Data: []byte{0x89, 'P', 'N', 'G'}},
}

func TestHandler_ServesFiles(t *testing.T) {
	h := fileprotocol.New(context.Background(), "Site:", site)
	assert.Equal(t, "site", h.Scheme())

	tests := []struct {
		url  string
		mime string
		body string
	}{
		{url: "site://site/index.html", mime: "text/html", body: "<title>Home</title><body bgcolor=navy>"},
		{url: "SITE://site/app.js?v=2#top", mime: "text/javascript", body: "console.log(1)"},
		{url: "site://site/img/logo.PNG/", mime: "image/png", body: "\x89PNG"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			resp, ok := h.HandleRequest(tt.url)
			require.True(t, ok)
			assert.Equal(t, tt.body, string(resp.Body))
			assert.Equal(t, []string{
				"HTTP/1.1 200 OK",
				"Content-type: " + tt.mime + "; charset=utf-8",
			}, resp.Headers)
		})
	}
}

func TestHandler_NotFound(t *testing.T) {
	h := fileprotocol.New(context.Background(), "site", site)

	for _, url := range []string{
		"site://site/missing.html",
		"site://",
		"other://site/index.html",
		"site://../site/index.html",
	} {
		resp, ok := h.HandleRequest(url)
		assert.False(t, ok, url)
		assert.Nil(t, resp.Body, url)
		assert.Equal(t, []string{"HTTP/1.1 404 Not Found"}, resp.Headers, url)
	}
}

func TestMimeTypeOf(t *testing.T) {
	assert.Equal(t, "text/html", fileprotocol.MimeTypeOf("a/b.HTM"))
	assert.Equal(t, "text/css", fileprotocol.MimeTypeOf("style.css"))
	assert.Equal(t, "image/jpeg", fileprotocol.MimeTypeOf("x.jpeg"))
	assert.Equal(t, "image/gif", fileprotocol.MimeTypeOf("x.gif"))
	assert.Equal(t, "text/plain", fileprotocol.MimeTypeOf("README"))
}

func TestRegister_LoadsThroughWindow(t *testing.T) {
	t.Setenv("PATH", os.Getenv("PATH"))
	t.Setenv(libpath.LibraryPathVar(), os.Getenv(libpath.LibraryPathVar()))
	engine := headless.New(headless.WithSize(4, 4))
	lib := berkelium.NewLibrary()
	require.NoError(t, lib.Init(context.Background(), berkelium.Options{
		HomeDir: t.TempDir(),
		Loader:  berkelium.StaticEngine(engine),
	}))
	t.Cleanup(lib.Destroy)

	ctx, err := lib.NewContext()
	require.NoError(t, err)
	p, err := fileprotocol.Register(context.Background(), ctx, "site", site)
	require.NoError(t, err)
	assert.True(t, p.Registered())

	win, err := ctx.NewWindow()
	require.NoError(t, err)
	var title string
	win.OnTitleChanged = func(s string) { title = s }
	var pixel []byte
	win.OnPaint = func(p berkelium.Paint) { pixel = append([]byte(nil), p.Pixels[:4]...) }
	var failed int
	win.OnProvisionalLoadError = func(string, int, bool) { failed++ }

	require.NoError(t, win.NavigateTo("site://site/index.html"))
	lib.Update()
	assert.Equal(t, "Home", title)
	assert.Equal(t, []byte{0x80, 0x00, 0x00, 0xff}, pixel, "navy in BGRA")

	require.NoError(t, win.NavigateTo("site://site/nope.html"))
	lib.Update()
	assert.Equal(t, 1, failed)
	assert.Zero(t, engine.LiveAllocations())
}
