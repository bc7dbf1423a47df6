package berkelium_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/berkelium-go/internal/engine/headless"
	"github.com/bnema/berkelium-go/pkg/berkelium"
)

func TestProtocol_ServesRequests(t *testing.T) {
	lib, engine := newLibrary(t)
	ctx, err := lib.NewContext()
	require.NoError(t, err)

	var requested []string
	p, err := ctx.RegisterProtocol("App:", berkelium.RequestHandlerFunc(func(url string) (berkelium.Response, bool) {
		requested = append(requested, url)
		if !strings.HasSuffix(url, "/index.html") {
			return berkelium.Response{Headers: []string{"HTTP/1.1 404 Not Found"}}, false
		}
		return berkelium.Response{
			Body:    []byte("<title>From handler</title>"),
			Headers: []string{"HTTP/1.1 200 OK", "Content-Type: text/html"},
		}, true
	}))
	require.NoError(t, err)
	assert.Equal(t, "app", p.Scheme())
	assert.True(t, p.Registered())
	assert.Same(t, ctx, p.Context())

	win, err := ctx.NewWindow()
	require.NoError(t, err)
	var title string
	win.OnTitleChanged = func(s string) { title = s }
	var failed string
	win.OnProvisionalLoadError = func(url string, _ int, _ bool) { failed = url }

	require.NoError(t, win.NavigateTo("app://site/index.html"))
	lib.Update()
	assert.Equal(t, "From handler", title)

	require.NoError(t, win.NavigateTo("app://site/missing.png"))
	lib.Update()
	assert.Equal(t, "app://site/missing.png", failed)
	assert.Equal(t, []string{"app://site/index.html", "app://site/missing.png"}, requested)
	assert.Zero(t, engine.LiveAllocations())

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.False(t, p.Registered())

	require.NoError(t, win.NavigateTo("app://site/index.html"))
	lib.Update()
	assert.Len(t, requested, 2, "unregistered handler is not called")
}

func TestProtocol_InertWhenUnsupported(t *testing.T) {
	lib, _ := newLibrary(t, headless.WithoutProtocols())
	ctx, err := lib.NewContext()
	require.NoError(t, err)

	p, err := ctx.RegisterProtocol("app", berkelium.RequestHandlerFunc(func(string) (berkelium.Response, bool) {
		t.Fatal("inert handler called")
		return berkelium.Response{}, false
	}))
	require.NoError(t, err)
	assert.False(t, p.Registered())
	assert.NoError(t, p.Close())
}

func TestProtocol_Validation(t *testing.T) {
	lib, _ := newLibrary(t)
	ctx, err := lib.NewContext()
	require.NoError(t, err)

	_, err = ctx.RegisterProtocol(":", berkelium.RequestHandlerFunc(nil))
	assert.Error(t, err)
	_, err = ctx.RegisterProtocol("app", nil)
	assert.Error(t, err)

	require.NoError(t, ctx.Close())
	_, err = ctx.RegisterProtocol("app", berkelium.RequestHandlerFunc(nil))
	assert.ErrorIs(t, err, berkelium.ErrClosed)
}

func TestProtocol_ClosedWithContext(t *testing.T) {
	lib, _ := newLibrary(t)
	ctx, err := lib.NewContext()
	require.NoError(t, err)
	p, err := ctx.RegisterProtocol("app", berkelium.RequestHandlerFunc(func(string) (berkelium.Response, bool) {
		return berkelium.Response{}, true
	}))
	require.NoError(t, err)

	require.NoError(t, ctx.Close())
	assert.False(t, p.Registered())
}
