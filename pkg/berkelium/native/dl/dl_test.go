package dl

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/berkelium-go/pkg/berkelium/native"
)

type stubProtocol struct{ calls int }

func (p *stubProtocol) HandleRequest(native.WideString, *native.Buffer, *native.Buffer) bool {
	p.calls++
	return true
}

func TestOpen_MissingLibrary(t *testing.T) {
	_, err := open(filepath.Join(t.TempDir(), LibraryName()))
	require.ErrorIs(t, err, ErrLibraryNotFound)
}

func TestLibraryName(t *testing.T) {
	assert.Contains(t, LibraryName(), "berkelium_c")
}

func TestProtocolDispatch(t *testing.T) {
	t.Cleanup(resetDispatch)

	first, second := &stubProtocol{}, &stubProtocol{}
	ctx := native.Handle(0x10)
	old := addProtocol(ctx, "app", first)
	token := addProtocol(ctx, "app", second)
	assert.NotEqual(t, old, token)
	assert.Nil(t, protocolFor(old), "re-registration replaces the handler")

	var body, headers native.Buffer
	assert.Equal(t, uintptr(1), cbHandleRequest(token, nil, 0, &body, &headers))
	assert.Equal(t, 1, second.calls)
	assert.Zero(t, cbHandleRequest(old, nil, 0, &body, &headers))

	other := addProtocol(ctx, "data", first)
	removeProtocol(ctx, "app")
	assert.Nil(t, protocolFor(token))
	assert.NotNil(t, protocolFor(other))

	dropProtocols(ctx)
	assert.Nil(t, protocolFor(other))
	assert.Zero(t, cbHandleRequest(other, nil, 0, &body, &headers))
}

type loadRecorder struct {
	native.WindowDelegate
	loads int
}

func (r *loadRecorder) OnLoad(native.Handle) { r.loads++ }

func TestWindowDispatch(t *testing.T) {
	t.Cleanup(resetDispatch)

	rec := &loadRecorder{}
	setWindowDelegate(7, rec)
	cbLoad(7)
	cbLoad(8)
	assert.Equal(t, 1, rec.loads)

	setWindowDelegate(7, nil)
	cbLoad(7)
	assert.Equal(t, 1, rec.loads)
}
