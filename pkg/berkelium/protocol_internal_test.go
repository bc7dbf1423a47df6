package berkelium

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/berkelium-go/internal/engine/headless"
	"github.com/bnema/berkelium-go/pkg/berkelium/marshal"
	"github.com/bnema/berkelium-go/pkg/berkelium/native"
)

func TestProtocolAdapter_NilOutputs(t *testing.T) {
	engine := headless.New()
	a := &protocolAdapter{
		handler: RequestHandlerFunc(func(url string) (Response, bool) {
			return Response{Body: []byte("ok"), Headers: []string{"HTTP/1.1 200 OK"}}, url == "app://x"
		}),
		alloc: engine,
	}
	url := marshal.WideOf(marshal.StringToWide("app://x"))

	var handled bool
	require.NotPanics(t, func() { handled = a.HandleRequest(url, nil, nil) })
	assert.True(t, handled)

	var body native.Buffer
	require.NotPanics(t, func() { handled = a.HandleRequest(url, &body, nil) })
	assert.True(t, handled)
	assert.Equal(t, []byte("ok"), marshal.Bytes(body))
}
