package chromesend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/berkelium-go/pkg/berkelium/chromesend"
)

func TestFormat(t *testing.T) {
	js, err := chromesend.Format("show($0, $1, $0)", `say "hi"`, map[string]int{"n": 2})
	require.NoError(t, err)
	assert.Equal(t, `show("say \"hi\"", {"n":2}, "say \"hi\"")`, js)

	js, err = chromesend.Format("no placeholders")
	require.NoError(t, err)
	assert.Equal(t, "no placeholders", js)

	_, err = chromesend.Format("f($2)", 1)
	assert.Error(t, err)

	_, err = chromesend.Format("f($0)", make(chan int))
	assert.Error(t, err)
}

func TestExecute_RoundTrip(t *testing.T) {
	lib, win := newWindow(t)
	l := chromesend.Attach(win)
	var echoed []string
	l.Register("echo", func(args []string) { echoed = args })

	require.NoError(t, chromesend.Execute(win, "chrome.send('echo', [$0, $1])", `a"b`, "c"))
	lib.Update()
	assert.Equal(t, []string{`a"b`, "c"}, echoed)
}
