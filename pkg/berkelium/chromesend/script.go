package chromesend

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/bnema/berkelium-go/pkg/berkelium"
)

var placeholder = regexp.MustCompile(`\$([0-9]+)`)

// Format replaces $0, $1, ... in script with the JSON encoding of the
// matching value, so replies to chrome.send messages can carry Go data.
func Format(script string, values ...any) (string, error) {
	encoded := make([]string, len(values))
	for i, v := range values {
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encode $%d: %w", i, err)
		}
		encoded[i] = string(b)
	}

	var missing error
	out := placeholder.ReplaceAllStringFunc(script, func(m string) string {
		i, _ := strconv.Atoi(m[1:])
		if i >= len(encoded) {
			if missing == nil {
				missing = fmt.Errorf("script references %s but only %d values were given", m, len(encoded))
			}
			return m
		}
		return encoded[i]
	})
	if missing != nil {
		return "", missing
	}
	return out, nil
}

// Execute formats script with values and runs it in w.
func Execute(w *berkelium.Window, script string, values ...any) error {
	js, err := Format(script, values...)
	if err != nil {
		return err
	}
	return w.ExecuteJavascript(js)
}
