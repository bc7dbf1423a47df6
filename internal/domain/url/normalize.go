// Package url provides URL helpers for addresses typed by users.
package url

import (
	"regexp"
	"strings"
)

// schemePattern matches an RFC 3986 scheme followed by its colon.
var schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*:`)

// HasScheme reports whether input starts with a URL scheme. Windows drive
// letters such as C:\ are not schemes.
func HasScheme(input string) bool {
	m := schemePattern.FindString(input)
	if m == "" {
		return false
	}
	if len(m) == 2 && len(input) > 2 && (input[2] == '\\' || input[2] == '/') {
		return false
	}
	return true
}

// Normalize trims input and adds an https:// prefix to host-like inputs.
// Inputs that already carry a scheme (data:, about:, custom protocols) are
// returned unchanged.
func Normalize(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	if HasScheme(input) && !looksLikeHostPort(input) {
		return input
	}
	if LooksLikeURL(input) {
		return "https://" + input
	}
	return input
}

// LooksLikeURL checks if the input appears to be a URL rather than free text.
// Returns true for strings like "example.org", "localhost:8080/app" or any
// input with an explicit scheme.
func LooksLikeURL(input string) bool {
	if input == "" || strings.ContainsAny(input, " \t") {
		return false
	}
	if HasScheme(input) {
		return true
	}
	return strings.Contains(input, ".")
}

// looksLikeHostPort reports inputs such as localhost:8080 that the scheme
// pattern mistakes for a scheme.
func looksLikeHostPort(input string) bool {
	_, rest, ok := strings.Cut(input, ":")
	if !ok || rest == "" || strings.HasPrefix(rest, "//") {
		return false
	}
	port, _, _ := strings.Cut(rest, "/")
	if port == "" {
		return false
	}
	for _, r := range port {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
