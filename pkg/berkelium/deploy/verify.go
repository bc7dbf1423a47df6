package deploy

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"
)

// Check is the verification result of one resource.
type Check struct {
	Name     string
	Bundled  string
	Deployed string
	Missing  bool
}

// OK reports whether the deployed copy matches the bundled one.
func (c Check) OK() bool {
	return !c.Missing && c.Bundled == c.Deployed
}

// Verify compares the BLAKE2b-256 digest of every bundled resource with the
// copy deployed in dir.
func Verify(ctx context.Context, source fs.FS, dir string) ([]Check, error) {
	if source == nil {
		return nil, nil
	}
	names, err := resourceNames(source)
	if err != nil {
		return nil, err
	}

	checks := make([]Check, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return checks, err
		}

		bundled, err := digestFS(source, name)
		if err != nil {
			return checks, err
		}
		check := Check{Name: name, Bundled: bundled}

		deployed, err := digestFile(filepath.Join(dir, filepath.FromSlash(name)))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			check.Missing = true
		case err != nil:
			return checks, err
		default:
			check.Deployed = deployed
		}
		checks = append(checks, check)
	}
	return checks, nil
}

func digestFS(source fs.FS, name string) (string, error) {
	f, err := source.Open(name)
	if err != nil {
		return "", fmt.Errorf("open bundled %s: %w", name, err)
	}
	defer f.Close()
	return digest(f)
}

func digestFile(name string) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return digest(f)
}

func digest(r io.Reader) (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
