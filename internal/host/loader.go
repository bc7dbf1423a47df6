package host

import (
	"context"
	"fmt"

	"github.com/bnema/berkelium-go/internal/config"
	"github.com/bnema/berkelium-go/internal/engine/headless"
	"github.com/bnema/berkelium-go/internal/logging"
	"github.com/bnema/berkelium-go/pkg/berkelium"
	"github.com/bnema/berkelium-go/pkg/berkelium/native"
	"github.com/bnema/berkelium-go/pkg/berkelium/native/dl"
)

// NewLoader returns the engine loader for the configured backend. The native
// backend loads the shim from cfg.Library, or from the deployed resource
// directory when that is empty.
func NewLoader(cfg config.EngineConfig, win config.WindowConfig) (berkelium.EngineLoader, error) {
	switch cfg.Backend {
	case config.BackendHeadless:
		return func(ctx context.Context, _ string) (native.Engine, error) {
			log := logging.FromContext(logging.WithComponent(ctx, "headless"))
			return headless.New(
				headless.WithLogger(*log),
				headless.WithSize(win.Width, win.Height),
			), nil
		}, nil
	case config.BackendNative, "":
		library := cfg.Library
		return func(ctx context.Context, resourceDir string) (native.Engine, error) {
			dir := library
			if dir == "" {
				dir = resourceDir
			}
			return dl.Load(ctx, dir)
		}, nil
	default:
		return nil, fmt.Errorf("unknown engine backend %q", cfg.Backend)
	}
}
