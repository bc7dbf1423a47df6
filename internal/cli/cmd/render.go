package cmd

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	urlutil "github.com/bnema/berkelium-go/internal/domain/url"
	"github.com/bnema/berkelium-go/internal/logging"
)

var (
	renderOutput    string
	renderWidth     int
	renderHeight    int
	renderScale     float64
	renderTimeout   time.Duration
	renderNoHistory bool
)

var renderCmd = &cobra.Command{
	Use:   "render URL",
	Short: "Render a page to a PNG file",
	Long: `Load URL in an offscreen window, wait for the page to settle and write
the composed window, popups included, as a PNG image.

Examples:
  berkelium render docs://index.html -o index.png
  berkelium render "data:text/html,<h1>hi</h1>" --width 320 --height 200 --scale 0.5`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	f := renderCmd.Flags()
	f.StringVarP(&renderOutput, "output", "o", "page.png", "PNG file to write")
	f.IntVar(&renderWidth, "width", 0, "window width (default from config)")
	f.IntVar(&renderHeight, "height", 0, "window height (default from config)")
	f.Float64Var(&renderScale, "scale", 0, "scale factor of the image (default from config)")
	f.DurationVar(&renderTimeout, "timeout", 0, "give up after this long (default from config)")
	f.BoolVar(&renderNoHistory, "no-history", false, "do not record the visit")
}

func runRender(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	cfg := *app.Config
	if renderWidth > 0 {
		cfg.Window.Width = renderWidth
	}
	if renderHeight > 0 {
		cfg.Window.Height = renderHeight
	}
	scale := cfg.Render.Scale
	if renderScale > 0 {
		scale = renderScale
	}
	timeout := cfg.Render.Timeout
	if renderTimeout > 0 {
		timeout = renderTimeout
	}

	ctx, cancel := context.WithTimeout(app.Ctx(), timeout)
	defer cancel()
	log := logging.FromContext(ctx)

	url := urlutil.Normalize(args[0])
	s, err := app.OpenSession(ctx, &cfg, !renderNoHistory, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	start := time.Now()
	if err := s.Load(ctx, url); err != nil {
		return err
	}
	if err := s.Settle(ctx); err != nil {
		return fmt.Errorf("wait for %s to settle: %w", url, err)
	}

	img := s.Surface().Snapshot(scale)
	if err := writePNG(renderOutput, img); err != nil {
		return err
	}
	log.Debug().
		Str("url", logging.TruncateURL(url, 80)).
		Dur("elapsed", time.Since(start)).
		Int("paints", s.Surface().Paints()).
		Msg("page rendered")

	fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%dx%d)\n", s.Title(), renderOutput, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}

// writePNG encodes img to path, creating parent directories.
func writePNG(path string, img image.Image) (err error) {
	const dirPerm = 0o755
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
