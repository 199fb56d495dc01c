package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tochi-dev/docmatch/internal/common"
)

// PdftoppmRenderer implements PageRenderer by shelling out to pdftoppm.
// Every call works in its own temp directory, removed on all exit paths.
type PdftoppmRenderer struct {
	cfg    common.RenderConfig
	runner Runner
	log    *slog.Logger
}

var _ PageRenderer = (*PdftoppmRenderer)(nil)

func NewPdftoppmRenderer(cfg common.RenderConfig, logger *slog.Logger) *PdftoppmRenderer {
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.Width <= 0 {
		cfg.Width = 2000
	}
	if cfg.Height <= 0 {
		cfg.Height = 2800
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PdftoppmRenderer{cfg: cfg, runner: execRunner{}, log: logger}
}

// RenderPage rasterizes a single 1-based page to PNG.
func (r *PdftoppmRenderer) RenderPage(ctx context.Context, data []byte, page int) ([]byte, string, error) {
	tmpDir, err := os.MkdirTemp("", "docmatch-render-*")
	if err != nil {
		return nil, "", fmt.Errorf("create temp dir: %w", err)
	}
	defer func(path string) {
		if rerr := os.RemoveAll(path); rerr != nil {
			r.log.Warn("failed to remove temp dir", "path", path, "error", rerr)
		}
	}(tmpDir)

	in := filepath.Join(tmpDir, "doc.pdf")
	if err := os.WriteFile(in, data, 0o600); err != nil {
		return nil, "", fmt.Errorf("write pdf: %w", err)
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -f N -l N -r <dpi> -scale-to-x <w> -scale-to-y <h> -png <in> <prefix>
	args := []string{
		"-f", fmt.Sprintf("%d", page),
		"-l", fmt.Sprintf("%d", page),
		"-r", fmt.Sprintf("%d", r.cfg.DPI),
		"-scale-to-x", fmt.Sprintf("%d", r.cfg.Width),
		"-scale-to-y", fmt.Sprintf("%d", r.cfg.Height),
		"-png",
		in, prefix,
	}
	if _, errb, err := r.runner.Run(ctx, r.cfg.Pdftoppm, args...); err != nil {
		return nil, "", fmt.Errorf("pdftoppm page %d: %w: %s", page, err, truncate(string(errb), 1<<10))
	}

	// pdftoppm numbers output files; zero-padding depends on total pages.
	matches, _ := filepath.Glob(prefix + "-*.png")
	if len(matches) == 0 {
		return nil, "", fmt.Errorf("pdftoppm produced no image for page %d", page)
	}
	img, err := os.ReadFile(matches[0])
	if err != nil {
		return nil, "", fmt.Errorf("read rendered page %d: %w", page, err)
	}
	return img, "image/png", nil
}
