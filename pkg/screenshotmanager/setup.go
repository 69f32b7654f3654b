// Package screenshotmanager locates the screenshots of a test run and
// prepares them for upload
package screenshotmanager

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ClevertecFrontendLab/check-test/config"
	"github.com/ClevertecFrontendLab/check-test/pkg/core"
	"github.com/ClevertecFrontendLab/check-test/pkg/errs"
	"github.com/ClevertecFrontendLab/check-test/pkg/fileutils"
	"github.com/ClevertecFrontendLab/check-test/pkg/lumber"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"
)

type screenshotManager struct {
	cfg    *config.CheckConfig
	logger lumber.Logger
	// encode writes one compressed screenshot and returns the bytes saved
	encode func(src, dst string) (int64, error)
}

// New returns a new ScreenshotManager
func New(cfg *config.CheckConfig, logger lumber.Logger) core.ScreenshotManager {
	sm := &screenshotManager{cfg: cfg, logger: logger}
	sm.encode = sm.compressOne
	return sm
}

// ResolveDir returns the directory holding the screenshots of the run.
// The configured spec name wins, otherwise the first entry of the specs
// directory names it.
func (sm *screenshotManager) ResolveDir() (string, error) {
	name := sm.cfg.SpecName
	if name == "" {
		entries, err := os.ReadDir(sm.cfg.SpecsDir)
		if err != nil {
			return "", errs.ErrScreenshotDir.Wrap(err)
		}
		if len(entries) == 0 {
			return "", errs.ErrScreenshotDir.Wrapf("no spec found in %s", sm.cfg.SpecsDir)
		}
		name = entries[0].Name()
		sm.logger.Warnf("spec_name is not set, using %q inferred from %s", name, sm.cfg.SpecsDir)
	}

	dir := filepath.Join(sm.cfg.ScreenshotsDir, name)
	ok, err := fileutils.IsDir(dir)
	if err != nil {
		return "", errs.ErrScreenshotDir.Wrap(err)
	}
	if !ok {
		return "", errs.ErrScreenshotDir.Wrapf("%s is not a directory", dir)
	}
	return dir, nil
}

func (sm *screenshotManager) Collect(ctx context.Context) ([]*core.ScreenshotAsset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, err := sm.ResolveDir()
	if err != nil {
		return nil, err
	}

	matches, err := doublestar.Glob(os.DirFS(dir), sm.cfg.ScreenshotPattern)
	if err != nil {
		return nil, errs.ErrScreenshotDir.Wrapf("pattern %q: %v", sm.cfg.ScreenshotPattern, err)
	}
	sort.Strings(matches)

	tempDir, _ := filepath.Abs(sm.cfg.TempDir)
	assets := make([]*core.ScreenshotAsset, 0, len(matches))
	for _, match := range matches {
		path := filepath.Join(dir, filepath.FromSlash(match))
		if abs, _ := filepath.Abs(path); tempDir != "" && strings.HasPrefix(abs, tempDir+string(filepath.Separator)) {
			continue
		}
		si, err := os.Stat(path)
		if err != nil {
			return nil, errs.ErrScreenshotDir.Wrap(err)
		}
		if si.IsDir() {
			continue
		}
		mtype, err := mimetype.DetectFile(path)
		if err != nil {
			return nil, errs.ErrScreenshotDir.Wrap(err)
		}
		if !strings.HasPrefix(mtype.String(), "image/") {
			sm.logger.Debugf("skipping %s, detected as %s", path, mtype.String())
			continue
		}
		assets = append(assets, &core.ScreenshotAsset{LocalPath: path})
	}

	sm.logger.Infof("found %d screenshots in %s", len(assets), dir)
	return assets, nil
}
