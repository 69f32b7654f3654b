package screenshotmanager

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ClevertecFrontendLab/check-test/pkg/core"
	"github.com/ClevertecFrontendLab/check-test/pkg/errs"
	"github.com/ClevertecFrontendLab/check-test/pkg/fileutils"
	"github.com/disintegration/imaging"
	"github.com/docker/go-units"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const pngSuffix = ".png"

// Compress re-encodes every asset as a JPEG inside the temp dir. The tasks run
// on a pool bounded by the configured workers, a failing task does not stop the
// others and every failure is reported.
func (sm *screenshotManager) Compress(ctx context.Context, assets []*core.ScreenshotAsset) (func(), error) {
	if !sm.cfg.Compress || len(assets) == 0 {
		for _, asset := range assets {
			asset.CompressedPath = asset.LocalPath
		}
		return func() {}, nil
	}

	tempDir := sm.cfg.TempDir
	release := func() {
		if err := fileutils.RemoveDir(tempDir); err != nil {
			sm.logger.Warnf("failed to remove temp dir %s: %v", tempDir, err)
			return
		}
		sm.logger.Debugf("removed temp dir %s", tempDir)
	}
	if err := fileutils.CreateIfNotExists(tempDir, true); err != nil {
		return release, errs.ErrCompress.Wrap(err)
	}

	targets := targetNames(tempDir, assets)
	failures := make([]error, len(assets))
	saved := make([]int64, len(assets))

	var g errgroup.Group
	g.SetLimit(sm.cfg.Workers)
	for i, asset := range assets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				failures[i] = err
				return nil
			}
			n, err := sm.encode(asset.LocalPath, targets[i])
			if err != nil {
				sm.logger.Errorf("failed to compress %s: %v", asset.LocalPath, err)
				failures[i] = fmt.Errorf("%s: %w", filepath.Base(asset.LocalPath), err)
				return nil
			}
			asset.CompressedPath = targets[i]
			saved[i] = n
			return nil
		})
	}
	_ = g.Wait()

	if err := multierr.Combine(failures...); err != nil {
		return release, errs.ErrCompress.Wrap(err)
	}

	var total int64
	for _, n := range saved {
		total += n
	}
	sm.logger.Infof("compressed %d screenshots, saved %s", len(assets), units.HumanSize(float64(total)))
	return release, nil
}

// compressOne writes src as a JPEG to dst and returns the number of bytes saved
func (sm *screenshotManager) compressOne(src, dst string) (int64, error) {
	before, err := fileutils.FileSize(src)
	if err != nil {
		return 0, err
	}
	img, err := imaging.Open(src)
	if err != nil {
		return 0, err
	}
	// jpeg has no alpha channel, flatten onto white
	bounds := img.Bounds()
	flat := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1.0)

	if err := writeJPEG(flat, dst, sm.cfg.JPEGQuality); err != nil {
		return 0, err
	}
	after, err := fileutils.FileSize(dst)
	if err != nil {
		return 0, err
	}

	// an already compact jpeg is kept as it is
	if after > before {
		if mtype, err := mimetype.DetectFile(src); err == nil && mtype.Is("image/jpeg") {
			if err := fileutils.CopyFile(src, dst); err != nil {
				return 0, err
			}
			after = before
		}
	}
	sm.logger.Debugf("%s: %s -> %s", filepath.Base(src), units.HumanSize(float64(before)), units.HumanSize(float64(after)))
	return before - after, nil
}

func writeJPEG(img image.Image, dst string, quality int) (err error) {
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if e := f.Close(); e != nil && err == nil {
			err = e
		}
	}()
	return imaging.Encode(f, img, imaging.JPEG, imaging.JPEGQuality(quality))
}

// targetNames maps every asset to a unique file in dir. Only a trailing .png
// is renamed to .jpg, clashing base names get a numeric suffix.
func targetNames(dir string, assets []*core.ScreenshotAsset) []string {
	used := make(map[string]bool, len(assets))
	targets := make([]string, len(assets))
	for i, asset := range assets {
		name := CompressedName(filepath.Base(asset.LocalPath))
		ext := filepath.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		for n := 1; used[name]; n++ {
			name = stem + "-" + strconv.Itoa(n) + ext
		}
		used[name] = true
		targets[i] = filepath.Join(dir, name)
	}
	return targets
}

// CompressedName returns the file name a screenshot gets after compression
func CompressedName(name string) string {
	if strings.HasSuffix(name, pngSuffix) {
		return strings.TrimSuffix(name, pngSuffix) + ".jpg"
	}
	return name
}
