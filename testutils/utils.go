package testutils

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path"
	"path/filepath"
	"runtime"

	"github.com/ClevertecFrontendLab/check-test/config"
	"github.com/ClevertecFrontendLab/check-test/pkg/errs"
	"github.com/ClevertecFrontendLab/check-test/pkg/lumber"
)

// getCurrentWorkingDir give the file path of this file
func getCurrentWorkingDir() (string, error) {
	_, filename, _, ok := runtime.Caller(1)
	if !ok {
		return "", errs.New("runtime.Calller(1) was unable to recover information")
	}
	filepath := path.Join(path.Dir(filename), "../")
	return filepath, nil
}

// GetConfig returns a dummy CheckConfig using the json file pointed by ApplicationConfigPath
func GetConfig() (*config.CheckConfig, error) {
	cwd, err := getCurrentWorkingDir()
	if err != nil {
		return nil, err
	}
	configJSON, err := os.ReadFile(cwd + ApplicationConfigPath) // ApplicationConfigPath points to dummy config file for CheckConfig
	if err != nil {
		return nil, err
	}
	var cfg *config.CheckConfig
	err = json.Unmarshal(configJSON, &cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetConfigInDir returns the dummy config with every path rebased onto dir
func GetConfigInDir(dir string) (*config.CheckConfig, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}
	cfg.ReportPath = filepath.Join(dir, cfg.ReportPath)
	cfg.SpecsDir = filepath.Join(dir, cfg.SpecsDir)
	cfg.ScreenshotsDir = filepath.Join(dir, cfg.ScreenshotsDir)
	cfg.TempDir = filepath.Join(dir, cfg.TempDir)
	return cfg, nil
}

// GetLogger returns a dummy lumber.Logger.
func GetLogger() (lumber.Logger, error) {
	logger, err := lumber.NewLogger(lumber.LoggingConfig{ConsoleLevel: lumber.Debug}, true, 1)
	if err != nil {
		return nil, err
	}

	return logger, nil
}

// LoadFile returns the content of a file relative to the repository root
func LoadFile(relativePath string) ([]byte, error) {
	cwd, err := getCurrentWorkingDir()
	if err != nil {
		return nil, err
	}
	absPath := fmt.Sprintf("%s/%s", cwd, relativePath)
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}
	return data, err
}

// WriteReport writes a report with the given stats to path, creating parents as needed
func WriteReport(path string, tests, failures int, passPercent float64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	content := fmt.Sprintf(`{"stats":{"tests":%d,"failures":%d,"passPercent":%v}}`, tests, failures, passPercent)
	return os.WriteFile(path, []byte(content), 0644)
}

// WritePNG writes a noisy w x h png to path, creating parents as needed
func WritePNG(path string, w, h int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 13), B: uint8((x + y) * 3), A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteScreenshots lays out a cypress style project under dir: one spec file
// in specs_dir and a png per name in the matching screenshots subdirectory.
// It returns the screenshots subdirectory.
func WriteScreenshots(cfg *config.CheckConfig, spec string, names ...string) (string, error) {
	if err := os.MkdirAll(cfg.SpecsDir, 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(cfg.SpecsDir, spec), []byte("describe('spec', () => {})"), 0644); err != nil {
		return "", err
	}
	shotDir := filepath.Join(cfg.ScreenshotsDir, spec)
	if err := os.MkdirAll(shotDir, 0755); err != nil {
		return "", err
	}
	for _, name := range names {
		if err := WritePNG(filepath.Join(shotDir, name), 32, 24); err != nil {
			return "", err
		}
	}
	return shotDir, nil
}
