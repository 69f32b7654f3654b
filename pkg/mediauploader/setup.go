// Package mediauploader stores the screenshots of a run on the media service
package mediauploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/ClevertecFrontendLab/check-test/pkg/core"
	"github.com/ClevertecFrontendLab/check-test/pkg/errs"
	"github.com/ClevertecFrontendLab/check-test/pkg/global"
	"github.com/ClevertecFrontendLab/check-test/pkg/lumber"
	"github.com/gabriel-vasile/mimetype"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

type mediaUploader struct {
	requests core.Requests
	endpoint string
	logger   lumber.Logger
}

// New returns a MediaUploader posting to host
func New(requests core.Requests, host string, logger lumber.Logger) core.MediaUploader {
	return &mediaUploader{
		requests: requests,
		endpoint: strings.TrimRight(host, "/") + global.SaveImagesPath,
		logger:   logger,
	}
}

// Upload sends every asset in a single multipart request. The batch either
// succeeds as a whole or fails with errs.ErrUpload.
func (mu *mediaUploader) Upload(ctx context.Context, login string, assets []*core.ScreenshotAsset) ([]core.UploadedScreenshot, error) {
	if len(assets) == 0 {
		mu.logger.Infof("no screenshots to upload")
		return []core.UploadedScreenshot{}, nil
	}

	body, contentType, err := buildForm(login, assets)
	if err != nil {
		return nil, errs.ErrUpload.Wrap(err)
	}
	mu.logger.Debugf("uploading %d screenshots (%d bytes) to %s", len(assets), len(body), mu.endpoint)

	headers := map[string]string{"Content-Type": contentType}
	rawBytes, _, err := mu.requests.MakeAPIRequest(ctx, http.MethodPost, mu.endpoint, body, nil, headers)
	if err != nil {
		return nil, errs.ErrUpload.Wrap(err)
	}

	var uploaded []core.UploadedScreenshot
	if err := json.Unmarshal(rawBytes, &uploaded); err != nil {
		return nil, errs.ErrUpload.Wrapf("unexpected response %q: %v", string(rawBytes), err)
	}

	if len(uploaded) == len(assets) {
		for i, u := range uploaded {
			assets[i].RemoteName = u.Name
			assets[i].RemoteURL = u.URL
		}
	} else {
		mu.logger.Warnf("media service returned %d entries for %d screenshots", len(uploaded), len(assets))
	}
	mu.logger.Infof("uploaded %d screenshots", len(uploaded))
	return uploaded, nil
}

// buildForm encodes the github login and one files part per asset
func buildForm(login string, assets []*core.ScreenshotAsset) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField(global.UploadFieldGithub, login); err != nil {
		return nil, "", err
	}
	for _, asset := range assets {
		if err := writeFile(w, asset.UploadPath()); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func writeFile(w *multipart.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		global.UploadFieldFiles, quoteEscaper.Replace(filepath.Base(path))))
	h.Set("Content-Type", mtype.String())
	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}
