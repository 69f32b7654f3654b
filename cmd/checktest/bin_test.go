package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ClevertecFrontendLab/check-test/config"
	"github.com/ClevertecFrontendLab/check-test/pkg/errs"
	"github.com/ClevertecFrontendLab/check-test/pkg/fileutils"
	"github.com/ClevertecFrontendLab/check-test/testutils"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pullRequestJSON = `{
	"number": 7,
	"title": "sprint 1",
	"html_url": "https://github.com/ClevertecFrontendLab/sprint-1/pull/7",
	"created_at": "2023-05-01T10:00:00Z",
	"updated_at": "2023-05-02T08:30:00Z",
	"user": {"login": "student"}
}`

// fakeBackend serves the GitHub API under /api/v3 next to the training backend
type fakeBackend struct {
	mu       sync.Mutex
	calls    map[string]int
	comments []string
	uploads  [][]string
	notified []map[string]interface{}
}

func (fb *fakeBackend) record(path string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.calls[path]++
}

func (fb *fakeBackend) total() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	n := 0
	for _, c := range fb.calls {
		n += c
	}
	return n
}

func (fb *fakeBackend) count(path string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.calls[path]
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	fb := &fakeBackend{calls: map[string]int{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/ClevertecFrontendLab/sprint-1/pulls/7", func(w http.ResponseWriter, r *http.Request) {
		fb.record(r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		fmt.Fprint(w, pullRequestJSON)
	})
	mux.HandleFunc("/api/v3/repos/ClevertecFrontendLab/sprint-1/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		fb.record(r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		var comment struct {
			Body string `json:"body"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&comment))
		fb.mu.Lock()
		fb.comments = append(fb.comments, comment.Body)
		fb.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":1,"html_url":"https://github.com/ClevertecFrontendLab/sprint-1/pull/7#issuecomment-1"}`)
	})
	mux.HandleFunc("/pull-request/save-images", func(w http.ResponseWriter, r *http.Request) {
		fb.record(r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, "student", r.FormValue("github"))
		var names []string
		var resp []map[string]string
		for _, fh := range r.MultipartForm.File["files"] {
			names = append(names, fh.Filename)
			resp = append(resp, map[string]string{"name": fh.Filename, "url": "/media/sprint 1/" + fh.Filename})
		}
		fb.mu.Lock()
		fb.uploads = append(fb.uploads, names)
		fb.mu.Unlock()
		assert.NoError(t, json.NewEncoder(w).Encode(resp))
	})
	mux.HandleFunc("/pull-request/opened", func(w http.ResponseWriter, r *http.Request) {
		fb.record(r.URL.Path)
		var payload map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		fb.mu.Lock()
		fb.notified = append(fb.notified, payload)
		fb.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return fb, server
}

// setupRun returns a config rooted in a temp dir and pointed at server
func setupRun(t *testing.T, server *httptest.Server) *config.CheckConfig {
	cfg, err := testutils.GetConfigInDir(t.TempDir())
	require.NoError(t, err)
	cfg.GithubAPIURL = server.URL
	cfg.Host = server.URL
	cfg.StaticHost = "https://static.test"
	cfg.HTTPTimeout = 5 * time.Second
	return cfg
}

func startPipeline(t *testing.T, cfg *config.CheckConfig) error {
	logger, err := testutils.GetLogger()
	require.NoError(t, err)
	pl, err := newPipeline(context.Background(), cfg, logger)
	require.NoError(t, err)
	return pl.Start(context.Background())
}

func assertTempDirRemoved(t *testing.T, cfg *config.CheckConfig) {
	exists, err := fileutils.CheckIfExists(cfg.TempDir)
	require.NoError(t, err)
	assert.False(t, exists, "temp dir %s was left behind", cfg.TempDir)
}

func TestRun_ReportsResult(t *testing.T) {
	tests := []struct {
		name     string
		required float64
		want     bool
	}{
		{"below required result", 100, false},
		{"above required result", 80, true},
		{"at required result", 90, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, server := newFakeBackend(t)
			cfg := setupRun(t, server)
			cfg.MinimumRequiredResult = tt.required
			cfg.MinimumScreenshotResult = 100
			require.NoError(t, testutils.WriteReport(cfg.ReportPath, 10, 1, 90))
			_, err := testutils.WriteScreenshots(cfg, "login.cy.ts", "a.png", "b.png")
			require.NoError(t, err)

			require.NoError(t, startPipeline(t, cfg))

			require.Len(t, fb.uploads, 1)
			assert.ElementsMatch(t, []string{"a.jpg", "b.jpg"}, fb.uploads[0])

			require.Len(t, fb.comments, 1)
			assert.Equal(t, "# Результаты тестов\n"+
				"Процент пройденных тестов: 90%.\n"+
				"Общее количество тестов: 10.\n"+
				"Количество непройденных тестов: 1.\n", fb.comments[0])

			require.Len(t, fb.notified, 1)
			assert.Equal(t, map[string]interface{}{
				"link":           "https://github.com/ClevertecFrontendLab/sprint-1/pull/7",
				"github":         "student",
				"isTestsSuccess": tt.want,
				"pullNumber":     "7",
			}, fb.notified[0])
			assertTempDirRemoved(t, cfg)
		})
	}
}

func TestRun_EmbedsScreenshots(t *testing.T) {
	fb, server := newFakeBackend(t)
	cfg := setupRun(t, server)
	cfg.MinimumScreenshotResult = 90
	cfg.IncludeFirstPushFlag = true
	require.NoError(t, testutils.WriteReport(cfg.ReportPath, 10, 1, 90))
	_, err := testutils.WriteScreenshots(cfg, "login.cy.ts", "renders form.png")
	require.NoError(t, err)

	require.NoError(t, startPipeline(t, cfg))

	require.Len(t, fb.comments, 1)
	assert.Contains(t, fb.comments[0], "***\n**renders form.jpg**\n"+
		"![Скриншот автотестов](https://static.test/media/sprint%201/renders%20form.jpg)\n")
	require.Len(t, fb.notified, 1)
	assert.Equal(t, false, fb.notified[0]["isFirstPush"])
}

func TestRun_MissingReport(t *testing.T) {
	fb, server := newFakeBackend(t)
	cfg := setupRun(t, server)
	_, err := testutils.WriteScreenshots(cfg, "login.cy.ts", "a.png")
	require.NoError(t, err)

	err = startPipeline(t, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrReportRead), "unexpected error: %v", err)
	assert.Equal(t, 0, fb.total())
}

func TestRun_CompressionFailure(t *testing.T) {
	fb, server := newFakeBackend(t)
	cfg := setupRun(t, server)
	require.NoError(t, testutils.WriteReport(cfg.ReportPath, 10, 0, 100))
	shotDir, err := testutils.WriteScreenshots(cfg, "login.cy.ts", "a.png", "b.png", "c.png")
	require.NoError(t, err)
	// a png signature followed by garbage still sniffs as an image
	require.NoError(t, os.WriteFile(filepath.Join(shotDir, "b.png"), []byte("\x89PNG\r\n\x1a\ngarbage"), 0644))

	err = startPipeline(t, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrCompress), "unexpected error: %v", err)
	assert.Equal(t, 0, fb.count("/pull-request/save-images"))
	assert.Equal(t, 0, fb.count("/pull-request/opened"))
	assert.Empty(t, fb.comments)
	assertTempDirRemoved(t, cfg)
}

func TestRun_WritesJobSummary(t *testing.T) {
	fb, server := newFakeBackend(t)
	cfg := setupRun(t, server)
	cfg.JobSummary = true
	summaryPath := filepath.Join(t.TempDir(), "summary.md")
	t.Setenv("GITHUB_STEP_SUMMARY", summaryPath)
	require.NoError(t, testutils.WriteReport(cfg.ReportPath, 4, 0, 100))
	_, err := testutils.WriteScreenshots(cfg, "login.cy.ts")
	require.NoError(t, err)

	require.NoError(t, startPipeline(t, cfg))

	summary, err := os.ReadFile(summaryPath)
	require.NoError(t, err)
	require.Len(t, fb.comments, 1)
	assert.Equal(t, fb.comments[0], string(summary))
	assert.Equal(t, 0, fb.count("/pull-request/save-images"))
}

func TestRootCommand_Flags(t *testing.T) {
	viper.Reset()
	cmd := RootCommand()
	require.NoError(t, cmd.ParseFlags([]string{
		"--owner", "ClevertecFrontendLab",
		"--repo=sprint-1",
		"--pull-number=7",
		"--token", "ghp_flag",
		"--minimum-required-result=80",
		"--http_timeout=10s",
		"--compress=false",
	}))

	cfg, err := config.LoadCheckConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "ClevertecFrontendLab", cfg.Owner)
	assert.Equal(t, 7, cfg.PullRequestNumber())
	assert.Equal(t, "ghp_flag", cfg.Token)
	assert.Equal(t, float64(80), cfg.MinimumRequiredResult)
	assert.Equal(t, float64(100), cfg.MinimumScreenshotResult)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.Compress)
	assert.True(t, cfg.JobSummary)
	assert.NoError(t, config.ValidateCfg(cfg))
}

func TestReportFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "coded error",
			err:  fmt.Errorf("load: %w", errs.ErrReportRead.Wrap(errors.New("no such file"))),
			want: "::error title=ERR%3A%3AREPORT%3A%3AIO::load: ERR::REPORT::IO : Unable to read test report : no such file\n",
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: "::error::boom\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			reportFailure(&buf, tt.err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
