// Package core is the backbone of check-test,
// it defines the run lifecycle and allows attaching the stage
// implementations as plugins.
package core

import (
	"time"

	"github.com/ClevertecFrontendLab/check-test/config"
	"github.com/ClevertecFrontendLab/check-test/pkg/lumber"
)

// RunStatus is the terminal state of a run
type RunStatus string

// Values of RunStatus
const (
	Completed RunStatus = "completed"
	Failed    RunStatus = "failed"
)

// TestReport holds the summary statistics of an end-to-end test run.
// Only Tests, Failures and PassPercent take part in any decision, the rest
// is informational.
type TestReport struct {
	Tests       int
	Failures    int
	PassPercent float64
	Passes      int
	Pending     int
	Skipped     int
	Suites      int
	Duration    int64
	Start       time.Time
	End         time.Time
}

// PullRequestInfo is the subset of the pull request read from GitHub
type PullRequestInfo struct {
	Number      int
	Title       string
	AuthorLogin string
	HTMLURL     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsFirstPush reports whether the pull request has not been updated since it
// was opened. Exact timestamp equality is used.
func (p *PullRequestInfo) IsFirstPush() bool {
	return p.CreatedAt.Equal(p.UpdatedAt)
}

// ScreenshotAsset is one screenshot file travelling through the run
type ScreenshotAsset struct {
	LocalPath      string
	CompressedPath string
	RemoteName     string
	RemoteURL      string
}

// UploadPath returns the file that should be sent to the media service
func (s *ScreenshotAsset) UploadPath() string {
	if s.CompressedPath != "" {
		return s.CompressedPath
	}
	return s.LocalPath
}

// UploadedScreenshot is one entry of the media service response
type UploadedScreenshot struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// NotificationPayload is the body sent to the tracking backend
type NotificationPayload struct {
	Link           string `json:"link"`
	GithubLogin    string `json:"github"`
	IsTestsSuccess bool   `json:"isTestsSuccess"`
	PullNumber     string `json:"pullNumber"`
	IsFirstPush    *bool  `json:"isFirstPush,omitempty"`
}

// Thresholds are the pass percentages that drive the run decisions
type Thresholds struct {
	MinimumRequiredResult   float64
	MinimumScreenshotResult float64
}

// TestsPassed reports whether the run counts as successful. The boundary is inclusive.
func (t Thresholds) TestsPassed(report *TestReport) bool {
	return report.PassPercent >= t.MinimumRequiredResult
}

// EmbedScreenshots reports whether screenshots belong in the comment.
func (t Thresholds) EmbedScreenshots(report *TestReport) bool {
	return report.PassPercent >= t.MinimumScreenshotResult
}

// Pipeline defines all attributes of Pipeline
type Pipeline struct {
	Cfg                *config.CheckConfig
	Logger             lumber.Logger
	Thresholds         Thresholds
	ReportLoader       ReportLoader
	PullRequestManager PullRequestManager
	ScreenshotManager  ScreenshotManager
	MediaUploader      MediaUploader
	CommentBuilder     CommentBuilder
	Notifier           Notifier
	JobSummary         JobSummary
	Status             RunStatus
}
