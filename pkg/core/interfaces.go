package core

import (
	"context"
)

// Requests is a util interface for making API Requests
type Requests interface {
	// MakeAPIRequest sends the request and returns the response body and status code.
	// Any status outside 2xx is returned as an error together with the body.
	MakeAPIRequest(ctx context.Context, httpMethod, endpoint string, body []byte, query map[string]interface{},
		headers map[string]string) (rawBody []byte, statusCode int, err error)
}

// ReportLoader reads the test run report
type ReportLoader interface {
	// Load reads and parses the report at path
	Load(ctx context.Context, path string) (*TestReport, error)
}

// PullRequestManager talks to the git provider about the pull request under test
type PullRequestManager interface {
	// GetPullRequest fetches the pull request metadata
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequestInfo, error)
	// CreateComment posts a new comment on the pull request
	CreateComment(ctx context.Context, owner, repo string, number int, body string) error
}

// ScreenshotManager prepares the screenshots of the run for upload
type ScreenshotManager interface {
	// Collect locates the screenshot files of the run
	Collect(ctx context.Context) ([]*ScreenshotAsset, error)
	// Compress prepares the assets for upload. The returned release func is never nil
	// and removes every temporary file, it must be called on all paths.
	Compress(ctx context.Context, assets []*ScreenshotAsset) (release func(), err error)
}

// MediaUploader stores screenshots on the media service
type MediaUploader interface {
	Upload(ctx context.Context, login string, assets []*ScreenshotAsset) ([]UploadedScreenshot, error)
}

// CommentBuilder renders the pull request comment
type CommentBuilder interface {
	Build(report *TestReport, screenshots []UploadedScreenshot) string
}

// Notifier is a service to report the run result to the tracking backend
type Notifier interface {
	Notify(ctx context.Context, payload *NotificationPayload) error
}

// JobSummary publishes markdown to the CI job summary
type JobSummary interface {
	Append(markdown string) error
}
