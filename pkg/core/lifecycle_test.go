package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ClevertecFrontendLab/check-test/config"
	"github.com/ClevertecFrontendLab/check-test/pkg/errs"
	"github.com/ClevertecFrontendLab/check-test/pkg/lumber"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReportLoader struct{ mock.Mock }

func (m *mockReportLoader) Load(ctx context.Context, path string) (*TestReport, error) {
	args := m.Called(ctx, path)
	report, _ := args.Get(0).(*TestReport)
	return report, args.Error(1)
}

type mockPullRequestManager struct{ mock.Mock }

func (m *mockPullRequestManager) GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequestInfo, error) {
	args := m.Called(ctx, owner, repo, number)
	pr, _ := args.Get(0).(*PullRequestInfo)
	return pr, args.Error(1)
}

func (m *mockPullRequestManager) CreateComment(ctx context.Context, owner, repo string, number int, body string) error {
	return m.Called(ctx, owner, repo, number, body).Error(0)
}

type mockScreenshotManager struct {
	mock.Mock
	released int
}

func (m *mockScreenshotManager) Collect(ctx context.Context) ([]*ScreenshotAsset, error) {
	args := m.Called(ctx)
	assets, _ := args.Get(0).([]*ScreenshotAsset)
	return assets, args.Error(1)
}

func (m *mockScreenshotManager) Compress(ctx context.Context, assets []*ScreenshotAsset) (func(), error) {
	args := m.Called(ctx, assets)
	return func() { m.released++ }, args.Error(0)
}

type mockMediaUploader struct{ mock.Mock }

func (m *mockMediaUploader) Upload(ctx context.Context, login string, assets []*ScreenshotAsset) ([]UploadedScreenshot, error) {
	args := m.Called(ctx, login, assets)
	uploaded, _ := args.Get(0).([]UploadedScreenshot)
	return uploaded, args.Error(1)
}

type stubCommentBuilder struct{}

func (stubCommentBuilder) Build(report *TestReport, screenshots []UploadedScreenshot) string {
	return "# Результаты тестов\n"
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Notify(ctx context.Context, payload *NotificationPayload) error {
	return m.Called(ctx, payload).Error(0)
}

type mockJobSummary struct{ mock.Mock }

func (m *mockJobSummary) Append(markdown string) error {
	return m.Called(markdown).Error(0)
}

type fixture struct {
	pipeline    *Pipeline
	reports     *mockReportLoader
	prs         *mockPullRequestManager
	screenshots *mockScreenshotManager
	uploader    *mockMediaUploader
	notifier    *mockNotifier
	summary     *mockJobSummary
}

func newFixture(t *testing.T, cfg *config.CheckConfig) *fixture {
	logger, err := lumber.NewLogger(lumber.LoggingConfig{ConsoleLevel: lumber.Debug}, true, lumber.InstanceLogrusLogger)
	require.NoError(t, err)

	pl, err := NewPipeline(cfg, logger)
	require.NoError(t, err)

	f := &fixture{
		pipeline:    pl,
		reports:     new(mockReportLoader),
		prs:         new(mockPullRequestManager),
		screenshots: new(mockScreenshotManager),
		uploader:    new(mockMediaUploader),
		notifier:    new(mockNotifier),
		summary:     new(mockJobSummary),
	}
	pl.ReportLoader = f.reports
	pl.PullRequestManager = f.prs
	pl.ScreenshotManager = f.screenshots
	pl.MediaUploader = f.uploader
	pl.CommentBuilder = stubCommentBuilder{}
	pl.Notifier = f.notifier
	pl.JobSummary = f.summary
	return f
}

func testConfig() *config.CheckConfig {
	return &config.CheckConfig{
		Owner:                   "ClevertecFrontendLab",
		Repo:                    "sprint-1",
		PullNumber:              "7",
		ReportPath:              "cypress/report/report.json",
		MinimumRequiredResult:   100,
		MinimumScreenshotResult: 100,
	}
}

var (
	created = time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)
	pr      = &PullRequestInfo{
		Number:      7,
		Title:       "sprint 1",
		AuthorLogin: "student",
		HTMLURL:     "https://github.com/ClevertecFrontendLab/sprint-1/pull/7",
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	assets   = []*ScreenshotAsset{{LocalPath: "a.png"}}
	uploaded = []UploadedScreenshot{{Name: "a.jpg", URL: "/media/a.jpg"}}
)

func (f *fixture) expectHappyPath(report *TestReport) {
	f.reports.On("Load", mock.Anything, "cypress/report/report.json").Return(report, nil)
	f.prs.On("GetPullRequest", mock.Anything, "ClevertecFrontendLab", "sprint-1", 7).Return(pr, nil)
	f.screenshots.On("Collect", mock.Anything).Return(assets, nil)
	f.screenshots.On("Compress", mock.Anything, assets).Return(nil)
	f.uploader.On("Upload", mock.Anything, "student", assets).Return(uploaded, nil)
	f.prs.On("CreateComment", mock.Anything, "ClevertecFrontendLab", "sprint-1", 7, "# Результаты тестов\n").Return(nil)
	f.summary.On("Append", "# Результаты тестов\n").Return(nil)
}

func TestPipeline_Start(t *testing.T) {
	check := func(t *testing.T, passPercent, required float64, wantSuccess bool) {
		cfg := testConfig()
		cfg.MinimumRequiredResult = required
		f := newFixture(t, cfg)
		f.expectHappyPath(&TestReport{Tests: 10, Failures: 1, PassPercent: passPercent})
		f.notifier.On("Notify", mock.Anything, mock.MatchedBy(func(p *NotificationPayload) bool {
			return p.IsTestsSuccess == wantSuccess &&
				p.Link == pr.HTMLURL &&
				p.GithubLogin == "student" &&
				p.PullNumber == "7" &&
				p.IsFirstPush == nil
		})).Return(nil)

		err := f.pipeline.Start(context.Background())
		require.NoError(t, err)
		assert.Equal(t, Completed, f.pipeline.Status)
		assert.Equal(t, 1, f.screenshots.released)
		f.reports.AssertExpectations(t)
		f.prs.AssertExpectations(t)
		f.uploader.AssertExpectations(t)
		f.notifier.AssertExpectations(t)
		f.summary.AssertExpectations(t)
	}

	t.Run("below required result", func(t *testing.T) { check(t, 90, 100, false) })
	t.Run("above lowered required result", func(t *testing.T) { check(t, 90, 80, true) })
	t.Run("exactly at required result", func(t *testing.T) { check(t, 100, 100, true) })
}

func TestPipeline_StartFirstPushFlag(t *testing.T) {
	cfg := testConfig()
	cfg.IncludeFirstPushFlag = true
	f := newFixture(t, cfg)
	f.expectHappyPath(&TestReport{Tests: 1, PassPercent: 100})
	f.notifier.On("Notify", mock.Anything, mock.MatchedBy(func(p *NotificationPayload) bool {
		return p.IsFirstPush != nil && *p.IsFirstPush
	})).Return(nil)

	require.NoError(t, f.pipeline.Start(context.Background()))
	f.notifier.AssertExpectations(t)
}

func TestPipeline_StartReportFailure(t *testing.T) {
	f := newFixture(t, testConfig())
	f.reports.On("Load", mock.Anything, mock.Anything).Return(nil, errs.ErrReportRead.Wrap(errors.New("no such file")))

	err := f.pipeline.Start(context.Background())
	assert.True(t, errors.Is(err, errs.ErrReportRead))
	assert.Equal(t, Failed, f.pipeline.Status)
	f.prs.AssertNotCalled(t, "GetPullRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestPipeline_StartCompressFailure(t *testing.T) {
	f := newFixture(t, testConfig())
	f.reports.On("Load", mock.Anything, mock.Anything).Return(&TestReport{Tests: 1, PassPercent: 100}, nil)
	f.prs.On("GetPullRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(pr, nil)
	f.screenshots.On("Collect", mock.Anything).Return(assets, nil)
	f.screenshots.On("Compress", mock.Anything, assets).Return(errs.ErrCompress)

	err := f.pipeline.Start(context.Background())
	assert.True(t, errors.Is(err, errs.ErrCompress))
	assert.Equal(t, Failed, f.pipeline.Status)
	assert.Equal(t, 1, f.screenshots.released)
	f.uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
	f.prs.AssertNotCalled(t, "CreateComment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPipeline_StartCommentFailure(t *testing.T) {
	f := newFixture(t, testConfig())
	f.reports.On("Load", mock.Anything, mock.Anything).Return(&TestReport{Tests: 1, PassPercent: 100}, nil)
	f.prs.On("GetPullRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(pr, nil)
	f.screenshots.On("Collect", mock.Anything).Return(assets, nil)
	f.screenshots.On("Compress", mock.Anything, assets).Return(nil)
	f.uploader.On("Upload", mock.Anything, "student", assets).Return(uploaded, nil)
	f.prs.On("CreateComment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errs.ErrGitHubAuth)

	err := f.pipeline.Start(context.Background())
	assert.True(t, errors.Is(err, errs.ErrGitHubAuth))
	assert.Equal(t, 1, f.screenshots.released)
	f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestPipeline_StartSummaryFailureIsNotFatal(t *testing.T) {
	f := newFixture(t, testConfig())
	f.reports.On("Load", mock.Anything, mock.Anything).Return(&TestReport{Tests: 1, PassPercent: 100}, nil)
	f.prs.On("GetPullRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(pr, nil)
	f.screenshots.On("Collect", mock.Anything).Return(assets, nil)
	f.screenshots.On("Compress", mock.Anything, assets).Return(nil)
	f.uploader.On("Upload", mock.Anything, "student", assets).Return(uploaded, nil)
	f.prs.On("CreateComment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.summary.On("Append", mock.Anything).Return(errors.New("read-only file system"))
	f.notifier.On("Notify", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, f.pipeline.Start(context.Background()))
	assert.Equal(t, Completed, f.pipeline.Status)
}

func TestPipeline_StartRecoversPanic(t *testing.T) {
	f := newFixture(t, testConfig())
	f.reports.On("Load", mock.Anything, mock.Anything).Return(&TestReport{Tests: 1, PassPercent: 100}, nil)
	f.prs.On("GetPullRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(pr, nil)
	f.screenshots.On("Collect", mock.Anything).Return(assets, nil)
	f.screenshots.On("Compress", mock.Anything, assets).Return(nil)
	f.uploader.On("Upload", mock.Anything, "student", assets).Return(uploaded, nil)
	f.prs.On("CreateComment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.summary.On("Append", mock.Anything).Return(nil)
	f.notifier.On("Notify", mock.Anything, mock.Anything).Panic("assignment to entry in nil map")

	err := f.pipeline.Start(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.GenericErrRemark))
	assert.Equal(t, Failed, f.pipeline.Status)
	assert.Equal(t, 1, f.screenshots.released)
}

func TestThresholds(t *testing.T) {
	th := Thresholds{MinimumRequiredResult: 80, MinimumScreenshotResult: 100}
	tests := []struct {
		passPercent float64
		wantPassed  bool
		wantEmbed   bool
	}{
		{0, false, false},
		{79.99, false, false},
		{80, true, false},
		{99.9, true, false},
		{100, true, true},
	}
	for _, tt := range tests {
		report := &TestReport{PassPercent: tt.passPercent}
		assert.Equal(t, tt.wantPassed, th.TestsPassed(report), "TestsPassed(%v)", tt.passPercent)
		assert.Equal(t, tt.wantEmbed, th.EmbedScreenshots(report), "EmbedScreenshots(%v)", tt.passPercent)
	}
}

func TestPullRequestInfo_IsFirstPush(t *testing.T) {
	p := &PullRequestInfo{CreatedAt: created, UpdatedAt: created}
	assert.True(t, p.IsFirstPush())
	p.UpdatedAt = created.Add(time.Second)
	assert.False(t, p.IsFirstPush())
}
