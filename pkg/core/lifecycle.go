package core

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/ClevertecFrontendLab/check-test/config"
	"github.com/ClevertecFrontendLab/check-test/pkg/errs"
	"github.com/ClevertecFrontendLab/check-test/pkg/lumber"
)

// NewPipeline creates and returns a new Pipeline instance
func NewPipeline(cfg *config.CheckConfig, logger lumber.Logger) (*Pipeline, error) {
	return &Pipeline{
		Cfg:    cfg,
		Logger: logger,
		Thresholds: Thresholds{
			MinimumRequiredResult:   cfg.MinimumRequiredResult,
			MinimumScreenshotResult: cfg.MinimumScreenshotResult,
		},
	}, nil
}

// Start starts pipeline lifecycle. The stages run strictly one after the
// other and the first failing stage aborts the run.
func (pl *Pipeline) Start(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	startTime := time.Now()
	pl.Logger.Debugf("Starting pipeline.....")

	// record the run status when pipeline exits
	defer func() {
		if p := recover(); p != nil {
			pl.Logger.Errorf("panic stack trace: %v\n%s", p, string(debug.Stack()))
			err = fmt.Errorf("%w: %v", errs.GenericErrRemark, p)
		}
		if err != nil {
			pl.Status = Failed
			if errors.Is(err, context.Canceled) {
				pl.Logger.Errorf("Run aborted: %v", err)
			} else {
				pl.Logger.Errorf("Run failed: %v", err)
			}
		} else {
			pl.Status = Completed
		}
		pl.Logger.Infof("Run %s in %s", pl.Status, time.Since(startTime).Round(time.Millisecond))
	}()

	// the report is read before anything touches the network
	report, err := pl.ReportLoader.Load(ctx, pl.Cfg.ReportPath)
	if err != nil {
		pl.Logger.Errorf("Unable to load test report %s, error: %v", pl.Cfg.ReportPath, err)
		return err
	}
	pl.Logger.Infof("Test report: %d tests, %d failures, %.2f%% passed (%d ms)",
		report.Tests, report.Failures, report.PassPercent, report.Duration)
	testsPassed := pl.Thresholds.TestsPassed(report)

	number := pl.Cfg.PullRequestNumber()
	pr, err := pl.PullRequestManager.GetPullRequest(ctx, pl.Cfg.Owner, pl.Cfg.Repo, number)
	if err != nil {
		pl.Logger.Errorf("Unable to fetch pull request #%d, error: %v", number, err)
		return err
	}
	pl.Logger.Infof("Pull request #%d %q by %s", pr.Number, pr.Title, pr.AuthorLogin)

	assets, err := pl.ScreenshotManager.Collect(ctx)
	if err != nil {
		pl.Logger.Errorf("Unable to collect screenshots, error: %v", err)
		return err
	}
	release, err := pl.ScreenshotManager.Compress(ctx, assets)
	defer release()
	if err != nil {
		pl.Logger.Errorf("Unable to compress screenshots, error: %v", err)
		return err
	}
	uploaded, err := pl.MediaUploader.Upload(ctx, pr.AuthorLogin, assets)
	if err != nil {
		pl.Logger.Errorf("Unable to upload screenshots, error: %v", err)
		return err
	}

	body := pl.CommentBuilder.Build(report, uploaded)
	if err = pl.PullRequestManager.CreateComment(ctx, pl.Cfg.Owner, pl.Cfg.Repo, number, body); err != nil {
		pl.Logger.Errorf("Unable to comment on pull request #%d, error: %v", number, err)
		return err
	}
	if pl.JobSummary != nil {
		if summaryErr := pl.JobSummary.Append(body); summaryErr != nil {
			pl.Logger.Warnf("Unable to write job summary: %v", summaryErr)
		}
	}

	payload := &NotificationPayload{
		Link:           pr.HTMLURL,
		GithubLogin:    pr.AuthorLogin,
		IsTestsSuccess: testsPassed,
		PullNumber:     pl.Cfg.PullNumber,
	}
	if pl.Cfg.IncludeFirstPushFlag {
		firstPush := pr.IsFirstPush()
		payload.IsFirstPush = &firstPush
	}
	if err = pl.Notifier.Notify(ctx, payload); err != nil {
		pl.Logger.Errorf("Unable to notify tracking backend, error: %v", err)
		return err
	}
	pl.Logger.Infof("Tracking backend notified, tests passed: %t", testsPassed)

	return nil
}
