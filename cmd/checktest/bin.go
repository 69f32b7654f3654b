package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ClevertecFrontendLab/check-test/config"
	"github.com/ClevertecFrontendLab/check-test/pkg/actions"
	"github.com/ClevertecFrontendLab/check-test/pkg/commentbuilder"
	"github.com/ClevertecFrontendLab/check-test/pkg/core"
	"github.com/ClevertecFrontendLab/check-test/pkg/errs"
	"github.com/ClevertecFrontendLab/check-test/pkg/global"
	"github.com/ClevertecFrontendLab/check-test/pkg/lumber"
	"github.com/ClevertecFrontendLab/check-test/pkg/mediauploader"
	"github.com/ClevertecFrontendLab/check-test/pkg/notifier"
	"github.com/ClevertecFrontendLab/check-test/pkg/prmanager"
	"github.com/ClevertecFrontendLab/check-test/pkg/report"
	"github.com/ClevertecFrontendLab/check-test/pkg/requestutils"
	"github.com/ClevertecFrontendLab/check-test/pkg/screenshotmanager"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// RootCommand will setup and return the root command
func RootCommand() *cobra.Command {
	rootCmd := cobra.Command{
		Use:     global.BinaryName,
		Long:    `check-test reports the end-to-end test results of a pull request to GitHub and the training backend`,
		Version: global.BinaryVersion,
		Run:     run,
	}

	// define flags used for this command
	AttachCLIFlags(&rootCmd)

	return &rootCmd
}

func run(cmd *cobra.Command, args []string) {
	// Load environment variables from .env if available
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Warning: unable to read .env file: %v\n", err)
	}

	cfg, err := config.LoadCheckConfig(cmd)
	if err != nil {
		fail(os.Stdout, fmt.Errorf("failed to load config: %w", err))
	}
	if err := config.ValidateCfg(cfg); err != nil {
		fail(os.Stdout, err)
	}

	// patch logconfig file location with root level log file location
	if cfg.LogFile != "" {
		cfg.LogConfig.FileLocation = filepath.Join(cfg.LogFile, global.BinaryName+".log")
	}

	// You can also use logrus implementation
	// by using lumber.InstanceLogrusLogger
	logger, err := lumber.NewLogger(cfg.LogConfig, cfg.Verbose, lumber.InstanceZapLogger)
	if err != nil {
		log.Fatalf("Could not instantiate logger %s", err.Error())
	}
	logger = logger.WithFields(lumber.Fields{
		"runID": uuid.NewString(),
		"owner": cfg.Owner,
		"repo":  cfg.Repo,
		"pull":  cfg.PullNumber,
	})
	logger.Infof("check-test version: %s", global.BinaryVersion)

	// cancel the run on C-c or when the runner stops the job
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pl, err := newPipeline(ctx, cfg, logger)
	if err != nil {
		logger.Errorf("Unable to create the pipeline: %+v", err)
		fail(os.Stdout, err)
	}
	if err := pl.Start(ctx); err != nil {
		stop()
		fail(os.Stdout, err)
	}
}

// newPipeline attaches every stage implementation to a fresh pipeline
func newPipeline(ctx context.Context, cfg *config.CheckConfig, logger lumber.Logger) (*core.Pipeline, error) {
	pl, err := core.NewPipeline(cfg, logger)
	if err != nil {
		return nil, err
	}

	pm, err := prmanager.New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	// a failed upload is not retried, the batch is all or nothing
	uploadRequests := requestutils.New(logger, cfg.HTTPTimeout, &backoff.StopBackOff{})
	notifyRequests := requestutils.New(logger, cfg.HTTPTimeout, requestutils.NewExponentialBackOff(cfg.MaxRetries))

	pl.ReportLoader = report.New(logger)
	pl.PullRequestManager = pm
	pl.ScreenshotManager = screenshotmanager.New(cfg, logger)
	pl.MediaUploader = mediauploader.New(uploadRequests, cfg.Host, logger)
	pl.CommentBuilder = commentbuilder.New(pl.Thresholds, cfg.StaticHost)
	pl.Notifier = notifier.New(notifyRequests, cfg.Host, logger)
	if cfg.JobSummary {
		pl.JobSummary = actions.NewSummaryFromEnv()
	}
	return pl, nil
}

// fail marks the step as failed and exits
func fail(w io.Writer, err error) {
	reportFailure(w, err)
	os.Exit(1)
}

// reportFailure annotates the job with err, titled by its error code when it has one
func reportFailure(w io.Writer, err error) {
	actions.SetFailed(w, errs.Code(err), err.Error())
}
