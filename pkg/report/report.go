// Package report is used for loading and validating the end-to-end test report
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ClevertecFrontendLab/check-test/pkg/core"
	"github.com/ClevertecFrontendLab/check-test/pkg/errs"
	"github.com/ClevertecFrontendLab/check-test/pkg/lumber"
)

// stats mirrors the stats block of a mochawesome report. The decision fields
// are pointers so that an absent key can be told apart from a zero.
type stats struct {
	Tests       *int     `json:"tests"`
	Failures    *int     `json:"failures"`
	PassPercent *float64 `json:"passPercent"`
	Passes      int      `json:"passes"`
	Pending     int      `json:"pending"`
	Skipped     int      `json:"skipped"`
	Suites      int      `json:"suites"`
	Duration    int64    `json:"duration"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
}

type rawReport struct {
	Stats *stats `json:"stats"`
}

type reportLoader struct {
	logger lumber.Logger
}

// New creates and returns a new report loader
func New(logger lumber.Logger) core.ReportLoader {
	return &reportLoader{logger: logger}
}

func (rl *reportLoader) Load(ctx context.Context, path string) (*core.TestReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rl.logger.Debugf("reading test report from %s", path)
	rawBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.ErrReportRead.Wrap(err)
	}
	return Parse(rawBytes)
}

// Parse decodes and validates the raw report
func Parse(rawBytes []byte) (*core.TestReport, error) {
	r := new(rawReport)
	if err := json.Unmarshal(rawBytes, r); err != nil {
		return nil, errs.ErrReportParse.Wrap(err)
	}
	if err := validate(r); err != nil {
		return nil, errs.ErrReportParse.Wrap(err)
	}

	s := r.Stats
	// timestamps are informational, a malformed one is left zero
	report := &core.TestReport{
		Tests:       *s.Tests,
		Failures:    *s.Failures,
		PassPercent: *s.PassPercent,
		Passes:      s.Passes,
		Pending:     s.Pending,
		Skipped:     s.Skipped,
		Suites:      s.Suites,
		Duration:    s.Duration,
		Start:       parseTime(s.Start),
		End:         parseTime(s.End),
	}
	return report, nil
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func validate(r *rawReport) error {
	if r.Stats == nil {
		return errors.New("missing stats")
	}
	if r.Stats.Tests == nil {
		return errors.New("missing stats.tests")
	}
	if r.Stats.Failures == nil {
		return errors.New("missing stats.failures")
	}
	if r.Stats.PassPercent == nil {
		return errors.New("missing stats.passPercent")
	}
	if *r.Stats.Tests < 0 || *r.Stats.Failures < 0 {
		return fmt.Errorf("negative test counts: tests %d, failures %d", *r.Stats.Tests, *r.Stats.Failures)
	}
	if *r.Stats.PassPercent < 0 {
		return fmt.Errorf("negative passPercent %v", *r.Stats.PassPercent)
	}
	return nil
}
