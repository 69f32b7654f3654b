// Package actions talks to the GitHub Actions runner through workflow
// commands and the files it exposes to a step.
package actions

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ClevertecFrontendLab/check-test/pkg/core"
	"github.com/ClevertecFrontendLab/check-test/pkg/global"
)

var (
	commandEscaper  = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")
	propertyEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C")
)

// SetFailed prints the ::error:: workflow command for msg, which marks the
// step as failed in the job log. A non empty title becomes the annotation title.
func SetFailed(w io.Writer, title, msg string) {
	if title == "" {
		fmt.Fprintf(w, "::error::%s\n", commandEscaper.Replace(msg))
		return
	}
	fmt.Fprintf(w, "::error title=%s::%s\n", propertyEscaper.Replace(title), commandEscaper.Replace(msg))
}

type summary struct {
	path string
}

// NewSummary returns a JobSummary appending to path. An empty path
// turns Append into a no-op.
func NewSummary(path string) core.JobSummary {
	return &summary{path: path}
}

// NewSummaryFromEnv returns a JobSummary bound to $GITHUB_STEP_SUMMARY
func NewSummaryFromEnv() core.JobSummary {
	return NewSummary(os.Getenv(global.StepSummaryEnv))
}

func (s *summary) Append(markdown string) error {
	if s.path == "" {
		return nil
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, global.FilePermissions)
	if err != nil {
		return fmt.Errorf("failed to open summary file: %w", err)
	}
	defer f.Close()

	if !strings.HasSuffix(markdown, "\n") {
		markdown += "\n"
	}
	_, err = f.WriteString(markdown)
	return err
}
