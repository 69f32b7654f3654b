// Package commentbuilder renders the test results comment posted on a pull request
package commentbuilder

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/ClevertecFrontendLab/check-test/pkg/core"
	"github.com/ClevertecFrontendLab/check-test/pkg/global"
)

var whitespaceRun = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)

type commentBuilder struct {
	thresholds core.Thresholds
	staticHost string
}

// New returns a CommentBuilder bound to the run thresholds and the CDN host
func New(thresholds core.Thresholds, staticHost string) core.CommentBuilder {
	return &commentBuilder{thresholds: thresholds, staticHost: staticHost}
}

func (cb *commentBuilder) Build(report *core.TestReport, screenshots []core.UploadedScreenshot) string {
	return Build(report, screenshots, cb.thresholds, cb.staticHost)
}

// Build renders the summary of report and, when the pass percentage reaches
// the screenshot threshold, one block per uploaded screenshot in order.
func Build(report *core.TestReport, screenshots []core.UploadedScreenshot, thresholds core.Thresholds, staticHost string) string {
	var b strings.Builder
	b.WriteString("# Результаты тестов\n")
	fmt.Fprintf(&b, "Процент пройденных тестов: %d%%.\n", int64(math.Trunc(report.PassPercent)))
	fmt.Fprintf(&b, "Общее количество тестов: %d.\n", report.Tests)
	fmt.Fprintf(&b, "Количество непройденных тестов: %d.\n", report.Failures)

	if !thresholds.EmbedScreenshots(report) {
		return b.String()
	}
	for _, s := range screenshots {
		b.WriteString("***\n")
		fmt.Fprintf(&b, "**%s**\n", s.Name)
		fmt.Fprintf(&b, "![%s](%s%s)\n", global.ScreenshotAltText, staticHost, EncodeWhitespace(s.URL))
	}
	return b.String()
}

// EncodeWhitespace replaces every run of whitespace with %20
func EncodeWhitespace(url string) string {
	return whitespaceRun.ReplaceAllString(url, "%20")
}
