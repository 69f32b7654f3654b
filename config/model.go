package config

import (
	"strconv"
	"time"

	"github.com/ClevertecFrontendLab/check-test/pkg/lumber"
)

// Model definition for configuration

// CheckConfig is the application's configuration
type CheckConfig struct {
	Config                  string
	Owner                   string        `json:"owner" validate:"required"`
	Repo                    string        `json:"repo" validate:"required"`
	PullNumber              string        `json:"pull_number" validate:"required,positive_int"`
	Token                   string        `json:"token" validate:"required"`
	Host                    string        `json:"host" validate:"required,url"`
	StaticHost              string        `json:"static_host" validate:"required,url"`
	GithubAPIURL            string        `json:"github_api_url" validate:"omitempty,url"`
	MinimumRequiredResult   float64       `json:"minimum_required_result" validate:"gte=0,lte=100"`
	MinimumScreenshotResult float64       `json:"minimum_screenshot_result" validate:"gte=0,lte=100"`
	IncludeFirstPushFlag    bool          `json:"include_first_push_flag"`
	ReportPath              string        `json:"report_path" validate:"required"`
	SpecsDir                string        `json:"specs_dir"`
	ScreenshotsDir          string        `json:"screenshots_dir" validate:"required"`
	SpecName                string        `json:"spec_name"`
	ScreenshotPattern       string        `json:"screenshot_pattern" validate:"required"`
	TempDir                 string        `json:"temp_dir" validate:"required"`
	Compress                bool          `json:"compress"`
	JPEGQuality             int           `json:"jpeg_quality" validate:"min=1,max=100"`
	Workers                 int           `json:"workers" validate:"min=1"`
	HTTPTimeout             time.Duration `json:"http_timeout" validate:"gt=0"`
	MaxRetries              int           `json:"max_retries" validate:"min=0"`
	JobSummary              bool          `json:"job_summary"`
	LogFile                 string        `json:"log_file"`
	LogConfig               lumber.LoggingConfig
	Verbose                 bool
}

// PullRequestNumber returns the numeric form of PullNumber.
// It is only meaningful on a validated config.
func (c *CheckConfig) PullRequestNumber() int {
	n, _ := strconv.Atoi(c.PullNumber)
	return n
}
