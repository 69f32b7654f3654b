package global

import "time"

// All constants related to check-test
const (
	BinaryName               = "check-test"
	DefaultHost              = "https://training.clevertec.ru"
	DefaultStaticHost        = "https://static.clevertec.ru"
	DefaultReportPath        = "cypress/report/report.json"
	DefaultSpecsDir          = "cypress/e2e"
	DefaultScreenshotsDir    = "cypress/report/screenshots"
	DefaultTempDir           = DefaultScreenshotsDir + "/temp"
	DefaultScreenshotPattern = "**/*.{png,jpg,jpeg}"
	DefaultJPEGQuality       = 70
	DefaultWorkers           = 4
	DefaultAPITimeout        = 45 * time.Second
	DefaultMinimumResult     = 100
	SaveImagesPath           = "/pull-request/save-images"
	PullRequestOpenedPath    = "/pull-request/opened"
	ScreenshotAltText        = "Скриншот автотестов"
	StepSummaryEnv           = "GITHUB_STEP_SUMMARY"
	EnvPrefix                = "INPUT"
	DirectoryPermissions     = 0755
	FilePermissions          = 0644
	JSONContentType          = "application/json;charset=utf-8"
	UploadFieldGithub        = "github"
	UploadFieldFiles         = "files"
)

// BinaryVersion version of the check-test binary, overridden at build time
var BinaryVersion = "dev"
