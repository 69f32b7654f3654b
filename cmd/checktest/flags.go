package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// normalizeFlagName lets --pull-number and --pull_number address the same key
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "-", "_"))
}

// AttachCLIFlags attaches command line flags to command. Defaults live in the
// config package so that INPUT_ env vars and config files can override them.
func AttachCLIFlags(rootCmd *cobra.Command) {
	flags := rootCmd.Flags()
	flags.SetNormalizeFunc(normalizeFlagName)

	flags.StringP("config", "c", "", "the config file to use")
	flags.BoolP("verbose", "", false, "Run in verbose mode")
	flags.String("log_file", "", "Directory for the log file")

	flags.String("owner", "", "Owner of the repository")
	flags.String("repo", "", "Name of the repository")
	flags.String("pull_number", "", "Number of the pull request under test")
	flags.String("token", "", "GitHub access token")
	flags.String("host", "", "Base URL of the tracking and media backend")
	flags.String("static_host", "", "Base URL prefixed to uploaded screenshot paths")
	flags.String("github_api_url", "", "GitHub Enterprise API URL")

	flags.Float64("minimum_required_result", 0, "Pass percentage reported as success (default 100)")
	flags.Float64("minimum_screenshot_result", 0, "Pass percentage required to embed screenshots (default 100)")
	flags.Bool("include_first_push_flag", false, "Send isFirstPush to the tracking backend")

	flags.String("report_path", "", "Path of the json test report")
	flags.String("specs_dir", "", "Directory of the spec files")
	flags.String("screenshots_dir", "", "Directory of the screenshots")
	flags.String("spec_name", "", "Screenshot subdirectory to upload")
	flags.String("screenshot_pattern", "", "Glob of the screenshot files to upload")
	flags.String("temp_dir", "", "Work directory for compressed screenshots")

	flags.Bool("compress", false, "Re-encode screenshots as jpeg before upload (default true)")
	flags.Int("jpeg_quality", 0, "Quality of the re-encoded screenshots (default 70)")
	flags.Int("workers", 0, "Number of concurrent compressions (default 4)")
	flags.Duration("http_timeout", 0, "Timeout of every outbound http call (default 45s)")
	flags.Int("max_retries", 0, "Retries of the tracking backend call")
	flags.Bool("job_summary", false, "Write the comment to the job summary (default true)")
}
