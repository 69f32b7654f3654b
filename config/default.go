package config

import (
	"github.com/ClevertecFrontendLab/check-test/pkg/global"
	"github.com/spf13/viper"
)

func setCheckDefaultConfig() {
	viper.SetDefault("LogConfig.EnableConsole", true)
	viper.SetDefault("LogConfig.ConsoleJSONFormat", false)
	viper.SetDefault("LogConfig.ConsoleLevel", "info")
	viper.SetDefault("LogConfig.EnableFile", false)
	viper.SetDefault("LogConfig.FileJSONFormat", true)
	viper.SetDefault("LogConfig.FileLevel", "debug")
	viper.SetDefault("LogConfig.FileLocation", "./check-test.log")
	viper.SetDefault("host", global.DefaultHost)
	viper.SetDefault("static_host", global.DefaultStaticHost)
	viper.SetDefault("minimum_required_result", global.DefaultMinimumResult)
	viper.SetDefault("minimum_screenshot_result", global.DefaultMinimumResult)
	viper.SetDefault("include_first_push_flag", false)
	viper.SetDefault("report_path", global.DefaultReportPath)
	viper.SetDefault("specs_dir", global.DefaultSpecsDir)
	viper.SetDefault("screenshots_dir", global.DefaultScreenshotsDir)
	viper.SetDefault("screenshot_pattern", global.DefaultScreenshotPattern)
	viper.SetDefault("temp_dir", global.DefaultTempDir)
	viper.SetDefault("compress", true)
	viper.SetDefault("jpeg_quality", global.DefaultJPEGQuality)
	viper.SetDefault("workers", global.DefaultWorkers)
	viper.SetDefault("http_timeout", global.DefaultAPITimeout)
	viper.SetDefault("max_retries", 0)
	viper.SetDefault("job_summary", true)
	viper.SetDefault("Verbose", false)
}
