package testutils

// Various constant defined for to obtain dummy data for tests
const (
	ApplicationConfigPath = "/testutils/testdata/sample_config.json" // ApplicationConfigPath points to dummy config file in json format for CheckConfig
	ReportPath            = "/testutils/testdata/report.json"        // ReportPath points to a mochawesome style report with 10 tests and 1 failure
	UploadResponsePath    = "/testutils/testdata/save_images.json"   // UploadResponsePath points to a dummy media service response
)
