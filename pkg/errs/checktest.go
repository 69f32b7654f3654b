package errs

import (
	"fmt"
	"strings"
)

// ErrMissingInput should be thrown when a required input is absent.
func ErrMissingInput(name string) Err {
	return Err{
		Code:    "ERR::CFG::MISSING",
		Message: fmt.Sprintf("Input required and not supplied: %s", name)}
}

// ErrInvalidConfig function returns error with code ERR::CFG::VLD
func ErrInvalidConfig(errs []string) Err {
	return Err{
		Code:    "ERR::CFG::VLD",
		Message: fmt.Sprintf("Validation errors :  \n%s", strings.Join(errs, "\n"))}
}

// ErrReportRead should be thrown when the test report cannot be read
var ErrReportRead = Err{
	Code:    "ERR::REPORT::IO",
	Message: "Unable to read test report"}

// ErrReportParse should be thrown when the test report is not valid json
// or lacks the stats block
var ErrReportParse = Err{
	Code:    "ERR::REPORT::PARSE",
	Message: "Unable to parse test report"}

// ErrGitHubAuth should be thrown when GitHub rejects the access token
var ErrGitHubAuth = Err{
	Code:    "ERR::GH::AUTH",
	Message: "GitHub rejected the access token"}

// ErrPullRequestNotFound should be thrown when the pull request does not exist
var ErrPullRequestNotFound = Err{
	Code:    "ERR::GH::NF",
	Message: "Pull request not found"}

// ErrGitHubTransport should be thrown for any other failed GitHub API call
var ErrGitHubTransport = Err{
	Code:    "ERR::GH::TRANSPORT",
	Message: "GitHub API request failed"}

// ErrScreenshotDir should be thrown when the screenshot directory cannot be resolved
var ErrScreenshotDir = Err{
	Code:    "ERR::SCR::DIR",
	Message: "Unable to resolve screenshot directory"}

// ErrCompress should be thrown when at least one screenshot failed to compress
var ErrCompress = Err{
	Code:    "ERR::SCR::COMPRESS",
	Message: "Unable to compress screenshots"}

// ErrUpload should be thrown when the media endpoint rejects the screenshots
var ErrUpload = Err{
	Code:    "ERR::MEDIA::UPLOAD",
	Message: "Unable to upload screenshots"}

// ErrNotify should be thrown when the tracking backend could not be notified
var ErrNotify = Err{
	Code:    "ERR::NOTIFY",
	Message: "Unable to notify tracking backend"}

// ErrDirCrt function returns error with code "ERR::DIR::CRT"
func ErrDirCrt(err string) Err {
	return Err{
		Code:    "ERR::DIR::CRT",
		Message: fmt.Sprintf("Unable to create directory :  \n%s", err)}
}

// ErrDirDel function returns error with code "ERR::DIR::DEL"
func ErrDirDel(err string) Err {
	return Err{
		Code:    "ERR::DIR::DEL",
		Message: fmt.Sprintf("Unable to delete directory :  \n%s", err)}
}
