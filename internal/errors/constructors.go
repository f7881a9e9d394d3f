package errors

import "fmt"

// Convenience constructors for common error patterns

// Config errors

func ConfigNotFound(path string) *SiteError {
	return New(CategoryConfig, SeverityFatal, fmt.Sprintf("configuration file not found: %s", path)).
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *SiteError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Build pipeline errors

// SourceMissing reports a source root that does not exist. The build must
// abort before any destination mutation.
func SourceMissing(path string) *SiteError {
	return New(CategorySourceMissing, SeverityFatal, fmt.Sprintf("source directory not found: %s", path)).
		WithContext("path", path)
}

// RenderFailed reports a template that could not be rendered. The message
// always names the offending page so the CLI surfaces it on failure.
func RenderFailed(page string, cause error) *SiteError {
	return Wrap(cause, CategoryRender, SeverityFatal, fmt.Sprintf("render %s", page)).
		WithContext("page", page)
}

// WriteFailed reports a destination path that could not be created or written.
func WriteFailed(path string, cause error) *SiteError {
	return Wrap(cause, CategoryWrite, SeverityFatal, fmt.Sprintf("write %s", path)).
		WithContext("path", path)
}

func CleanFailed(path string, cause error) *SiteError {
	return Wrap(cause, CategoryWrite, SeverityFatal, fmt.Sprintf("clean %s", path)).
		WithContext("path", path)
}

func CopyFailed(src, dst string, cause error) *SiteError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, fmt.Sprintf("copy %s to %s", src, dst)).
		WithContext("src", src).
		WithContext("dst", dst)
}

// Internal errors

func InternalError(message string, cause error) *SiteError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
