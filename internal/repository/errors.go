package repository

import "fmt"

// ErrorKind identifies the lifecycle step that failed. Each kind is also an
// error value usable as an errors.Is target.
type ErrorKind string

// Lifecycle failure kinds.
const (
	ErrorKindFetch            ErrorKind = ErrorKind("fetch")
	ErrorKindLocalRevision    ErrorKind = ErrorKind("local-revision")
	ErrorKindUpstreamRevision ErrorKind = ErrorKind("upstream-revision")
	ErrorKindLog              ErrorKind = ErrorKind("log")
	ErrorKindParentDirectory  ErrorKind = ErrorKind("parent-directory")
	ErrorKindClone            ErrorKind = ErrorKind("clone")
	ErrorKindReset            ErrorKind = ErrorKind("reset")
	ErrorKindClean            ErrorKind = ErrorKind("clean")
	ErrorKindInvalidPath      ErrorKind = ErrorKind("invalid-path")
)

// Error returns the kind label.
func (kind ErrorKind) Error() string {
	return string(kind)
}

var errorKindTemplates = map[ErrorKind]string{
	ErrorKindFetch:            "failed to fetch repository %s: %v",
	ErrorKindLocalRevision:    "failed to read checked out revision of %s: %v",
	ErrorKindUpstreamRevision: "failed to read upstream revision of %s: %v",
	ErrorKindLog:              "failed to read commit log of %s: %v",
	ErrorKindParentDirectory:  "failed to create parent directory of %s: %v",
	ErrorKindClone:            "failed to clone repository into %s: %v",
	ErrorKindReset:            "failed to reset repository %s: %v",
	ErrorKindClean:            "failed to clean repository %s: %v",
}

const (
	parentDirectoryErrorTemplateConstant = "failed to create parent directory %s of %s: %v"
	invalidPathErrorTemplateConstant     = "repository path %s has no final segment"
	unknownErrorTemplateConstant         = "repository %s: %s: %v"
)

// Error reports a failed lifecycle step together with the repository it targeted.
type Error struct {
	Kind           ErrorKind
	RepositoryPath string
	// Path is the directory that could not be created for ErrorKindParentDirectory.
	Path  string
	Cause error
}

// Error renders a complete diagnostic message.
func (failure Error) Error() string {
	if failure.Kind == ErrorKindParentDirectory && len(failure.Path) > 0 {
		return fmt.Sprintf(parentDirectoryErrorTemplateConstant, failure.Path, failure.RepositoryPath, failure.Cause)
	}
	if failure.Kind == ErrorKindInvalidPath {
		return fmt.Sprintf(invalidPathErrorTemplateConstant, failure.RepositoryPath)
	}
	template, known := errorKindTemplates[failure.Kind]
	if !known {
		return fmt.Sprintf(unknownErrorTemplateConstant, failure.RepositoryPath, failure.Kind, failure.Cause)
	}
	return fmt.Sprintf(template, failure.RepositoryPath, failure.Cause)
}

// Unwrap exposes the underlying git or filesystem failure.
func (failure Error) Unwrap() error {
	return failure.Cause
}

// Is matches an ErrorKind target against the failure kind.
func (failure Error) Is(target error) bool {
	kind, isKind := target.(ErrorKind)
	return isKind && kind == failure.Kind
}
