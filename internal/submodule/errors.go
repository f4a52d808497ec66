package submodule

import "fmt"

// ErrorKind identifies the step of submodule set up that failed. Each kind is
// also an error value usable as an errors.Is target.
type ErrorKind string

// Submodule failure kinds.
const (
	ErrorKindNameMissing   ErrorKind = ErrorKind("name-missing")
	ErrorKindManifestQuery ErrorKind = ErrorKind("manifest-query")
	ErrorKindConfigQuery   ErrorKind = ErrorKind("config-query")
	ErrorKindPathEncoding  ErrorKind = ErrorKind("path-encoding")
	ErrorKindPathAbsolute  ErrorKind = ErrorKind("path-absolute")
	ErrorKindAdd           ErrorKind = ErrorKind("add")
	ErrorKindInit          ErrorKind = ErrorKind("init")
	ErrorKindCheckout      ErrorKind = ErrorKind("checkout")
)

// Error returns the kind label.
func (kind ErrorKind) Error() string {
	return string(kind)
}

const (
	nameMissingErrorTemplateConstant   = "failed to infer name for submodule at remote %q; specify a name explicitly"
	metadataQueryErrorTemplateConstant = "failed to check %q for submodule %q: %v"
	pathEncodingErrorTemplateConstant  = "submodule path %q is not valid UTF-8"
	pathAbsoluteErrorTemplateConstant  = "submodule path %q must be relative to its parent"
	addErrorTemplateConstant           = "failed to add submodule %q with remote %q and path %q: %v"
	initErrorTemplateConstant          = "failed to init submodule %q with remote %q and path %q: %v"
	checkoutErrorTemplateConstant      = "failed to checkout commit %q from submodule %q with remote %q and path %q: %v"
	unknownErrorTemplateConstant       = "submodule %q: %s: %v"
	modulesFileLabelConstant           = ".gitmodules"
	localConfigFileLabelConstant       = ".git/config"
)

// Error reports a failed submodule operation together with the submodule it targeted.
type Error struct {
	Submodule Submodule
	Kind      ErrorKind
	// Commit is the pinned revision for ErrorKindCheckout.
	Commit string
	Cause  error
}

// Error renders a complete diagnostic message.
func (failure Error) Error() string {
	name, _ := failure.Submodule.Name()
	remote := failure.Submodule.Remote()
	path := failure.Submodule.Path()

	switch failure.Kind {
	case ErrorKindNameMissing:
		return fmt.Sprintf(nameMissingErrorTemplateConstant, remote)
	case ErrorKindManifestQuery:
		return fmt.Sprintf(metadataQueryErrorTemplateConstant, modulesFileLabelConstant, name, failure.Cause)
	case ErrorKindConfigQuery:
		return fmt.Sprintf(metadataQueryErrorTemplateConstant, localConfigFileLabelConstant, name, failure.Cause)
	case ErrorKindPathEncoding:
		return fmt.Sprintf(pathEncodingErrorTemplateConstant, path)
	case ErrorKindPathAbsolute:
		return fmt.Sprintf(pathAbsoluteErrorTemplateConstant, path)
	case ErrorKindAdd:
		return fmt.Sprintf(addErrorTemplateConstant, name, remote, path, failure.Cause)
	case ErrorKindInit:
		return fmt.Sprintf(initErrorTemplateConstant, name, remote, path, failure.Cause)
	case ErrorKindCheckout:
		return fmt.Sprintf(checkoutErrorTemplateConstant, failure.Commit, name, remote, path, failure.Cause)
	default:
		return fmt.Sprintf(unknownErrorTemplateConstant, name, failure.Kind, failure.Cause)
	}
}

// Unwrap exposes the underlying failure. Name and path validation failures have none.
func (failure Error) Unwrap() error {
	return failure.Cause
}

// Is matches an ErrorKind target against the failure kind.
func (failure Error) Is(target error) bool {
	kind, isKind := target.(ErrorKind)
	return isKind && kind == failure.Kind
}
