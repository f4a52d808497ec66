package submodule

import "github.com/temirov/repokeeper/internal/gitrepo"

// Submodule describes a nested checkout by remote and parent-relative path.
type Submodule struct {
	name   string
	remote string
	path   string
}

// New constructs a Submodule whose name is derived from remote.
func New(remote string, path string) Submodule {
	return Submodule{remote: remote, path: path}
}

// WithName returns a copy of the submodule that uses an explicit name instead of the derived one.
func (submodule Submodule) WithName(name string) Submodule {
	submodule.name = name
	return submodule
}

// Name returns the explicit name, or the word segment preceding ".git" in the remote.
// It reports false when neither is available.
func (submodule Submodule) Name() (string, bool) {
	if len(submodule.name) > 0 {
		return submodule.name, true
	}
	return gitrepo.ExtractRepositoryName(submodule.remote)
}

// Remote returns the URL the submodule is cloned from.
func (submodule Submodule) Remote() string {
	return submodule.remote
}

// Path returns the location of the submodule relative to the parent repository root.
func (submodule Submodule) Path() string {
	return submodule.path
}

// RegistrationState summarizes how far a submodule has been set up in its parent.
type RegistrationState string

// Registration states.
const (
	RegistrationStateUnregistered            RegistrationState = RegistrationState("unregistered")
	RegistrationStateRegisteredUninitialized RegistrationState = RegistrationState("registered-uninitialized")
	RegistrationStateRegisteredInitialized   RegistrationState = RegistrationState("registered-initialized")
	// RegistrationStateInconsistent marks a local config entry without a matching .gitmodules entry.
	RegistrationStateInconsistent RegistrationState = RegistrationState("inconsistent")
)

// String returns the state label.
func (state RegistrationState) String() string {
	return string(state)
}

// Options configures Init.
type Options struct {
	// PinnedCommit is checked out inside the submodule after initialization when non-empty.
	PinnedCommit string
}
