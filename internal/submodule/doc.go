// Package submodule registers, initializes, and pins nested checkouts inside a
// parent repository. Registration is read from the parent's .gitmodules and
// initialization from its local config; every mutation is a git invocation.
package submodule
