// Package workspace loads a YAML or JSONC manifest of repositories and submodules,
// converges each entry on disk through the repository and submodule services, and
// discovers existing checkouts beneath a directory tree.
package workspace
