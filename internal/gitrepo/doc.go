// Package gitrepo holds the git-facing primitives shared by the repository
// and submodule controllers: remote URL parsing, repository name extraction,
// and read access to a repository's submodule manifest and local config.
package gitrepo
