package repository

import "path/filepath"

// Status is the freshness verdict of a checkout relative to its upstream branch.
type Status string

// Freshness verdicts.
const (
	StatusStale Status = Status("stale")
	StatusFresh Status = Status("fresh")
)

// Stale reports whether the checkout needs an update.
func (status Status) Stale() bool {
	return status != StatusFresh
}

// String returns the verdict label.
func (status Status) String() string {
	return string(status)
}

// Repository identifies a checkout by its filesystem path.
type Repository struct {
	path string
}

// New constructs a Repository for path. The path is cleaned but not resolved.
func New(path string) Repository {
	return Repository{path: filepath.Clean(path)}
}

// Path returns the checkout location.
func (repository Repository) Path() string {
	return repository.path
}

// Name returns the final segment of the checkout path and false when the path has none.
func (repository Repository) Name() (string, bool) {
	if repository.path == filepath.Dir(repository.path) {
		return "", false
	}
	return filepath.Base(repository.path), true
}

// ParentPath returns the directory that contains the checkout.
func (repository Repository) ParentPath() string {
	return filepath.Dir(repository.path)
}
