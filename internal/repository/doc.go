// Package repository implements the lifecycle of a single shallow git checkout.
//
// Service.Status reports whether the checkout at a path matches its upstream
// branch, and Service.Update converges the path onto the tip of the remote's
// master branch: a shallow single-branch clone when the path is absent, or a
// shallow fetch, hard reset, and clean (keeping /target) when it exists. All
// state is re-read from disk and from git on every call.
package repository
