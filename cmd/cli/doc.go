// Package cli constructs the repokeeper command-line interface, wiring the
// Cobra command hierarchy, the configuration loader, and structured logging.
package cli
