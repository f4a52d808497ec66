// Package ui renders git command lifecycle events as concise console lines
// while the structured debug trail keeps flowing through zap.
package ui
