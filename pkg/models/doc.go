// Package models holds the data shared by the counting pipeline: the targets
// discovered by the walker, the statistics produced for each of them, and the
// report assembled once every target is resolved.
//
// All values are built once and treated as read-only afterwards.
package models
