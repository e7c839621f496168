// Package debug exposes the build-tagged debug flag. Building with
// -tags=debug keeps logging enabled under go test.
package debug
