// ABOUTME: Output device abstraction package
// ABOUTME: Defines the playback boundary and the oto-backed implementation
// Package device defines the output-device boundary the playback engine
// drives: connections that play an asset from an offset, a gain stage
// with ramped level changes, and a monotonic output clock.
//
// The production implementation is backed by ebitengine/oto. Tests use
// the devicetest subpackage.
package device
