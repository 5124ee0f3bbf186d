// ABOUTME: Playback engine package
// ABOUTME: Single authority for transport state and derived position
// Package engine drives time-accurate playback of a decoded asset.
//
// The engine owns the audio connection and gain stage exclusively and
// is the single source of truth for "what is the current position, and
// is it advancing". Position is derived from the device's output clock
// rather than accumulated per tick, so a polling loop can never drift
// against the audio hardware.
package engine
