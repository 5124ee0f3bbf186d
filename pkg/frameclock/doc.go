// ABOUTME: Frame clock package
// ABOUTME: Samples engine position per tick with optional throttled fan-out
// Package frameclock decouples high-frequency position sampling from
// expensive consumers. One tick loop samples the transport once per
// scheduler tick and fans the value out to a fast consumer (every
// tick) and/or a slow consumer (at most once per interval). The slow
// path subsamples the fast path, so the two never disagree about the
// position at a given tick.
//
// The loop is self-terminating: once the transport stops playing it
// delivers the final sample and does not reschedule. Restarting
// playback requires starting a new loop.
package frameclock
