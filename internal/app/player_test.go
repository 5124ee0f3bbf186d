// ABOUTME: Tests for player orchestration
// ABOUTME: Tests command handling and sampling loop lifecycle
package app

import (
	"testing"

	"github.com/waveplay/waveplay-go/internal/config"
	"github.com/waveplay/waveplay-go/internal/ui"
	"github.com/waveplay/waveplay-go/pkg/audio"
	"github.com/waveplay/waveplay-go/pkg/device/devicetest"
	"github.com/waveplay/waveplay-go/pkg/frameclock"
)

// stepScheduler dispatches pending ticks on demand
type stepScheduler struct {
	now     float64
	next    frameclock.Handle
	pending map[frameclock.Handle]func(float64)
}

func newStepScheduler() *stepScheduler {
	return &stepScheduler{pending: make(map[frameclock.Handle]func(float64))}
}

func (s *stepScheduler) RequestTick(fn func(timestamp float64)) frameclock.Handle {
	s.next++
	s.pending[s.next] = fn
	return s.next
}

func (s *stepScheduler) CancelTick(h frameclock.Handle) {
	delete(s.pending, h)
}

func (s *stepScheduler) Step(dt float64) {
	s.now += dt
	fire := s.pending
	s.pending = make(map[frameclock.Handle]func(float64))
	for _, fn := range fire {
		fn(s.now)
	}
}

func newTestPlayer(t *testing.T) (*Player, *devicetest.Device, *stepScheduler) {
	t.Helper()
	dev := devicetest.New()
	sched := newStepScheduler()
	p := New(config.Default(), dev, sched)

	asset, err := audio.Tone(440, 10, 48000, 2)
	if err != nil {
		t.Fatalf("failed to build asset: %v", err)
	}
	p.LoadAsset(asset, "tone")

	return p, dev, sched
}

func TestLoadAssetCachesWithoutPlaying(t *testing.T) {
	p, _, _ := newTestPlayer(t)

	if p.IsPlaying() {
		t.Error("loading must not start playback")
	}
	if p.Duration() != 10.0 {
		t.Errorf("expected duration 10.0, got %f", p.Duration())
	}
	if p.Position() != 0 {
		t.Errorf("expected position 0, got %f", p.Position())
	}
}

func TestToggleStartsAndPauses(t *testing.T) {
	p, dev, _ := newTestPlayer(t)

	p.HandleCommand(ui.Command{Action: ui.ActionToggle})
	if !p.IsPlaying() {
		t.Fatal("toggle should start playback")
	}

	dev.Advance(3)
	p.HandleCommand(ui.Command{Action: ui.ActionToggle})
	if p.IsPlaying() {
		t.Fatal("second toggle should pause")
	}
	if got := p.Position(); got < 2.99 || got > 3.01 {
		t.Errorf("expected paused near 3.0, got %f", got)
	}
}

func TestPlayStartsSamplingLoop(t *testing.T) {
	p, _, sched := newTestPlayer(t)

	if len(sched.pending) != 0 {
		t.Fatal("no loop should run before play")
	}

	p.Play()
	if len(sched.pending) != 1 {
		t.Fatalf("expected one pending tick after play, got %d", len(sched.pending))
	}

	// Loop reschedules while playing
	sched.Step(0.016)
	if len(sched.pending) != 1 {
		t.Errorf("loop should have rescheduled, pending=%d", len(sched.pending))
	}
}

func TestPauseTerminatesSamplingLoop(t *testing.T) {
	p, _, sched := newTestPlayer(t)

	p.Play()
	p.Pause()

	// The already-pending tick delivers the final sample, then stops
	sched.Step(0.016)
	if len(sched.pending) != 0 {
		t.Errorf("loop should self-terminate after pause, pending=%d", len(sched.pending))
	}
}

func TestSeekByClampsThroughEngine(t *testing.T) {
	p, _, _ := newTestPlayer(t)

	p.HandleCommand(ui.Command{Action: ui.ActionSeekBy, Value: -100})
	if got := p.Position(); got != 0 {
		t.Errorf("expected clamp to 0, got %f", got)
	}

	p.HandleCommand(ui.Command{Action: ui.ActionSeekBy, Value: 100})
	if got := p.Position(); got != 10.0 {
		t.Errorf("expected clamp to duration, got %f", got)
	}
}

func TestVolumeByAccumulatesAndClamps(t *testing.T) {
	p, _, _ := newTestPlayer(t)

	for i := 0; i < 30; i++ {
		p.HandleCommand(ui.Command{Action: ui.ActionVolumeBy, Value: -0.05})
	}
	if got := p.Volume(); got != 0 {
		t.Errorf("expected volume clamped to 0, got %f", got)
	}

	for i := 0; i < 30; i++ {
		p.HandleCommand(ui.Command{Action: ui.ActionVolumeBy, Value: 0.05})
	}
	if got := p.Volume(); got != 1.0 {
		t.Errorf("expected volume clamped to 1.0, got %f", got)
	}
}

func TestRewindResets(t *testing.T) {
	p, dev, _ := newTestPlayer(t)

	p.Play()
	dev.Advance(4)
	p.HandleCommand(ui.Command{Action: ui.ActionRewind})

	if p.IsPlaying() {
		t.Error("rewind should stop playback")
	}
	if got := p.Position(); got != 0 {
		t.Errorf("expected position 0, got %f", got)
	}
}

func TestNaturalEndStopsPlayback(t *testing.T) {
	p, dev, sched := newTestPlayer(t)

	p.Play()
	dev.Advance(12) // past the 10s asset

	if p.IsPlaying() {
		t.Error("expected stopped after natural end")
	}
	if got := p.Position(); got != 0 {
		t.Errorf("expected position reset to 0, got %f", got)
	}

	// Sampling loop drains on its next tick
	sched.Step(0.016)
	if len(sched.pending) != 0 {
		t.Error("loop should terminate after track end")
	}
}

func TestSlowSampleRepublishesFastSnapshot(t *testing.T) {
	p, dev, _ := newTestPlayer(t)

	p.Play()
	dev.Advance(3)

	p.fastSample(0)

	// A pause landing between the two consumers of one tick must not
	// leak into the slow path's payload
	p.eng.Pause()

	p.mu.Lock()
	st := p.lastStatus
	p.mu.Unlock()

	if !st.Playing {
		t.Error("slow path should republish the fast snapshot, not resample")
	}
	if st.Position < 2.99 || st.Position > 3.01 {
		t.Errorf("expected snapshot position near 3.0, got %f", st.Position)
	}

	msg := positionMsg(st)
	if !msg.Playing || msg.Paused {
		t.Errorf("published bundle must match the snapshot: %+v", msg)
	}
}

func TestPushStatePublishesConsistentBundle(t *testing.T) {
	p, dev, _ := newTestPlayer(t)

	p.Play()
	dev.Advance(2)
	p.Pause()

	p.mu.Lock()
	st := p.lastStatus
	p.mu.Unlock()

	if st.Playing || !st.Paused {
		t.Errorf("expected paused bundle after pause, got %+v", st)
	}
	if st.Position < 1.99 || st.Position > 2.01 {
		t.Errorf("expected position near 2.0, got %f", st.Position)
	}
}

func TestStatusSnapshotsRemoteView(t *testing.T) {
	p, dev, _ := newTestPlayer(t)

	p.Play()
	dev.Advance(4)
	p.Pause()

	st := p.Status()
	if st.Playing || !st.Paused {
		t.Errorf("expected paused remote snapshot, got %+v", st)
	}
	if st.Duration != 10.0 {
		t.Errorf("expected duration 10.0, got %f", st.Duration)
	}
}

func TestCloseDisposes(t *testing.T) {
	p, dev, _ := newTestPlayer(t)

	p.Play()
	p.Close()

	if p.IsPlaying() {
		t.Error("expected stopped after close")
	}
	if !dev.LastGain().Closed() {
		t.Error("gain stage should be released on close")
	}
}
