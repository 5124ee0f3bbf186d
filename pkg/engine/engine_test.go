// ABOUTME: Tests for the playback engine
// ABOUTME: Tests transport state machine, clamping, and end notification
package engine

import (
	"math"
	"testing"

	"github.com/waveplay/waveplay-go/pkg/audio"
	"github.com/waveplay/waveplay-go/pkg/device/devicetest"
)

// testAsset builds a stereo asset of the given duration at 48kHz
func testAsset(t *testing.T, seconds float64) *audio.Asset {
	t.Helper()
	samples := make([]int32, int(seconds*48000)*2)
	asset, err := audio.NewAsset(samples, audio.Format{
		Codec:      "pcm",
		SampleRate: 48000,
		Channels:   2,
		BitDepth:   16,
	})
	if err != nil {
		t.Fatalf("failed to create asset: %v", err)
	}
	return asset
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 0.0001
}

func TestPlayStartsFromZero(t *testing.T) {
	dev := devicetest.New()
	e := New(dev)

	e.Play(testAsset(t, 30))

	if !e.IsPlaying() {
		t.Fatal("expected playing after Play")
	}

	conn := dev.LastConn()
	if conn == nil || !conn.Started {
		t.Fatal("expected a started connection")
	}
	if conn.Offset != 0 {
		t.Errorf("expected start at offset 0, got %f", conn.Offset)
	}
	if dev.Resumes() != 1 {
		t.Errorf("expected one resume attempt before start, got %d", dev.Resumes())
	}
}

func TestPlayWithNoAssetIsNoOp(t *testing.T) {
	dev := devicetest.New()
	e := New(dev)

	e.Play(nil)

	if e.IsPlaying() {
		t.Error("play without an asset should be a no-op")
	}
	if dev.LastConn() != nil {
		t.Error("no connection should have been created")
	}
}

func TestPositionAdvancesWithClock(t *testing.T) {
	dev := devicetest.New()
	e := New(dev)

	e.Play(testAsset(t, 30))
	dev.Advance(5)

	if got := e.Position(); !approx(got, 5.0) {
		t.Errorf("expected position 5.0, got %f", got)
	}
}

func TestPositionMonotonicWhilePlaying(t *testing.T) {
	dev := devicetest.New()
	e := New(dev)
	e.Play(testAsset(t, 30))

	last := e.Position()
	for i := 0; i < 100; i++ {
		dev.Advance(0.016)
		pos := e.Position()
		if pos < last {
			t.Fatalf("position decreased: %f -> %f", last, pos)
		}
		last = pos
	}
}

func TestPositionClampedToDuration(t *testing.T) {
	dev := devicetest.New()
	dev.HoldEnd = true
	e := New(dev)

	// 30s asset, clock runs 35s: position pins at the end while the
	// completion notification is still in flight
	e.Play(testAsset(t, 30))
	dev.Advance(35)

	if got := e.Position(); !approx(got, 30.0) {
		t.Errorf("expected position clamped to 30.0, got %f", got)
	}
	if !e.IsPlaying() {
		t.Error("still playing until the end notification lands")
	}
}

func TestNaturalEndScenario(t *testing.T) {
	dev := devicetest.New()
	e := New(dev)

	var endCount int
	e.SetOnEnded(func() { endCount++ })

	e.Play(testAsset(t, 30))
	dev.Advance(35)

	if endCount != 1 {
		t.Errorf("expected end callback exactly once, got %d", endCount)
	}
	if e.IsPlaying() {
		t.Error("expected playback stopped after natural end")
	}
	if got := e.Position(); got != 0 {
		t.Errorf("expected position reset to 0 after natural end, got %f", got)
	}

	// Advancing further must not re-fire
	dev.Advance(10)
	if endCount != 1 {
		t.Errorf("end callback re-fired: %d", endCount)
	}
}

func TestStaleEndDiscardedAfterNewPlay(t *testing.T) {
	dev := devicetest.New()
	dev.HoldEnd = true
	e := New(dev)

	var endCount int
	e.SetOnEnded(func() { endCount++ })

	first := testAsset(t, 10)
	second := testAsset(t, 20)

	e.Play(first)
	dev.Advance(15) // first asset played out; end held pending

	e.Play(second) // supersedes the first connection

	dev.FireEnds() // stale completion from the first connection

	if endCount != 0 {
		t.Errorf("stale end notification should be discarded, fired %d times", endCount)
	}
	if !e.IsPlaying() {
		t.Error("second playback should be unaffected by the stale end")
	}

	// The second asset's own completion still counts
	dev.HoldEnd = false
	dev.Advance(25)
	if endCount != 1 {
		t.Errorf("expected the legitimate end to fire once, got %d", endCount)
	}
}

func TestDuplicateEndDiscardedAfterNaturalEnd(t *testing.T) {
	dev := devicetest.New()
	e := New(dev)

	var endCount int
	e.SetOnEnded(func() { endCount++ })

	e.Play(testAsset(t, 10))
	ended := dev.LastConn()

	dev.Advance(12) // natural end; no teardown in between
	if endCount != 1 {
		t.Fatalf("expected one end notification, got %d", endCount)
	}

	e.Play(testAsset(t, 20))

	// A device misdelivering a second end event for the finished
	// connection must not touch the new playback
	ended.FireEnd()

	if endCount != 1 {
		t.Errorf("duplicate end notification should be discarded, fired %d times", endCount)
	}
	if !e.IsPlaying() {
		t.Error("new playback should be unaffected by the duplicate end")
	}
}

func TestPauseFreezesPosition(t *testing.T) {
	dev := devicetest.New()
	e := New(dev)

	e.Play(testAsset(t, 30))
	dev.Advance(7)
	e.Pause()

	if e.IsPlaying() {
		t.Fatal("expected paused")
	}
	if got := e.Position(); !approx(got, 7.0) {
		t.Errorf("expected frozen position 7.0, got %f", got)
	}

	// Clock keeps running; position must not
	dev.Advance(10)
	if got := e.Position(); !approx(got, 7.0) {
		t.Errorf("paused position moved to %f", got)
	}
}

func TestPauseIdempotent(t *testing.T) {
	dev := devicetest.New()
	e := New(dev)

	e.Play(testAsset(t, 30))
	dev.Advance(3)

	e.Pause()
	once := e.Position()
	e.Pause()
	twice := e.Position()

	if once != twice {
		t.Errorf("double pause changed position: %f != %f", once, twice)
	}

	if dev.LastConn().Stops != 1 {
		t.Errorf("second pause should not touch the connection again, stops=%d", dev.LastConn().Stops)
	}
}

func TestPausedStateDistinctFromStopped(t *testing.T) {
	dev := devicetest.New()
	e := New(dev)

	if e.IsPaused() {
		t.Error("fresh engine is stopped, not paused")
	}

	// Pause with no clock advance: still paused, even at position 0
	e.Play(testAsset(t, 10))
	e.Pause()
	if !e.IsPaused() {
		t.Error("expected paused after Pause at position 0")
	}

	e.Play(nil)
	if e.IsPaused() {
		t.Error("resuming clears paused")
	}

	e.Stop()
	if e.IsPaused() {
		t.Error("Stop yields stopped, not paused")
	}

	e.Play(nil)
	e.Pause()
	e.Reset()
	if e.IsPaused() {
		t.Error("Reset yields stopped, not paused")
	}
}

func TestStatusIsConsistentSnapshot(t *testing.T) {
	dev := devicetest.New()
	e := New(dev)

	e.Play(testAsset(t, 10))
	dev.Advance(4)
	e.Pause()

	st := e.Status()
	if st.Playing || !st.Paused {
		t.Errorf("expected paused status, got %+v", st)
	}
	if !approx(st.Position, 4.0) {
		t.Errorf("expected position 4.0, got %f", st.Position)
	}
	if !approx(st.Duration, 10.0) {
		t.Errorf("expected duration 10.0, got %f", st.Duration)
	}
	if !approx(st.Volume, 1.0) {
		t.Errorf("expected volume 1.0, got %f", st.Volume)
	}
}

func TestStopPreservesSegmentStart(t *testing.T) {
	dev := devicetest.New()
	e := New(dev)

	asset := testAsset(t, 30)
	e.Play(asset)
	dev.Advance(5)
	e.Stop()

	// Stop does not capture the advanced position: the offset stays at
	// the segment start, so replay begins from 0
	if got := e.Position(); got != 0 {
		t.Errorf("expected position 0 after play-from-0 then stop, got %f", got)
	}

	e.Play(nil)
	if got := dev.LastConn().Offset; got != 0 {
		t.Errorf("replay should start from 0, got %f", got)
	}
}

func TestStopAfterSeekKeepsOffset(t *testing.T) {
	dev := devicetest.New()
	e := New(dev)

	e.Seek(12, testAsset(t, 30))
	e.Play(nil)
	dev.Advance(5)
	e.Stop()

	// Offset was 12 when the segment began; stop leaves it there
	if got := e.Position(); !approx(got, 12.0) {
		t.Errorf("expected position 12.0 after stop, got %f", got)
	}
}

func TestStopWhenStoppedIsNoOp(t *testing.T) {
	dev := devicetest.New()
	e := New(dev)

	e.Stop()
	e.Stop()

	if dev.LastConn() != nil {
		t.Error("stop with no playback should not create connections")
	}
}

func TestSeekClamps(t *testing.T) {
	tests := []struct {
		seek float64
		want float64
	}{
		{-5.0, 0},
		{-0.001, 0},
		{0, 0},
		{15, 15},
		{30, 30},
		{31, 30},
		{1e9, 30},
	}

	for _, tt := range tests {
		dev := devicetest.New()
		e := New(dev)
		e.Seek(tt.seek, testAsset(t, 30))

		if got := e.Position(); !approx(got, tt.want) {
			t.Errorf("Seek(%f): position = %f, want %f", tt.seek, got, tt.want)
		}
	}
}

func TestSeekWithNoAssetIsNoOp(t *testing.T) {
	dev := devicetest.New()
	e := New(dev)

	e.Seek(10, nil)

	if got := e.Position(); got != 0 {
		t.Errorf("seek without asset should not move position, got %f", got)
	}
}

func TestSeekWhilePausedDoesNotStart(t *testing.T) {
	dev := devicetest.New()
	e := New(dev)

	e.Seek(10, testAsset(t, 30))

	if e.IsPlaying() {
		t.Error("seek while stopped should not start playback")
	}
	if dev.LastConn() != nil {
		t.Error("seek while stopped should not create a connection")
	}
}

func TestSeekWhilePlayingRebinds(t *testing.T) {
	dev := devicetest.New()
	e := New(dev)

	e.Play(testAsset(t, 30))
	dev.Advance(5)
	e.Seek(20, nil)

	if !e.IsPlaying() {
		t.Fatal("seek during playback should keep playing")
	}

	conns := dev.Conns()
	if len(conns) != 2 {
		t.Fatalf("expected re-bound connection, got %d connections", len(conns))
	}
	if conns[0].Stops == 0 {
		t.Error("previous connection should have been torn down")
	}
	if got := conns[1].Offset; !approx(got, 20.0) {
		t.Errorf("new segment should start at 20, got %f", got)
	}
}

func TestPauseSeekPlayRoundTrip(t *testing.T) {
	dev := devicetest.New()
	e := New(dev)

	e.Play(testAsset(t, 30))
	dev.Advance(9)

	t1 := e.Position()
	e.Pause()
	e.Seek(t1, nil)
	e.Play(nil)

	if got := e.Position(); !approx(got, t1) {
		t.Errorf("round trip should continue from %f, got %f", t1, got)
	}

	dev.Advance(1)
	if got := e.Position(); !approx(got, t1+1) {
		t.Errorf("expected position %f, got %f", t1+1, got)
	}
}

func TestReset(t *testing.T) {
	dev := devicetest.New()
	e := New(dev)

	e.Seek(12, testAsset(t, 30))
	e.Play(nil)
	dev.Advance(3)
	e.Reset()

	if e.IsPlaying() {
		t.Error("expected stopped after reset")
	}
	if got := e.Position(); got != 0 {
		t.Errorf("expected position 0 after reset, got %f", got)
	}
}

func TestSetVolumeClamps(t *testing.T) {
	for _, v := range []float64{-1.0, -0.5, 0.0, 0.25, 0.5, 1.0, 1.5, 2.0} {
		dev := devicetest.New()
		e := New(dev)
		e.SetVolume(v)

		want := v
		if want < 0 {
			want = 0
		}
		if want > 1 {
			want = 1
		}

		if got := dev.LastGain().Level(); got != want {
			t.Errorf("SetVolume(%f): applied level %f, want %f", v, got, want)
		}
	}
}

func TestSetVolumeRamps(t *testing.T) {
	dev := devicetest.New()
	e := New(dev)

	e.SetVolume(0.5)

	sets := dev.LastGain().Sets
	if len(sets) != 1 {
		t.Fatalf("expected one gain change, got %d", len(sets))
	}
	if sets[0].RampSeconds <= 0 {
		t.Error("volume change must be ramped, not instantaneous")
	}
}

func TestReplayTearsDownPrevious(t *testing.T) {
	dev := devicetest.New()
	e := New(dev)

	asset := testAsset(t, 30)
	e.Play(asset)
	e.Play(asset)

	conns := dev.Conns()
	if len(conns) != 2 {
		t.Fatalf("expected 2 connections, got %d", len(conns))
	}
	if conns[0].Stops == 0 {
		t.Error("first connection should be stopped before the second starts")
	}
}

func TestNewAssetReplacesOld(t *testing.T) {
	dev := devicetest.New()
	e := New(dev)

	e.Play(testAsset(t, 30))
	dev.Advance(5)

	short := testAsset(t, 10)
	e.Play(short)

	if got := e.Duration(); !approx(got, 10.0) {
		t.Errorf("expected new asset duration 10.0, got %f", got)
	}
	if dev.LastConn().Asset != short {
		t.Error("latest connection should carry the new asset")
	}
}

func TestDisposeIdempotent(t *testing.T) {
	dev := devicetest.New()
	e := New(dev)

	e.Play(testAsset(t, 30))
	e.Dispose()
	e.Dispose()

	if e.IsPlaying() {
		t.Error("expected stopped after dispose")
	}
	if !dev.LastGain().Closed() {
		t.Error("gain stage should be released")
	}

	// Transport calls after dispose are no-ops
	e.Play(testAsset(t, 5))
	if e.IsPlaying() {
		t.Error("disposed engine should ignore play")
	}
}
