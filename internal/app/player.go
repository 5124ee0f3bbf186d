// ABOUTME: Player orchestration wiring engine, frame clock, UI, and remote
// ABOUTME: Bridges transport commands onto the engine and fans out position
package app

import (
	"context"
	"log"
	"path"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/waveplay/waveplay-go/internal/config"
	"github.com/waveplay/waveplay-go/internal/fetch"
	"github.com/waveplay/waveplay-go/internal/remote"
	"github.com/waveplay/waveplay-go/internal/ui"
	"github.com/waveplay/waveplay-go/pkg/audio"
	"github.com/waveplay/waveplay-go/pkg/audio/decode"
	"github.com/waveplay/waveplay-go/pkg/device"
	"github.com/waveplay/waveplay-go/pkg/engine"
	"github.com/waveplay/waveplay-go/pkg/frameclock"
)

// waveformBuckets is how many peak columns are precomputed per track
const waveformBuckets = 160

// Player owns the playback stack. It implements remote.Transport so
// the WebSocket surface drives the same path as the keyboard.
type Player struct {
	cfg   config.Config
	eng   *engine.Engine
	sched frameclock.Scheduler

	// Optional surfaces
	prog   *tea.Program
	remote *remote.Server

	mu    sync.Mutex
	title string

	// lastStatus is the snapshot taken by the fast sampling path; the
	// slow path republishes it so both surfaces see the same bundle
	lastStatus engine.Status

	// clockMu serializes sampling-loop starts and stops. It is kept
	// separate from mu because cancellation blocks on an in-flight
	// tick, and ticks take mu inside the consumers.
	clockMu     sync.Mutex
	cancelClock frameclock.CancelFunc
}

// New builds a player on the given device and scheduler
func New(cfg config.Config, dev device.Device, sched frameclock.Scheduler) *Player {
	p := &Player{
		cfg:   cfg,
		eng:   engine.New(dev),
		sched: sched,
	}

	p.eng.SetVolume(cfg.Volume)
	p.eng.SetOnEnded(p.onTrackEnded)

	return p
}

// AttachUI registers the bubbletea program that receives position and
// track updates
func (p *Player) AttachUI(prog *tea.Program) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prog = prog
}

// AttachRemote registers the remote-control server fed by the fast
// sampling path
func (p *Player) AttachRemote(r *remote.Server) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.remote = r
}

// Engine exposes the underlying engine
func (p *Player) Engine() *engine.Engine {
	return p.eng
}

// Load resolves a track source (local path or URL), decodes it, and
// caches it in the engine without starting playback
func (p *Player) Load(src string) error {
	var (
		asset *audio.Asset
		err   error
	)

	if fetch.IsURL(src) {
		var data []byte
		data, err = fetch.Get(src)
		if err != nil {
			return err
		}
		asset, err = decode.Bytes(src, data)
	} else {
		asset, err = decode.File(src)
	}
	if err != nil {
		return err
	}

	p.LoadAsset(asset, path.Base(src))
	return nil
}

// LoadAsset caches a decoded asset and announces it to the UI
func (p *Player) LoadAsset(asset *audio.Asset, title string) {
	p.stopClock()
	p.eng.Reset()
	p.eng.Seek(0, asset)

	p.mu.Lock()
	p.title = title
	p.mu.Unlock()

	log.Printf("Loaded %s: %.2fs %s %dHz %dch",
		title, asset.Duration(), asset.Format.Codec,
		asset.Format.SampleRate, asset.Format.Channels)

	p.sendUI(ui.TrackMsg{
		Title:      title,
		Codec:      asset.Format.Codec,
		SampleRate: asset.Format.SampleRate,
		Channels:   asset.Format.Channels,
		BitDepth:   asset.Format.BitDepth,
		Duration:   asset.Duration(),
		Peaks:      audio.Peaks(asset, waveformBuckets),
	})
	p.pushState()
}

// Play starts or resumes playback and restarts position sampling (the
// frame clock self-terminates whenever playback stops)
func (p *Player) Play() {
	p.eng.Play(nil)
	if p.eng.IsPlaying() {
		p.startClock()
	}
}

// Pause freezes playback; the final clock sample reports the frozen
// position before the loop terminates
func (p *Player) Pause() {
	p.eng.Pause()
	p.pushState()
}

// Stop tears down playback, keeping the segment-start offset
func (p *Player) Stop() {
	p.eng.Stop()
	p.pushState()
}

// Reset stops and rewinds to the beginning
func (p *Player) Reset() {
	p.eng.Reset()
	p.pushState()
}

// SeekTo repositions; sampling restarts if playback resumed
func (p *Player) SeekTo(seconds float64) {
	p.eng.Seek(seconds, nil)
	if p.eng.IsPlaying() {
		p.startClock()
	} else {
		p.pushState()
	}
}

// SetVolume forwards to the engine's ramped gain
func (p *Player) SetVolume(v float64) {
	p.eng.SetVolume(v)
	p.pushState()
}

// Position reports the engine-derived position
func (p *Player) Position() float64 { return p.eng.Position() }

// Duration reports the cached asset duration
func (p *Player) Duration() float64 { return p.eng.Duration() }

// IsPlaying reports whether position is advancing
func (p *Player) IsPlaying() bool { return p.eng.IsPlaying() }

// Volume reports the last requested volume
func (p *Player) Volume() float64 { return p.eng.Volume() }

// Status returns one consistent transport snapshot for the remote
// surface
func (p *Player) Status() remote.PositionUpdate {
	return positionUpdate(p.eng.Status())
}

// HandleCommand applies one keyboard transport command
func (p *Player) HandleCommand(cmd ui.Command) {
	switch cmd.Action {
	case ui.ActionToggle:
		if p.eng.IsPlaying() {
			p.Pause()
		} else {
			p.Play()
		}
	case ui.ActionStop:
		p.Stop()
	case ui.ActionRewind:
		p.Reset()
	case ui.ActionSeekBy:
		p.SeekTo(p.eng.Position() + cmd.Value)
	case ui.ActionVolumeBy:
		p.SetVolume(p.eng.Volume() + cmd.Value)
	}
}

// Run consumes transport commands until quit or context cancellation
func (p *Player) Run(ctx context.Context, ctrl *ui.TransportControl) {
	for {
		select {
		case cmd := <-ctrl.Commands:
			p.HandleCommand(cmd)
		case <-ctrl.Quit:
			log.Printf("Received quit signal from TUI")
			return
		case <-ctx.Done():
			return
		}
	}
}

// Close releases the playback stack
func (p *Player) Close() {
	p.stopClock()
	p.eng.Dispose()
}

// startClock (re)starts the dual-cadence sampling loop: the fast path
// feeds remote position indicators every tick, the slow path is the
// only thing allowed to trigger a UI re-render
func (p *Player) startClock() {
	p.clockMu.Lock()
	defer p.clockMu.Unlock()

	if p.cancelClock != nil {
		p.cancelClock()
	}

	interval := time.Duration(p.cfg.SlowIntervalMs) * time.Millisecond
	p.cancelClock = frameclock.StartDual(p.eng, p.sched, interval,
		p.fastSample, p.slowSample)
}

func (p *Player) stopClock() {
	p.clockMu.Lock()
	defer p.clockMu.Unlock()

	if p.cancelClock != nil {
		p.cancelClock()
		p.cancelClock = nil
	}
}

// fastSample is the per-tick consumer. The tick value only drives
// cadence: the published bundle comes from one engine snapshot, so a
// transport change landing mid-tick cannot split across its fields.
func (p *Player) fastSample(float64) {
	p.broadcast(p.snapshotStatus())
}

// slowSample is the throttled, render-triggering consumer. It
// republishes the fast path's snapshot from the same tick rather than
// resampling, so the UI and remote surfaces agree.
func (p *Player) slowSample(float64) {
	p.mu.Lock()
	st := p.lastStatus
	p.mu.Unlock()

	p.sendUI(positionMsg(st))
}

// pushState publishes the current state outside the sampling loop,
// keeping surfaces fresh across transport changes while stopped
func (p *Player) pushState() {
	st := p.snapshotStatus()
	p.sendUI(positionMsg(st))
	p.broadcast(st)
}

// snapshotStatus samples the engine once and caches the result for
// the slow consumer
func (p *Player) snapshotStatus() engine.Status {
	st := p.eng.Status()
	p.mu.Lock()
	p.lastStatus = st
	p.mu.Unlock()
	return st
}

// broadcast feeds a snapshot to the remote surface when one is attached
func (p *Player) broadcast(st engine.Status) {
	p.mu.Lock()
	r := p.remote
	p.mu.Unlock()

	if r != nil {
		r.Broadcast(positionUpdate(st))
	}
}

func positionMsg(st engine.Status) ui.PositionMsg {
	return ui.PositionMsg{
		Position: st.Position,
		Duration: st.Duration,
		Playing:  st.Playing,
		Paused:   st.Paused,
		Volume:   st.Volume,
	}
}

func positionUpdate(st engine.Status) remote.PositionUpdate {
	return remote.PositionUpdate{
		Position: st.Position,
		Duration: st.Duration,
		Playing:  st.Playing,
		Paused:   st.Paused,
		Volume:   st.Volume,
	}
}

// onTrackEnded runs on natural end-of-asset
func (p *Player) onTrackEnded() {
	log.Printf("Track finished")
	p.pushState()
}

// sendUI forwards a message to the TUI when one is attached
func (p *Player) sendUI(msg tea.Msg) {
	p.mu.Lock()
	prog := p.prog
	p.mu.Unlock()

	if prog != nil {
		prog.Send(msg)
	}
}
