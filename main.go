// ABOUTME: Entry point for the Waveplay player
// ABOUTME: Parses CLI flags, wires the playback stack, and starts the TUI
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/waveplay/waveplay-go/internal/app"
	"github.com/waveplay/waveplay-go/internal/config"
	"github.com/waveplay/waveplay-go/internal/discovery"
	"github.com/waveplay/waveplay-go/internal/remote"
	"github.com/waveplay/waveplay-go/internal/ui"
	"github.com/waveplay/waveplay-go/pkg/audio"
	"github.com/waveplay/waveplay-go/pkg/device"
	"github.com/waveplay/waveplay-go/pkg/frameclock"
)

// Output device format; assets in other formats are converted on
// connection.
const (
	deviceRate     = 48000
	deviceChannels = 2
)

var (
	configPath  = flag.String("config", "waveplay.toml", "Config file path")
	name        = flag.String("name", "", "Player friendly name (default: hostname-waveplay)")
	tone        = flag.Float64("tone", 0, "Play a test tone at this frequency instead of a file")
	toneSeconds = flag.Float64("tone-seconds", 30, "Test tone length in seconds")
	remotePort  = flag.Int("remote-port", 0, "Remote-control port (overrides config)")
	enableRem   = flag.Bool("remote", false, "Enable the WebSocket remote-control server")
	noMDNS      = flag.Bool("no-mdns", false, "Disable mDNS advertisement")
	logFile     = flag.String("log-file", "", "Log file path (overrides config)")
	noTUI       = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	streamLogs  = flag.Bool("stream-logs", false, "Alias for -no-tui")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}
	applyFlagOverrides(&cfg)

	// Determine if we should use TUI or streaming logs
	useTUI := !(*noTUI || *streamLogs)

	// Set up logging
	f, err := os.OpenFile(cfg.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		// Streaming logs mode: log to both stdout and file
		multiWriter := io.MultiWriter(os.Stdout, f)
		log.SetOutput(multiWriter)
	}

	// Determine player name
	playerName := *name
	if playerName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		playerName = fmt.Sprintf("%s-waveplay", hostname)
	}

	if !useTUI {
		log.Printf("Starting Waveplay player: %s", playerName)
		log.Printf("TUI disabled - logging to file for debugging")
	}

	// Open the audio output
	dev, err := device.NewOto(deviceRate, deviceChannels)
	if err != nil {
		log.Fatalf("Failed to open audio output: %v", err)
	}

	sched := frameclock.NewTickScheduler(frameclock.DefaultTickInterval)
	defer sched.Stop()

	player := app.New(cfg, dev, sched)
	defer player.Close()

	// TUI setup
	ctrl := ui.NewTransportControl()
	var tuiProg *tea.Program
	if useTUI {
		tuiProg, err = ui.Run(ctrl)
		if err != nil {
			log.Fatalf("Failed to start TUI: %v", err)
		}
		player.AttachUI(tuiProg)
		go func() {
			if _, err := tuiProg.Run(); err != nil {
				log.Printf("TUI error: %v", err)
			}
			ctrl.SignalQuit()
		}()
	}

	// Remote-control server
	if cfg.RemoteEnabled {
		srv := remote.NewServer(player, playerName)
		if err := srv.Start(cfg.RemotePort); err != nil {
			log.Fatalf("Failed to start remote server: %v", err)
		}
		player.AttachRemote(srv)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				log.Printf("Error shutting down remote server: %v", err)
			}
		}()

		if cfg.MDNSEnabled {
			adv := discovery.NewAdvertiser(discovery.Config{
				PlayerName: playerName,
				Port:       cfg.RemotePort,
			})
			if err := adv.Advertise(); err != nil {
				log.Printf("mDNS advertisement failed: %v", err)
			} else {
				defer adv.Stop()
			}
		}
	}

	// Load the track
	if err := loadSource(player); err != nil {
		log.Fatalf("Failed to load track: %v", err)
	}
	player.Play()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		player.Run(ctx, ctrl)
		close(done)
	}()

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-done:
	case <-sigChan:
		log.Printf("Shutdown signal received")
		cancel()
		<-done
	}

	if tuiProg != nil {
		tuiProg.Quit()
	}

	log.Printf("Player stopped")
}

// applyFlagOverrides layers explicitly set CLI flags over the config
func applyFlagOverrides(cfg *config.Config) {
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "log-file":
			cfg.LogFile = *logFile
		case "remote":
			cfg.RemoteEnabled = *enableRem
		case "remote-port":
			cfg.RemotePort = *remotePort
		case "no-mdns":
			cfg.MDNSEnabled = !*noMDNS
		}
	})
}

// loadSource decodes the requested track: a test tone, or a file path
// or URL given as the first positional argument
func loadSource(player *app.Player) error {
	if *tone > 0 {
		asset, err := audio.Tone(*tone, *toneSeconds, deviceRate, deviceChannels)
		if err != nil {
			return err
		}
		player.LoadAsset(asset, fmt.Sprintf("%.0fHz test tone", *tone))
		return nil
	}

	src := flag.Arg(0)
	if src == "" {
		return fmt.Errorf("no track given: pass a file path or URL, or -tone")
	}

	log.Printf("Loading track: %s", src)
	return player.Load(src)
}
