// ABOUTME: Bubbletea model for the player TUI
// ABOUTME: Renders waveform, transport state, and slider from pushed updates
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// The TUI never computes position: it renders exactly what the frame
// clock's slow consumer pushed last.

// Model represents the TUI state
type Model struct {
	// Playback (pushed by PositionMsg)
	position float64
	duration float64
	playing  bool
	paused   bool
	volume   float64

	// Track (pushed by TrackMsg)
	title      string
	codec      string
	sampleRate int
	channels   int
	bitDepth   int
	peaks      []float64

	// Dimensions
	width  int
	height int

	ctrl *TransportControl
}

// PositionMsg carries one sampled playback state
type PositionMsg struct {
	Position float64
	Duration float64
	Playing  bool
	Paused   bool
	Volume   float64
}

// TrackMsg announces a newly loaded asset
type TrackMsg struct {
	Title      string
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
	Duration   float64
	Peaks      []float64
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case PositionMsg:
		m.applyPosition(msg)
	case TrackMsg:
		m.applyTrack(msg)
	}

	return m, nil
}

// handleKey translates keys into transport commands
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.ctrl.quit()
		return m, tea.Quit
	case " ":
		m.ctrl.send(Command{Action: ActionToggle})
	case "s":
		m.ctrl.send(Command{Action: ActionStop})
	case "r":
		m.ctrl.send(Command{Action: ActionRewind})
	case "left":
		m.ctrl.send(Command{Action: ActionSeekBy, Value: -5})
	case "right":
		m.ctrl.send(Command{Action: ActionSeekBy, Value: 5})
	case "up":
		m.ctrl.send(Command{Action: ActionVolumeBy, Value: 0.05})
	case "down":
		m.ctrl.send(Command{Action: ActionVolumeBy, Value: -0.05})
	}

	return m, nil
}

// applyPosition updates playback state from a sampled position
func (m *Model) applyPosition(msg PositionMsg) {
	m.position = msg.Position
	m.duration = msg.Duration
	m.playing = msg.Playing
	m.paused = msg.Paused
	m.volume = msg.Volume
}

// applyTrack updates track info for a newly loaded asset
func (m *Model) applyTrack(msg TrackMsg) {
	m.title = msg.Title
	m.codec = msg.Codec
	m.sampleRate = msg.SampleRate
	m.channels = msg.Channels
	m.bitDepth = msg.BitDepth
	m.duration = msg.Duration
	m.peaks = msg.Peaks
	m.position = 0
	m.playing = false
	m.paused = false
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))

	title := m.title
	if title == "" {
		title = "(no track)"
	}
	b.WriteString(titleStyle.Render("Waveplay"))
	b.WriteString("  ")
	b.WriteString(valueStyle.Render(title))
	b.WriteString("\n\n")

	if m.codec != "" {
		b.WriteString(labelStyle.Render("Format: "))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%s %dHz %s %d-bit",
			m.codec, m.sampleRate, channelName(m.channels), m.bitDepth)))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderWaveform())
	b.WriteString("\n")
	b.WriteString(m.renderSlider())
	b.WriteString("\n\n")
	b.WriteString(m.renderTransport())
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Faint(true).Render(
		"space:Play/Pause  s:Stop  r:Rewind  ←/→:Seek  ↑/↓:Volume  q:Quit"))
	b.WriteString("\n")

	return b.String()
}

// renderWaveform draws the peak outline, coloring the played portion
func (m Model) renderWaveform() string {
	width := m.barWidth()
	if len(m.peaks) == 0 {
		return strings.Repeat("─", width)
	}

	playedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	restStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	blocks := []rune(" ▁▂▃▄▅▆▇█")
	playedCols := m.playedColumns(width)

	var b strings.Builder
	for col := 0; col < width; col++ {
		peak := m.peaks[col*len(m.peaks)/width]
		idx := int(peak * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		ch := string(blocks[idx])

		if col < playedCols {
			b.WriteString(playedStyle.Render(ch))
		} else {
			b.WriteString(restStyle.Render(ch))
		}
	}
	return b.String()
}

// renderSlider draws the position bar with a time readout
func (m Model) renderSlider() string {
	width := m.barWidth()
	playedCols := m.playedColumns(width)

	bar := strings.Repeat("█", playedCols) + strings.Repeat("░", width-playedCols)
	return fmt.Sprintf("%s  %s / %s", bar, formatTime(m.position), formatTime(m.duration))
}

// renderTransport draws state, and volume
func (m Model) renderTransport() string {
	state := "stopped"
	icon := "⏹"
	if m.playing {
		state = "playing"
		icon = "▶"
	} else if m.paused {
		state = "paused"
		icon = "⏸"
	}

	volumeBar := renderBar(int(m.volume*100), 100, 10)
	return fmt.Sprintf("%s %s    Volume: [%s] %d%%", icon, state, volumeBar, int(m.volume*100))
}

// playedColumns maps position/duration onto bar columns
func (m Model) playedColumns(width int) int {
	if m.duration <= 0 {
		return 0
	}
	cols := int(m.position / m.duration * float64(width))
	if cols > width {
		cols = width
	}
	return cols
}

// barWidth fits bars into the terminal with margin
func (m Model) barWidth() int {
	w := m.width - 20
	if w < 10 {
		w = 10
	}
	if w > 80 {
		w = 80
	}
	return w
}

// Utility functions
func renderBar(value, max, width int) string {
	filled := (value * width) / max
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func formatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func channelName(channels int) string {
	if channels == 1 {
		return "Mono"
	}
	return "Stereo"
}
