package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jamesainslie/folio/pkg/folio/device"
	"github.com/jamesainslie/folio/pkg/folio/logging"
	"github.com/jamesainslie/folio/pkg/folio/media"
	"github.com/jamesainslie/folio/pkg/folio/tuner"
)

// Terminal cells are mapped to CSS pixels with a fixed cell size.
const (
	CellWidthPx  = 8
	CellHeightPx = 16

	// StepPx is how far one arrow key press resizes the viewport.
	StepPx = 32
)

// LowPowerAgent is the user agent toggled by the low-power key.
const LowPowerAgent = "Mozilla/5.0 (Linux; Android 13; SM-A135F) AppleWebKit/537.36 Mobile"

// Frame intervals.
const (
	frameInterval        = 60 * time.Millisecond
	reducedFrameInterval = 120 * time.Millisecond
)

// Options configures the preview.
type Options struct {
	// Base is the starting environment. Its viewport is replaced by the
	// terminal size.
	Base device.Snapshot

	Overrides tuner.Overrides

	// ImageSrc, if set, is shown with its optimized form.
	ImageSrc string
}

// profileMsg carries a profile broadcast by the observer.
type profileMsg device.Profile

// frameMsg advances the particle field.
type frameMsg struct{}

// Model is the Bubble Tea model for the device preview.
type Model struct {
	observer *device.Observer
	sub      *device.Subscription
	options  Options
	base     device.Snapshot

	profile device.Profile
	config  tuner.Config

	// viewport is the simulated CSS viewport.
	viewportW, viewportH int

	field    *field
	spinner  spinner.Model
	help     help.Model
	showLogs bool

	// Terminal dimensions.
	width  int
	height int
}

// NewModel creates a preview model. The caller owns the observer; the
// model subscribes to it and Close releases the subscription.
func NewModel(obs *device.Observer, opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accentColor)

	base := opts.Base
	obs.Update(base)

	m := Model{
		observer: obs,
		sub:      obs.Subscribe(),
		options:  opts,
		base:     base,
		field:    newField(40, 8, 1),
		spinner:  s,
		help:     help.New(),
		width:    80,
		height:   24,
	}
	m.setProfile(obs.Profile())
	m.viewportW, m.viewportH = m.profile.ViewportWidth, m.profile.ViewportHeight
	return m
}

// Close unsubscribes from the observer.
func (m Model) Close() {
	if m.sub != nil {
		m.observer.Unsubscribe(m.sub.ID)
	}
}

// Profile returns the profile currently displayed.
func (m Model) Profile() device.Profile { return m.profile }

// Config returns the configuration currently displayed.
func (m Model) Config() tuner.Config { return m.config }

// Init starts the spinner, the frame clock and the profile listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.nextFrame(), m.listen())
}

// listen waits for the next profile broadcast.
func (m Model) listen() tea.Cmd {
	if m.sub == nil {
		return nil
	}
	events := m.sub.Events
	return func() tea.Msg {
		p, ok := <-events
		if !ok {
			return nil
		}
		return profileMsg(p)
	}
}

func (m Model) nextFrame() tea.Cmd {
	interval := frameInterval
	if m.config.ReducedFrameRate {
		interval = reducedFrameInterval
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

func (m *Model) setProfile(p device.Profile) {
	m.profile = p
	m.config = tuner.DeriveWithOverrides(p, m.options.Overrides)
	m.field.setCount(m.config.ParticleCount)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.field.resize(max(msg.Width-6, 10), max(min(msg.Height/3, 10), 3))
		m.fitTerminal()
		return m, nil

	case profileMsg:
		m.setProfile(device.Profile(msg))
		return m, m.listen()

	case frameMsg:
		if !m.profile.PrefersReducedMotion {
			m.field.step(m.config.AnimationDurationScale)
		}
		return m, m.nextFrame()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// fitTerminal maps the terminal size to a CSS viewport and delivers it as
// a resize event.
func (m *Model) fitTerminal() {
	m.resize(m.width*CellWidthPx, m.height*CellHeightPx)
}

func (m *Model) resize(w, h int) {
	m.viewportW, m.viewportH = max(w, 1), max(h, 1)
	m.observer.Resize(m.viewportW, m.viewportH)
	m.setProfile(m.observer.Profile())
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Wider):
		m.resize(m.viewportW+StepPx, m.viewportH)
	case key.Matches(msg, keys.Narrower):
		m.resize(m.viewportW-StepPx, m.viewportH)
	case key.Matches(msg, keys.Taller):
		m.resize(m.viewportW, m.viewportH+StepPx)
	case key.Matches(msg, keys.Shorter):
		m.resize(m.viewportW, m.viewportH-StepPx)
	case key.Matches(msg, keys.Reset):
		m.fitTerminal()

	case key.Matches(msg, keys.ReducedMotion):
		m.observer.SetReducedMotion(!m.profile.PrefersReducedMotion)
		m.setProfile(m.observer.Profile())

	case key.Matches(msg, keys.LowPower):
		m.toggleLowPowerAgent()

	case key.Matches(msg, keys.Logs):
		m.showLogs = !m.showLogs
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// toggleLowPowerAgent swaps the user agent. Replacing the environment
// clears the observer's overrides, so the viewport and motion preference
// are delivered again afterwards.
func (m *Model) toggleLowPowerAgent() {
	reduced := m.profile.PrefersReducedMotion
	if m.base.Agent == LowPowerAgent {
		m.base.Agent = m.options.Base.Agent
		if m.base.Agent == LowPowerAgent {
			m.base.Agent = ""
		}
	} else {
		m.base.Agent = LowPowerAgent
	}

	m.observer.Update(m.base)
	m.observer.Resize(m.viewportW, m.viewportH)
	m.observer.SetReducedMotion(reduced)
	m.setProfile(m.observer.Profile())
}

// View renders the preview.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(fieldBoxStyle.Render(m.field.render()))
	b.WriteString("\n")
	b.WriteString(m.renderConfig())

	if m.options.ImageSrc != "" {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("image"))
		b.WriteString(mutedTextStyle.Render(media.OptimizeURLWithQuality(m.options.ImageSrc, m.profile, m.config.ImageQuality)))
		b.WriteString("\n")
	}

	if m.showLogs {
		b.WriteString("\n")
		b.WriteString(m.renderLogs())
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(keys))
	return b.String()
}

func (m Model) renderHeader() string {
	p := m.profile
	live := m.spinner.View()
	if p.PrefersReducedMotion {
		live = mutedTextStyle.Render("■")
	}

	flags := []string{}
	if p.LowPower {
		flags = append(flags, warningTextStyle.Render("low-power"))
	}
	if p.PrefersReducedMotion {
		flags = append(flags, warningTextStyle.Render("reduced motion"))
	}
	if len(flags) == 0 {
		flags = append(flags, successTextStyle.Render("full capability"))
	}

	header := fmt.Sprintf("%s %s %s  %s  %s",
		live,
		titleStyle.Render("FOLIO DEVICE PREVIEW"),
		classStyle(string(p.Class)).Render(strings.ToUpper(string(p.Class))),
		valueStyle.Render(fmt.Sprintf("%dx%d @%gx", p.ViewportWidth, p.ViewportHeight, p.DevicePixelRatio)),
		strings.Join(flags, mutedTextStyle.Render(" • ")),
	)
	return outerBoxStyle.Render(header)
}

func (m Model) renderConfig() string {
	c := m.config
	rows := []struct {
		label string
		value string
	}{
		{"particles", fmt.Sprintf("%d", c.ParticleCount)},
		{"animation scale", fmt.Sprintf("%g", c.AnimationDurationScale)},
		{"complex animations", onOff(c.EnableComplexAnimations)},
		{"parallax", onOff(c.EnableParallax)},
		{"blur", onOff(c.EnableBlur)},
		{"scroll reveal", onOff(c.EnableScrollReveal)},
		{"reduced frame rate", onOff(c.ReducedFrameRate)},
		{"image quality", string(c.ImageQuality)},
		{"debounce", fmt.Sprintf("%dms", c.DebounceMs)},
	}

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(labelStyle.Render(r.label))
		b.WriteString(valueStyle.Render(r.value))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderLogs() string {
	width := max(m.width-2, 20)
	var b strings.Builder
	b.WriteString(renderDivider(width))
	b.WriteString("\n")

	entries := logging.Recent(5)
	if len(entries) == 0 {
		b.WriteString(mutedTextStyle.Render("no log entries"))
		b.WriteString("\n")
		return b.String()
	}
	for _, e := range entries {
		style := mutedTextStyle
		if e.Level >= logging.LevelError {
			style = errorTextStyle
		} else if e.Level == logging.LevelWarn {
			style = warningTextStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%s %-5s %s: %s",
			e.Time.Format("15:04:05"), e.Level, e.Component, e.Message)))
		b.WriteString("\n")
	}
	return b.String()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// Run starts the preview and blocks until the user quits.
func Run(obs *device.Observer, opts Options) error {
	m := NewModel(obs, opts)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
