// Package tui provides the Bubble Tea curve tuner.
package tui

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/accelcurve/internal/accel"
	"github.com/verte-zerg/accelcurve/internal/chart"
	"github.com/verte-zerg/accelcurve/internal/driver"
	"github.com/verte-zerg/accelcurve/internal/logging"
	"github.com/verte-zerg/accelcurve/internal/model"
	"github.com/verte-zerg/accelcurve/internal/motion"
)

// Recorder keeps a history of applied snapshots.
type Recorder interface {
	RecordApply(ctx context.Context, rec model.ApplyRecord) (int64, error)
}

// Options configures the tuner.
type Options struct {
	Name       string
	Settings   model.DriverSettings
	Domain     model.SpeedRange
	Sink       driver.Sink
	Target     string
	History    Recorder
	Motion     *motion.Generator
	Logger     *slog.Logger
	PlotHeight int
}

const (
	swipeReports  = 120
	inputWidth    = 10
	yAxisReserve  = 8
	chromeLines   = 6
	minPlotHeight = 4

	applyTimeout = 2 * time.Second
)

// Model implements the Bubble Tea tuning UI.
type Model struct {
	opts Options

	// settings is the last snapshot that produced a curve.
	settings model.DriverSettings
	mode     model.Mode
	combine  bool
	fields   []field
	inputs   []textinput.Model
	focus    int

	data   model.AccelData
	view   chart.View
	marker *float64
	err    error
	status string

	viewport viewport.Model
	width    int
	height   int
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	panelStyle   = lipgloss.NewStyle().PaddingRight(2)
	keyHelp      = "tab move · enter recalc · ctrl+n/p mode · ctrl+g combine · ctrl+v view · ctrl+r swipe · ctrl+s apply · esc quit"
	viewNames    = map[chart.View]string{chart.ViewMultiplier: "multiplier", chart.ViewVelocity: "velocity"}
	defaultRange = accel.DefaultSpeedRange()
)

// NewModel constructs a tuner for opts.Settings. An invalid starting
// snapshot is reported in the footer and replaced by the defaults.
func NewModel(opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Domain.Count <= 0 {
		opts.Domain = defaultRange
	}
	if opts.Name == "" {
		opts.Name = "default"
	}
	m := &Model{
		opts:     opts,
		settings: opts.Settings,
		mode:     opts.Settings.Mode,
		combine:  opts.Settings.CombineMagnitudes,
		viewport: viewport.New(0, 0),
	}
	m.rebuildInputs(opts.Settings)
	m.recalculate()
	if m.err != nil {
		start := m.err
		defaults := accel.DefaultSettings()
		m.settings = defaults
		m.mode = defaults.Mode
		m.combine = defaults.CombineMagnitudes
		m.rebuildInputs(defaults)
		m.recalculate()
		m.err = start
	}
	return m
}

// Settings returns the last snapshot that produced a curve.
func (m *Model) Settings() model.DriverSettings {
	return m.settings
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.renderChart()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down":
			return m, m.moveFocus(1)
		case "shift+tab", "up":
			return m, m.moveFocus(-1)
		case "enter":
			m.recalculate()
			return m, nil
		case "ctrl+n":
			m.cycleMode(1)
			return m, nil
		case "ctrl+p":
			m.cycleMode(-1)
			return m, nil
		case "ctrl+g":
			m.combine = !m.combine
			m.recalculate()
			return m, nil
		case "ctrl+v":
			m.toggleView()
			return m, nil
		case "ctrl+r":
			m.swipe()
			return m, nil
		case "ctrl+s":
			m.apply()
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	if len(m.inputs) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	left := panelStyle.Render(m.renderFields())
	right := m.viewport.View()
	if m.width == 0 {
		right = m.chartString(0, 0)
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return body + "\n" + m.renderFooter()
}

func (m *Model) rebuildInputs(s model.DriverSettings) {
	m.fields = fieldsFor(m.mode)
	m.inputs = make([]textinput.Model, len(m.fields))
	for i, f := range m.fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 24
		ti.Width = inputWidth
		ti.SetValue(formatField(f.get(s)))
		m.inputs[i] = ti
	}
	if m.focus >= len(m.inputs) {
		m.focus = len(m.inputs) - 1
	}
	if m.focus < 0 {
		m.focus = 0
	}
	if len(m.inputs) > 0 {
		m.inputs[m.focus].Focus()
	}
}

func (m *Model) moveFocus(step int) tea.Cmd {
	if len(m.inputs) == 0 {
		return nil
	}
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + step + len(m.inputs)) % len(m.inputs)
	return m.inputs[m.focus].Focus()
}

// draft builds a snapshot from the current field values on top of the last
// good one. It returns the first field that failed to parse.
func (m *Model) draft() (model.DriverSettings, error) {
	s := m.settings
	s.Mode = m.mode
	s.CombineMagnitudes = m.combine
	if s.Mode == model.ModeLookup && len(s.Args.Points) == 0 {
		s.Args.Points = m.opts.Settings.Args.Points
	}
	var firstErr error
	for i, f := range m.fields {
		raw := strings.TrimSpace(m.inputs[i].Value())
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %q is not a number: %w", f.label, raw, accel.ErrInvalidParameter)
			}
			continue
		}
		f.set(&s, v)
	}
	return s, firstErr
}

// recalculate rebuilds the curve from the fields. On failure the previous
// curve stays on screen and the error is shown in the footer.
func (m *Model) recalculate() {
	s, err := m.draft()
	if err == nil {
		var data model.AccelData
		data, err = accel.Calculate(s, m.opts.Domain)
		if err == nil {
			m.settings = s
			m.data = data
			m.marker = nil
		}
	}
	m.err = err
	if err != nil {
		m.opts.Logger.Debug("recalculate failed", "mode", m.mode.String(), "error", err)
	}
	m.renderChart()
}

func (m *Model) cycleMode(step int) {
	s, _ := m.draft()
	modes := model.Modes()
	next := (int(m.mode) + step + len(modes)) % len(modes)
	m.mode = modes[next]
	s.Mode = m.mode
	m.rebuildInputs(s)
	m.recalculate()
}

func (m *Model) toggleView() {
	if m.view == chart.ViewMultiplier {
		m.view = chart.ViewVelocity
	} else {
		m.view = chart.ViewMultiplier
	}
	m.renderChart()
}

func (m *Model) swipe() {
	if m.opts.Motion == nil {
		m.status = "no motion source"
		return
	}
	mod, err := accel.NewModifier(m.settings)
	if err != nil {
		m.err = err
		return
	}
	st := motion.Replay(mod, m.opts.Motion.Swipe(swipeReports))
	peak := st.PeakSpeed
	m.marker = &peak
	m.status = fmt.Sprintf("swipe peak %.3g · multiplier %.3g..%.3g · out/in %.3f",
		st.PeakSpeed, st.MinMultiplier, st.MaxMultiplier, st.Ratio())
	m.renderChart()
}

// apply rebuilds the snapshot from the fields and hands it to the sink. An
// invalid field blocks the write.
func (m *Model) apply() {
	m.recalculate()
	if m.err != nil {
		m.status = "not applied: fix the highlighted error first"
		return
	}
	if m.opts.Sink == nil {
		m.status = "no driver output configured"
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), applyTimeout)
	defer cancel()
	body, err := m.opts.Sink.Apply(ctx, m.opts.Name, m.settings)
	if err != nil {
		m.err = err
		return
	}
	m.status = "applied " + m.settings.Mode.String()
	if m.opts.Target != "" {
		m.status += " to " + m.opts.Target
	}
	if m.opts.History == nil {
		return
	}
	_, err = m.opts.History.RecordApply(ctx, model.ApplyRecord{
		Profile: m.opts.Name,
		Target:  m.opts.Target,
		Body:    string(body),
	})
	if err != nil {
		m.opts.Logger.Warn("failed to record apply", "error", err)
	}
}

func (m *Model) fieldsWidth() int {
	labelWidth := 0
	for _, f := range m.fields {
		if w := runewidth.StringWidth(f.label); w > labelWidth {
			labelWidth = w
		}
	}
	return labelWidth + 1 + inputWidth + 1
}

func (m *Model) renderFields() string {
	labelWidth := 0
	for _, f := range m.fields {
		if w := runewidth.StringWidth(f.label); w > labelWidth {
			labelWidth = w
		}
	}
	combine := "off"
	if m.combine {
		combine = "on"
	}
	lines := []string{
		titleStyle.Render("accelcurve · " + m.opts.Name),
		"",
		labelStyle.Render("mode    ") + m.mode.String(),
		labelStyle.Render("combine ") + combine,
		labelStyle.Render("view    ") + viewNames[m.view],
		"",
	}
	for i, f := range m.fields {
		label := runewidth.FillRight(f.label, labelWidth)
		style := labelStyle
		if i == m.focus {
			style = focusStyle
		}
		lines = append(lines, style.Render(label)+" "+m.inputs[i].View())
	}
	if m.mode == model.ModeLookup {
		lines = append(lines, "", labelStyle.Render(fmt.Sprintf("%d points (edit the profile file)", len(m.settings.Args.Points))))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderChart() {
	if m.width == 0 || m.height == 0 {
		return
	}
	panel := m.width - m.fieldsWidth() - 2
	if panel < 1 {
		panel = 1
	}
	m.viewport.Width = panel
	m.viewport.Height = m.height - 1
	m.viewport.SetContent(m.chartString(panel, m.height-1))
}

func (m *Model) chartString(panel, rows int) string {
	height := m.opts.PlotHeight
	if height <= 0 {
		height = rows - chromeLines
	}
	if height < minPlotHeight {
		height = minPlotHeight
	}
	width := 0
	if panel > 0 {
		width = panel - yAxisReserve
	}
	if width <= 0 {
		width = 40
	}
	var buf bytes.Buffer
	err := chart.RenderCurve(&buf, m.data, m.view, chart.Options{
		Width:  width,
		Height: height,
		Marker: m.marker,
	})
	if err != nil {
		return chart.Summary(m.data)
	}
	return buf.String()
}

func (m *Model) renderFooter() string {
	segments := make([]string, 0, 3)
	if m.err != nil {
		segments = append(segments, errorStyle.Render("error: "+m.err.Error()))
	}
	if m.status != "" {
		segments = append(segments, m.status)
	}
	segments = append(segments, keyHelp)
	return footerStyle.Render(strings.Join(segments, "  "))
}
