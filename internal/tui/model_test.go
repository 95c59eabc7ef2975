package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/accelcurve/internal/accel"
	"github.com/verte-zerg/accelcurve/internal/model"
	"github.com/verte-zerg/accelcurve/internal/motion"
)

type fakeSink struct {
	calls    int
	last     model.DriverSettings
	err      error
	deadline bool
}

func (f *fakeSink) Apply(ctx context.Context, _ string, s model.DriverSettings) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	_, f.deadline = ctx.Deadline()
	f.calls++
	f.last = s
	return []byte("body"), nil
}

type fakeRecorder struct {
	records []model.ApplyRecord
}

func (f *fakeRecorder) RecordApply(_ context.Context, rec model.ApplyRecord) (int64, error) {
	f.records = append(f.records, rec)
	return int64(len(f.records)), nil
}

func linearModel(t *testing.T) (*Model, *fakeSink, *fakeRecorder) {
	t.Helper()
	s := accel.DefaultSettings()
	s.Mode = model.ModeLinear
	s.Args.Acceleration = 0.01
	sink := &fakeSink{}
	rec := &fakeRecorder{}
	m := NewModel(Options{
		Name:     "test",
		Settings: s,
		Domain:   model.SpeedRange{Min: 0, Max: 20, Count: 3},
		Sink:     sink,
		Target:   "/tmp/driver.toml",
		History:  rec,
		Motion:   motion.NewSeeded(1, motion.DefaultOptions()),
	})
	if m.err != nil {
		t.Fatalf("unexpected initial error: %v", m.err)
	}
	return m, sink, rec
}

func fieldIndex(t *testing.T, m *Model, label string) int {
	t.Helper()
	for i, f := range m.fields {
		if f.label == label {
			return i
		}
	}
	t.Fatalf("field %q not found", label)
	return -1
}

func press(m *Model, k tea.KeyType) {
	m.Update(tea.KeyMsg{Type: k})
}

func TestEditFieldRecalculates(t *testing.T) {
	m, _, _ := linearModel(t)
	i := fieldIndex(t, m, "accel")
	m.inputs[i].SetValue("0.02")
	press(m, tea.KeyEnter)
	if m.err != nil {
		t.Fatalf("unexpected error: %v", m.err)
	}
	if m.Settings().Args.Acceleration != 0.02 {
		t.Fatalf("expected acceleration 0.02, got %v", m.Settings().Args.Acceleration)
	}
	if got := m.data.Samples[2].Multiplier; got < 1.39 || got > 1.41 {
		t.Fatalf("expected multiplier 1.4 at speed 20, got %v", got)
	}
}

func TestInvalidEditKeepsLastCurve(t *testing.T) {
	m, _, _ := linearModel(t)
	before := m.data
	i := fieldIndex(t, m, "sens x")
	m.inputs[i].SetValue("0")
	press(m, tea.KeyEnter)
	if !errors.Is(m.err, accel.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", m.err)
	}
	if len(m.data.Samples) != len(before.Samples) || m.data.Samples[2] != before.Samples[2] {
		t.Fatalf("expected previous curve to stay")
	}
	if m.Settings().Sensitivity.X != 1 {
		t.Fatalf("invalid edit must not replace settings")
	}
	if !strings.Contains(m.renderFooter(), "sensitivity x must be > 0") {
		t.Fatalf("expected error in footer: %s", m.renderFooter())
	}

	m.inputs[i].SetValue("abc")
	press(m, tea.KeyEnter)
	if m.err == nil || !strings.Contains(m.err.Error(), "not a number") {
		t.Fatalf("expected parse error, got %v", m.err)
	}
}

func TestCycleModeRebuildsFields(t *testing.T) {
	m, _, _ := linearModel(t)
	press(m, tea.KeyCtrlN)
	if m.mode != model.ModeClassic {
		t.Fatalf("expected classic after linear, got %v", m.mode)
	}
	fieldIndex(t, m, "exponent")
	fieldIndex(t, m, "cap out")
	if m.Settings().Mode != model.ModeClassic {
		t.Fatalf("expected classic curve, got %v", m.Settings().Mode)
	}
	press(m, tea.KeyCtrlP)
	press(m, tea.KeyCtrlP)
	if m.mode != model.ModeNoAccel {
		t.Fatalf("expected noaccel, got %v", m.mode)
	}
	if len(m.fields) != len(commonFields) {
		t.Fatalf("expected only common fields, got %d", len(m.fields))
	}
}

func TestToggleCombine(t *testing.T) {
	m, _, _ := linearModel(t)
	press(m, tea.KeyCtrlG)
	if m.Settings().CombineMagnitudes || m.data.Combined {
		t.Fatalf("expected per-axis after toggle")
	}
}

func TestApplyWritesAndRecords(t *testing.T) {
	m, sink, rec := linearModel(t)
	press(m, tea.KeyCtrlS)
	if sink.calls != 1 || sink.last.Mode != model.ModeLinear {
		t.Fatalf("expected one apply of linear settings, got %d %+v", sink.calls, sink.last)
	}
	if len(rec.records) != 1 || rec.records[0].Profile != "test" || rec.records[0].Body != "body" {
		t.Fatalf("unexpected history %+v", rec.records)
	}
	if !strings.Contains(m.status, "applied linear to /tmp/driver.toml") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestApplyBlockedByError(t *testing.T) {
	m, sink, _ := linearModel(t)
	m.inputs[fieldIndex(t, m, "min time")].SetValue("-1")
	press(m, tea.KeyEnter)
	press(m, tea.KeyCtrlS)
	if sink.calls != 0 {
		t.Fatalf("apply must not run while the draft is invalid")
	}
}

func TestApplyUsesUnconfirmedEdit(t *testing.T) {
	m, sink, _ := linearModel(t)
	m.inputs[fieldIndex(t, m, "accel")].SetValue("0.05")
	press(m, tea.KeyCtrlS)
	if sink.calls != 1 {
		t.Fatalf("expected one apply, got %d", sink.calls)
	}
	if sink.last.Args.Acceleration != 0.05 {
		t.Fatalf("expected field value 0.05 to be applied, got %v", sink.last.Args.Acceleration)
	}
	if m.Settings().Args.Acceleration != 0.05 {
		t.Fatalf("expected curve to follow the applied value, got %v", m.Settings().Args.Acceleration)
	}
	if !sink.deadline {
		t.Fatalf("expected apply context to carry a deadline")
	}
}

func TestApplyBlockedByUnconfirmedInvalidEdit(t *testing.T) {
	m, sink, rec := linearModel(t)
	m.inputs[fieldIndex(t, m, "sens x")].SetValue("0")
	press(m, tea.KeyCtrlS)
	if sink.calls != 0 || len(rec.records) != 0 {
		t.Fatalf("apply must not run with an invalid field, got %d calls", sink.calls)
	}
	if !errors.Is(m.err, accel.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", m.err)
	}
	if !strings.Contains(m.status, "not applied") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestSwipeSetsMarker(t *testing.T) {
	m, _, _ := linearModel(t)
	press(m, tea.KeyCtrlR)
	if m.marker == nil || *m.marker <= 0 {
		t.Fatalf("expected positive marker")
	}
	if !strings.Contains(m.status, "swipe peak") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestFocusWraps(t *testing.T) {
	m, _, _ := linearModel(t)
	press(m, tea.KeyShiftTab)
	if m.focus != len(m.inputs)-1 {
		t.Fatalf("expected focus on last field, got %d", m.focus)
	}
	press(m, tea.KeyTab)
	if m.focus != 0 {
		t.Fatalf("expected focus to wrap to 0, got %d", m.focus)
	}
}

func TestInvalidStartFallsBackToDefaults(t *testing.T) {
	s := accel.DefaultSettings()
	s.MinimumTime = 0
	m := NewModel(Options{Settings: s})
	if m.err == nil {
		t.Fatalf("expected initial error to be reported")
	}
	if m.Settings().MinimumTime != accel.DefaultMinimumTime || len(m.data.Samples) == 0 {
		t.Fatalf("expected default curve, got %+v", m.Settings())
	}
}

func TestViewRendersChartAndFields(t *testing.T) {
	m, _, _ := linearModel(t)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	out := m.View()
	for _, want := range []string{"accelcurve · test", "mode    linear", "sens x", "mode linear (combined)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
}
