package main

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/verte-zerg/accelcurve/internal/accel"
	"github.com/verte-zerg/accelcurve/internal/chart"
	"github.com/verte-zerg/accelcurve/internal/model"
	"github.com/verte-zerg/accelcurve/internal/profile"
)

func TestApplyArgsSetsParameters(t *testing.T) {
	s := accel.DefaultSettings()
	err := applyArgs(&s, map[string]string{
		"acceleration": "0.02",
		"Cap-X":        " 20 ",
		"cap-mode":     "in_out",
		"snap":         "90",
		"lp-norm":      "3",
		"speed-cap":    "60",
		"range-y":      "0.5",
		"gain":         "1",
	})
	if err != nil {
		t.Fatalf("applyArgs: %v", err)
	}
	if s.Args.Acceleration != 0.02 {
		t.Fatalf("expected acceleration 0.02, got %v", s.Args.Acceleration)
	}
	if s.Args.Cap.X != 20 {
		t.Fatalf("expected cap x 20, got %v", s.Args.Cap.X)
	}
	if s.Args.CapMode != model.CapInOut {
		t.Fatalf("expected in_out cap mode, got %v", s.Args.CapMode)
	}
	if math.Abs(s.Snap-math.Pi/2) > 1e-12 {
		t.Fatalf("expected snap in radians, got %v", s.Snap)
	}
	if s.LpNorm != 3 {
		t.Fatalf("expected lp norm 3, got %v", s.LpNorm)
	}
	if s.SpeedCap != 60 || s.Range.Y != 0.5 || !s.Args.Gain {
		t.Fatalf("unexpected shape settings %+v", s)
	}
}

func TestApplyArgsRejectsUnknownKey(t *testing.T) {
	s := accel.DefaultSettings()
	err := applyArgs(&s, map[string]string{"speed": "1"})
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "cap-mode") {
		t.Fatalf("expected available keys in error, got %v", err)
	}
}

func TestApplyArgsRejectsBadValues(t *testing.T) {
	s := accel.DefaultSettings()
	if err := applyArgs(&s, map[string]string{"offset": "fast"}); err == nil {
		t.Fatalf("expected error for non-numeric value")
	}
	if err := applyArgs(&s, map[string]string{"cap-mode": "both"}); err == nil {
		t.Fatalf("expected error for unknown cap mode")
	}
}

func TestParseViews(t *testing.T) {
	views, err := parseViews("Both")
	if err != nil {
		t.Fatalf("parseViews: %v", err)
	}
	if len(views) != 2 || views[0] != chart.ViewMultiplier || views[1] != chart.ViewVelocity {
		t.Fatalf("unexpected views %v", views)
	}
	if _, err := parseViews("gain"); err == nil {
		t.Fatalf("expected error for unknown view")
	}
}

func TestWriteProfileFormats(t *testing.T) {
	s := accel.DefaultSettings()
	s.Mode = model.ModeClassic
	file := profile.FromSettings("desk", s)

	var tomlOut bytes.Buffer
	if err := writeProfile(&tomlOut, file, "toml"); err != nil {
		t.Fatalf("toml: %v", err)
	}
	if !strings.Contains(tomlOut.String(), "name = \"desk\"") {
		t.Fatalf("unexpected toml output:\n%s", tomlOut.String())
	}

	var yamlOut bytes.Buffer
	if err := writeProfile(&yamlOut, file, "YAML"); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !strings.Contains(yamlOut.String(), "name: desk") {
		t.Fatalf("unexpected yaml output:\n%s", yamlOut.String())
	}

	if err := writeProfile(&bytes.Buffer{}, file, "json"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
