package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"github.com/verte-zerg/accelcurve/internal/accel"
	"github.com/verte-zerg/accelcurve/internal/model"
)

func TestApplyWritesSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "driver", "driver.toml")
	sink := NewFileSink(path, nil)

	s := accel.DefaultSettings()
	s.Mode = model.ModeClassic
	s.Args.Acceleration = 0.02
	body, err := sink.Apply(context.Background(), "gaming", s)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !strings.Contains(string(body), `mode = "classic"`) {
		t.Fatalf("unexpected body:\n%s", body)
	}
	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if string(onDisk) != string(body) {
		t.Fatalf("file differs from returned body")
	}

	back, err := sink.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if back.Mode != model.ModeClassic || back.Args.Acceleration != 0.02 {
		t.Fatalf("unexpected snapshot %+v", back)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp_") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestApplyRejectsInvalidSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "driver.toml")
	sink := NewFileSink(path, nil)
	s := accel.DefaultSettings()
	if _, err := sink.Apply(context.Background(), "ok", s); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}

	s.Sensitivity.X = 0
	if _, err := sink.Apply(context.Background(), "bad", s); !errors.Is(err, accel.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if string(before) != string(after) {
		t.Fatalf("invalid settings must not replace the snapshot")
	}
}

func TestApplyHonorsContextWhileLocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "driver.toml")
	holder := flock.New(path + ".lock")
	locked, err := holder.TryLock()
	if err != nil || !locked {
		t.Fatalf("could not take lock: locked=%v err=%v", locked, err)
	}
	defer func() {
		_ = holder.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	sink := NewFileSink(path, nil)
	if _, err := sink.Apply(ctx, "blocked", accel.DefaultSettings()); err == nil {
		t.Fatalf("expected error while lock is held")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("snapshot must not be written while locked, stat err=%v", err)
	}
}
