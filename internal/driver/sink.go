// Package driver hands validated settings snapshots to the driver.
package driver

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"

	"github.com/verte-zerg/accelcurve/internal/accel"
	"github.com/verte-zerg/accelcurve/internal/logging"
	"github.com/verte-zerg/accelcurve/internal/model"
	"github.com/verte-zerg/accelcurve/internal/profile"
)

// Sink accepts settings snapshots for the driver.
type Sink interface {
	Apply(ctx context.Context, name string, settings model.DriverSettings) ([]byte, error)
}

const defaultLockRetry = 5 * time.Millisecond

// FileSink writes snapshots as a TOML profile the driver picks up. Writers
// are serialized by a lock file next to the target.
type FileSink struct {
	path      string
	logger    *slog.Logger
	lockRetry time.Duration
}

// NewFileSink returns a sink writing to path. A nil logger discards logs.
func NewFileSink(path string, logger *slog.Logger) *FileSink {
	if logger == nil {
		logger = logging.Discard()
	}
	return &FileSink{path: path, logger: logger, lockRetry: defaultLockRetry}
}

// Path returns the snapshot file location.
func (f *FileSink) Path() string {
	return f.path
}

// Apply validates settings and atomically replaces the snapshot file. It
// returns the bytes written. Invalid settings leave the file untouched.
func (f *FileSink) Apply(ctx context.Context, name string, settings model.DriverSettings) ([]byte, error) {
	if err := accel.Validate(settings); err != nil {
		return nil, errors.Wrap(err, "refusing to write invalid settings")
	}
	var buf bytes.Buffer
	if err := profile.FromSettings(name, settings).Encode(&buf); err != nil {
		return nil, errors.Wrap(err, "could not encode settings")
	}
	if err := f.write(ctx, buf.Bytes()); err != nil {
		return nil, err
	}
	f.logger.Info("driver settings written", "path", f.path, "profile", name, "mode", settings.Mode.String())
	return buf.Bytes(), nil
}

// Current reads back the snapshot the driver would load.
func (f *FileSink) Current() (model.DriverSettings, error) {
	file, err := profile.Load(f.path)
	if err != nil {
		return model.DriverSettings{}, errors.Wrap(err, "could not read driver settings")
	}
	settings, err := file.Settings()
	if err != nil {
		return model.DriverSettings{}, errors.Wrap(err, "could not resolve driver settings")
	}
	return settings, nil
}

func (f *FileSink) write(ctx context.Context, data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "could not create driver settings directory")
	}
	file, err := os.CreateTemp(dir, ".tmp_"+filepath.Base(f.path))
	if err != nil {
		return errors.Wrap(err, "could not create temp settings file")
	}
	tmpName := file.Name()
	defer func() {
		if err := os.Remove(tmpName); err != nil && !os.IsNotExist(err) {
			f.logger.Debug("could not remove temp settings file", "path", tmpName, "error", err)
		}
	}()

	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return errors.Wrap(err, "could not write temp settings file")
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return errors.Wrap(err, "could not fsync temp settings file")
	}
	if err := file.Close(); err != nil {
		return errors.Wrap(err, "could not close temp settings file")
	}

	lock := flock.New(f.path + ".lock")
	locked, err := lock.TryLockContext(ctx, f.lockRetry)
	if err != nil {
		return errors.Wrap(err, "could not lock driver settings")
	}
	if !locked {
		return errors.New("could not obtain driver settings lock")
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			f.logger.Error("could not unlock driver settings", "error", err)
		}
	}()

	if err := os.Rename(tmpName, f.path); err != nil {
		return errors.Wrap(err, "could not move temp settings file into place")
	}

	directory, err := os.Open(dir)
	if err != nil {
		return errors.Wrap(err, "could not open driver settings directory")
	}
	defer func() {
		if cerr := directory.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
	}()
	if err := directory.Sync(); err != nil {
		return errors.Wrap(err, "could not fsync driver settings directory")
	}
	return nil
}
