package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/accelcurve/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "db", "accelcurve.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	})
	return st
}

func TestProfileCRUD(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	first := model.ProfileRecord{Name: "gaming", Mode: "classic", Body: "a = 1\n"}
	if err := st.SaveProfile(ctx, first); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	if err := st.SaveProfile(ctx, model.ProfileRecord{Name: "desk", Mode: "noaccel", Body: "b = 2\n"}); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	got, err := st.LoadProfile(ctx, "gaming")
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if got.Body != first.Body || got.Mode != "classic" || got.UpdatedAt.IsZero() {
		t.Fatalf("unexpected record %+v", got)
	}

	// Saving again replaces the body.
	if err := st.SaveProfile(ctx, model.ProfileRecord{Name: "gaming", Mode: "natural", Body: "c = 3\n"}); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	list, err := st.ListProfiles(ctx)
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	if len(list) != 2 || list[0].Name != "desk" || list[1].Name != "gaming" {
		t.Fatalf("unexpected list %+v", list)
	}
	if list[1].Mode != "natural" || list[1].Body != "c = 3\n" {
		t.Fatalf("expected replaced profile, got %+v", list[1])
	}

	if err := st.DeleteProfile(ctx, "desk"); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}
	if err := st.DeleteProfile(ctx, "desk"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := st.LoadProfile(ctx, "desk"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveProfileRequiresName(t *testing.T) {
	st := openTestStore(t)
	if err := st.SaveProfile(context.Background(), model.ProfileRecord{Body: "x"}); err == nil {
		t.Fatalf("expected error for empty name")
	}
}

func TestApplyHistory(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"one", "two", "three"} {
		_, err := st.RecordApply(ctx, model.ApplyRecord{
			AppliedAt: base.Add(time.Duration(i) * time.Minute),
			Profile:   name,
			Target:    "/tmp/driver.toml",
			Body:      name,
		})
		if err != nil {
			t.Fatalf("RecordApply: %v", err)
		}
	}

	recent, err := st.ListApplied(ctx, 2)
	if err != nil {
		t.Fatalf("ListApplied: %v", err)
	}
	if len(recent) != 2 || recent[0].Profile != "three" || recent[1].Profile != "two" {
		t.Fatalf("unexpected history %+v", recent)
	}
	if !recent[0].AppliedAt.Equal(base.Add(2 * time.Minute)) {
		t.Fatalf("unexpected timestamp %v", recent[0].AppliedAt)
	}

	all, err := st.ListApplied(ctx, 0)
	if err != nil {
		t.Fatalf("ListApplied: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
}

func TestApplyHistoryOrderWithFractionalSeconds(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// Stored as "...00.1Z" then "...00.15Z", which sort the other way as text.
	for i, offset := range []time.Duration{100 * time.Millisecond, 150 * time.Millisecond} {
		_, err := st.RecordApply(ctx, model.ApplyRecord{
			AppliedAt: base.Add(offset),
			Profile:   []string{"first", "second"}[i],
			Target:    "/tmp/driver.toml",
		})
		if err != nil {
			t.Fatalf("RecordApply: %v", err)
		}
	}
	recent, err := st.ListApplied(ctx, 0)
	if err != nil {
		t.Fatalf("ListApplied: %v", err)
	}
	if len(recent) != 2 || recent[0].Profile != "second" || recent[1].Profile != "first" {
		t.Fatalf("expected newest first, got %+v", recent)
	}
}

func TestOpenTwiceKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "accelcurve.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := st.SaveProfile(ctx, model.ProfileRecord{Name: "kept", Mode: "jump", Body: "x"}); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	st, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}()
	if _, err := st.LoadProfile(ctx, "kept"); err != nil {
		t.Fatalf("expected profile after reopen, got %v", err)
	}
}
