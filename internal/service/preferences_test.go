package service

import (
	"context"
	"errors"
	"testing"

	"timekeeper/internal/models"
	"timekeeper/internal/repository"
)

func TestPreferences_DefaultsWhenAbsent(t *testing.T) {
	svc := NewPreferenceService(newMemSnapshots(), models.ThemeDark, nil)
	svc.Restore(context.Background())

	got := svc.Get()
	want := models.Preferences{
		ClockMode:              models.ClockModeDigital,
		Theme:                  models.ThemeDark,
		NotificationPermission: models.PermissionDefault,
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestPreferences_RestoreIgnoresInvalidValues(t *testing.T) {
	snaps := newMemSnapshots()
	snaps.strings[repository.KeyClockMode] = models.ClockModeAnalog
	snaps.strings[repository.KeyTheme] = "sepia"
	snaps.strings[repository.KeyNotificationPermission] = models.PermissionGranted
	snaps.bools[repository.KeyOnboardingDismissed] = true

	svc := NewPreferenceService(snaps, "", nil)
	svc.Restore(context.Background())

	got := svc.Get()
	if got.ClockMode != models.ClockModeAnalog || got.Theme != models.ThemeLight ||
		!got.OnboardingDismissed || svc.Permission() != models.PermissionGranted {
		t.Fatalf("got %+v", got)
	}
}

func TestPreferences_RestoreReadFailureKeepsDefaults(t *testing.T) {
	snaps := newMemSnapshots()
	snaps.loadErr = errors.New("io")
	svc := NewPreferenceService(snaps, models.ThemeLight, nil)
	svc.Restore(context.Background())
	if svc.Get().ClockMode != models.ClockModeDigital {
		t.Fatalf("expected defaults")
	}
}

func TestPreferences_SettersValidateAndPersist(t *testing.T) {
	snaps := newMemSnapshots()
	svc := NewPreferenceService(snaps, models.ThemeLight, nil)
	ctx := context.Background()

	if err := svc.SetClockMode(ctx, "sundial"); !errors.Is(err, ErrInvalidClockMode) {
		t.Fatalf("err=%v", err)
	}
	if err := svc.SetTheme(ctx, "neon"); !errors.Is(err, ErrInvalidTheme) {
		t.Fatalf("err=%v", err)
	}
	if err := svc.SetNotificationPermission(ctx, "maybe"); !errors.Is(err, ErrInvalidPermission) {
		t.Fatalf("err=%v", err)
	}
	if snaps.saves != 0 {
		t.Fatalf("invalid values persisted")
	}

	if got := svc.ToggleClockMode(ctx); got != models.ClockModeAnalog {
		t.Fatalf("toggle clock mode -> %q", got)
	}
	if got := svc.ToggleTheme(ctx); got != models.ThemeDark {
		t.Fatalf("toggle theme -> %q", got)
	}
	if err := svc.SetNotificationPermission(ctx, models.PermissionDenied); err != nil {
		t.Fatalf("SetNotificationPermission: %v", err)
	}
	svc.DismissOnboarding(ctx)

	if snaps.strings[repository.KeyClockMode] != models.ClockModeAnalog ||
		snaps.strings[repository.KeyTheme] != models.ThemeDark ||
		snaps.strings[repository.KeyNotificationPermission] != models.PermissionDenied ||
		!snaps.bools[repository.KeyOnboardingDismissed] {
		t.Fatalf("persisted: %+v %+v", snaps.strings, snaps.bools)
	}
}

func TestClockFace_FollowsMode(t *testing.T) {
	clk := localAt(15, 4, 5)
	prefs := NewPreferenceService(newMemSnapshots(), models.ThemeLight, nil)
	face := NewClockFaceService(clk, prefs)

	got := face.Now()
	if got.Hours != 15 || got.Minutes != 4 || got.Seconds != 5 || got.Display != "15:04:05" || got.Mode != models.ClockModeDigital {
		t.Fatalf("digital face=%+v", got)
	}

	_ = prefs.SetClockMode(context.Background(), models.ClockModeAnalog)
	got = face.Now()
	if got.Display != "3:04 PM" || got.Mode != models.ClockModeAnalog {
		t.Fatalf("analog face=%+v", got)
	}
}
