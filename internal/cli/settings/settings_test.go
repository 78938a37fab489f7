package settings

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/studyplan/internal/cli"
	"github.com/julianstephens/studyplan/internal/constants"
	"github.com/julianstephens/studyplan/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	out := &bytes.Buffer{}
	return &cli.Context{Store: store, Out: out}, out
}

func TestSettingsCmd_List(t *testing.T) {
	ctx, out := setupTestDB(t)

	if err := (&SettingsCmd{List: true}).Run(ctx); err != nil {
		t.Fatalf("settings list failed: %v", err)
	}
	for _, want := range []string{"Sleep Hours:       8", "Study Mode:        " + constants.DefaultStudyMode} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("list output missing %q:\n%s", want, out.String())
		}
	}
}

func TestSettingsCmd_Update(t *testing.T) {
	ctx, _ := setupTestDB(t)

	sleep := 7.5
	lunch := 30
	forbid := true
	mode := "SPRINT"
	keywords := "weak at proofs, , lost in lectures"
	cmd := &SettingsCmd{
		SleepHours:       &sleep,
		LunchMinutes:     &lunch,
		ForbidSundays:    &forbid,
		StudyMode:        &mode,
		WeaknessKeywords: &keywords,
	}
	if err := cmd.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}

	got, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if got.SleepHours != 7.5 || got.LunchMinutes != 30 || !got.ForbidSundays {
		t.Errorf("settings not saved: %+v", got)
	}
	if got.StudyMode != "sprint" {
		t.Errorf("StudyMode = %q, want sprint", got.StudyMode)
	}
	if len(got.WeaknessKeywords) != 2 || got.WeaknessKeywords[1] != "lost in lectures" {
		t.Errorf("WeaknessKeywords = %q", got.WeaknessKeywords)
	}
	if got.DinnerMinutes != constants.DefaultDinnerMinutes {
		t.Errorf("untouched DinnerMinutes changed to %d", got.DinnerMinutes)
	}
}

func TestSettingsCmd_Validate(t *testing.T) {
	short := 4.0
	zero := 0
	tz := "Mars/Olympus"
	tests := []struct {
		name string
		cmd  SettingsCmd
	}{
		{name: "sleep below floor", cmd: SettingsCmd{SleepHours: &short}},
		{name: "zero plan days", cmd: SettingsCmd{PlanDays: &zero}},
		{name: "unknown timezone", cmd: SettingsCmd{Timezone: &tz}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
