package system

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/studyplan/internal/cli"
	"github.com/julianstephens/studyplan/internal/constants"
	"github.com/julianstephens/studyplan/internal/keyring"
	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/server"
	"github.com/julianstephens/studyplan/internal/storage/sqlite"
)

func newContext(t *testing.T) (*cli.Context, string, *bytes.Buffer) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() { _ = store.Close() })
	out := &bytes.Buffer{}
	return &cli.Context{Store: store, Out: out}, dbPath, out
}

func TestInitCmd(t *testing.T) {
	ctx, dbPath, out := newContext(t)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database file was not created at %s: %v", dbPath, err)
	}
	if !strings.Contains(out.String(), dbPath) {
		t.Errorf("unexpected output %q", out.String())
	}

	// Running again keeps existing data.
	if err := ctx.Store.AddDeadline(models.Deadline{ID: "x", Title: "Essay", Due: time.Now().Add(48 * time.Hour)}); err != nil {
		t.Fatal(err)
	}
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("second init failed: %v", err)
	}
	if _, err := ctx.Store.GetDeadline("x"); err != nil {
		t.Errorf("deadline lost after re-init: %v", err)
	}

	// --force starts from scratch.
	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("forced init failed: %v", err)
	}
	if _, err := ctx.Store.GetDeadline("x"); err == nil {
		t.Error("expected deadline to be gone after --force")
	}
}

func TestValidateCmd(t *testing.T) {
	ctx, _, out := newContext(t)
	if err := ctx.Store.Init(); err != nil {
		t.Fatal(err)
	}

	if err := (&ValidateCmd{Date: "2026-03-02", Days: 7}).Run(ctx); err != nil {
		t.Fatalf("validate on empty store failed: %v", err)
	}
	if !strings.Contains(out.String(), "No problems found") {
		t.Errorf("unexpected output %q", out.String())
	}

	mon := time.Monday
	for _, c := range []models.FixedCommitment{
		{ID: "a", Label: "Physics", Weekday: &mon, Start: "09:00", End: "11:00"},
		{ID: "b", Label: "Seminar", Date: "2026-03-09", Start: "10:00", End: "12:00"},
	} {
		if err := ctx.Store.AddCommitment(c); err != nil {
			t.Fatal(err)
		}
	}

	out.Reset()
	err := (&ValidateCmd{Date: "2026-03-02", Days: 14}).Run(ctx)
	if err == nil {
		t.Fatal("expected validation error for overlapping classes")
	}
	if !strings.Contains(out.String(), "Physics") || !strings.Contains(out.String(), "Seminar") {
		t.Errorf("report should name both classes:\n%s", out.String())
	}
}

func TestKeyringCmds(t *testing.T) {
	gokeyring.MockInit()
	ctx := &cli.Context{Out: &bytes.Buffer{}}

	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
	}{
		{name: "postgres URL", key: constants.DefaultKeyringUser, value: "postgres://student@localhost:5432/studyplan"},
		{name: "DSN", key: constants.DefaultKeyringUser, value: "host=localhost dbname=studyplan user=student"},
		{name: "URL with password warns", key: constants.DefaultKeyringUser, value: "postgres://student:pw@localhost:5432/studyplan"},
		{name: "not a connection string", key: constants.DefaultKeyringUser, value: "hello", wantErr: true},
		{name: "openai key", key: constants.KeyringOpenAIKey, value: "sk-test"},
		{name: "jwt secret", key: constants.KeyringJWTSecret, value: "s3cret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &KeyringSetCmd{Name: tt.key, Value: tt.value}
			err := cmd.Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			got, err := keyring.Get(tt.key)
			if err != nil || got != tt.value {
				t.Errorf("keyring.Get() = %q, %v", got, err)
			}
		})
	}

	if err := (&KeyringSetCmd{Name: "password"}).Validate(); err == nil {
		t.Error("expected unknown secret name to be rejected")
	}

	if err := (&KeyringDeleteCmd{Name: constants.KeyringOpenAIKey}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := (&KeyringDeleteCmd{Name: constants.KeyringOpenAIKey}).Run(ctx); err == nil {
		t.Error("expected error deleting a missing secret")
	}
}

func TestTokenCmd(t *testing.T) {
	gokeyring.MockInit()
	out := &bytes.Buffer{}
	ctx := &cli.Context{Out: out}

	if err := (&TokenCmd{Subject: "alice", TTL: time.Hour}).Run(ctx); err == nil {
		t.Error("expected error without a secret")
	}

	if err := (&TokenCmd{Subject: "alice", TTL: time.Hour, JWTSecret: "s3cret"}).Run(ctx); err != nil {
		t.Fatalf("token failed: %v", err)
	}
	sub, err := server.ParseToken([]byte("s3cret"), strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("minted token does not parse: %v", err)
	}
	if sub != "alice" {
		t.Errorf("subject = %q", sub)
	}
}
