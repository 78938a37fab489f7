package system

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/julianstephens/studyplan/internal/cli"
	"github.com/julianstephens/studyplan/internal/constants"
	"github.com/julianstephens/studyplan/internal/keyring"
	"github.com/julianstephens/studyplan/internal/storage/postgres"
)

// KeyringSetCmd stores a secret in the OS keyring
type KeyringSetCmd struct {
	Name  string `arg:"" help:"Secret name (database-connection|openai-api-key|jwt-secret)."`
	Value string `arg:"" help:"Secret value."`
}

func (cmd *KeyringSetCmd) Validate() error {
	return checkName(cmd.Name)
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	out := ctx.Stdout()
	if cmd.Name == constants.DefaultKeyringUser {
		if !postgres.IsConnString(cmd.Value) && !strings.Contains(cmd.Value, "host=") {
			return errors.New("connection string must be a valid PostgreSQL connection string")
		}
		if _, err := postgres.ValidateConnString(cmd.Value); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("invalid connection string: %w", err)
			}
			fmt.Fprintln(out, "Warning: connection string contains embedded credentials; storing it as-is in the OS keyring.")
		}
	}

	if err := keyring.Set(cmd.Name, cmd.Value); err != nil {
		return err
	}
	fmt.Fprintf(out, "Stored %s in OS keyring\n", cmd.Name)
	return nil
}

// KeyringDeleteCmd removes a secret from the OS keyring
type KeyringDeleteCmd struct {
	Name string `arg:"" help:"Secret name (database-connection|openai-api-key|jwt-secret)."`
}

func (cmd *KeyringDeleteCmd) Validate() error {
	return checkName(cmd.Name)
}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.Delete(cmd.Name); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring", cmd.Name)
		}
		return err
	}
	fmt.Fprintf(ctx.Stdout(), "Deleted %s from OS keyring\n", cmd.Name)
	return nil
}

func checkName(name string) error {
	if !slices.Contains(keyring.Names, name) {
		return fmt.Errorf("unknown secret %q (expected one of %s)", name, strings.Join(keyring.Names, ", "))
	}
	return nil
}
