package main

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/studyplan/internal/cli"
	"github.com/julianstephens/studyplan/internal/cli/classes"
	"github.com/julianstephens/studyplan/internal/cli/deadlines"
	"github.com/julianstephens/studyplan/internal/cli/plans"
	"github.com/julianstephens/studyplan/internal/cli/settings"
	"github.com/julianstephens/studyplan/internal/cli/system"
	"github.com/julianstephens/studyplan/internal/constants"
	"github.com/julianstephens/studyplan/internal/errors"
	"github.com/julianstephens/studyplan/internal/keyring"
	"github.com/julianstephens/studyplan/internal/logger"
	"github.com/julianstephens/studyplan/internal/storage"
	"github.com/julianstephens/studyplan/internal/storage/postgres"
	"github.com/julianstephens/studyplan/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Debug   bool   `help:"Enable debug logging to stderr."`
	Config  string `help:"SQLite database path or PostgreSQL connection string. PostgreSQL credentials must NOT be embedded; use the OS keyring, environment or .pgpass instead." type:"string" default:"~/.config/studyplan/studyplan.db" env:"STUDYPLAN_DB_CONNECTION"`

	OpenAIKey   string `name:"openai-key" help:"OpenAI API key for --ai planning." env:"OPENAI_API_KEY"`
	OpenAIModel string `name:"openai-model" help:"OpenAI chat model." env:"STUDYPLAN_OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAIURL   string `name:"openai-url" help:"OpenAI-compatible API base URL." env:"STUDYPLAN_OPENAI_URL" default:"https://api.openai.com/v1"`

	Init     system.InitCmd       `cmd:"" help:"Initialize studyplan storage."`
	Plan     plans.PlanCmd        `cmd:"" help:"Generate a study schedule."`
	Day      plans.DayCmd         `cmd:"" help:"Show the saved plan for a day."`
	Validate system.ValidateCmd   `cmd:"" help:"Check classes, deadlines and saved plans for problems."`
	Serve    system.ServeCmd      `cmd:"" help:"Serve the scheduling HTTP API."`
	Token    system.TokenCmd      `cmd:"" help:"Mint a bearer token for the HTTP API."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage lifestyle and planning settings."`
	Deadline struct {
		Add    deadlines.DeadlineAddCmd    `cmd:"" help:"Add a deadline."`
		List   deadlines.DeadlineListCmd   `cmd:"" help:"List deadlines." default:"1"`
		Delete deadlines.DeadlineDeleteCmd `cmd:"" help:"Delete a deadline."`
	} `cmd:"" help:"Manage deadlines."`
	Class struct {
		Add    classes.ClassAddCmd    `cmd:"" help:"Add a class or other fixed commitment."`
		List   classes.ClassListCmd   `cmd:"" help:"List classes." default:"1"`
		Delete classes.ClassDeleteCmd `cmd:"" help:"Delete a class."`
	} `cmd:"" help:"Manage classes and fixed commitments."`
	Plans struct {
		Delete plans.PlanDeleteCmd `cmd:"" help:"Delete a saved plan."`
	} `cmd:"" help:"Manage saved plans."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove a secret from the OS keyring."`
	} `cmd:"" help:"Manage secrets in the OS keyring."`
}

func main() {
	// A missing .env file is fine; real environment variables still apply.
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Study schedule planner: deadlines and classes in, day plans out"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	config, fromKeyring := CLI.Config, false
	if config == "" || config == constants.DefaultConfigPath {
		if connStr, err := keyring.GetConnectionString(); err == nil {
			config, fromKeyring = connStr, true
		}
	}

	store, logDir, err := openStore(config, fromKeyring)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.Format(err))
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: logDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	appCtx := &cli.Context{
		Store: store,
		AI: cli.AIConfig{
			APIKey:  CLI.OpenAIKey,
			Model:   CLI.OpenAIModel,
			BaseURL: CLI.OpenAIURL,
		},
	}

	errors.Fatal(runCommand(store, needsStore(ctx.Command()), func() error {
		return ctx.Run(appCtx)
	}))
}

// closer is the part of storage.Provider that runCommand manages.
type closer interface {
	Load() error
	Close() error
}

// runCommand loads the store when asked, runs the command and always closes
// the store before returning, so the caller may exit on the result.
func runCommand(store closer, load bool, run func() error) error {
	var err error
	if load {
		err = store.Load()
	}
	if err == nil {
		err = run()
	}
	if cerr := store.Close(); cerr != nil {
		logger.Warn("Failed to close store", "error", cerr)
		if err == nil {
			err = cerr
		}
	}
	return err
}

// openStore picks PostgreSQL for connection strings and SQLite otherwise. It
// also returns the directory logs are written under. Passwords are tolerated
// only in connection strings that came from the keyring.
func openStore(config string, fromKeyring bool) (storage.Provider, string, error) {
	if postgres.IsConnString(config) || strings.Contains(config, "host=") {
		_, err := postgres.ValidateConnString(config)
		if fromKeyring && stderrors.Is(err, postgres.ErrEmbeddedCredentials) {
			err = nil
		}
		if err != nil {
			return nil, "", fmt.Errorf("%w\n       Store credentials with 'studyplan keyring set %s <conn>' or use ~/.pgpass", err, constants.DefaultKeyringUser)
		}
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, "", err
		}
		return postgres.New(config), filepath.Join(dir, constants.AppName), nil
	}

	path, err := expandHome(config)
	if err != nil {
		return nil, "", err
	}
	return sqlite.NewStore(path), filepath.Dir(path), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// needsStore reports whether a command reads or writes storage before running.
// init creates the store itself; keyring and token never touch it.
func needsStore(command string) bool {
	switch {
	case strings.HasPrefix(command, "init"),
		strings.HasPrefix(command, "keyring"),
		strings.HasPrefix(command, "token"):
		return false
	}
	return true
}
