package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/studyplan/internal/backup"
	"github.com/julianstephens/studyplan/internal/constants"
	"github.com/julianstephens/studyplan/internal/keyring"
	"github.com/julianstephens/studyplan/internal/logger"
	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/provider"
	"github.com/julianstephens/studyplan/internal/scheduler"
	"github.com/julianstephens/studyplan/internal/storage"
	"github.com/julianstephens/studyplan/internal/utils"
)

// AIConfig holds the OpenAI settings taken from flags or the environment.
type AIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type Context struct {
	Store storage.Provider
	AI    AIConfig
	// Out receives command output; nil means os.Stdout.
	Out io.Writer
}

func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Snapshot backs up a SQLite database before destructive writes. Failures
// are logged and never block the command.
func (c *Context) Snapshot() {
	path := c.Store.GetConfigPath()
	if _, err := os.Stat(path); err != nil {
		return
	}
	if _, err := backup.NewManager(path).Take(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Settings returns the stored settings with defaults applied.
func (c *Context) Settings() (models.Settings, error) {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

// Scheduler builds the local scheduler with the default weakness keywords
// plus any configured in settings.
func (c *Context) Scheduler(settings models.Settings) *scheduler.Scheduler {
	keywords := append([]string{}, constants.DefaultWeaknessKeywords...)
	keywords = append(keywords, settings.WeaknessKeywords...)
	return scheduler.NewWithConfig(scheduler.Config{WeaknessKeywords: keywords})
}

// Planner returns the local planner, or the OpenAI planner backed by the local
// one when useAI is set.
func (c *Context) Planner(settings models.Settings, useAI bool) (provider.Planner, error) {
	local := provider.NewLocal(c.Scheduler(settings))
	if !useAI {
		return local, nil
	}
	key := keyring.Lookup(constants.KeyringOpenAIKey, c.AI.APIKey)
	if key == "" {
		return nil, fmt.Errorf("%w: set %s or run 'studyplan keyring set %s <key>'",
			provider.ErrNoAPIKey, constants.EnvOpenAIKey, constants.KeyringOpenAIKey)
	}
	return provider.NewFallback(provider.NewOpenAI(key, c.AI.Model, c.AI.BaseURL), local), nil
}

// Location returns the timezone configured in settings.
func Location(settings models.Settings) (*time.Location, error) {
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q in settings: %w", settings.Timezone, err)
	}
	return loc, nil
}

// ParseWeekdays parses a comma-separated list of weekdays
func ParseWeekdays(s string) ([]time.Weekday, error) {
	var weekdays []time.Weekday
	seen := map[time.Weekday]bool{}
	for _, part := range strings.Split(s, ",") {
		wd, err := utils.ParseWeekday(part)
		if err != nil {
			return nil, err
		}
		if !seen[wd] {
			seen[wd] = true
			weekdays = append(weekdays, wd)
		}
	}
	if len(weekdays) == 0 {
		return nil, errors.New("no weekdays given")
	}
	return weekdays, nil
}

// FormatRecurrence describes when a commitment takes place.
func FormatRecurrence(c models.FixedCommitment) string {
	switch {
	case c.Date != "":
		return "on " + c.Date
	case c.Weekday != nil:
		return "every " + c.Weekday.String()
	default:
		return "never"
	}
}

// ShortID returns the first eight characters of id for listings.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
