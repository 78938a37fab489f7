package constants

import "time"

const (
	AppName            = "studyplan"
	DefaultKeyringUser = "database-connection"
	KeyringOpenAIKey   = "openai-api-key"
	KeyringJWTSecret   = "jwt-secret"
	DefaultConfigPath  = "~/.config/studyplan/studyplan.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// DueFormat is used when printing deadline due times in block notes
	DueFormat = "2006-01-02 15:04"

	// EnvDBConnection holds a PostgreSQL connection string without credentials
	EnvDBConnection = "STUDYPLAN_DB_CONNECTION"
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvOpenAIModel  = "STUDYPLAN_OPENAI_MODEL"
	EnvOpenAIURL    = "STUDYPLAN_OPENAI_URL"
	EnvJWTSecret    = "STUDYPLAN_JWT_SECRET"

	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultOpenAIURL   = "https://api.openai.com/v1"
)

// Day template anchors, in minutes from midnight.
const (
	WakeAnchorMin   = 7 * 60
	LunchAnchorMin  = 12 * 60
	DinnerAnchorMin = 18 * 60
	LateCutoffMin   = 23 * 60

	LunchWindowStartMin  = 11 * 60
	LunchWindowEndMin    = 14*60 + 30
	DinnerWindowStartMin = 17 * 60
	DinnerWindowEndMin   = 21 * 60
	BreakfastWindowEnd   = 10*60 + 30

	MinutesPerDay = 24 * 60
)

// Template durations, in minutes.
const (
	MorningRoutineMin = 30
	BreakfastMin      = 30
	WindDownMin       = 30
	ShortBreakMin     = 15
	MaxStudyBlockMin  = 90
	MinStudyBlockMin  = 25
	MinRoutineMin     = 15
)

// Hard floors that no study mode may negotiate past.
const (
	SleepFloorMin  = 6 * 60
	MinMealMinutes = 15

	// MaxEstimatedHours bounds a single deadline's effort estimate
	MaxEstimatedHours = 10000

	// WeaknessEffortFactor is applied once to deadlines whose details report a weakness
	WeaknessEffortFactor = 1.3
)

// Workload analysis thresholds.
const (
	UrgentWithinHours = 48
	UrgentWeight      = 15.0
	ReductionPerHour  = 10.0
	UnscheduledWeight = 2.0
	MaxWorkloadScore  = 100.0
)

// DefaultWeaknessKeywords are matched case-insensitively against deadline details.
var DefaultWeaknessKeywords = []string{
	"no foundation",
	"no background",
	"weak at",
	"weak in",
	"struggle",
	"struggling",
	"don't understand",
	"dont understand",
	"confused",
	"never learned",
	"零基础",
	"基础差",
	"薄弱",
}

// Provider and server limits.
const (
	DefaultProviderTimeout = 30 * time.Second
	MaxRequestBytes        = 1 << 20
	DefaultServerAddr      = ":8080"
)
