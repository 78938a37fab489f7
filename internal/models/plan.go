package models

type Category string

const (
	CategoryStudy Category = "study"
	CategoryMeal  Category = "meal"
	CategorySleep Category = "sleep"
	CategoryBreak Category = "break"
	CategoryClass Category = "class"
)

// TimeBlock covers [Start, End) of a single day.
type TimeBlock struct {
	Start      Clock    `json:"start"`
	End        Clock    `json:"end"`
	Category   Category `json:"category"`
	Task       string   `json:"task"`
	Notes      string   `json:"notes,omitempty"`
	DeadlineID string   `json:"deadline_id,omitempty"`
}

func (b TimeBlock) Minutes() int {
	return int(b.End - b.Start)
}

type DayPlan struct {
	Date         string      `json:"date"` // YYYY-MM-DD format
	Wake         Clock       `json:"wake"`
	Bedtime      Clock       `json:"bedtime"`
	Blocks       []TimeBlock `json:"blocks"`
	StudyMinutes int         `json:"study_minutes"`
	Rest         bool        `json:"rest,omitempty"`
	Degraded     bool        `json:"degraded,omitempty"`
	Warning      string      `json:"warning,omitempty"`
	DeletedAt    *string     `json:"deleted_at,omitempty"` // RFC3339 timestamp
}

// BlocksOf returns the blocks of the given category in order.
func (p DayPlan) BlocksOf(category Category) []TimeBlock {
	var out []TimeBlock
	for _, b := range p.Blocks {
		if b.Category == category {
			out = append(out, b)
		}
	}
	return out
}

type WorkloadLevel string

const (
	WorkloadLight    WorkloadLevel = "light"
	WorkloadModerate WorkloadLevel = "moderate"
	WorkloadHeavy    WorkloadLevel = "heavy"
	WorkloadExtreme  WorkloadLevel = "extreme"
)

type WorkloadAnalysis struct {
	Score                 float64       `json:"score"`
	Level                 WorkloadLevel `json:"level"`
	Warning               string        `json:"warning"`
	UrgentCount           int           `json:"urgent_count"`
	SleepReductionMinutes int           `json:"sleep_reduction_minutes"`
	MealReductionMinutes  int           `json:"meal_reduction_minutes"`
	StudyMinutes          int           `json:"study_minutes"`
	UnscheduledHours      float64       `json:"unscheduled_hours"`
	InfeasibleDays        []string      `json:"infeasible_days,omitempty"`
}

type Schedule struct {
	Days     []DayPlan        `json:"days"`
	Workload WorkloadAnalysis `json:"workload_analysis"`
}
