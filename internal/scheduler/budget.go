package scheduler

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/studyplan/internal/constants"
	"github.com/julianstephens/studyplan/internal/models"
)

// policy caps the lifestyle preferences for one study mode. A zero cap leaves
// the preference untouched.
type policy struct {
	sleepCapMin int
	mealCapMin  int
}

var negotiationTable = map[models.StudyMode]policy{
	models.ModeRelaxed: {},
	models.ModeNormal:  {sleepCapMin: 7 * 60, mealCapMin: 45},
	models.ModeSprint:  {sleepCapMin: 6 * 60, mealCapMin: 30},
}

// negotiate applies a cap and then a floor. The floor always wins.
func negotiate(pref, limit, floor int) int {
	v := pref
	if limit > 0 && v > limit {
		v = limit
	}
	if v < floor {
		v = floor
	}
	return v
}

// Budget is the per-day allotment produced by the BudgetPlanner.
type Budget struct {
	SleepMinutes  int
	LunchMinutes  int
	DinnerMinutes int

	PreferredSleep  int
	PreferredLunch  int
	PreferredDinner int

	Queue []QueueItem
}

// QueueItem is one deadline eligible for study on a given day.
type QueueItem struct {
	Index            int
	Deadline         models.Deadline
	AdjustedHours    float64
	RemainingMinutes int
}

// BudgetPlanner turns lifestyle preferences and a study mode into daily
// budgets and orders the outstanding deadlines.
type BudgetPlanner struct {
	mode            models.StudyMode
	preferredSleep  int
	preferredLunch  int
	preferredDinner int
}

// NewBudgetPlanner resolves zero preferences to the configured defaults.
func NewBudgetPlanner(ls models.LifestylePreferences, mode models.StudyMode) *BudgetPlanner {
	if _, ok := negotiationTable[mode]; !ok {
		mode = models.ModeNormal
	}
	sleepHours := ls.SleepHours
	if sleepHours == 0 {
		sleepHours = constants.DefaultSleepHours
	}
	lunch := ls.LunchMinutes
	if lunch == 0 {
		lunch = constants.DefaultLunchMinutes
	}
	dinner := ls.DinnerMinutes
	if dinner == 0 {
		dinner = constants.DefaultDinnerMinutes
	}
	return &BudgetPlanner{
		mode:            mode,
		preferredSleep:  int(math.Round(sleepHours * 60)),
		preferredLunch:  lunch,
		preferredDinner: dinner,
	}
}

// Plan returns the budget for date, with the queue of deadlines that still
// have work left and are not yet past due on that day.
func (p *BudgetPlanner) Plan(date time.Time, ledger *Ledger) Budget {
	pol := negotiationTable[p.mode]
	return Budget{
		SleepMinutes:    negotiate(p.preferredSleep, pol.sleepCapMin, constants.SleepFloorMin),
		LunchMinutes:    negotiate(p.preferredLunch, pol.mealCapMin, constants.MinMealMinutes),
		DinnerMinutes:   negotiate(p.preferredDinner, pol.mealCapMin, constants.MinMealMinutes),
		PreferredSleep:  p.preferredSleep,
		PreferredLunch:  p.preferredLunch,
		PreferredDinner: p.preferredDinner,
		Queue:           ledger.queue(date),
	}
}

// RestSleepMinutes is the sleep allotment on a rest day: the preference,
// never below the floor.
func (p *BudgetPlanner) RestSleepMinutes() int {
	return negotiate(p.preferredSleep, 0, constants.SleepFloorMin)
}

// AdjustedHours scales the estimate by the weakness factor when the details
// mention any keyword. The factor applies once.
func AdjustedHours(d models.Deadline, keywords []string) float64 {
	if matchesWeakness(d, keywords) {
		return d.EstimatedHours * constants.WeaknessEffortFactor
	}
	return d.EstimatedHours
}

func matchesWeakness(d models.Deadline, keywords []string) bool {
	text := strings.ToLower(d.Details)
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

type ledgerEntry struct {
	deadline      models.Deadline
	adjustedHours float64
	remaining     int
}

// Ledger tracks remaining effort, in minutes, for each deadline across the
// days of one run.
type Ledger struct {
	entries []ledgerEntry
}

func NewLedger(deadlines []models.Deadline, keywords []string) *Ledger {
	l := &Ledger{entries: make([]ledgerEntry, 0, len(deadlines))}
	for _, d := range deadlines {
		adj := AdjustedHours(d, keywords)
		l.entries = append(l.entries, ledgerEntry{
			deadline:      d,
			adjustedHours: adj,
			remaining:     int(math.Round(adj * 60)),
		})
	}
	return l
}

// Consume subtracts scheduled minutes per entry index.
func (l *Ledger) Consume(minutes map[int]int) {
	for idx, m := range minutes {
		if idx < 0 || idx >= len(l.entries) {
			continue
		}
		l.entries[idx].remaining -= m
		if l.entries[idx].remaining < 0 {
			l.entries[idx].remaining = 0
		}
	}
}

// RemainingMinutes is the outstanding effort across all deadlines.
func (l *Ledger) RemainingMinutes() int {
	total := 0
	for _, e := range l.entries {
		total += e.remaining
	}
	return total
}

func (l *Ledger) remainingFor(idx int) int {
	return l.entries[idx].remaining
}

func (l *Ledger) queue(date time.Time) []QueueItem {
	y, m, d := date.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, date.Location())

	items := make([]QueueItem, 0, len(l.entries))
	for i, e := range l.entries {
		if e.remaining <= 0 || !e.deadline.Due.After(dayStart) {
			continue
		}
		items = append(items, QueueItem{
			Index:            i,
			Deadline:         e.deadline,
			AdjustedHours:    e.adjustedHours,
			RemainingMinutes: e.remaining,
		})
	}
	sortQueue(items)
	return items
}

// sortQueue orders by due time, then larger effort, then priority, then
// title, then input position.
func sortQueue(items []QueueItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.Deadline.Due.Equal(b.Deadline.Due) {
			return a.Deadline.Due.Before(b.Deadline.Due)
		}
		if a.AdjustedHours != b.AdjustedHours {
			return a.AdjustedHours > b.AdjustedHours
		}
		if ra, rb := a.Deadline.Priority.Rank(), b.Deadline.Priority.Rank(); ra != rb {
			return ra > rb
		}
		if a.Deadline.Title != b.Deadline.Title {
			return a.Deadline.Title < b.Deadline.Title
		}
		return a.Index < b.Index
	})
}
