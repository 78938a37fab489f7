package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/studyplan/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(14)

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	docStyle = lipgloss.NewStyle().Padding(0, 2)

	categoryStyles = map[models.Category]lipgloss.Style{
		models.CategoryStudy: lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		models.CategoryClass: lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
		models.CategoryMeal:  lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		models.CategorySleep: lipgloss.NewStyle().Foreground(lipgloss.Color("60")),
		models.CategoryBreak: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	}

	levelStyles = map[models.WorkloadLevel]lipgloss.Style{
		models.WorkloadLight:    lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true),
		models.WorkloadModerate: lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
		models.WorkloadHeavy:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		models.WorkloadExtreme:  dangerStyle,
	}
)

// RenderDay formats one day plan as an agenda.
func RenderDay(plan models.DayPlan) string {
	var b strings.Builder

	title := fmt.Sprintf("%s  wake %s  bed %s  study %s", plan.Date, plan.Wake, plan.Bedtime, FormatMinutes(plan.StudyMinutes))
	if plan.Rest {
		title += "  (rest day)"
	}
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")

	var rows []string
	for _, blk := range plan.Blocks {
		style, ok := categoryStyles[blk.Category]
		if !ok {
			style = lipgloss.NewStyle()
		}
		line := timeStyle.Render(fmt.Sprintf("%s-%s", blk.Start, blk.End)) +
			style.Render(fmt.Sprintf("%-6s %s", blk.Category, blk.Task))
		if blk.Notes != "" {
			line += mutedStyle.Render("  " + blk.Notes)
		}
		rows = append(rows, line)
	}
	b.WriteString(docStyle.Render(strings.Join(rows, "\n")))
	b.WriteString("\n")

	if plan.Degraded {
		b.WriteString(dangerStyle.Render("! " + plan.Warning))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderWorkload formats the workload analysis footer.
func RenderWorkload(w models.WorkloadAnalysis) string {
	var b strings.Builder

	style, ok := levelStyles[w.Level]
	if !ok {
		style = lipgloss.NewStyle()
	}
	b.WriteString(fmt.Sprintf("Workload: %s (score %.1f)\n", style.Render(string(w.Level)), w.Score))

	details := []string{
		fmt.Sprintf("urgent deadlines: %d", w.UrgentCount),
		fmt.Sprintf("study: %s", FormatMinutes(w.StudyMinutes)),
		fmt.Sprintf("unscheduled: %.1fh", w.UnscheduledHours),
	}
	if w.SleepReductionMinutes > 0 {
		details = append(details, fmt.Sprintf("sleep cut: %s", FormatMinutes(w.SleepReductionMinutes)))
	}
	if w.MealReductionMinutes > 0 {
		details = append(details, fmt.Sprintf("meals cut: %s", FormatMinutes(w.MealReductionMinutes)))
	}
	b.WriteString(docStyle.Render(mutedStyle.Render(strings.Join(details, "  "))))
	b.WriteString("\n")

	if w.Warning != "" {
		b.WriteString(warningStyle.Render(w.Warning))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderSchedule formats every day followed by the workload analysis.
func RenderSchedule(s models.Schedule) string {
	var parts []string
	for _, day := range s.Days {
		parts = append(parts, RenderDay(day))
	}
	parts = append(parts, RenderWorkload(s.Workload))
	return strings.Join(parts, "\n")
}

func FormatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}
