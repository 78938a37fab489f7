package models

import (
	"fmt"
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Rank orders priorities from low (0) to urgent (3); unknown values rank as medium.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityHigh:
		return 2
	case PriorityUrgent:
		return 3
	default:
		return 1
	}
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ParsePriority accepts any casing; an empty string means medium.
func ParsePriority(s string) (Priority, error) {
	if strings.TrimSpace(s) == "" {
		return PriorityMedium, nil
	}
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority %q (expected low|medium|high|urgent)", s)
	}
	return p, nil
}

type Deadline struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Due            time.Time `json:"due"`
	EstimatedHours float64   `json:"estimated_hours"`
	Priority       Priority  `json:"priority"`
	Details        string    `json:"details,omitempty"`
	DeletedAt      *string   `json:"deleted_at,omitempty"` // RFC3339 timestamp
}
