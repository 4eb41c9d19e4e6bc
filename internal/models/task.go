package models

import (
	"strings"
	"time"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityNormal TaskPriority = "normal"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// Task represents the structure of a task in the system. Tasks are owned by
// the persistence layer; the report and reminder core reads them as snapshots.
type Task struct {
	ID              int64        `json:"id"`
	UserID          *int64       `json:"user_id,omitempty"`
	OrganizationID  *int64       `json:"organization_id,omitempty"`
	ProjectID       *int64       `json:"project_id,omitempty"`
	Type            string       `json:"type,omitempty"`
	Title           string       `json:"title"`
	Description     string       `json:"description,omitempty"`
	DueAt           *time.Time   `json:"due_at,omitempty"`
	StartAt         *time.Time   `json:"start_at,omitempty"`
	EndAt           *time.Time   `json:"end_at,omitempty"`
	Status          string       `json:"status,omitempty"`
	Priority        TaskPriority `json:"priority,omitempty"`
	Source          string       `json:"source,omitempty"`
	OriginMessageID string       `json:"origin_message_id,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// IsCompleted reports whether the task is terminal. A task counts as completed
// when end_at is set or the status is one of the completed synonyms; the same
// predicate has to be used everywhere completion matters.
func (t *Task) IsCompleted() bool {
	switch strings.ToLower(t.Status) {
	case "done", "completed", "resolved":
		return true
	}
	return t.EndAt != nil
}

// IsOverdue reports whether the task is past due at the given instant.
// Tasks without a due date are never overdue.
func (t *Task) IsOverdue(now time.Time) bool {
	return !t.IsCompleted() && t.DueAt != nil && t.DueAt.Before(now)
}

// TaskAssignment links a task to an assigned user and/or team. Only the
// current assignment set matters for team-scoped reports.
type TaskAssignment struct {
	ID             int64  `json:"id"`
	TaskID         int64  `json:"task_id"`
	AssignedUserID *int64 `json:"assigned_to_user_id,omitempty"`
	AssignedTeamID *int64 `json:"assigned_team_id,omitempty"`
}

// ReportFilter defines the scope filters applied to a window fetch.
// Equality filters combine with AND; the team filter is a disjunction of
// assignment membership and project-team linkage.
type ReportFilter struct {
	UserID         *int64
	OrganizationID *int64
	ProjectID      *int64
	TeamID         *int64
}
