package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskIsCompleted(t *testing.T) {
	endAt := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"status done", Task{Status: "done"}, true},
		{"status completed", Task{Status: "completed"}, true},
		{"status resolved", Task{Status: "resolved"}, true},
		{"status uppercase", Task{Status: "DONE"}, true},
		{"status mixed case", Task{Status: "Resolved"}, true},
		{"end_at set with pending status", Task{Status: "pending", EndAt: &endAt}, true},
		{"end_at set with empty status", Task{EndAt: &endAt}, true},
		{"status pending", Task{Status: "pending"}, false},
		{"status free text", Task{Status: "in review"}, false},
		{"empty task", Task{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.IsCompleted())
		})
	}
}

func TestTaskIsOverdue(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"past due and open", Task{Status: "pending", DueAt: &past}, true},
		{"past due but completed", Task{Status: "done", DueAt: &past}, false},
		{"future due", Task{Status: "pending", DueAt: &future}, false},
		{"no due date", Task{Status: "pending"}, false},
		{"due exactly now", Task{Status: "pending", DueAt: &now}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.IsOverdue(now))
		})
	}
}
