package models

import "time"

// Reminder belongs to exactly one task. Lifecycle: created (sent=false) ->
// dispatched (sent=true, terminal) or cancelled (deleted). No other states.
type Reminder struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	RemindAt  time.Time `json:"remind_at"`
	Sent      bool      `json:"sent"`
	CreatedAt time.Time `json:"created_at"`
}

// DueReminder is a reminder eagerly loaded with its task and the task's
// owning user, as returned by the due-reminder fetch. Task and User may be
// nil when the referenced rows are gone.
type DueReminder struct {
	Reminder
	Task *Task
	User *User
}
