package services

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"taskmate/internal/models"
	"taskmate/internal/repositories"
)

const reminderOffsetsPref = "default_reminder_minutes"

// ReminderService owns reminder scheduling. Two distinct past-time policies
// exist on purpose: the default-offset path drops candidates that are already
// due, while the chat-creation path clamps them forward so a chat-created
// task always ends up with a reminder.
type ReminderService struct {
	reminders        repositories.ReminderRepository
	defaultOffsetMin int
	log              *zap.Logger
	now              func() time.Time
}

func NewReminderService(reminders repositories.ReminderRepository, defaultOffsetMin int, log *zap.Logger) *ReminderService {
	return &ReminderService{
		reminders:        reminders,
		defaultOffsetMin: defaultOffsetMin,
		log:              log,
		now:              time.Now,
	}
}

// Schedule persists a reminder for the task at the given instant, reusing an
// existing row for the same task+instant pair.
func (s *ReminderService) Schedule(ctx context.Context, taskID int64, when time.Time) (*models.Reminder, error) {
	reminder, err := s.reminders.InsertIfAbsent(ctx, taskID, when.UTC())
	if err != nil {
		return nil, err
	}
	s.log.Info("reminder.schedule",
		zap.Int64("task_id", taskID), zap.Time("remind_at", reminder.RemindAt))
	return reminder, nil
}

func (s *ReminderService) Cancel(ctx context.Context, reminderID int64) error {
	if err := s.reminders.Delete(ctx, reminderID); err != nil {
		return err
	}
	s.log.Info("reminder.cancel", zap.Int64("reminder_id", reminderID))
	return nil
}

// ComputeDefaultTimes derives the reminder instants for a due time from the
// user's offset preferences. Candidates not strictly in the future are
// dropped; the result is sorted ascending.
func (s *ReminderService) ComputeDefaultTimes(dueAt *time.Time, user *models.User) []time.Time {
	if dueAt == nil {
		return nil
	}
	due := dueAt.UTC()
	now := s.now()

	var times []time.Time
	for _, offset := range s.offsetMinutes(user) {
		candidate := due.Add(-time.Duration(offset) * time.Minute)
		if candidate.After(now) {
			times = append(times, candidate)
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	return times
}

// ScheduleDefaults persists one reminder per computed default instant.
// Re-invocation is idempotent through the task+instant dedupe.
func (s *ReminderService) ScheduleDefaults(ctx context.Context, task *models.Task, user *models.User) ([]models.Reminder, error) {
	var out []models.Reminder
	for _, when := range s.ComputeDefaultTimes(task.DueAt, user) {
		reminder, err := s.Schedule(ctx, task.ID, when)
		if err != nil {
			return out, err
		}
		out = append(out, *reminder)
	}
	return out, nil
}

// ScheduleForChatTask is the chat-origin creation path: one reminder at
// due minus the single preferred offset, or now plus the offset when the
// task has no due time. A candidate at or before now is clamped forward to
// now plus the offset rather than dropped.
func (s *ReminderService) ScheduleForChatTask(ctx context.Context, task *models.Task, user *models.User) (*models.Reminder, error) {
	offset := s.defaultOffsetMin
	if offsets := s.offsetMinutes(user); len(offsets) > 0 {
		offset = offsets[0]
	}
	delta := time.Duration(offset) * time.Minute
	now := s.now()

	var remindAt time.Time
	if task.DueAt != nil {
		remindAt = task.DueAt.UTC().Add(-delta)
	} else {
		remindAt = now.Add(delta)
	}
	if !remindAt.After(now) {
		remindAt = now.Add(delta)
	}
	return s.Schedule(ctx, task.ID, remindAt)
}

// offsetMinutes reads the offsets preference, accepting a single number or a
// list; entries that fail to parse are skipped individually. The configured
// default applies when the preference is absent.
func (s *ReminderService) offsetMinutes(user *models.User) []int {
	var prefs models.Preferences
	if user != nil {
		prefs = user.Preferences
	}
	raw, ok := prefs[reminderOffsetsPref]
	if !ok || raw == nil {
		return []int{s.defaultOffsetMin}
	}

	var out []int
	switch v := raw.(type) {
	case []any:
		for _, entry := range v {
			if n, ok := parseOffset(entry); ok {
				out = append(out, n)
			} else {
				s.log.Debug("reminder.offset_invalid", zap.Any("value", entry))
			}
		}
	default:
		if n, ok := parseOffset(v); ok {
			out = append(out, n)
		} else {
			s.log.Debug("reminder.offset_invalid", zap.Any("value", v))
		}
	}
	return out
}

func parseOffset(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i, true
		}
	}
	return 0, false
}
