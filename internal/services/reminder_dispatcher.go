package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"taskmate/internal/i18n"
	"taskmate/internal/repositories"
)

// NotificationChannel delivers a reminder text to a user's external chat id.
type NotificationChannel interface {
	SendMessage(chatID int64, text string) error
}

// ReminderDispatcher is the periodic at-least-once delivery loop. Each run
// fetches due reminders, delivers what it can, and commits the sent flags in
// one batch at the end. Delivery failures leave the reminder unsent for the
// next run; reminders without a deliverable user are marked sent so they are
// never retried. A mutex keeps runs from overlapping inside one process;
// there is no cross-process claim step, so overlapping schedulers elsewhere
// can double-deliver.
type ReminderDispatcher struct {
	reminders       repositories.ReminderRepository
	channel         NotificationChannel
	loc             *i18n.Localizer
	defaultTimezone string
	defaultLocale   string
	batchSize       int
	log             *zap.Logger
	now             func() time.Time

	mu sync.Mutex
}

func NewReminderDispatcher(
	reminders repositories.ReminderRepository,
	channel NotificationChannel,
	loc *i18n.Localizer,
	defaultTimezone, defaultLocale string,
	batchSize int,
	log *zap.Logger,
) *ReminderDispatcher {
	return &ReminderDispatcher{
		reminders:       reminders,
		channel:         channel,
		loc:             loc,
		defaultTimezone: defaultTimezone,
		defaultLocale:   defaultLocale,
		batchSize:       batchSize,
		log:             log,
		now:             time.Now,
	}
}

// DispatchDue processes one batch of due reminders and returns how many were
// delivered. A run that would overlap an in-flight one is skipped.
func (d *ReminderDispatcher) DispatchDue(ctx context.Context) (int, error) {
	if !d.mu.TryLock() {
		d.log.Warn("reminder.dispatch.overlap_skipped")
		return 0, nil
	}
	defer d.mu.Unlock()

	due, err := d.reminders.ListDue(ctx, d.batchSize)
	if err != nil {
		return 0, err
	}
	if len(due) == 0 {
		return 0, nil
	}

	dispatched := 0
	var sentIDs []int64
	for i := range due {
		reminder := &due[i]
		if reminder.Task == nil || reminder.User == nil || reminder.User.TelegramID == nil {
			// Undeliverable forever; mark sent so it is not retried.
			sentIDs = append(sentIDs, reminder.ID)
			continue
		}

		user := reminder.User
		task := reminder.Task
		language := user.Language
		if language == "" {
			language = d.defaultLocale
		}
		locale := d.loc.Normalize(language)

		extra := ""
		if task.DueAt != nil {
			tz := resolveTimezone(user.Timezone, d.defaultTimezone, d.log)
			extra = d.loc.Translate(locale, "task_summary_due", map[string]any{
				"due": d.loc.FormatDateTime(*task.DueAt, locale, tz, "short"),
			})
		}
		message := d.loc.Translate(locale, "reminder_due_message", map[string]any{
			"title": task.Title,
			"extra": extra,
		})

		if err := d.channel.SendMessage(*user.TelegramID, d.loc.PrepareTelegram(locale, message)); err != nil {
			d.log.Error("reminder.delivery_failed",
				zap.Int64("reminder_id", reminder.ID),
				zap.Int64("user_id", user.ID),
				zap.Error(err))
			continue
		}
		sentIDs = append(sentIDs, reminder.ID)
		dispatched++
	}

	if err := d.reminders.MarkSentBatch(ctx, sentIDs); err != nil {
		// Nothing was persisted; the whole batch is retried next run.
		d.log.Error("reminder.commit_failed", zap.Error(err))
		return dispatched, err
	}

	d.log.Info("reminder.dispatched",
		zap.Int("processed", dispatched), zap.Int("batch", len(due)))
	return dispatched, nil
}
