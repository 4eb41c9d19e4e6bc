package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"taskmate/internal/models"
)

type ReminderRepository interface {
	// InsertIfAbsent stores a reminder for the task+instant pair unless one
	// already exists, making repeated scheduling idempotent.
	InsertIfAbsent(ctx context.Context, taskID int64, remindAt time.Time) (*models.Reminder, error)
	Delete(ctx context.Context, id int64) error
	// ListDue returns up to limit unsent reminders with remind_at <= now,
	// ordered by remind_at ascending, with task and owning user attached.
	ListDue(ctx context.Context, limit int) ([]models.DueReminder, error)
	// MarkSentBatch flips sent=true for all ids in one transaction.
	MarkSentBatch(ctx context.Context, ids []int64) error
}

type reminderRepository struct {
	db *sql.DB
}

func NewReminderRepository(db *sql.DB) ReminderRepository {
	return &reminderRepository{db: db}
}

func (r *reminderRepository) InsertIfAbsent(ctx context.Context, taskID int64, remindAt time.Time) (*models.Reminder, error) {
	reminder := &models.Reminder{TaskID: taskID, RemindAt: remindAt}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, sent, created_at FROM reminders WHERE task_id = $1 AND remind_at = $2 LIMIT 1`,
		taskID, remindAt,
	).Scan(&reminder.ID, &reminder.Sent, &reminder.CreatedAt)
	if err == nil {
		return reminder, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}
	err = r.db.QueryRowContext(ctx,
		`INSERT INTO reminders (task_id, remind_at, sent, created_at)
		 VALUES ($1, $2, FALSE, NOW()) RETURNING id, created_at`,
		taskID, remindAt,
	).Scan(&reminder.ID, &reminder.CreatedAt)
	if err != nil {
		return nil, err
	}
	return reminder, nil
}

func (r *reminderRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = $1`, id)
	return err
}

func (r *reminderRepository) ListDue(ctx context.Context, limit int) ([]models.DueReminder, error) {
	q := `
SELECT r.id, r.task_id, r.remind_at, r.sent, r.created_at,
       t.id, t.title, t.due_at, t.status,
       u.id, u.telegram_id, u.language, u.timezone
FROM reminders r
LEFT JOIN tasks t ON t.id = r.task_id
LEFT JOIN users u ON u.id = t.user_id
WHERE r.sent = FALSE AND r.remind_at <= NOW()
ORDER BY r.remind_at ASC
LIMIT $1`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.DueReminder
	for rows.Next() {
		var (
			d          models.DueReminder
			taskID     sql.NullInt64
			taskTitle  sql.NullString
			taskDue    sql.NullTime
			taskStatus sql.NullString
			userID     sql.NullInt64
			tgID       sql.NullInt64
			language   sql.NullString
			timezone   sql.NullString
		)
		if err := rows.Scan(
			&d.ID, &d.TaskID, &d.RemindAt, &d.Sent, &d.CreatedAt,
			&taskID, &taskTitle, &taskDue, &taskStatus,
			&userID, &tgID, &language, &timezone,
		); err != nil {
			return nil, err
		}
		if taskID.Valid {
			task := &models.Task{ID: taskID.Int64, Title: taskTitle.String, Status: taskStatus.String}
			if taskDue.Valid {
				due := taskDue.Time
				task.DueAt = &due
			}
			d.Task = task
		}
		if userID.Valid {
			user := &models.User{ID: userID.Int64, Language: language.String, Timezone: timezone.String}
			if tgID.Valid {
				tg := tgID.Int64
				user.TelegramID = &tg
			}
			d.User = user
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *reminderRepository) MarkSentBatch(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE reminders SET sent = TRUE WHERE id = ANY($1)`, pq.Array(ids),
	); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
