package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"taskmate/internal/models"
)

type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id int64) (*models.Task, error)
	// FetchWindow returns tasks created inside [windowStart, windowEnd),
	// scoped by the filter, ordered by creation time ascending.
	FetchWindow(ctx context.Context, filter models.ReportFilter, windowStart, windowEnd time.Time) ([]models.Task, error)
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, user_id, organization_id, project_id, type, title, description,
       due_at, start_at, end_at, status, priority, source, origin_message_id, created_at, updated_at`

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (
			user_id, organization_id, project_id, type, title, description,
			due_at, start_at, end_at, status, priority, source, origin_message_id,
			created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		task.UserID, task.OrganizationID, task.ProjectID, task.Type,
		task.Title, task.Description, task.DueAt, task.StartAt, task.EndAt,
		task.Status, task.Priority, task.Source, task.OriginMessageID,
		task.CreatedAt, task.UpdatedAt,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	task := &models.Task{}
	err := scanTask(r.db.QueryRowContext(ctx, query, id), task)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("task not found")
		}
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) FetchWindow(
	ctx context.Context, filter models.ReportFilter, windowStart, windowEnd time.Time,
) ([]models.Task, error) {
	conditions := []string{"created_at >= $1", "created_at < $2"}
	args := []interface{}{windowStart, windowEnd}
	argID := 3

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argID))
		args = append(args, *filter.UserID)
		argID++
	}
	if filter.OrganizationID != nil {
		conditions = append(conditions, fmt.Sprintf("organization_id = $%d", argID))
		args = append(args, *filter.OrganizationID)
		argID++
	}
	if filter.ProjectID != nil {
		conditions = append(conditions, fmt.Sprintf("project_id = $%d", argID))
		args = append(args, *filter.ProjectID)
		argID++
	}
	if filter.TeamID != nil {
		// A task belongs to the team either through an assignment row or
		// through its project's team link.
		conditions = append(conditions, fmt.Sprintf(`(
			EXISTS (
				SELECT 1 FROM task_assignments ta
				WHERE ta.task_id = tasks.id AND ta.assigned_team_id = $%d
			)
			OR EXISTS (
				SELECT 1 FROM projects p
				WHERE p.id = tasks.project_id AND p.team_id = $%d
			)
		)`, argID, argID+1))
		args = append(args, *filter.TeamID, *filter.TeamID)
		argID += 2
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		if err := scanTask(rows, &t); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner, t *models.Task) error {
	var (
		taskType, description, status, priority, source, originMsg sql.NullString
	)
	if err := row.Scan(
		&t.ID, &t.UserID, &t.OrganizationID, &t.ProjectID, &taskType,
		&t.Title, &description, &t.DueAt, &t.StartAt, &t.EndAt,
		&status, &priority, &source, &originMsg, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return err
	}
	t.Type = taskType.String
	t.Description = description.String
	t.Status = status.String
	t.Priority = models.TaskPriority(priority.String)
	t.Source = source.String
	t.OriginMessageID = originMsg.String
	return nil
}
