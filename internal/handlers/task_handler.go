package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskmate/internal/models"
	"taskmate/internal/repositories"
	"taskmate/internal/services"
)

type TaskHandler struct {
	tasks     repositories.TaskRepository
	users     repositories.UserRepository
	reminders *services.ReminderService
	log       *zap.Logger
}

func NewTaskHandler(
	tasks repositories.TaskRepository,
	users repositories.UserRepository,
	reminders *services.ReminderService,
	log *zap.Logger,
) *TaskHandler {
	return &TaskHandler{tasks: tasks, users: users, reminders: reminders, log: log}
}

type createTaskBody struct {
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description"`
	OrganizationID *int64 `json:"organization_id"`
	ProjectID      *int64 `json:"project_id"`
	DueAt          string `json:"due_at"` // RFC3339
	Priority       string `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	Source         string `json:"source"`
}

// POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok || principal.UserID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user identity required"})
		return
	}

	var body createTaskBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var due *time.Time
	if body.DueAt != "" {
		t, err := time.Parse(time.RFC3339, body.DueAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_at (RFC3339)"})
			return
		}
		utc := t.UTC()
		due = &utc
	}

	now := time.Now().UTC()
	userID := principal.UserID
	task := &models.Task{
		UserID:         &userID,
		OrganizationID: body.OrganizationID,
		ProjectID:      body.ProjectID,
		Type:           "task",
		Title:          body.Title,
		Description:    body.Description,
		DueAt:          due,
		Status:         "pending",
		Priority:       models.TaskPriority(body.Priority),
		Source:         body.Source,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if task.Priority == "" {
		task.Priority = models.PriorityNormal
	}

	if err := h.tasks.Store(c.Request.Context(), task); err != nil {
		h.log.Error("task.create_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "task creation failed"})
		return
	}

	user, err := h.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		h.log.Warn("task.user_lookup_failed", zap.Int64("user_id", userID), zap.Error(err))
	}

	// Chat-created tasks always get a reminder (clamped forward when the
	// computed time is already past); API-created ones get the default set.
	if task.Source == "telegram" {
		if _, err := h.reminders.ScheduleForChatTask(c.Request.Context(), task, user); err != nil {
			h.log.Error("task.reminder_schedule_failed", zap.Int64("task_id", task.ID), zap.Error(err))
		}
	} else if task.DueAt != nil {
		if _, err := h.reminders.ScheduleDefaults(c.Request.Context(), task, user); err != nil {
			h.log.Error("task.reminder_schedule_failed", zap.Int64("task_id", task.ID), zap.Error(err))
		}
	}

	c.JSON(http.StatusCreated, task)
}
