package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmate/internal/authz"
	"taskmate/internal/handlers"
	"taskmate/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	jwtSecret []byte,
	reportHandler *handlers.ReportHandler,
	taskHandler *handlers.TaskHandler,
) *gin.Engine {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.Use(middleware.AuthMiddleware(jwtSecret))

	reports := r.Group("/reports", middleware.RequireRoles(
		authz.RoleSystemAdmin,
		authz.RoleOrgAdmin,
		authz.RoleTeamManager,
		authz.RoleMember,
	))
	{
		reports.POST("", reportHandler.Generate)
	}

	tasks := r.Group("/tasks")
	{
		tasks.POST("", taskHandler.Create)
	}

	return r
}
