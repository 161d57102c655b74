package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/projects_api/internal/db"
	"github.com/Skotchmaster/projects_api/internal/logging"
	"github.com/Skotchmaster/projects_api/internal/metrics"
	authmw "github.com/Skotchmaster/projects_api/internal/middleware/auth"
	"github.com/Skotchmaster/projects_api/internal/models"
)

type Deps struct {
	DB             *gorm.DB
	AuthHandler    *AuthHTTP
	ProjectHandler *ProjectHTTP
	AuthMW         *authmw.Middleware
	Metrics        *metrics.Metrics
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", welcome)
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)

	projects := e.Group("/projects")

	read := projects.Group("", d.AuthMW.RequireRole(models.RoleUser))
	read.GET("", d.ProjectHandler.ListProjects)
	read.GET("/search", d.ProjectHandler.SearchProjects)
	read.GET("/:id", d.ProjectHandler.GetProject)

	admin := projects.Group("", d.AuthMW.RequireAdmin)
	admin.POST("", d.ProjectHandler.CreateProject)
	admin.PUT("/:id", d.ProjectHandler.UpdateProject)
	admin.DELETE("/:id", d.ProjectHandler.DeleteProject)
}

func welcome(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Welcome to the projects API. Register at /register and log in at /login to get an access token.",
	})
}

func (d *Deps) ready(c echo.Context) error {
	ctx := c.Request().Context()
	if err := db.Ping(ctx, d.DB); err != nil {
		logging.FromContext(ctx).Error("readiness_failed", "status", 503, "error", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
	}
	return c.NoContent(http.StatusOK)
}
