package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/projects_api/internal/logging"
	authmw "github.com/Skotchmaster/projects_api/internal/middleware/auth"
	"github.com/Skotchmaster/projects_api/internal/service"
	"github.com/Skotchmaster/projects_api/internal/transport"
	"github.com/Skotchmaster/projects_api/internal/util"
)

const (
	detailCreated   = "Project created successfully"
	detailUpdated   = "Project updated successfully"
	detailUnchanged = "You have not made any changes to update the project details"
	detailDeleted   = "Project deleted successfully"
)

type ProjectHTTP struct {
	Svc *service.ProjectService
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id is not a positive integer")
	}
	return uint(id), nil
}

func actorID(c echo.Context) uint {
	if u, ok := authmw.UserFromContext(c); ok {
		return u.ID
	}
	return 0
}

// httpError maps service errors onto responses; unknown errors are logged
// and hidden behind a 500.
func httpError(c echo.Context, event string, err error) error {
	l := logging.FromContext(c.Request().Context())
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		l.Warn(event, "status", 409, "error", err)
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrSearchDisabled):
		l.Warn(event, "status", 503, "error", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not configured")
	default:
		l.Error(event, "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}

func (h *ProjectHTTP) ListProjects(c echo.Context) error {
	ctx := c.Request().Context()

	items, err := h.Svc.ListProjects(ctx, c.QueryParam("sort_by"))
	if err != nil {
		return httpError(c, "list_projects_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProjectHTTP) GetProject(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	p, err := h.Svc.GetProject(c.Request().Context(), id)
	if err != nil {
		return httpError(c, "get_project_error", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProjectHTTP) SearchProjects(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "project.search")

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit, err := util.Calculate(page, size)
	if err != nil {
		l.Warn("search_projects_error", "status", 400, "page", page, "size", size, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "page is out of range")
	}
	if page < 1 {
		page = 1
	}

	total, items, err := h.Svc.SearchProjects(ctx, c.QueryParam("q"), from, limit)
	if err != nil {
		return httpError(c, "search_projects_error", err)
	}

	l.Info("search_projects_success", "total", total)
	return c.JSON(http.StatusOK, transport.SearchResponse{
		Data: items,
		Meta: transport.SearchMeta{
			Page:       page,
			Size:       limit,
			Total:      total,
			TotalPages: (total + int64(limit) - 1) / int64(limit),
			HasPrev:    page > 1,
			HasNext:    int64(from+limit) < total,
		},
	})
}

func (h *ProjectHTTP) CreateProject(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create_project")

	var req transport.CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("project_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := req.Validate(); err != nil {
		l.Warn("project_create_error", "status", 400, "reason", "validation", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.Svc.CreateProject(ctx, actorID(c), req.Name, req.Description)
	if err != nil {
		return httpError(c, "project_create_error", err)
	}

	l.Info("create_project_success", "project_id", p.ID)
	return c.JSON(http.StatusCreated, transport.ProjectResponse{Detail: detailCreated, Project: p})
}

func (h *ProjectHTTP) UpdateProject(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "update_project")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req transport.UpdateProjectRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("project_update_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := req.Validate(); err != nil {
		l.Warn("project_update_error", "status", 400, "reason", "validation", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.Svc.UpdateProject(ctx, actorID(c), id, req.Name, req.Description)
	if err != nil {
		return httpError(c, "project_update_error", err)
	}

	detail := detailUpdated
	if !res.Changed {
		detail = detailUnchanged
	}
	l.Info("update_project_success", "project_id", id, "changed", res.Changed)
	return c.JSON(http.StatusOK, transport.ProjectResponse{Detail: detail, Project: res.Project})
}

func (h *ProjectHTTP) DeleteProject(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete_project")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	p, err := h.Svc.DeleteProject(ctx, actorID(c), id)
	if err != nil {
		return httpError(c, "project_delete_error", err)
	}

	l.Info("delete_project_success", "project_id", id)
	return c.JSON(http.StatusOK, transport.ProjectResponse{Detail: detailDeleted, Project: p})
}
