package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/projects_api/internal/logging"
	"github.com/Skotchmaster/projects_api/internal/models"
)

const CtxUser = "user"

func setUserContext(c echo.Context, user *models.User) {
	c.Set(CtxUser, user)
	req := c.Request()
	c.SetRequest(req.WithContext(logging.With(req.Context(), "user_id", user.ID)))
}

// UserFromContext returns the identity set by RequireAuth or RequireRole.
func UserFromContext(c echo.Context) (*models.User, bool) {
	u, ok := c.Get(CtxUser).(*models.User)
	return u, ok && u != nil
}
