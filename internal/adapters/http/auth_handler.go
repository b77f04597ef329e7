package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Fernandol1z6/site-do-estudio/internal/domain/entities"
	"github.com/Fernandol1z6/site-do-estudio/internal/infrastructure/logger"
	"github.com/Fernandol1z6/site-do-estudio/internal/ports"
)

// MessageResponse is a plain confirmation payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserView is the admin directory entry as exposed over the API. Password
// digests are never returned, only whether one is configured.
type UserView struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Name        string `json:"name"`
	Active      bool   `json:"active"`
	HasPassword bool   `json:"has_password"`
}

func toUserView(u *entities.User) UserView {
	return UserView{
		ID:          u.ID,
		Username:    u.Username,
		Name:        u.Name,
		Active:      u.Active,
		HasPassword: u.HasPassword(),
	}
}

// SessionStateResponse reports whether a valid session exists, and for whom.
type SessionStateResponse struct {
	Valid bool      `json:"valid"`
	User  *UserView `json:"user,omitempty"`
}

// AuthHandler handles login, logout, session checks and the admin user
// directory.
type AuthHandler struct {
	sessions ports.SessionService
	logger   *logger.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(sessions ports.SessionService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// Login authenticates an admin account. Bad credentials, an unknown
// username and an inactive account all produce the same message.
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	response, err := h.sessions.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, entities.ErrNoPasswordsSet) {
			return echo.NewHTTPError(http.StatusConflict, "No passwords configured. Set passwords in the management panel.")
		}
		h.logger.LogSecurityEvent("login_failed", req.Username, c.RealIP(), nil)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
	}
	return c.JSON(http.StatusOK, response)
}

// Logout clears the stored session.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.ClearSession(c.Request().Context()); err != nil {
		h.logger.Error("Logout failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Logout failed")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out"})
}

// GetSession reports the current session state.
func (h *AuthHandler) GetSession(c echo.Context) error {
	ctx := c.Request().Context()

	if !h.sessions.CheckSession(ctx) {
		return c.JSON(http.StatusOK, SessionStateResponse{Valid: false})
	}

	user, err := h.sessions.CurrentUser(ctx)
	if err != nil || user == nil {
		return c.JSON(http.StatusOK, SessionStateResponse{Valid: false})
	}

	view := toUserView(user)
	return c.JSON(http.StatusOK, SessionStateResponse{Valid: true, User: &view})
}

// ListUsers returns the admin directory.
func (h *AuthHandler) ListUsers(c echo.Context) error {
	users, err := h.sessions.GetUsers(c.Request().Context())
	if err != nil {
		h.logger.Error("List users failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load users")
	}

	views := make([]UserView, len(users))
	for i := range users {
		views[i] = toUserView(&users[i])
	}
	return c.JSON(http.StatusOK, views)
}

// ToggleUser flips an account's active flag.
func (h *AuthHandler) ToggleUser(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
	}

	user, err := h.sessions.ToggleUser(c.Request().Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		case errors.Is(err, entities.ErrLastActiveUser):
			return echo.NewHTTPError(http.StatusConflict, "At least one user must remain active")
		default:
			h.logger.Error("Toggle user failed", "error", err, "id", id)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update user")
		}
	}
	return c.JSON(http.StatusOK, toUserView(user))
}

// EditUserName renames an account.
func (h *AuthHandler) EditUserName(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
	}

	var req ports.EditUserNameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.sessions.EditUserName(c.Request().Context(), id, req.Name)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		h.logger.Error("Edit user name failed", "error", err, "id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update user")
	}
	return c.JSON(http.StatusOK, toUserView(user))
}

// EditUserPassword replaces an account's password.
func (h *AuthHandler) EditUserPassword(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
	}

	var req ports.EditUserPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err = h.sessions.EditUserPassword(c.Request().Context(), id, req.Password, req.Confirm)
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		case errors.Is(err, entities.ErrPasswordTooShort):
			return echo.NewHTTPError(http.StatusBadRequest, "Password must be at least 6 characters")
		case errors.Is(err, entities.ErrPasswordMismatch):
			return echo.NewHTTPError(http.StatusBadRequest, "Passwords do not match")
		default:
			h.logger.Error("Edit user password failed", "error", err, "id", id)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update password")
		}
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Password updated"})
}
