package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ClockModeRequest sets the clock face rendering.
type ClockModeRequest struct {
	// Allowed: analog, digital
	Mode string `json:"mode" binding:"required" example:"analog"`
}

// ThemeRequest sets the color theme.
type ThemeRequest struct {
	// Allowed: light, dark
	Theme string `json:"theme" binding:"required" example:"dark"`
}

// PermissionRequest records the OS notification permission.
type PermissionRequest struct {
	// Allowed: granted, denied, default
	Permission string `json:"permission" binding:"required" example:"granted"`
}

// @Summary      Get preferences
// @Tags         preferences
// @Produce      json
// @Success      200  {object}  models.Preferences
// @Router       /api/v1/preferences [get]
// @Security     BearerAuth
func (h *Handler) getPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Preferences.Get())
}

// @Summary      Set clock mode
// @Tags         preferences
// @Accept       json
// @Produce      json
// @Param        body  body      ClockModeRequest  true  "Mode payload"
// @Success      200   {object}  models.Preferences
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/preferences/clock-mode [put]
// @Security     BearerAuth
func (h *Handler) setClockMode(c *gin.Context) {
	var req ClockModeRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	if err := h.services.Preferences.SetClockMode(c.Request.Context(), req.Mode); err != nil {
		h.respondServiceError(c, "prefs_clock_mode_failed", err, "mode", req.Mode)
		return
	}
	c.JSON(http.StatusOK, h.services.Preferences.Get())
}

// @Summary      Toggle clock mode
// @Tags         preferences
// @Produce      json
// @Success      200  {object}  models.Preferences
// @Router       /api/v1/preferences/clock-mode/toggle [post]
// @Security     BearerAuth
func (h *Handler) toggleClockMode(c *gin.Context) {
	h.services.Preferences.ToggleClockMode(c.Request.Context())
	c.JSON(http.StatusOK, h.services.Preferences.Get())
}

// @Summary      Set theme
// @Tags         preferences
// @Accept       json
// @Produce      json
// @Param        body  body      ThemeRequest  true  "Theme payload"
// @Success      200   {object}  models.Preferences
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/preferences/theme [put]
// @Security     BearerAuth
func (h *Handler) setTheme(c *gin.Context) {
	var req ThemeRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	if err := h.services.Preferences.SetTheme(c.Request.Context(), req.Theme); err != nil {
		h.respondServiceError(c, "prefs_theme_failed", err, "theme", req.Theme)
		return
	}
	c.JSON(http.StatusOK, h.services.Preferences.Get())
}

// @Summary      Toggle theme
// @Tags         preferences
// @Produce      json
// @Success      200  {object}  models.Preferences
// @Router       /api/v1/preferences/theme/toggle [post]
// @Security     BearerAuth
func (h *Handler) toggleTheme(c *gin.Context) {
	h.services.Preferences.ToggleTheme(c.Request.Context())
	c.JSON(http.StatusOK, h.services.Preferences.Get())
}

// @Summary      Dismiss onboarding
// @Tags         preferences
// @Produce      json
// @Success      200  {object}  models.Preferences
// @Router       /api/v1/preferences/onboarding/dismiss [post]
// @Security     BearerAuth
func (h *Handler) dismissOnboarding(c *gin.Context) {
	h.services.Preferences.DismissOnboarding(c.Request.Context())
	c.JSON(http.StatusOK, h.services.Preferences.Get())
}

// @Summary      Set notification permission
// @Tags         preferences
// @Accept       json
// @Produce      json
// @Param        body  body      PermissionRequest  true  "Permission payload"
// @Success      200   {object}  models.Preferences
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/preferences/notification-permission [put]
// @Security     BearerAuth
func (h *Handler) setNotificationPermission(c *gin.Context) {
	var req PermissionRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	if err := h.services.Preferences.SetNotificationPermission(c.Request.Context(), req.Permission); err != nil {
		h.respondServiceError(c, "prefs_permission_failed", err, "permission", req.Permission)
		return
	}
	c.JSON(http.StatusOK, h.services.Preferences.Get())
}
