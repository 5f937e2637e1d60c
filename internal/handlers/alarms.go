package handlers

import (
	"net/http"

	"timekeeper/internal/service"

	"github.com/gin-gonic/gin"
)

// AddAlarmRequest is the payload for creating a daily alarm.
type AddAlarmRequest struct {
	// Display name; defaults to "Alarm"
	Name   string `json:"name" example:"Wake"`
	Hour   *int   `json:"hour" example:"7"`
	Minute *int   `json:"minute" example:"0"`
	// Defaults to true when omitted
	IsEnabled *bool `json:"isEnabled" example:"true"`
}

// UpdateAlarmRequest is a partial edit; omitted fields are left alone.
type UpdateAlarmRequest struct {
	Name      *string `json:"name,omitempty" example:"Wake up"`
	Hour      *int    `json:"hour,omitempty" example:"6"`
	Minute    *int    `json:"minute,omitempty" example:"45"`
	IsEnabled *bool   `json:"isEnabled,omitempty" example:"true"`
}

// @Summary      List alarms
// @Tags         alarms
// @Produce      json
// @Success      200  {array}   models.Alarm
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/alarms [get]
// @Security     BearerAuth
func (h *Handler) listAlarms(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Alarms.List())
}

// @Summary      Add alarm
// @Tags         alarms
// @Accept       json
// @Produce      json
// @Param        body  body      AddAlarmRequest  true  "Alarm payload"
// @Success      201   {object}  models.Alarm
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/alarms [post]
// @Security     BearerAuth
func (h *Handler) addAlarm(c *gin.Context) {
	var req AddAlarmRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	if req.Hour == nil || req.Minute == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hour, minute: " + errMissingField.Error()})
		return
	}
	enabled := true
	if req.IsEnabled != nil {
		enabled = *req.IsEnabled
	}
	a, err := h.services.Alarms.Add(c.Request.Context(), service.AlarmParams{
		Name:      req.Name,
		Hour:      *req.Hour,
		Minute:    *req.Minute,
		IsEnabled: enabled,
	})
	if err != nil {
		h.respondServiceError(c, "alarm_add_failed", err, "hour", *req.Hour, "minute", *req.Minute)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// @Summary      Update alarm
// @Tags         alarms
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "Alarm ID"
// @Param        body  body      UpdateAlarmRequest  true  "Fields to change"
// @Success      200   {object}  models.Alarm
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/alarms/{id} [patch]
// @Security     BearerAuth
func (h *Handler) updateAlarm(c *gin.Context) {
	var req UpdateAlarmRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	id := c.Param("id")
	a, found, err := h.services.Alarms.Update(c.Request.Context(), id, service.AlarmUpdate{
		Name:      req.Name,
		Hour:      req.Hour,
		Minute:    req.Minute,
		IsEnabled: req.IsEnabled,
	})
	if err != nil {
		h.respondServiceError(c, "alarm_update_failed", err, "id", id)
		return
	}
	if !found {
		notFound(c, errAlarmNotFound)
		return
	}
	c.JSON(http.StatusOK, a)
}

// @Summary      Toggle alarm
// @Tags         alarms
// @Produce      json
// @Param        id   path      string  true  "Alarm ID"
// @Success      200  {object}  models.Alarm
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/alarms/{id}/toggle [post]
// @Security     BearerAuth
func (h *Handler) toggleAlarm(c *gin.Context) {
	a, ok := h.services.Alarms.Toggle(c.Request.Context(), c.Param("id"))
	if !ok {
		notFound(c, errAlarmNotFound)
		return
	}
	c.JSON(http.StatusOK, a)
}

// @Summary      Remove alarm
// @Tags         alarms
// @Produce      json
// @Param        id   path      string  true  "Alarm ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/alarms/{id} [delete]
// @Security     BearerAuth
func (h *Handler) removeAlarm(c *gin.Context) {
	id := c.Param("id")
	if !h.services.Alarms.Remove(c.Request.Context(), id) {
		notFound(c, errAlarmNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusRemoved, "id": id})
}

// @Summary      Next alarm
// @Description  The nearest upcoming firing among enabled alarms; 204 when none is armed
// @Tags         alarms
// @Produce      json
// @Success      200  {object}  service.NextFiring
// @Success      204
// @Router       /api/v1/alarms/next [get]
// @Security     BearerAuth
func (h *Handler) nextAlarm(c *gin.Context) {
	next, ok := h.services.Alarms.Next()
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, next)
}
