package handlers

import (
	"net/http"

	"timekeeper/internal/models"
	"timekeeper/internal/service"

	"github.com/gin-gonic/gin"
)

// AddTimerRequest is the payload for creating a countdown timer.
type AddTimerRequest struct {
	// Display name; defaults to "Timer"
	Name string `json:"name" example:"Tea"`
	// Length in whole seconds; must be at least 1
	Duration *int `json:"duration" example:"180"`
	// Start counting down immediately
	Start bool `json:"start" example:"true"`
}

// AddTimerAtRequest is the payload for a timer that runs until the next HH:MM.
type AddTimerAtRequest struct {
	// Display name; defaults to "Timer for HH:MM"
	Name   string `json:"name" example:"Meeting"`
	Hour   *int   `json:"hour" example:"7"`
	Minute *int   `json:"minute" example:"30"`
	Start  bool   `json:"start" example:"true"`
}

type timerListResponse struct {
	Timers   []models.Timer `json:"timers"`
	ActiveID string         `json:"active_id,omitempty"`
}

// @Summary      List timers
// @Tags         timers
// @Produce      json
// @Success      200  {object}  timerListResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/timers [get]
// @Security     BearerAuth
func (h *Handler) listTimers(c *gin.Context) {
	resp := timerListResponse{Timers: h.services.Timers.List()}
	if active, ok := h.services.Timers.Active(); ok {
		resp.ActiveID = active.ID
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Add timer
// @Tags         timers
// @Accept       json
// @Produce      json
// @Param        body  body      AddTimerRequest  true  "Timer payload"
// @Success      201   {object}  models.Timer
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/timers [post]
// @Security     BearerAuth
func (h *Handler) addTimer(c *gin.Context) {
	var req AddTimerRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	if req.Duration == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "duration: " + errMissingField.Error()})
		return
	}
	if *req.Duration < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errDurationTooShort})
		return
	}
	t, err := h.services.Timers.Add(c.Request.Context(), service.TimerParams{
		Name:     req.Name,
		Duration: *req.Duration,
		Start:    req.Start,
	})
	if err != nil {
		h.respondServiceError(c, "timer_add_failed", err, "duration", *req.Duration)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// @Summary      Add timer until a time of day
// @Description  Counts down to the next occurrence of hour:minute; a time not in the future rolls to tomorrow
// @Tags         timers
// @Accept       json
// @Produce      json
// @Param        body  body      AddTimerAtRequest  true  "Target payload"
// @Success      201   {object}  models.Timer
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/timers/at [post]
// @Security     BearerAuth
func (h *Handler) addTimerAt(c *gin.Context) {
	var req AddTimerAtRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	if req.Hour == nil || req.Minute == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hour, minute: " + errMissingField.Error()})
		return
	}
	t, err := h.services.Timers.AddAt(c.Request.Context(), service.TargetTimerParams{
		Name:   req.Name,
		Hour:   *req.Hour,
		Minute: *req.Minute,
		Start:  req.Start,
	})
	if err != nil {
		h.respondServiceError(c, "timer_add_at_failed", err, "hour", *req.Hour, "minute", *req.Minute)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// timerAction adapts the id-addressed lifecycle operations to a handler.
func (h *Handler) timerAction(op func(c *gin.Context, id string) (models.Timer, bool)) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, ok := op(c, c.Param("id"))
		if !ok {
			notFound(c, errTimerNotFound)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

// @Summary      Start timer
// @Description  No-op for a completed timer
// @Tags         timers
// @Produce      json
// @Param        id   path      string  true  "Timer ID"
// @Success      200  {object}  models.Timer
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/timers/{id}/start [post]
// @Security     BearerAuth
func (h *Handler) startTimer(c *gin.Context) {
	h.timerAction(func(c *gin.Context, id string) (models.Timer, bool) {
		return h.services.Timers.Start(c.Request.Context(), id)
	})(c)
}

// @Summary      Pause timer
// @Tags         timers
// @Produce      json
// @Param        id   path      string  true  "Timer ID"
// @Success      200  {object}  models.Timer
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/timers/{id}/pause [post]
// @Security     BearerAuth
func (h *Handler) pauseTimer(c *gin.Context) {
	h.timerAction(func(c *gin.Context, id string) (models.Timer, bool) {
		return h.services.Timers.Pause(c.Request.Context(), id)
	})(c)
}

// @Summary      Reset timer
// @Description  Restores the full duration and stops it
// @Tags         timers
// @Produce      json
// @Param        id   path      string  true  "Timer ID"
// @Success      200  {object}  models.Timer
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/timers/{id}/reset [post]
// @Security     BearerAuth
func (h *Handler) resetTimer(c *gin.Context) {
	h.timerAction(func(c *gin.Context, id string) (models.Timer, bool) {
		return h.services.Timers.Reset(c.Request.Context(), id)
	})(c)
}

// @Summary      Tick timer
// @Description  Advances a running timer by one second
// @Tags         timers
// @Produce      json
// @Param        id   path      string  true  "Timer ID"
// @Success      200  {object}  models.Timer
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/timers/{id}/tick [post]
// @Security     BearerAuth
func (h *Handler) tickTimer(c *gin.Context) {
	h.timerAction(func(c *gin.Context, id string) (models.Timer, bool) {
		return h.services.Timers.Tick(c.Request.Context(), id)
	})(c)
}

// @Summary      Set active timer
// @Tags         timers
// @Produce      json
// @Param        id   path      string  true  "Timer ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/timers/{id}/activate [post]
// @Security     BearerAuth
func (h *Handler) activateTimer(c *gin.Context) {
	id := c.Param("id")
	if !h.services.Timers.SetActive(c.Request.Context(), id) {
		notFound(c, errTimerNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusActive, "id": id})
}

// @Summary      Remove timer
// @Tags         timers
// @Produce      json
// @Param        id   path      string  true  "Timer ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/timers/{id} [delete]
// @Security     BearerAuth
func (h *Handler) removeTimer(c *gin.Context) {
	id := c.Param("id")
	if !h.services.Timers.Remove(c.Request.Context(), id) {
		notFound(c, errTimerNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusRemoved, "id": id})
}

// @Summary      Clear timers
// @Tags         timers
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/v1/timers [delete]
// @Security     BearerAuth
func (h *Handler) clearTimers(c *gin.Context) {
	h.services.Timers.Clear(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": statusCleared})
}
