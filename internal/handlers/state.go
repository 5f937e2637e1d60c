package handlers

import (
	"net/http"

	"timekeeper/internal/hub"
	"timekeeper/internal/models"
	"timekeeper/internal/service"

	"github.com/gin-gonic/gin"
)

// WidgetState is the full snapshot pushed to widget clients.
type WidgetState struct {
	Timers        []models.Timer      `json:"timers"`
	ActiveTimerID string              `json:"activeTimerId,omitempty"`
	Alarms        []models.Alarm      `json:"alarms"`
	NextAlarm     *service.NextFiring `json:"nextAlarm,omitempty"`
	Memos         []models.Memo       `json:"memos"`
	ActiveMemoID  string              `json:"activeMemoId,omitempty"`
	Preferences   models.Preferences  `json:"preferences"`
	Clock         models.ClockFace    `json:"clock"`
}

func (h *Handler) snapshot() WidgetState {
	s := h.services
	st := WidgetState{
		Timers:      s.Timers.List(),
		Alarms:      s.Alarms.List(),
		Memos:       s.Memos.List(),
		Preferences: s.Preferences.Get(),
		Clock:       s.ClockFace.Now(),
	}
	if t, ok := s.Timers.Active(); ok {
		st.ActiveTimerID = t.ID
	}
	if m, ok := s.Memos.Active(); ok {
		st.ActiveMemoID = m.ID
	}
	if next, ok := s.Alarms.Next(); ok {
		st.NextAlarm = &next
	}
	return st
}

// WatchState broadcasts a fresh snapshot to every client whenever a store
// changes. The returned func unsubscribes.
func (h *Handler) WatchState() (cancel func()) {
	push := func() {
		h.hub.Broadcast(hub.Envelope{Type: hub.TypeState, Data: h.snapshot()})
	}
	cancels := []func(){
		h.services.Timers.Subscribe(push),
		h.services.Alarms.Subscribe(push),
		h.services.Memos.Subscribe(push),
		h.services.Preferences.Subscribe(push),
	}
	return func() {
		for _, c := range cancels {
			c()
		}
	}
}

// @Summary      Get widget state
// @Description  Timers, alarms, memos, preferences and the clock face in one snapshot
// @Tags         state
// @Produce      json
// @Success      200  {object}  WidgetState
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	c.JSON(http.StatusOK, h.snapshot())
}

// @Summary      Get clock face
// @Tags         state
// @Produce      json
// @Success      200  {object}  models.ClockFace
// @Router       /api/v1/clock [get]
// @Security     BearerAuth
func (h *Handler) getClock(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.ClockFace.Now())
}
