package handlers

import (
	"errors"
	"net/http"
	"time"

	"timekeeper/internal/service"

	"github.com/gin-gonic/gin"
)

// logQuery is the history filter. Bare dates and "YYYY-MM-DD HH:MM:SS" are
// read in the server's local zone, the same zone alarms ring in.
type logQuery struct {
	Day  string `form:"day"`
	From string `form:"from"`
	To   string `form:"to"`
	Type string `form:"type"`
}

var (
	errDayWithRange = errors.New("'day' cannot be combined with 'from' or 'to'")
	errBadLogTime   = errors.New("use RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'")
)

var logTimeLayouts = []string{time.DateTime, time.DateOnly}

// filter turns the query into a service filter. A bare-date 'to' and 'day'
// both cover the whole local day.
func (q logQuery) filter() (service.LogFilter, error) {
	f := service.LogFilter{Type: q.Type}
	if q.Day != "" {
		if q.From != "" || q.To != "" {
			return f, errDayWithRange
		}
		start, _, err := parseLogTime(q.Day)
		if err != nil {
			return f, errors.New("day: " + err.Error())
		}
		f.From, f.To = start, endOfDay(start)
		return f, nil
	}

	if q.From != "" {
		from, _, err := parseLogTime(q.From)
		if err != nil {
			return f, errors.New("from: " + err.Error())
		}
		f.From = from
	}
	if q.To != "" {
		to, dateOnly, err := parseLogTime(q.To)
		if err != nil {
			return f, errors.New("to: " + err.Error())
		}
		if dateOnly {
			to = endOfDay(to)
		}
		f.To = to
	}
	return f, nil
}

func parseLogTime(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	for _, layout := range logTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, layout == time.DateOnly, nil
		}
	}
	return time.Time{}, false, errBadLogTime
}

func endOfDay(day time.Time) time.Time {
	return day.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// @Summary      List logs
// @Description  Timer and alarm history. 'day' selects one local day; otherwise 'from'/'to' bound the range and a date-only 'to' includes that whole day.
// @Tags         logs
// @Produce      json
// @Param        day   query     string  false  "Local day (YYYY-MM-DD)"  example(2025-03-10)
// @Param        from  query     string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"
// @Param        to    query     string  false  "End of range, inclusive"
// @Param        type  query     string  false  "Event type"  Enums(TIMER_ADDED,TIMER_STARTED,TIMER_PAUSED,TIMER_RESET,TIMER_REMOVED,TIMER_COMPLETED,ALARM_ADDED,ALARM_UPDATED,ALARM_TOGGLED,ALARM_REMOVED,ALARM_FIRED)
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/logs [get]
// @Security     BearerAuth
func (h *Handler) getLogs(c *gin.Context) {
	var q logQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, err := q.filter()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events, err := h.services.EventLog.List(c.Request.Context(), f)
	if err != nil {
		if service.IsInvalidFilter(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load logs", "logs_list_failed", err, "filter", q)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}
