package service

import (
	"timekeeper/internal/clock"
	"timekeeper/internal/models"
)

const (
	digitalLayout = "15:04:05"
	analogLayout  = "3:04 PM"
)

type ClockFaceService struct {
	clk   clock.Clock
	prefs *PreferenceService
}

func NewClockFaceService(clk clock.Clock, prefs *PreferenceService) *ClockFaceService {
	return &ClockFaceService{clk: clk, prefs: prefs}
}

// Now returns the local wall time rendered for the current clock mode.
func (s *ClockFaceService) Now() models.ClockFace {
	now := s.clk.Now()
	mode := models.ClockModeDigital
	if s.prefs != nil {
		mode = s.prefs.Get().ClockMode
	}
	layout := digitalLayout
	if mode == models.ClockModeAnalog {
		layout = analogLayout
	}
	return models.ClockFace{
		Hours:   now.Hour(),
		Minutes: now.Minute(),
		Seconds: now.Second(),
		Date:    models.NewTimestamp(now),
		Mode:    mode,
		Display: now.Format(layout),
	}
}
