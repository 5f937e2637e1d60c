package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"timekeeper/internal/clock"
	"timekeeper/internal/logger"
	"timekeeper/internal/models"
	"timekeeper/internal/repository"

	"github.com/google/uuid"
)

// EventLogService answers history queries over timer and alarm lifecycle events.
type EventLogService struct {
	events repository.EventRepo
}

func NewEventLogService(events repository.EventRepo) *EventLogService {
	return &EventLogService{events: events}
}

var (
	ErrInvertedRange    = errors.New("log filter: from is after to")
	ErrUnknownEventType = errors.New("log filter: unknown event type")
)

// normalize returns f with both bounds in UTC and the type upper-cased.
// Zero bounds stay zero.
func (f LogFilter) normalize() (LogFilter, error) {
	if !f.From.IsZero() {
		f.From = f.From.UTC()
	}
	if !f.To.IsZero() {
		f.To = f.To.UTC()
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return LogFilter{}, ErrInvertedRange
	}
	f.Type = strings.ToUpper(strings.TrimSpace(f.Type))
	if f.Type != "" && !models.IsEventType(f.Type) {
		return LogFilter{}, fmt.Errorf("%w: %q", ErrUnknownEventType, f.Type)
	}
	return f, nil
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.Event, error) {
	f, err := f.normalize()
	if err != nil {
		return nil, err
	}
	return s.events.List(ctx, f.From, f.To, f.Type)
}

// IsInvalidFilter reports whether err came from filter validation.
func IsInvalidFilter(err error) bool {
	return errors.Is(err, ErrInvertedRange) || errors.Is(err, ErrUnknownEventType)
}

// recordEvent appends a lifecycle entry. The log is best effort: a failed
// write is logged and never fails the mutation that produced it.
func recordEvent(ctx context.Context, repo repository.EventRepo, clk clock.Clock, log *logger.Logger, typ, desc string, meta map[string]any) {
	if repo == nil {
		return
	}
	err := repo.Append(ctx, models.Event{
		EventID:     uuid.NewString(),
		OccurredAt:  clk.Now().UTC(),
		Type:        typ,
		Description: desc,
		Metadata:    meta,
	})
	if err != nil && log != nil {
		log.Warnw("failed to append event", "type", typ, "error", err)
	}
}
