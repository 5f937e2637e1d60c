package service

import (
	"context"
	"strings"
	"sync"

	"timekeeper/internal/clock"
	"timekeeper/internal/logger"
	"timekeeper/internal/models"
	"timekeeper/internal/repository"

	"github.com/google/uuid"
)

// MemoService owns the memo board. The newest memo becomes active.
type MemoService struct {
	observers

	clk   clock.Clock
	snaps repository.SnapshotRepo
	log   *logger.Logger

	mu       sync.Mutex
	memos    []models.Memo
	activeID string
}

func NewMemoService(snaps repository.SnapshotRepo, clk clock.Clock, log *logger.Logger) *MemoService {
	if log == nil {
		log = logger.NewNop()
	}
	return &MemoService{clk: clk, snaps: snaps, log: log}
}

func (s *MemoService) Restore(ctx context.Context) {
	memos, err := s.snaps.LoadMemos(ctx)
	if err != nil {
		s.log.Warnw("memo snapshot unreadable, starting empty", "error", err)
		memos = nil
	}

	s.mu.Lock()
	s.memos = s.memos[:0]
	for _, m := range memos {
		if m.ID == "" {
			continue
		}
		if hex, ok := models.LookupMemoColor(m.Color); ok {
			m.Color = hex
		} else {
			m.Color = models.MemoPalette[0].Hex
		}
		s.memos = append(s.memos, m)
	}
	s.activeID = ""
	if n := len(s.memos); n > 0 {
		s.activeID = s.memos[n-1].ID
	}
	s.mu.Unlock()
	s.publish()
}

func resolveMemoColor(c string) (string, error) {
	c = strings.TrimSpace(strings.ToLower(c))
	if c == "" {
		return models.MemoPalette[0].Hex, nil
	}
	hex, ok := models.LookupMemoColor(c)
	if !ok {
		return "", ErrInvalidMemoColor
	}
	return hex, nil
}

func (s *MemoService) Add(ctx context.Context, p MemoParams) (models.Memo, error) {
	title := strings.TrimSpace(p.Title)
	content := strings.TrimSpace(p.Content)
	if title == "" && content == "" {
		return models.Memo{}, ErrEmptyMemo
	}
	color, err := resolveMemoColor(p.Color)
	if err != nil {
		return models.Memo{}, err
	}
	now := models.NewTimestamp(s.clk.Now())
	m := models.Memo{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.memos = append(s.memos, m)
	s.activeID = m.ID
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.publish()
	return m, nil
}

// Update applies a partial edit and bumps updatedAt.
func (s *MemoService) Update(ctx context.Context, id string, p MemoUpdate) (models.Memo, bool, error) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return models.Memo{}, false, nil
	}
	m := s.memos[i]
	if p.Title != nil {
		m.Title = strings.TrimSpace(*p.Title)
	}
	if p.Content != nil {
		m.Content = strings.TrimSpace(*p.Content)
	}
	if p.Color != nil {
		color, err := resolveMemoColor(*p.Color)
		if err != nil {
			s.mu.Unlock()
			return models.Memo{}, true, err
		}
		m.Color = color
	}
	if m.Title == "" && m.Content == "" {
		s.mu.Unlock()
		return models.Memo{}, true, ErrEmptyMemo
	}
	m.UpdatedAt = models.NewTimestamp(s.clk.Now())
	s.memos[i] = m
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.publish()
	return m, true, nil
}

// Remove deletes the memo; removing the active one promotes the first remaining.
func (s *MemoService) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.memos = append(s.memos[:i], s.memos[i+1:]...)
	if s.activeID == id {
		s.activeID = ""
		if len(s.memos) > 0 {
			s.activeID = s.memos[0].ID
		}
	}
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.publish()
	return true
}

// SetActive selects the memo shown in the board. An empty id clears it.
func (s *MemoService) SetActive(ctx context.Context, id string) bool {
	s.mu.Lock()
	if id != "" && s.indexLocked(id) < 0 {
		s.mu.Unlock()
		return false
	}
	s.activeID = id
	s.mu.Unlock()

	s.publish()
	return true
}

func (s *MemoService) List() []models.Memo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Memo, len(s.memos))
	copy(out, s.memos)
	return out
}

func (s *MemoService) Active() (models.Memo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(s.activeID); i >= 0 {
		return s.memos[i], true
	}
	return models.Memo{}, false
}

func (s *MemoService) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.memos {
		if s.memos[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *MemoService) persistLocked(ctx context.Context) {
	snapshot := make([]models.Memo, len(s.memos))
	copy(snapshot, s.memos)
	if err := s.snaps.SaveMemos(ctx, snapshot); err != nil {
		s.log.Warnw("failed to persist memos", "error", err)
	}
}
