package repository

import (
	"context"
	"database/sql"
	"time"

	"timekeeper/internal/models"
)

// KV is the persistence adapter: opaque values addressed by key.
type KV interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
}

// SnapshotRepo stores typed collections and settings as KV snapshots.
type SnapshotRepo interface {
	LoadTimers(ctx context.Context) ([]models.Timer, error)
	SaveTimers(ctx context.Context, timers []models.Timer) error
	LoadAlarms(ctx context.Context) ([]models.Alarm, error)
	SaveAlarms(ctx context.Context, alarms []models.Alarm) error
	LoadMemos(ctx context.Context) ([]models.Memo, error)
	SaveMemos(ctx context.Context, memos []models.Memo) error
	LoadString(ctx context.Context, key string) (string, bool, error)
	SaveString(ctx context.Context, key, value string) error
	LoadBool(ctx context.Context, key string) (bool, bool, error)
	SaveBool(ctx context.Context, key string, value bool) error
}

type EventRepo interface {
	Append(ctx context.Context, e models.Event) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.Event, error)
}

type Authorization interface {
	SetOwner(ctx context.Context, passwordHash string) error
	GetOwner(ctx context.Context) (*models.Owner, error)
}

type Repository struct {
	Snapshots SnapshotRepo
	EventRepo EventRepo
	Auth      Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Snapshots: NewSnapshotSQLite(NewKVSQLite(db)),
		EventRepo: NewEventSQLite(db),
		Auth:      NewOwnerRepository(db),
	}
}
