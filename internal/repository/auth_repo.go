package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"timekeeper/internal/models"
)

type OwnerRepository struct {
	db *sql.DB
}

func NewOwnerRepository(db *sql.DB) *OwnerRepository {
	return &OwnerRepository{db: db}
}

// Ensure implementation of Authorization interface at compile time.
var _ Authorization = (*OwnerRepository)(nil)

const (
	ownerRowID = 1

	upsertOwnerSQL = `
		INSERT INTO owner (id, password_hash) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET password_hash=excluded.password_hash
	`
	selectOwnerSQL = `SELECT id, password_hash FROM owner WHERE id = ?`
)

// SetOwner stores the owner's password hash, replacing any previous one.
func (r *OwnerRepository) SetOwner(ctx context.Context, passwordHash string) error {
	if _, err := r.db.ExecContext(ctx, upsertOwnerSQL, ownerRowID, passwordHash); err != nil {
		return fmt.Errorf("upsert owner: %w", err)
	}
	return nil
}

// GetOwner returns the owner credential, or (nil, nil) before first setup.
func (r *OwnerRepository) GetOwner(ctx context.Context) (*models.Owner, error) {
	var o models.Owner
	err := r.db.QueryRowContext(ctx, selectOwnerSQL, ownerRowID).Scan(&o.ID, &o.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select owner: %w", err)
	}
	return &o, nil
}
