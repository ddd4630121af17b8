// Package postgres holds the notification inbox. Booking state is never
// written here; it lives in the memory store.
package postgres

import (
	"context"
	"database/sql"

	"biliran-rental-backend/internal/repository"

	_ "github.com/lib/pq"
)

const notificationsSchema = `CREATE TABLE IF NOT EXISTS notifications (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	type       TEXT NOT NULL,
	title      TEXT NOT NULL,
	message    TEXT NOT NULL,
	booking_id TEXT,
	is_read    BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL
)`

type Store struct {
	db *sql.DB
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		NotificationRepository: NewNotificationRepository(db),
	}
}

// Migrate creates the inbox table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, notificationsSchema)
	return err
}
