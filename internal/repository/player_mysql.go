package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"alphachest/internal/domain"
)

// MySQLPlayerRepository looks players up in an upstream accounts table. It
// is read-only: the accounts are owned by another service.
type MySQLPlayerRepository struct {
	db *sql.DB
}

// NewMySQLPlayerRepository creates a new MySQL player repository.
func NewMySQLPlayerRepository(db *sql.DB) *MySQLPlayerRepository {
	return &MySQLPlayerRepository{db: db}
}

// FindByName finds accounts whose username matches name case-insensitively.
func (r *MySQLPlayerRepository) FindByName(ctx context.Context, name string) ([]domain.Player, error) {
	query := `SELECT uuid, username, last_login_at FROM accounts WHERE LOWER(username) = LOWER(?) AND is_active = 1`

	rows, err := r.db.QueryContext(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		var (
			rawID     string
			username  string
			lastLogin sql.NullTime
		)
		if err := rows.Scan(&rawID, &username, &lastLogin); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}

		id, err := uuid.Parse(rawID)
		if err != nil {
			// Skip rows without a usable UUID.
			continue
		}

		p := domain.Player{ID: id, Name: username}
		if lastLogin.Valid {
			p.LastSeen = lastLogin.Time
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}

	return players, nil
}

// Ping verifies the upstream database is reachable.
func (r *MySQLPlayerRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
