package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"alphachest/internal/domain"
)

const playersSchema = `
CREATE TABLE IF NOT EXISTS players (
	uuid      TEXT PRIMARY KEY,
	name      TEXT NOT NULL COLLATE NOCASE,
	last_seen INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_players_name ON players(name);
`

// SQLitePlayerRepository keeps the players this server has seen in a local
// SQLite database.
type SQLitePlayerRepository struct {
	db *sql.DB
}

// NewSQLitePlayerRepository opens (or creates) the database at path.
func NewSQLitePlayerRepository(path string) (*SQLitePlayerRepository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open players db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(playersSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate players db: %w", err)
	}

	return &SQLitePlayerRepository{db: db}, nil
}

// FindByName finds players whose name matches case-insensitively.
func (r *SQLitePlayerRepository) FindByName(ctx context.Context, name string) ([]domain.Player, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT uuid, name, last_seen FROM players WHERE name = ?`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to find player: %w", err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

// ListPlayers returns every known player.
func (r *SQLitePlayerRepository) ListPlayers(ctx context.Context) ([]domain.Player, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT uuid, name, last_seen FROM players ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

// UpsertPlayer records p, replacing the stored name of an existing UUID.
func (r *SQLitePlayerRepository) UpsertPlayer(ctx context.Context, p domain.Player) error {
	lastSeen := p.LastSeen
	if lastSeen.IsZero() {
		lastSeen = time.Now()
	}

	query := `
		INSERT INTO players (uuid, name, last_seen) VALUES (?, ?, ?)
		ON CONFLICT(uuid) DO UPDATE SET name = excluded.name, last_seen = excluded.last_seen`

	if _, err := r.db.ExecContext(ctx, query, p.ID.String(), p.Name, lastSeen.UTC().Unix()); err != nil {
		return fmt.Errorf("failed to upsert player: %w", err)
	}
	return nil
}

// Close closes the database.
func (r *SQLitePlayerRepository) Close() error {
	return r.db.Close()
}

func scanPlayers(rows *sql.Rows) ([]domain.Player, error) {
	var players []domain.Player
	for rows.Next() {
		var (
			rawID    string
			name     string
			lastSeen int64
		)
		if err := rows.Scan(&rawID, &name, &lastSeen); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("failed to parse player uuid %q: %w", rawID, err)
		}
		players = append(players, domain.Player{ID: id, Name: name, LastSeen: time.Unix(lastSeen, 0).UTC()})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read players: %w", err)
	}
	return players, nil
}
