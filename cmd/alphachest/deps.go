package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"alphachest/internal/cache"
	"alphachest/internal/chest"
	"alphachest/internal/codec"
	"alphachest/internal/directory"
	"alphachest/internal/repository"
	"alphachest/internal/transport/http/handler"
)

// components holds everything the commands share.
type components struct {
	players   *repository.SQLitePlayerRepository
	directory *directory.Directory
	store     *chest.Store
	checks    []handler.Check
	closers   []func() error
}

// buildComponents wires the player directory and loads the chest store.
// MySQL and Redis are optional: when unreachable they are logged and skipped.
func buildComponents(ctx context.Context) (*components, error) {
	c := &components{}

	if err := os.MkdirAll(filepath.Dir(cfg.Directory.PlayersDB), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create players db directory: %w", err)
	}
	players, err := repository.NewSQLitePlayerRepository(cfg.Directory.PlayersDB)
	if err != nil {
		return nil, err
	}
	c.players = players
	c.closers = append(c.closers, players.Close)
	logger.Info("Player directory opened", zap.String("path", cfg.Directory.PlayersDB))

	var opts []directory.Option

	if cfg.Database.Enabled {
		db, err := connectDB(
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
			"accounts DB",
		)
		if err != nil {
			logger.Warn("Accounts DB unavailable, using local players only", zap.Error(err))
		} else {
			accounts := repository.NewMySQLPlayerRepository(db)
			opts = append(opts, directory.WithUpstream(accounts))
			c.closers = append(c.closers, db.Close)
			c.checks = append(c.checks, handler.Check{Name: "accounts", Probe: accounts.Ping})
			logger.Info("Accounts DB connected")
		}
	}

	if cfg.Cache.UseRedis() {
		redisCache, err := cache.NewRedisPlayerCache(cache.RedisCacheConfig{
			Addr:     cfg.Cache.RedisAddr(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			TTL:      cfg.Cache.TTL,
		}, logger.Named("cache"))
		if err != nil {
			logger.Warn("Redis unavailable, name lookups are not cached", zap.Error(err))
		} else {
			opts = append(opts, directory.WithCache(redisCache))
			c.closers = append(c.closers, redisCache.Close)
			c.checks = append(c.checks, handler.Check{Name: "redis", Probe: redisCache.Ping})
		}
	}

	c.directory = directory.New(players, logger.Named("directory"), opts...)
	c.store = chest.NewStore(ctx, cfg.Chest.Dir, codec.NewYAMLCodec(), c.directory, logger.Named("chest"))
	c.checks = append(c.checks, handler.Check{Name: "chests", Probe: func(context.Context) error {
		_, err := os.Stat(c.store.Dir())
		return err
	}})

	return c, nil
}

// Close releases every connection in reverse order of opening.
func (c *components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			logger.Warn("Close failed", zap.Error(err))
		}
	}
}

// connectDB establishes a connection to a MySQL database.
func connectDB(host string, port int, user, password, dbName, label string) (*sql.DB, error) {
	// DSN with timeout settings to prevent hanging connections
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci&timeout=5s&readTimeout=10s&writeTimeout=10s",
		user, password, host, port, dbName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", label, err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	// Verify connection with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", label, err)
	}

	return db, nil
}
