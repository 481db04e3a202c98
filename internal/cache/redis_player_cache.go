package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"alphachest/internal/domain"
)

// rememberScript stores name -> player and, when the player was cached under
// another name, drops that name's entry if it still points at this player.
// KEYS: name key, id key. ARGV: name, player JSON, name key prefix, TTL ms, UUID.
var rememberScript = redis.NewScript(`
	local previous = redis.call("GET", KEYS[2])
	if previous and previous ~= ARGV[1] then
		local held = redis.call("GET", ARGV[3] .. previous)
		if held then
			local ok, player = pcall(cjson.decode, held)
			if ok and type(player) == "table" and player.id == ARGV[5] then
				redis.call("DEL", ARGV[3] .. previous)
			end
		end
	end
	redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[4])
	redis.call("SET", KEYS[2], ARGV[1], "PX", ARGV[4])
	return 1
`)

// RedisPlayerCache caches display name lookups in Redis.
type RedisPlayerCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	logger    *zap.Logger
}

// RedisCacheConfig holds configuration for the Redis player cache.
type RedisCacheConfig struct {
	Addr      string        // Redis address (e.g., "127.0.0.1:6379")
	Password  string        // Redis password (empty if none)
	DB        int           // Redis database number
	TTL       time.Duration // How long a name lookup stays cached
	KeyPrefix string        // Optional custom key prefix
}

// NewRedisPlayerCache connects to Redis and verifies the connection.
func NewRedisPlayerCache(cfg RedisCacheConfig, logger *zap.Logger) (*RedisPlayerCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	keyPrefix := cfg.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = "alphachest:players"
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	logger.Info("Connected to Redis player cache",
		zap.Int("db", cfg.DB), zap.String("prefix", keyPrefix), zap.Duration("ttl", ttl))

	return &RedisPlayerCache{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
		logger:    logger,
	}, nil
}

func (c *RedisPlayerCache) namePrefix() string {
	return c.keyPrefix + ":name:"
}

func (c *RedisPlayerCache) nameKey(name string) string {
	return c.namePrefix() + strings.ToLower(name)
}

func (c *RedisPlayerCache) idKey(p domain.Player) string {
	return c.keyPrefix + ":id:" + p.ID.String()
}

// Get returns the cached player for name, or nil on a cache miss.
func (c *RedisPlayerCache) Get(ctx context.Context, name string) (*domain.Player, error) {
	data, err := c.client.Get(ctx, c.nameKey(name)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var p domain.Player
	if err := json.Unmarshal(data, &p); err != nil {
		c.logger.Warn("Dropping unreadable cache entry", zap.String("name", name), zap.Error(err))
		c.client.Del(ctx, c.nameKey(name))
		return nil, nil
	}
	return &p, nil
}

// Set caches p under its current name.
func (c *RedisPlayerCache) Set(ctx context.Context, p domain.Player) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	name := strings.ToLower(p.Name)
	return rememberScript.Run(ctx, c.client,
		[]string{c.nameKey(name), c.idKey(p)},
		name, data, c.namePrefix(), c.ttl.Milliseconds(), p.ID.String(),
	).Err()
}

// Ping reports whether Redis is reachable.
func (c *RedisPlayerCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *RedisPlayerCache) Close() error {
	return c.client.Close()
}
