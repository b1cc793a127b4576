package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/neha-pm/npc-learn/pkg/wire"
)

const (
	rosterKey = "npcs"
	npcPrefix = "npc:"
)

// RedisStore implements WorldStore on Redis: a set of identifiers, a
// hash per NPC and a list per NPC's memories.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

// Ensure RedisStore implements WorldStore
var _ WorldStore = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed world store.
func NewRedisStore(addr string, logger *slog.Logger) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	return &RedisStore{
		client: rdb,
		logger: logger,
	}
}

func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	return nil
}

func npcKey(id int) string {
	return npcPrefix + strconv.Itoa(id)
}

func memoryKey(id int) string {
	return npcPrefix + strconv.Itoa(id) + ":memories"
}

func (r *RedisStore) SaveNPC(ctx context.Context, row wire.SnapshotRow) error {
	fields := map[string]interface{}{
		"name": row.Name,
		"zone": row.Zone,
	}
	if row.HasCoords() {
		fields["x"] = *row.X
		fields["y"] = *row.Y
	}

	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, rosterKey, row.ID)
	pipe.HSet(ctx, npcKey(row.ID), fields)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save npc %d failed: %w", row.ID, err)
	}
	return nil
}

func (r *RedisStore) SavePosition(ctx context.Context, id int, x, y float64) error {
	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, rosterKey, id)
	pipe.HSet(ctx, npcKey(id), map[string]interface{}{"x": x, "y": y})
	pipe.HDel(ctx, npcKey(id), "zone")
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save position for %d failed: %w", id, err)
	}
	return nil
}

func (r *RedisStore) SaveZone(ctx context.Context, id int, zone string) error {
	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, rosterKey, id)
	pipe.HSet(ctx, npcKey(id), "zone", zone)
	pipe.HDel(ctx, npcKey(id), "x", "y")
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save zone for %d failed: %w", id, err)
	}
	return nil
}

func (r *RedisStore) ListNPCs(ctx context.Context) ([]wire.SnapshotRow, error) {
	ids, err := r.client.SMembers(ctx, rosterKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis roster read failed: %w", err)
	}

	rows := make([]wire.SnapshotRow, 0, len(ids))
	for _, raw := range ids {
		id, err := strconv.Atoi(raw)
		if err != nil {
			r.logger.Warn("skipping malformed roster id", "id", raw)
			continue
		}

		fields, err := r.client.HGetAll(ctx, npcKey(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("redis read of npc %d failed: %w", id, err)
		}
		if len(fields) == 0 {
			continue
		}

		row := wire.SnapshotRow{
			ID:   id,
			Name: fields["name"],
			Zone: fields["zone"],
		}
		if xs, ok := fields["x"]; ok {
			if x, err := strconv.ParseFloat(xs, 64); err == nil {
				row.X = &x
			}
		}
		if ys, ok := fields["y"]; ok {
			if y, err := strconv.ParseFloat(ys, 64); err == nil {
				row.Y = &y
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *RedisStore) Memories(ctx context.Context, id int) ([]string, error) {
	memories, err := r.client.LRange(ctx, memoryKey(id), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis memories read for %d failed: %w", id, err)
	}
	return memories, nil
}

func (r *RedisStore) AddMemory(ctx context.Context, id int, memory string) error {
	if err := r.client.RPush(ctx, memoryKey(id), memory).Err(); err != nil {
		return fmt.Errorf("redis memory append for %d failed: %w", id, err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	ids, err := r.client.SMembers(ctx, rosterKey).Result()
	if err != nil {
		return fmt.Errorf("redis roster read failed: %w", err)
	}

	keys := make([]string, 0, 2*len(ids)+1)
	for _, raw := range ids {
		if id, err := strconv.Atoi(raw); err == nil {
			keys = append(keys, npcKey(id), memoryKey(id))
		}
	}
	keys = append(keys, rosterKey)

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis clear failed: %w", err)
	}
	return nil
}
