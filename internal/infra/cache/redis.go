package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/barbershop-appointments/internal/config"
)

// SlotCache keeps computed availability per barber and day. All slots for
// one day live in a single hash keyed by service, so a write on that day
// drops them together.
type SlotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSlotCache(cfg config.RedisConfig) (*SlotCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &SlotCache{client: client, ttl: cfg.CacheTTL}, nil
}

func dayKey(barberID uint, date string) string {
	return fmt.Sprintf("availability:%d:%s", barberID, date)
}

func (c *SlotCache) Get(ctx context.Context, barberID, serviceID uint, date string) ([]string, bool) {
	raw, err := c.client.HGet(ctx, dayKey(barberID, date), fmt.Sprint(serviceID)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("slot cache get: %v", err)
		}
		return nil, false
	}

	var slots []string
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (c *SlotCache) Set(ctx context.Context, barberID, serviceID uint, date string, slots []string) {
	b, err := json.Marshal(slots)
	if err != nil {
		return
	}

	key := dayKey(barberID, date)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, fmt.Sprint(serviceID), b)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("slot cache set: %v", err)
	}
}

func (c *SlotCache) Invalidate(ctx context.Context, barberID uint, date string) {
	if err := c.client.Del(ctx, dayKey(barberID, date)).Err(); err != nil {
		log.Printf("slot cache invalidate: %v", err)
	}
}

func (c *SlotCache) Close() error {
	return c.client.Close()
}
