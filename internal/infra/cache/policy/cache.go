package policy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

const keyPrefix = "scheduling:policy:"

// Cache кэш разрешённых политик планирования в Redis
// Хранятся только успешно разрешённые политики; nil-клиент превращает кэш в no-op
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache создает кэш политик
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// NewClient создает клиент Redis и проверяет соединение
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", ErrRedis, addr, err)
	}

	return client, nil
}

func key(companyID string) string {
	return keyPrefix + companyID
}

// Get возвращает политику компании из кэша
// Часовой пояс (Location) не сериализуется: его загружает вызывающая сторона
func (c *Cache) Get(ctx context.Context, companyID string) (*domain.SchedulingPolicy, error) {
	if c.client == nil {
		return nil, ErrCacheMiss
	}

	raw, err := c.client.Get(ctx, key(companyID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("%w: get %s: %v", ErrRedis, key(companyID), err)
	}

	var p domain.SchedulingPolicy
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, key(companyID), err)
	}

	return &p, nil
}

// Set сохраняет политику компании с TTL кэша
func (c *Cache) Set(ctx context.Context, p *domain.SchedulingPolicy) error {
	if c.client == nil {
		return nil
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("%w: marshal policy %s: %v", ErrRedis, p.CompanyID, err)
	}

	if err := c.client.Set(ctx, key(p.CompanyID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrRedis, key(p.CompanyID), err)
	}

	return nil
}

// Close закрывает соединение с Redis, если оно есть
func (c *Cache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
