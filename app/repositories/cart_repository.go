package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Rakhulsr/sho-storefront/app/utils/sessions"
)

// CartRepository keeps session carts server side. The cookie only carries
// the cart id.
type CartRepository interface {
	// Load returns an empty cart when nothing is stored under cartID.
	Load(ctx context.Context, cartID string) (*sessions.Cart, error)
	Save(ctx context.Context, cart *sessions.Cart) error
	Delete(ctx context.Context, cartID string) error
}

func cartKey(cartID string) string {
	return fmt.Sprintf("cart:%s", cartID)
}

func decodeCart(cartID string, raw []byte) (*sessions.Cart, error) {
	cart := sessions.NewCart(cartID)
	if err := json.Unmarshal(raw, cart); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", cartID, err)
	}
	cart.ID = cartID
	return cart, nil
}

type redisCartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCartRepository(client *redis.Client, ttl time.Duration) CartRepository {
	return &redisCartRepository{client: client, ttl: ttl}
}

func (r *redisCartRepository) Load(ctx context.Context, cartID string) (*sessions.Cart, error) {
	raw, err := r.client.Get(ctx, cartKey(cartID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return sessions.NewCart(cartID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart %s: %w", cartID, err)
	}
	return decodeCart(cartID, raw)
}

// Save refreshes the TTL on every write so active carts do not expire.
func (r *redisCartRepository) Save(ctx context.Context, cart *sessions.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart %s: %w", cart.ID, err)
	}
	if err := r.client.Set(ctx, cartKey(cart.ID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("save cart %s: %w", cart.ID, err)
	}
	cart.MarkSaved()
	return nil
}

func (r *redisCartRepository) Delete(ctx context.Context, cartID string) error {
	return r.client.Del(ctx, cartKey(cartID)).Err()
}

type memoryCartRepository struct {
	mu    sync.Mutex
	carts map[string][]byte
}

// NewMemoryCartRepository stores carts in process memory. Used by tests and
// by local runs without REDIS_ADDR.
func NewMemoryCartRepository() CartRepository {
	return &memoryCartRepository{carts: make(map[string][]byte)}
}

func (r *memoryCartRepository) Load(ctx context.Context, cartID string) (*sessions.Cart, error) {
	r.mu.Lock()
	raw, ok := r.carts[cartKey(cartID)]
	r.mu.Unlock()
	if !ok {
		return sessions.NewCart(cartID), nil
	}
	return decodeCart(cartID, raw)
}

func (r *memoryCartRepository) Save(ctx context.Context, cart *sessions.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart %s: %w", cart.ID, err)
	}
	r.mu.Lock()
	r.carts[cartKey(cart.ID)] = raw
	r.mu.Unlock()
	cart.MarkSaved()
	return nil
}

func (r *memoryCartRepository) Delete(ctx context.Context, cartID string) error {
	r.mu.Lock()
	delete(r.carts, cartKey(cartID))
	r.mu.Unlock()
	return nil
}
