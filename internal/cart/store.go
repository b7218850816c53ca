package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const keyPrefix = "pos:cart:"

// Cart is the persisted state of a POS cart. Prices are never stored; they
// are resolved from the catalog every time the cart is read.
type Cart struct {
	ID         string    `json:"id"`
	TerminalID string    `json:"terminalId"`
	Lines      []Line    `json:"lines"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Line is a stored cart line.
type Line struct {
	ProductID   string              `json:"productId"`
	Quantity    int                 `json:"quantity"`
	CustomPrice decimal.NullDecimal `json:"customPrice"`
}

func (c *Cart) find(productID string) int {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

// Store keeps carts in Redis as JSON documents that expire after TTL of
// inactivity.
type Store struct {
	R   *redis.Client
	TTL time.Duration
}

func (s Store) ttl() time.Duration {
	if s.TTL <= 0 {
		return 12 * time.Hour
	}
	return s.TTL
}

// Load fetches a cart, returning ErrNotFound when it is missing or expired.
func (s Store) Load(ctx context.Context, id string) (Cart, error) {
	data, err := s.R.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Cart{}, ErrNotFound
		}
		return Cart{}, fmt.Errorf("load cart %s: %w", id, err)
	}
	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return Cart{}, fmt.Errorf("decode cart %s: %w", id, err)
	}
	return c, nil
}

// Save writes the cart and refreshes its expiry.
func (s Store) Save(ctx context.Context, c Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart %s: %w", c.ID, err)
	}
	if err := s.R.Set(ctx, keyPrefix+c.ID, data, s.ttl()).Err(); err != nil {
		return fmt.Errorf("save cart %s: %w", c.ID, err)
	}
	return nil
}

// Delete removes the cart. Deleting a missing cart reports ErrNotFound.
func (s Store) Delete(ctx context.Context, id string) error {
	n, err := s.R.Del(ctx, keyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("delete cart %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
