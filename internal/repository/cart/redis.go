package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"foodtruck-ordering/internal/domain"
	"foodtruck-ordering/internal/logging"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "cart:"

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedis stores carts as JSON blobs; every save refreshes the ttl.
func NewRedis(client *redis.Client, ttl time.Duration, logger *zap.Logger) Store {
	return &redisStore{client: client, ttl: ttl, logger: logging.OrNop(logger)}
}

func (s *redisStore) Load(ctx context.Context, token string) (*domain.Cart, error) {
	raw, err := s.client.Get(ctx, keyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return &domain.Cart{}, nil
	}
	if err != nil {
		s.logger.Error("cart store: load", zap.Error(err))
		return nil, fmt.Errorf("load cart: %w", err)
	}
	var cart domain.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		s.logger.Warn("cart store: discarding unreadable cart", zap.Error(err))
		return &domain.Cart{}, nil
	}
	return &cart, nil
}

func (s *redisStore) Save(ctx context.Context, token string, cart *domain.Cart) error {
	if cart == nil {
		cart = &domain.Cart{}
	}
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+token, raw, s.ttl).Err(); err != nil {
		s.logger.Error("cart store: save", zap.Int("lines", len(cart.Lines)), zap.Error(err))
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		s.logger.Error("cart store: delete", zap.Error(err))
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
