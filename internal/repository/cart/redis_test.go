package cart

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestRedisStore_RoundTripWithTTL(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	store := NewRedis(client, time.Minute, nil)
	token := "test-roundtrip"
	client.Del(ctx, keyPrefix+token)

	if err := store.Save(ctx, token, sampleCart()); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(ctx, token)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Lines) != 1 || !got.Lines[0].UnitPrice.Equal(decimal.RequireFromString("4.5")) {
		t.Fatalf("unexpected cart %+v", got)
	}

	ttl := client.TTL(ctx, keyPrefix+token).Val()
	if ttl <= 0 || ttl > time.Minute {
		t.Fatalf("expected ttl within a minute, got %s", ttl)
	}

	if err := store.Delete(ctx, token); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err = store.Load(ctx, token)
	if err != nil {
		t.Fatalf("load after delete: %v", err)
	}
	if !got.IsEmpty() {
		t.Fatalf("expected empty cart after delete, got %+v", got)
	}
}

func TestRedisStore_UnreadableBlobIsEmpty(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	token := "test-garbage"
	client.Set(ctx, keyPrefix+token, "not json", time.Minute)
	defer client.Del(ctx, keyPrefix+token)

	got, err := NewRedis(client, time.Minute, nil).Load(ctx, token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsEmpty() {
		t.Fatalf("expected empty cart, got %+v", got)
	}
}
