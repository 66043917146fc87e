package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// memCache is an in-memory Cache that can be told to fail.
type memCache struct {
	data map[string][]byte
	ttls map[string]time.Duration
	fail bool
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

var errDown = errors.New("backend down")

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if m.fail {
		return nil, false, errDown
	}
	d, ok := m.data[key]
	return d, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	if m.fail {
		return errDown
	}
	m.data[key] = data
	m.ttls[key] = ttl
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	if m.fail {
		return errDown
	}
	delete(m.data, key)
	return nil
}

func (m *memCache) Close() error { return nil }

func TestTieredCache(t *testing.T) {
	ctx := context.Background()
	fast, durable := newMemCache(), newMemCache()
	c := NewTieredCache(fast, durable, time.Hour)

	if err := c.Set(ctx, "warp:a", []byte("a"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if string(fast.data["warp:a"]) != "a" || string(durable.data["warp:a"]) != "a" {
		t.Error("Set should write both tiers")
	}
	if fast.ttls["warp:a"] != time.Hour {
		t.Errorf("fast tier ttl = %v, want the fast ttl for entries that never expire", fast.ttls["warp:a"])
	}

	c.Set(ctx, "warp:short", []byte("s"), time.Minute)
	if fast.ttls["warp:short"] != time.Minute {
		t.Errorf("fast tier ttl = %v, want the shorter entry ttl", fast.ttls["warp:short"])
	}

	// durable-only entries are copied into the fast tier on read
	durable.data["artifact:b"] = []byte("b")
	data, hit, err := c.Get(ctx, "artifact:b")
	if err != nil || !hit || string(data) != "b" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if string(fast.data["artifact:b"]) != "b" {
		t.Error("durable hit was not copied to the fast tier")
	}

	if err := c.Delete(ctx, "warp:a"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if _, ok := fast.data["warp:a"]; ok {
		t.Error("Delete left the fast tier entry")
	}
	if _, ok := durable.data["warp:a"]; ok {
		t.Error("Delete left the durable tier entry")
	}
}

func TestTieredCacheFastTierDown(t *testing.T) {
	ctx := context.Background()
	fast, durable := newMemCache(), newMemCache()
	fast.fail = true
	c := NewTieredCache(fast, durable, 0)

	if err := c.Set(ctx, "warp:a", []byte("a"), 0); err != nil {
		t.Fatalf("Set with fast tier down error: %v", err)
	}
	data, hit, err := c.Get(ctx, "warp:a")
	if err != nil || !hit || string(data) != "a" {
		t.Errorf("Get with fast tier down = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, "warp:a"); !errors.Is(err, errDown) {
		t.Errorf("Delete error = %v, want the fast tier error", err)
	}
}

func TestTieredCacheDurableDown(t *testing.T) {
	ctx := context.Background()
	fast, durable := newMemCache(), newMemCache()
	durable.fail = true
	c := NewTieredCache(fast, durable, 0)

	if err := c.Set(ctx, "warp:a", []byte("a"), 0); !errors.Is(err, errDown) {
		t.Errorf("Set error = %v, want durable tier error", err)
	}
	if _, hit, err := c.Get(ctx, "warp:a"); hit || !errors.Is(err, errDown) {
		t.Errorf("Get = hit %v, err %v", hit, err)
	}
}

func TestMongoEntry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	forever := newMongoEntry("warp:a", []byte("abc"), 0, now)
	if forever.ExpiresAt != nil || forever.Size != 3 {
		t.Errorf("entry without ttl = %+v", forever)
	}
	if forever.expired(now.Add(1000 * time.Hour)) {
		t.Error("entry without ttl expired")
	}

	short := newMongoEntry("warp:b", nil, time.Minute, now)
	if short.expired(now.Add(30 * time.Second)) {
		t.Error("entry expired early")
	}
	if !short.expired(now.Add(2 * time.Minute)) {
		t.Error("entry did not expire")
	}
}

func TestMongoCacheBadURI(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := NewMongoCache(ctx, "not-a-mongo-uri", "", ""); err == nil {
		t.Error("NewMongoCache with a bad URI should fail")
	}
}

func TestRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "http://localhost"); err == nil {
		t.Error("NewRedisCache with a non-redis URL should fail")
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewRedisCacheFromClient(client, "test:")
	defer c.Close()

	ctx := context.Background()
	if _, hit, err := c.Get(ctx, "warp:a"); hit || err == nil {
		t.Errorf("Get on unreachable server = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, "warp:a", []byte("a"), time.Minute); err == nil {
		t.Error("Set on unreachable server should fail")
	}

	// An unreachable fast tier does not break a tiered cache.
	durable := newMemCache()
	tiered := NewTieredCache(c, durable, time.Minute)
	if err := tiered.Set(ctx, "warp:a", []byte("a"), 0); err != nil {
		t.Fatalf("tiered Set error: %v", err)
	}
	if data, hit, err := tiered.Get(ctx, "warp:a"); err != nil || !hit || string(data) != "a" {
		t.Errorf("tiered Get = %q, %v, %v", data, hit, err)
	}
}

func TestNewRedisCachePingFails(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := NewRedisCache(ctx, "redis://127.0.0.1:1/0")
	if err == nil {
		t.Fatal("NewRedisCache to a closed port should fail")
	}
	if !IsTransient(err) {
		t.Errorf("ping failure %v is not transient", err)
	}
}
