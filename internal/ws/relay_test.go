package ws

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRelayPushPrefersLocalDelivery(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	registry := NewRegistry()
	relay := NewRelay(registry, rdb)

	c := testClient()
	registry.Register(1, c)

	if !relay.Push(1, []byte("hello")) {
		t.Fatal("expected local delivery to succeed")
	}
	select {
	case got := <-c.send:
		if string(got) != "hello" {
			t.Errorf("payload = %q, want hello", got)
		}
	default:
		t.Fatal("frame not enqueued locally")
	}
}

func TestRelayPublishesWhenUserNotLocal(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	relay := NewRelay(NewRegistry(), rdb)

	if relay.Push(42, []byte("hello")) {
		t.Fatal("push with no local connection must report false")
	}
}

func TestRelayForwardsPublishedFrames(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	registry := NewRegistry()
	relay := NewRelay(registry, rdb)

	c := testClient()
	registry.Register(7, c)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go relay.Run(ctx)

	// Give the subscriber a moment to attach before publishing.
	deadline := time.After(2 * time.Second)
	for {
		if err := rdb.Publish(context.Background(), "chat:7", "hi").Err(); err != nil {
			t.Fatalf("publish: %v", err)
		}
		select {
		case got := <-c.send:
			if string(got) != "hi" {
				t.Errorf("payload = %q, want hi", got)
			}
			return
		case <-deadline:
			t.Fatal("published frame never reached the local client")
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func TestRelayNilRedisDegradesToLocal(t *testing.T) {
	registry := NewRegistry()
	relay := NewRelay(registry, nil)

	if relay.Push(1, []byte("x")) {
		t.Fatal("push with no connection and no redis must report false")
	}
	relay.Run(context.Background()) // returns immediately
}
