package config

import (
	"testing"
	"time"
)

func TestConnectRedisWithRetry_SkipsWhenUnconfigured(t *testing.T) {
	t.Setenv("REDIS_ADDRESS", "")

	done := make(chan struct{})
	go func() {
		ConnectRedisWithRetry()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("ConnectRedisWithRetry blocked with REDIS_ADDRESS unset")
	}

	if GetRedisDB() != nil {
		t.Fatalf("redis client set without an address")
	}
	if GetRedisLock() != nil {
		t.Fatalf("redis locker set without an address")
	}
}
