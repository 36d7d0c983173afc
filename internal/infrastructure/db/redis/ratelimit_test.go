package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"
)

func TestRateLimitStore_Key(t *testing.T) {
	s := NewRateLimitStore(nil, "login", 5, 0, time.Minute)
	s.now = func() time.Time { return time.Unix(125, 0) }

	if got, want := s.key("10.0.0.1"), "ratelimit:login:10.0.0.1:120"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRateLimitStore_BurstRaisesBudget(t *testing.T) {
	cases := []struct {
		limit, burst int
		want         int64
	}{
		{limit: 5, burst: 0, want: 5},
		{limit: 5, burst: 3, want: 5},
		{limit: 5, burst: 8, want: 8},
	}
	for _, tc := range cases {
		if got := NewRateLimitStore(nil, "login", tc.limit, tc.burst, time.Minute).limit; got != tc.want {
			t.Fatalf("limit=%d burst=%d: expected budget %d, got %d", tc.limit, tc.burst, tc.want, got)
		}
	}
}

func TestRateLimitStore_Allow(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	client, err := Connect(context.Background(), Config{Addr: addr})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	s := NewRateLimitStore(client, fmt.Sprintf("test-%d", time.Now().UnixNano()), 3, 0, time.Minute)
	fixed := time.Now()
	s.now = func() time.Time { return fixed }

	for i := 1; i <= 3; i++ {
		ok, err := s.Allow("client")
		if err != nil || !ok {
			t.Fatalf("hit %d: expected allowed, got %v %v", i, ok, err)
		}
	}
	ok, err := s.Allow("client")
	if err != nil {
		t.Fatalf("Allow returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected fourth hit to be denied")
	}

	if ok, _ := s.Allow("other-client"); !ok {
		t.Fatalf("expected separate identifier to have its own budget")
	}
}
