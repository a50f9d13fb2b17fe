package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestNewConnects(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := New(context.Background(), Config{Addr: mr.Addr(), DB: 1, Timeout: time.Second})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	if client.Options().DB != 1 {
		t.Fatalf("db = %d, want 1", client.Options().DB)
	}
	if client.Options().DialTimeout != time.Second {
		t.Fatalf("dial timeout = %v, want 1s", client.Options().DialTimeout)
	}
}

func TestNewFailsFast(t *testing.T) {
	start := time.Now()
	_, err := New(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: time.Second})
	if err == nil {
		t.Fatal("expected connection failure")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("ping did not respect timeout, took %v", elapsed)
	}
}
