package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"showshelf/internal/logger"
)

func testOptions(addr string) ConnectOptions {
	return ConnectOptions{
		Addr:           addr,
		User:           "",
		Password:       "",
		DB:             0,
		DialTimeout:    time.Second,
		ReadTimeout:    time.Second,
		WriteTimeout:   time.Second,
		PoolSize:       2,
		ConnectTimeout: 2 * time.Second,
		RetryInterval:  10 * time.Millisecond,
		MaxWait:        50 * time.Millisecond,
		PingTimeout:    time.Second,
		WarnThreshold:  2,
	}
}

func TestNewConnects(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := New(testOptions(mr.Addr()), logger.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close()

	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Errorf("Ping() after connect error = %v", err)
	}
}

func TestNewGivesUpAfterTimeout(t *testing.T) {
	opts := testOptions("127.0.0.1:1") // nothing listens here
	opts.ConnectTimeout = 150 * time.Millisecond

	client, err := New(opts, logger.Nop())
	if err == nil {
		client.Close()
		t.Fatal("New() against a dead address should fail")
	}
}

func TestNewValidatesOptions(t *testing.T) {
	opts := testOptions("localhost:6379")
	opts.ConnectTimeout = 0

	if _, err := New(opts, logger.Nop()); err == nil {
		t.Error("New() with zero ConnectTimeout should fail validation")
	}
}
