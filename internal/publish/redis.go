// Package publish provides the optional Redis publisher for recognition
// results: the latest result per session is cached under a key, and every
// result is published on a pub/sub channel for downstream consumers.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/gesture"
)

// resultTTL bounds how long a stale "latest result" key survives after a
// session stops producing frames.
const resultTTL = 30 * time.Second

// Publisher pushes recognition results to Redis. When Redis is disabled
// or unreachable the publisher runs in offline mode and every Publish is
// a no-op, so recognition never depends on the broker being up.
type Publisher struct {
	client    *redis.Client
	prefix    string
	enabled   bool
	mu        sync.RWMutex
	connected bool
}

// NewPublisher creates a Publisher from the Redis configuration.
// Connection failure is not fatal: the publisher degrades to offline mode.
func NewPublisher(cfg config.RedisConfig) *Publisher {
	p := &Publisher{
		prefix:  cfg.Prefix,
		enabled: cfg.Enabled,
	}
	if !cfg.Enabled {
		return p
	}

	p.client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := p.client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unavailable (%v), publishing disabled", err)
		return p
	}

	p.connected = true
	return p
}

// Connected reports whether the publisher has a live Redis connection.
func (p *Publisher) Connected() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.connected
}

// Publish stores the result as the session's latest and announces it on
// the session's channel. Errors mark the publisher offline; the next
// Publish retries.
func (p *Publisher) Publish(ctx context.Context, sessionID string, result gesture.Result) {
	p.mu.RLock()
	connected := p.connected
	p.mu.RUnlock()

	if !p.enabled || !connected {
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return
	}

	key := fmt.Sprintf("%s:latest:%s", p.prefix, sessionID)
	channel := fmt.Sprintf("%s:results:%s", p.prefix, sessionID)

	pipe := p.client.Pipeline()
	pipe.Set(ctx, key, payload, resultTTL)
	pipe.Publish(ctx, channel, payload)

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("Redis publish failed (%v), entering offline mode", err)
		p.mu.Lock()
		p.connected = false
		p.mu.Unlock()

		go p.reconnect()
	}
}

// reconnect pings Redis once and restores online mode on success.
func (p *Publisher) reconnect() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := p.client.Ping(ctx).Err(); err != nil {
		return
	}

	p.mu.Lock()
	p.connected = true
	p.mu.Unlock()
}

// Close releases the Redis connection.
func (p *Publisher) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}
