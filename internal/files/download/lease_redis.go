// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package download

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLease implements [Lease] with SET NX PX.
type RedisLease struct {
	client *redis.Client
	key    string
	owner  string
}

// NewRedisLease creates a lease stored under key. owner identifies this instance.
func NewRedisLease(client *redis.Client, key, owner string) *RedisLease {
	return &RedisLease{client: client, key: key, owner: owner}
}

/*
Acquire sets the lease key only when it is absent.

Parameters:
  - context: context.Context
  - ttl: time.Duration

Returns:
  - bool: Whether the lease was taken
  - error: Connectivity errors
*/
func (lease *RedisLease) Acquire(context context.Context, ttl time.Duration) (bool, error) {
	acquired, err := lease.client.SetNX(context, lease.key, lease.owner, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis_lease_acquire_failed: %w", err)
	}
	return acquired, nil
}
