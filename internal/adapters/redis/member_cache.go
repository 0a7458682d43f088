package redis

// Package redis provides Redis-based adapters for the zonewatch system.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zonewatch/zonewatch-api/internal/ports"
)

// DefaultMemberRoleTTL bounds how long a member's guild role ids are served
// from cache before the Discord API is consulted again.
const DefaultMemberRoleTTL = 5 * time.Minute

// MemberRoleCache is a Redis-backed cache of guild member role ids, keyed
// by guild and user.
type MemberRoleCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ ports.MemberRoleCache = (*MemberRoleCache)(nil)

// NewMemberRoleCache creates a member role cache. A non-positive ttl falls
// back to DefaultMemberRoleTTL.
func NewMemberRoleCache(client redis.UniversalClient, ttl time.Duration) *MemberRoleCache {
	if ttl <= 0 {
		ttl = DefaultMemberRoleTTL
	}
	return &MemberRoleCache{client: client, prefix: "guildroles:", ttl: ttl}
}

func (c *MemberRoleCache) key(guildID, userID string) string {
	return c.prefix + guildID + ":" + userID
}

// Get returns the cached role ids for the member, reporting a miss via the
// boolean rather than an error.
func (c *MemberRoleCache) Get(ctx context.Context, guildID, userID string) ([]string, bool, error) {
	if guildID == "" || userID == "" {
		return nil, false, nil
	}

	data, err := c.client.Get(ctx, c.key(guildID, userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var roles []string
	if unmarshalErr := json.Unmarshal([]byte(data), &roles); unmarshalErr != nil {
		return nil, false, fmt.Errorf("unmarshal member roles: %w", unmarshalErr)
	}
	return roles, true, nil
}

// Set stores the member's role ids with the configured TTL.
func (c *MemberRoleCache) Set(ctx context.Context, guildID, userID string, roleIDs []string) error {
	if guildID == "" || userID == "" {
		return errors.New("guild and user ids cannot be empty")
	}

	data, err := json.Marshal(roleIDs)
	if err != nil {
		return fmt.Errorf("marshal member roles: %w", err)
	}
	return c.client.Set(ctx, c.key(guildID, userID), data, c.ttl).Err()
}
