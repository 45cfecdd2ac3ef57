package cache

import (
	"context"
	"fmt"
	"time"
)

const GroupKeyPrefix = "group:%s"

const GroupTTL = 10 * time.Minute

func GroupKey(slug string) string {
	return fmt.Sprintf(GroupKeyPrefix, slug)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateGroup(ctx context.Context, slug string) {
	Invalidate(ctx, GroupKey(slug))
}
