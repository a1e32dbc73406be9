package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix    = "user:%d"
	PostKeyPrefix    = "post:%d"
	BattleKeyPrefix  = "battle:%d"
	ActiveBattleKey  = "battle:active"
	PostsListVersion = "posts:list:version"
)

const (
	UserTTL         = 5 * time.Minute
	PostTTL         = 30 * time.Minute
	BattleTTL       = 10 * time.Minute
	ActiveBattleTTL = 15 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func BattleKey(battleID uint) string {
	return fmt.Sprintf(BattleKeyPrefix, battleID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

// InvalidateBattle drops both the battle entry and the active-battle pointer,
// since tallies and status are cached in both places.
func InvalidateBattle(ctx context.Context, battleID uint) {
	Invalidate(ctx, BattleKey(battleID))
	Invalidate(ctx, ActiveBattleKey)
}
