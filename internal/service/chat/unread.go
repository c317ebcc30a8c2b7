package chat

import (
	"context"

	"github.com/kindlingapp/kindling-engine/internal/app"
	"github.com/kindlingapp/kindling-engine/internal/cache"
	"github.com/kindlingapp/kindling-engine/internal/repository"
)

// UnreadCounter derives per-(reader, peer) unread counts, with Redis in
// front of the database. The cached value is always a previously derived
// count and is invalidated on every message append and marker advance, so
// it can lag but never drift: a miss recomputes from the message log.
type UnreadCounter struct {
	cache       *cache.RedisCache
	messageRepo *repository.MessageRepository
}

// NewUnreadCounter creates a counter with dependencies from AppContext.
func NewUnreadCounter(appCtx *app.AppContext) *UnreadCounter {
	return &UnreadCounter{
		cache:       appCtx.RedisCache,
		messageRepo: repository.NewMessageRepository(appCtx.DB),
	}
}

// Count returns how many messages from peer the reader has not
// acknowledged yet. Never negative; cache failures fall through to the DB.
func (u *UnreadCounter) Count(ctx context.Context, readerID, peerID string) (int64, error) {
	if n, ok, err := u.cache.GetUnreadCount(ctx, readerID, peerID); err == nil && ok {
		return n, nil
	}

	n, err := u.messageRepo.CountUnread(ctx, readerID, peerID)
	if err != nil {
		return 0, err
	}
	_ = u.cache.SetUnreadCount(ctx, readerID, peerID, n)
	return n, nil
}
