package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kindlingapp/kindling-engine/internal/db"
	"github.com/kindlingapp/kindling-engine/internal/utils/pagination"
)

// Sentinel errors surfaced by pair-scoped writes; the service layer maps
// them onto the caller-facing taxonomy.
var (
	ErrPairBlocked = errors.New("pair has an active block")
	ErrNoMatch     = errors.New("pair has no active match")
)

// MessageRepository provides data access for the message log and the
// per-(reader, peer) read markers. Messages are immutable once written;
// unread counts are always derived here, never stored.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new repository bound to the given DB connection.
func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{db: database}
}

// AppendIfMatched writes one immutable message after re-checking, inside
// the same transaction, that the pair is mutually visible and currently
// matched. A failure leaves nothing written.
//
// Returns ErrPairBlocked / ErrNoMatch for the precondition failures.
func (r *MessageRepository) AppendIfMatched(ctx context.Context, senderID, recipientID, content string) (*db.Message, error) {
	var msg db.Message

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var blocks int64
		if err := tx.Model(&db.Block{}).
			Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)",
				senderID, recipientID, recipientID, senderID).
			Count(&blocks).Error; err != nil {
			return err
		}
		if blocks > 0 {
			return ErrPairBlocked
		}

		userA, userB := db.CanonicalPair(senderID, recipientID)
		var matches []db.Match
		if err := tx.
			Where("user_a = ? AND user_b = ?", userA, userB).
			Limit(1).
			Find(&matches).Error; err != nil {
			return err
		}
		if len(matches) == 0 {
			return ErrNoMatch
		}

		msg = db.Message{
			SenderID:    senderID,
			RecipientID: recipientID,
			MatchID:     matches[0].ID,
			Content:     content,
			SentAt:      time.Now().UTC(),
		}
		return tx.Create(&msg).Error
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListConversation returns the full ordered message sequence between the
// pair, oldest first.
func (r *MessageRepository) ListConversation(ctx context.Context, a, b string) ([]db.Message, error) {
	var messages []db.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			a, b, b, a).
		Order("sent_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

// ListConversationPage returns one newest-first page of the conversation,
// with a cursor for fetching older history.
//
// Behavior mirrors the cursor listings elsewhere: fetch limit+1 rows,
// hand back a next token only when more history exists.
func (r *MessageRepository) ListConversationPage(
	ctx context.Context,
	a, b string,
	paginationToken *string,
	limit int,
) ([]db.Message, *string, error) {
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			a, b, b, a).
		Order("sent_at DESC, id DESC").
		Limit(limit + 1)

	if cursor.MessageID > 0 && cursor.SentUnix > 0 {
		ts := time.UnixMilli(cursor.SentUnix)
		query = query.Where(
			"(sent_at < ? OR (sent_at = ? AND id < ?))",
			ts, ts, cursor.MessageID,
		)
	}

	var messages []db.Message
	if err := query.Find(&messages).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(messages) > limit {
		last := messages[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			MessageID: last.ID,
			SentUnix:  last.SentAt.UnixMilli(),
		})
		nextToken = &token
		messages = messages[:limit]
	}

	return messages, nextToken, nil
}

// LastMessage returns the newest message between the pair, or nil when the
// pair has no history.
func (r *MessageRepository) LastMessage(ctx context.Context, a, b string) (*db.Message, error) {
	var messages []db.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			a, b, b, a).
		Order("sent_at DESC, id DESC").
		Limit(1).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, nil
	}
	return &messages[0], nil
}

// HasHistory reports whether any message exists between the pair.
func (r *MessageRepository) HasHistory(ctx context.Context, a, b string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Message{}).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			a, b, b, a).
		Count(&count).Error
	return count > 0, err
}

// CountUnread derives the unread count: messages from peer to reader with
// a timestamp strictly greater than the reader's marker.
func (r *MessageRepository) CountUnread(ctx context.Context, readerID, peerID string) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&db.Message{}).
		Where("sender_id = ? AND recipient_id = ?", peerID, readerID)

	marker, err := r.GetMarker(ctx, readerID, peerID)
	if err != nil {
		return 0, err
	}
	if marker != nil {
		query = query.Where("sent_at > ?", marker.LastReadAt)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetMarker returns the reader's marker toward peer, or nil when the
// reader never acknowledged anything for that peer.
func (r *MessageRepository) GetMarker(ctx context.Context, readerID, peerID string) (*db.ReadMarker, error) {
	var markers []db.ReadMarker
	err := r.db.WithContext(ctx).
		Where("reader_id = ? AND peer_id = ?", readerID, peerID).
		Limit(1).
		Find(&markers).Error
	if err != nil {
		return nil, err
	}
	if len(markers) == 0 {
		return nil, nil
	}
	return &markers[0], nil
}

// AdvanceMarker moves the reader's marker to at least ts. The marker only
// ever moves forward: an advance carrying an older timestamp is a no-op.
func (r *MessageRepository) AdvanceMarker(ctx context.Context, readerID, peerID string, ts time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []db.ReadMarker
		if err := tx.
			Where("reader_id = ? AND peer_id = ?", readerID, peerID).
			Limit(1).
			Find(&existing).Error; err != nil {
			return err
		}
		if len(existing) > 0 && !existing[0].LastReadAt.Before(ts) {
			return nil
		}
		marker := db.ReadMarker{
			ReaderID:   readerID,
			PeerID:     peerID,
			LastReadAt: ts,
		}
		return tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "reader_id"}, {Name: "peer_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"last_read_at", "updated_at"}),
			}).
			Create(&marker).Error
	})
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
