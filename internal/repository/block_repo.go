package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kindlingapp/kindling-engine/internal/db"
)

// BlockRepository owns the block registry. Rows are directed (who blocked
// whom is kept for audit) but every visibility check is symmetric.
type BlockRepository struct {
	db *gorm.DB
}

// NewBlockRepository creates a new repository bound to the given DB connection.
func NewBlockRepository(database *gorm.DB) *BlockRepository {
	return &BlockRepository{db: database}
}

// BlockAndSever records the block and removes any match between the pair
// in the same transaction, so no interleaving can observe "blocked but
// still matched". The pair lock serializes this against a concurrent
// LikeAndMatch on the same pair: whichever commits second sees the other's
// state, so the severed outcome always wins. Blocking twice is a no-op on
// the block row.
func (r *BlockRepository) BlockAndSever(ctx context.Context, blockerID, blockedID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPair(tx, blockerID, blockedID); err != nil {
			return err
		}

		block := db.Block{
			BlockerID: blockerID,
			BlockedID: blockedID,
		}
		if err := tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "blocker_id"}, {Name: "blocked_id"}},
				DoNothing: true,
			}).
			Create(&block).Error; err != nil {
			return err
		}

		userA, userB := db.CanonicalPair(blockerID, blockedID)
		return tx.
			Where("user_a = ? AND user_b = ?", userA, userB).
			Delete(&db.Match{}).Error
	})
}

// ExistsBetween is the single mutual-visibility predicate: true when a
// block exists in either direction. Recommendations, matching, messaging
// and conversation reads all go through this check so the directed storage
// never leaks into behavior.
func (r *BlockRepository) ExistsBetween(ctx context.Context, a, b string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)",
			a, b, b, a).
		Count(&count).Error
	return count > 0, err
}

// ListBlocked returns only the identities the caller itself blocked,
// newest first.
func (r *BlockRepository) ListBlocked(ctx context.Context, blockerID string) ([]db.Block, error) {
	var blocks []db.Block
	err := r.db.WithContext(ctx).
		Where("blocker_id = ?", blockerID).
		Order("created_at DESC").
		Find(&blocks).Error
	return blocks, err
}
