package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kindlingapp/kindling-engine/internal/db"
)

// MatchRepository owns the Match table and the pair state machine
// transitions (none -> pending -> matched -> severed).
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// LikeAndMatch records actor's like toward target and, if the reverse like
// exists and no block is active, materializes the Match.
//
// Exactly-once under the concurrent mutual-like race: the like is
// committed before the reciprocity check, so whichever caller commits
// second reads a state containing both likes and attempts the insert.
// The pair's canonical order plus the unique index make that insert land
// at most once, with ON CONFLICT DO NOTHING absorbing the case where both
// callers attempt it. Never zero, never two.
//
// The match transaction runs under the pair lock, so a concurrent block
// on the same pair either commits first (and the block check below sees
// it) or waits and severs the freshly created match. A blocked pair can
// never end up holding a live Match row.
func (r *MatchRepository) LikeAndMatch(ctx context.Context, actorID, targetID string) (bool, error) {
	interaction := db.Interaction{
		ActorID:  actorID,
		TargetID: targetID,
		Liked:    true,
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "actor_id"}, {Name: "target_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"liked", "updated_at"}),
		}).
		Create(&interaction).Error; err != nil {
		return false, err
	}

	matched := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPair(tx, actorID, targetID); err != nil {
			return err
		}

		var reverse int64
		if err := tx.Model(&db.Interaction{}).
			Where("actor_id = ? AND target_id = ? AND liked = ?", targetID, actorID, true).
			Count(&reverse).Error; err != nil {
			return err
		}
		if reverse == 0 {
			return nil // pending, waiting for the other side
		}

		var blocks int64
		if err := tx.Model(&db.Block{}).
			Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)",
				actorID, targetID, targetID, actorID).
			Count(&blocks).Error; err != nil {
			return err
		}
		if blocks > 0 {
			return nil // reciprocity exists but the pair is not mutually visible
		}

		userA, userB := db.CanonicalPair(actorID, targetID)
		match := db.Match{
			ID:    uuid.NewString(),
			UserA: userA,
			UserB: userB,
		}
		if err := tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_a"}, {Name: "user_b"}},
				DoNothing: true,
			}).
			Create(&match).Error; err != nil {
			return err
		}

		matched = true
		return nil
	})

	return matched, err
}

// GetByPair returns the match for the unordered pair {a, b}, or
// gorm.ErrRecordNotFound.
func (r *MatchRepository) GetByPair(ctx context.Context, a, b string) (*db.Match, error) {
	userA, userB := db.CanonicalPair(a, b)
	var m db.Match
	err := r.db.WithContext(ctx).
		First(&m, "user_a = ? AND user_b = ?", userA, userB).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ExistsForPair reports whether the unordered pair currently holds a match.
func (r *MatchRepository) ExistsForPair(ctx context.Context, a, b string) (bool, error) {
	userA, userB := db.CanonicalPair(a, b)
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("user_a = ? AND user_b = ?", userA, userB).
		Count(&count).Error
	return count > 0, err
}

// ListForUser returns every match the user participates in, oldest first
// for deterministic listings.
func (r *MatchRepository) ListForUser(ctx context.Context, userID string) ([]db.Match, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Where("user_a = ? OR user_b = ?", userID, userID).
		Order("created_at ASC, id ASC").
		Find(&matches).Error
	return matches, err
}
