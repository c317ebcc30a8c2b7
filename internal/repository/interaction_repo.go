package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kindlingapp/kindling-engine/internal/db"
)

// InteractionRepository provides data access for the Interaction ledger.
// It encapsulates all queries related to likes/passes between users.
type InteractionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository creates a new repository bound to the given DB connection.
func NewInteractionRepository(database *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: database}
}

// Upsert inserts or updates the decision actor -> target.
//
// Behavior:
//   - If (actor_id, target_id) exists, the row is updated with the new
//     "liked" value; otherwise a new row is inserted.
//   - Composite PK ensures the overwrite guarantee: issuing pass twice, or
//     a like after a pass, always leaves exactly one row for the pair.
func (r *InteractionRepository) Upsert(
	ctx context.Context,
	actorID, targetID string,
	liked bool,
) error {
	interaction := db.Interaction{
		ActorID:  actorID,
		TargetID: targetID,
		Liked:    liked,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "actor_id"}, {Name: "target_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"liked", "updated_at"}),
		}).
		Create(&interaction).Error
}

// Get returns the interaction actor -> target or gorm.ErrRecordNotFound.
func (r *InteractionRepository) Get(ctx context.Context, actorID, targetID string) (*db.Interaction, error) {
	var i db.Interaction
	err := r.db.WithContext(ctx).
		First(&i, "actor_id = ? AND target_id = ?", actorID, targetID).Error
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// HasLiked checks whether actor has an active like toward target.
func (r *InteractionRepository) HasLiked(ctx context.Context, actorID, targetID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Interaction{}).
		Where("actor_id = ? AND target_id = ? AND liked = ?", actorID, targetID, true).
		Count(&count).Error
	return count > 0, err
}

// ListPendingSent returns identities the actor liked that have not
// reciprocated yet. Blocked relationships are excluded outright.
func (r *InteractionRepository) ListPendingSent(ctx context.Context, actorID string) ([]string, error) {
	var targets []string
	err := r.db.WithContext(ctx).
		Table("interactions i").
		Select("i.target_id").
		Where("i.actor_id = ? AND i.liked = ?", actorID, true).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM interactions i2
				WHERE i2.actor_id = i.target_id
				  AND i2.target_id = i.actor_id
				  AND i2.liked = true
			)`).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM blocks b
				WHERE (b.blocker_id = ? AND b.blocked_id = i.target_id)
				   OR (b.blocker_id = i.target_id AND b.blocked_id = ?)
			)`, actorID, actorID).
		Order("i.updated_at DESC, i.target_id DESC").
		Scan(&targets).Error
	return targets, err
}

// ListPendingReceived returns identities that liked the recipient and are
// still awaiting the recipient's decision.
//
// Behavior:
//   - Excludes mutual likes (those are matches, not pending).
//   - Excludes likers the recipient already passed.
//   - Excludes blocked relationships in either direction.
func (r *InteractionRepository) ListPendingReceived(ctx context.Context, recipientID string) ([]string, error) {
	var actors []string
	err := r.db.WithContext(ctx).
		Table("interactions i").
		Select("i.actor_id").
		Where("i.target_id = ? AND i.liked = ?", recipientID, true).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM interactions i2
				WHERE i2.actor_id = ?
				  AND i2.target_id = i.actor_id
			)`, recipientID).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM blocks b
				WHERE (b.blocker_id = ? AND b.blocked_id = i.actor_id)
				   OR (b.blocker_id = i.actor_id AND b.blocked_id = ?)
			)`, recipientID, recipientID).
		Order("i.updated_at DESC, i.actor_id DESC").
		Scan(&actors).Error
	return actors, err
}
