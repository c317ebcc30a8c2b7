package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kindlingapp/kindling-engine/internal/db"
)

// lockPair serializes tx against every other same-pair writer by upserting
// the pair's lock row. The upsert holds an exclusive lock on the row until
// the transaction commits, so a concurrent like and block on the same pair
// always take effect in some serial order and reads issued after the lock
// see the other writer's committed state.
func lockPair(tx *gorm.DB, a, b string) error {
	userA, userB := db.CanonicalPair(a, b)
	lock := db.PairLock{UserA: userA, UserB: userB}
	return tx.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_a"}, {Name: "user_b"}},
			DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
		}).
		Create(&lock).Error
}
