package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kindlingapp/kindling-engine/internal/db"
)

// defaultRole is what an authenticated identity holds until an admin
// explicitly assigns something else.
const defaultRole = "user"

// RoleRepository maps identities to roles. Role is plain data keyed by
// identity, independent of profile ownership.
type RoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new repository bound to the given DB connection.
func NewRoleRepository(database *gorm.DB) *RoleRepository {
	return &RoleRepository{db: database}
}

// Get returns the role assigned to userID, defaulting when no row exists.
func (r *RoleRepository) Get(ctx context.Context, userID string) (string, error) {
	var assignment db.RoleAssignment
	err := r.db.WithContext(ctx).
		First(&assignment, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return defaultRole, nil
	}
	if err != nil {
		return "", err
	}
	return assignment.Role, nil
}

// Assign sets or replaces the role for userID.
func (r *RoleRepository) Assign(ctx context.Context, userID, role string) error {
	assignment := db.RoleAssignment{
		UserID: userID,
		Role:   role,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role", "updated_at"}),
		}).
		Create(&assignment).Error
}
