package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kindlingapp/kindling-engine/internal/db"
)

// ProfileRepository provides data access for the Profile model.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new repository bound to the given DB connection.
func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

// Upsert inserts or fully replaces the profile row for p.UserID.
// Profiles are never hard-deleted; deactivation goes through the Active flag.
func (r *ProfileRepository) Upsert(ctx context.Context, p *db.Profile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"display_name", "age", "gender", "interested_in", "location",
				"bio", "interests", "photo_urls", "active", "agreed_to_terms",
				"updated_at",
			}),
		}).
		Create(p).Error
}

// Get returns the profile for userID or gorm.ErrRecordNotFound.
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*db.Profile, error) {
	var p db.Profile
	if err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Exists reports whether a profile row exists for userID.
func (r *ProfileRepository) Exists(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count > 0, err
}

// GetMany loads profiles for the given identities, keyed by user ID.
// Missing identities are simply absent from the result.
func (r *ProfileRepository) GetMany(ctx context.Context, userIDs []string) (map[string]db.Profile, error) {
	out := make(map[string]db.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var profiles []db.Profile
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	for _, p := range profiles {
		out[p.UserID] = p
	}
	return out, nil
}

// CandidateFilter holds the optional hard predicates for recommendations.
// Nil fields mean "not supplied".
type CandidateFilter struct {
	AgeMin       *int
	AgeMax       *int
	Gender       *db.Gender
	InterestedIn *db.Gender
	InterestTags []string
}

// ListCandidates returns recommendation candidates for requesterID.
//
// Exclusions, in contract order:
//   - the requester itself
//   - any identity with a block in either direction
//   - any identity the requester already liked or passed
//   - inactive profiles
//   - profiles failing the supplied filters
//
// Ordering is created_at then user_id, so the result is deterministic for
// a fixed state. Tag intersection is applied in memory because interests
// live in a JSON column.
func (r *ProfileRepository) ListCandidates(
	ctx context.Context,
	requesterID string,
	filter CandidateFilter,
) ([]db.Profile, error) {
	query := r.db.WithContext(ctx).
		Table("profiles p").
		Where("p.user_id <> ?", requesterID).
		Where("p.active = ?", true).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM interactions i
				WHERE i.actor_id = ?
				  AND i.target_id = p.user_id
			)`, requesterID).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM blocks b
				WHERE (b.blocker_id = ? AND b.blocked_id = p.user_id)
				   OR (b.blocker_id = p.user_id AND b.blocked_id = ?)
			)`, requesterID, requesterID).
		Order("p.created_at ASC, p.user_id ASC")

	if filter.AgeMin != nil {
		query = query.Where("p.age >= ?", *filter.AgeMin)
	}
	if filter.AgeMax != nil {
		query = query.Where("p.age <= ?", *filter.AgeMax)
	}
	if filter.Gender != nil {
		query = query.Where("p.gender = ?", *filter.Gender)
	}
	if filter.InterestedIn != nil {
		query = query.Where("p.interested_in = ?", *filter.InterestedIn)
	}

	var profiles []db.Profile
	if err := query.Find(&profiles).Error; err != nil {
		return nil, err
	}

	if len(filter.InterestTags) == 0 {
		return profiles, nil
	}

	wanted := make(map[string]struct{}, len(filter.InterestTags))
	for _, tag := range filter.InterestTags {
		wanted[tag] = struct{}{}
	}

	filtered := profiles[:0]
	for _, p := range profiles {
		for _, tag := range p.Interests {
			if _, ok := wanted[tag]; ok {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered, nil
}
