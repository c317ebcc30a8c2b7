package repository_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kindlingapp/kindling-engine/internal/db"
)

// setupTestDB spins up an isolated in-memory SQLite DB with the full
// schema. A single connection keeps concurrent test goroutines from
// tripping SQLite table locks.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db.Models()...))
	return database
}

// seedProfile inserts a minimal active profile for the given identity.
func seedProfile(t *testing.T, gdb *gorm.DB, userID string, age int, kind db.GenderKind) db.Profile {
	t.Helper()

	interestedIn := db.GenderFemale
	if kind == db.GenderFemale {
		interestedIn = db.GenderMale
	}
	p := db.Profile{
		UserID:        userID,
		DisplayName:   "User " + userID,
		Age:           age,
		Gender:        db.Gender{Kind: kind},
		InterestedIn:  db.Gender{Kind: interestedIn},
		Location:      "London",
		Interests:     db.StringList{"coffee"},
		PhotoURLs:     db.StringList{"https://photos.example.com/" + userID + ".jpg"},
		Active:        true,
		AgreedToTerms: true,
	}
	require.NoError(t, gdb.Create(&p).Error)
	return p
}
