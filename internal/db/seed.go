package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var seedInterests = [][]string{
	{"hiking", "coffee", "photography"},
	{"music", "travel", "cooking"},
	{"climbing", "reading", "films"},
	{"running", "board games", "art"},
	{"yoga", "dogs", "baking"},
}

// SeedTestData resets the database and populates it with demo profiles,
// interactions, matches and a few conversations.
//
// Behavior:
//  1. Clears all engine tables.
//  2. Creates 20 profiles (10 male, 10 female) with interests and photos.
//  3. Generates decisions with ~70% likes; every 3rd pair is made mutual
//     and gets a Match row plus a short conversation.
//  4. Adds one block and one report so moderation views have data.
//
// Compatible with both MySQL and SQLite.
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range []string{"messages", "read_markers", "matches", "interactions", "pair_locks", "blocks", "reports", "role_assignments", "profiles"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if db.Dialector.Name() == "sqlite" {
		db.Exec("DELETE FROM sqlite_sequence WHERE name IN ('messages', 'reports')")
	}

	log.Println("Cleared existing data")

	// --- Seed Profiles (10 male, 10 female) ---
	userIDs := make([]string, 0, 20)
	for i := 1; i <= 20; i++ {
		gender := Gender{Kind: GenderMale}
		interestedIn := Gender{Kind: GenderFemale}
		if i > 10 {
			gender, interestedIn = interestedIn, gender
		}

		userID := fmt.Sprintf("user-%02d", i)
		profile := Profile{
			UserID:        userID,
			DisplayName:   fmt.Sprintf("Demo User %d", i),
			Age:           20 + r.Intn(20),
			Gender:        gender,
			InterestedIn:  interestedIn,
			Location:      "London",
			Bio:           "Demo profile seeded for development.",
			Interests:     StringList(seedInterests[i%len(seedInterests)]),
			PhotoURLs:     StringList{fmt.Sprintf("https://photos.example.com/%02d/primary.jpg", i)},
			Active:        true,
			AgreedToTerms: true,
		}
		if err := db.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to seed profile: %w", err)
		}
		userIDs = append(userIDs, userID)
	}
	log.Println("Seeded 20 profiles.")

	// --- Seed Interactions, Matches and Conversations ---
	counter := 0
	for i, actorID := range userIDs {
		for j := 0; j < 8; j++ {
			targetID := userIDs[r.Intn(len(userIDs))]
			if targetID == actorID {
				continue
			}
			// demo data pairs across the two seeded gender groups
			if (i < 10) == (targetID < "user-11") {
				continue
			}

			liked := r.Intn(100) < 70

			// guarantee mutual likes every 3rd pair
			if counter%3 == 0 {
				liked = true
				recip := Interaction{ActorID: targetID, TargetID: actorID, Liked: true}
				db.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "actor_id"}, {Name: "target_id"}},
					DoUpdates: clause.AssignmentColumns([]string{"liked", "updated_at"}),
				}).Create(&recip)

				userA, userB := CanonicalPair(actorID, targetID)
				match := Match{ID: uuid.NewString(), UserA: userA, UserB: userB}
				if err := db.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "user_a"}, {Name: "user_b"}},
					DoNothing: true,
				}).Create(&match).Error; err != nil {
					return fmt.Errorf("failed to seed match: %w", err)
				}

				seedConversation(db, match, actorID, targetID)
			}

			interaction := Interaction{ActorID: actorID, TargetID: targetID, Liked: liked}
			if err := db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "actor_id"}, {Name: "target_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"liked", "updated_at"}),
			}).Create(&interaction).Error; err != nil {
				return fmt.Errorf("failed to seed interaction: %w", err)
			}

			counter++
		}
	}

	// --- Safety data so moderation views are not empty ---
	block := Block{BlockerID: "user-01", BlockedID: "user-20"}
	db.Clauses(clause.OnConflict{DoNothing: true}).Create(&block)

	report := Report{
		ReporterID: "user-02",
		ReportedID: "user-19",
		Reason:     "spam",
		Note:       "Sent the same link five times.",
	}
	db.Create(&report)

	// user-01 administers the demo environment
	admin := RoleAssignment{UserID: "user-01", Role: "admin"}
	db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "updated_at"}),
	}).Create(&admin)

	return nil
}

func seedConversation(db *gorm.DB, match Match, a, b string) {
	lines := []struct {
		from, to, text string
	}{
		{a, b, "Hey! We matched 🎉"},
		{b, a, "Hi! Nice to meet you."},
		{a, b, "Coffee this week?"},
	}
	base := time.Now().UTC().Add(-time.Hour)
	for i, l := range lines {
		msg := Message{
			SenderID:    l.from,
			RecipientID: l.to,
			MatchID:     match.ID,
			Content:     l.text,
			SentAt:      base.Add(time.Duration(i) * time.Minute),
		}
		db.Create(&msg)
	}
}
