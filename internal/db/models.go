package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList stores an ordered string slice as a JSON-encoded TEXT column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case string:
		b = []byte(v)
	case []byte:
		b = v
	case nil:
		*l = StringList{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
	if len(b) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(b, l)
}

// Profile is the durable record per user, keyed by the opaque identity
// string the external identity layer hands us.
//
// Invariants (enforced in the service layer, not the schema):
//   - Age >= 18
//   - At most 5 photo URLs, first is primary.
type Profile struct {
	UserID        string     `gorm:"primaryKey;size:64" json:"userId"`
	DisplayName   string     `gorm:"size:64;not null" json:"displayName"`
	Age           int        `gorm:"not null" json:"age"`
	Gender        Gender     `gorm:"type:varchar(64);not null" json:"gender"`
	InterestedIn  Gender     `gorm:"type:varchar(64);not null" json:"interestedIn"`
	Location      string     `gorm:"size:128" json:"location"`
	Bio           string     `gorm:"type:text" json:"bio"`
	Interests     StringList `gorm:"type:text" json:"interests"`
	PhotoURLs     StringList `gorm:"type:text" json:"photoUrls"`
	Active        bool       `gorm:"default:true" json:"isActive"`
	AgreedToTerms bool       `gorm:"not null" json:"hasAgreedToTerms"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Interaction records an actor's like/pass toward a target.
//
// Composite PK: (ActorID, TargetID)
//   - Ensures a single row per directed pair (overwrite guarantee): a later
//     like or pass from the same actor replaces the earlier one.
//
// Index idx_target_liked(target_id, liked) optimizes reciprocity checks and
// the "who liked me" listing.
type Interaction struct {
	ActorID   string    `gorm:"primaryKey;size:64"`
	TargetID  string    `gorm:"primaryKey;size:64;index:idx_target_liked,priority:1"`
	Liked     bool      `gorm:"not null;index:idx_target_liked,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Match is the materialized reciprocity record for an unordered pair.
// UserA/UserB are stored in canonical (lexicographic) order and carry a
// unique index, so exactly one row can ever exist per pair no matter how
// the concurrent mutual-like race interleaves.
type Match struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserA     string    `gorm:"size:64;not null;uniqueIndex:idx_match_pair,priority:1"`
	UserB     string    `gorm:"size:64;not null;uniqueIndex:idx_match_pair,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Message is immutable once written. Total order within a pair is
// (SentAt, ID); the autoincrement ID breaks same-instant ties.
type Message struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderID    string    `gorm:"size:64;not null;index:idx_msg_pair,priority:1" json:"sender"`
	RecipientID string    `gorm:"size:64;not null;index:idx_msg_pair,priority:2" json:"recipient"`
	MatchID     string    `gorm:"size:36;not null" json:"matchId"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	SentAt      time.Time `gorm:"not null;index" json:"timestamp"`
}

// ReadMarker is the per-(reader, peer) watermark; unread counts are always
// derived from it plus the message log, never stored.
type ReadMarker struct {
	ReaderID   string    `gorm:"primaryKey;size:64"`
	PeerID     string    `gorm:"primaryKey;size:64"`
	LastReadAt time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// PairLock is the serialization point for same-pair writers. Transactions
// that change a pair's match or block state upsert this row first, so their
// effects always land in some serial order per pair.
type PairLock struct {
	UserA     string    `gorm:"primaryKey;size:64"`
	UserB     string    `gorm:"primaryKey;size:64"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Block stores who blocked whom for audit, but its effect is symmetric:
// every visibility check consults both directions.
type Block struct {
	BlockerID string    `gorm:"primaryKey;size:64"`
	BlockedID string    `gorm:"primaryKey;size:64;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Report is append-only moderation data; never mutated or deleted.
type Report struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ReporterID string    `gorm:"size:64;not null;index" json:"reporter"`
	ReportedID string    `gorm:"size:64;not null;index" json:"reportedUser"`
	Reason     string    `gorm:"size:32;not null" json:"reason"`
	Note       string    `gorm:"type:text" json:"note"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"timestamp"`
}

// RoleAssignment maps an identity to a role. Absence of a row means the
// default role for an authenticated caller.
type RoleAssignment struct {
	UserID    string    `gorm:"primaryKey;size:64"`
	Role      string    `gorm:"size:16;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Models lists every table for AutoMigrate, shared by server boot and tests.
func Models() []any {
	return []any{
		&Profile{},
		&Interaction{},
		&Match{},
		&Message{},
		&ReadMarker{},
		&PairLock{},
		&Block{},
		&Report{},
		&RoleAssignment{},
	}
}
