package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kindlingapp/kindling-engine/internal/app"
	"github.com/kindlingapp/kindling-engine/internal/cache"
	"github.com/kindlingapp/kindling-engine/internal/config"
	"github.com/kindlingapp/kindling-engine/internal/db"
	"github.com/kindlingapp/kindling-engine/internal/server"
	"github.com/kindlingapp/kindling-engine/internal/service/admin"
	"github.com/kindlingapp/kindling-engine/internal/service/chat"
	"github.com/kindlingapp/kindling-engine/internal/service/discovery"
	"github.com/kindlingapp/kindling-engine/internal/service/match"
	"github.com/kindlingapp/kindling-engine/internal/service/profile"
	"github.com/kindlingapp/kindling-engine/internal/service/safety"
)

const (
	testSecret     = "test-secret"
	bootstrapAdmin = "root-admin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter wires the full HTTP surface against in-memory SQLite and
// miniredis.
func newTestRouter(t *testing.T) (*gin.Engine, *app.AppContext) {
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

	mr := miniredis.RunT(t)
	redisCache := &cache.RedisCache{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}

	cfg := &config.Config{}
	cfg.App.ENV = "test"
	cfg.Auth.JWTSecret = testSecret
	cfg.Auth.BootstrapAdmin = bootstrapAdmin

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appCtx := app.New(cfg, database, redisCache, logger)

	router := server.NewRouter(appCtx,
		profile.NewRegistrar(appCtx),
		discovery.NewRegistrar(appCtx),
		match.NewRegistrar(appCtx),
		chat.NewRegistrar(appCtx),
		safety.NewRegistrar(appCtx),
		admin.NewRegistrar(appCtx),
	)
	return router, appCtx
}

// signToken mints a bearer token the way the external identity provider
// would, carrying only the opaque subject.
func signToken(t *testing.T, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doJSON(t *testing.T, router *gin.Engine, method, path, sub string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sub != "" {
		req.Header.Set("Authorization", "Bearer "+signToken(t, sub))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// validProfile is a payload that passes every profile check.
func validProfile(name string) map[string]any {
	return map[string]any{
		"displayName":      name,
		"age":              30,
		"gender":           map[string]any{"kind": "female"},
		"interestedIn":     map[string]any{"kind": "male"},
		"location":         "London",
		"bio":              "hello",
		"interests":        []string{"coffee", "hiking"},
		"photoUrls":        []string{"https://photos.example.com/1.jpg"},
		"isActive":         true,
		"hasAgreedToTerms": true,
	}
}

func saveProfile(t *testing.T, router *gin.Engine, sub string, payload map[string]any) {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/profile", sub, payload)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
}

func TestHealthIsPublic(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIRequiresBearerToken(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfileOnboardingFlow(t *testing.T) {
	router, _ := newTestRouter(t)

	// before onboarding the caller's profile is a JSON null, not an error
	w := doJSON(t, router, http.MethodGet, "/api/v1/profile", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())

	saveProfile(t, router, "alice", validProfile("Alice"))

	w = doJSON(t, router, http.MethodGet, "/api/v1/profile", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	decode(t, w, &got)
	assert.Equal(t, "alice", got["userId"])
	assert.Equal(t, "Alice", got["displayName"])
	assert.Equal(t, true, got["isActive"])

	// a later save replaces the whole profile
	updated := validProfile("Alice v2")
	updated["bio"] = ""
	saveProfile(t, router, "alice", updated)
	w = doJSON(t, router, http.MethodGet, "/api/v1/profile", "alice", nil)
	decode(t, w, &got)
	assert.Equal(t, "Alice v2", got["displayName"])
	assert.Equal(t, "", got["bio"])
}

func TestProfileValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	underage := validProfile("Kid")
	underage["age"] = 17
	w := doJSON(t, router, http.MethodPost, "/api/v1/profile", "alice", underage)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	noName := validProfile("")
	w = doJSON(t, router, http.MethodPost, "/api/v1/profile", "alice", noName)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	tooManyPhotos := validProfile("Gallery")
	tooManyPhotos["photoUrls"] = []string{"a", "b", "c", "d", "e", "f"}
	w = doJSON(t, router, http.MethodPost, "/api/v1/profile", "alice", tooManyPhotos)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	badGender := validProfile("Mystery")
	badGender["gender"] = map[string]any{"kind": "unknown"}
	w = doJSON(t, router, http.MethodPost, "/api/v1/profile", "alice", badGender)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// other(label) is a legal variant
	other := validProfile("Sam")
	other["gender"] = map[string]any{"kind": "other", "label": "nonbinary"}
	saveProfile(t, router, "sam", other)
}

func TestGuestRoleIsReadOnly(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/admin/roles", bootstrapAdmin,
		map[string]any{"userId": "eve", "role": "guest"})
	require.Equal(t, http.StatusNoContent, w.Code)

	// a guest can still see its own (empty) profile and role
	w = doJSON(t, router, http.MethodGet, "/api/v1/profile", "eve", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodGet, "/api/v1/role", "eve", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var role map[string]any
	decode(t, w, &role)
	assert.Equal(t, "guest", role["role"])

	// but every write and listing is gated
	w = doJSON(t, router, http.MethodPost, "/api/v1/profile", "eve", validProfile("Eve"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(t, router, http.MethodGet, "/api/v1/recommendations", "eve", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(t, router, http.MethodGet, "/api/v1/matches", "eve", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

type matchesResponse struct {
	Matches []struct {
		UserID              string `json:"userId"`
		UnreadMessagesCount int64  `json:"unreadMessagesCount"`
		LastMessagePreview  string `json:"lastMessagePreview"`
	} `json:"matches"`
	Sent []struct {
		UserID string `json:"userId"`
	} `json:"sent"`
	Received []struct {
		UserID string `json:"userId"`
	} `json:"received"`
}

func getMatches(t *testing.T, router *gin.Engine, sub string) matchesResponse {
	t.Helper()
	w := doJSON(t, router, http.MethodGet, "/api/v1/matches", sub, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp matchesResponse
	decode(t, w, &resp)
	return resp
}

func TestMutualLikeAndConversationFlow(t *testing.T) {
	router, _ := newTestRouter(t)
	saveProfile(t, router, "alice", validProfile("Alice"))
	saveProfile(t, router, "bob", validProfile("Bob"))

	// alice likes bob: pending on her side, incoming on his
	w := doJSON(t, router, http.MethodPost, "/api/v1/profiles/bob/like", "alice", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	aliceView := getMatches(t, router, "alice")
	require.Len(t, aliceView.Sent, 1)
	assert.Equal(t, "bob", aliceView.Sent[0].UserID)
	assert.Empty(t, aliceView.Matches)

	bobView := getMatches(t, router, "bob")
	require.Len(t, bobView.Received, 1)
	assert.Equal(t, "alice", bobView.Received[0].UserID)

	// bob likes back: both sides see exactly one match, pendings cleared
	w = doJSON(t, router, http.MethodPost, "/api/v1/profiles/alice/like", "bob", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	aliceView = getMatches(t, router, "alice")
	require.Len(t, aliceView.Matches, 1)
	assert.Equal(t, "bob", aliceView.Matches[0].UserID)
	assert.Empty(t, aliceView.Sent)
	bobView = getMatches(t, router, "bob")
	require.Len(t, bobView.Matches, 1)
	assert.Empty(t, bobView.Received)

	// bob messages alice; her unread count and preview reflect it
	w = doJSON(t, router, http.MethodPost, "/api/v1/conversations/alice/messages", "bob",
		map[string]any{"content": "hey!"})
	require.Equal(t, http.StatusCreated, w.Code)
	var sent map[string]any
	decode(t, w, &sent)
	assert.Equal(t, "bob", sent["sender"])
	assert.Equal(t, "alice", sent["recipient"])
	assert.Equal(t, "hey!", sent["content"])

	aliceView = getMatches(t, router, "alice")
	require.Len(t, aliceView.Matches, 1)
	assert.Equal(t, int64(1), aliceView.Matches[0].UnreadMessagesCount)
	assert.Equal(t, "hey!", aliceView.Matches[0].LastMessagePreview)

	// the sender's own unread count stays zero
	bobView = getMatches(t, router, "bob")
	assert.Equal(t, int64(0), bobView.Matches[0].UnreadMessagesCount)

	// reading the conversation and acknowledging it zeroes the count
	w = doJSON(t, router, http.MethodGet, "/api/v1/conversations/bob", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var convo struct {
		Messages []map[string]any `json:"messages"`
	}
	decode(t, w, &convo)
	require.Len(t, convo.Messages, 1)

	w = doJSON(t, router, http.MethodPost, "/api/v1/conversations/bob/read", "alice", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	aliceView = getMatches(t, router, "alice")
	assert.Equal(t, int64(0), aliceView.Matches[0].UnreadMessagesCount)
}

func TestMarkReadRequiresConversation(t *testing.T) {
	router, appCtx := newTestRouter(t)
	saveProfile(t, router, "alice", validProfile("Alice"))
	saveProfile(t, router, "bob", validProfile("Bob"))

	// neither a match nor any history: nothing to acknowledge
	w := doJSON(t, router, http.MethodPost, "/api/v1/conversations/bob/read", "alice", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// build history, then sever the match; old messages stay acknowledgeable
	doJSON(t, router, http.MethodPost, "/api/v1/profiles/bob/like", "alice", nil)
	doJSON(t, router, http.MethodPost, "/api/v1/profiles/alice/like", "bob", nil)
	w = doJSON(t, router, http.MethodPost, "/api/v1/conversations/alice/messages", "bob",
		map[string]any{"content": "hi"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, appCtx.DB.Exec("DELETE FROM matches").Error)

	w = doJSON(t, router, http.MethodPost, "/api/v1/conversations/bob/read", "alice", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	aliceView := getMatches(t, router, "alice")
	assert.Empty(t, aliceView.Matches)
}

func TestSendMessageRequiresMatch(t *testing.T) {
	router, _ := newTestRouter(t)
	saveProfile(t, router, "alice", validProfile("Alice"))
	saveProfile(t, router, "bob", validProfile("Bob"))

	w := doJSON(t, router, http.MethodPost, "/api/v1/conversations/bob/messages", "alice",
		map[string]any{"content": "hello"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/conversations/ghost/messages", "alice",
		map[string]any{"content": "hello"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/conversations/bob/messages", "alice",
		map[string]any{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConversationPaging(t *testing.T) {
	router, _ := newTestRouter(t)
	saveProfile(t, router, "alice", validProfile("Alice"))
	saveProfile(t, router, "bob", validProfile("Bob"))
	doJSON(t, router, http.MethodPost, "/api/v1/profiles/bob/like", "alice", nil)
	doJSON(t, router, http.MethodPost, "/api/v1/profiles/alice/like", "bob", nil)

	for i := 1; i <= 5; i++ {
		w := doJSON(t, router, http.MethodPost, "/api/v1/conversations/bob/messages", "alice",
			map[string]any{"content": fmt.Sprintf("m%d", i)})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	var page struct {
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
		NextPaginationToken string `json:"nextPaginationToken"`
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/conversations/alice?limit=3", "bob", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &page)
	require.Len(t, page.Messages, 3)
	assert.Equal(t, "m5", page.Messages[0].Content)
	require.NotEmpty(t, page.NextPaginationToken)

	w = doJSON(t, router, http.MethodGet,
		"/api/v1/conversations/alice?limit=3&token="+page.NextPaginationToken, "bob", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page.NextPaginationToken = ""
	decode(t, w, &page)
	require.Len(t, page.Messages, 2)
	assert.Equal(t, "m2", page.Messages[0].Content)
	assert.Empty(t, page.NextPaginationToken)
}

func TestBlockSeversAndHides(t *testing.T) {
	router, _ := newTestRouter(t)
	saveProfile(t, router, "alice", validProfile("Alice"))
	saveProfile(t, router, "bob", validProfile("Bob"))
	doJSON(t, router, http.MethodPost, "/api/v1/profiles/bob/like", "alice", nil)
	doJSON(t, router, http.MethodPost, "/api/v1/profiles/alice/like", "bob", nil)
	w := doJSON(t, router, http.MethodPost, "/api/v1/conversations/alice/messages", "bob",
		map[string]any{"content": "hi"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/profiles/bob/block", "alice", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	// the match is gone on both sides
	assert.Empty(t, getMatches(t, router, "alice").Matches)
	assert.Empty(t, getMatches(t, router, "bob").Matches)

	// sending fails in both directions, as does reading the history
	w = doJSON(t, router, http.MethodPost, "/api/v1/conversations/alice/messages", "bob",
		map[string]any{"content": "hello?"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(t, router, http.MethodPost, "/api/v1/conversations/bob/messages", "alice",
		map[string]any{"content": "bye"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(t, router, http.MethodGet, "/api/v1/conversations/alice", "bob", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// the profile reads as absent, indistinguishable from never existing
	w = doJSON(t, router, http.MethodGet, "/api/v1/profiles/alice", "bob", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, router, http.MethodGet, "/api/v1/profiles/bob", "alice", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// only the blocker's list shows the entry
	w = doJSON(t, router, http.MethodGet, "/api/v1/blocked", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var blocked []map[string]any
	decode(t, w, &blocked)
	require.Len(t, blocked, 1)
	assert.Equal(t, "bob", blocked[0]["userId"])

	w = doJSON(t, router, http.MethodGet, "/api/v1/blocked", "bob", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &blocked)
	assert.Empty(t, blocked)

	// re-liking a blocked pair is rejected
	w = doJSON(t, router, http.MethodPost, "/api/v1/profiles/bob/like", "alice", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRecommendationsExcludeAndFilter(t *testing.T) {
	router, _ := newTestRouter(t)
	saveProfile(t, router, "alice", validProfile("Alice"))

	bob := validProfile("Bob")
	bob["gender"] = map[string]any{"kind": "male"}
	bob["age"] = 28
	saveProfile(t, router, "bob", bob)

	carol := validProfile("Carol")
	carol["age"] = 45
	saveProfile(t, router, "carol", carol)

	dave := validProfile("Dave")
	dave["gender"] = map[string]any{"kind": "male"}
	dave["age"] = 50
	saveProfile(t, router, "dave", dave)

	// unfiltered: everyone but the caller
	w := doJSON(t, router, http.MethodGet, "/api/v1/recommendations", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var recs []map[string]any
	decode(t, w, &recs)
	assert.Len(t, recs, 3)

	// age and gender filters narrow the set
	w = doJSON(t, router, http.MethodGet,
		"/api/v1/recommendations?gender=male&ageMax=40", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &recs)
	require.Len(t, recs, 1)
	assert.Equal(t, "bob", recs[0]["userId"])

	// a pass removes the candidate from subsequent calls
	w = doJSON(t, router, http.MethodPost, "/api/v1/profiles/carol/pass", "alice", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, router, http.MethodGet, "/api/v1/recommendations", "alice", nil)
	decode(t, w, &recs)
	assert.Len(t, recs, 2)

	// invalid bounds are rejected
	w = doJSON(t, router, http.MethodGet,
		"/api/v1/recommendations?ageMin=40&ageMax=20", "alice", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSelfDecisionsRejected(t *testing.T) {
	router, _ := newTestRouter(t)
	saveProfile(t, router, "alice", validProfile("Alice"))

	w := doJSON(t, router, http.MethodPost, "/api/v1/profiles/alice/like", "alice", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(t, router, http.MethodPost, "/api/v1/profiles/alice/block", "alice", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(t, router, http.MethodPost, "/api/v1/profiles/ghost/like", "alice", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminSurface(t *testing.T) {
	router, _ := newTestRouter(t)
	saveProfile(t, router, "alice", validProfile("Alice"))
	saveProfile(t, router, "bob", validProfile("Bob"))

	// regular users cannot touch the moderation surface
	w := doJSON(t, router, http.MethodGet, "/api/v1/admin/reports", "alice", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(t, router, http.MethodPost, "/api/v1/admin/roles", "alice",
		map[string]any{"userId": "alice", "role": "admin"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// reports land in the append-only log the bootstrap admin can read
	w = doJSON(t, router, http.MethodPost, "/api/v1/profiles/bob/report", "alice",
		map[string]any{"reason": "spam", "note": "keeps sending links"})
	require.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, router, http.MethodPost, "/api/v1/profiles/bob/report", "alice",
		map[string]any{"reason": "bogus_reason"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/admin/reports", bootstrapAdmin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var reports []map[string]any
	decode(t, w, &reports)
	require.Len(t, reports, 1)
	assert.Equal(t, "alice", reports[0]["reporter"])
	assert.Equal(t, "bob", reports[0]["reportedUser"])
	assert.Equal(t, "spam", reports[0]["reason"])

	// role grants take effect on the next request
	w = doJSON(t, router, http.MethodPost, "/api/v1/admin/roles", bootstrapAdmin,
		map[string]any{"userId": "alice", "role": "admin"})
	require.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, router, http.MethodGet, "/api/v1/admin/reports", "alice", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var isAdmin map[string]any
	w = doJSON(t, router, http.MethodGet, "/api/v1/role/admin", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &isAdmin)
	assert.Equal(t, true, isAdmin["isAdmin"])

	// an admin may demote themselves; the bootstrap admin cannot lose access
	w = doJSON(t, router, http.MethodPost, "/api/v1/admin/roles", "alice",
		map[string]any{"userId": "alice", "role": "user"})
	require.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, router, http.MethodGet, "/api/v1/admin/reports", "alice", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/admin/roles", bootstrapAdmin,
		map[string]any{"userId": bootstrapAdmin, "role": "user"})
	require.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, router, http.MethodGet, "/api/v1/admin/reports", bootstrapAdmin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// unknown role names are rejected
	w = doJSON(t, router, http.MethodPost, "/api/v1/admin/roles", bootstrapAdmin,
		map[string]any{"userId": "bob", "role": "superuser"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoleIntrospectionDefaults(t *testing.T) {
	router, _ := newTestRouter(t)

	var role map[string]any
	w := doJSON(t, router, http.MethodGet, "/api/v1/role", "someone-new", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &role)
	assert.Equal(t, "user", role["role"])

	w = doJSON(t, router, http.MethodGet, "/api/v1/role", bootstrapAdmin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &role)
	assert.Equal(t, "admin", role["role"])
}
