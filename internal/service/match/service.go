package match

import (
	"context"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/kindlingapp/kindling-engine/internal/app"
	"github.com/kindlingapp/kindling-engine/internal/auth"
	"github.com/kindlingapp/kindling-engine/internal/db"
	svcErr "github.com/kindlingapp/kindling-engine/internal/errors"
	"github.com/kindlingapp/kindling-engine/internal/repository"
	"github.com/kindlingapp/kindling-engine/internal/service/chat"
)

const previewMaxRunes = 80

// Service implements the match engine API: like/pass signals and the
// aggregate matches listing.
type Service struct {
	appCtx          *app.AppContext
	matchRepo       *repository.MatchRepository
	interactionRepo *repository.InteractionRepository
	profileRepo     *repository.ProfileRepository
	blockRepo       *repository.BlockRepository
	messageRepo     *repository.MessageRepository
	unread          *chat.UnreadCounter
}

// NewMatchService creates a new match service with dependencies from AppContext.
func NewMatchService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:          appCtx,
		matchRepo:       repository.NewMatchRepository(appCtx.DB),
		interactionRepo: repository.NewInteractionRepository(appCtx.DB),
		profileRepo:     repository.NewProfileRepository(appCtx.DB),
		blockRepo:       repository.NewBlockRepository(appCtx.DB),
		messageRepo:     repository.NewMessageRepository(appCtx.DB),
		unread:          chat.NewUnreadCounter(appCtx),
	}
}

// LikeProfile records the caller's like toward target and materializes a
// match when the target already liked back. A like overwrites a previous
// pass, re-opening consideration.
func (s *Service) LikeProfile(c *gin.Context) {
	callerID := auth.CallerID(c)
	targetID := c.Param("id")
	ctx := c.Request.Context()

	if err := s.checkTarget(ctx, callerID, targetID); err != nil {
		svcErr.Respond(c, err)
		return
	}
	if blocked, err := s.blockRepo.ExistsBetween(ctx, callerID, targetID); err != nil {
		svcErr.Respond(c, err)
		return
	} else if blocked {
		svcErr.Respond(c, svcErr.Precondition("user unavailable"))
		return
	}

	matched, err := s.matchRepo.LikeAndMatch(ctx, callerID, targetID)
	if err != nil {
		s.appCtx.Logger.Error("LikeAndMatch failed", "actor", callerID, "err", err)
		svcErr.Respond(c, err)
		return
	}
	if matched {
		s.appCtx.Logger.Info("match created", "actor", callerID, "target", targetID)
	}

	c.Status(http.StatusNoContent)
}

// PassProfile records a pass. Idempotent: passing twice leaves exactly one
// interaction row for the pair.
func (s *Service) PassProfile(c *gin.Context) {
	callerID := auth.CallerID(c)
	targetID := c.Param("id")
	ctx := c.Request.Context()

	if err := s.checkTarget(ctx, callerID, targetID); err != nil {
		svcErr.Respond(c, err)
		return
	}

	if err := s.interactionRepo.Upsert(ctx, callerID, targetID, false); err != nil {
		svcErr.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// matchedProfile is a candidate/peer profile enriched with conversation
// state for the aggregate listing.
type matchedProfile struct {
	db.Profile
	UnreadMessagesCount int64  `json:"unreadMessagesCount"`
	LastMessagePreview  string `json:"lastMessagePreview,omitempty"`
}

// GetMatches returns three disjoint profile lists:
//
//	matches:  reciprocated pairs, enriched with unread count and a
//	          preview of the newest message
//	sent:     one-sided likes from the caller awaiting reciprocation
//	received: one-sided likes toward the caller awaiting a decision
//
// Blocked pairs appear in none of them.
func (s *Service) GetMatches(c *gin.Context) {
	callerID := auth.CallerID(c)
	ctx := c.Request.Context()

	matches, err := s.matchRepo.ListForUser(ctx, callerID)
	if err != nil {
		svcErr.Respond(c, err)
		return
	}
	matchedIDs := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.UserA == callerID {
			matchedIDs = append(matchedIDs, m.UserB)
		} else {
			matchedIDs = append(matchedIDs, m.UserA)
		}
	}

	sentIDs, err := s.interactionRepo.ListPendingSent(ctx, callerID)
	if err != nil {
		svcErr.Respond(c, err)
		return
	}
	receivedIDs, err := s.interactionRepo.ListPendingReceived(ctx, callerID)
	if err != nil {
		svcErr.Respond(c, err)
		return
	}

	all := make([]string, 0, len(matchedIDs)+len(sentIDs)+len(receivedIDs))
	all = append(all, matchedIDs...)
	all = append(all, sentIDs...)
	all = append(all, receivedIDs...)
	profiles, err := s.profileRepo.GetMany(ctx, all)
	if err != nil {
		svcErr.Respond(c, err)
		return
	}

	matchedViews := make([]matchedProfile, 0, len(matchedIDs))
	for _, peerID := range matchedIDs {
		p, ok := profiles[peerID]
		if !ok {
			continue
		}
		view := matchedProfile{Profile: p}

		n, cntErr := s.unread.Count(ctx, callerID, peerID)
		if cntErr != nil {
			svcErr.Respond(c, cntErr)
			return
		}
		view.UnreadMessagesCount = n

		last, lastErr := s.messageRepo.LastMessage(ctx, callerID, peerID)
		if lastErr != nil {
			svcErr.Respond(c, lastErr)
			return
		}
		if last != nil {
			view.LastMessagePreview = truncate(last.Content, previewMaxRunes)
		}
		matchedViews = append(matchedViews, view)
	}

	c.JSON(http.StatusOK, gin.H{
		"matches":  matchedViews,
		"sent":     collect(profiles, sentIDs),
		"received": collect(profiles, receivedIDs),
	})
}

// checkTarget validates a like/pass target: present, distinct from the
// caller, and existing.
func (s *Service) checkTarget(ctx context.Context, callerID, targetID string) error {
	if targetID == callerID {
		return svcErr.Validation("cannot decide on yourself")
	}
	exists, err := s.profileRepo.Exists(ctx, targetID)
	if err != nil {
		return err
	}
	if !exists {
		return svcErr.NotFound("target profile not found")
	}
	return nil
}

func collect(profiles map[string]db.Profile, ids []string) []matchedProfile {
	out := make([]matchedProfile, 0, len(ids))
	for _, id := range ids {
		if p, ok := profiles[id]; ok {
			out = append(out, matchedProfile{Profile: p})
		}
	}
	return out
}

func truncate(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes]) + "…"
}
