package chat

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kindlingapp/kindling-engine/internal/app"
	"github.com/kindlingapp/kindling-engine/internal/auth"
	svcErr "github.com/kindlingapp/kindling-engine/internal/errors"
	"github.com/kindlingapp/kindling-engine/internal/repository"
)

const maxContentLen = 4000

// Service implements the conversation store API: sending messages,
// reading per-pair history and advancing read markers.
type Service struct {
	appCtx      *app.AppContext
	messageRepo *repository.MessageRepository
	matchRepo   *repository.MatchRepository
	blockRepo   *repository.BlockRepository
	profileRepo *repository.ProfileRepository
	unread      *UnreadCounter
}

// NewChatService creates a new chat service with dependencies from AppContext.
func NewChatService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		messageRepo: repository.NewMessageRepository(appCtx.DB),
		matchRepo:   repository.NewMatchRepository(appCtx.DB),
		blockRepo:   repository.NewBlockRepository(appCtx.DB),
		profileRepo: repository.NewProfileRepository(appCtx.DB),
		unread:      NewUnreadCounter(appCtx),
	}
}

type sendPayload struct {
	Content string `json:"content"`
}

// SendMessage appends one message to the pair's conversation.
//
// Behavior:
//   - requires an active match at call time; severed pairs keep their
//     history but cannot send
//   - a block in either direction fails the send
//   - the recipient's unread cache is invalidated so the next read
//     rederives from the log
func (s *Service) SendMessage(c *gin.Context) {
	callerID := auth.CallerID(c)
	peerID := c.Param("peer")
	ctx := c.Request.Context()

	var payload sendPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		svcErr.Respond(c, svcErr.Validation("malformed message payload"))
		return
	}
	content := strings.TrimSpace(payload.Content)
	if content == "" {
		svcErr.Respond(c, svcErr.Validation("message content must not be empty"))
		return
	}
	if len(content) > maxContentLen {
		svcErr.Respond(c, svcErr.Validationf("message content exceeds %d bytes", maxContentLen))
		return
	}
	if peerID == callerID {
		svcErr.Respond(c, svcErr.Validation("cannot message yourself"))
		return
	}

	if exists, err := s.profileRepo.Exists(ctx, peerID); err != nil {
		svcErr.Respond(c, err)
		return
	} else if !exists {
		svcErr.Respond(c, svcErr.NotFound("recipient not found"))
		return
	}

	msg, err := s.messageRepo.AppendIfMatched(ctx, callerID, peerID, content)
	switch {
	case errors.Is(err, repository.ErrPairBlocked):
		svcErr.Respond(c, svcErr.NotAuthorized("conversation unavailable"))
		return
	case errors.Is(err, repository.ErrNoMatch):
		svcErr.Respond(c, svcErr.Precondition("no active match with recipient"))
		return
	case err != nil:
		s.appCtx.Logger.Error("message append failed", "sender", callerID, "err", err)
		svcErr.Respond(c, err)
		return
	}

	_ = s.appCtx.RedisCache.InvalidateUnreadCount(ctx, peerID, callerID)

	c.JSON(http.StatusCreated, msg)
}

// GetConversation returns the ordered message sequence between the caller
// and peer. History persists past match severance; only a block hides it.
//
// Without parameters the full history is returned oldest-first. With
// ?limit=N (and an optional ?token from a previous page) it returns one
// newest-first page plus a token for older history.
func (s *Service) GetConversation(c *gin.Context) {
	callerID := auth.CallerID(c)
	peerID := c.Param("peer")
	ctx := c.Request.Context()

	blocked, err := s.blockRepo.ExistsBetween(ctx, callerID, peerID)
	if err != nil {
		svcErr.Respond(c, err)
		return
	}
	if blocked {
		svcErr.Respond(c, svcErr.NotAuthorized("conversation unavailable"))
		return
	}

	if raw := c.Query("limit"); raw != "" {
		limit, convErr := strconv.Atoi(raw)
		if convErr != nil || limit <= 0 {
			svcErr.Respond(c, svcErr.Validation("limit must be a positive integer"))
			return
		}
		var token *string
		if t := c.Query("token"); t != "" {
			token = &t
		}
		messages, nextToken, pageErr := s.messageRepo.ListConversationPage(ctx, callerID, peerID, token, limit)
		if pageErr != nil {
			svcErr.Respond(c, svcErr.Validation("invalid pagination token"))
			return
		}
		resp := gin.H{"messages": messages}
		if nextToken != nil {
			resp["nextPaginationToken"] = *nextToken
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	messages, err := s.messageRepo.ListConversation(ctx, callerID, peerID)
	if err != nil {
		svcErr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// MarkConversationAsRead advances the caller's read marker for peer to a
// value at least as large as the newest visible message, so the derived
// unread count is zero immediately afterward.
func (s *Service) MarkConversationAsRead(c *gin.Context) {
	callerID := auth.CallerID(c)
	peerID := c.Param("peer")
	ctx := c.Request.Context()

	blocked, err := s.blockRepo.ExistsBetween(ctx, callerID, peerID)
	if err != nil {
		svcErr.Respond(c, err)
		return
	}
	if blocked {
		svcErr.Respond(c, svcErr.NotAuthorized("conversation unavailable"))
		return
	}

	matched, err := s.matchRepo.ExistsForPair(ctx, callerID, peerID)
	if err != nil {
		svcErr.Respond(c, err)
		return
	}
	if !matched {
		hasHistory, histErr := s.messageRepo.HasHistory(ctx, callerID, peerID)
		if histErr != nil {
			svcErr.Respond(c, histErr)
			return
		}
		if !hasHistory {
			svcErr.Respond(c, svcErr.Precondition("no conversation with peer"))
			return
		}
	}

	ts := time.Now().UTC()
	last, err := s.messageRepo.LastMessage(ctx, callerID, peerID)
	if err != nil {
		svcErr.Respond(c, err)
		return
	}
	if last != nil && last.SentAt.After(ts) {
		ts = last.SentAt
	}

	if err := s.messageRepo.AdvanceMarker(ctx, callerID, peerID, ts); err != nil {
		svcErr.Respond(c, err)
		return
	}
	_ = s.appCtx.RedisCache.SetUnreadCount(ctx, callerID, peerID, 0)

	c.Status(http.StatusNoContent)
}

// Unread exposes the derived unread counter to other services (match
// listings enrich profiles with it).
func (s *Service) Unread() *UnreadCounter { return s.unread }
