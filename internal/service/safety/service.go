package safety

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kindlingapp/kindling-engine/internal/app"
	"github.com/kindlingapp/kindling-engine/internal/auth"
	svcErr "github.com/kindlingapp/kindling-engine/internal/errors"
	"github.com/kindlingapp/kindling-engine/internal/repository"
)

// Report reason codes, the only accepted values.
var validReasons = map[string]struct{}{
	"inappropriate_content": {},
	"harassment":            {},
	"spam":                  {},
	"fake_profile":          {},
	"other":                 {},
}

const maxNoteLen = 2000

// Service implements the safety surface: blocking and reporting.
type Service struct {
	appCtx      *app.AppContext
	blockRepo   *repository.BlockRepository
	reportRepo  *repository.ReportRepository
	profileRepo *repository.ProfileRepository
}

// NewSafetyService creates a new safety service with dependencies from AppContext.
func NewSafetyService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		blockRepo:   repository.NewBlockRepository(appCtx.DB),
		reportRepo:  repository.NewReportRepository(appCtx.DB),
		profileRepo: repository.NewProfileRepository(appCtx.DB),
	}
}

// BlockUser records the directed block and atomically severs any match
// between the pair. The stored direction is audit data only; every
// visibility check treats the block as symmetric. Blocks are append-only:
// there is no unblock.
func (s *Service) BlockUser(c *gin.Context) {
	callerID := auth.CallerID(c)
	targetID := c.Param("id")
	ctx := c.Request.Context()

	if err := s.checkTarget(ctx, callerID, targetID); err != nil {
		svcErr.Respond(c, err)
		return
	}

	if err := s.blockRepo.BlockAndSever(ctx, callerID, targetID); err != nil {
		s.appCtx.Logger.Error("block failed", "blocker", callerID, "err", err)
		svcErr.Respond(c, err)
		return
	}

	// Both unread caches are stale now that the conversation is hidden.
	_ = s.appCtx.RedisCache.InvalidateUnreadCount(ctx, callerID, targetID)
	_ = s.appCtx.RedisCache.InvalidateUnreadCount(ctx, targetID, callerID)

	s.appCtx.Logger.Info("user blocked", "blocker", callerID, "blocked", targetID)
	c.Status(http.StatusNoContent)
}

type blockedEntry struct {
	UserID    string `json:"userId"`
	BlockedAt int64  `json:"blockedAt"`
}

// GetBlockedUsers returns only the identities the caller itself blocked.
func (s *Service) GetBlockedUsers(c *gin.Context) {
	callerID := auth.CallerID(c)

	blocks, err := s.blockRepo.ListBlocked(c.Request.Context(), callerID)
	if err != nil {
		svcErr.Respond(c, err)
		return
	}

	entries := make([]blockedEntry, 0, len(blocks))
	for _, b := range blocks {
		entries = append(entries, blockedEntry{
			UserID:    b.BlockedID,
			BlockedAt: b.CreatedAt.UnixMilli(),
		})
	}
	c.JSON(http.StatusOK, entries)
}

type reportPayload struct {
	Reason string `json:"reason"`
	Note   string `json:"note"`
}

// ReportUser appends one report to the moderation log. No automated
// consequence follows; reports feed a human process.
func (s *Service) ReportUser(c *gin.Context) {
	callerID := auth.CallerID(c)
	targetID := c.Param("id")
	ctx := c.Request.Context()

	var payload reportPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		svcErr.Respond(c, svcErr.Validation("malformed report payload"))
		return
	}
	if _, ok := validReasons[payload.Reason]; !ok {
		svcErr.Respond(c, svcErr.Validationf("unknown reason code %q", payload.Reason))
		return
	}
	note := strings.TrimSpace(payload.Note)
	if len(note) > maxNoteLen {
		svcErr.Respond(c, svcErr.Validationf("note exceeds %d bytes", maxNoteLen))
		return
	}

	if err := s.checkTarget(ctx, callerID, targetID); err != nil {
		svcErr.Respond(c, err)
		return
	}

	if err := s.reportRepo.Append(ctx, callerID, targetID, payload.Reason, note); err != nil {
		svcErr.Respond(c, err)
		return
	}

	s.appCtx.Logger.Info("user reported", "reporter", callerID, "reported", targetID, "reason", payload.Reason)
	c.Status(http.StatusNoContent)
}

func (s *Service) checkTarget(ctx context.Context, callerID, targetID string) error {
	if targetID == callerID {
		return svcErr.Validation("cannot target yourself")
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
