package profile

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/kindlingapp/kindling-engine/internal/app"
	"github.com/kindlingapp/kindling-engine/internal/auth"
	"github.com/kindlingapp/kindling-engine/internal/db"
	svcErr "github.com/kindlingapp/kindling-engine/internal/errors"
	"github.com/kindlingapp/kindling-engine/internal/repository"
)

const maxPhotos = 5

// Service implements the profile store API: the caller's own profile
// upsert/read plus block-aware reads of other users' profiles.
type Service struct {
	appCtx      *app.AppContext
	profileRepo *repository.ProfileRepository
	blockRepo   *repository.BlockRepository
	validate    *validator.Validate
}

// NewProfileService creates a new profile service with dependencies from AppContext.
func NewProfileService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		profileRepo: repository.NewProfileRepository(appCtx.DB),
		blockRepo:   repository.NewBlockRepository(appCtx.DB),
		validate:    validator.New(),
	}
}

// savePayload is the wire shape of saveCallerUserProfile.
type savePayload struct {
	DisplayName      string    `json:"displayName" validate:"required,max=64"`
	Age              int       `json:"age" validate:"gte=18,lte=120"`
	Gender           db.Gender `json:"gender"`
	InterestedIn     db.Gender `json:"interestedIn"`
	Location         string    `json:"location" validate:"max=128"`
	Bio              string    `json:"bio"`
	Interests        []string  `json:"interests"`
	PhotoURLs        []string  `json:"photoUrls"`
	IsActive         bool      `json:"isActive"`
	HasAgreedToTerms bool      `json:"hasAgreedToTerms"`
}

// SaveCallerProfile upserts the caller's profile.
//
// Behavior:
//   - age must be >= 18, at most 5 photo URLs, display name required
//   - first save creates the row, every later save replaces it
//   - timestamps are refreshed by the storage layer
func (s *Service) SaveCallerProfile(c *gin.Context) {
	callerID := auth.CallerID(c)

	var payload savePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		svcErr.Respond(c, svcErr.Validation("malformed profile payload"))
		return
	}
	if err := s.validate.Struct(&payload); err != nil {
		svcErr.Respond(c, svcErr.Validationf("invalid profile: %v", err))
		return
	}
	if !payload.Gender.Valid() {
		svcErr.Respond(c, svcErr.Validation("invalid gender"))
		return
	}
	if !payload.InterestedIn.Valid() {
		svcErr.Respond(c, svcErr.Validation("invalid interestedIn"))
		return
	}
	if len(payload.PhotoURLs) > maxPhotos {
		svcErr.Respond(c, svcErr.Validationf("at most %d photos allowed", maxPhotos))
		return
	}

	profile := &db.Profile{
		UserID:        callerID,
		DisplayName:   payload.DisplayName,
		Age:           payload.Age,
		Gender:        payload.Gender,
		InterestedIn:  payload.InterestedIn,
		Location:      payload.Location,
		Bio:           payload.Bio,
		Interests:     payload.Interests,
		PhotoURLs:     payload.PhotoURLs,
		Active:        payload.IsActive,
		AgreedToTerms: payload.HasAgreedToTerms,
	}

	if err := s.profileRepo.Upsert(c.Request.Context(), profile); err != nil {
		s.appCtx.Logger.Error("profile upsert failed", "caller", callerID, "err", err)
		svcErr.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetCallerProfile returns the caller's profile, or a JSON null when the
// caller has none yet. Absence is a value, not an error, so the client can
// route into onboarding.
func (s *Service) GetCallerProfile(c *gin.Context) {
	callerID := auth.CallerID(c)

	profile, err := s.profileRepo.Get(c.Request.Context(), callerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusOK, nil)
		return
	}
	if err != nil {
		svcErr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetUserProfile reads another user's profile, subject to block
// visibility: a blocked relationship hides the profile entirely, in both
// directions, indistinguishable from absence.
func (s *Service) GetUserProfile(c *gin.Context) {
	callerID := auth.CallerID(c)
	targetID := c.Param("id")

	if targetID != callerID {
		blocked, err := s.blockRepo.ExistsBetween(c.Request.Context(), callerID, targetID)
		if err != nil {
			svcErr.Respond(c, err)
			return
		}
		if blocked {
			svcErr.Respond(c, svcErr.NotFound("profile not found"))
			return
		}
	}

	profile, err := s.profileRepo.Get(c.Request.Context(), targetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		svcErr.Respond(c, svcErr.NotFound("profile not found"))
		return
	}
	if err != nil {
		svcErr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
