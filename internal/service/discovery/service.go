package discovery

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kindlingapp/kindling-engine/internal/app"
	"github.com/kindlingapp/kindling-engine/internal/auth"
	"github.com/kindlingapp/kindling-engine/internal/db"
	svcErr "github.com/kindlingapp/kindling-engine/internal/errors"
	"github.com/kindlingapp/kindling-engine/internal/repository"
)

// Service implements the recommendation engine API.
type Service struct {
	appCtx      *app.AppContext
	profileRepo *repository.ProfileRepository
}

// NewDiscoveryService creates a new discovery service with dependencies from AppContext.
func NewDiscoveryService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		profileRepo: repository.NewProfileRepository(appCtx.DB),
	}
}

// GetRecommendedProfiles returns the caller's current candidate set.
//
// All filters are optional query parameters:
//
//	ageMin, ageMax: inclusive integer bounds
//	gender:         exact variant, "male", "female" or "other:<label>"
//	interestedIn:   same encoding
//	interests:      comma-separated tags, candidates need a non-empty
//	                intersection
//
// The result is a value, not a cursor: every call reflects the latest
// state, including interactions issued since the previous call.
func (s *Service) GetRecommendedProfiles(c *gin.Context) {
	callerID := auth.CallerID(c)

	filter, err := parseFilter(c)
	if err != nil {
		svcErr.Respond(c, err)
		return
	}

	profiles, err := s.profileRepo.ListCandidates(c.Request.Context(), callerID, filter)
	if err != nil {
		s.appCtx.Logger.Error("ListCandidates failed", "caller", callerID, "err", err)
		svcErr.Respond(c, err)
		return
	}

	s.appCtx.Logger.Debug("recommendations computed", "caller", callerID, "count", len(profiles))
	c.JSON(http.StatusOK, profiles)
}

func parseFilter(c *gin.Context) (repository.CandidateFilter, error) {
	var filter repository.CandidateFilter

	if raw := c.Query("ageMin"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return filter, svcErr.Validation("ageMin must be an integer")
		}
		filter.AgeMin = &n
	}
	if raw := c.Query("ageMax"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return filter, svcErr.Validation("ageMax must be an integer")
		}
		filter.AgeMax = &n
	}
	if filter.AgeMin != nil && filter.AgeMax != nil && *filter.AgeMin > *filter.AgeMax {
		return filter, svcErr.Validation("ageMin must not exceed ageMax")
	}

	if raw := c.Query("gender"); raw != "" {
		g, err := db.ParseGender(raw)
		if err != nil {
			return filter, svcErr.Validation("invalid gender filter")
		}
		filter.Gender = &g
	}
	if raw := c.Query("interestedIn"); raw != "" {
		g, err := db.ParseGender(raw)
		if err != nil {
			return filter, svcErr.Validation("invalid interestedIn filter")
		}
		filter.InterestedIn = &g
	}

	if raw := c.Query("interests"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				filter.InterestTags = append(filter.InterestTags, tag)
			}
		}
	}

	return filter, nil
}
