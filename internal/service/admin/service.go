package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kindlingapp/kindling-engine/internal/app"
	"github.com/kindlingapp/kindling-engine/internal/auth"
	svcErr "github.com/kindlingapp/kindling-engine/internal/errors"
	"github.com/kindlingapp/kindling-engine/internal/repository"
)

// Service implements the role surface and the admin-only moderation views.
type Service struct {
	appCtx     *app.AppContext
	reportRepo *repository.ReportRepository
	roleRepo   *repository.RoleRepository
}

// NewAdminService creates a new admin service with dependencies from AppContext.
func NewAdminService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:     appCtx,
		reportRepo: repository.NewReportRepository(appCtx.DB),
		roleRepo:   repository.NewRoleRepository(appCtx.DB),
	}
}

// GetReports returns the full moderation log. Admin-only by route gate.
func (s *Service) GetReports(c *gin.Context) {
	reports, err := s.reportRepo.ListAll(c.Request.Context())
	if err != nil {
		svcErr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

type assignRolePayload struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// AssignRole elevates or demotes any identity, the caller included. An
// admin demoting themselves is allowed; recovery goes through the
// bootstrap admin.
func (s *Service) AssignRole(c *gin.Context) {
	var payload assignRolePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		svcErr.Respond(c, svcErr.Validation("malformed role payload"))
		return
	}
	if payload.UserID == "" {
		svcErr.Respond(c, svcErr.Validation("userId is required"))
		return
	}
	if !auth.ValidRole(payload.Role) {
		svcErr.Respond(c, svcErr.Validationf("unknown role %q", payload.Role))
		return
	}

	if err := s.roleRepo.Assign(c.Request.Context(), payload.UserID, payload.Role); err != nil {
		svcErr.Respond(c, err)
		return
	}

	s.appCtx.Logger.Info("role assigned",
		"admin", auth.CallerID(c), "user", payload.UserID, "role", payload.Role)
	c.Status(http.StatusNoContent)
}

// GetCallerRole returns the caller's resolved role.
func (s *Service) GetCallerRole(c *gin.Context) {
	role, err := auth.ResolveRole(c.Request.Context(), s.appCtx, auth.CallerID(c))
	if err != nil {
		svcErr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": role})
}

// IsCallerAdmin reports whether the caller resolves to admin.
func (s *Service) IsCallerAdmin(c *gin.Context) {
	role, err := auth.ResolveRole(c.Request.Context(), s.appCtx, auth.CallerID(c))
	if err != nil {
		svcErr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isAdmin": role == auth.RoleAdmin})
}
