package api

import (
	"net/http"
	"time"

	"focusdraw/internal/middleware"
	"focusdraw/internal/service"
	"focusdraw/pkg/auth"
	"focusdraw/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type inviteRoutes struct {
	is service.InviteServiceI
}

// NewInviteRoutes wires the parent side of the invite flow. Redemption lives
// on the student surface.
func NewInviteRoutes(handler *gin.RouterGroup, is service.InviteServiceI, a *auth.SubjectAuth, authz *middleware.Authorization) {
	r := &inviteRoutes{is: is}
	h := handler.Group("/invites")
	h.Use(a.Middleware())
	h.Use(authz.ParentOnly())
	{
		h.POST("/", r.Issue)
	}
}

func (r *inviteRoutes) Issue(c *gin.Context) {
	log := logger.Logger()

	parentUID, _ := auth.Subject(c)

	invite, err := r.is.Issue(c.Request.Context(), parentUID)
	if err != nil {
		log.Error("failed to issue invite code", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue invite code"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":       invite.Code,
		"expires_at": invite.ExpiresAt.Format(time.RFC3339),
	})
}
