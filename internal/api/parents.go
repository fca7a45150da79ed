package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"focusdraw/internal/middleware"
	"focusdraw/internal/service"
	"focusdraw/pkg/auth"
	"focusdraw/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type parentRoutes struct {
	ps service.ParentServiceI
}

func NewParentRoutes(handler *gin.RouterGroup, ps service.ParentServiceI, a *auth.SubjectAuth, authz *middleware.Authorization) {
	r := &parentRoutes{ps: ps}
	h := handler.Group("/parents")
	h.Use(a.Middleware())
	{
		h.POST("/", r.Register)

		guarded := h.Group("")
		guarded.Use(authz.ParentOnly())
		{
			guarded.GET("/me", r.GetProfile)
			guarded.GET("/me/children", r.Children)
			guarded.GET("/me/children/:child_uid", r.Child)
			guarded.GET("/me/children/:child_uid/sessions", r.ChildSessions)
			guarded.GET("/me/children/:child_uid/sessions/weekly", r.ChildWeeklySessions)
			guarded.GET("/me/children/:child_uid/entries", r.ChildEntries)
		}
	}
}

type RegisterParentRequest struct {
	DisplayName string `json:"display_name"`
}

func (r *parentRoutes) Register(c *gin.Context) {
	log := logger.Logger()

	uid, ok := auth.Subject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req RegisterParentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	profile, err := r.ps.Register(c.Request.Context(), uid, req.DisplayName)
	if err != nil {
		log.Error("failed to register parent", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register parent"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"uid":          profile.UID,
		"display_name": profile.DisplayName,
		"plan":         profile.Plan,
	})
}

func (r *parentRoutes) GetProfile(c *gin.Context) {
	log := logger.Logger()

	uid, _ := auth.Subject(c)

	profile, err := r.ps.Get(c.Request.Context(), uid)
	if err != nil {
		log.Error("failed to get parent", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get parent"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uid":                   profile.UID,
		"display_name":          profile.DisplayName,
		"plan":                  profile.Plan,
		"notifications_enabled": profile.NotificationsEnabled,
		"weekly_report_enabled": profile.WeeklyReportEnabled,
	})
}

func (r *parentRoutes) Children(c *gin.Context) {
	log := logger.Logger()

	uid, _ := auth.Subject(c)

	links, err := r.ps.Children(c.Request.Context(), uid)
	if err != nil {
		log.Error("failed to list children", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list children"})
		return
	}

	out := make([]gin.H, len(links))
	for i, link := range links {
		out[i] = gin.H{
			"child_uid":    link.ChildUID,
			"display_name": link.ChildDisplayName,
			"avatar_id":    link.ChildAvatarID,
			"linked_at":    link.LinkedAt.Format(time.RFC3339),
		}
	}

	c.JSON(http.StatusOK, out)
}

func (r *parentRoutes) Child(c *gin.Context) {
	log := logger.Logger()

	uid, _ := auth.Subject(c)
	childUID := c.Param("child_uid")

	child, err := r.ps.Child(c.Request.Context(), uid, childUID)
	if err != nil {
		r.respondChildError(c, log, err, "failed to get child")
		return
	}

	c.JSON(http.StatusOK, studentProfileResponse(child))
}

func (r *parentRoutes) ChildSessions(c *gin.Context) {
	log := logger.Logger()

	uid, _ := auth.Subject(c)
	childUID := c.Param("child_uid")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	sessions, err := r.ps.ChildRecentSessions(c.Request.Context(), uid, childUID, limit)
	if err != nil {
		r.respondChildError(c, log, err, "failed to list child sessions")
		return
	}

	c.JSON(http.StatusOK, sessionListResponse(sessions))
}

func (r *parentRoutes) ChildWeeklySessions(c *gin.Context) {
	log := logger.Logger()

	uid, _ := auth.Subject(c)
	childUID := c.Param("child_uid")

	stats, err := r.ps.ChildWeeklySessions(c.Request.Context(), uid, childUID)
	if err != nil {
		r.respondChildError(c, log, err, "failed to build weekly chart")
		return
	}

	out := make([]gin.H, len(stats))
	for i, stat := range stats {
		out[i] = gin.H{
			"date":          stat.Date,
			"sessions":      stat.Sessions,
			"focus_minutes": stat.FocusMinutes,
		}
	}

	c.JSON(http.StatusOK, out)
}

func (r *parentRoutes) ChildEntries(c *gin.Context) {
	log := logger.Logger()

	uid, _ := auth.Subject(c)
	childUID := c.Param("child_uid")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	entries, err := r.ps.ChildEntries(c.Request.Context(), uid, childUID, limit)
	if err != nil {
		r.respondChildError(c, log, err, "failed to list child entries")
		return
	}

	c.JSON(http.StatusOK, entryListResponse(entries))
}

func (r *parentRoutes) respondChildError(c *gin.Context, log *zap.Logger, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "child not found"})
	case errors.Is(err, service.ErrNotLinked):
		c.JSON(http.StatusForbidden, gin.H{"error": "child is not linked to this parent"})
	default:
		log.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
