package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"focusdraw/internal/middleware"
	"focusdraw/internal/model"
	"focusdraw/internal/service"
	"focusdraw/pkg/auth"
	"focusdraw/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type boostRoutes struct {
	bs service.BoostServiceI
}

func NewBoostRoutes(handler *gin.RouterGroup, bs service.BoostServiceI, a *auth.SubjectAuth, authz *middleware.Authorization) {
	r := &boostRoutes{bs: bs}
	h := handler.Group("/boosts")
	h.Use(a.Middleware())
	h.Use(authz.ParentOnly())
	{
		h.POST("/:child_uid", r.Grant)
		h.GET("/:child_uid", r.History)
		h.GET("/:child_uid/remaining", r.Remaining)
	}
}

type GrantBoostRequest struct {
	Count int    `json:"count"`
	Note  string `json:"note"`
}

func (r *boostRoutes) Grant(c *gin.Context) {
	log := logger.Logger()

	parentUID, _ := auth.Subject(c)
	childUID := c.Param("child_uid")

	var req GrantBoostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	boost, err := r.bs.Grant(c.Request.Context(), parentUID, childUID, req.Count, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "count must be between 1 and 3"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "child not found"})
		case errors.Is(err, service.ErrNotLinked):
			c.JSON(http.StatusForbidden, gin.H{"error": "child is not linked to this parent"})
		case errors.Is(err, service.ErrWeeklyBoostLimit):
			c.JSON(http.StatusForbidden, gin.H{"error": "weekly boost limit reached"})
		default:
			log.Error("failed to grant boost", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to grant boost"})
		}
		return
	}

	c.JSON(http.StatusCreated, boostResponse(boost))
}

func (r *boostRoutes) History(c *gin.Context) {
	log := logger.Logger()

	parentUID, _ := auth.Subject(c)
	childUID := c.Param("child_uid")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	boosts, err := r.bs.History(c.Request.Context(), parentUID, childUID, limit)
	if err != nil {
		log.Error("failed to list boosts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list boosts"})
		return
	}

	out := make([]gin.H, len(boosts))
	for i, b := range boosts {
		out[i] = boostResponse(b)
	}

	c.JSON(http.StatusOK, out)
}

func (r *boostRoutes) Remaining(c *gin.Context) {
	log := logger.Logger()

	parentUID, _ := auth.Subject(c)
	childUID := c.Param("child_uid")

	used, err := r.bs.CountThisWeek(c.Request.Context(), parentUID, childUID)
	if err != nil {
		log.Error("failed to count boosts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count boosts"})
		return
	}

	remaining := model.MaxBoostsPerWeek - used
	if remaining < 0 {
		remaining = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"used_this_week": used,
		"remaining":      remaining,
	})
}

func boostResponse(b *model.ParentBoost) gin.H {
	return gin.H{
		"id":         b.ID,
		"child_uid":  b.ChildUID,
		"count":      b.Count,
		"note":       b.Note,
		"date":       b.Date,
		"created_at": b.CreatedAt.Format(time.RFC3339),
	}
}
