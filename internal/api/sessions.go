package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"focusdraw/internal/model"
	"focusdraw/internal/service"
	"focusdraw/pkg/auth"
	"focusdraw/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type sessionRoutes struct {
	ss service.SessionServiceI
}

func NewSessionRoutes(handler *gin.RouterGroup, ss service.SessionServiceI, a *auth.SubjectAuth) {
	r := &sessionRoutes{ss: ss}
	h := handler.Group("/sessions")
	h.Use(a.Middleware())
	{
		h.POST("/", r.Record)
		h.GET("/today", r.Today)
		h.GET("/recent", r.Recent)
	}
}

type RecordSessionRequest struct {
	DurationMinutes int     `json:"duration_minutes"`
	Quality         string  `json:"quality"`
	QuestID         *string `json:"quest_id"`
}

func (r *sessionRoutes) Record(c *gin.Context) {
	log := logger.Logger()

	uid, ok := auth.Subject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req RecordSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	session, err := r.ss.Record(c.Request.Context(), uid, req.DurationMinutes,
		model.FocusQuality(req.Quality), req.QuestID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDuration):
			c.JSON(http.StatusBadRequest, gin.H{"error": "duration must be 25 or 50 minutes"})
		case errors.Is(err, service.ErrInvalidQuality):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown focus quality"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		case errors.Is(err, service.ErrDailyLimitReached):
			c.JSON(http.StatusForbidden, gin.H{"error": "daily session limit reached"})
		default:
			log.Error("failed to record session", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record session"})
		}
		return
	}

	c.JSON(http.StatusCreated, sessionResponse(session))
}

func (r *sessionRoutes) Today(c *gin.Context) {
	log := logger.Logger()

	uid, ok := auth.Subject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sessions, err := r.ss.TodaySessions(c.Request.Context(), uid)
	if err != nil {
		log.Error("failed to list today's sessions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sessions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions":  sessionListResponse(sessions),
		"remaining": remainingSessions(len(sessions)),
	})
}

func (r *sessionRoutes) Recent(c *gin.Context) {
	log := logger.Logger()

	uid, ok := auth.Subject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	sessions, err := r.ss.RecentSessions(c.Request.Context(), uid, limit)
	if err != nil {
		log.Error("failed to list recent sessions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sessions"})
		return
	}

	c.JSON(http.StatusOK, sessionListResponse(sessions))
}

func remainingSessions(recorded int) int {
	remaining := service.MaxSessionsPerDay - recorded
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

func sessionResponse(s *model.FocusSession) gin.H {
	return gin.H{
		"id":               s.ID,
		"date":             s.Date,
		"duration_minutes": s.DurationMinutes,
		"quality":          s.Quality,
		"entries_earned":   s.EntriesEarned,
		"quest_id":         s.QuestID,
		"completed_at":     s.CompletedAt.Format(time.RFC3339),
	}
}

func sessionListResponse(sessions []*model.FocusSession) []gin.H {
	out := make([]gin.H, len(sessions))
	for i, s := range sessions {
		out[i] = sessionResponse(s)
	}
	return out
}
