package api

import (
	"errors"
	"net/http"
	"time"

	"focusdraw/internal/model"
	"focusdraw/internal/service"
	"focusdraw/pkg/auth"
	"focusdraw/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type studentRoutes struct {
	ss service.StudentServiceI
	is service.InviteServiceI
}

func NewStudentRoutes(handler *gin.RouterGroup, ss service.StudentServiceI, is service.InviteServiceI, a *auth.SubjectAuth) {
	r := &studentRoutes{ss: ss, is: is}
	h := handler.Group("/students")
	h.Use(a.Middleware())
	{
		h.POST("/", r.Register)
		h.GET("/me", r.GetProfile)
		h.PATCH("/me/appearance", r.UpdateAppearance)
		h.POST("/me/checkins", r.CheckIn)
		h.GET("/me/checkins/today", r.TodayCheckIn)
		h.POST("/me/invites/redeem", r.RedeemInvite)
	}
}

type RegisterStudentRequest struct {
	DisplayName string `json:"display_name"`
	AvatarID    string `json:"avatar_id"`
}

func (r *studentRoutes) Register(c *gin.Context) {
	log := logger.Logger()

	uid, ok := auth.Subject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req RegisterStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	profile, err := r.ss.Register(c.Request.Context(), uid, req.DisplayName, req.AvatarID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAvatar) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown avatar"})
			return
		}
		log.Error("failed to register student", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register student"})
		return
	}

	c.JSON(http.StatusCreated, studentProfileResponse(profile))
}

func (r *studentRoutes) GetProfile(c *gin.Context) {
	log := logger.Logger()

	uid, ok := auth.Subject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	profile, err := r.ss.Get(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
			return
		}
		log.Error("failed to get student", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get student"})
		return
	}

	c.JSON(http.StatusOK, studentProfileResponse(profile))
}

type UpdateAppearanceRequest struct {
	DisplayName string `json:"display_name"`
	AvatarID    string `json:"avatar_id"`
}

func (r *studentRoutes) UpdateAppearance(c *gin.Context) {
	log := logger.Logger()

	uid, ok := auth.Subject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req UpdateAppearanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	profile, err := r.ss.UpdateAppearance(c.Request.Context(), uid, req.DisplayName, req.AvatarID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		case errors.Is(err, service.ErrInvalidAvatar):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown avatar"})
		default:
			log.Error("failed to update appearance", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update appearance"})
		}
		return
	}

	c.JSON(http.StatusOK, studentProfileResponse(profile))
}

type CheckInRequest struct {
	Mood int `json:"mood"`
}

func (r *studentRoutes) CheckIn(c *gin.Context) {
	log := logger.Logger()

	uid, ok := auth.Subject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	checkIn, err := r.ss.CheckIn(c.Request.Context(), uid, req.Mood)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		case errors.Is(err, service.ErrInvalidMood):
			c.JSON(http.StatusBadRequest, gin.H{"error": "mood must be between 1 and 5"})
		default:
			log.Error("failed to record check-in", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record check-in"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"date": checkIn.Date,
		"mood": checkIn.Mood,
	})
}

func (r *studentRoutes) TodayCheckIn(c *gin.Context) {
	log := logger.Logger()

	uid, ok := auth.Subject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	checkIn, err := r.ss.TodayCheckIn(c.Request.Context(), uid)
	if err != nil {
		log.Error("failed to get check-in", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get check-in"})
		return
	}

	if checkIn == nil {
		c.JSON(http.StatusOK, gin.H{"checked_in": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"checked_in": true,
		"date":       checkIn.Date,
		"mood":       checkIn.Mood,
	})
}

type RedeemInviteRequest struct {
	Code string `json:"code"`
}

func (r *studentRoutes) RedeemInvite(c *gin.Context) {
	log := logger.Logger()

	uid, ok := auth.Subject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req RedeemInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	invite, err := r.is.Redeem(c.Request.Context(), uid, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCodeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "invite code not found"})
		case errors.Is(err, service.ErrCodeAlreadyUsed):
			c.JSON(http.StatusConflict, gin.H{"error": "invite code already used"})
		case errors.Is(err, service.ErrCodeExpired):
			c.JSON(http.StatusGone, gin.H{"error": "invite code expired"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		default:
			log.Error("failed to redeem invite code", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to redeem invite code"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":       invite.Code,
		"parent_uid": invite.ParentUID,
		"used_at":    invite.UsedAt.Format(time.RFC3339),
	})
}

func studentProfileResponse(p *model.StudentProfile) gin.H {
	return gin.H{
		"uid":                  p.UID,
		"display_name":         p.DisplayName,
		"avatar_id":            p.AvatarID,
		"total_entries":        p.TotalEntries,
		"current_week_entries": p.CurrentWeekEntries,
		"current_streak":       p.CurrentStreak,
		"longest_streak":       p.LongestStreak,
		"total_focus_minutes":  p.TotalFocusMinutes,
		"last_active_date":     p.LastActiveDate,
		"parent_uid":           p.ParentUID,
	}
}
