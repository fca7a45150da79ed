package api

import (
	"errors"
	"net/http"

	"focusdraw/internal/model"
	"focusdraw/internal/service"
	"focusdraw/pkg/auth"
	"focusdraw/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type questRoutes struct {
	qs service.QuestServiceI
}

func NewQuestRoutes(handler *gin.RouterGroup, qs service.QuestServiceI, a *auth.SubjectAuth) {
	r := &questRoutes{qs: qs}
	h := handler.Group("/quests")
	h.Use(a.Middleware())
	{
		h.GET("/catalog", r.Catalog)
		h.POST("/today", r.Choose)
		h.GET("/today", r.Today)
		h.POST("/today/:quest_id/complete", r.Complete)
	}
}

func (r *questRoutes) Catalog(c *gin.Context) {
	log := logger.Logger()

	quests, err := r.qs.Catalog(c.Request.Context())
	if err != nil {
		log.Error("failed to list quest catalog", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list quest catalog"})
		return
	}

	out := make([]gin.H, len(quests))
	for i, q := range quests {
		out[i] = gin.H{
			"id":               q.ID,
			"title":            q.Title,
			"description":      q.Description,
			"category":         q.Category,
			"duration_minutes": q.DurationMinutes,
			"emoji":            q.Emoji,
		}
	}

	c.JSON(http.StatusOK, out)
}

type ChooseQuestsRequest struct {
	QuestIDs []string `json:"quest_ids"`
}

func (r *questRoutes) Choose(c *gin.Context) {
	log := logger.Logger()

	uid, ok := auth.Subject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req ChooseQuestsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	assignment, err := r.qs.ChooseQuests(c.Request.Context(), uid, req.QuestIDs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptySelection):
			c.JSON(http.StatusBadRequest, gin.H{"error": "quest selection is empty"})
		case errors.Is(err, service.ErrTooManyQuests):
			c.JSON(http.StatusBadRequest, gin.H{"error": "a daily selection holds at most 3 quests"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		case errors.Is(err, service.ErrSelectionLocked):
			c.JSON(http.StatusConflict, gin.H{"error": "today's quest selection is already locked"})
		default:
			log.Error("failed to choose quests", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to choose quests"})
		}
		return
	}

	c.JSON(http.StatusCreated, assignmentResponse(assignment))
}

func (r *questRoutes) Today(c *gin.Context) {
	log := logger.Logger()

	uid, ok := auth.Subject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	assignment, err := r.qs.TodayAssignment(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, service.ErrNoAssignment) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no quest assignment for today"})
			return
		}
		log.Error("failed to get quest assignment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get quest assignment"})
		return
	}

	c.JSON(http.StatusOK, assignmentResponse(assignment))
}

func (r *questRoutes) Complete(c *gin.Context) {
	log := logger.Logger()

	uid, ok := auth.Subject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	questID := c.Param("quest_id")

	if err := r.qs.CompleteQuest(c.Request.Context(), uid, questID); err != nil {
		log.Error("failed to complete quest", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete quest"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"quest_id": questID})
}

func assignmentResponse(a *model.DailyQuestAssignment) gin.H {
	return gin.H{
		"date":                a.Date,
		"quest_ids":           a.QuestIDs,
		"completed_quest_ids": a.CompletedQuestIDs,
	}
}
