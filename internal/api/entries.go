package api

import (
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

type entryRoutes struct {
	es service.EntryLedgerServiceI
}

func NewEntryRoutes(handler *gin.RouterGroup, es service.EntryLedgerServiceI, a *auth.SubjectAuth) {
	r := &entryRoutes{es: es}
	h := handler.Group("/entries")
	h.Use(a.Middleware())
	{
		h.GET("/", r.History)
		h.GET("/weekly", r.WeeklyTotal)
	}
}

func (r *entryRoutes) History(c *gin.Context) {
	log := logger.Logger()

	uid, ok := auth.Subject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	entries, err := r.es.History(c.Request.Context(), uid, limit)
	if err != nil {
		log.Error("failed to get entry history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get entry history"})
		return
	}

	c.JSON(http.StatusOK, entryListResponse(entries))
}

func (r *entryRoutes) WeeklyTotal(c *gin.Context) {
	log := logger.Logger()

	uid, ok := auth.Subject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	total, err := r.es.WeeklyTotal(c.Request.Context(), uid)
	if err != nil {
		log.Error("failed to get weekly total", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get weekly total"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"weekly_entries": total})
}

func entryListResponse(entries []*model.PrizeEntry) []gin.H {
	out := make([]gin.H, len(entries))
	for i, e := range entries {
		out[i] = gin.H{
			"id":         e.ID,
			"count":      e.Count,
			"reason":     e.Reason,
			"date":       e.Date,
			"week":       e.Week,
			"created_at": e.CreatedAt.Format(time.RFC3339),
		}
	}
	return out
}
