package middleware

import (
	"errors"
	"net/http"

	"focusdraw/internal/service"
	"focusdraw/pkg/auth"
	"focusdraw/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type Authorization struct {
	parentService service.ParentServiceI
}

func NewAuthorization(parentService service.ParentServiceI) *Authorization {
	return &Authorization{
		parentService: parentService,
	}
}

// ParentOnly gates routes behind an existing parent profile for the
// authenticated subject. Runs after the subject auth middleware.
func (a *Authorization) ParentOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Logger()

		uid, ok := auth.Subject(c)
		if !ok {
			log.Error("subject id not found in context")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		_, err := a.parentService.Get(c.Request.Context(), uid)
		if err != nil {
			if errors.Is(err, service.ErrParentNotFound) {
				log.Info("non-parent subject hit a parent endpoint", zap.String("uid", uid))
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "parent account required"})
				return
			}
			log.Error("failed to load parent profile", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Next()
	}
}
