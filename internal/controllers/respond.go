package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/responsehub/backend/internal/logger"
	"github.com/responsehub/backend/internal/middleware"
	"github.com/responsehub/backend/internal/policy"
	"github.com/responsehub/backend/internal/services"
	"github.com/responsehub/backend/internal/validation"
)

var statusByKind = map[services.ErrorKind]int{
	services.KindNotFound:     http.StatusNotFound,
	services.KindConflict:     http.StatusConflict,
	services.KindForbidden:    http.StatusForbidden,
	services.KindValidation:   http.StatusBadRequest,
	services.KindUnauthorized: http.StatusUnauthorized,
}

// respondError writes a service error with its matching status. Anything
// else is logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error, component string) {
	if se, ok := services.AsServiceError(err); ok {
		status, known := statusByKind[se.Kind]
		if known {
			message := se.Message
			if se.Kind == services.KindValidation {
				message = se.Error()
			}
			c.JSON(status, gin.H{"error": message})
			return
		}
	}

	logger.WithError(err, component).Error("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
}

func bindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message(err)})
}

// requireActor fetches the caller set by the auth middleware.
func requireActor(c *gin.Context) (policy.Actor, bool) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
	}
	return actor, ok
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + param})
		return 0, false
	}
	return uint(id), true
}
