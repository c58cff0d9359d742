package handlers

import (
	"net/http"

	"github.com/arnavshah/rota-solver-go/pkg/models"
	"github.com/arnavshah/rota-solver-go/pkg/scheduler"
	"github.com/gin-gonic/gin"
)

// ValidateInput checks a schedule request without solving it
func (h *Handler) ValidateInput(c *gin.Context) {
	var req models.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	if err := scheduler.Validate(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"day_count":    len(req.Days),
			"person_count": len(req.People),
		},
	})
}
