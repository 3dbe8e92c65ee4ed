package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightpath-edu/assessment-engine/internal/services"
	"github.com/brightpath-edu/assessment-engine/internal/utils"
)

type XPHandler struct {
	BaseHandler
	xpService services.XPService
}

func NewXPHandler(xpService services.XPService, logger utils.Logger) *XPHandler {
	return &XPHandler{
		BaseHandler: NewBaseHandler(logger),
		xpService:   xpService,
	}
}

// GetProfile reports a learner's level standing derived from lifetime XP
// @Summary Get XP profile
// @Tags xp
// @Produce json
// @Param student_id path uint true "Student ID"
// @Success 200 {object} services.XPProfileView
// @Router /xp/students/{student_id} [get]
func (h *XPHandler) GetProfile(c *gin.Context) {
	studentID := h.parseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}

	profile, err := h.xpService.Profile(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
