package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightpath-edu/assessment-engine/internal/services"
	"github.com/brightpath-edu/assessment-engine/internal/utils"
)

type GoalHandler struct {
	BaseHandler
	goalService services.GoalService
	validator   *utils.Validator
}

type SetGoalRequest struct {
	TargetLetter string `json:"target_letter" validate:"required,letter_grade"`
}

func NewGoalHandler(
	goalService services.GoalService,
	validator *utils.Validator,
	logger utils.Logger,
) *GoalHandler {
	return &GoalHandler{
		BaseHandler: NewBaseHandler(logger),
		goalService: goalService,
		validator:   validator,
	}
}

// SetGoal stores a learner's target letter grade for a course
// @Summary Set progress goal
// @Tags goals
// @Accept json
// @Produce json
// @Param course_id path uint true "Course ID"
// @Param student_id path uint true "Student ID"
// @Param goal body SetGoalRequest true "Target letter grade"
// @Success 200 {object} models.ProgressGoal
// @Failure 400 {object} ErrorResponse
// @Router /goals/courses/{course_id}/students/{student_id} [put]
func (h *GoalHandler) SetGoal(c *gin.Context) {
	courseID := h.parseIDParam(c, "course_id")
	if courseID == 0 {
		return
	}
	studentID := h.parseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}

	var req SetGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	goal, err := h.goalService.SetGoal(c.Request.Context(), courseID, studentID, req.TargetLetter)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, goal)
}

func (h *GoalHandler) GetGoal(c *gin.Context) {
	courseID := h.parseIDParam(c, "course_id")
	if courseID == 0 {
		return
	}
	studentID := h.parseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}

	goal, err := h.goalService.GetGoal(c.Request.Context(), courseID, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, goal)
}

func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	courseID := h.parseIDParam(c, "course_id")
	if courseID == 0 {
		return
	}
	studentID := h.parseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}

	if err := h.goalService.DeleteGoal(c.Request.Context(), courseID, studentID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Goal deleted"})
}

// GetProjection computes the required average on remaining work
// @Summary Project goal
// @Tags goals
// @Produce json
// @Param course_id path uint true "Course ID"
// @Param student_id path uint true "Student ID"
// @Success 200 {object} models.GoalProjection
// @Failure 404 {object} ErrorResponse
// @Router /goals/courses/{course_id}/students/{student_id}/projection [get]
func (h *GoalHandler) GetProjection(c *gin.Context) {
	courseID := h.parseIDParam(c, "course_id")
	if courseID == 0 {
		return
	}
	studentID := h.parseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}

	projection, err := h.goalService.Projection(c.Request.Context(), courseID, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, projection)
}
