package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightpath-edu/assessment-engine/internal/models"
	"github.com/brightpath-edu/assessment-engine/internal/services"
	"github.com/brightpath-edu/assessment-engine/internal/utils"
)

type GradeHandler struct {
	BaseHandler
	gradeService services.GradeService
	validator    *utils.Validator
}

type SetWeightsRequest struct {
	Assignments   float64 `json:"assignments" validate:"min=0,max=1"`
	Quizzes       float64 `json:"quizzes" validate:"min=0,max=1"`
	Participation float64 `json:"participation" validate:"min=0,max=1"`
	Midterm       float64 `json:"midterm" validate:"min=0,max=1"`
	FinalExam     float64 `json:"final_exam" validate:"min=0,max=1"`
}

type AddGradebookItemRequest struct {
	CourseID       uint                 `json:"course_id" validate:"required"`
	StudentID      uint                 `json:"student_id" validate:"required"`
	Category       models.GradeCategory `json:"category" validate:"required,grade_category"`
	Title          string               `json:"title" validate:"required,min=1,max=200"`
	EarnedPoints   float64              `json:"earned_points" validate:"min=0"`
	PossiblePoints float64              `json:"possible_points" validate:"required,gt=0"`
	Completed      bool                 `json:"completed"`
}

func NewGradeHandler(
	gradeService services.GradeService,
	validator *utils.Validator,
	logger utils.Logger,
) *GradeHandler {
	return &GradeHandler{
		BaseHandler:  NewBaseHandler(logger),
		gradeService: gradeService,
		validator:    validator,
	}
}

// SetWeights stores the weight configuration of a course
// @Summary Configure grade weights
// @Tags grades
// @Accept json
// @Produce json
// @Param course_id path uint true "Course ID"
// @Param weights body SetWeightsRequest true "Category weights, must sum to 1.0"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /grades/courses/{course_id}/weights [put]
func (h *GradeHandler) SetWeights(c *gin.Context) {
	courseID := h.parseIDParam(c, "course_id")
	if courseID == 0 {
		return
	}

	var req SetWeightsRequest
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

	weights := models.GradeWeights{
		Assignments:   req.Assignments,
		Quizzes:       req.Quizzes,
		Participation: req.Participation,
		Midterm:       req.Midterm,
		FinalExam:     req.FinalExam,
	}

	if err := h.gradeService.SetWeights(c.Request.Context(), courseID, weights); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Grade weights configured"})
}

func (h *GradeHandler) GetWeights(c *gin.Context) {
	courseID := h.parseIDParam(c, "course_id")
	if courseID == 0 {
		return
	}

	weights, err := h.gradeService.GetWeights(c.Request.Context(), courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, weights)
}

// ===== GRADEBOOK ITEMS =====

func (h *GradeHandler) AddGradebookItem(c *gin.Context) {
	var req AddGradebookItemRequest
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

	item := &models.GradebookItem{
		CourseID:       req.CourseID,
		StudentID:      req.StudentID,
		Category:       req.Category,
		Title:          req.Title,
		EarnedPoints:   req.EarnedPoints,
		PossiblePoints: req.PossiblePoints,
		Completed:      req.Completed,
	}

	if err := h.gradeService.AddItem(c.Request.Context(), item); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *GradeHandler) ListGradebookItems(c *gin.Context) {
	courseID := h.parseIDParam(c, "course_id")
	if courseID == 0 {
		return
	}
	studentID := h.parseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}

	items, err := h.gradeService.ListItems(c.Request.Context(), courseID, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// ===== COMPUTATION =====

// ComputeGrade recomputes a student's course grade from the gradebook
// @Summary Compute course grade
// @Tags grades
// @Produce json
// @Param course_id path uint true "Course ID"
// @Param student_id path uint true "Student ID"
// @Success 200 {object} models.CourseGradeResult
// @Failure 404 {object} ErrorResponse
// @Router /grades/courses/{course_id}/students/{student_id}/compute [post]
func (h *GradeHandler) ComputeGrade(c *gin.Context) {
	courseID := h.parseIDParam(c, "course_id")
	if courseID == 0 {
		return
	}
	studentID := h.parseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}

	h.LogRequest(c, "Computing course grade",
		"course_id", courseID,
		"student_id", studentID)

	result, err := h.gradeService.ComputeCourseGrade(c.Request.Context(), courseID, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *GradeHandler) GetLatestGrade(c *gin.Context) {
	courseID := h.parseIDParam(c, "course_id")
	if courseID == 0 {
		return
	}
	studentID := h.parseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}

	result, err := h.gradeService.GetLatest(c.Request.Context(), courseID, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *GradeHandler) GetGradeHistory(c *gin.Context) {
	courseID := h.parseIDParam(c, "course_id")
	if courseID == 0 {
		return
	}
	studentID := h.parseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}
	limit := h.parseIntQuery(c, "limit", 20)

	results, err := h.gradeService.History(c.Request.Context(), courseID, studentID, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}
