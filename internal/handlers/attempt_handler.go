package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightpath-edu/assessment-engine/internal/models"
	"github.com/brightpath-edu/assessment-engine/internal/repositories"
	"github.com/brightpath-edu/assessment-engine/internal/services"
	"github.com/brightpath-edu/assessment-engine/internal/utils"
)

type AttemptHandler struct {
	BaseHandler
	attemptService services.AttemptService
	validator      *utils.Validator
}

type CreateQuizRequest struct {
	CourseID  uint                        `json:"course_id" validate:"required"`
	Title     string                      `json:"title" validate:"required,min=1,max=200"`
	TimeLimit int                         `json:"time_limit" validate:"min=0"`
	Questions []models.QuestionDefinition `json:"questions" validate:"required,min=1"`
}

type StartAttemptRequest struct {
	QuizID    uint `json:"quiz_id" validate:"required"`
	StudentID uint `json:"student_id" validate:"required"`
}

// AnswerRequest carries one answer slot write. The payload shape follows the
// declared kind; the session rejects a mismatch against the question.
type AnswerRequest struct {
	QuestionIndex int                 `json:"question_index" validate:"min=0"`
	Kind          models.QuestionKind `json:"kind" validate:"required,question_kind"`
	Answer        json.RawMessage     `json:"answer" validate:"required"`
}

func NewAttemptHandler(
	attemptService services.AttemptService,
	validator *utils.Validator,
	logger utils.Logger,
) *AttemptHandler {
	return &AttemptHandler{
		BaseHandler:    NewBaseHandler(logger),
		attemptService: attemptService,
		validator:      validator,
	}
}

// ===== QUIZ MANAGEMENT =====

// CreateQuiz creates a quiz definition with its ordered questions
// @Summary Create quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Param quiz body CreateQuizRequest true "Quiz definition"
// @Success 201 {object} models.QuizDefinition
// @Failure 400 {object} ErrorResponse
// @Router /quizzes [post]
func (h *AttemptHandler) CreateQuiz(c *gin.Context) {
	var req CreateQuizRequest
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

	quiz := &models.QuizDefinition{
		CourseID:  req.CourseID,
		Title:     req.Title,
		TimeLimit: req.TimeLimit,
		Questions: req.Questions,
	}

	created, err := h.attemptService.CreateQuiz(c.Request.Context(), quiz)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *AttemptHandler) GetQuiz(c *gin.Context) {
	quizID := h.parseIDParam(c, "id")
	if quizID == 0 {
		return
	}

	quiz, err := h.attemptService.GetQuiz(c.Request.Context(), quizID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

func (h *AttemptHandler) ListQuizzes(c *gin.Context) {
	courseID, ok := h.parseIDQuery(c, "course_id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing or invalid course_id",
		})
		return
	}

	quizzes, err := h.attemptService.ListQuizzes(c.Request.Context(), courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

func (h *AttemptHandler) DeleteQuiz(c *gin.Context) {
	quizID := h.parseIDParam(c, "id")
	if quizID == 0 {
		return
	}

	if err := h.attemptService.DeleteQuiz(c.Request.Context(), quizID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Quiz deleted"})
}

// ===== LIVE SESSIONS =====

// StartAttempt opens a live session for a quiz
// @Summary Start attempt
// @Tags attempts
// @Accept json
// @Produce json
// @Param request body StartAttemptRequest true "Quiz and student"
// @Success 201 {object} services.SessionView
// @Failure 404 {object} ErrorResponse
// @Router /attempts/start [post]
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	var req StartAttemptRequest
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

	h.LogRequest(c, "Starting quiz attempt",
		"quiz_id", req.QuizID,
		"student_id", req.StudentID)

	view, err := h.attemptService.Start(c.Request.Context(), req.QuizID, req.StudentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h *AttemptHandler) GetSession(c *gin.Context) {
	sessionID := c.Param("session_id")

	view, err := h.attemptService.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *AttemptHandler) SubmitAnswer(c *gin.Context) {
	sessionID := c.Param("session_id")

	var req AnswerRequest
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

	answer, err := models.UnmarshalAnswer(req.Kind, req.Answer)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid answer payload",
			Details: err.Error(),
		})
		return
	}

	view, err := h.attemptService.Answer(c.Request.Context(), sessionID, req.QuestionIndex, answer)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *AttemptHandler) Advance(c *gin.Context) {
	sessionID := c.Param("session_id")

	view, err := h.attemptService.Advance(c.Request.Context(), sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *AttemptHandler) Retreat(c *gin.Context) {
	sessionID := c.Param("session_id")

	view, err := h.attemptService.Retreat(c.Request.Context(), sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// SubmitAttempt finalizes a live session and returns the scored result
// @Summary Submit attempt
// @Tags attempts
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} models.AttemptResult
// @Failure 409 {object} ErrorResponse
// @Router /attempts/sessions/{session_id}/submit [post]
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	sessionID := c.Param("session_id")

	h.LogRequest(c, "Submitting quiz attempt", "session_id", sessionID)

	result, err := h.attemptService.Submit(c.Request.Context(), sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ===== FINISHED ATTEMPTS =====

func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	attemptID := h.parseIDParam(c, "id")
	if attemptID == 0 {
		return
	}

	record, err := h.attemptService.GetAttempt(c.Request.Context(), attemptID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *AttemptHandler) GetAttemptsByStudent(c *gin.Context) {
	studentID := h.parseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}

	filters := repositories.AttemptFilters{
		Limit:     h.parseIntQuery(c, "limit", 20),
		Offset:    h.parseIntQuery(c, "offset", 0),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}
	if courseID, ok := h.parseIDQuery(c, "course_id"); ok {
		filters.CourseID = &courseID
	}
	if quizID, ok := h.parseIDQuery(c, "quiz_id"); ok {
		filters.QuizID = &quizID
	}

	records, total, err := h.attemptService.ListAttempts(c.Request.Context(), studentID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attempts": records,
		"total":    total,
	})
}
