package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/exam-platform/internal/middleware"
	"github.com/stemsi/exam-platform/internal/model"
	"github.com/stemsi/exam-platform/internal/response"
	"github.com/stemsi/exam-platform/internal/service"
	"github.com/stemsi/exam-platform/internal/validator"
)

// ExamHandler handles question delivery, submission and results.
type ExamHandler struct {
	questionService *service.QuestionService
	scoringService  *service.ScoringService
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(questionService *service.QuestionService, scoringService *service.ScoringService) *ExamHandler {
	return &ExamHandler{
		questionService: questionService,
		scoringService:  scoringService,
	}
}

// GetQuestions godoc
// GET /api/exam/questions
// Returns a shuffled question set without answers.
func (h *ExamHandler) GetQuestions(c *gin.Context) {
	questions, err := h.questionService.ListExamQuestions(c.Request.Context())
	if err != nil {
		failInternal(c, err, "Questions fetch failed")
		return
	}

	response.Success(c, http.StatusOK, model.QuestionsResponse{Questions: questions})
}

// Submit godoc
// POST /api/exam/submit
// Scores the answer map and stores one attempt.
func (h *ExamHandler) Submit(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.SubmitRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.scoringService.Submit(c.Request.Context(), claims.UserID, req.Answers, req.TimeTaken)
	if err != nil {
		failInternal(c, err, "Exam submit failed")
		return
	}

	response.Success(c, http.StatusOK, res)
}

// GetResult godoc
// GET /api/exam/results/:attemptId
// Returns a stored attempt owned by the caller; anything else is a 404.
func (h *ExamHandler) GetResult(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	summary, err := h.scoringService.GetAttempt(c.Request.Context(), claims.UserID, c.Param("attemptId"))
	if err != nil {
		if errors.Is(err, service.ErrAttemptNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrAttemptNotFound)
			return
		}
		failInternal(c, err, "Results fetch failed")
		return
	}

	response.Success(c, http.StatusOK, summary)
}

// ListResults godoc
// GET /api/exam/results
// Returns the caller's attempts, newest first.
func (h *ExamHandler) ListResults(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attempts, err := h.scoringService.ListAttempts(c.Request.Context(), claims.UserID)
	if err != nil {
		failInternal(c, err, "Results list failed")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempts": attempts})
}
