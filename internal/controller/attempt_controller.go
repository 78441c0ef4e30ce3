package controller

import (
	"errors"
	"net/http"
	"strconv"

	"quizgenie_backend/internal/service"
	"quizgenie_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	AttemptService *service.AttemptService
	HistoryService *service.HistoryService
}

func NewAttemptController(attemptService *service.AttemptService, historyService *service.HistoryService) *AttemptController {
	return &AttemptController{
		AttemptService: attemptService,
		HistoryService: historyService,
	}
}

// Submit grades a completed quiz and records the attempt.
func (c *AttemptController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.TimeSpent != "" {
		if _, err := util.ParseTimeSpent(req.TimeSpent); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	result, err := c.AttemptService.Submit(ctx.Request.Context(), claims.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrEmptyQuiz):
			util.UnprocessableEntity(ctx, "Quiz has no questions to grade")
		case errors.Is(err, util.ErrConflictRetryExhausted):
			util.Error(ctx, http.StatusInternalServerError, "Submission conflicted with concurrent attempts, please retry")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// QuizHistory lists the caller's attempts on one quiz with per-question
// breakdowns.
func (c *AttemptController) QuizHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	history, err := c.HistoryService.QuizHistory(claims.UserID, ctx.Param("quizId"))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, history)
}

func (c *AttemptController) Recent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	recent, err := c.HistoryService.RecentByUser(claims.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, recent)
}

// QuizAttempts lists recent attempts on a quiz by any player.
func (c *AttemptController) QuizAttempts(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	attempts, err := c.HistoryService.AttemptsForQuiz(ctx.Param("id"), limit)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, attempts)
}
