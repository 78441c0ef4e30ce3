package controller

import (
	"errors"

	"quizgenie_backend/internal/service"
	"quizgenie_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// QuizAnalytics returns the creator-only analytics view for a quiz.
func (c *AnalyticsController) QuizAnalytics(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	analytics, err := c.AnalyticsService.ForQuiz(ctx.Param("id"), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, analytics)
}

// PlatformStats is public; it backs the landing page counters.
func (c *AnalyticsController) PlatformStats(ctx *gin.Context) {
	stats, err := c.AnalyticsService.Platform(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
