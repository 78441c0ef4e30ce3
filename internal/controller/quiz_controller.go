package controller

import (
	"errors"
	"strings"

	"quizgenie_backend/internal/repository"
	"quizgenie_backend/internal/service"
	"quizgenie_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

func (c *QuizController) Generate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.GenerateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		util.BadRequest(ctx, "text must not be empty")
		return
	}

	resp, err := c.QuizService.Generate(ctx.Request.Context(), claims.UserID, req)
	if err != nil {
		var adapterErr *service.AdapterError
		if errors.As(err, &adapterErr) {
			util.Error(ctx, 502, "Quiz generation failed, please try again")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, resp)
}

func (c *QuizController) Get(ctx *gin.Context) {
	quiz, err := c.QuizService.Playable(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, quiz)
}

func (c *QuizController) Discover(ctx *gin.Context) {
	filter := repository.QuizFilter{
		Search:     ctx.Query("search"),
		Difficulty: ctx.Query("difficulty"),
		Sort:       ctx.DefaultQuery("sort", "trending"),
	}
	if tags := ctx.Query("tags"); tags != "" {
		filter.Tags = strings.Split(tags, ",")
	}

	entries, err := c.QuizService.Discover(ctx.Request.Context(), filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

func (c *QuizController) Tags(ctx *gin.Context) {
	tags, err := c.QuizService.Tags()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, tags)
}

func (c *QuizController) Details(ctx *gin.Context) {
	details, err := c.QuizService.Details(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, details)
}

func (c *QuizController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.Update(ctx.Request.Context(), claims.UserID, ctx.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.UnprocessableEntity(ctx, err.Error())
		}
		return
	}

	util.Success(ctx, gin.H{
		"id":        quiz.ID,
		"title":     quiz.Title,
		"is_public": quiz.IsPublic,
		"tags":      quiz.TagNames(),
	})
}

func (c *QuizController) ListCreated(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	created, err := c.QuizService.ListCreated(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, created)
}

func (c *QuizController) ListTaken(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	taken, err := c.QuizService.ListTaken(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, taken)
}
