package controller

import (
	"course_market_backend/internal/service"
	"course_market_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// TotalStudents godoc
// @Summary 学员总数
// @Tags 用户
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Router /total-students [get]
func (c *UserController) TotalStudents(ctx *gin.Context) {
	total, err := c.UserService.TotalLearners(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"total": total})
}

// Dashboard godoc
// @Summary 仪表盘欢迎语
// @Tags 用户
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Router /dashboard [get]
func (c *UserController) Dashboard(ctx *gin.Context) {
	message, err := c.UserService.DashboardGreeting(util.GetUserFromContext(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": message})
}
