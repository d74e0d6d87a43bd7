package controller

import (
	"course_market_backend/internal/service"
	"course_market_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

// EnrollRequest defines model for enrollment
// swagger:model EnrollRequest
type EnrollRequest struct {
	CourseID uint `json:"course_id" binding:"required"`
}

// Enroll godoc
// @Summary 报名课程
// @Tags 报名
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body EnrollRequest true "课程ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response "课程不存在"
// @Failure 409 {object} util.Response "已报名"
// @Router /enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	principal := util.GetUserFromContext(ctx)
	if principal == nil {
		util.Unauthorized(ctx)
		return
	}

	var req EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if _, err := c.EnrollmentService.Enroll(ctx.Request.Context(), principal.UserID, req.CourseID); err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"success": true})
}

// MyCourses godoc
// @Summary 我的课程
// @Description 已报名课程，按报名时间倒序
// @Tags 报名
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.EnrolledCourse}
// @Failure 401 {object} util.Response
// @Router /my-courses [get]
func (c *EnrollmentController) MyCourses(ctx *gin.Context) {
	principal := util.GetUserFromContext(ctx)
	if principal == nil {
		util.Unauthorized(ctx)
		return
	}

	courses, err := c.EnrollmentService.ListMine(ctx.Request.Context(), principal.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}
