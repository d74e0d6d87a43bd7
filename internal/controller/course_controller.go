package controller

import (
	"course_market_backend/internal/service"
	"course_market_backend/internal/util"
	"mime/multipart"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService  *service.CourseService
	RatingService  *service.RatingService
	StorageService *service.StorageService
}

func NewCourseController(courseService *service.CourseService, ratingService *service.RatingService, storageService *service.StorageService) *CourseController {
	return &CourseController{
		CourseService:  courseService,
		RatingService:  ratingService,
		StorageService: storageService,
	}
}

// RateRequest defines model for rating a course
// swagger:model RateRequest
type RateRequest struct {
	Rating *int `json:"rating" binding:"required,min=1,max=5" minimum:"1" maximum:"5"`
}

// courseFields 读取 multipart 表单中的文本字段，未出现的字段保持 nil
func courseFields(ctx *gin.Context) service.CourseFields {
	field := func(name string) *string {
		if v, ok := ctx.GetPostForm(name); ok {
			return &v
		}
		return nil
	}
	return service.CourseFields{
		Title:       field("title"),
		Category:    field("category"),
		Description: field("description"),
		Price:       field("price"),
		Duration:    field("duration"),
	}
}

func formFile(ctx *gin.Context, name string) *multipart.FileHeader {
	file, err := ctx.FormFile(name)
	if err != nil {
		return nil
	}
	return file
}

// saveAttachments 依次上传视频与文档，任一失败时清理已上传的文件
func (c *CourseController) saveAttachments(ctx *gin.Context, video, pdf *multipart.FileHeader) (service.Attachments, []*service.StoredAttachment, error) {
	var att service.Attachments
	var stored []*service.StoredAttachment

	if video != nil {
		saved, err := c.StorageService.SaveAttachment(ctx.Request.Context(), service.AttachmentVideo, video)
		if err != nil {
			return att, nil, err
		}
		stored = append(stored, saved)
		att.VideoLocation = saved.Location
	}

	if pdf != nil {
		saved, err := c.StorageService.SaveAttachment(ctx.Request.Context(), service.AttachmentDocument, pdf)
		if err != nil {
			c.StorageService.Cleanup(ctx.Request.Context(), stored...)
			return att, nil, err
		}
		stored = append(stored, saved)
		att.DocumentLocation = saved.Location
	}

	return att, stored, nil
}

// ListPublished godoc
// @Summary 公开课程列表
// @Description 所有已发布课程，附带讲师姓名和保留一位小数的平均评分
// @Tags 课程
// @Produce json
// @Success 200 {object} util.Response{data=[]model.PublicCourse}
// @Failure 500 {object} util.Response
// @Router /courses [get]
func (c *CourseController) ListPublished(ctx *gin.Context) {
	courses, err := c.CourseService.ListPublished(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// ListMine godoc
// @Summary 讲师的课程
// @Tags 课程
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.InstructorCourse}
// @Failure 401 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /instructor/courses [get]
func (c *CourseController) ListMine(ctx *gin.Context) {
	principal := util.GetUserFromContext(ctx)
	if principal == nil {
		util.Unauthorized(ctx)
		return
	}

	courses, err := c.CourseService.ListByInstructor(ctx.Request.Context(), principal.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// CreateCourse godoc
// @Summary 创建课程
// @Description 文本字段必填，视频与 PDF 至少上传一个
// @Tags 课程
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param title formData string true "标题"
// @Param category formData string true "分类"
// @Param description formData string true "简介"
// @Param price formData number true "价格"
// @Param duration formData string true "时长"
// @Param video formData file false "课程视频"
// @Param pdf formData file false "课程讲义"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Failure 500 {object} util.Response
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	principal := util.GetUserFromContext(ctx)
	if principal == nil {
		util.Unauthorized(ctx)
		return
	}

	fields := courseFields(ctx)
	video, pdf := formFile(ctx, "video"), formFile(ctx, "pdf")
	if err := service.ValidateNewCourse(fields, video != nil, pdf != nil); err != nil {
		util.HandleError(ctx, err)
		return
	}

	att, stored, err := c.saveAttachments(ctx, video, pdf)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	course, err := c.CourseService.CreateCourse(ctx.Request.Context(), principal.UserID, fields, att)
	if err != nil {
		c.StorageService.Cleanup(ctx.Request.Context(), stored...)
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"success": true, "courseId": course.ID})
}

// UpdateCourse godoc
// @Summary 更新课程
// @Description 只更新提供的字段；新上传的附件替换原附件位置
// @Tags 课程
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Param title formData string false "标题"
// @Param category formData string false "分类"
// @Param description formData string false "简介"
// @Param price formData number false "价格"
// @Param duration formData string false "时长"
// @Param video formData file false "课程视频"
// @Param pdf formData file false "课程讲义"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	principal := util.GetUserFromContext(ctx)
	if principal == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.HandleError(ctx, util.ErrCourseNotFound)
		return
	}

	// 先确认权限，避免无权请求留下上传文件
	if _, err := c.CourseService.AuthorizeUpdate(ctx.Request.Context(), id, principal); err != nil {
		util.HandleError(ctx, err)
		return
	}

	att, stored, err := c.saveAttachments(ctx, formFile(ctx, "video"), formFile(ctx, "pdf"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	replaced, err := c.CourseService.UpdateCourse(ctx.Request.Context(), id, principal, courseFields(ctx), att)
	if err != nil {
		c.StorageService.Cleanup(ctx.Request.Context(), stored...)
		util.HandleError(ctx, err)
		return
	}
	c.StorageService.RemoveLocations(ctx.Request.Context(), replaced...)

	util.Success(ctx, gin.H{"success": true})
}

// DeleteCourse godoc
// @Summary 删除课程
// @Description 仅课程所有者可删除，同时删除该课程的报名与评分
// @Tags 课程
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 403 {object} util.Response
// @Failure 500 {object} util.Response
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	principal := util.GetUserFromContext(ctx)
	if principal == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	if err := c.CourseService.DeleteCourse(ctx.Request.Context(), id, principal.UserID); err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"success": true})
}

// RateCourse godoc
// @Summary 课程评分
// @Description 评分范围 1-5，可重复评分
// @Tags 课程
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Param body body RateRequest true "评分"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /courses/{id}/rate [post]
func (c *CourseController) RateCourse(ctx *gin.Context) {
	principal := util.GetUserFromContext(ctx)
	if principal == nil {
		util.Unauthorized(ctx)
		return
	}

	var req RateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	if _, err := c.RatingService.Rate(ctx.Request.Context(), id, principal.UserID, *req.Rating); err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"success": true})
}
