package service

import (
	"context"
	"course_market_backend/internal/model"
	"course_market_backend/internal/repository"
	"course_market_backend/internal/util"
)

// IsOwner 课程是否属于该身份
func IsOwner(course *model.Course, principal *util.Claims) bool {
	if course == nil || principal == nil {
		return false
	}
	return course.InstructorID == principal.UserID
}

// RequirePrincipal 需要登录身份的操作统一校验
func RequirePrincipal(principal *util.Claims) error {
	if principal == nil || principal.UserID == 0 {
		return util.ErrTokenMissing
	}
	return nil
}

// missingReference 写入时外键冲突：课程已删除返回 NotFound，否则说明令牌对应的账号已不存在
func missingReference(ctx context.Context, courses *repository.CourseRepository, courseID uint) error {
	exists, err := courses.Exists(ctx, courseID)
	if err != nil {
		return util.Internal(err)
	}
	if !exists {
		return util.ErrCourseNotFound
	}
	return util.ErrAccountNotFound
}
