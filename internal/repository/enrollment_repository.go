package repository

import (
	"context"
	"course_market_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

// Create 依赖 (user_id, course_id) 唯一索引，重复报名返回 gorm.ErrDuplicatedKey
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *model.Enrollment) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(enrollment).Error
}

// FindCoursesByUser 我的课程，按报名时间倒序
func (r *EnrollmentRepository) FindCoursesByUser(ctx context.Context, userID uint) ([]model.EnrolledCourse, error) {
	var rows []model.EnrolledCourse
	err := r.DB.WithContext(ctx).
		Table("enrollments AS e").
		Select("c.*, u.name AS instructor_name, e.enrolled_at").
		Joins("JOIN courses c ON c.id = e.course_id").
		Joins("LEFT JOIN users u ON u.id = c.instructor_id").
		Where("e.user_id = ?", userID).
		Order("e.enrolled_at DESC, e.id DESC").
		Scan(&rows).Error
	return rows, err
}
