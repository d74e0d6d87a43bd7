package repository

import (
	"context"
	"course_market_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(course).Error
}

func (r *CourseRepository) FindByID(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Course{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// UpdateFields 仅更新传入的列
func (r *CourseRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Model(&model.Course{}).Where("id = ?", id).Updates(fields).Error
}

// DeleteOwned 在同一事务内依次删除报名、评分和课程本身
// 课程不存在或不属于 ownerID 时返回 gorm.ErrRecordNotFound，且不做任何删除
func (r *CourseRepository) DeleteOwned(ctx context.Context, id, ownerID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course model.Course
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND instructor_id = ?", id, ownerID).
			First(&course).Error; err != nil {
			return err
		}

		// 1. 删除课程下的所有报名
		if err := tx.Where("course_id = ?", id).Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}
		// 2. 删除课程下的所有评分
		if err := tx.Where("course_id = ?", id).Delete(&model.Rating{}).Error; err != nil {
			return err
		}
		// 3. 删除课程本身
		return tx.Delete(&model.Course{}, id).Error
	})
}

// FindPublishedWithInstructor 公开课程及讲师姓名
func (r *CourseRepository) FindPublishedWithInstructor(ctx context.Context) ([]model.PublicCourse, error) {
	var rows []model.PublicCourse
	err := r.DB.WithContext(ctx).
		Table("courses AS c").
		Select("c.*, u.name AS instructor_name").
		Joins("LEFT JOIN users u ON u.id = c.instructor_id").
		Where("c.published = ?", true).
		Order("c.id DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *CourseRepository) FindByInstructor(ctx context.Context, instructorID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.WithContext(ctx).
		Where("instructor_id = ?", instructorID).
		Order("id DESC").
		Find(&courses).Error
	return courses, err
}
