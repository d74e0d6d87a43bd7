package repository

import (
	"context"
	"course_market_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository struct {
	DB *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{DB: db}
}

func (r *RatingRepository) Create(ctx context.Context, rating *model.Rating) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(rating).Error
}

// AggregateByCourses 一次查询计算多门课程的平均分与评分数，无评分的课程不出现在结果中
func (r *RatingRepository) AggregateByCourses(ctx context.Context, courseIDs []uint) (map[uint]model.RatingAggregate, error) {
	result := make(map[uint]model.RatingAggregate, len(courseIDs))
	if len(courseIDs) == 0 {
		return result, nil
	}

	var rows []model.RatingAggregate
	err := r.DB.WithContext(ctx).
		Model(&model.Rating{}).
		Select("course_id, AVG(rating) AS average, COUNT(*) AS count").
		Where("course_id IN ?", courseIDs).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.CourseID] = row
	}
	return result, nil
}
