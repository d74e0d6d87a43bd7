package service

import (
	"context"
	"course_market_backend/internal/model"
	"course_market_backend/internal/repository"
	"course_market_backend/internal/util"
	"course_market_backend/pkg/monitoring"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"
)

type RatingService struct {
	RatingRepo *repository.RatingRepository
	CourseRepo *repository.CourseRepository
}

func NewRatingService(ratingRepo *repository.RatingRepository, courseRepo *repository.CourseRepository) *RatingService {
	return &RatingService{
		RatingRepo: ratingRepo,
		CourseRepo: courseRepo,
	}
}

// Rate 记录一次评分；同一用户重复评分会累积为多条记录
func (s *RatingService) Rate(ctx context.Context, courseID, userID uint, value int) (*model.Rating, error) {
	if value < model.MinRating || value > model.MaxRating {
		return nil, util.Validation(fmt.Sprintf("Rating must be between %d and %d", model.MinRating, model.MaxRating))
	}

	exists, err := s.CourseRepo.Exists(ctx, courseID)
	if err != nil {
		return nil, util.Internal(err)
	}
	if !exists {
		return nil, util.ErrCourseNotFound
	}

	rating := &model.Rating{
		CourseID: courseID,
		UserID:   userID,
		Value:    value,
	}

	if err := s.RatingRepo.Create(ctx, rating); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, missingReference(ctx, s.CourseRepo, courseID)
		}
		return nil, util.Internal(err)
	}

	monitoring.RatingCounter.WithLabelValues(strconv.Itoa(value)).Inc()
	return rating, nil
}
