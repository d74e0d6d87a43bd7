package service

import (
	"context"
	"course_market_backend/internal/model"
	"course_market_backend/internal/repository"
	"course_market_backend/internal/util"
	"course_market_backend/pkg/monitoring"
	"errors"
	"time"

	"gorm.io/gorm"
)

type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
}

func NewEnrollmentService(enrollmentRepo *repository.EnrollmentRepository, courseRepo *repository.CourseRepository) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
	}
}

// Enroll 报名课程。唯一性由数据库唯一索引保证，并发重复报名同样得到 Conflict
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID uint) (*model.Enrollment, error) {
	if courseID == 0 {
		return nil, util.Validation("Course ID is required")
	}

	exists, err := s.CourseRepo.Exists(ctx, courseID)
	if err != nil {
		return nil, util.Internal(err)
	}
	if !exists {
		monitoring.EnrollmentCounter.WithLabelValues("not_found").Inc()
		return nil, util.ErrCourseNotFound
	}

	enrollment := &model.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
	}

	if err := s.EnrollmentRepo.Create(ctx, enrollment); err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			monitoring.EnrollmentCounter.WithLabelValues("conflict").Inc()
			return nil, util.ErrAlreadyEnrolled
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			monitoring.EnrollmentCounter.WithLabelValues("not_found").Inc()
			return nil, missingReference(ctx, s.CourseRepo, courseID)
		default:
			return nil, util.Internal(err)
		}
	}

	monitoring.EnrollmentCounter.WithLabelValues("ok").Inc()
	return enrollment, nil
}

func (s *EnrollmentService) ListMine(ctx context.Context, userID uint) ([]model.EnrolledCourse, error) {
	courses, err := s.EnrollmentRepo.FindCoursesByUser(ctx, userID)
	if err != nil {
		return nil, util.Internal(err)
	}
	if courses == nil {
		courses = []model.EnrolledCourse{}
	}
	return courses, nil
}
