package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"course_market_backend/internal/config"
	"course_market_backend/internal/model"
	"course_market_backend/internal/repository"
	"course_market_backend/internal/util"
	"course_market_backend/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db          *gorm.DB
	cfg         *config.Config
	auth        *AuthService
	courses     *CourseService
	enrollments *EnrollmentService
	ratings     *RatingService
	users       *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.OpenMemory(strings.ReplaceAll(t.Name(), "/", "_"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = 24 * time.Hour
	cfg.Policy.EnforceUpdateOwnership = true

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	ratingRepo := repository.NewRatingRepository(db)

	return &testEnv{
		db:          db,
		cfg:         cfg,
		auth:        NewAuthService(userRepo, cfg),
		courses:     NewCourseService(courseRepo, ratingRepo, cfg),
		enrollments: NewEnrollmentService(enrollmentRepo, courseRepo),
		ratings:     NewRatingService(ratingRepo, courseRepo),
		users:       NewUserService(userRepo),
	}
}

func (e *testEnv) register(t *testing.T, name string, role model.UserRole) *model.User {
	t.Helper()
	user, err := e.auth.Register(context.Background(), RegisterInput{
		Name:     name,
		Email:    strings.ToLower(name) + "@example.com",
		Password: "secret-" + name,
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func principalOf(u *model.User) *util.Claims {
	return &util.Claims{UserID: u.ID, Role: u.Role, Email: u.Email}
}

func str(s string) *string { return &s }

func completeFields() CourseFields {
	return CourseFields{
		Title:       str("Go in Production"),
		Category:    str("programming"),
		Description: str("Services, tooling and operations"),
		Price:       str("49.90"),
		Duration:    str("6 weeks"),
	}
}

func (e *testEnv) createCourse(t *testing.T, owner *model.User) *model.Course {
	t.Helper()
	course, err := e.courses.CreateCourse(context.Background(), owner.ID, completeFields(), Attachments{VideoLocation: "/uploads/courses/video/intro.mp4"})
	require.NoError(t, err)
	return course
}

func (e *testEnv) count(t *testing.T, m interface{}, courseID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(m).Where("course_id = ?", courseID).Count(&n).Error)
	return n
}
