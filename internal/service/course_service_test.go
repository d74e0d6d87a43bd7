package service

import (
	"context"
	"errors"
	"testing"

	"course_market_backend/internal/model"
	"course_market_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateCourseRequiresAttachment(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "Ada", model.Instructor)

	_, err := env.courses.CreateCourse(context.Background(), owner.ID, completeFields(), Attachments{})
	assert.ErrorIs(t, err, util.ErrMissingAttachment)
	assert.Equal(t, util.KindValidation, util.KindOf(err))

	var n int64
	require.NoError(t, env.db.Model(&model.Course{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCreateCourseRequiresAllFields(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "Ada", model.Instructor)

	fields := completeFields()
	fields.Duration = str("   ")
	_, err := env.courses.CreateCourse(context.Background(), owner.ID, fields, Attachments{DocumentLocation: "/uploads/a.pdf"})
	assert.ErrorIs(t, err, util.ErrMissingAttachment)

	fields = completeFields()
	fields.Price = str("-3")
	_, err = env.courses.CreateCourse(context.Background(), owner.ID, fields, Attachments{DocumentLocation: "/uploads/a.pdf"})
	assert.Equal(t, util.KindValidation, util.KindOf(err))
}

func TestCreateCourseStoresOwner(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "Ada", model.Instructor)

	course := env.createCourse(t, owner)
	assert.Equal(t, owner.ID, course.InstructorID)
	assert.InDelta(t, 49.90, course.Price, 0.001)
	assert.True(t, course.Published)
	assert.NotEmpty(t, course.VideoLocation)
}

func TestUpdateCourseOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "Ada", model.Instructor)
	other := env.register(t, "Grace", model.Instructor)
	course := env.createCourse(t, owner)

	_, err := env.courses.UpdateCourse(ctx, course.ID, principalOf(other), CourseFields{Title: str("Hijacked")}, Attachments{})
	assert.ErrorIs(t, err, util.ErrNotCourseOwner)

	_, err = env.courses.AuthorizeUpdate(ctx, course.ID, principalOf(other))
	assert.ErrorIs(t, err, util.ErrNotCourseOwner)

	replaced, err := env.courses.UpdateCourse(ctx, course.ID, principalOf(owner), CourseFields{Title: str("Go at Scale")}, Attachments{DocumentLocation: "/uploads/notes.pdf"})
	require.NoError(t, err)
	assert.Empty(t, replaced)

	stored, err := env.courses.CourseRepo.FindByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go at Scale", stored.Title)
	assert.Equal(t, "programming", stored.Category)
	assert.Equal(t, "/uploads/courses/video/intro.mp4", stored.VideoLocation)
	assert.Equal(t, "/uploads/notes.pdf", stored.DocumentLocation)
}

func TestUpdateCourseWithoutOwnershipPolicy(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Policy.EnforceUpdateOwnership = false
	ctx := context.Background()
	owner := env.register(t, "Ada", model.Instructor)
	other := env.register(t, "Grace", model.Instructor)
	course := env.createCourse(t, owner)

	_, err := env.courses.AuthorizeUpdate(ctx, course.ID, principalOf(other))
	require.NoError(t, err)
	_, err = env.courses.UpdateCourse(ctx, course.ID, principalOf(other), CourseFields{Title: str("Renamed")}, Attachments{})
	require.NoError(t, err)

	stored, err := env.courses.CourseRepo.FindByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Title)
	assert.Equal(t, owner.ID, stored.InstructorID)
}

func TestUpdateCourseEdgeCases(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "Ada", model.Instructor)
	course := env.createCourse(t, owner)

	_, err := env.courses.UpdateCourse(ctx, course.ID+100, principalOf(owner), CourseFields{Title: str("x")}, Attachments{})
	assert.ErrorIs(t, err, util.ErrCourseNotFound)

	_, err = env.courses.AuthorizeUpdate(ctx, course.ID+100, principalOf(owner))
	assert.ErrorIs(t, err, util.ErrCourseNotFound)

	_, err = env.courses.UpdateCourse(ctx, course.ID, principalOf(owner), CourseFields{}, Attachments{})
	assert.NoError(t, err)

	_, err = env.courses.UpdateCourse(ctx, course.ID, principalOf(owner), CourseFields{Price: str("abc")}, Attachments{})
	assert.Equal(t, util.KindValidation, util.KindOf(err))

	_, err = env.courses.UpdateCourse(ctx, course.ID, nil, CourseFields{Title: str("x")}, Attachments{})
	assert.Equal(t, util.KindUnauthenticated, util.KindOf(err))

	_, err = env.courses.AuthorizeUpdate(ctx, course.ID, nil)
	assert.Equal(t, util.KindUnauthenticated, util.KindOf(err))
}

func TestUpdateCourseReportsReplacedAttachments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "Ada", model.Instructor)
	course := env.createCourse(t, owner)

	replaced, err := env.courses.UpdateCourse(ctx, course.ID, principalOf(owner), CourseFields{}, Attachments{
		VideoLocation:    "/uploads/courses/video/second.mp4",
		DocumentLocation: "/uploads/courses/document/notes.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/courses/video/intro.mp4"}, replaced)

	replaced, err = env.courses.UpdateCourse(ctx, course.ID, principalOf(owner), CourseFields{}, Attachments{
		DocumentLocation: "/uploads/courses/document/notes-v2.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/courses/document/notes.pdf"}, replaced)
}

func TestDeleteCourseCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "Ada", model.Instructor)
	learner := env.register(t, "Linus", model.Learner)
	course := env.createCourse(t, owner)
	kept := env.createCourse(t, owner)

	_, err := env.enrollments.Enroll(ctx, learner.ID, course.ID)
	require.NoError(t, err)
	_, err = env.enrollments.Enroll(ctx, learner.ID, kept.ID)
	require.NoError(t, err)
	_, err = env.ratings.Rate(ctx, course.ID, learner.ID, 4)
	require.NoError(t, err)

	require.NoError(t, env.courses.DeleteCourse(ctx, course.ID, owner.ID))

	exists, err := env.courses.CourseRepo.Exists(ctx, course.ID)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Zero(t, env.count(t, &model.Enrollment{}, course.ID))
	assert.Zero(t, env.count(t, &model.Rating{}, course.ID))
	assert.Equal(t, int64(1), env.count(t, &model.Enrollment{}, kept.ID))
}

func TestDeleteCourseRollsBackOnFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "Ada", model.Instructor)
	learner := env.register(t, "Linus", model.Learner)
	course := env.createCourse(t, owner)
	_, err := env.enrollments.Enroll(ctx, learner.ID, course.ID)
	require.NoError(t, err)
	_, err = env.ratings.Rate(ctx, course.ID, learner.ID, 4)
	require.NoError(t, err)

	// 评分删除失败时，已删除的报名也要回滚
	require.NoError(t, env.db.Callback().Delete().Before("gorm:delete").Register("fail_rating_delete", func(tx *gorm.DB) {
		if tx.Statement.Table == "ratings" {
			tx.AddError(errors.New("boom"))
		}
	}))

	err = env.courses.DeleteCourse(ctx, course.ID, owner.ID)
	assert.Equal(t, util.KindInternal, util.KindOf(err))

	exists, err := env.courses.CourseRepo.Exists(ctx, course.ID)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, int64(1), env.count(t, &model.Enrollment{}, course.ID))
	assert.Equal(t, int64(1), env.count(t, &model.Rating{}, course.ID))
}

func TestDeleteCourseForbidden(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "Ada", model.Instructor)
	other := env.register(t, "Grace", model.Instructor)
	learner := env.register(t, "Linus", model.Learner)
	course := env.createCourse(t, owner)
	_, err := env.enrollments.Enroll(ctx, learner.ID, course.ID)
	require.NoError(t, err)

	err = env.courses.DeleteCourse(ctx, course.ID, other.ID)
	assert.ErrorIs(t, err, util.ErrNotCourseOwner)
	assert.Equal(t, int64(1), env.count(t, &model.Enrollment{}, course.ID))

	err = env.courses.DeleteCourse(ctx, course.ID+100, owner.ID)
	assert.ErrorIs(t, err, util.ErrNotCourseOwner)
}

func TestListPublishedAggregates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "Ada", model.Instructor)
	learner := env.register(t, "Linus", model.Learner)
	rated := env.createCourse(t, owner)
	unrated := env.createCourse(t, owner)

	for _, v := range []int{3, 4, 5} {
		_, err := env.ratings.Rate(ctx, rated.ID, learner.ID, v)
		require.NoError(t, err)
	}

	courses, err := env.courses.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 2)

	byID := make(map[uint]model.PublicCourse)
	for _, c := range courses {
		byID[c.ID] = c
	}

	require.NotNil(t, byID[rated.ID].Rating)
	assert.InDelta(t, 4.0, *byID[rated.ID].Rating, 1e-9)
	assert.Equal(t, int64(3), byID[rated.ID].RatingCount)
	assert.Equal(t, "Ada", byID[rated.ID].InstructorName)

	assert.Nil(t, byID[unrated.ID].Rating)
	assert.Zero(t, byID[unrated.ID].RatingCount)
}

func TestListAggregatesRounding(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "Ada", model.Instructor)
	learner := env.register(t, "Linus", model.Learner)
	course := env.createCourse(t, owner)

	for _, v := range []int{4, 4, 5} {
		_, err := env.ratings.Rate(ctx, course.ID, learner.ID, v)
		require.NoError(t, err)
	}

	public, err := env.courses.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	require.NotNil(t, public[0].Rating)
	assert.InDelta(t, 4.3, *public[0].Rating, 1e-9)

	mine, err := env.courses.ListByInstructor(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].AverageRating)
	assert.InDelta(t, 13.0/3.0, *mine[0].AverageRating, 1e-9)
}

func TestListByInstructorOnlyOwnCourses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "Ada", model.Instructor)
	other := env.register(t, "Grace", model.Instructor)
	first := env.createCourse(t, owner)
	second := env.createCourse(t, owner)
	env.createCourse(t, other)

	mine, err := env.courses.ListByInstructor(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)
	assert.Nil(t, mine[0].AverageRating)

	none, err := env.courses.ListByInstructor(ctx, 9999)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRoundOneDecimal(t *testing.T) {
	assert.Equal(t, 4.0, roundOneDecimal(4))
	assert.Equal(t, 4.3, roundOneDecimal(13.0/3.0))
	assert.Equal(t, 3.7, roundOneDecimal(11.0/3.0))
	assert.Equal(t, 2.5, roundOneDecimal(2.45000001))
}
