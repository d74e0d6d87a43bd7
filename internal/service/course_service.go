package service

import (
	"context"
	"course_market_backend/internal/config"
	"course_market_backend/internal/model"
	"course_market_backend/internal/repository"
	"course_market_backend/internal/util"
	"course_market_backend/pkg/logger"
	"course_market_backend/pkg/monitoring"
	"course_market_backend/pkg/tracing"
	"errors"
	"math"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo *repository.CourseRepository
	RatingRepo *repository.RatingRepository
	Cfg        *config.Config
}

func NewCourseService(courseRepo *repository.CourseRepository, ratingRepo *repository.RatingRepository, cfg *config.Config) *CourseService {
	return &CourseService{
		CourseRepo: courseRepo,
		RatingRepo: ratingRepo,
		Cfg:        cfg,
	}
}

// CourseFields 课程文本字段，nil 或空串表示未提供
type CourseFields struct {
	Title       *string
	Category    *string
	Description *string
	Price       *string
	Duration    *string
}

// Attachments 上传组件返回的附件位置，空串表示未提供
type Attachments struct {
	VideoLocation    string
	DocumentLocation string
}

func supplied(v *string) (string, bool) {
	if v == nil {
		return "", false
	}
	s := strings.TrimSpace(*v)
	return s, s != ""
}

// ValidateNewCourse 创建前校验：文本字段齐全且至少有一个附件
// 控制器在上传附件前调用
func ValidateNewCourse(fields CourseFields, hasVideo, hasDocument bool) error {
	for _, v := range []*string{fields.Title, fields.Category, fields.Description, fields.Price, fields.Duration} {
		if _, ok := supplied(v); !ok {
			return util.ErrMissingAttachment
		}
	}
	if !hasVideo && !hasDocument {
		return util.ErrMissingAttachment
	}
	price, _ := supplied(fields.Price)
	if _, ok := util.ParsePrice(price); !ok {
		return util.Validation("Price must be a non-negative number")
	}
	return nil
}

func (s *CourseService) CreateCourse(ctx context.Context, ownerID uint, fields CourseFields, att Attachments) (*model.Course, error) {
	if err := ValidateNewCourse(fields, att.VideoLocation != "", att.DocumentLocation != ""); err != nil {
		return nil, err
	}

	title, _ := supplied(fields.Title)
	category, _ := supplied(fields.Category)
	description, _ := supplied(fields.Description)
	priceText, _ := supplied(fields.Price)
	duration, _ := supplied(fields.Duration)
	price, _ := util.ParsePrice(priceText)

	course := &model.Course{
		Title:            title,
		Category:         category,
		Description:      description,
		Price:            price,
		Duration:         duration,
		InstructorID:     ownerID,
		VideoLocation:    att.VideoLocation,
		DocumentLocation: att.DocumentLocation,
		Published:        true,
	}

	if err := s.CourseRepo.Create(ctx, course); err != nil {
		return nil, util.Internal(err)
	}

	monitoring.CourseEvents.WithLabelValues("create").Inc()
	logger.Log.Info("Course created", zap.Uint("course_id", course.ID), zap.Uint("instructor_id", ownerID))
	return course, nil
}

// AuthorizeUpdate 上传附件之前确认课程存在且请求者可以修改
func (s *CourseService) AuthorizeUpdate(ctx context.Context, id uint, requester *util.Claims) (*model.Course, error) {
	if err := RequirePrincipal(requester); err != nil {
		return nil, err
	}

	course, err := s.CourseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, util.Internal(err)
	}

	if s.Cfg.Policy.EnforceUpdateOwnership && !IsOwner(course, requester) {
		return nil, util.ErrNotCourseOwner
	}
	return course, nil
}

// UpdateCourse 仅写入提供的字段与附件，返回被新附件替换掉的旧地址
func (s *CourseService) UpdateCourse(ctx context.Context, id uint, requester *util.Claims, fields CourseFields, att Attachments) ([]string, error) {
	if err := RequirePrincipal(requester); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if v, ok := supplied(fields.Title); ok {
		updates["title"] = v
	}
	if v, ok := supplied(fields.Category); ok {
		updates["category"] = v
	}
	if v, ok := supplied(fields.Description); ok {
		updates["description"] = v
	}
	if v, ok := supplied(fields.Price); ok {
		price, valid := util.ParsePrice(v)
		if !valid {
			return nil, util.Validation("Price must be a non-negative number")
		}
		updates["price"] = price
	}
	if v, ok := supplied(fields.Duration); ok {
		updates["duration"] = v
	}
	if att.VideoLocation != "" {
		updates["video_location"] = att.VideoLocation
	}
	if att.DocumentLocation != "" {
		updates["document_location"] = att.DocumentLocation
	}

	course, err := s.AuthorizeUpdate(ctx, id, requester)
	if err != nil {
		return nil, err
	}

	if len(updates) == 0 {
		return nil, nil
	}

	if err := s.CourseRepo.UpdateFields(ctx, id, updates); err != nil {
		return nil, util.Internal(err)
	}

	var replaced []string
	if att.VideoLocation != "" && course.VideoLocation != "" && course.VideoLocation != att.VideoLocation {
		replaced = append(replaced, course.VideoLocation)
	}
	if att.DocumentLocation != "" && course.DocumentLocation != "" && course.DocumentLocation != att.DocumentLocation {
		replaced = append(replaced, course.DocumentLocation)
	}

	monitoring.CourseEvents.WithLabelValues("update").Inc()
	return replaced, nil
}

// DeleteCourse 非课程所有者（含课程不存在）返回 Forbidden；级联删除在单个事务中完成
func (s *CourseService) DeleteCourse(ctx context.Context, id uint, requesterID uint) error {
	ctx, span := tracing.StartSpan(ctx, "CourseService.DeleteCourse",
		attribute.Int64("course.id", int64(id)),
		attribute.Int64("requester.id", int64(requesterID)),
	)
	defer span.End()

	if err := s.CourseRepo.DeleteOwned(ctx, id, requesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotCourseOwner
		}
		span.RecordError(err)
		return util.Internal(err)
	}

	monitoring.CourseEvents.WithLabelValues("delete").Inc()
	logger.Log.Info("Course deleted", zap.Uint("course_id", id), zap.Uint("instructor_id", requesterID))
	return nil
}

// roundOneDecimal 保留一位小数
func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

func (s *CourseService) ListPublished(ctx context.Context) ([]model.PublicCourse, error) {
	courses, err := s.CourseRepo.FindPublishedWithInstructor(ctx)
	if err != nil {
		return nil, util.Internal(err)
	}

	ids := make([]uint, len(courses))
	for i := range courses {
		ids[i] = courses[i].ID
	}

	aggregates, err := s.RatingRepo.AggregateByCourses(ctx, ids)
	if err != nil {
		return nil, util.Internal(err)
	}

	for i := range courses {
		if agg, ok := aggregates[courses[i].ID]; ok && agg.Count > 0 {
			rating := roundOneDecimal(agg.Average)
			courses[i].Rating = &rating
			courses[i].RatingCount = agg.Count
		}
	}

	if courses == nil {
		courses = []model.PublicCourse{}
	}
	return courses, nil
}

func (s *CourseService) ListByInstructor(ctx context.Context, ownerID uint) ([]model.InstructorCourse, error) {
	courses, err := s.CourseRepo.FindByInstructor(ctx, ownerID)
	if err != nil {
		return nil, util.Internal(err)
	}

	ids := make([]uint, len(courses))
	for i := range courses {
		ids[i] = courses[i].ID
	}

	aggregates, err := s.RatingRepo.AggregateByCourses(ctx, ids)
	if err != nil {
		return nil, util.Internal(err)
	}

	result := make([]model.InstructorCourse, len(courses))
	for i, course := range courses {
		result[i] = model.InstructorCourse{Course: course}
		if agg, ok := aggregates[course.ID]; ok && agg.Count > 0 {
			average := agg.Average
			result[i].AverageRating = &average
			result[i].RatingCount = agg.Count
		}
	}
	return result, nil
}
