package service

import (
	"context"
	"course_market_backend/internal/config"
	"course_market_backend/internal/model"
	"course_market_backend/internal/repository"
	"course_market_backend/internal/util"
	"course_market_backend/pkg/monitoring"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     model.UserRole
}

type LoginResult struct {
	Token string
	User  *model.User
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" || in.Role == "" {
		return nil, util.Validation("All fields are required")
	}
	if !in.Role.Valid() {
		return nil, util.Validation("Role must be learner or instructor")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, util.Internal(err)
	}

	user := &model.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hashedPassword),
		Role:     in.Role,
	}

	if err := s.UserRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			monitoring.AuthCounter.WithLabelValues("register", "conflict").Inc()
			return nil, util.ErrEmailRegistered
		}
		return nil, util.Internal(err)
	}

	monitoring.AuthCounter.WithLabelValues("register", "ok").Inc()
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string, role model.UserRole) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" || role == "" {
		return nil, util.Validation("All fields are required")
	}

	// 邮箱存在但角色不符与账号不存在返回同一错误
	user, err := s.UserRepo.FindByEmailAndRole(ctx, email, role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			monitoring.AuthCounter.WithLabelValues("login", "no_match").Inc()
			return nil, util.ErrNoMatchingUser
		}
		return nil, util.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		monitoring.AuthCounter.WithLabelValues("login", "bad_credential").Inc()
		return nil, util.ErrInvalidPassword
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, util.Internal(err)
	}

	monitoring.AuthCounter.WithLabelValues("login", "ok").Inc()
	return &LoginResult{Token: token, User: user}, nil
}

// VerifyToken 缺失或格式错误 → Unauthenticated；签名错误、过期等 → Forbidden
func (s *AuthService) VerifyToken(token string) (*util.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, util.ErrTokenMissing
	}

	claims, err := util.ParseJWT(token, s.Cfg.JWT.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, util.ErrTokenMissing
		}
		return nil, util.ErrTokenRejected
	}
	return claims, nil
}
