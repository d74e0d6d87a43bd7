package service

import (
	"context"
	"course_market_backend/internal/model"
	"course_market_backend/internal/repository"
	"course_market_backend/internal/util"
	"fmt"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

// TotalLearners 学员总数
func (s *UserService) TotalLearners(ctx context.Context) (int64, error) {
	total, err := s.UserRepo.CountByRole(ctx, model.Learner)
	if err != nil {
		return 0, util.Internal(err)
	}
	return total, nil
}

func (s *UserService) DashboardGreeting(principal *util.Claims) (string, error) {
	if err := RequirePrincipal(principal); err != nil {
		return "", err
	}
	return fmt.Sprintf("Welcome %s, you are a %s", principal.Email, principal.Role), nil
}
