package service

import (
	"context"
	"testing"
	"time"

	"course_market_backend/internal/model"
	"course_market_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterHashesPassword(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "Ada", model.Instructor)

	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "secret-Ada", user.Password)
	assert.Equal(t, "ada@example.com", user.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	first := env.register(t, "Ada", model.Instructor)

	_, err := env.auth.Register(ctx, RegisterInput{Name: "Other", Email: "ADA@example.com", Password: "x", Role: model.Learner})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
	assert.Equal(t, util.KindConflict, util.KindOf(err))

	stored, err := env.auth.UserRepo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", stored.Name)
	assert.Equal(t, model.Instructor, stored.Role)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Role: model.Learner})
	assert.Equal(t, util.KindValidation, util.KindOf(err))

	_, err = env.auth.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "x", Role: "admin"})
	assert.Equal(t, util.KindValidation, util.KindOf(err))
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.register(t, "Ada", model.Instructor)

	result, err := env.auth.Login(ctx, "ada@example.com", "secret-Ada", model.Instructor)
	require.NoError(t, err)
	assert.Equal(t, "Ada", result.User.Name)

	claims, err := env.auth.VerifyToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.Instructor, claims.Role)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestLoginRoleMismatchIsNoMatch(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Ada", model.Instructor)

	result, err := env.auth.Login(context.Background(), "ada@example.com", "secret-Ada", model.Learner)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, util.ErrNoMatchingUser)

	_, err = env.auth.Login(context.Background(), "nobody@example.com", "secret-Ada", model.Learner)
	assert.ErrorIs(t, err, util.ErrNoMatchingUser)
}

func TestLoginBadPassword(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Ada", model.Instructor)

	_, err := env.auth.Login(context.Background(), "ada@example.com", "wrong", model.Instructor)
	assert.ErrorIs(t, err, util.ErrInvalidPassword)
	assert.Equal(t, util.KindAuthFailure, util.KindOf(err))
}

func TestVerifyTokenFailures(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "Ada", model.Learner)

	_, err := env.auth.VerifyToken("")
	assert.Equal(t, util.KindUnauthenticated, util.KindOf(err))

	_, err = env.auth.VerifyToken("garbage")
	assert.Equal(t, util.KindUnauthenticated, util.KindOf(err))

	forged, err := util.GenerateJWT(user, "someone-else", time.Hour)
	require.NoError(t, err)
	_, err = env.auth.VerifyToken(forged)
	assert.Equal(t, util.KindForbidden, util.KindOf(err))

	expired, err := util.GenerateJWT(user, env.cfg.JWT.Secret, -time.Minute)
	require.NoError(t, err)
	_, err = env.auth.VerifyToken(expired)
	assert.Equal(t, util.KindForbidden, util.KindOf(err))
}
