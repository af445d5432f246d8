package service

import (
	"context"
	"testing"
	"time"

	"ai-taskmanager-be/internal/dto"
	"ai-taskmanager-be/internal/pkg/logger"
	"ai-taskmanager-be/internal/pkg/serverutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthServiceRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	db := newFakeDB()
	svc := NewAuthService(db, nil, "secret", time.Hour, logger.NewNopLogger())

	reg, err := svc.Register(ctx, &dto.RegisterRequest{FullName: "Анна", Email: "Anna@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", reg.Email)

	_, err = svc.Register(ctx, &dto.RegisterRequest{FullName: "Анна", Email: "anna@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "anna@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := svc.Login(ctx, &dto.LoginRequest{Email: "anna@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, reg.Id, res.User.Id)

	userId, err := serverutils.ParseToken("secret", res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.Id, userId)

	profile, err := NewUserService(db).GetProfile(ctx, userId)
	require.NoError(t, err)
	assert.Equal(t, "Анна", profile.FullName)

	_, err = NewUserService(db).GetProfile(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
