package service

import (
	"context"
	"strings"
	"time"

	"ai-taskmanager-be/internal/dto"
	"ai-taskmanager-be/internal/entity"
	"ai-taskmanager-be/internal/pkg/apperror"
	"ai-taskmanager-be/internal/pkg/logger"
	"ai-taskmanager-be/internal/pkg/serverutils"
	"ai-taskmanager-be/internal/repository/specification"
	"ai-taskmanager-be/internal/repository/unitofwork"
	"ai-taskmanager-be/pkg/events"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = apperror.Conflict("Пользователь с таким email уже существует")
	ErrInvalidCredentials = apperror.Unauthorized("Неверный email или пароль")
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher events.Publisher
	jwtSecret      string
	tokenTTL       time.Duration
	logger         logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher events.Publisher,
	jwtSecret string,
	tokenTTL time.Duration,
	logger logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		jwtSecret:      jwtSecret,
		tokenTTL:       tokenTTL,
		logger:         logger,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: string(hash),
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("AUTH", "User registered", map[string]interface{}{"user_id": user.Id})
	publish(ctx, s.eventPublisher, s.logger, events.NewUserRegistered(user.Id, user.Email))

	return &dto.RegisterResponse{Id: user.Id, Email: user.Email}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: strings.ToLower(strings.TrimSpace(req.Email))})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := serverutils.GenerateToken(s.jwtSecret, user.Id, user.Email, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User: dto.UserDTO{
			Id:       user.Id,
			Email:    user.Email,
			FullName: user.FullName,
		},
	}, nil
}
