package authservice

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/GlebRadaev/rewardsengine/internal/domain"
	"github.com/GlebRadaev/rewardsengine/pkg/auth"
	"github.com/GlebRadaev/rewardsengine/pkg/clock"
	"github.com/GlebRadaev/rewardsengine/pkg/idgen"
)

//go:generate mockgen -source=authservice.go -destination=mock_authservice.go -package=authservice

// SignUpActivity is granted once to every new account when the catalog has it.
const SignUpActivity = "sign-up"

const tokenTTL = 15 * time.Minute

type Repo interface {
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
}

type Onboarding interface {
	Grant(ctx context.Context, accountID, activityID string, metadata domain.Metadata) (*domain.Grant, error)
}

type Service struct {
	userRepo    Repo
	onboarding  Onboarding
	hashService auth.HashServiceInterface
	jwtService  auth.JWTServiceInterface
	clock       clock.Clock
	ids         idgen.Generator
}

func New(repo Repo, onboarding Onboarding, hashService auth.HashServiceInterface, jwtService auth.JWTServiceInterface, clk clock.Clock, ids idgen.Generator) *Service {
	return &Service{
		userRepo:    repo,
		onboarding:  onboarding,
		hashService: hashService,
		jwtService:  jwtService,
		clock:       clk,
		ids:         ids,
	}
}

func (s *Service) Register(ctx context.Context, login, password string) (*domain.User, error) {
	existingUser, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil {
		zap.L().Error("can't find user: ", zap.Error(err))
		return nil, err
	}
	if existingUser != nil {
		zap.L().Info("user already exists, login: ", zap.String("login", login))
		return nil, domain.ErrLoginTaken
	}
	hashedPassword, err := s.hashService.HashPassword(password)
	if err != nil {
		zap.L().Error("can't hash password: ", zap.Error(err))
		return nil, err
	}
	user := &domain.User{
		ID:           s.ids.NewID(),
		Login:        login,
		PasswordHash: hashedPassword,
		CreatedAt:    s.clock.Now(),
	}
	newUser, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		zap.L().Error("can't create user: ", zap.Error(err))
		return nil, err
	}

	_, err = s.onboarding.Grant(ctx, newUser.ID, SignUpActivity, domain.Metadata{"source": "registration"})
	switch {
	case errors.Is(err, domain.ErrUnknownActivity):
		zap.L().Debug("no sign-up activity in catalog")
	case err != nil:
		zap.L().Error("can't grant sign-up points: ", zap.String("account", newUser.ID), zap.Error(err))
	}

	zap.L().Info("user successfully registered", zap.String("login", login))
	return newUser, nil
}

func (s *Service) Authenticate(ctx context.Context, login, password string) (*domain.User, error) {
	user, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil || user == nil {
		zap.L().Error("invalid credentials", zap.Error(err))
		return nil, domain.ErrInvalidCredentials
	}
	if ok := s.hashService.ComparePassword(user.PasswordHash, password); !ok {
		zap.L().Info("invalid credentials", zap.String("login", login))
		return nil, domain.ErrInvalidCredentials
	}
	zap.L().Info("user successfully authenticated", zap.String("login", login))
	return user, nil
}

func (s *Service) GenerateToken(accountID string) (string, error) {
	token, err := s.jwtService.GenerateJWT(accountID, s.clock.Now().Add(tokenTTL))
	if err != nil {
		zap.L().Error("can't generate token: ", zap.Error(err))
		return "", err
	}
	return token, nil
}
