package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"assetverse/internal/auth"
	apperrors "assetverse/internal/errors"
	"assetverse/internal/model"
	"assetverse/internal/repository"
)

const bcryptCost = 10

// RegisterHRInput is the profile of a new company owner.
type RegisterHRInput struct {
	Name        string
	Email       string
	Password    string
	CompanyName string
	CompanyLogo string
	Photo       string
	DateOfBirth string
}

// RegisterEmployeeInput is the profile of a new employee.
type RegisterEmployeeInput struct {
	Name        string
	Email       string
	Password    string
	Photo       string
	DateOfBirth string
}

// AuthService handles registration, login and token lifecycle.
type AuthService interface {
	RegisterHR(ctx context.Context, in RegisterHRInput) (*model.User, string, error)
	RegisterEmployee(ctx context.Context, in RegisterEmployeeInput) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (string, *model.User, error)
	IssueToken(ctx context.Context, caller auth.Principal, email string) (string, error)
	Logout(ctx context.Context, claims *auth.Claims) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// RegisterHR creates a company owner on the default package.
func (s *authService) RegisterHR(ctx context.Context, in RegisterHRInput) (*model.User, string, error) {
	user := &model.User{
		Name:         in.Name,
		Email:        normalizeEmail(in.Email),
		Role:         model.RoleHR,
		Photo:        in.Photo,
		DateOfBirth:  in.DateOfBirth,
		CompanyName:  in.CompanyName,
		CompanyLogo:  in.CompanyLogo,
		PackageLimit: model.DefaultPackageLimit,
		Subscription: model.SubscriptionBasic,
	}
	return s.register(ctx, user, in.Password)
}

// RegisterEmployee creates an employee not yet affiliated with any company.
func (s *authService) RegisterEmployee(ctx context.Context, in RegisterEmployeeInput) (*model.User, string, error) {
	user := &model.User{
		Name:        in.Name,
		Email:       normalizeEmail(in.Email),
		Role:        model.RoleEmployee,
		Photo:       in.Photo,
		DateOfBirth: in.DateOfBirth,
		Status:      model.MemberStatusPending,
	}
	return s.register(ctx, user, in.Password)
}

func (s *authService) register(ctx context.Context, user *model.User, password string) (*model.User, string, error) {
	existing, err := s.userRepo.FindByEmail(ctx, user.Email)
	if err == nil && existing != nil {
		return nil, "", apperrors.ErrEmailTaken
	}
	if err != nil && !isNotFound(err) {
		return nil, "", fmt.Errorf("check user existence: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hashed)

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", apperrors.ErrEmailTaken
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	log.WithFields(log.Fields{"email": user.Email, "role": user.Role}).Info("user registered")
	return user, token, nil
}

// Login checks the password hash and issues a token.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	return token, user, nil
}

// IssueToken re-issues a token for the caller with the role currently stored.
func (s *authService) IssueToken(ctx context.Context, caller auth.Principal, email string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		email = caller.Email
	}
	if !caller.Can(auth.IsEmail(email)) {
		return "", apperrors.ErrForbidden
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", orNotFound(err, apperrors.ErrUserNotFound)
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}

// Logout revokes the presented token until it would have expired.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return apperrors.ErrUnauthenticated
	}
	return s.tokenStore.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
}
