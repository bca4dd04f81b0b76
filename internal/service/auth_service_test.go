package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"assetverse/internal/auth"
	apperrors "assetverse/internal/errors"
	"assetverse/internal/model"
)

func TestAuthService_RegisterHR(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name: "successful registration",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "hr@acme.io").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name: "email already exists",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "hr@acme.io").Return(&model.User{Email: "hr@acme.io"}, nil)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
		{
			name: "concurrent registration hits unique index",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "hr@acme.io").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret", time.Hour)
			service := NewAuthService(mockRepo, jwtService, new(MockTokenStore))

			user, token, err := service.RegisterHR(context.Background(), RegisterHRInput{
				Name:        "Hannah",
				Email:       " HR@acme.io ",
				Password:    "secret123",
				CompanyName: "Acme",
			})

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "hr@acme.io", user.Email)
				assert.Equal(t, model.RoleHR, user.Role)
				assert.Equal(t, model.DefaultPackageLimit, user.PackageLimit)
				assert.Equal(t, model.SubscriptionBasic, user.Subscription)
				assert.NotEqual(t, "secret123", user.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))

				claims, err := jwtService.ValidateToken(token)
				require.NoError(t, err)
				assert.Equal(t, model.RoleHR, claims.Role)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_RegisterEmployee(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "emp@acme.io").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Role == model.RoleEmployee && u.Status == model.MemberStatusPending && u.CompanyName == ""
	})).Return(nil)

	service := NewAuthService(mockRepo, auth.NewJWTService("test-secret", time.Hour), new(MockTokenStore))
	user, token, err := service.RegisterEmployee(context.Background(), RegisterEmployeeInput{
		Name: "Eve", Email: "emp@acme.io", Password: "secret123",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, model.RoleEmployee, user.Role)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	stored := &model.User{ID: uuid.New(), Email: "emp@acme.io", Role: model.RoleEmployee, PasswordHash: string(hashed)}

	tests := []struct {
		name          string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "emp@acme.io").Return(stored, nil)
			},
		},
		{
			name:     "wrong password",
			password: "password124",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "emp@acme.io").Return(stored, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "emp@acme.io").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := NewAuthService(mockRepo, auth.NewJWTService("test-secret", time.Hour), new(MockTokenStore))
			token, user, err := service.Login(context.Background(), "emp@acme.io", tt.password)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.Equal(t, stored.ID, user.ID)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_IssueToken(t *testing.T) {
	caller := auth.Principal{ID: uuid.New(), Email: "emp@acme.io", Role: model.RoleEmployee}

	t.Run("self re-issue uses stored role", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByEmail", mock.Anything, "emp@acme.io").
			Return(&model.User{ID: caller.ID, Email: "emp@acme.io", Role: model.RoleHR}, nil)

		jwtService := auth.NewJWTService("test-secret", time.Hour)
		service := NewAuthService(mockRepo, jwtService, new(MockTokenStore))

		token, err := service.IssueToken(context.Background(), caller, "emp@acme.io")
		require.NoError(t, err)
		claims, err := jwtService.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, model.RoleHR, claims.Role)
	})

	t.Run("other email is forbidden", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewAuthService(mockRepo, auth.NewJWTService("test-secret", time.Hour), new(MockTokenStore))

		_, err := service.IssueToken(context.Background(), caller, "boss@acme.io")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		mockRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Logout(t *testing.T) {
	store := new(MockTokenStore)
	store.On("Revoke", mock.Anything, "jti-1", mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 50*time.Minute && ttl <= time.Hour
	})).Return(nil)

	service := NewAuthService(new(MockUserRepository), auth.NewJWTService("test-secret", time.Hour), store)
	claims := &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        "jti-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}

	require.NoError(t, service.Logout(context.Background(), claims))
	store.AssertExpectations(t)

	assert.ErrorIs(t, service.Logout(context.Background(), nil), apperrors.ErrUnauthenticated)
}

func TestAuthService_LogoutStoreFailure(t *testing.T) {
	store := new(MockTokenStore)
	store.On("Revoke", mock.Anything, "jti-2", mock.Anything).Return(apperrors.ErrFeatureDisabled)

	service := NewAuthService(new(MockUserRepository), auth.NewJWTService("test-secret", time.Hour), store)
	claims := &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        "jti-2",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}

	assert.ErrorIs(t, service.Logout(context.Background(), claims), apperrors.ErrFeatureDisabled)
}
